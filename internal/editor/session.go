// Package editor implements the draft/dirty editing model behind every
// panel editor: browse a filtered collection, edit one record at a time,
// keep unsaved changes per record, and commit or discard them explicitly.
// Nothing here touches HTTP or SQL; collaborators come in through the
// Collection and Confirmer interfaces.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var editorLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	editorLogger = l
}

var (
	ErrNotFound        = errors.New("record not found")
	ErrNotVisible      = errors.New("record not visible under active filter")
	ErrNothingToSave   = errors.New("nothing to save")
	ErrDeclined        = errors.New("operator declined")
	ErrConfirmRequired = errors.New("confirmation required")
	ErrUnknownField    = errors.New("unknown field")
)

// Record is any entity with a stable numeric identifier.
type Record interface {
	RecordID() int64
}

// Collection is the resource collection a session edits against.
// Create and Update must return the canonical persisted record; the
// session uses it to reconcile its cache. Delete fully succeeds or fully
// fails.
type Collection[R Record] interface {
	List(ctx context.Context) ([]R, error)
	Create(ctx context.Context, r R) (R, error)
	Update(ctx context.Context, id int64, r R) (R, error)
	Delete(ctx context.Context, id int64) error
}

// Filter narrows the visible record set. Empty values mean "all".
// Visibility is always computed from base records, never from drafts.
type Filter struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Active   string `json:"active"`
}

func (f Filter) normalized() Filter {
	if f.Category == "" {
		f.Category = "all"
	}
	if f.Active == "" {
		f.Active = "all"
	}
	return f
}

// Options wires a session to one entity type.
type Options[R Record] struct {
	Collection Collection[R]
	Schema     Schema[R]
	Confirm    Confirmer

	// Match applies the filter to one record.
	Match func(r R, f Filter) bool
	// SortKey yields the string the visible list is ordered by.
	SortKey func(r R) string
	// Cleanup, when set, runs after a successful delete. Its failure is a
	// warning, never a rollback.
	Cleanup func(ctx context.Context, r R) error
}

type draft[R Record] struct {
	rec R
	// gen increments on every edit. A completing save clears the draft
	// only when gen still matches its snapshot, so a late completion can
	// never erase newer edits.
	gen uint64
}

// Session holds the editing state for one operator and one collection.
// All state is guarded by mu; collaborator calls happen with it released.
type Session[R Record] struct {
	mu   sync.Mutex
	opts Options[R]

	collator *collate.Collator

	records  map[int64]R
	drafts   map[int64]*draft[R]
	selected int64
	filter   Filter
}

type ctxKey int

const confirmerKey ctxKey = iota

// WithConfirmer attaches a request-scoped confirmer. The HTTP layer uses
// it so one long-lived session can resolve prompts per request.
func WithConfirmer(ctx context.Context, c Confirmer) context.Context {
	return context.WithValue(ctx, confirmerKey, c)
}

func (s *Session[R]) confirmer(ctx context.Context) Confirmer {
	if c, ok := ctx.Value(confirmerKey).(Confirmer); ok {
		return c
	}
	return s.opts.Confirm
}

func NewSession[R Record](opts Options[R]) *Session[R] {
	if opts.Confirm == nil {
		opts.Confirm = StaticConfirmer(true)
	}
	return &Session[R]{
		opts: opts,
		// The panel's lists sort like the browser did: Spanish locale,
		// base sensitivity.
		collator: collate.New(language.Spanish, collate.Loose),
		records:  make(map[int64]R),
		drafts:   make(map[int64]*draft[R]),
		filter:   Filter{}.normalized(),
	}
}

// Reload refreshes the base records from the collection. Drafts survive a
// reload unless their record vanished server-side; a selection that no
// longer exists or is no longer visible is cleared.
func (s *Session[R]) Reload(ctx context.Context) error {
	items, err := s.opts.Collection.List(ctx)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[int64]R, len(items))
	for _, it := range items {
		s.records[it.RecordID()] = it
	}
	for id := range s.drafts {
		if _, ok := s.records[id]; !ok {
			delete(s.drafts, id)
		}
	}
	if s.selected != 0 {
		if _, ok := s.records[s.selected]; !ok {
			s.selected = 0
		}
	}
	return nil
}

// Visible returns the records matching the active filter, sorted with the
// Spanish collator over SortKey.
func (s *Session[R]) Visible() []R {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

func (s *Session[R]) visibleLocked() []R {
	out := make([]R, 0, len(s.records))
	for _, r := range s.records {
		if s.opts.Match == nil || s.opts.Match(r, s.filter) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.collator.CompareString(s.opts.SortKey(out[i]), s.opts.SortKey(out[j])) < 0
	})
	return out
}

func (s *Session[R]) Selected() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Session[R]) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Effective returns the draft for id when one exists, else the base
// record. This is what the editor panel renders and what Save submits.
func (s *Session[R]) Effective(id int64) (R, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveLocked(id)
}

func (s *Session[R]) effectiveLocked(id int64) (R, bool) {
	if d, ok := s.drafts[id]; ok {
		return d.rec, true
	}
	if r, ok := s.records[id]; ok {
		return r, true
	}
	var zero R
	return zero, false
}

// DirtyIDs returns the ids currently holding a draft, ascending.
func (s *Session[R]) DirtyIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.drafts))
	for id := range s.drafts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Session[R]) IsDirty(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.drafts[id]
	return ok
}

// Select makes id the record being edited. When the current selection has
// unsaved changes the operator must confirm discarding them first;
// declining leaves selection and draft untouched.
func (s *Session[R]) Select(ctx context.Context, id int64) error {
	s.mu.Lock()
	if id == s.selected {
		s.mu.Unlock()
		return nil
	}
	if _, ok := s.records[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	visible := false
	for _, r := range s.visibleLocked() {
		if r.RecordID() == id {
			visible = true
			break
		}
	}
	if !visible {
		s.mu.Unlock()
		return ErrNotVisible
	}

	prev := s.selected
	_, prevDirty := s.drafts[prev]
	s.mu.Unlock()

	if prev != 0 && prevDirty {
		ok, err := s.confirmer(ctx).Confirm(ctx, Prompt{
			Title:       "Tienes cambios sin guardar",
			Desc:        "Si cambias de registro, se descartarán los cambios del registro actual.",
			ConfirmText: "Descartar y cambiar",
			CancelText:  "Cancelar",
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrDeclined
		}
		s.mu.Lock()
		delete(s.drafts, prev)
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
	return nil
}

// Edit merges one field change into id's draft, creating the draft from
// the base record on first edit. Values are coerced by the schema; there
// is no validation here, that happens at save time.
func (s *Session[R]) Edit(id int64, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := s.effectiveLocked(id)
	if !ok {
		return ErrNotFound
	}
	if err := s.opts.Schema.apply(&next, field, value); err != nil {
		return err
	}

	if d, ok := s.drafts[id]; ok {
		d.rec = next
		d.gen++
	} else {
		s.drafts[id] = &draft[R]{rec: next, gen: 1}
	}
	return nil
}

// Save submits id's draft to the collection. On success the base record
// is replaced with the server's canonical copy and the draft is cleared,
// unless the operator kept editing while the save was in flight, in which
// case the newer draft stays. On any failure the draft is untouched.
func (s *Session[R]) Save(ctx context.Context, id int64) (R, error) {
	var zero R

	s.mu.Lock()
	d, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return zero, ErrNothingToSave
	}
	snapshot := d.rec
	snapshotGen := d.gen
	if s.opts.Schema.Normalize != nil {
		s.opts.Schema.Normalize(&snapshot)
	}
	if err := s.opts.Schema.validate(snapshot); err != nil {
		s.mu.Unlock()
		return zero, err
	}
	s.mu.Unlock()

	canonical, err := s.opts.Collection.Update(ctx, id, snapshot)
	if err != nil {
		return zero, fmt.Errorf("saving record %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = canonical
	if d2, ok := s.drafts[id]; ok && d2.gen == snapshotGen {
		delete(s.drafts, id)
	} else if ok {
		editorLogger.Debug().Int64("id", id).Msg("Draft edited during save, keeping newer changes")
	}
	return canonical, nil
}

// Discard drops id's draft unconditionally. Callers confirm first; the
// session never discards silently on its own.
func (s *Session[R]) Discard(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}

// Delete removes the record after operator confirmation. A transport
// failure leaves all local state unchanged. Cleanup failures come back as
// warnings because the primary delete already happened.
func (s *Session[R]) Delete(ctx context.Context, id int64) ([]string, error) {
	s.mu.Lock()
	rec, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	s.mu.Unlock()

	ok, err := s.confirmer(ctx).Confirm(ctx, Prompt{
		Title:       "Eliminar registro",
		Desc:        "Esta acción no se puede deshacer.",
		ConfirmText: "Eliminar",
		CancelText:  "Cancelar",
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDeclined
	}

	if err := s.opts.Collection.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("deleting record %d: %w", id, err)
	}

	s.mu.Lock()
	delete(s.records, id)
	delete(s.drafts, id)
	if s.selected == id {
		s.selected = 0
	}
	s.mu.Unlock()

	var warnings []string
	if s.opts.Cleanup != nil {
		if err := s.opts.Cleanup(ctx, rec); err != nil {
			editorLogger.Warn().Err(err).Int64("id", id).Msg("Post-delete cleanup failed")
			warnings = append(warnings, err.Error())
		}
	}
	return warnings, nil
}

// Create inserts a new record and caches the canonical copy.
func (s *Session[R]) Create(ctx context.Context, r R) (R, error) {
	var zero R

	next := r
	if s.opts.Schema.Normalize != nil {
		s.opts.Schema.Normalize(&next)
	}
	if err := s.opts.Schema.validate(next); err != nil {
		return zero, err
	}

	canonical, err := s.opts.Collection.Create(ctx, next)
	if err != nil {
		return zero, fmt.Errorf("creating record: %w", err)
	}

	s.mu.Lock()
	s.records[canonical.RecordID()] = canonical
	s.mu.Unlock()
	return canonical, nil
}

// SetFilter changes the visible set. Like Select, it is confirm-gated
// when the current selection is dirty, because a new filter can hide the
// record being edited.
func (s *Session[R]) SetFilter(ctx context.Context, f Filter) error {
	f = f.normalized()

	s.mu.Lock()
	if f == s.filter {
		s.mu.Unlock()
		return nil
	}
	sel := s.selected
	_, selDirty := s.drafts[sel]
	s.mu.Unlock()

	if sel != 0 && selDirty {
		ok, err := s.confirmer(ctx).Confirm(ctx, Prompt{
			Title:       "Tienes cambios sin guardar",
			Desc:        "Cambiar el filtro puede ocultar el registro actual. ¿Deseas descartar los cambios?",
			ConfirmText: "Descartar y cambiar",
			CancelText:  "Cancelar",
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrDeclined
		}
		s.mu.Lock()
		delete(s.drafts, sel)
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	if s.selected != 0 {
		stillVisible := false
		for _, r := range s.visibleLocked() {
			if r.RecordID() == s.selected {
				stillVisible = true
				break
			}
		}
		if !stillVisible {
			s.selected = 0
		}
	}
	return nil
}

// Leave is the navigation-away guard: with any unsaved draft it blocks
// until the operator confirms, then drops everything.
func (s *Session[R]) Leave(ctx context.Context) error {
	s.mu.Lock()
	dirty := len(s.drafts)
	s.mu.Unlock()

	if dirty == 0 {
		return nil
	}

	ok, err := s.confirmer(ctx).Confirm(ctx, Prompt{
		Title:       "Tienes cambios sin guardar",
		Desc:        "Si sales ahora se perderán los cambios pendientes.",
		ConfirmText: "Salir de todos modos",
		CancelText:  "Cancelar",
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = make(map[int64]*draft[R])
	return nil
}
