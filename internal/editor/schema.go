package editor

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the wire type of an editable field. Coercion is deliberately
// forgiving at edit time; validation only happens on save.
type Kind int

const (
	Text Kind = iota
	Number
	Bool
)

// Field describes one editable field of a record. Apply receives the
// already-coerced value: string for Text, float64 for Number, bool for
// Bool. Empty reports whether the field would fail a required check.
type Field[R Record] struct {
	Kind     Kind
	Label    string
	Required bool
	Apply    func(r *R, v any)
	Empty    func(r R) bool
}

// Schema is the single coercion/validation table for one entity. Both
// Edit and Save consult it, so per-field rules live in exactly one place.
type Schema[R Record] struct {
	Fields map[string]Field[R]

	// Normalize runs right before save-time validation, typically to trim
	// free-text fields. Edits keep raw keystrokes untouched.
	Normalize func(r *R)
}

// ValidationError is a save-time failure on a single field. It is local
// and non-destructive: the draft that produced it stays intact.
type ValidationError struct {
	Field string
	Label string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s es obligatorio", e.Label)
}

func (s Schema[R]) apply(r *R, name string, value any) error {
	f, ok := s.Fields[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	switch f.Kind {
	case Number:
		f.Apply(r, coerceNumber(value))
	case Bool:
		f.Apply(r, coerceBool(value))
	default:
		f.Apply(r, coerceText(value))
	}
	return nil
}

func (s Schema[R]) validate(r R) error {
	for name, f := range s.Fields {
		if f.Required && f.Empty != nil && f.Empty(r) {
			return &ValidationError{Field: name, Label: f.Label}
		}
	}
	return nil
}

// coerceNumber parses anything number-shaped, falling back to 0 the way
// the panel's forms always have.
func coerceNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case int:
		return b != 0
	case int64:
		return b != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "on", "yes":
			return true
		}
		return false
	default:
		return false
	}
}

func coerceText(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
