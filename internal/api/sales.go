package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tierraquerida/tq-admin/internal/config"
	"github.com/tierraquerida/tq-admin/internal/repository"
	"github.com/tierraquerida/tq-admin/internal/sales"
	"github.com/tierraquerida/tq-admin/internal/sse"
	"github.com/tierraquerida/tq-admin/internal/util/compression"
)

// SalesHandler serves the aggregated sales widgets: the all-stores
// summary, the per-store breakdown, the CSV export and the live stream.
type SalesHandler struct {
	repo    *repository.SalesRepository
	clients *sse.SSEClients
	loc     *time.Location
}

func NewSalesHandler(repo *repository.SalesRepository, clients *sse.SSEClients, loc *time.Location) *SalesHandler {
	if loc == nil {
		loc = time.Local
	}
	return &SalesHandler{repo: repo, clients: clients, loc: loc}
}

func (h *SalesHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/pv/sales/summary", h.handleSummary)
	mux.HandleFunc("GET /api/admin/pv/{id}/sales", h.handleStoreSales)
	mux.HandleFunc("GET /api/admin/pv/{id}/sales-ts", h.handleStoreSalesTS)
	mux.HandleFunc("GET /api/admin/sales/export", h.handleExport)
	mux.HandleFunc("GET /api/admin/sales/stream", h.handleStream)
}

func (h *SalesHandler) window(r *http.Request) (time.Time, time.Time) {
	q := r.URL.Query()
	return sales.Window(q.Get("from"), q.Get("to"), h.loc)
}

// tsWindow reads exact RFC3339 bounds instead of whole calendar days.
// Malformed or absent values leave that side unbounded, like the date
// window does.
func (h *SalesHandler) tsWindow(r *http.Request) (time.Time, time.Time) {
	q := r.URL.Query()
	var start, end time.Time
	if t, err := time.Parse(time.RFC3339, q.Get("from_ts")); err == nil {
		start = t
	}
	if t, err := time.Parse(time.RFC3339, q.Get("to_ts")); err == nil {
		end = t
	}
	return start, end
}

func (h *SalesHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	start, end := h.window(r)
	lines, err := h.repo.ItemsAll(r.Context(), start, end)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Sales summary failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"report": sales.Aggregate(lines)})
}

func (h *SalesHandler) handleStoreSales(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	start, end := h.window(r)
	lines, err := h.repo.ItemsForStore(r.Context(), id, start, end)
	if err != nil {
		apiLogger.Error().Err(err).Int64("pv", id).Msg("Store sales failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"report": sales.Aggregate(lines)})
}

// handleStoreSalesTS reports one store's sales between exact timestamps.
// The shift dashboard uses it to cut a report at open/close time rather
// than at midnight.
func (h *SalesHandler) handleStoreSalesTS(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	start, end := h.tsWindow(r)
	lines, err := h.repo.ItemsForStore(r.Context(), id, start, end)
	if err != nil {
		apiLogger.Error().Err(err).Int64("pv", id).Msg("Store sales by timestamp failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	writeOK(w, map[string]any{"report": sales.Aggregate(lines)})
}

// handleExport streams the per-product breakdown as a zstd-compressed
// CSV download.
func (h *SalesHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	start, end := h.window(r)
	lines, err := h.repo.ItemsAll(r.Context(), start, end)
	if err != nil {
		apiLogger.Error().Err(err).Msg("Sales export failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}
	report := sales.Aggregate(lines)

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Write([]string{"product_id", "name", "qty", "revenue"})
	for _, item := range report.Items {
		cw.Write([]string{
			strconv.FormatInt(item.ProductID, 10),
			item.Name,
			strconv.FormatInt(item.Qty, 10),
			strconv.FormatFloat(item.Revenue, 'f', 2, 64),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		apiLogger.Error().Err(err).Msg("CSV encoding failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}

	compressed, err := compression.ZstdCompressor{}.Compress(buf.Bytes())
	if err != nil {
		apiLogger.Error().Err(err).Msg("CSV compression failed")
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}

	w.Header().Set(config.HCType, config.CTypeCSV)
	w.Header().Set(config.HContentEncoding, "zstd")
	w.Header().Set("Content-Disposition", `attachment; filename="ventas.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(compressed)
}

// handleStream is the live sales feed. ?pv=ID narrows the stream to one
// store; without it the client hears about every store.
func (h *SalesHandler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, config.ErrInternalGeneric)
		return
	}

	var storeID int64
	if pv := r.URL.Query().Get("pv"); pv != "" {
		id, err := strconv.ParseInt(pv, 10, 64)
		if err != nil || id < 0 {
			writeError(w, http.StatusBadRequest, config.ErrInvalidID)
			return
		}
		storeID = id
	}

	client := &sse.Client{Msg: make(chan string, 8), StoreID: storeID}
	h.clients.Add(client)
	defer h.clients.Delete(client)

	w.Header().Set(config.HCType, "text/event-stream")
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, open := <-client.Msg:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: sales\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
