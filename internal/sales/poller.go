package sales

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tierraquerida/tq-admin/internal/repository"
	"github.com/tierraquerida/tq-admin/internal/sse"
)

var salesLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	salesLogger = l
}

// Poller watches pedido_items for new rows and pushes a refresh event to
// the dashboards streaming that store. It keeps a high-water mark so each
// order line is announced at most once.
type Poller struct {
	repo    *repository.SalesRepository
	clients *sse.SSEClients

	mu   sync.Mutex
	mark time.Time
}

func NewPoller(repo *repository.SalesRepository, clients *sse.SSEClients) *Poller {
	return &Poller{repo: repo, clients: clients}
}

// Poll runs one cycle. The first cycle only records the current mark so
// a restart doesn't replay history at every open dashboard.
func (p *Poller) Poll(ctx context.Context) {
	latest, err := p.repo.LatestCreatedAt(ctx)
	if err != nil {
		salesLogger.Error().Err(err).Msg("Sales poll failed")
		return
	}

	p.mu.Lock()
	mark := p.mark
	if latest.After(p.mark) {
		p.mark = latest
	}
	p.mu.Unlock()

	if mark.IsZero() || !latest.After(mark) {
		return
	}

	stores, err := p.repo.StoresWithSalesSince(ctx, mark)
	if err != nil {
		salesLogger.Error().Err(err).Msg("Sales poll store scan failed")
		return
	}

	for _, storeID := range stores {
		msg, err := json.Marshal(map[string]any{"pv_id": storeID, "ts": latest})
		if err != nil {
			continue
		}
		p.clients.Broadcast(storeID, string(msg))
	}
	salesLogger.Debug().Int("stores", len(stores)).Time("mark", latest).Msg("Sales update broadcast")
}
