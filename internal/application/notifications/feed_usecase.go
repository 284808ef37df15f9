package notifications

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// FeedUseCase combina las notificaciones empujadas (buffer acotado por empresa) con
// las ventas y movimientos recientes leídos del repositorio.
type FeedUseCase struct {
	sales     repository.SaleRepository
	movements repository.InventoryMovementRepository
	capacity  int
	log       zerolog.Logger

	mu     sync.Mutex
	pushed map[string][]entity.Notification // por empresa, la más reciente al final
}

// NewFeedUseCase construye el feed. capacity ≤ 0 usa maxFeedLimit.
func NewFeedUseCase(sales repository.SaleRepository, movements repository.InventoryMovementRepository, capacity int, log zerolog.Logger) *FeedUseCase {
	if capacity <= 0 {
		capacity = maxFeedLimit
	}
	return &FeedUseCase{
		sales:     sales,
		movements: movements,
		capacity:  capacity,
		log:       log,
		pushed:    make(map[string][]entity.Notification),
	}
}

// Push agrega una notificación al buffer de su empresa, descartando la más antigua si está lleno.
func (uc *FeedUseCase) Push(n entity.Notification) {
	if n.CompanyID == "" || n.ID == "" {
		return
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	buf := append(uc.pushed[n.CompanyID], n)
	if len(buf) > uc.capacity {
		buf = buf[len(buf)-uc.capacity:]
	}
	uc.pushed[n.CompanyID] = buf
}

// Run consume el bus hasta que ctx termine.
func (uc *FeedUseCase) Run(ctx context.Context, bus Bus) error {
	uc.log.Info().Msg("feed de notificaciones suscrito al bus")
	return bus.Subscribe(ctx, uc.Push)
}

// Feed devuelve las notificaciones más recientes de la empresa.
func (uc *FeedUseCase) Feed(ctx context.Context, companyID string, limit int) (*dto.NotificationFeedResponse, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	polled, err := uc.poll(ctx, companyID, limit)
	if err != nil {
		return nil, err
	}
	uc.mu.Lock()
	pushed := append([]entity.Notification(nil), uc.pushed[companyID]...)
	uc.mu.Unlock()

	merged := Merge(pushed, polled, limit)
	items := make([]dto.NotificationDTO, 0, len(merged))
	for _, n := range merged {
		items = append(items, dto.NotificationDTO{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			RefID:     n.RefID,
			CreatedAt: n.CreatedAt,
		})
	}
	return &dto.NotificationFeedResponse{Items: items}, nil
}

func (uc *FeedUseCase) poll(ctx context.Context, companyID string, limit int) ([]entity.Notification, error) {
	sales, _, err := uc.sales.List(ctx, repository.SaleFilter{CompanyID: companyID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("feed: ventas recientes: %w", err)
	}
	movs, err := uc.movements.ListRecentByCompany(ctx, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("feed: movimientos recientes: %w", err)
	}
	out := make([]entity.Notification, 0, len(sales)+len(movs))
	for _, s := range sales {
		out = append(out, entity.Notification{
			ID:        s.ID,
			CompanyID: s.CompanyID,
			Type:      entity.NotificationSale,
			Title:     "Nueva venta " + s.Number,
			Message:   fmt.Sprintf("%s · $%s · %s", s.CustomerName, s.GrandTotal.StringFixed(2), s.PaymentMethod),
			RefID:     s.ID,
			CreatedAt: s.CreatedAt,
		})
	}
	for _, m := range movs {
		n := entity.Notification{
			ID:        m.TransactionID,
			CompanyID: m.CompanyID,
			Type:      entity.NotificationInventory,
			Title:     "Movimiento de inventario",
			Message:   fmt.Sprintf("%s %+d en %s", m.Type, m.Quantity, m.LocationID),
			RefID:     m.ProductID,
			CreatedAt: m.CreatedAt,
		}
		if n.ID == "" {
			n.ID = m.ID
		}
		if m.Type == entity.MovementTypeTRANSFER {
			n.Type = entity.NotificationTransfer
			n.Title = "Traslado entre sedes"
		}
		out = append(out, n)
	}
	return out, nil
}

// Merge une ambas fuentes: deduplica por ID (gana la versión empujada), ordena por
// CreatedAt descendente con desempate por ID ascendente y corta en limit.
func Merge(pushed, polled []entity.Notification, limit int) []entity.Notification {
	byID := make(map[string]entity.Notification, len(pushed)+len(polled))
	for _, n := range polled {
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n
		}
	}
	for _, n := range pushed {
		byID[n.ID] = n
	}
	out := make([]entity.Notification, 0, len(byID))
	for _, n := range byID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
