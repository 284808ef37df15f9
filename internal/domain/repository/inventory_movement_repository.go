package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para movimientos de inventario.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	ListByLocation(ctx context.Context, locationID entity.LocationID, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	// ListRecentByCompany devuelve los últimos movimientos (excepto ventas) para el feed de notificaciones.
	ListRecentByCompany(ctx context.Context, companyID string, limit int) ([]*entity.InventoryMovement, error)
}
