package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por sede+producto.
// Usado dentro de transacciones para garantizar consistencia. Una fila ausente es stock 0.
type StockRepository interface {
	Get(ctx context.Context, productID string, locationID entity.LocationID) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID string, locationID entity.LocationID) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	// ListByProducts incluye todas las sedes de la empresa del producto, con 0 si no hay fila.
	ListByProducts(ctx context.Context, productIDs []string) (map[string][]entity.LocationStock, error)
}
