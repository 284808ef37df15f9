package sales

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y ventas.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// StockIssuer descuenta stock usando los repositorios del caller (misma transacción).
// Si retorna error (ej: ErrInsufficientStock), el caller hace rollback.
type StockIssuer interface {
	RegisterOUTInTx(
		ctx context.Context,
		movRepo repository.InventoryMovementRepository,
		stockRepo repository.StockRepository,
		out inventory.StockOut,
	) error
}

// EventPublisher publica eventos para el feed de notificaciones.
type EventPublisher interface {
	Publish(ctx context.Context, n *entity.Notification) error
}

// ReceiptRenderer genera el comprobante imprimible de una venta.
type ReceiptRenderer interface {
	RenderSaleReceipt(ctx context.Context, detail *SaleDetail, company *entity.Company, location *entity.Location) ([]byte, error)
}
