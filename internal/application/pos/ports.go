// Package pos contiene los casos de uso de las sesiones de caja: carrito por sesión,
// selección de sede, parámetros de precio y envío de la venta.
package pos

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
)

// CatalogReader lectura de productos con su stock por sede (Inventory/Product read API).
// Devuelve domain.ErrNotFound si el producto no existe para la empresa.
type CatalogReader interface {
	GetProduct(ctx context.Context, companyID, productID string) (*entity.Product, error)
	FindByBarcode(ctx context.Context, companyID, barcode string) (*entity.Product, error)
	SearchProducts(ctx context.Context, companyID, query string, limit int) ([]*entity.Product, error)
}

// LocationReader lectura de sedes seleccionables (Location list API).
type LocationReader interface {
	GetLocation(ctx context.Context, companyID string, id entity.LocationID) (*entity.Location, error)
	ListLocations(ctx context.Context, companyID string) ([]*entity.Location, error)
}

// SalesGateway escritura de la venta (Sales write API). Un error lleva el mensaje del servidor.
// Sin error la venta quedó registrada; un recibo nil se trata como recibo vacío.
type SalesGateway interface {
	SubmitSale(ctx context.Context, order domainpos.SaleOrder) (*domainpos.Receipt, error)
}
