// Package inprocess conecta las sesiones de caja con los casos de uso locales de
// catálogo y ventas (backend=local), sin pasar por HTTP.
package inprocess

import (
	"context"

	apppos "github.com/jhoicas/pos-api/internal/application/pos"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
)

var (
	_ apppos.CatalogReader  = (*Gateway)(nil)
	_ apppos.LocationReader = (*Gateway)(nil)
	_ apppos.SalesGateway   = (*Gateway)(nil)
)

// Products lectura de productos con aislamiento por empresa.
type Products interface {
	Get(ctx context.Context, companyID, id string) (*entity.Product, error)
	FindByBarcode(ctx context.Context, companyID, barcode string) (*entity.Product, error)
	Search(ctx context.Context, companyID, query string, limit int) ([]*entity.Product, error)
}

// Locations lectura de sedes con aislamiento por empresa.
type Locations interface {
	Get(ctx context.Context, companyID string, id entity.LocationID) (*entity.Location, error)
	All(ctx context.Context, companyID string) ([]*entity.Location, error)
}

// SaleRegistrar registro transaccional de ventas.
type SaleRegistrar interface {
	RegisterSale(ctx context.Context, order domainpos.SaleOrder) (*sales.SaleDetail, error)
}

// Gateway implementa CatalogReader, LocationReader y SalesGateway sobre los casos de uso.
type Gateway struct {
	products  Products
	locations Locations
	sales     SaleRegistrar
}

// NewGateway construye el adaptador.
func NewGateway(products Products, locations Locations, sales SaleRegistrar) *Gateway {
	return &Gateway{products: products, locations: locations, sales: sales}
}

func (g *Gateway) GetProduct(ctx context.Context, companyID, productID string) (*entity.Product, error) {
	return g.products.Get(ctx, companyID, productID)
}

func (g *Gateway) FindByBarcode(ctx context.Context, companyID, barcode string) (*entity.Product, error) {
	return g.products.FindByBarcode(ctx, companyID, barcode)
}

func (g *Gateway) SearchProducts(ctx context.Context, companyID, query string, limit int) ([]*entity.Product, error) {
	return g.products.Search(ctx, companyID, query, limit)
}

func (g *Gateway) GetLocation(ctx context.Context, companyID string, id entity.LocationID) (*entity.Location, error) {
	return g.locations.Get(ctx, companyID, id)
}

func (g *Gateway) ListLocations(ctx context.Context, companyID string) ([]*entity.Location, error) {
	return g.locations.All(ctx, companyID)
}

// SubmitSale registra la venta localmente; los errores de validación o stock se devuelven
// tal cual y el caso de uso de caja los envuelve como fallo de envío.
func (g *Gateway) SubmitSale(ctx context.Context, order domainpos.SaleOrder) (*domainpos.Receipt, error) {
	detail, err := g.sales.RegisterSale(ctx, order)
	if err != nil {
		return nil, err
	}
	return detail.Receipt(), nil
}
