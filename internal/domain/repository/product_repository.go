package repository

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product.
// Las lecturas devuelven el producto con su stock por sede (Inventory) y TotalStock;
// (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error)
	GetByCompanyAndBarcode(ctx context.Context, companyID, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	// Search busca por nombre, SKU o código de barras sin distinguir tildes ni mayúsculas.
	Search(ctx context.Context, companyID, query string, limit int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
