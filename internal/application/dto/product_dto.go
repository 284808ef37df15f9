package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Barcode     string          `json:"barcode" validate:"omitempty,max=64"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	Brand       string          `json:"brand" validate:"max=100"`
	Category    string          `json:"category" validate:"max=100"`
	Price       decimal.Decimal `json:"price"`
}

// UpdateProductRequest entrada para actualizar un producto (sin costo ni stock).
type UpdateProductRequest struct {
	Barcode     *string          `json:"barcode" validate:"omitempty,max=64"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Brand       *string          `json:"brand" validate:"omitempty,max=100"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
}

// LocationStockDTO stock de un producto en una sede.
type LocationStockDTO struct {
	LocationID string `json:"location_id"`
	Quantity   int    `json:"quantity"`
}

// ProductResponse salida de un producto con su inventario por sede.
type ProductResponse struct {
	ID          string             `json:"id"`
	CompanyID   string             `json:"company_id"`
	SKU         string             `json:"sku"`
	Barcode     string             `json:"barcode,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Brand       string             `json:"brand,omitempty"`
	Category    string             `json:"category,omitempty"`
	Price       decimal.Decimal    `json:"price"`
	Cost        decimal.Decimal    `json:"cost"`
	Inventory   []LocationStockDTO `json:"inventory"`
	TotalStock  int                `json:"total_stock"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
