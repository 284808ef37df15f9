package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea del pedido serializado por el POS.
type SaleItemRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	Quantity        int             `json:"quantity" validate:"gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// SaleCustomerDTO cliente libre de la venta.
type SaleCustomerDTO struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name" validate:"max=200"`
	Contact string `json:"contact" validate:"max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// CreateSaleRequest body de POST /api/sales (Sales write API).
type CreateSaleRequest struct {
	LocationID      string            `json:"location_id" validate:"required"`
	Customer        SaleCustomerDTO   `json:"customer"`
	PaymentMethod   string            `json:"payment_method" validate:"required,oneof=cash card transfer mobile"`
	Notes           string            `json:"notes" validate:"max=500"`
	TaxRatePercent  decimal.Decimal   `json:"tax_rate_percent"`
	DiscountPercent decimal.Decimal   `json:"discount_percent"`
	Items           []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemResponse línea de una venta registrada.
type SaleItemResponse struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// SaleResponse venta registrada con totales calculados por el servidor.
type SaleResponse struct {
	ID              string             `json:"id"`
	Number          string             `json:"number"`
	LocationID      string             `json:"location_id"`
	Customer        SaleCustomerDTO    `json:"customer"`
	PaymentMethod   string             `json:"payment_method"`
	Notes           string             `json:"notes,omitempty"`
	TaxRatePercent  decimal.Decimal    `json:"tax_rate_percent"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	TaxAmount       decimal.Decimal    `json:"tax_amount"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	GrandTotal      decimal.Decimal    `json:"grand_total"`
	Status          string             `json:"status"`
	Items           []SaleItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SaleReceiptDTO comprobante devuelto al POS tras un envío exitoso.
type SaleReceiptDTO struct {
	SaleID         string          `json:"sale_id"`
	Number         string          `json:"number"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	CreatedAt      time.Time       `json:"created_at"`
}
