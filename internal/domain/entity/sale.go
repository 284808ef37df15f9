package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados en el POS.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentMobile   = "mobile"
)

// IsValidPaymentMethod indica si m es uno de los métodos aceptados.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentMobile:
		return true
	}
	return false
}

// Estados de una venta.
const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusVoided    = "VOIDED"
)

// Sale representa la cabecera de una venta POS. Los totales los calcula el servidor.
type Sale struct {
	ID              string
	CompanyID       string
	Number          string // consecutivo legible (ej: "V-20260101-1A2B3C")
	LocationID      LocationID
	CustomerID      string // vacío para cliente de mostrador
	CustomerName    string
	CustomerContact string
	CustomerEmail   string
	PaymentMethod   string
	Notes           string
	TaxRatePercent  decimal.Decimal
	DiscountPercent decimal.Decimal
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	GrandTotal      decimal.Decimal
	Status          string
	CreatedBy       string
	CreatedAt       time.Time
}

// SaleItem representa una línea de una venta.
type SaleItem struct {
	ID              string
	SaleID          string
	ProductID       string
	ProductName     string
	SKU             string
	Quantity        int
	UnitPrice       decimal.Decimal // precio capturado al agregar al carrito
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal
}
