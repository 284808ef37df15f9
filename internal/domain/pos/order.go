package pos

import (
	"time"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderItem línea serializada del pedido: producto, cantidad, precio capturado y descuento de línea.
type OrderItem struct {
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// SaleOrder pedido que el POS envía al Sales API en una única escritura.
type SaleOrder struct {
	CompanyID       string
	UserID          string
	LocationID      entity.LocationID
	Customer        entity.Customer
	PaymentMethod   string
	Notes           string
	TaxRatePercent  decimal.Decimal
	DiscountPercent decimal.Decimal
	Items           []OrderItem
}

// Receipt respuesta exitosa del Sales API. Los totales son los del servidor.
type Receipt struct {
	SaleID         string
	Number         string
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	GrandTotal     decimal.Decimal
	CreatedAt      time.Time
}

// OrderItems serializa las líneas del carrito en orden.
func OrderItems(lines []Line) []OrderItem {
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
		})
	}
	return items
}
