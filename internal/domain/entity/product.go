package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationStock cantidad disponible de un producto en una sede.
type LocationStock struct {
	LocationID LocationID
	Quantity   int
}

// Product representa un producto del catálogo (multi-sede).
// Inventory es el stock por sede; TotalStock es el agregado y sirve de respaldo cuando no hay desglose.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Barcode     string // EAN-13/EAN-8 o código interno; único por empresa si no está vacío
	Name        string
	Description string
	Brand       string
	Category    string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	Inventory   []LocationStock
	TotalStock  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
