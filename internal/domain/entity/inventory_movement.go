package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste por delta (+/-)
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre sedes
	MovementTypeSALE       = "SALE"       // salida por venta POS
)

// InventoryMovement representa un movimiento de inventario en una sede.
type InventoryMovement struct {
	ID            string
	CompanyID     string
	TransactionID string // agrupa los dos lados de un traslado o las líneas de una venta
	ProductID     string
	LocationID    LocationID
	Type          string
	Quantity      int // positivo entrada/ajuste+, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Reference     string // número de venta, nota de ajuste, etc.
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
