package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// IN/OUT/ADJUSTMENT usan location_id; TRANSFER usa from/to. En ADJUSTMENT quantity es el delta (+/-).
type RegisterMovementRequest struct {
	ProductID      string           `json:"product_id" validate:"required"`
	LocationID     string           `json:"location_id,omitempty"`
	FromLocationID string           `json:"from_location_id,omitempty"`
	ToLocationID   string           `json:"to_location_id,omitempty"`
	Type           string           `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT TRANSFER"`
	Quantity       int              `json:"quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference      string           `json:"reference,omitempty" validate:"max=200"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	LocationID    string          `json:"location_id"`
	Type          string          `json:"type"`
	Quantity      int             `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Reference     string          `json:"reference,omitempty"`
	Date          time.Time       `json:"date"`
}

// RegisterMovementResponse salida de POST /api/inventory/movements.
type RegisterMovementResponse struct {
	TransactionID string `json:"transaction_id"`
}
