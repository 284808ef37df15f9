package entity

import "time"

// Stock representa el stock actual de un producto en una sede (tabla materializada).
type Stock struct {
	ProductID  string
	LocationID LocationID
	Quantity   int
	UpdatedAt  time.Time
}
