package entity

import "time"

// Tipos de notificación emitidos por el sistema.
const (
	NotificationSale      = "sale"
	NotificationInventory = "inventory"
	NotificationProduct   = "product"
	NotificationTransfer  = "transfer"
)

// Notification representa un evento para el feed en tiempo real.
type Notification struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RefID     string    `json:"ref_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
