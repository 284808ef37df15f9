package dto

import "time"

// NotificationDTO evento del feed.
type NotificationDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RefID     string    `json:"ref_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationFeedResponse respuesta de GET /api/notifications.
type NotificationFeedResponse struct {
	Items []NotificationDTO `json:"items"`
}
