package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/notifications"
)

// NotificationHandler feed de notificaciones de la empresa.
type NotificationHandler struct {
	uc *notifications.FeedUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notifications.FeedUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// Feed GET /api/notifications?limit=20. Más recientes primero.
func (h *NotificationHandler) Feed(c *fiber.Ctx) error {
	companyID, ok, err := tenant(c)
	if !ok {
		return err
	}
	out, err := h.uc.Feed(c.UserContext(), companyID, c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
