// Package catalog contiene los casos de uso del catálogo: productos, sedes y clientes.
package catalog

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// EventPublisher publica eventos para el feed de notificaciones.
type EventPublisher interface {
	Publish(ctx context.Context, n *entity.Notification) error
}
