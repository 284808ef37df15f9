// Package notifications mantiene el feed de eventos del negocio: lo empujado por el
// bus en tiempo real más lo consultado al repositorio.
package notifications

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// Bus canal de empuje de notificaciones entre instancias.
type Bus interface {
	Publish(ctx context.Context, n *entity.Notification) error
	// Subscribe entrega cada notificación a handle hasta que ctx termine.
	Subscribe(ctx context.Context, handle func(entity.Notification)) error
}
