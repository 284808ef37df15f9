// Package events transporta las notificaciones del sistema entre los casos de uso que las
// emiten y el feed que las sirve: en memoria para un solo proceso o sobre Redis pub/sub.
package events

import (
	"context"
	"sync"

	"github.com/jhoicas/pos-api/internal/application/notifications"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

var _ notifications.Bus = (*MemoryBus)(nil)

// MemoryBus difunde cada notificación a los suscriptores del mismo proceso.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[int]func(entity.Notification)
	next     int
}

// NewMemoryBus crea un bus vacío.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[int]func(entity.Notification))}
}

// Publish entrega la notificación a todos los suscriptores activos.
func (b *MemoryBus) Publish(_ context.Context, n *entity.Notification) error {
	if n == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, h := range b.handlers {
		h(*n)
	}
	return nil
}

// Subscribe registra handle y bloquea hasta que ctx termine.
func (b *MemoryBus) Subscribe(ctx context.Context, handle func(entity.Notification)) error {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = handle
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
	return nil
}

// Subscribers número de suscriptores activos.
func (b *MemoryBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
