package events_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/events"
)

// ─────────────────────────────────────────────────────────────────────────────
// MemoryBus
// ─────────────────────────────────────────────────────────────────────────────

func TestMemoryBus_EntregaASuscriptores(t *testing.T) {
	bus := events.NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())

	var (
		mu  sync.Mutex
		got []entity.Notification
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Subscribe(ctx, func(n entity.Notification) {
			mu.Lock()
			got = append(got, n)
			mu.Unlock()
		})
	}()
	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, bus.Publish(ctx, &entity.Notification{ID: "n1", CompanyID: "c1", Type: entity.NotificationSale}))
	require.NoError(t, bus.Publish(ctx, nil))

	cancel()
	<-done
	assert.Equal(t, 0, bus.Subscribers())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "n1", got[0].ID)
}

func TestMemoryBus_SinSuscriptores(t *testing.T) {
	bus := events.NewMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), &entity.Notification{ID: "n1"}))
}
