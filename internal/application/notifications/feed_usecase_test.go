package notifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/notifications"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

var base = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

func notif(id string, offset time.Duration, title string) entity.Notification {
	return entity.Notification{ID: id, CompanyID: "c1", Type: entity.NotificationSale, Title: title, CreatedAt: base.Add(offset)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Merge
// ─────────────────────────────────────────────────────────────────────────────

func TestMerge_GanaLaVersionEmpujada(t *testing.T) {
	pushed := []entity.Notification{notif("a", time.Minute, "empujada")}
	polled := []entity.Notification{notif("a", time.Minute, "consultada"), notif("b", 0, "b")}

	got := notifications.Merge(pushed, polled, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "empujada", got[0].Title)
	assert.Equal(t, "b", got[1].ID)
}

func TestMerge_OrdenYDesempatePorID(t *testing.T) {
	polled := []entity.Notification{notif("z", 0, ""), notif("m", 0, ""), notif("n", time.Second, "")}

	got := notifications.Merge(nil, polled, 10)
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"n", "m", "z"}, ids)
}

func TestMerge_CortaEnLimite(t *testing.T) {
	polled := []entity.Notification{notif("a", 0, ""), notif("b", time.Second, ""), notif("c", 2*time.Second, "")}

	got := notifications.Merge(nil, polled, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
}

// ─────────────────────────────────────────────────────────────────────────────
// FeedUseCase
// ─────────────────────────────────────────────────────────────────────────────

func TestFeed_CombinaBufferYRepositorio(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Sales().Create(ctx, &entity.Sale{
		ID: "s1", CompanyID: "c1", Number: "V-1", CustomerName: "Ana",
		GrandTotal: decimal.NewFromInt(21), PaymentMethod: entity.PaymentCash,
		Status: entity.SaleStatusCompleted, CreatedAt: base,
	}))
	require.NoError(t, store.Movements().Create(ctx, &entity.InventoryMovement{
		ID: "m1", CompanyID: "c1", TransactionID: "tx1", ProductID: "p1", LocationID: "norte",
		Type: entity.MovementTypeIN, Quantity: 5, CreatedAt: base.Add(time.Minute),
	}))

	feed := notifications.NewFeedUseCase(store.Sales(), store.Movements(), 10, zerolog.Nop())
	feed.Push(notif("s1", 0, "empujada"))
	feed.Push(entity.Notification{ID: "otra", CompanyID: "c2", CreatedAt: base.Add(time.Hour)})

	got, err := feed.Feed(ctx, "c1", 0)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "tx1", got.Items[0].ID)
	assert.Equal(t, entity.NotificationInventory, got.Items[0].Type)
	assert.Equal(t, "empujada", got.Items[1].Title)
}

func TestPush_BufferAcotado(t *testing.T) {
	store := memory.NewStore()
	feed := notifications.NewFeedUseCase(store.Sales(), store.Movements(), 2, zerolog.Nop())
	feed.Push(notif("a", 0, ""))
	feed.Push(notif("b", time.Second, ""))
	feed.Push(notif("c", 2*time.Second, ""))

	got, err := feed.Feed(context.Background(), "c1", 10)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "c", got.Items[0].ID)
	assert.Equal(t, "b", got.Items[1].ID)
}
