package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

var ahora = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func venta(t *testing.T, store *memory.Store, id string, at time.Time, customer entity.Customer, total int64, productID string, qty int) {
	t.Helper()
	ctx := context.Background()
	sales := store.Sales()
	require.NoError(t, sales.Create(ctx, &entity.Sale{
		ID:           id,
		CompanyID:    "c1",
		Number:       "V-" + id,
		LocationID:   "norte",
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		GrandTotal:   decimal.NewFromInt(total),
		Status:       entity.SaleStatusCompleted,
		CreatedAt:    at,
	}))
	require.NoError(t, sales.CreateItem(ctx, &entity.SaleItem{
		ID:          id + "-1",
		SaleID:      id,
		ProductID:   productID,
		ProductName: "Producto " + productID,
		SKU:         "SKU-" + productID,
		Quantity:    qty,
		LineTotal:   decimal.NewFromInt(total),
	}))
}

// ─────────────────────────────────────────────────────────────────────────────
// GetSummary
// ─────────────────────────────────────────────────────────────────────────────

func TestGetSummary_HoyYMes(t *testing.T) {
	store := memory.NewStore()
	ana := entity.Customer{ID: "cli-1", Name: "Ana"}
	venta(t, store, "s1", ahora.Add(-time.Hour), ana, 100, "p1", 2)
	venta(t, store, "s2", ahora.AddDate(0, 0, -5), entity.WalkInCustomer(), 50, "p2", 1)
	venta(t, store, "s3", ahora.AddDate(0, -1, 0), ana, 999, "p1", 9) // mes anterior

	uc := analytics.NewDashboardUseCase(store.Analytics()).WithClock(func() time.Time { return ahora })
	got, err := uc.GetSummary(context.Background(), "c1")
	require.NoError(t, err)

	assert.True(t, got.TodaySales.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, got.TodayCount)
	assert.True(t, got.MonthlySales.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 2, got.MonthlyCount)
	assert.True(t, got.AverageTicket.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, "Marzo 2026", got.DateLabel)

	require.Len(t, got.TopProducts, 2)
	assert.Equal(t, "p1", got.TopProducts[0].ProductID)
	assert.Equal(t, 2, got.TopProducts[0].UnitsSold)

	require.Len(t, got.TopCustomers, 1, "el cliente de mostrador no entra al ranking")
	assert.Equal(t, "Ana", got.TopCustomers[0].CustomerName)
}

func TestGetSummary_SinVentas(t *testing.T) {
	store := memory.NewStore()
	uc := analytics.NewDashboardUseCase(store.Analytics()).WithClock(func() time.Time { return ahora })

	got, err := uc.GetSummary(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, got.AverageTicket.IsZero())
	assert.Empty(t, got.TopProducts)
	assert.NotNil(t, got.TopCustomers)
}
