package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/internal/domain/inventory"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 u a 5.00 + 10 u a 7.00 -> 6.00
	got := inventory.CostCalculator(10, decimal.RequireFromString("5"), 10, decimal.RequireFromString("7"))
	assert.True(t, decimal.NewFromInt(6).Equal(got), got.String())
}

func TestCostCalculator_SinStockPrevio(t *testing.T) {
	got := inventory.CostCalculator(0, decimal.Zero, 4, decimal.RequireFromString("2.50"))
	assert.True(t, decimal.RequireFromString("2.5").Equal(got))
}

func TestCostCalculator_StockNegativoSeTomaComoCero(t *testing.T) {
	got := inventory.CostCalculator(-3, decimal.RequireFromString("100"), 2, decimal.RequireFromString("8"))
	assert.True(t, decimal.RequireFromString("8").Equal(got))
}

func TestCostCalculator_SumaCero(t *testing.T) {
	assert.True(t, inventory.CostCalculator(0, decimal.Zero, 0, decimal.NewFromInt(9)).IsZero())
}
