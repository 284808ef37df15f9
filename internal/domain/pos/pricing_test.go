package pos_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/internal/domain/pos"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(price string, qty int, discount string) pos.Line {
	return pos.Line{ProductID: price, UnitPrice: d(price), Quantity: qty, DiscountPercent: d(discount)}
}

func TestPricing_ImpuestoYDescuentoDeOrden(t *testing.T) {
	totals := pos.Compute([]pos.Line{line("10.00", 2, "0")}, pos.Params{
		TaxRatePercent:  d("10"),
		DiscountPercent: d("5"),
	})
	assert.True(t, d("20.00").Equal(totals.Subtotal))
	assert.True(t, d("2.00").Equal(totals.TaxAmount))
	assert.True(t, d("1.00").Equal(totals.DiscountAmount))
	assert.True(t, d("21.00").Equal(totals.GrandTotal))
}

func TestPricing_DescuentoDeLinea(t *testing.T) {
	l := line("10.00", 2, "50")
	assert.True(t, d("10.00").Equal(pos.LineTotal(l)))

	totals := pos.Compute([]pos.Line{l}, pos.Params{})
	assert.True(t, d("10.00").Equal(totals.GrandTotal))
}

func TestPricing_CarritoVacio(t *testing.T) {
	totals := pos.Compute(nil, pos.Params{TaxRatePercent: d("19")})
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestPricing_GrandTotalNuncaNegativo(t *testing.T) {
	// sin validación de bordes en el motor: un descuento > 100 se recorta a cero
	totals := pos.Compute([]pos.Line{line("10.00", 1, "0")}, pos.Params{DiscountPercent: d("150")})
	assert.True(t, totals.GrandTotal.IsZero())

	for tax := 0; tax <= 100; tax += 10 {
		for disc := 0; disc <= 100; disc += 10 {
			totals := pos.Compute([]pos.Line{line("3.33", 3, "15"), line("0.01", 1, "100")}, pos.Params{
				TaxRatePercent:  decimal.NewFromInt(int64(tax)),
				DiscountPercent: decimal.NewFromInt(int64(disc)),
			})
			assert.False(t, totals.GrandTotal.IsNegative(), "tax=%d disc=%d", tax, disc)
		}
	}
}

func TestPricing_RedondeoADosDecimales(t *testing.T) {
	totals := pos.Compute([]pos.Line{line("3.333", 1, "0")}, pos.Params{TaxRatePercent: d("19")})
	assert.Equal(t, "3.97", totals.GrandTotal.StringFixed(2))
}

func TestValidatePercent(t *testing.T) {
	assert.NoError(t, pos.ValidatePercent(d("0")))
	assert.NoError(t, pos.ValidatePercent(d("100")))
	assert.Error(t, pos.ValidatePercent(d("100.01")))
	assert.Error(t, pos.ValidatePercent(d("-0.5")))
}
