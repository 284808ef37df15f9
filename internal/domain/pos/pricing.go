package pos

import "github.com/shopspring/decimal"

// Params parámetros de precio a nivel de orden, ya validados en [0,100].
type Params struct {
	TaxRatePercent  decimal.Decimal
	DiscountPercent decimal.Decimal
}

// Totals resultado del motor de precios. GrandTotal va redondeado a 2 decimales.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	GrandTotal     decimal.Decimal
}

// LineTotal = precio unitario * cantidad * (1 - descuento/100).
func LineTotal(l Line) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(l.DiscountPercent.Div(hundred))
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Mul(factor)
}

// Subtotal suma de LineTotal de todas las líneas.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l))
	}
	return sum
}

// TaxAmount = subtotal * tasa / 100.
func TaxAmount(subtotal, taxRatePercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRatePercent).Div(hundred)
}

// DiscountAmount = subtotal * descuento / 100.
func DiscountAmount(subtotal, discountPercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(discountPercent).Div(hundred)
}

// GrandTotal = max(0, subtotal + impuesto - descuento), redondeado a 2 decimales.
func GrandTotal(subtotal, tax, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(tax).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total.Round(2)
}

// Compute calcula todos los totales de las líneas con los parámetros de la orden.
func Compute(lines []Line, p Params) Totals {
	sub := Subtotal(lines)
	tax := TaxAmount(sub, p.TaxRatePercent)
	disc := DiscountAmount(sub, p.DiscountPercent)
	return Totals{
		Subtotal:       sub,
		TaxAmount:      tax,
		DiscountAmount: disc,
		GrandTotal:     GrandTotal(sub, tax, disc),
	}
}
