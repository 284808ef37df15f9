// Package pdf genera el comprobante de venta POS en PDF.
//
// Layout de la página (ancho A5):
//
//	┌───────────────────────────────────────────────┐
//	│  Empresa + documento  │  N° venta + fecha     │
//	│  Sede / cliente / método de pago              │
//	│  ───────────────────────────────────────────  │
//	│  Cant | Producto | P.Unit | Desc% | Total     │
//	│  ───────────────────────────────────────────  │
//	│  Subtotal / Descuento / Impuesto / TOTAL      │
//	│  Código de barras (número) + QR (id)          │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var paymentLabels = map[string]string{
	entity.PaymentCash:     "Efectivo",
	entity.PaymentCard:     "Tarjeta",
	entity.PaymentTransfer: "Transferencia",
	entity.PaymentMobile:   "Pago móvil",
}

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ sales.ReceiptRenderer = (*ReceiptRenderer)(nil)

// ReceiptRenderer implementa sales.ReceiptRenderer usando Maroto v2.
type ReceiptRenderer struct{}

// NewReceiptRenderer construye el generador.
func NewReceiptRenderer() *ReceiptRenderer { return &ReceiptRenderer{} }

// RenderSaleReceipt genera el PDF del comprobante y devuelve sus bytes.
func (g *ReceiptRenderer) RenderSaleReceipt(
	_ context.Context,
	detail *sales.SaleDetail,
	company *entity.Company,
	location *entity.Location,
) ([]byte, error) {
	if detail == nil || detail.Sale == nil || company == nil {
		return nil, fmt.Errorf("pdf: venta y empresa son requeridas")
	}
	sale := detail.Sale

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Comprobante de venta "+sale.Number, true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(sale, location))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(detail.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(sale)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(codesRow(sale))
	if sale.Notes != "" {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Notas: "+sale.Notes, props.Text{Size: 7, Color: colorGray, Top: 2}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + documento (izq) y número de venta + fecha (der).
func headerRow(sale *entity.Sale, company *entity.Company) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1}),
			text.New("NIT: "+nonEmpty(company.TaxID, "—"), props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{Style: fontstyle.Bold, Size: 7, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(sale.Number, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 6}),
			text.New(sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 7, Align: align.Right, Top: 12, Color: colorGray}),
		),
	)
}

// infoRow: sede, cliente y método de pago.
func infoRow(sale *entity.Sale, location *entity.Location) core.Row {
	site := sale.LocationID.String()
	if location != nil {
		site = location.Name
	}
	customer := nonEmpty(sale.CustomerName, entity.WalkInCustomerName)
	var contact []string
	for _, s := range []string{sale.CustomerContact, sale.CustomerEmail} {
		if s != "" {
			contact = append(contact, s)
		}
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("Sede: "+site, props.Text{Size: 8, Top: 1}),
			text.New("Cliente: "+customer, props.Text{Style: fontstyle.Bold, Size: 8, Top: 6}),
			text.New(fmt.Sprintf("%s   |   Pago: %s",
				nonEmpty(strings.Join(contact, " · "), "—"),
				nonEmpty(paymentLabels[sale.PaymentMethod], sale.PaymentMethod),
			), props.Text{Size: 7, Top: 11, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Desc.", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea de la venta.
func tableDetailRows(items []*entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.ProductName, props.Text{Size: 7, Align: align.Left, Top: 1})),
			col.New(2).Add(text.New(money(it.UnitPrice), props.Text{Size: 7, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(percent(it.DiscountPercent), props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(money(it.LineTotal), props.Text{Size: 7, Align: align.Right, Top: 1})),
		))
	}
	return result
}

// totalsRows: subtotal, descuento, impuesto y total alineados a la derecha.
func totalsRows(sale *entity.Sale) []core.Row {
	entry := func(label, value string, grand bool) core.Row {
		p := props.Text{Size: 8, Align: align.Right, Top: 1}
		if grand {
			p.Style = fontstyle.Bold
			p.Size = 10
			p.Color = colorPrimary
		}
		l := p
		l.Style = fontstyle.Bold
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, l)),
			col.New(3).Add(text.New(value, p)),
		)
	}
	return []core.Row{
		entry("Subtotal:", money(sale.Subtotal), false),
		entry("Descuento ("+percent(sale.DiscountPercent)+"):", "-"+money(sale.DiscountAmount), false),
		entry("Impuesto ("+percent(sale.TaxRatePercent)+"):", money(sale.TaxAmount), false),
		entry("TOTAL:", money(sale.GrandTotal), true),
	}
}

// codesRow: código de barras con el número de venta y QR con el id.
func codesRow(sale *entity.Sale) core.Row {
	return row.New(28).Add(
		col.New(8).Add(code.NewBar(sale.Number, props.Barcode{Percent: 90, Center: true})),
		col.New(4).Add(code.NewQr(sale.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separador de miles "." y dos decimales con ",".
// Ej: 25000.5 → "$25.000,50"
func money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	return "$" + sign + formatThousands(intPart) + "," + frac
}

func percent(d decimal.Decimal) string {
	return d.Round(2).String() + "%"
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
