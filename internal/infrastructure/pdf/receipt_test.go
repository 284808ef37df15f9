package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/pdf"
)

func TestRenderSaleReceipt_GeneraPDF(t *testing.T) {
	detail := &sales.SaleDetail{
		Sale: &entity.Sale{
			ID:             "7f1c2a9e-0000-4000-8000-000000000001",
			Number:         "V-20260301-1A2B3C",
			LocationID:     "norte",
			CustomerName:   "Ana",
			PaymentMethod:  entity.PaymentCash,
			TaxRatePercent: decimal.NewFromInt(10),
			Subtotal:       decimal.NewFromInt(20),
			TaxAmount:      decimal.NewFromInt(2),
			DiscountAmount: decimal.NewFromInt(1),
			GrandTotal:     decimal.NewFromInt(21),
			CreatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		Items: []*entity.SaleItem{{
			ProductName: "Café orgánico",
			Quantity:    2,
			UnitPrice:   decimal.NewFromInt(10),
			LineTotal:   decimal.NewFromInt(20),
		}},
	}
	company := &entity.Company{Name: "Tienda", TaxID: "900123"}

	out, err := pdf.NewReceiptRenderer().RenderSaleReceipt(context.Background(), detail, company, &entity.Location{ID: "norte", Name: "Sede Norte"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderSaleReceipt_SinVenta(t *testing.T) {
	_, err := pdf.NewReceiptRenderer().RenderSaleReceipt(context.Background(), &sales.SaleDetail{}, &entity.Company{}, nil)
	assert.Error(t, err)
}
