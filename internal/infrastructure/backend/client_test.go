package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
	"github.com/jhoicas/pos-api/internal/infrastructure/backend"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func newClient(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := backend.NewClient(backend.Config{BaseURL: srv.URL, Token: "tok"}, zerolog.Nop())
	require.NoError(t, err)
	return c
}

const productoRemoto = `{
	"_id": "64AF00000000000000000001",
	"name": "Café",
	"sku": "CAF-1",
	"barcode": "7702004003508",
	"sellingPrice": 12.5,
	"price": 99,
	"category": {"name": "Bebidas"},
	"inventory": [
		{"location": {"_id": "64BB0000000000000000000A", "name": "Norte"}, "quantity": 3},
		{"location": "64bb0000000000000000000b", "quantity": null},
		{"location": null, "quantity": 7}
	],
	"totalStock": null
}`

// ─────────────────────────────────────────────────────────────────────────────
// CatalogReader
// ─────────────────────────────────────────────────────────────────────────────

func TestGetProduct_NormalizaFormaRemota(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success": true, "data": `+productoRemoto+`}`)
	})

	p, err := c.GetProduct(context.Background(), "c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "64AF00000000000000000001", p.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12.5")), "sellingPrice tiene prioridad")
	assert.Equal(t, "Bebidas", p.Category)
	assert.Equal(t, 0, p.TotalStock)
	require.Len(t, p.Inventory, 2)
	assert.Equal(t, entity.LocationID("64bb0000000000000000000a"), p.Inventory[0].LocationID)
	assert.Equal(t, 3, p.Inventory[0].Quantity)
	assert.Equal(t, 0, p.Inventory[1].Quantity, "cantidad null se lee como 0")
}

func TestGetProduct_PriceSinSellingPrice(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": "p2", "name": "Pan", "price": "3.20", "totalStock": 4}`)
	})

	p, err := c.GetProduct(context.Background(), "c1", "p2")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("3.2")))
	assert.Equal(t, 4, p.TotalStock)
	assert.Empty(t, p.Inventory)
}

func TestGetProduct_NoEncontrado(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message": "Producto no encontrado"}`)
	})

	_, err := c.GetProduct(context.Background(), "c1", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByBarcode_CoincidenciaExacta(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7702004003508", r.URL.Query().Get("barcode"))
		_, _ = io.WriteString(w, `{"products": [{"_id": "a", "barcode": "770200400350"}, `+productoRemoto+`]}`)
	})

	p, err := c.FindByBarcode(context.Background(), "c1", "7702004003508")
	require.NoError(t, err)
	assert.Equal(t, "CAF-1", p.SKU)
}

// ─────────────────────────────────────────────────────────────────────────────
// LocationReader
// ─────────────────────────────────────────────────────────────────────────────

func TestLocations_ListaYBusqueda(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/locations", r.URL.Path)
		_, _ = io.WriteString(w, `[{"_id": "64BB0000000000000000000A", "name": "Norte"}, {"name": "sin id"}]`)
	})

	list, err := c.ListLocations(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	loc, err := c.GetLocation(context.Background(), "c1", entity.NewLocationID("64BB0000000000000000000A"))
	require.NoError(t, err)
	assert.Equal(t, "Norte", loc.Name)

	_, err = c.GetLocation(context.Background(), "c1", "otra")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// SalesGateway
// ─────────────────────────────────────────────────────────────────────────────

func orden() domainpos.SaleOrder {
	return domainpos.SaleOrder{
		LocationID:      "norte",
		Customer:        entity.WalkInCustomer(),
		PaymentMethod:   entity.PaymentCash,
		TaxRatePercent:  decimal.NewFromInt(10),
		DiscountPercent: decimal.NewFromInt(5),
		Items: []domainpos.OrderItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(10), DiscountPercent: decimal.Zero},
		},
	}
}

func TestSubmitSale_EnviaPayloadYLeeRecibo(t *testing.T) {
	var body map[string]any
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sales", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success": true, "sale": {"_id": "s1", "saleNumber": "V-1", "subtotal": 20, "tax": 2, "discount": 1, "total": 21, "createdAt": "2026-03-01T10:00:00Z"}}`)
	})

	rec, err := c.SubmitSale(context.Background(), orden())
	require.NoError(t, err)
	assert.Equal(t, "s1", rec.SaleID)
	assert.Equal(t, "V-1", rec.Number)
	assert.True(t, rec.GrandTotal.Equal(decimal.NewFromInt(21)))
	assert.False(t, rec.CreatedAt.IsZero())

	assert.Equal(t, "norte", body["location"])
	assert.Equal(t, "cash", body["paymentMethod"])
	assert.Equal(t, float64(10), body["taxRate"], "los montos viajan como números")
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].(map[string]any)["product"])
}

func TestSubmitSale_CreadaSinCuerpoEsExito(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"201 vacío", http.StatusCreated, ""},
		{"204", http.StatusNoContent, ""},
		{"201 no JSON", http.StatusCreated, "OK"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})

			rec, err := c.SubmitSale(context.Background(), orden())
			require.NoError(t, err, "un 2xx ya registró la venta")
			require.NotNil(t, rec)
			assert.Empty(t, rec.SaleID)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestSubmitSale_MensajeDelServidorTalCual(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message": "Stock insuficiente para Café en Norte"}`)
	})

	_, err := c.SubmitSale(context.Background(), orden())
	require.Error(t, err)
	var se *domain.SubmissionError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Stock insuficiente para Café en Norte", se.Error())
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
}

func TestSubmitSale_ErrorDeRed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c, err := backend.NewClient(backend.Config{BaseURL: srv.URL}, zerolog.Nop())
	require.NoError(t, err)
	srv.Close()

	_, err = c.SubmitSale(context.Background(), orden())
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
}

func TestNewClient_SinURL(t *testing.T) {
	_, err := backend.NewClient(backend.Config{}, zerolog.Nop())
	assert.Error(t, err)
}
