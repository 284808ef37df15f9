package inprocess_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/catalog"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	apppos "github.com/jhoicas/pos-api/internal/application/pos"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
	"github.com/jhoicas/pos-api/internal/infrastructure/inprocess"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

const empresa = "c1"

func setup(t *testing.T) (*apppos.TerminalUseCase, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "norte", CompanyID: empresa, Name: "Norte"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "p1", CompanyID: empresa, SKU: "CAF-1", Barcode: "7702004003508", Name: "Café", Price: decimal.NewFromInt(10),
	}))
	require.NoError(t, store.Stock().Upsert(ctx, &entity.Stock{ProductID: "p1", LocationID: "norte", Quantity: 2}))

	products := catalog.NewProductUseCase(store.Products(), nil, zerolog.Nop())
	locations := catalog.NewLocationUseCase(store.Locations())
	movements := inventory.NewRegisterMovementUseCase(store.TxRunner(), store.Products(), store.Locations(), store.Movements(), nil, zerolog.Nop())
	register := sales.NewRegisterSaleUseCase(store.TxRunner(), movements, store.Products(), store.Locations(), store.Customers(), store.Sales(), nil, zerolog.Nop())

	gw := inprocess.NewGateway(products, locations, register)
	registry := apppos.NewSessionRegistry(0, nil, zerolog.Nop())
	return apppos.NewTerminalUseCase(registry, gw, gw, gw, domainpos.PolicyClear, nil, zerolog.Nop()), store
}

func TestCheckout_RegistraVentaYDescuentaStock(t *testing.T) {
	ctx := context.Background()
	uc, store := setup(t)

	s := uc.OpenSession(empresa, "cajero-1")
	_, err := uc.SelectLocation(ctx, empresa, s.ID, "NORTE")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, empresa, s.ID, "", "7702004003508")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, empresa, s.ID, "p1", "")
	require.NoError(t, err)
	pm := entity.PaymentCard
	_, err = uc.SetOrderDetails(empresa, s.ID, apppos.OrderDetails{PaymentMethod: &pm})
	require.NoError(t, err)

	rec, view, err := uc.Checkout(ctx, empresa, s.ID)
	require.NoError(t, err)
	assert.True(t, rec.GrandTotal.Equal(decimal.NewFromInt(20)))
	assert.Empty(t, view.Lines)

	st, err := store.Stock().Get(ctx, "p1", "norte")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Quantity)
}

func TestCheckout_StockAgotadoEnServidorConservaCarrito(t *testing.T) {
	ctx := context.Background()
	uc, store := setup(t)

	s := uc.OpenSession(empresa, "cajero-1")
	_, err := uc.SelectLocation(ctx, empresa, s.ID, "norte")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, empresa, s.ID, "p1", "")
	require.NoError(t, err)
	pm := entity.PaymentCash
	_, err = uc.SetOrderDetails(empresa, s.ID, apppos.OrderDetails{PaymentMethod: &pm})
	require.NoError(t, err)

	// otra caja vende el stock restante
	require.NoError(t, store.Stock().Upsert(ctx, &entity.Stock{ProductID: "p1", LocationID: "norte", Quantity: 0}))

	_, view, err := uc.Checkout(ctx, empresa, s.ID)
	require.Error(t, err)
	var se *domain.SubmissionError
	require.True(t, errors.As(err, &se))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].Quantity)
}

func TestGateway_AislamientoPorEmpresa(t *testing.T) {
	ctx := context.Background()
	uc, _ := setup(t)

	s := uc.OpenSession("otra", "cajero-2")
	_, err := uc.SelectLocation(ctx, "otra", s.ID, "norte")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddItem_SedeSinFilaDeStockNoUsaElTotal(t *testing.T) {
	ctx := context.Background()
	uc, store := setup(t)
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "sur", CompanyID: empresa, Name: "Sur"}))

	s := uc.OpenSession(empresa, "cajero-1")
	_, err := uc.SelectLocation(ctx, empresa, s.ID, "sur")
	require.NoError(t, err)

	_, err = uc.AddItem(ctx, empresa, s.ID, "p1", "")
	assert.ErrorIs(t, err, domain.ErrOutOfStock, "el stock de norte no se vende en sur")

	view, err := uc.GetSession(empresa, s.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}
