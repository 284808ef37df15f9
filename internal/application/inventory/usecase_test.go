package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	empresa = "empresa-1"
	norte   = entity.LocationID("norte")
	sur     = entity.LocationID("sur")
)

type recorder struct {
	mu   sync.Mutex
	sent []*entity.Notification
}

func (r *recorder) Publish(_ context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func setup(t *testing.T) (*inventory.RegisterMovementUseCase, *memory.Store, *recorder) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: norte, CompanyID: empresa, Name: "Norte"}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: sur, CompanyID: empresa, Name: "Sur"}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "ajena", CompanyID: "otra", Name: "Ajena"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "p1", CompanyID: empresa, SKU: "P1", Name: "Café", Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(4),
	}))
	rec := &recorder{}
	uc := inventory.NewRegisterMovementUseCase(store.TxRunner(), store.Products(), store.Locations(), store.Movements(), rec, zerolog.Nop())
	return uc, store, rec
}

func cost(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func stockOf(t *testing.T, store *memory.Store, loc entity.LocationID) int {
	t.Helper()
	s, err := store.Stock().Get(context.Background(), "p1", loc)
	require.NoError(t, err)
	return s.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas y costo promedio
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_EntradaActualizaStockYCosto(t *testing.T) {
	uc, store, rec := setup(t)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{
		CompanyID: empresa, ProductID: "p1", LocationID: norte, Type: entity.MovementTypeIN, Quantity: 10, UnitCost: cost("6"),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf(t, store, norte))

	p, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(6).Equal(p.Cost), "sin stock previo el costo es el de entrada")
	assert.Equal(t, 10, p.TotalStock)

	require.Len(t, rec.sent, 1)
	assert.Equal(t, entity.NotificationInventory, rec.sent[0].Type)
}

func TestRegisterMovement_EntradaSinCostoEsInvalida(t *testing.T) {
	uc, _, _ := setup(t)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		CompanyID: empresa, ProductID: "p1", LocationID: norte, Type: entity.MovementTypeIN, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas, ajustes y traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_SalidaSinStockHaceRollback(t *testing.T) {
	uc, store, rec := setup(t)
	ctx := context.Background()
	_, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{
		CompanyID: empresa, ProductID: "p1", LocationID: norte, Type: entity.MovementTypeIN, Quantity: 2, UnitCost: cost("5"),
	})
	require.NoError(t, err)

	_, err = uc.RegisterMovement(ctx, inventory.MovementInputDTO{
		CompanyID: empresa, ProductID: "p1", LocationID: norte, Type: entity.MovementTypeOUT, Quantity: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 2, solicitado 3")
	assert.Equal(t, 2, stockOf(t, store, norte))
	assert.Len(t, rec.sent, 1)
}

func TestRegisterMovement_AjusteNegativoResta(t *testing.T) {
	uc, store, _ := setup(t)
	ctx := context.Background()
	_, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{
		CompanyID: empresa, ProductID: "p1", LocationID: norte, Type: entity.MovementTypeIN, Quantity: 5, UnitCost: cost("4"),
	})
	require.NoError(t, err)

	_, err = uc.RegisterMovement(ctx, inventory.MovementInputDTO{
		CompanyID: empresa, ProductID: "p1", LocationID: norte, Type: entity.MovementTypeADJUSTMENT, Quantity: -2, Reference: "merma",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, store, norte))

	movs, err := uc.ListMovements(ctx, empresa, "p1", "", nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, movs[0].Type)
	assert.Equal(t, -2, movs[0].Quantity)
	assert.Equal(t, "merma", movs[0].Reference)
}

func TestRegisterMovement_TrasladoMueveEntreSedes(t *testing.T) {
	uc, store, rec := setup(t)
	ctx := context.Background()
	_, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{
		CompanyID: empresa, ProductID: "p1", LocationID: norte, Type: entity.MovementTypeIN, Quantity: 5, UnitCost: cost("4"),
	})
	require.NoError(t, err)

	txID, err := uc.RegisterMovement(ctx, inventory.MovementInputDTO{
		CompanyID: empresa, ProductID: "p1", FromLocationID: norte, ToLocationID: sur, Type: entity.MovementTypeTRANSFER, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stockOf(t, store, norte))
	assert.Equal(t, 3, stockOf(t, store, sur))

	movs, err := uc.ListMovements(ctx, empresa, "", sur, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, txID, movs[0].TransactionID)

	assert.Equal(t, entity.NotificationTransfer, rec.sent[len(rec.sent)-1].Type)
}

func TestRegisterMovement_TrasladoMismaSedeEsInvalido(t *testing.T) {
	uc, _, _ := setup(t)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		CompanyID: empresa, ProductID: "p1", FromLocationID: norte, ToLocationID: norte, Type: entity.MovementTypeTRANSFER, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMovement_SedeDeOtraEmpresa(t *testing.T) {
	uc, _, _ := setup(t)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInputDTO{
		CompanyID: empresa, ProductID: "p1", LocationID: "ajena", Type: entity.MovementTypeIN, Quantity: 1, UnitCost: cost("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMovements_RequiereFiltro(t *testing.T) {
	uc, _, _ := setup(t)

	_, err := uc.ListMovements(context.Background(), empresa, "", "", nil, nil, 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
