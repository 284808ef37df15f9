package pos_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/pos"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	sedeNorte entity.LocationID = "sede-norte"
	sedeSur   entity.LocationID = "sede-sur"
)

func productA() entity.Product {
	return entity.Product{
		ID:    "prod-a",
		Name:  "Producto A",
		SKU:   "A-001",
		Price: decimal.RequireFromString("10.00"),
		Inventory: []entity.LocationStock{
			{LocationID: sedeNorte, Quantity: 3},
			{LocationID: sedeSur, Quantity: 1},
		},
	}
}

func productB() entity.Product {
	return entity.Product{
		ID:         "prod-b",
		Name:       "Producto B",
		Price:      decimal.RequireFromString("4.50"),
		TotalStock: 5,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// AvailableStock
// ──────────────────────────────────────────────────────────────────────────────

func TestAvailableStock_UsaEntradaDeLaSede(t *testing.T) {
	p := productA()
	assert.Equal(t, 3, pos.AvailableStock(&p, sedeNorte))
	assert.Equal(t, 1, pos.AvailableStock(&p, sedeSur))
}

func TestAvailableStock_ComparaIDNormalizado(t *testing.T) {
	p := productA()
	p.Inventory[0].LocationID = " SEDE-NORTE "
	assert.Equal(t, 3, pos.AvailableStock(&p, sedeNorte))
}

func TestAvailableStock_SinEntradaUsaTotalStock(t *testing.T) {
	p := productA()
	p.TotalStock = 7
	assert.Equal(t, 7, pos.AvailableStock(&p, "otra-sede"))
}

func TestAvailableStock_SinSedeUsaTotalStock(t *testing.T) {
	p := productA()
	p.TotalStock = 4
	assert.Equal(t, 4, pos.AvailableStock(&p, ""))
}

func TestAvailableStock_DatosAusentesSonCero(t *testing.T) {
	assert.Equal(t, 0, pos.AvailableStock(&entity.Product{ID: "x"}, sedeNorte))
	assert.Equal(t, 0, pos.AvailableStock(nil, sedeNorte))

	p := productA()
	p.Inventory[0].Quantity = -2
	assert.Equal(t, 0, pos.AvailableStock(&p, sedeNorte), "cantidad negativa se trata como cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Add
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_AddPrimeraVez(t *testing.T) {
	c := pos.NewCart()
	line, err := c.Add(productA(), sedeNorte)
	require.NoError(t, err)

	assert.Equal(t, 1, line.Quantity)
	assert.True(t, decimal.RequireFromString("10.00").Equal(line.UnitPrice))
	assert.True(t, line.DiscountPercent.IsZero())
	assert.Equal(t, 1, c.Len())
	assert.True(t, decimal.RequireFromString("10.00").Equal(pos.Subtotal(c.Lines())))
}

func TestCart_AddHastaElTecheDeStock(t *testing.T) {
	c := pos.NewCart()
	for i := 0; i < 3; i++ {
		_, err := c.Add(productA(), sedeNorte)
		require.NoError(t, err)
	}
	_, err := c.Add(productA(), sedeNorte)
	assert.ErrorIs(t, err, domain.ErrStockLimitExceeded)

	line, ok := c.Line("prod-a")
	require.True(t, ok)
	assert.Equal(t, 3, line.Quantity, "la cantidad no cambia tras el rechazo")
	assert.Equal(t, 1, c.Len(), "no se duplica la línea")
}

func TestCart_AddSinStockNoInserta(t *testing.T) {
	c := pos.NewCart()
	p := productA()
	p.Inventory[0].Quantity = 0

	_, err := c.Add(p, sedeNorte)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.True(t, c.IsEmpty())
}

func TestCart_PrecioCapturadoAlAgregar(t *testing.T) {
	c := pos.NewCart()
	_, err := c.Add(productA(), sedeNorte)
	require.NoError(t, err)

	p := productA()
	p.Price = decimal.RequireFromString("99.00")
	_, err = c.Add(p, sedeNorte)
	require.NoError(t, err)

	line, _ := c.Line("prod-a")
	assert.True(t, decimal.RequireFromString("10.00").Equal(line.UnitPrice))
	assert.Equal(t, 2, line.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetQuantity / Remove / SetLineDiscount
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_SetQuantityCeroEliminaYRemoveEsNoOp(t *testing.T) {
	c := pos.NewCart()
	_, _ = c.Add(productA(), sedeNorte)
	_, _ = c.Add(productB(), sedeNorte)

	require.NoError(t, c.SetQuantity("prod-a", 0, sedeNorte))
	_, ok := c.Line("prod-a")
	assert.False(t, ok)

	before := c.Lines()
	c.Remove("prod-a")
	assert.Equal(t, before, c.Lines())
}

func TestCart_SetQuantityNegativoSobreLineaAusente(t *testing.T) {
	c := pos.NewCart()
	assert.NoError(t, c.SetQuantity("no-existe", -1, sedeNorte))
	assert.True(t, c.IsEmpty())
}

func TestCart_SetQuantitySobreStockSeRechaza(t *testing.T) {
	c := pos.NewCart()
	_, _ = c.Add(productA(), sedeNorte)
	require.NoError(t, c.SetQuantity("prod-a", 2, sedeNorte))

	err := c.SetQuantity("prod-a", 4, sedeNorte)
	assert.ErrorIs(t, err, domain.ErrStockLimitExceeded)
	line, _ := c.Line("prod-a")
	assert.Equal(t, 2, line.Quantity)
}

func TestCart_SetQuantityLineaAusente(t *testing.T) {
	c := pos.NewCart()
	assert.ErrorIs(t, c.SetQuantity("no-existe", 1, sedeNorte), domain.ErrNotFound)
}

func TestCart_RemoveDosVecesIgualQueUna(t *testing.T) {
	once := pos.NewCart()
	_, _ = once.Add(productA(), sedeNorte)
	_, _ = once.Add(productB(), sedeNorte)
	twice := once.Clone()

	once.Remove("prod-a")
	twice.Remove("prod-a")
	twice.Remove("prod-a")
	assert.Equal(t, once.Lines(), twice.Lines())
}

func TestCart_SetLineDiscountValidaRango(t *testing.T) {
	c := pos.NewCart()
	_, _ = c.Add(productA(), sedeNorte)

	assert.ErrorIs(t, c.SetLineDiscount("prod-a", decimal.NewFromInt(101)), domain.ErrInvalidInput)
	assert.ErrorIs(t, c.SetLineDiscount("prod-a", decimal.NewFromInt(-1)), domain.ErrInvalidInput)
	line, _ := c.Line("prod-a")
	assert.True(t, line.DiscountPercent.IsZero())

	require.NoError(t, c.SetLineDiscount("prod-a", decimal.NewFromInt(50)))
	line, _ = c.Line("prod-a")
	assert.True(t, decimal.NewFromInt(50).Equal(line.DiscountPercent))

	assert.ErrorIs(t, c.SetLineDiscount("no-existe", decimal.NewFromInt(5)), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de cambio de sede
// ──────────────────────────────────────────────────────────────────────────────

func TestPolicy_ClearVaciaElCarrito(t *testing.T) {
	c := pos.NewCart()
	_, _ = c.Add(productA(), sedeNorte)
	adj := pos.PolicyClear.Apply(c, sedeSur)

	assert.True(t, c.IsEmpty())
	require.Len(t, adj, 1)
	assert.Equal(t, pos.Adjustment{ProductID: "prod-a", From: 1, To: 0}, adj[0])
}

func TestPolicy_RevalidateRecortaYElimina(t *testing.T) {
	c := pos.NewCart()
	for i := 0; i < 3; i++ {
		_, _ = c.Add(productA(), sedeNorte)
	}
	b := productB()
	b.Inventory = []entity.LocationStock{{LocationID: sedeNorte, Quantity: 2}, {LocationID: sedeSur, Quantity: 0}}
	_, _ = c.Add(b, sedeNorte)

	adj := pos.PolicyRevalidate.Apply(c, sedeSur)

	require.Equal(t, 1, c.Len())
	line, _ := c.Line("prod-a")
	assert.Equal(t, 1, line.Quantity, "se recorta al stock de la nueva sede")
	assert.ElementsMatch(t, []pos.Adjustment{
		{ProductID: "prod-a", From: 3, To: 1},
		{ProductID: "prod-b", From: 1, To: 0},
	}, adj)
}

func TestParseLocationChangePolicy(t *testing.T) {
	p, err := pos.ParseLocationChangePolicy("")
	require.NoError(t, err)
	assert.Equal(t, pos.PolicyClear, p)

	p, err = pos.ParseLocationChangePolicy("Revalidate")
	require.NoError(t, err)
	assert.Equal(t, pos.PolicyRevalidate, p)

	_, err = pos.ParseLocationChangePolicy("keep")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades sobre secuencias aleatorias de operaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_SecuenciasAleatoriasRespetanInvariantes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	catalog := []entity.Product{productA(), productB()}
	locs := []entity.LocationID{sedeNorte, sedeSur}

	for run := 0; run < 200; run++ {
		c := pos.NewCart()
		loc := locs[rng.Intn(len(locs))]
		for step := 0; step < 30; step++ {
			p := catalog[rng.Intn(len(catalog))]
			switch rng.Intn(4) {
			case 0, 1:
				_, err := c.Add(p, loc)
				if err != nil {
					assert.True(t, errors.Is(err, domain.ErrStockLimitExceeded) || errors.Is(err, domain.ErrOutOfStock))
				}
			case 2:
				q := rng.Intn(8) - 2
				_ = c.SetQuantity(p.ID, q, loc)
				if q <= 0 {
					_, ok := c.Line(p.ID)
					assert.False(t, ok, "cantidad <= 0 elimina la línea")
				}
			case 3:
				c.Remove(p.ID)
			}

			seen := map[string]bool{}
			for _, l := range c.Lines() {
				assert.False(t, seen[l.ProductID], "producto duplicado en el carrito")
				seen[l.ProductID] = true
				assert.Greater(t, l.Quantity, 0)
				assert.LessOrEqual(t, l.Quantity, pos.AvailableStock(&l.Product, loc))
			}
		}
	}
}
