package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/catalog"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	apppos "github.com/jhoicas/pos-api/internal/application/pos"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	domainpos "github.com/jhoicas/pos-api/internal/domain/pos"
	"github.com/jhoicas/pos-api/internal/infrastructure/inprocess"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/pos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func buildPOSApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "centro", CompanyID: testCompanyID, Name: "Centro"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "p1", CompanyID: testCompanyID, SKU: "ARR-1", Barcode: "7702004003508", Name: "Arroz", Price: decimal.NewFromInt(5000),
	}))
	require.NoError(t, store.Stock().Upsert(ctx, &entity.Stock{ProductID: "p1", LocationID: "centro", Quantity: 1}))

	log := zerolog.Nop()
	productUC := catalog.NewProductUseCase(store.Products(), nil, log)
	locationUC := catalog.NewLocationUseCase(store.Locations())
	movementUC := inventory.NewRegisterMovementUseCase(store.TxRunner(), store.Products(), store.Locations(), store.Movements(), nil, log)
	saleUC := sales.NewRegisterSaleUseCase(store.TxRunner(), movementUC, store.Products(), store.Locations(), store.Customers(), store.Sales(), nil, log)
	gw := inprocess.NewGateway(productUC, locationUC, saleUC)
	terminal := apppos.NewTerminalUseCase(apppos.NewSessionRegistry(0, nil, log), gw, gw, gw, domainpos.PolicyClear, nil, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		LocationUC:       locationUC,
		ProductUC:        productUC,
		RegisterMovement: movementUC,
		RegisterSale:     saleUC,
		Terminal:         terminal,
		JWTSecret:        testJWTSecret,
		ServiceName:      "pos-api-test",
	})
	return app, store
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de caja
// ──────────────────────────────────────────────────────────────────────────────

func TestPOS_FlujoCompletoDeCaja(t *testing.T) {
	app, store := buildPOSApp(t)
	tok := tokenForRole(t, entity.RoleCajero)

	resp, body := call(t, app, http.MethodPost, "/api/pos/sessions", tok, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session dto.POSSessionResponse
	require.NoError(t, json.Unmarshal(body, &session))
	base := "/api/pos/sessions/" + session.ID

	// Sin sede no se puede enviar.
	resp, body = call(t, app, http.MethodPost, base+"/checkout", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "LOCATION_REQUIRED", errorCode(t, body))

	resp, body = call(t, app, http.MethodPut, base+"/location", tok, dto.POSSelectLocationRequest{LocationID: " Centro "})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodPost, base+"/items", tok, dto.POSAddItemRequest{Barcode: "7702004003508"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &session))
	require.Len(t, session.Lines, 1)
	assert.Equal(t, 1, session.Lines[0].AvailableStock)

	// Segunda unidad supera el stock de la sede.
	resp, body = call(t, app, http.MethodPost, base+"/items", tok, dto.POSAddItemRequest{ProductID: "p1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "STOCK_LIMIT_EXCEEDED", errorCode(t, body))

	resp, body = call(t, app, http.MethodPost, base+"/checkout", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "PAYMENT_METHOD_REQUIRED", errorCode(t, body))

	tax := decimal.NewFromInt(19)
	resp, _ = call(t, app, http.MethodPut, base+"/pricing", tok, dto.POSPricingRequest{TaxRatePercent: &tax})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cash := entity.PaymentCash
	resp, _ = call(t, app, http.MethodPut, base+"/details", tok, dto.POSOrderDetailsRequest{PaymentMethod: &cash})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, app, http.MethodPost, base+"/checkout", tok, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.POSCheckoutResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Receipt.GrandTotal.Equal(decimal.NewFromInt(5950)), out.Receipt.GrandTotal.String())
	assert.Empty(t, out.Session.Lines)
	assert.True(t, out.Session.TaxRatePercent.IsZero())

	st, err := store.Stock().Get(context.Background(), "p1", "centro")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Quantity)
}

func TestPOS_SesionDeOtraEmpresa_404(t *testing.T) {
	app, _ := buildPOSApp(t)

	resp, body := call(t, app, http.MethodPost, "/api/pos/sessions", tokenForRole(t, entity.RoleCajero), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session dto.POSSessionResponse
	require.NoError(t, json.Unmarshal(body, &session))

	other, err := pkgjwt.Generate(testJWTSecret, testUserID, "otra-empresa", entity.RoleCajero, testIssuer, testExpMin)
	require.NoError(t, err)
	resp, body = call(t, app, http.MethodGet, "/api/pos/sessions/"+session.ID, "Bearer "+other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestPOS_DescuentoFueraDeRango_400(t *testing.T) {
	app, _ := buildPOSApp(t)
	tok := tokenForRole(t, entity.RoleCajero)

	_, body := call(t, app, http.MethodPost, "/api/pos/sessions", tok, nil)
	var session dto.POSSessionResponse
	require.NoError(t, json.Unmarshal(body, &session))

	bad := decimal.NewFromInt(150)
	resp, body := call(t, app, http.MethodPut, "/api/pos/sessions/"+session.ID+"/pricing", tok, dto.POSPricingRequest{DiscountPercent: &bad})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}

func TestPOS_BodySinCampoNoModificaLinea(t *testing.T) {
	app, _ := buildPOSApp(t)
	tok := tokenForRole(t, entity.RoleCajero)

	_, body := call(t, app, http.MethodPost, "/api/pos/sessions", tok, nil)
	var session dto.POSSessionResponse
	require.NoError(t, json.Unmarshal(body, &session))
	base := "/api/pos/sessions/" + session.ID

	resp, body := call(t, app, http.MethodPut, base+"/location", tok, dto.POSSelectLocationRequest{LocationID: "centro"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, body = call(t, app, http.MethodPost, base+"/items", tok, dto.POSAddItemRequest{ProductID: "p1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodPut, base+"/items/p1", tok, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, body = call(t, app, http.MethodPut, base+"/items/p1/discount", tok, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, body = call(t, app, http.MethodGet, base, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &session))
	require.Len(t, session.Lines, 1, "la línea sigue en el carrito")
	assert.Equal(t, 1, session.Lines[0].Quantity)

	zero := 0
	resp, body = call(t, app, http.MethodPut, base+"/items/p1", tok, dto.POSSetQuantityRequest{Quantity: &zero})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &session))
	assert.Empty(t, session.Lines)
}

func TestProducts_EscrituraSoloAdmin(t *testing.T) {
	app, _ := buildPOSApp(t)

	req := dto.CreateProductRequest{SKU: "NEW-1", Name: "Nuevo", Price: decimal.NewFromInt(100)}
	resp, _ := call(t, app, http.MethodPost, "/api/products", tokenForRole(t, entity.RoleCajero), req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := call(t, app, http.MethodPost, "/api/products", tokenForRole(t, entity.RoleAdmin), req)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func TestHealth_SinDependencias(t *testing.T) {
	app, _ := buildPOSApp(t)
	resp, body := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"ok"`)
}
