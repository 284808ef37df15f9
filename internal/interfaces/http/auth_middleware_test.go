package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	apphttp "github.com/jhoicas/pos-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/pos-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "pos-api-test"
	testExpMin    = 60
)

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos por rol sobre las rutas de la API
// ──────────────────────────────────────────────────────────────────────────────

func TestPermisos_TablaDeRutas(t *testing.T) {
	app, _ := buildPOSApp(t)

	cases := []struct {
		name   string
		role   string
		method string
		path   string
		body   any
		status int
	}{
		{"cajero abre sesión de caja", entity.RoleCajero, http.MethodPost, "/api/pos/sessions", nil, http.StatusCreated},
		{"bodeguero también opera la caja", entity.RoleBodeguero, http.MethodPost, "/api/pos/sessions", nil, http.StatusCreated},
		{"cajero consulta sedes", entity.RoleCajero, http.MethodGet, "/api/locations", nil, http.StatusOK},
		{"cajero no crea sedes", entity.RoleCajero, http.MethodPost, "/api/locations", map[string]any{"name": "Sur"}, http.StatusForbidden},
		{"cajero no edita productos", entity.RoleCajero, http.MethodPut, "/api/products/p1", map[string]any{"name": "x"}, http.StatusForbidden},
		{"bodeguero no borra productos", entity.RoleBodeguero, http.MethodDelete, "/api/products/p1", nil, http.StatusForbidden},
		{"cajero no registra movimientos", entity.RoleCajero, http.MethodPost, "/api/inventory/movements", map[string]any{}, http.StatusForbidden},
		{"bodeguero pasa al handler de movimientos", entity.RoleBodeguero, http.MethodPost, "/api/inventory/movements", map[string]any{}, http.StatusBadRequest},
		{"cajero no ve el tablero", entity.RoleCajero, http.MethodGet, "/api/dashboard/summary", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, app, tc.method, tc.path, tokenForRole(t, tc.role), tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(body))
			if tc.status == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", errorCode(t, body))
			}
		})
	}
}

func TestPermisos_TokenSinRol(t *testing.T) {
	app, _ := buildPOSApp(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp, body := call(t, app, http.MethodPost, "/api/products", "Bearer "+tok, map[string]any{"sku": "X"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", errorCode(t, body))
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_RechazosDeToken(t *testing.T) {
	app, _ := buildPOSApp(t)
	sinEmpresa, err := pkgjwt.Generate(testJWTSecret, testUserID, "", entity.RoleCajero, testIssuer, testExpMin)
	require.NoError(t, err)
	otroSecreto, err := pkgjwt.Generate("otro-secreto", testUserID, testCompanyID, entity.RoleCajero, testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"firmado con otro secreto", "Bearer " + otroSecreto, "INVALID_TOKEN"},
		{"sin empresa", "Bearer " + sinEmpresa, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, app, http.MethodGet, "/api/pos/locations", tc.header, nil)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, body))
		})
	}
}

func TestAuthMiddleware_CargaLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleBodeguero))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, entity.RoleBodeguero, body["role"])
}

func TestAuthMiddleware_RutasPublicasSinToken(t *testing.T) {
	app, _ := buildPOSApp(t)

	resp, _ := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := call(t, app, http.MethodGet, "/api/pos/sessions/inexistente", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "MISSING_TOKEN", e.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// pkg/jwt
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_ClaimsDeCaja(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, entity.RoleCajero, testIssuer, testExpMin)
	require.NoError(t, err)

	claims, err := pkgjwt.ParseClaims(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testCompanyID, claims.CompanyID)
	assert.Equal(t, entity.RoleCajero, claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestJWT_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, entity.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.ParseClaims(testJWTSecret, tok)
	assert.Error(t, err)
}

func TestJWT_SinSecreto(t *testing.T) {
	_, err := pkgjwt.ParseClaims("", "x.y.z")
	assert.ErrorIs(t, err, pkgjwt.ErrMissingSecret)
}
