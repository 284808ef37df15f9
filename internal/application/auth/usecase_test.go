package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-api/pkg/jwt"
)

const secret = "test-secret"

func setup(t *testing.T) (*auth.AuthUseCase, string) {
	t.Helper()
	store := memory.NewStore()
	companies := auth.NewCompanyUseCase(store.Companies())
	c, err := companies.Create(context.Background(), dto.CreateCompanyRequest{Name: "Tienda", TaxID: "900123"})
	require.NoError(t, err)
	uc := auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "pos-api"})
	return uc, c.ID
}

func TestRegisterUser_RolPorDefectoCajero(t *testing.T) {
	uc, companyID := setup(t)

	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "Caja@Tienda.co", Password: "secreto123", CompanyID: companyID})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCajero, u.Role)
	assert.Equal(t, "caja@tienda.co", u.Email)

	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "caja@tienda.co", Password: "otro12345", CompanyID: companyID})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_EmpresaInexistente(t *testing.T) {
	uc, _ := setup(t)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.co", Password: "secreto123", CompanyID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_EmiteTokenConRol(t *testing.T) {
	uc, companyID := setup(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "admin@tienda.co", Password: "secreto123", CompanyID: companyID, Role: entity.RoleAdmin})
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@tienda.co", Password: "secreto123"})
	require.NoError(t, err)

	claims, err := jwt.ParseClaims(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, companyID, claims.CompanyID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@tienda.co", Password: "malaclave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
