package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/config"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		AdminUser:          "admin",
		AdminPassword:      "durtron2026",
		VendedorUser:       "ventas",
		VendedorPassword:   "ventas123",
	}
}

func TestAuthService_Login(t *testing.T) {
	cfg := testConfig()
	svc := NewAuthService(cfg)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ventas", Password: "ventas123"})
	require.NoError(t, err)
	assert.Equal(t, model.RolVendedor, resp.Rol)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)

	tok, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (any, error) { return []byte(cfg.JWTSecret), nil })
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "ventas", claims["usuario"])
	assert.Equal(t, model.RolVendedor, claims["rol"])

	admin, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "durtron2026"})
	require.NoError(t, err)
	assert.Equal(t, model.RolAdministrador, admin.Rol)
}

func TestAuthService_LoginFallido(t *testing.T) {
	cfg := testConfig()
	cfg.VendedorPassword = ""
	svc := NewAuthService(cfg)

	for _, req := range []dto.LoginRequest{
		{Username: "admin", Password: "otra"},
		{Username: "nadie", Password: "durtron2026"},
		{Username: "ventas", Password: ""},
	} {
		_, err := svc.Login(context.Background(), req)
		assert.True(t, errors.Is(err, ErrCredencialesInvalidas), req.Username)
	}
}

func TestAutorizadorGerente(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("clave"), bcrypt.MinCost)
	require.NoError(t, err)
	a := NewAutorizadorGerente(map[string]string{"Ana Soto": string(hash)})

	nombre, err := a.Verificar(&dto.AutorizacionGerente{Gerente: " ana soto ", Password: "clave"})
	require.NoError(t, err)
	assert.Equal(t, "ana soto", nombre)

	cases := []*dto.AutorizacionGerente{
		nil,
		{Gerente: "Ana Soto"},
		{Gerente: "Ana Soto", Password: "mala"},
		{Gerente: "Pedro", Password: "clave"},
	}
	for _, c := range cases {
		_, err := a.Verificar(c)
		require.Error(t, err)
		_, isAuth := apierror.IsAuthorization(err)
		assert.True(t, isAuth)
	}
}
