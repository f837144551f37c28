//go:build integration

package router_test

// End-to-end flows against real Postgres and Redis started with testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Josmarcito/sistema-durtron/internal/config"
	"github.com/Josmarcito/sistema-durtron/internal/infra"
	"github.com/Josmarcito/sistema-durtron/internal/middleware"
	"github.com/Josmarcito/sistema-durtron/internal/router"
	"github.com/Josmarcito/sistema-durtron/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string
}

func (e *testEnv) do(t *testing.T, method, path string, body any, dest any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dest != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
	return resp.StatusCode
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("durtron_test"),
		tcPostgres.WithUsername("durtron"),
		tcPostgres.WithPassword("durtron"),
		testcontainers.WithWaitStrategy(tcPostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(context.Background()) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(context.Background()) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	pin, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                  "test",
		JWTSecret:            "e2e-secret",
		JWTExpirationHours:   1,
		AdminUser:            "admin",
		AdminPassword:        "admin-e2e",
		ManagerCredentials:   "gerente:" + string(pin),
		DatabaseURL:          pgURL,
		RedisURL:             rdURL,
		EmpresaNombre:        "Durtron",
		PrecioCacheTTLMinuto: 5,
	}

	require.NoError(t, infra.RunMigrations(cfg.DatabaseURL))
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	require.NoError(t, err)

	svcs := router.NewServices(cfg, db, rdb, worker.NewDispatcher(rdb))
	r := router.New(ctx, cfg, svcs, router.Infra{DB: db, Redis: rdb, Metrics: middleware.NewMetrics()})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	env := &testEnv{server: srv}
	var login struct {
		AccessToken string `json:"access_token"`
	}
	status := env.do(t, http.MethodPost, "/v1/auth/login", map[string]string{"username": "admin", "password": "admin-e2e"}, &login)
	require.Equal(t, http.StatusOK, status)
	env.token = login.AccessToken
	return env
}

type idResp struct {
	ID          string `json:"id"`
	NumeroSerie string `json:"numero_serie"`
	Estado      string `json:"estado"`
	Saldo       string `json:"saldo"`
}

func crearEquipoYUnidad(t *testing.T, env *testEnv, codigo string) (equipoID, unidadID, serie string) {
	t.Helper()
	var eq idResp
	status := env.do(t, http.MethodPost, "/v1/equipos", map[string]any{
		"codigo":        codigo,
		"nombre":        "Criba vibratoria 3x16",
		"categoria":     "Cribas",
		"precio_lista":  "100000",
		"precio_minimo": "90000",
	}, &eq)
	require.Equal(t, http.StatusCreated, status)

	var u idResp
	status = env.do(t, http.MethodPost, "/v1/inventario", map[string]any{"equipo_id": eq.ID}, &u)
	require.Equal(t, http.StatusCreated, status)
	return eq.ID, u.ID, u.NumeroSerie
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_SaleAndSettlement(t *testing.T) {
	env := setupTestEnv(t)
	_, unidadID, serie := crearEquipoYUnidad(t, env, "cv-3616")
	assert.Equal(t, "CV-3616-001", serie)

	var venta idResp
	status := env.do(t, http.MethodPost, "/v1/inventario/"+unidadID+"/vender", map[string]any{
		"vendedor":         "Luis",
		"cliente_nombre":   "Agregados del Norte",
		"precio_venta":     "95000",
		"forma_pago":       "Transferencia",
		"anticipo_inicial": "45000",
	}, &venta)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Anticipo", venta.Estado)
	assert.Equal(t, "50000", venta.Saldo)

	// Selling the same unit again is rejected.
	status = env.do(t, http.MethodPost, "/v1/inventario/"+unidadID+"/vender", map[string]any{
		"vendedor": "Luis", "cliente_nombre": "Otro cliente", "precio_venta": "95000", "forma_pago": "Efectivo",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	var liq idResp
	status = env.do(t, http.MethodPost, "/v1/ventas/"+venta.ID+"/anticipos", map[string]any{"monto": "50000"}, &liq)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Liquidado", liq.Estado)
	assert.Equal(t, "0", liq.Saldo)

	// Cancelling the sale releases the unit.
	status = env.do(t, http.MethodDelete, "/v1/ventas/"+venta.ID+"?motivo=cliente+desistio", nil, nil)
	require.Equal(t, http.StatusNoContent, status)

	var unidad idResp
	status = env.do(t, http.MethodGet, "/v1/inventario/"+unidadID, nil, &unidad)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Disponible", unidad.Estado)
}

func TestE2E_BelowMinimumNeedsManager(t *testing.T) {
	env := setupTestEnv(t)
	_, unidadID, _ := crearEquipoYUnidad(t, env, "TR-120")

	venta := map[string]any{
		"vendedor":       "Luis",
		"cliente_nombre": "Mina La Pila",
		"precio_venta":   "80000",
		"forma_pago":     "Transferencia",
	}
	var denied struct {
		RequiereAutorizacion bool `json:"requiere_autorizacion"`
	}
	status := env.do(t, http.MethodPost, "/v1/inventario/"+unidadID+"/vender", venta, &denied)
	require.Equal(t, http.StatusForbidden, status)
	assert.True(t, denied.RequiereAutorizacion)

	venta["autorizacion"] = map[string]string{"gerente": "gerente", "password": "1234"}
	status = env.do(t, http.MethodPost, "/v1/inventario/"+unidadID+"/vender", venta, nil)
	assert.Equal(t, http.StatusCreated, status)
}

func TestE2E_SerialAllocator(t *testing.T) {
	env := setupTestEnv(t)

	var s struct {
		Serie    string `json:"serie"`
		Contador int    `json:"contador"`
	}
	for i := 1; i <= 2; i++ {
		status := env.do(t, http.MethodPost, "/v1/series/QM-200/siguiente", nil, &s)
		require.Equal(t, http.StatusOK, status)
	}
	assert.Equal(t, "QM-200-002", s.Serie)

	status := env.do(t, http.MethodPost, "/v1/admin/series/QM-200/liberar", nil, &s)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, s.Contador)
}

func TestE2E_PublicPriceCheck(t *testing.T) {
	env := setupTestEnv(t)
	crearEquipoYUnidad(t, env, "CH-30")

	anon := &testEnv{server: env.server}
	var precio struct {
		PrecioConIVA        string `json:"precio_con_iva"`
		UnidadesDisponibles int64  `json:"unidades_disponibles"`
	}
	status := anon.do(t, http.MethodGet, "/v1/precio/ch-30", nil, &precio)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "116000", precio.PrecioConIVA)
	assert.EqualValues(t, 1, precio.UnidadesDisponibles)
}
