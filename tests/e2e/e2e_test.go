//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests cover the guarantees that only hold against a real database:
//   - full sale cycle over HTTP, stock deducted and audited
//   - insufficient stock rejects the sale and persists nothing
//   - voiding a sale restores stock
//   - two concurrent sales competing for the last units never oversell

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"drinkeo/internal/config"
	"drinkeo/internal/infra"
	"drinkeo/internal/model"
	"drinkeo/internal/router"
	"drinkeo/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB

	empleado model.Empleado
	ron      model.Insumo
	producto model.Producto
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("drinkeo_test"),
		tcPostgres.WithUsername("drinkeo"),
		tcPostgres.WithPassword("drinkeo"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                   8000,
		Env:                    "test",
		DatabaseURL:            pgURL,
		RedisURL:               rdURL,
		WorkerPoolSize:         1,
		PDFStoragePath:         t.TempDir(),
		PermitirEliminarVentas: false,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	dispatcher := worker.NewDispatcher(rdb)
	r := router.New(cfg, db, rdb, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	env := &testEnv{server: srv, db: db}

	// Seed: un empleado, el insumo Ron (5 L, mínimo 2) y un Cuba Libre que
	// consume 0.06 L por unidad.
	env.empleado = model.Empleado{Nombre: "Caja E2E", Cargo: "cajero", Activo: true}
	require.NoError(t, db.Create(&env.empleado).Error)

	env.ron = model.Insumo{
		Nombre:       "Ron",
		UnidadMedida: "litro",
		Stock:        decimal.NewFromInt(5),
		MinimoStock:  decimal.NewFromInt(2),
		Activo:       true,
	}
	require.NoError(t, db.Create(&env.ron).Error)

	env.producto = model.Producto{
		Nombre:      "Cuba Libre",
		PrecioVenta: decimal.NewFromInt(1500),
		Activo:      true,
	}
	require.NoError(t, db.Create(&env.producto).Error)

	receta := model.Receta{
		ProductoID:    env.producto.ID,
		InsumoID:      env.ron.ID,
		CantidadUsada: decimal.NewFromFloat(0.06),
	}
	require.NoError(t, db.Create(&receta).Error)

	return env
}

func (env *testEnv) registrarVenta(t *testing.T, cantidad int) *http.Response {
	t.Helper()
	return do(t, env.server, "POST", "/v1/ventas", jsonBody(t, map[string]any{
		"id_empleado": env.empleado.ID.String(),
		"metodo_pago": "efectivo",
		"detalles": []map[string]any{
			{"id_producto": env.producto.ID.String(), "cantidad": cantidad, "precio_unitario": 1500},
		},
	}))
}

func (env *testEnv) stockRon(t *testing.T) decimal.Decimal {
	t.Helper()
	var i model.Insumo
	require.NoError(t, env.db.First(&i, env.ron.ID).Error)
	return i.Stock
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.registrarVenta(t, 3)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Message string `json:"message"`
		Venta   struct {
			ID     string `json:"id"`
			Total  string `json:"total"`
			Estado string `json:"estado"`
		} `json:"venta"`
	}
	decodeJSON(t, resp, &created)
	assert.Equal(t, "completada", created.Venta.Estado)
	assert.Equal(t, "4500", created.Venta.Total)

	// 5 - 3×0.06 = 4.82
	assert.True(t, env.stockRon(t).Equal(decimal.NewFromFloat(4.82)))

	// One salida in the audit trail
	movResp := do(t, env.server, "GET", "/v1/inventario/movimientos?tipo=salida", nil)
	require.Equal(t, http.StatusOK, movResp.StatusCode)
	var movimientos struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, movResp, &movimientos)
	assert.EqualValues(t, 1, movimientos.Total)

	// Sale shows up in the listing
	listResp := do(t, env.server, "GET", "/v1/ventas?estado=completada", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
}

func TestE2E_StockInsuficiente_NadaPersiste(t *testing.T) {
	env := setupTestEnv(t)

	// 100 units need 6 L; only 5 available
	resp := env.registrarVenta(t, 100)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody struct {
		Detail string `json:"detail"`
	}
	decodeJSON(t, resp, &errBody)
	assert.Contains(t, errBody.Detail, "insuficiente")

	// Stock untouched, no venta row, no movimientos
	assert.True(t, env.stockRon(t).Equal(decimal.NewFromInt(5)))

	var ventas int64
	require.NoError(t, env.db.Model(&model.Venta{}).Count(&ventas).Error)
	assert.EqualValues(t, 0, ventas)

	var movs int64
	require.NoError(t, env.db.Model(&model.MovimientoInventario{}).Count(&movs).Error)
	assert.EqualValues(t, 0, movs)
}

func TestE2E_AnularVenta_RestauraStock(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.registrarVenta(t, 3)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Venta struct {
			ID string `json:"id"`
		} `json:"venta"`
	}
	decodeJSON(t, resp, &created)

	anularResp := do(t, env.server, "PATCH", "/v1/ventas/"+created.Venta.ID+"/anular",
		jsonBody(t, map[string]any{"motivo_anulacion": "cliente se arrepintió"}))
	require.Equal(t, http.StatusOK, anularResp.StatusCode)
	var anulada struct {
		Estado string `json:"estado"`
	}
	decodeJSON(t, anularResp, &anulada)
	assert.Equal(t, "anulada", anulada.Estado)

	// Back to 5 L, with the entrada documenting the reversal
	assert.True(t, env.stockRon(t).Equal(decimal.NewFromInt(5)))

	var entradas int64
	require.NoError(t, env.db.Model(&model.MovimientoInventario{}).
		Where("tipo = ?", model.MovimientoEntrada).Count(&entradas).Error)
	assert.EqualValues(t, 1, entradas)

	// Second void must fail and must not restock again
	again := do(t, env.server, "PATCH", "/v1/ventas/"+created.Venta.ID+"/anular",
		jsonBody(t, map[string]any{"motivo_anulacion": "segundo intento"}))
	assert.Equal(t, http.StatusBadRequest, again.StatusCode)
	assert.True(t, env.stockRon(t).Equal(decimal.NewFromInt(5)))
}

func TestE2E_VentaMultilinea_RollbackCompleto(t *testing.T) {
	env := setupTestEnv(t)

	// Second product whose single ingredient is short: one granizado needs a
	// full limón, only half of one on hand.
	limon := model.Insumo{
		Nombre:       "Limón",
		UnidadMedida: "unidad",
		Stock:        decimal.NewFromFloat(0.5),
		MinimoStock:  decimal.NewFromFloat(0.1),
		Activo:       true,
	}
	require.NoError(t, env.db.Create(&limon).Error)

	granizado := model.Producto{
		Nombre:      "Granizado de Limón",
		PrecioVenta: decimal.NewFromInt(1200),
		Activo:      true,
	}
	require.NoError(t, env.db.Create(&granizado).Error)
	require.NoError(t, env.db.Create(&model.Receta{
		ProductoID:    granizado.ID,
		InsumoID:      limon.ID,
		CantidadUsada: decimal.NewFromInt(1),
	}).Error)

	// Line 1 (cuba libre) deducts ron successfully inside the transaction,
	// line 2 (granizado) fails on limón — everything must roll back.
	resp := do(t, env.server, "POST", "/v1/ventas", jsonBody(t, map[string]any{
		"id_empleado": env.empleado.ID.String(),
		"metodo_pago": "efectivo",
		"detalles": []map[string]any{
			{"id_producto": env.producto.ID.String(), "cantidad": 2, "precio_unitario": 1500},
			{"id_producto": granizado.ID.String(), "cantidad": 1, "precio_unitario": 1200},
		},
	}))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// The first line's ron deduction rolled back with the rest.
	assert.True(t, env.stockRon(t).Equal(decimal.NewFromInt(5)))

	var l model.Insumo
	require.NoError(t, env.db.First(&l, limon.ID).Error)
	assert.True(t, l.Stock.Equal(decimal.NewFromFloat(0.5)))

	var ventas int64
	require.NoError(t, env.db.Model(&model.Venta{}).Count(&ventas).Error)
	assert.EqualValues(t, 0, ventas)

	var movs int64
	require.NoError(t, env.db.Model(&model.MovimientoInventario{}).Count(&movs).Error)
	assert.EqualValues(t, 0, movs)
}

func TestE2E_ReporteVentasIncluyeTodasLasFilas(t *testing.T) {
	env := setupTestEnv(t)

	// More ventas than one listing page holds.
	const total = 60
	for i := 0; i < total; i++ {
		venta := model.Venta{
			EmpleadoID: env.empleado.ID,
			Total:      decimal.NewFromInt(1500),
			MetodoPago: "efectivo",
			Estado:     model.VentaCompletada,
		}
		require.NoError(t, env.db.Create(&venta).Error)
	}

	resp := do(t, env.server, "GET", "/v1/reportes/ventas.xlsx", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	// Header plus one row per venta — no page-size truncation.
	assert.Len(t, rows, total+1)
}

func TestE2E_VentasConcurrentes_NoSobrevenden(t *testing.T) {
	env := setupTestEnv(t)

	// Each sale of 50 units needs 3 L; with 5 L on hand only one can succeed.
	const vendedores = 2
	results := make([]int, vendedores)
	var wg sync.WaitGroup
	for i := 0; i < vendedores; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			resp := env.registrarVenta(t, 50)
			results[idx] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	exitosas := 0
	for _, code := range results {
		if code == http.StatusCreated {
			exitosas++
		}
	}
	require.Equal(t, 1, exitosas, "exactly one of the competing sales must win: %v", results)

	// 5 - 3 = 2 L left, never negative
	stock := env.stockRon(t)
	assert.True(t, stock.Equal(decimal.NewFromInt(2)), "stock = %s", stock)

	var ventas int64
	require.NoError(t, env.db.Model(&model.Venta{}).Count(&ventas).Error)
	assert.EqualValues(t, 1, ventas)
}
