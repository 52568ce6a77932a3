package service_test

import (
	"context"
	"errors"
	"testing"

	"drinkeo/internal/dto"
	"drinkeo/internal/model"
	"drinkeo/internal/repository"
	"drinkeo/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory stubs. The services run their transaction helper with a nil
// *gorm.DB in this mode, so the stubs receive nil tx handles and ignore them.

// ── InsumoRepository stub ─────────────────────────────────────────────────────

type stubInsumoRepo struct {
	insumos map[uuid.UUID]*model.Insumo
	// findByIDTxCalls counts transaction-bound reads, to assert that
	// pre-mutation checks ride the caller's tx and not the base connection.
	findByIDTxCalls int
	// failUpdate makes UpdateStockTx fail for the given insumo, simulating a
	// mid-transaction datastore error.
	failUpdate map[uuid.UUID]error
}

func newStubInsumoRepo() *stubInsumoRepo {
	return &stubInsumoRepo{insumos: make(map[uuid.UUID]*model.Insumo)}
}

func (r *stubInsumoRepo) Create(_ context.Context, _ *gorm.DB, i *model.Insumo) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	stored := *i
	r.insumos[i.ID] = &stored
	return nil
}

func (r *stubInsumoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Insumo, error) {
	i, ok := r.insumos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *i
	return &copia, nil
}

func (r *stubInsumoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Insumo, error) {
	r.findByIDTxCalls++
	i, ok := r.insumos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *i
	return &copia, nil
}

func (r *stubInsumoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Insumo, error) {
	i, ok := r.insumos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *i
	return &copia, nil
}

func (r *stubInsumoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, stock decimal.Decimal, alerta bool) error {
	if err := r.failUpdate[id]; err != nil {
		return err
	}
	i, ok := r.insumos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.Stock = stock
	i.Alerta = alerta
	return nil
}

func (r *stubInsumoRepo) List(_ context.Context, _ dto.InsumoFilter) ([]model.Insumo, int64, error) {
	var result []model.Insumo
	for _, i := range r.insumos {
		result = append(result, *i)
	}
	return result, int64(len(result)), nil
}

func (r *stubInsumoRepo) ListAlertas(_ context.Context) ([]model.Insumo, error) {
	var result []model.Insumo
	for _, i := range r.insumos {
		if i.Alerta && i.Activo {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (r *stubInsumoRepo) DB() *gorm.DB { return nil }

var _ repository.InsumoRepository = (*stubInsumoRepo)(nil)

// ── MovimientoRepository stub ────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoInventario
	// failCreate makes every CreateTx fail, simulating a datastore error
	// during the audit write.
	failCreate error
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	var result []model.MovimientoInventario
	for _, m := range r.movimientos {
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		if filter.InsumoID != "" && m.InsumoID.String() != filter.InsumoID {
			continue
		}
		result = append(result, m)
	}
	return result, int64(len(result)), nil
}

var _ repository.MovimientoRepository = (*stubMovimientoRepo)(nil)

// ── RecetaRepository stub ─────────────────────────────────────────────────────

type stubRecetaRepo struct {
	recetas []model.Receta
}

func (r *stubRecetaRepo) FindByProductoID(_ context.Context, productoID uuid.UUID) ([]model.Receta, error) {
	var result []model.Receta
	for _, rec := range r.recetas {
		if rec.ProductoID == productoID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (r *stubRecetaRepo) Create(_ context.Context, receta *model.Receta) error {
	if receta.ID == uuid.Nil {
		receta.ID = uuid.New()
	}
	r.recetas = append(r.recetas, *receta)
	return nil
}

var _ repository.RecetaRepository = (*stubRecetaRepo)(nil)

// ── ProductoRepository stub ──────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context) ([]model.Producto, error) {
	var result []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			result = append(result, *p)
		}
	}
	return result, nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Empleado / Cliente stubs ─────────────────────────────────────────────────

type stubEmpleadoRepo struct {
	empleados map[uuid.UUID]*model.Empleado
}

func newStubEmpleadoRepo() *stubEmpleadoRepo {
	return &stubEmpleadoRepo{empleados: make(map[uuid.UUID]*model.Empleado)}
}

func (r *stubEmpleadoRepo) Create(_ context.Context, e *model.Empleado) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.empleados[e.ID] = e
	return nil
}

func (r *stubEmpleadoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Empleado, error) {
	e, ok := r.empleados[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

var _ repository.EmpleadoRepository = (*stubEmpleadoRepo)(nil)

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── VentaRepository stub ─────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Detalles {
		if v.Detalles[i].ID == uuid.Nil {
			v.Detalles[i].ID = uuid.New()
		}
		v.Detalles[i].VentaID = v.ID
	}
	stored := *v
	r.ventas[v.ID] = &stored
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *v
	return &copia, nil
}

func (r *stubVentaRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string, motivo *string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Estado = estado
	if motivo != nil {
		v.MotivoAnulacion = motivo
	}
	return nil
}

func (r *stubVentaRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.ventas[id]; !ok {
		return errors.New("not found")
	}
	delete(r.ventas, id)
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	result, err := r.ListAll(context.Background(), filter)
	return result, int64(len(result)), err
}

func (r *stubVentaRepo) ListAll(_ context.Context, filter dto.VentaFilter) ([]model.Venta, error) {
	var result []model.Venta
	for _, v := range r.ventas {
		if filter.Estado != "" && filter.Estado != "all" && v.Estado != filter.Estado {
			continue
		}
		result = append(result, *v)
	}
	return result, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

func seedInsumo(repo *stubInsumoRepo, nombre string, stock, minimo float64) *model.Insumo {
	i := &model.Insumo{
		ID:           uuid.New(),
		Nombre:       nombre,
		UnidadMedida: "litro",
		Stock:        decimal.NewFromFloat(stock),
		MinimoStock:  decimal.NewFromFloat(minimo),
		Activo:       true,
	}
	i.Alerta = i.Stock.LessThanOrEqual(i.MinimoStock)
	repo.insumos[i.ID] = i
	return i
}

func seedProducto(repo *stubProductoRepo, nombre string, precio float64) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Nombre:      nombre,
		PrecioVenta: decimal.NewFromFloat(precio),
		Activo:      true,
	}
	repo.productos[p.ID] = p
	return p
}

func seedReceta(repo *stubRecetaRepo, productoID, insumoID uuid.UUID, cantidad float64) {
	repo.recetas = append(repo.recetas, model.Receta{
		ID:            uuid.New(),
		ProductoID:    productoID,
		InsumoID:      insumoID,
		CantidadUsada: decimal.NewFromFloat(cantidad),
	})
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// buildInventario wires the ledger and consumption engine over fresh stubs.
func buildInventario() (service.StockService, service.InventarioService, *stubInsumoRepo, *stubMovimientoRepo, *stubRecetaRepo) {
	insumoRepo := newStubInsumoRepo()
	movRepo := &stubMovimientoRepo{}
	recetaRepo := &stubRecetaRepo{}
	stockSvc := service.NewStockService(insumoRepo, movRepo)
	invSvc := service.NewInventarioService(stockSvc, recetaRepo, insumoRepo, movRepo, nil)
	return stockSvc, invSvc, insumoRepo, movRepo, recetaRepo
}
