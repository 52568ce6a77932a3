package service

import (
	"context"
	"errors"
	"fmt"

	"drinkeo/internal/dto"
	"drinkeo/internal/model"
	"drinkeo/internal/repository"
	"drinkeo/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventarioService translates product sales into concrete ledger deductions
// (the consumption engine) and exposes the manual-movement and alert surface.
type InventarioService interface {
	// ConsumirIngredientesProductoTx deducts every insumo of the product's
	// receta for cantidadVendida units, all-or-nothing inside the caller's
	// transaction. A product without receta is a successful no-op.
	ConsumirIngredientesProductoTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, cantidadVendida int, motivoPrefix string) ([]dto.StockResult, error)
	// ReponerIngredientesProductoTx is the symmetric restock used when a venta
	// is voided: the same receta quantities re-enter as movimientos de entrada.
	ReponerIngredientesProductoTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, cantidadVendida int, motivoPrefix string) ([]dto.StockResult, error)
	RegistrarMovimientoManual(ctx context.Context, req dto.MovimientoManualRequest) (*dto.StockResult, error)
	// NotificarAlertas enqueues low-stock mails for results whose alert flag
	// just turned on. Call it only after the surrounding transaction commits.
	NotificarAlertas(ctx context.Context, resultados []dto.StockResult)
	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	stock       StockService
	recetas     repository.RecetaRepository
	insumos     repository.InsumoRepository
	movimientos repository.MovimientoRepository
	dispatcher  *worker.Dispatcher
}

func NewInventarioService(
	stock StockService,
	recetas repository.RecetaRepository,
	insumos repository.InsumoRepository,
	movimientos repository.MovimientoRepository,
	dispatcher *worker.Dispatcher,
) InventarioService {
	return &inventarioService{
		stock:       stock,
		recetas:     recetas,
		insumos:     insumos,
		movimientos: movimientos,
		dispatcher:  dispatcher,
	}
}

func (s *inventarioService) ConsumirIngredientesProductoTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, cantidadVendida int, motivoPrefix string) ([]dto.StockResult, error) {
	recetas, err := s.recetas.FindByProductoID(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if len(recetas) == 0 {
		// Producto sin receta: la venta procede sin efecto sobre el inventario.
		return nil, nil
	}

	factor := decimal.NewFromInt(int64(cantidadVendida))

	// Validation pass: fail before mutating anything. Reads ride the caller's
	// transaction so they see its own prior writes; the exclusive row lock
	// taken during the deduction pass is still the authoritative guard, not
	// this read.
	for _, linea := range recetas {
		insumo, err := s.insumos.FindByIDTx(tx, linea.InsumoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInsumoNoEncontrado
			}
			return nil, err
		}
		necesario := linea.CantidadUsada.Mul(factor)
		if insumo.Stock.LessThan(necesario) {
			return nil, &StockInsuficienteError{
				InsumoID:   insumo.ID,
				Insumo:     insumo.Nombre,
				Necesario:  necesario,
				Disponible: insumo.Stock,
			}
		}
	}

	// Deduction pass.
	resultados := make([]dto.StockResult, 0, len(recetas))
	motivo := fmt.Sprintf("%s - producto %s", motivoPrefix, productoID)
	for _, linea := range recetas {
		necesario := linea.CantidadUsada.Mul(factor)
		res, err := s.stock.ConsumirStockTx(ctx, tx, linea.InsumoID, necesario, motivo)
		if err != nil {
			return nil, err
		}
		resultados = append(resultados, *res)
	}
	return resultados, nil
}

func (s *inventarioService) ReponerIngredientesProductoTx(ctx context.Context, tx *gorm.DB, productoID uuid.UUID, cantidadVendida int, motivoPrefix string) ([]dto.StockResult, error) {
	recetas, err := s.recetas.FindByProductoID(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if len(recetas) == 0 {
		return nil, nil
	}

	factor := decimal.NewFromInt(int64(cantidadVendida))
	resultados := make([]dto.StockResult, 0, len(recetas))
	motivo := fmt.Sprintf("%s - producto %s", motivoPrefix, productoID)
	for _, linea := range recetas {
		cantidad := linea.CantidadUsada.Mul(factor)
		res, err := s.stock.AgregarStockTx(ctx, tx, linea.InsumoID, cantidad, motivo)
		if err != nil {
			return nil, err
		}
		resultados = append(resultados, *res)
	}
	return resultados, nil
}

func (s *inventarioService) RegistrarMovimientoManual(ctx context.Context, req dto.MovimientoManualRequest) (*dto.StockResult, error) {
	insumoID, err := uuid.Parse(req.InsumoID)
	if err != nil {
		return nil, fmt.Errorf("id_insumo inválido: %w", err)
	}

	var res *dto.StockResult
	switch req.TipoMovimiento {
	case model.MovimientoEntrada:
		res, err = s.stock.AgregarStock(ctx, insumoID, req.Cantidad, req.Motivo)
	case model.MovimientoSalida:
		res, err = s.stock.ConsumirStock(ctx, insumoID, req.Cantidad, req.Motivo)
	default:
		return nil, fmt.Errorf("tipo_movimiento inválido: %s", req.TipoMovimiento)
	}
	if err != nil {
		return nil, err
	}

	s.NotificarAlertas(ctx, []dto.StockResult{*res})
	return res, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	insumos, err := s.insumos.ListAlertas(ctx)
	if err != nil {
		return nil, err
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(insumos))
	for _, i := range insumos {
		alertas = append(alertas, dto.AlertaStockResponse{
			InsumoID:     i.ID.String(),
			Nombre:       i.Nombre,
			UnidadMedida: i.UnidadMedida,
			Stock:        i.Stock,
			MinimoStock:  i.MinimoStock,
		})
	}
	return alertas, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	movimientos, total, err := s.movimientos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoResponse, 0, len(movimientos))
	for _, m := range movimientos {
		nombre := ""
		if m.Insumo != nil {
			nombre = m.Insumo.Nombre
		}
		items = append(items, dto.MovimientoResponse{
			ID:            m.ID.String(),
			Insumo:        nombre,
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			Fecha:         m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 100
	}
	return &dto.MovimientoListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// NotificarAlertas enqueues a low-stock mail for every insumo whose alert flag
// just turned on. Called only AFTER the mutation is committed — a job for a
// rolled-back deduction would be a lie. Best effort: fire & forget.
func (s *inventarioService) NotificarAlertas(ctx context.Context, resultados []dto.StockResult) {
	if s.dispatcher == nil {
		return
	}
	for _, r := range resultados {
		if !r.AlertaActivada {
			continue
		}
		_ = s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{
			InsumoID: r.InsumoID,
			Insumo:   r.Insumo,
			Stock:    r.StockNuevo.String(),
		})
	}
}
