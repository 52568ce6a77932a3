package service

import (
	"context"
	"errors"

	"drinkeo/internal/dto"
	"drinkeo/internal/metrics"
	"drinkeo/internal/model"
	"drinkeo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockService is the stock ledger: the only code path permitted to mutate an
// insumo's stock. Every mutation leaves exactly one MovimientoInventario and a
// refreshed alert flag, all in the same transaction.
//
// The Tx variants participate in the caller's transaction and never commit on
// their own; the plain variants open, commit and roll back their own. Nesting
// independent transactions inside a sale would break its atomicity, which is
// why the tx handle is threaded explicitly instead of opened ad hoc.
type StockService interface {
	AgregarStock(ctx context.Context, insumoID uuid.UUID, cantidad decimal.Decimal, motivo string) (*dto.StockResult, error)
	ConsumirStock(ctx context.Context, insumoID uuid.UUID, cantidad decimal.Decimal, motivo string) (*dto.StockResult, error)
	AgregarStockTx(ctx context.Context, tx *gorm.DB, insumoID uuid.UUID, cantidad decimal.Decimal, motivo string) (*dto.StockResult, error)
	ConsumirStockTx(ctx context.Context, tx *gorm.DB, insumoID uuid.UUID, cantidad decimal.Decimal, motivo string) (*dto.StockResult, error)
}

type stockService struct {
	insumos     repository.InsumoRepository
	movimientos repository.MovimientoRepository
}

func NewStockService(insumos repository.InsumoRepository, movimientos repository.MovimientoRepository) StockService {
	return &stockService{insumos: insumos, movimientos: movimientos}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *stockService) AgregarStock(ctx context.Context, insumoID uuid.UUID, cantidad decimal.Decimal, motivo string) (*dto.StockResult, error) {
	var res *dto.StockResult
	err := runTx(ctx, s.insumos.DB(), func(tx *gorm.DB) error {
		var txErr error
		res, txErr = s.AgregarStockTx(ctx, tx, insumoID, cantidad, motivo)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	registrarMetricas([]dto.StockResult{*res})
	return res, nil
}

func (s *stockService) ConsumirStock(ctx context.Context, insumoID uuid.UUID, cantidad decimal.Decimal, motivo string) (*dto.StockResult, error) {
	var res *dto.StockResult
	err := runTx(ctx, s.insumos.DB(), func(tx *gorm.DB) error {
		var txErr error
		res, txErr = s.ConsumirStockTx(ctx, tx, insumoID, cantidad, motivo)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	registrarMetricas([]dto.StockResult{*res})
	return res, nil
}

func (s *stockService) AgregarStockTx(ctx context.Context, tx *gorm.DB, insumoID uuid.UUID, cantidad decimal.Decimal, motivo string) (*dto.StockResult, error) {
	if cantidad.Sign() <= 0 {
		return nil, ErrCantidadInvalida
	}
	insumo, err := s.lockInsumo(tx, insumoID)
	if err != nil {
		return nil, err
	}
	nuevo := insumo.Stock.Add(cantidad)
	return s.applyMutation(tx, insumo, nuevo, model.MovimientoEntrada, cantidad, motivo)
}

func (s *stockService) ConsumirStockTx(ctx context.Context, tx *gorm.DB, insumoID uuid.UUID, cantidad decimal.Decimal, motivo string) (*dto.StockResult, error) {
	if cantidad.Sign() <= 0 {
		return nil, ErrCantidadInvalida
	}
	// The row lock MUST precede the sufficiency check: two concurrent sales of
	// the same insumo serialize here, and the loser re-reads the committed
	// stock instead of deciding on stale data.
	insumo, err := s.lockInsumo(tx, insumoID)
	if err != nil {
		return nil, err
	}
	if insumo.Stock.LessThan(cantidad) {
		return nil, &StockInsuficienteError{
			InsumoID:   insumo.ID,
			Insumo:     insumo.Nombre,
			Necesario:  cantidad,
			Disponible: insumo.Stock,
		}
	}
	nuevo := insumo.Stock.Sub(cantidad)
	return s.applyMutation(tx, insumo, nuevo, model.MovimientoSalida, cantidad, motivo)
}

func (s *stockService) lockInsumo(tx *gorm.DB, insumoID uuid.UUID) (*model.Insumo, error) {
	insumo, err := s.insumos.FindByIDForUpdateTx(tx, insumoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsumoNoEncontrado
		}
		return nil, err
	}
	return insumo, nil
}

// applyMutation writes the new stock value, the recomputed alert flag and the
// audit movement as one unit inside the caller's transaction.
func (s *stockService) applyMutation(tx *gorm.DB, insumo *model.Insumo, nuevo decimal.Decimal, tipo string, cantidad decimal.Decimal, motivo string) (*dto.StockResult, error) {
	alerta := nuevo.LessThanOrEqual(insumo.MinimoStock)

	if err := s.insumos.UpdateStockTx(tx, insumo.ID, nuevo, alerta); err != nil {
		return nil, err
	}
	mov := &model.MovimientoInventario{
		InsumoID:      insumo.ID,
		Tipo:          tipo,
		Cantidad:      cantidad,
		StockAnterior: insumo.Stock,
		StockNuevo:    nuevo,
		Motivo:        motivo,
	}
	if err := s.movimientos.CreateTx(tx, mov); err != nil {
		return nil, err
	}

	return &dto.StockResult{
		InsumoID:          insumo.ID.String(),
		Insumo:            insumo.Nombre,
		StockNuevo:        nuevo,
		Alerta:            alerta,
		AlertaActivada:    alerta && !insumo.Alerta,
		AlertaDesactivada: !alerta && insumo.Alerta,
		Tipo:              tipo,
	}, nil
}

// registrarMetricas publishes movement counters and the alert gauge for
// committed ledger results. Must be called only after the surrounding
// transaction commits — a rolled-back deduction must never reach prometheus.
func registrarMetricas(resultados []dto.StockResult) {
	for _, r := range resultados {
		metrics.MovimientosInventario.WithLabelValues(r.Tipo).Inc()
		if r.AlertaActivada {
			metrics.InsumosEnAlerta.Inc()
		}
		if r.AlertaDesactivada {
			metrics.InsumosEnAlerta.Dec()
		}
	}
}
