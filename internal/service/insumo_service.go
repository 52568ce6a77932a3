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

type InsumoService interface {
	CrearInsumo(ctx context.Context, req dto.CrearInsumoRequest) (*dto.InsumoResponse, error)
	ObtenerInsumo(ctx context.Context, id uuid.UUID) (*dto.InsumoResponse, error)
	ListInsumos(ctx context.Context, filter dto.InsumoFilter) ([]dto.InsumoResponse, int64, error)
}

type insumoService struct {
	repo  repository.InsumoRepository
	stock StockService
}

func NewInsumoService(repo repository.InsumoRepository, stock StockService) InsumoService {
	return &insumoService{repo: repo, stock: stock}
}

// CrearInsumo registers the insumo with stock 0 and routes the initial stock
// through the ledger, so the opening balance shows up in the audit trail like
// any other entrada. Both steps share one transaction: a failed opening
// entrada must not leave behind an empty insumo.
func (s *insumoService) CrearInsumo(ctx context.Context, req dto.CrearInsumoRequest) (*dto.InsumoResponse, error) {
	insumo := &model.Insumo{
		Nombre:       req.Nombre,
		UnidadMedida: req.UnidadMedida,
		Stock:        decimal.Zero,
		MinimoStock:  req.MinimoStock,
		// stock 0 <= minimo always holds, so a fresh insumo starts in alert
		// until the initial entrada clears it.
		Alerta:        true,
		CostoUnitario: req.CostoUnitario,
		Activo:        true,
	}
	var apertura *dto.StockResult
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, insumo); err != nil {
			return err
		}
		if req.StockInicial.Sign() > 0 {
			var txErr error
			apertura, txErr = s.stock.AgregarStockTx(ctx, tx, insumo.ID, req.StockInicial, "Stock inicial")
			return txErr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The new insumo enters the gauge in alert; the opening entrada's
	// deactivation transition balances it back out when stock clears the
	// minimum.
	metrics.InsumosEnAlerta.Inc()
	if apertura != nil {
		registrarMetricas([]dto.StockResult{*apertura})
	}

	return s.ObtenerInsumo(ctx, insumo.ID)
}

func (s *insumoService) ObtenerInsumo(ctx context.Context, id uuid.UUID) (*dto.InsumoResponse, error) {
	insumo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsumoNoEncontrado
		}
		return nil, err
	}
	resp := insumoToResponse(insumo)
	return &resp, nil
}

func (s *insumoService) ListInsumos(ctx context.Context, filter dto.InsumoFilter) ([]dto.InsumoResponse, int64, error) {
	insumos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.InsumoResponse, 0, len(insumos))
	for i := range insumos {
		items = append(items, insumoToResponse(&insumos[i]))
	}
	return items, total, nil
}

func insumoToResponse(i *model.Insumo) dto.InsumoResponse {
	return dto.InsumoResponse{
		ID:            i.ID.String(),
		Nombre:        i.Nombre,
		UnidadMedida:  i.UnidadMedida,
		Stock:         i.Stock,
		MinimoStock:   i.MinimoStock,
		Alerta:        i.Alerta,
		CostoUnitario: i.CostoUnitario,
	}
}
