package repository

import (
	"context"

	"drinkeo/internal/dto"
	"drinkeo/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsumoRepository is the data access contract for stocked ingredients.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type InsumoRepository interface {
	// Create inserts the insumo on the caller's transaction.
	Create(ctx context.Context, tx *gorm.DB, i *model.Insumo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Insumo, error)
	// FindByIDTx is the same read on the caller's transaction (no lock), for
	// checks that must see the transaction's own uncommitted writes.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Insumo, error)
	// FindByIDForUpdateTx reads the row with an exclusive lock (SELECT … FOR
	// UPDATE). Concurrent consumers of the same insumo serialize here; the
	// second transaction blocks until the first commits, then re-reads the
	// now-current stock. This lock is the correctness boundary for the
	// no-overselling guarantee — callers must hold it before any sufficiency
	// check that precedes a deduction.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Insumo, error)
	// UpdateStockTx persists a new stock value and the recomputed alert flag.
	// Only the stock ledger calls this.
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal, alerta bool) error
	List(ctx context.Context, filter dto.InsumoFilter) ([]model.Insumo, int64, error)
	ListAlertas(ctx context.Context) ([]model.Insumo, error)
	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type insumoRepo struct{ db *gorm.DB }

func NewInsumoRepository(db *gorm.DB) InsumoRepository { return &insumoRepo{db: db} }

func (r *insumoRepo) DB() *gorm.DB { return r.db }

func (r *insumoRepo) Create(ctx context.Context, tx *gorm.DB, i *model.Insumo) error {
	return tx.WithContext(ctx).Create(i).Error
}

func (r *insumoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Insumo, error) {
	var i model.Insumo
	err := r.db.WithContext(ctx).First(&i, id).Error
	return &i, err
}

func (r *insumoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Insumo, error) {
	var i model.Insumo
	err := tx.First(&i, id).Error
	return &i, err
}

func (r *insumoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Insumo, error) {
	var i model.Insumo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&i, id).Error
	return &i, err
}

func (r *insumoRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, stock decimal.Decimal, alerta bool) error {
	return tx.Model(&model.Insumo{}).Where("id = ?", id).Updates(map[string]interface{}{
		"stock":  stock,
		"alerta": alerta,
	}).Error
}

func (r *insumoRepo) List(ctx context.Context, filter dto.InsumoFilter) ([]model.Insumo, int64, error) {
	var insumos []model.Insumo
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Insumo{}).Where("activo = true")
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if filter.Alerta == "true" {
		q = q.Where("alerta = true")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	err := q.Order("nombre ASC").Offset((page - 1) * limit).Limit(limit).Find(&insumos).Error
	return insumos, total, err
}

func (r *insumoRepo) ListAlertas(ctx context.Context) ([]model.Insumo, error) {
	var insumos []model.Insumo
	err := r.db.WithContext(ctx).
		Where("alerta = true AND activo = true").
		Order("nombre ASC").
		Find(&insumos).Error
	return insumos, err
}
