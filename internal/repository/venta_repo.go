package repository

import (
	"context"
	"time"

	"drinkeo/internal/dto"
	"drinkeo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindByIDForUpdateTx locks the venta header so two concurrent void
	// requests cannot both observe estado = completada.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string, motivo *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// ListAll returns every venta matching the filter, unpaginated. For exports
	// that must not be silently truncated to one page.
	ListAll(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, error)
	// DB exposes the DB for transaction creation in the service layer.
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto.Categoria").
		Preload("Empleado").
		Preload("Cliente").
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, id).Error; err != nil {
		return nil, err
	}
	// Detalles are loaded separately: FOR UPDATE cannot be combined with the
	// outer joins a Preload on the locked query would generate.
	if err := tx.Where("venta_id = ?", id).Find(&v.Detalles).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string, motivo *string) error {
	updates := map[string]interface{}{"estado": estado}
	if motivo != nil {
		updates["motivo_anulacion"] = *motivo
	}
	return tx.Model(&model.Venta{}).Where("id = ?", id).Updates(updates).Error
}

// Delete hard-deletes the venta; detalles go with it via ON DELETE CASCADE.
func (r *ventaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Venta{}, id).Error
}

const (
	ventasLimiteDefecto = 50
	ventasLimiteMaximo  = 200
)

// normalizeVentaPage clamps pagination to sane bounds. An over-limit request
// snaps to the cap, not the default, so a caller asking for "everything"
// degrades to the biggest page instead of the smallest.
func normalizeVentaPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = ventasLimiteDefecto
	}
	if limit > ventasLimiteMaximo {
		limit = ventasLimiteMaximo
	}
	return page, limit
}

func applyVentaFilters(q *gorm.DB, filter dto.VentaFilter) *gorm.DB {
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.EmpleadoID != "" {
		q = q.Where("empleado_id = ?", filter.EmpleadoID)
	}
	if filter.MetodoPago != "" {
		q = q.Where("metodo_pago = ?", filter.MetodoPago)
	}
	if filter.FechaInicio != "" {
		if desde, err := time.Parse("2006-01-02", filter.FechaInicio); err == nil {
			q = q.Where("created_at >= ?", desde)
		}
	}
	if filter.FechaFin != "" {
		if hasta, err := time.Parse("2006-01-02", filter.FechaFin); err == nil {
			q = q.Where("created_at < ?", hasta.AddDate(0, 0, 1))
		}
	}
	return q
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := applyVentaFilters(r.db.WithContext(ctx).Model(&model.Venta{}), filter)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizeVentaPage(filter.Page, filter.Limit)

	err := q.Preload("Detalles").Preload("Empleado").Preload("Cliente").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepo) ListAll(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, error) {
	var ventas []model.Venta
	q := applyVentaFilters(r.db.WithContext(ctx).Model(&model.Venta{}), filter)
	err := q.Preload("Detalles").Preload("Empleado").Preload("Cliente").
		Order("created_at DESC").
		Find(&ventas).Error
	return ventas, err
}
