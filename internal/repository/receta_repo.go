package repository

import (
	"context"

	"drinkeo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecetaRepository is the read-side of recipe resolution. Recipes are managed
// by product-editing flows and the seeder; the sale engine only reads them.
type RecetaRepository interface {
	// FindByProductoID returns the product's ingredient requirements in a
	// stable order. An empty slice is a valid result, not an error.
	FindByProductoID(ctx context.Context, productoID uuid.UUID) ([]model.Receta, error)
	Create(ctx context.Context, receta *model.Receta) error
}

type recetaRepo struct{ db *gorm.DB }

func NewRecetaRepository(db *gorm.DB) RecetaRepository { return &recetaRepo{db: db} }

func (r *recetaRepo) FindByProductoID(ctx context.Context, productoID uuid.UUID) ([]model.Receta, error) {
	var recetas []model.Receta
	err := r.db.WithContext(ctx).
		Preload("Insumo").
		Where("producto_id = ?", productoID).
		Order("created_at ASC").
		Find(&recetas).Error
	return recetas, err
}

func (r *recetaRepo) Create(ctx context.Context, receta *model.Receta) error {
	return r.db.WithContext(ctx).Create(receta).Error
}
