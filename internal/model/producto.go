package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a sellable item (granizado, trago, botella). Its ingredient
// consumption is defined by Receta rows; products without recetas sell
// without any stock effect.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	PrecioVenta decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CategoriaID *uuid.UUID      `gorm:"type:uuid;index"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Recetas   []Receta   `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization for the Spanish name.
func (Producto) TableName() string { return "productos" }
