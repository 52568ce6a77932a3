package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receta maps a producto to one insumo it consumes per unit sold.
// A product with zero receta rows is valid: selling it moves no stock.
// The sale engine treats recetas as read-only.
type Receta struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index:idx_recetas_producto"`
	InsumoID   uuid.UUID `gorm:"type:uuid;not null;index"`
	// CantidadUsada is the amount of insumo consumed per unit of product sold.
	CantidadUsada decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Insumo   *Insumo   `gorm:"foreignKey:InsumoID"`
}

// TableName overrides GORM's default pluralization for the Spanish name.
func (Receta) TableName() string { return "recetas" }
