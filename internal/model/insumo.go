package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Insumo is a stocked raw ingredient or consumable (ron, azúcar, vasos…),
// distinct from the sellable Producto. Stock is decimal because many insumos
// are measured in fractional units (litros, kg).
//
// Invariant: stock >= 0 after every committed transaction, and
// alerta == (stock <= minimo_stock). Both are maintained exclusively by the
// stock ledger (service.StockService) — no other code path may touch stock.
type Insumo struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string          `gorm:"uniqueIndex;not null"`
	UnidadMedida string          `gorm:"not null;default:'unidad'"`
	Stock        decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	MinimoStock  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	// Alerta is derived — recomputed on every stock mutation, never set by hand.
	Alerta             bool `gorm:"not null;default:false"`
	CostoUnitario      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	FechaUltimaCompra  *time.Time
	Activo             bool `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName overrides GORM's default pluralization for the Spanish name.
func (Insumo) TableName() string { return "insumos" }
