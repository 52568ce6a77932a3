package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement direction values.
const (
	MovimientoEntrada = "entrada"
	MovimientoSalida  = "salida"
)

// MovimientoInventario is the immutable audit record of one stock change on an
// insumo. Created exactly once per ledger operation, never updated or deleted.
// Cantidad is always positive; Tipo carries the direction.
type MovimientoInventario struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InsumoID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          string          `gorm:"type:varchar(10);not null"` // entrada | salida
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockAnterior decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Motivo        string
	CreatedAt     time.Time

	Insumo *Insumo `gorm:"foreignKey:InsumoID"`
}

// TableName overrides GORM's default pluralization (movimiento_inventarios → movimientos_inventario).
func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
