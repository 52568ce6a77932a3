package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale states. The only legal transition is completada → anulada.
const (
	VentaCompletada = "completada"
	VentaAnulada    = "anulada"
)

// Payment methods accepted at the register.
const (
	PagoEfectivo      = "efectivo"
	PagoTarjeta       = "tarjeta"
	PagoTransferencia = "transferencia"
)

// Venta is a customer transaction. It exclusively owns its Detalles
// (cascade delete). Total always equals the sum of detalle subtotales at
// creation time; it is never recomputed afterwards.
type Venta struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID       *uuid.UUID `gorm:"type:uuid;index"`
	EmpleadoID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago      string          `gorm:"type:varchar(20);not null"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'completada'"`
	MotivoAnulacion *string
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time

	Detalles []DetalleVenta `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
	Empleado *Empleado      `gorm:"foreignKey:EmpleadoID"`
	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
}

// TableName overrides GORM's default pluralization for the Spanish name.
func (Venta) TableName() string { return "ventas" }

// DetalleVenta is one product line within a venta. PrecioUnitario is a
// snapshot of the price at the time of sale, not a live catalog lookup.
// Immutable once created.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (detalle_ventas → detalles_ventas).
func (DetalleVenta) TableName() string { return "detalles_ventas" }
