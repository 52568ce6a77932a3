package model

import (
	"time"

	"github.com/google/uuid"
)

// Empleado is the cashier/operator that registers a venta.
type Empleado struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Cargo     string    `gorm:"not null;default:'cajero'"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization for the Spanish name.
func (Empleado) TableName() string { return "empleados" }
