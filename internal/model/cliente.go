package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is an optional customer reference on a venta.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Telefono  *string
	Email     *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization for the Spanish name.
func (Cliente) TableName() string { return "clientes" }
