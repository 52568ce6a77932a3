package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain errors surfaced to handlers. Handlers map them to HTTP status codes;
// anything not in this taxonomy is treated as a datastore failure (500).
var (
	ErrInsumoNoEncontrado   = errors.New("insumo no encontrado")
	ErrProductoNoEncontrado = errors.New("producto no encontrado")
	ErrEmpleadoNoEncontrado = errors.New("empleado no encontrado")
	ErrClienteNoEncontrado  = errors.New("cliente no encontrado")
	ErrVentaNoEncontrada    = errors.New("venta no encontrada")
	ErrVentaYaAnulada       = errors.New("la venta ya está anulada")
	ErrCantidadInvalida     = errors.New("la cantidad debe ser mayor que cero")

	// ErrEliminarDeshabilitado gates the hard-delete escape hatch: deleting a
	// venta does not revert stock, so it requires PERMITIR_ELIMINAR_VENTAS.
	ErrEliminarDeshabilitado = errors.New("la eliminación de ventas está deshabilitada")
)

// StockInsuficienteError reports a deduction that would leave an insumo below
// zero. It carries the quantities so the cashier sees exactly which ingredient
// ran out and by how much.
type StockInsuficienteError struct {
	InsumoID   uuid.UUID
	Insumo     string
	Necesario  decimal.Decimal
	Disponible decimal.Decimal
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s: se necesitan %s, hay %s disponibles",
		e.Insumo, e.Necesario.String(), e.Disponible.String())
}
