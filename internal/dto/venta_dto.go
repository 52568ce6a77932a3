package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	FechaInicio string `form:"fecha_inicio"` // YYYY-MM-DD inclusive
	FechaFin    string `form:"fecha_fin"`    // YYYY-MM-DD inclusive
	EmpleadoID  string `form:"id_empleado"`
	MetodoPago  string `form:"metodo_pago"`
	Estado      string `form:"estado"` // completada | anulada | all
	Page        int    `form:"page,default=1"`
	Limit       int    `form:"limit,default=50"`
}

// VentaListItem is the summary row returned by GET /v1/ventas.
type VentaListItem struct {
	ID            string          `json:"id"`
	Empleado      string          `json:"empleado"`
	Cliente       *string         `json:"cliente"`
	Total         decimal.Decimal `json:"total"`
	MetodoPago    string          `json:"metodo_pago"`
	Estado        string          `json:"estado"`
	CantidadItems int             `json:"cantidad_items"`
	Fecha         string          `json:"fecha"`
}

type VentaListResponse struct {
	Data  []VentaListItem `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DetalleVentaRequest struct {
	ProductoID     string          `json:"id_producto"     validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

type RegistrarVentaRequest struct {
	ClienteID  *string               `json:"id_cliente"  validate:"omitempty,uuid"`
	EmpleadoID string                `json:"id_empleado" validate:"required,uuid"`
	MetodoPago string                `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia"`
	Detalles   []DetalleVentaRequest `json:"detalles"    validate:"required,min=1,dive"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo_anulacion" validate:"omitempty,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleVentaResponse struct {
	Producto       string          `json:"producto"`
	Categoria      string          `json:"categoria,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID              string                 `json:"id"`
	Empleado        string                 `json:"empleado"`
	Cliente         *string                `json:"cliente"`
	Detalles        []DetalleVentaResponse `json:"detalles"`
	Total           decimal.Decimal        `json:"total"`
	MetodoPago      string                 `json:"metodo_pago"`
	Estado          string                 `json:"estado"`
	MotivoAnulacion *string                `json:"motivo_anulacion,omitempty"`
	CreatedAt       string                 `json:"created_at"`
}

// RegistrarVentaResponse is the 201 envelope of POST /v1/ventas.
type RegistrarVentaResponse struct {
	Message string        `json:"message"`
	Venta   VentaResponse `json:"venta"`
}
