package dto

import "github.com/shopspring/decimal"

// ─── Manual stock movements ──────────────────────────────────────────────────

// MovimientoManualRequest is the body of POST /v1/inventario/movimientos.
type MovimientoManualRequest struct {
	InsumoID       string          `json:"id_insumo"       validate:"required,uuid"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"required"`
	TipoMovimiento string          `json:"tipo_movimiento" validate:"required,oneof=entrada salida"`
	Motivo         string          `json:"motivo"          validate:"required,min=3"`
}

// MovimientoFilter is bound from query string of GET /v1/inventario/movimientos.
type MovimientoFilter struct {
	InsumoID string `form:"id_insumo"`
	Tipo     string `form:"tipo"` // entrada | salida
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=100"`
}

type MovimientoResponse struct {
	ID            string          `json:"id"`
	Insumo        string          `json:"insumo"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Motivo        string          `json:"motivo"`
	Fecha         string          `json:"fecha"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ─── Ledger results ──────────────────────────────────────────────────────────

// StockResult is returned by every ledger operation: the state of the insumo
// after the mutation. AlertaActivada marks the transitions that should fire a
// low-stock notification (false → true on this operation).
type StockResult struct {
	InsumoID       string          `json:"id_insumo"`
	Insumo         string          `json:"insumo"`
	StockNuevo     decimal.Decimal `json:"stock_nuevo"`
	Alerta         bool            `json:"alerta"`
	AlertaActivada bool            `json:"-"`
	// AlertaDesactivada marks the opposite transition (true → false).
	AlertaDesactivada bool `json:"-"`
	// Tipo carries the movement direction for post-commit metric publication.
	Tipo string `json:"-"`
}

// AlertaStockResponse is one row of GET /v1/inventario/alertas.
type AlertaStockResponse struct {
	InsumoID     string          `json:"id_insumo"`
	Nombre       string          `json:"nombre"`
	UnidadMedida string          `json:"unidad_medida"`
	Stock        decimal.Decimal `json:"stock"`
	MinimoStock  decimal.Decimal `json:"minimo_stock"`
}
