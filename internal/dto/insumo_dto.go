package dto

import "github.com/shopspring/decimal"

// CrearInsumoRequest registers a new stocked ingredient. Initial stock enters
// through the ledger so the first movimiento is recorded too.
type CrearInsumoRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=2"`
	UnidadMedida  string          `json:"unidad_medida"  validate:"required"`
	StockInicial  decimal.Decimal `json:"stock_inicial"  validate:"min=0"`
	MinimoStock   decimal.Decimal `json:"minimo_stock"   validate:"min=0"`
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"min=0"`
}

type InsumoResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	UnidadMedida  string          `json:"unidad_medida"`
	Stock         decimal.Decimal `json:"stock"`
	MinimoStock   decimal.Decimal `json:"minimo_stock"`
	Alerta        bool            `json:"alerta"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
}

// InsumoFilter is bound from query string of GET /v1/insumos.
type InsumoFilter struct {
	Nombre string `form:"nombre"`
	Alerta string `form:"alerta"` // "true" = only insumos below minimum
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=100"`
}
