package dto

import "github.com/shopspring/decimal"

type ProductoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Categoria   string          `json:"categoria,omitempty"`
	Activo      bool            `json:"activo"`
}

// RecetaLineResponse is one ingredient requirement of a product.
type RecetaLineResponse struct {
	InsumoID      string          `json:"id_insumo"`
	Insumo        string          `json:"insumo"`
	UnidadMedida  string          `json:"unidad_medida"`
	CantidadUsada decimal.Decimal `json:"cantidad_usada"`
}

// ConsultaPreciosResponse is the redis-cached payload of GET /v1/precios/:id.
type ConsultaPreciosResponse struct {
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Categoria   string          `json:"categoria,omitempty"`
}
