package handler

import (
	"errors"
	"net/http"

	"drinkeo/internal/apierror"
	"drinkeo/internal/dto"
	"drinkeo/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductosHandler serves the sellable catalog and its recetas. Read-only:
// catalog management happens outside this service.
type ProductosHandler struct {
	productos repository.ProductoRepository
	recetas   repository.RecetaRepository
}

func NewProductosHandler(productos repository.ProductoRepository, recetas repository.RecetaRepository) *ProductosHandler {
	return &ProductosHandler{productos: productos, recetas: recetas}
}

// ListarProductos godoc
// @Summary      Listar productos activos
// @Tags         productos
// @Produce      json
// @Success      200 {array} dto.ProductoResponse
// @Router       /v1/productos [get]
func (h *ProductosHandler) ListarProductos(c *gin.Context) {
	productos, err := h.productos.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos"))
		return
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		categoria := ""
		if p.Categoria != nil {
			categoria = p.Categoria.Nombre
		}
		items = append(items, dto.ProductoResponse{
			ID:          p.ID.String(),
			Nombre:      p.Nombre,
			PrecioVenta: p.PrecioVenta,
			Categoria:   categoria,
			Activo:      p.Activo,
		})
	}
	c.JSON(http.StatusOK, items)
}

// Receta godoc
// @Summary      Receta de un producto
// @Description  Lista los insumos y cantidades que consume una unidad del producto. Un producto sin receta devuelve lista vacía.
// @Tags         productos
// @Produce      json
// @Param        id path string true "UUID del producto"
// @Success      200 {array} dto.RecetaLineResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id}/receta [get]
func (h *ProductosHandler) Receta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if _, err := h.productos.FindByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
		return
	}
	recetas, err := h.recetas.FindByProductoID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar la receta"))
		return
	}
	lines := make([]dto.RecetaLineResponse, 0, len(recetas))
	for _, r := range recetas {
		nombre := ""
		unidad := ""
		if r.Insumo != nil {
			nombre = r.Insumo.Nombre
			unidad = r.Insumo.UnidadMedida
		}
		lines = append(lines, dto.RecetaLineResponse{
			InsumoID:      r.InsumoID.String(),
			Insumo:        nombre,
			UnidadMedida:  unidad,
			CantidadUsada: r.CantidadUsada,
		})
	}
	c.JSON(http.StatusOK, lines)
}
