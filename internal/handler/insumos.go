package handler

import (
	"net/http"

	"drinkeo/internal/apierror"
	"drinkeo/internal/dto"
	"drinkeo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InsumosHandler struct{ svc service.InsumoService }

func NewInsumosHandler(svc service.InsumoService) *InsumosHandler {
	return &InsumosHandler{svc: svc}
}

// CrearInsumo godoc
// @Summary      Registrar un insumo
// @Description  Da de alta un insumo. El stock inicial entra por el ledger, dejando su movimiento de entrada en la auditoría.
// @Tags         insumos
// @Accept       json
// @Produce      json
// @Param        body body dto.CrearInsumoRequest true "Insumo"
// @Success      201  {object} dto.InsumoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/insumos [post]
func (h *InsumosHandler) CrearInsumo(c *gin.Context) {
	var req dto.CrearInsumoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearInsumo(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerInsumo godoc
// @Summary      Obtener un insumo
// @Tags         insumos
// @Produce      json
// @Param        id path string true "UUID del insumo"
// @Success      200 {object} dto.InsumoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/insumos/{id} [get]
func (h *InsumosHandler) ObtenerInsumo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerInsumo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarInsumos godoc
// @Summary      Listar insumos
// @Tags         insumos
// @Produce      json
// @Param        nombre query string false "Filtro por nombre (ILIKE)"
// @Param        alerta query string false "true = solo insumos en alerta"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 100)"
// @Success      200 {object} map[string]interface{}
// @Router       /v1/insumos [get]
func (h *InsumosHandler) ListarInsumos(c *gin.Context) {
	var filter dto.InsumoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	items, total, err := h.svc.ListInsumos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar insumos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  items,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
