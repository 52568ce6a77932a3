package handler

import (
	"net/http"

	"drinkeo/internal/apierror"
	"drinkeo/internal/dto"
	"drinkeo/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// RegistrarMovimiento godoc
// @Summary      Registrar movimiento manual de inventario
// @Description  Entrada (compra, devolución) o salida (merma, rotura) manual de un insumo. Actualiza stock, flag de alerta y deja el movimiento en la auditoría.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Param        body body dto.MovimientoManualRequest true "Movimiento"
// @Success      201  {object} dto.StockResult
// @Failure      400  {object} apierror.APIError
// @Router       /v1/inventario/movimientos [post]
func (h *InventarioHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	res, err := h.svc.RegistrarMovimientoManual(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListarMovimientos godoc
// @Summary      Listar movimientos de inventario
// @Description  Auditoría paginada de entradas y salidas, filtrable por insumo y tipo.
// @Tags         inventario
// @Produce      json
// @Param        id_insumo query string false "UUID del insumo"
// @Param        tipo      query string false "entrada | salida"
// @Param        page      query int    false "Página (default 1)"
// @Param        limit     query int    false "Registros por página (default 100)"
// @Success      200 {object} dto.MovimientoListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/inventario/movimientos [get]
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alertas godoc
// @Summary      Insumos en alerta de stock
// @Description  Lista los insumos activos cuyo stock está en o por debajo de su mínimo.
// @Tags         inventario
// @Produce      json
// @Success      200 {array} dto.AlertaStockResponse
// @Router       /v1/inventario/alertas [get]
func (h *InventarioHandler) Alertas(c *gin.Context) {
	alertas, err := h.svc.ObtenerAlertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar alertas"))
		return
	}
	c.JSON(http.StatusOK, alertas)
}
