package handler

import (
	"errors"
	"net/http"

	"drinkeo/internal/apierror"
	"drinkeo/internal/dto"
	"drinkeo/internal/infra"
	"drinkeo/internal/repository"
	"drinkeo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentasHandler struct {
	svc     service.VentaService
	repo    repository.VentaRepository
	pdfPath string
}

func NewVentasHandler(svc service.VentaService, repo repository.VentaRepository, pdfPath string) *VentasHandler {
	return &VentasHandler{svc: svc, repo: repo, pdfPath: pdfPath}
}

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Crea una venta ACID: descuenta los insumos de cada receta y registra los movimientos de inventario. Si algún insumo no alcanza, nada se persiste.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.RegistrarVentaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	venta, err := h.svc.RegistrarVenta(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RegistrarVentaResponse{
		Message: "Venta registrada exitosamente",
		Venta:   *venta,
	})
}

// ObtenerVenta godoc
// @Summary      Obtener una venta
// @Tags         ventas
// @Produce      json
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	venta, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venta)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Retorna lista paginada de ventas filtrada por rango de fechas, empleado, método de pago y estado.
// @Tags         ventas
// @Produce      json
// @Param        fecha_inicio query string false "Fecha YYYY-MM-DD inclusive"
// @Param        fecha_fin    query string false "Fecha YYYY-MM-DD inclusive"
// @Param        id_empleado  query string false "UUID del empleado"
// @Param        metodo_pago  query string false "efectivo | tarjeta | transferencia"
// @Param        estado       query string false "completada | anulada | all"
// @Param        page         query int    false "Página (default 1)"
// @Param        limit        query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.VentaListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnularVenta godoc
// @Summary      Anular venta
// @Description  Anula una venta completada: restaura los insumos consumidos y marca el estado como anulada. El registro histórico se conserva.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        id   path string                 true "UUID de la venta"
// @Param        body body dto.AnularVentaRequest true "Motivo de anulación"
// @Success      200  {object} dto.VentaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/ventas/{id}/anular [patch]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AnularVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	venta, err := h.svc.AnularVenta(c.Request.Context(), id, req.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venta)
}

// EliminarVenta godoc
// @Summary      Eliminar venta (administrativo)
// @Description  Borrado físico de la venta y sus detalles. NO revierte stock. Deshabilitado salvo PERMITIR_ELIMINAR_VENTAS.
// @Tags         ventas
// @Param        id path string true "UUID de la venta"
// @Success      204
// @Failure      403 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) EliminarVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarVenta(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Ticket godoc
// @Summary      Descargar ticket PDF de una venta
// @Tags         ventas
// @Produce      application/pdf
// @Param        id path string true "UUID de la venta"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id}/ticket [get]
func (h *VentasHandler) Ticket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	venta, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Venta no encontrada"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
		return
	}
	path, err := infra.GenerateTicketPDF(venta, h.pdfPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo generar el ticket"))
		return
	}
	c.FileAttachment(path, "ticket_"+id.String()+".pdf")
}
