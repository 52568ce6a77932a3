package handler

import (
	"fmt"
	"net/http"
	"time"

	"drinkeo/internal/apierror"
	"drinkeo/internal/dto"
	"drinkeo/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ReportesHandler exports sales data as spreadsheets for back-office review.
type ReportesHandler struct {
	ventas repository.VentaRepository
}

func NewReportesHandler(ventas repository.VentaRepository) *ReportesHandler {
	return &ReportesHandler{ventas: ventas}
}

// VentasXLSX godoc
// @Summary      Exportar ventas a Excel
// @Description  Genera un .xlsx con las ventas del rango de fechas indicado, una fila por venta.
// @Tags         reportes
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        fecha_inicio query string false "Fecha YYYY-MM-DD inclusive"
// @Param        fecha_fin    query string false "Fecha YYYY-MM-DD inclusive"
// @Param        estado       query string false "completada | anulada | all"
// @Success      200 {file} file
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/ventas.xlsx [get]
func (h *ReportesHandler) VentasXLSX(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	// One file, every matching row — the export bypasses pagination entirely.
	ventas, err := h.ventas.ListAll(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte"))
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"id", "fecha", "empleado", "cliente", "metodo_pago", "estado", "items", "total",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte"))
		return
	}

	row := 2
	for _, v := range ventas {
		empleado := ""
		if v.Empleado != nil {
			empleado = v.Empleado.Nombre
		}
		cliente := ""
		if v.Cliente != nil {
			cliente = v.Cliente.Nombre
		}
		total, _ := v.Total.Float64()
		excelRow := []interface{}{
			v.ID.String(),
			v.CreatedAt.Format("2006-01-02 15:04"),
			empleado,
			cliente,
			v.MetodoPago,
			v.Estado,
			len(v.Detalles),
			total,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte"))
			return
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte"))
			return
		}
		row++
	}

	fileName := fmt.Sprintf("ventas_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al escribir el reporte"))
	}
}
