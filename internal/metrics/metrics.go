// Package metrics exposes the prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VentasRegistradas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drinkeo_ventas_registradas_total",
		Help: "Ventas completadas, por método de pago.",
	}, []string{"metodo_pago"})

	VentasAnuladas = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drinkeo_ventas_anuladas_total",
		Help: "Ventas anuladas.",
	})

	MovimientosInventario = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "drinkeo_movimientos_inventario_total",
		Help: "Movimientos de inventario registrados, por tipo.",
	}, []string{"tipo"})

	InsumosEnAlerta = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "drinkeo_insumos_en_alerta",
		Help: "Insumos cuyo stock está en o por debajo del mínimo.",
	})
)
