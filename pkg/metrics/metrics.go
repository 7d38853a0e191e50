// Package metrics contadores Prometheus de la API: tráfico HTTP y eventos de negocio
// (ventas, anulaciones, recepciones, rechazos por stock).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal etiquetas: method, path (ruta registrada), status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total de solicitudes HTTP",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duración de solicitudes HTTP en segundos",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "Solicitudes HTTP en curso",
		},
	)

	SalesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_created_total",
			Help: "Ventas registradas",
		},
	)

	SalesVoidedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_voided_total",
			Help: "Ventas anuladas",
		},
	)

	PurchasesReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "purchases_received_total",
			Help: "Compras recibidas en almacén",
		},
	)

	// StockRejectionsTotal operaciones rechazadas por stock insuficiente, etiqueta operation.
	StockRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_rejections_total",
			Help: "Operaciones rechazadas por stock insuficiente",
		},
		[]string{"operation"},
	)

	// StockMovementsTotal movimientos de kardex registrados vía API, etiqueta type.
	StockMovementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_movements_total",
			Help: "Movimientos de inventario registrados",
		},
		[]string{"type"},
	)
)

// ObserveHTTP registra una solicitud terminada.
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// StockMovements suma n movimientos del tipo dado.
func StockMovements(movementType string, n int) {
	if n <= 0 {
		return
	}
	StockMovementsTotal.WithLabelValues(movementType).Add(float64(n))
}
