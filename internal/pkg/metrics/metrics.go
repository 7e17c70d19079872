// Package metrics expõe os contadores Prometheus do serviço.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "almoxarifado"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Requisições HTTP atendidas, por rota e código de status.",
	}, []string{"method", "route", "code"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latência das requisições HTTP.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	RequestsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_submitted_total",
		Help:      "Requisições de material enviadas.",
	})

	DeliveriesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_applied_total",
		Help:      "Entregas registradas, pelo status resultante da requisição.",
	}, []string{"status"})

	UnitsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "units_received_total",
		Help:      "Unidades somadas ao estoque por entregas.",
	})

	RequestsReverted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_reverted_total",
		Help:      "Requisições revertidas para PENDENTE.",
	})

	StockMovements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_movements_total",
		Help:      "Entradas e saídas manuais de estoque.",
	}, []string{"kind"})
)

// Handler devolve o endpoint /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
