package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odoo_gallery_http_requests_total",
		Help: "Количество HTTP-запросов к шлюзу",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "odoo_gallery_http_request_duration_seconds",
		Help:    "Длительность HTTP-запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	RPCCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "odoo_gallery_rpc_calls_total",
		Help: "Количество JSON-RPC вызовов к Odoo",
	}, []string{"service", "method", "outcome"})

	RPCCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "odoo_gallery_rpc_call_duration_seconds",
		Help:    "Длительность JSON-RPC вызовов к Odoo",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "method"})
)
