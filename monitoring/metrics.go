package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

var (
	RecordStoreQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "record_store_queries_total",
			Help: "Total record store queries",
		},
	)

	ConsultationsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "consultations_cancelled_total",
			Help: "Total consultations cancelled by clients",
		},
	)

	ModificationWindowRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "modification_window_rejections_total",
			Help: "Cancel or reschedule attempts rejected by the 24h window",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RecordStoreQueries)
	prometheus.MustRegister(ConsultationsCancelled)
	prometheus.MustRegister(ModificationWindowRejections)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
