package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "askage_logins_total", Help: "Google logins by outcome"},
		[]string{"outcome"},
	)
	ConversationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "askage_conversations_created_total", Help: "Conversations created"},
	)
)

func MustRegister() {
	prometheus.MustRegister(RequestsTotal, ReqDuration, InFlight, LoginsTotal, ConversationsCreated)
}
