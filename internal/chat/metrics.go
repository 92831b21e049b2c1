package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	chatRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "villacare_chat_requests_total",
			Help: "Chat requests by persona and outcome (ok, invalid, error).",
		},
		[]string{"agent", "outcome"},
	)
	chatDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "villacare_chat_completion_duration_seconds",
			Help:    "Duration of provider completion calls.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"agent"},
	)
)

func init() {
	prometheus.MustRegister(chatRequests)
	prometheus.MustRegister(chatDuration)
}
