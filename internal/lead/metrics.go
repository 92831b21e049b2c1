package lead

import "github.com/prometheus/client_golang/prometheus"

var leadEmails = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "villacare_lead_emails_total",
		Help: "Lead-capture emails by kind (deck, notify) and outcome.",
	},
	[]string{"kind", "outcome"},
)

func init() {
	prometheus.MustRegister(leadEmails)
}
