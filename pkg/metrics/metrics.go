package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StoreRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mobyapp", Name: "airtable_requests_total", Help: "Number of Airtable API calls by table and operation."},
		[]string{"table", "op"},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mobyapp", Name: "airtable_errors_total", Help: "Number of failed Airtable API calls by table and operation."},
		[]string{"table", "op"},
	)
	StoreRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mobyapp", Name: "airtable_retries_total", Help: "Number of retried Airtable read calls by table."},
		[]string{"table"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mobyapp", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "mobyapp", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(StoreRequests)
	reg.MustRegister(StoreErrors)
	reg.MustRegister(StoreRetries)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
