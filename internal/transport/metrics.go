package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAttempt = "attempt"
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinequest_client",
			Name:      "requests_total",
			Help:      "API responses received, by method and status class.",
		},
		[]string{"method", "status_class"},
	)

	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cinequest_client",
			Name:      "token_refresh_total",
			Help:      "Token refresh attempts and outcomes.",
		},
		[]string{"outcome"},
	)
)
