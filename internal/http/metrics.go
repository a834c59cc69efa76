package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "schooldesk_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	invalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "schooldesk_session_invalidations_total",
		Help: "Sessions evicted after the API rejected the stored credential.",
	})
)
