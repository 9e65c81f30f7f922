package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	bidsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_engine_bids_total",
		Help: "Bid submissions by outcome.",
	}, []string{"outcome"})

	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_engine_transitions_total",
		Help: "Applied lifecycle transitions by target status.",
	}, []string{"target"})

	closuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auction_engine_closures_total",
		Help: "Emitted auction closure events by terminal status.",
	}, []string{"status"})
)

func observeBid(outcome string) {
	bidsTotal.WithLabelValues(outcome).Inc()
}

func observeTransition(target string) {
	transitionsTotal.WithLabelValues(target).Inc()
}

func observeClosure(status string) {
	closuresTotal.WithLabelValues(status).Inc()
}
