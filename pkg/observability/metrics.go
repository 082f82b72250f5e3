package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "megaverse"

// Metrics holds the collectors fed by LifecycleHooks.
type Metrics struct {
	cells        *prometheus.CounterVec
	unrecognized prometheus.Counter
	attempts     *prometheus.CounterVec
	retries      *prometheus.CounterVec
	results      *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	backoff      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		cells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cells",
			Name:      "interpreted_total",
			Help:      "Cells interpreted, by decided entity kind.",
		}, []string{"kind"}),
		unrecognized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cells",
			Name:      "unrecognized_total",
			Help:      "Cells whose content could not be interpreted.",
		}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "attempts_total",
			Help:      "HTTP attempts made to create entities.",
		}, []string{"route"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "retries_total",
			Help:      "Failed attempts that were scheduled for retry.",
		}, []string{"route", "status"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "results_total",
			Help:      "Final delivery outcomes.",
		}, []string{"route", "success"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "attempt_duration_seconds",
			Help:      "Duration of individual delivery attempts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		backoff: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "backoff_seconds",
			Help:      "Backoff waits scheduled between attempts.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 16, 32},
		}),
	}

	for _, c := range []prometheus.Collector{m.cells, m.unrecognized, m.attempts, m.retries, m.results, m.duration, m.backoff} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCellInterpreted: func(_ context.Context, e *domain.CellEvent) {
			m.cells.WithLabelValues(kindOf(e.Intent)).Inc()
		},
		OnUnrecognized: func(context.Context, *domain.CellEvent) {
			m.unrecognized.Inc()
		},
		OnDeliveryAttempt: func(_ context.Context, e *domain.DeliveryEvent) {
			m.attempts.WithLabelValues(string(e.Request.Route)).Inc()
		},
		OnDeliveryRetry: func(_ context.Context, e *domain.DeliveryEvent) {
			route := string(e.Request.Route)
			m.retries.WithLabelValues(route, strconv.Itoa(e.StatusCode)).Inc()
			m.duration.WithLabelValues(route).Observe(e.Duration.Seconds())
			m.backoff.Observe(e.Delay.Seconds())
		},
		OnDeliveryResult: func(_ context.Context, e *domain.DeliveryEvent) {
			route := string(e.Request.Route)
			m.results.WithLabelValues(route, strconv.FormatBool(!e.Failed())).Inc()
			if !e.Failed() {
				m.duration.WithLabelValues(route).Observe(e.Duration.Seconds())
			}
		},
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func kindOf(intent domain.Intent) string {
	switch v := intent.(type) {
	case domain.SimpleEntity:
		return string(v.Route)
	case domain.AttributedEntity:
		return string(v.Route)
	default:
		return "none"
	}
}
