package osvector

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation outcomes used as the "status" label.
const (
	statusOK          = "ok"
	statusBuildFailed = "build_failed"
	statusError       = "error"
)

// operation describes one finished SDK call.
type operation struct {
	name    string
	index   string
	items   int // items handed to the call for ingestion
	results int // records returned by a search
	start   time.Time
	err     error
}

func (op *operation) status() string {
	switch {
	case op.err == nil:
		return statusOK
	case errors.Is(op.err, ErrBuildFailed):
		return statusBuildFailed
	default:
		return statusError
	}
}

type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	ingested   *prometheus.CounterVec
	results    prometheus.Histogram
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osvector",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK calls by operation and outcome (ok, build_failed, error).",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "osvector",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK call latency, including index build and ingest.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		ingested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osvector",
			Subsystem: "sdk",
			Name:      "items_ingested_total",
			Help:      "Items ingested by successful build and search calls.",
		}, []string{"operation"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "osvector",
			Subsystem: "sdk",
			Name:      "search_results",
			Help:      "Records returned per non-failing search.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.ingested); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or points c at the collector already
// registered under the same descriptor.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("osvector: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("osvector: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and counts SDK calls. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op *operation) {
	if o == nil {
		return
	}
	dur := time.Since(op.start)
	status := op.status()

	if m := o.metrics; m != nil {
		m.operations.WithLabelValues(op.name, status).Inc()
		m.duration.WithLabelValues(op.name).Observe(dur.Seconds())
		if op.err == nil && op.items > 0 {
			m.ingested.WithLabelValues(op.name).Add(float64(op.items))
		}
		if op.err == nil && op.name == opSearch {
			m.results.Observe(float64(op.results))
		}
	}

	if o.logger == nil {
		return
	}
	attrs := []any{
		slog.String("op", op.name),
		slog.String("index", op.index),
		slog.Int("items", op.items),
		slog.Duration("duration", dur),
	}
	if op.name == opSearch {
		attrs = append(attrs, slog.Int("results", op.results))
	}
	if op.err != nil {
		o.logger.Warn("osvector call failed", append(attrs, slog.String("status", status), slog.Any("error", op.err))...)
		return
	}
	o.logger.Debug("osvector call completed", attrs...)
}
