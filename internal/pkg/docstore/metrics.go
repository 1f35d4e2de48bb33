package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the collectors recorded by an instrumented store.
type Metrics struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the store collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eduportal",
			Subsystem: "docstore",
			Name:      "operations_total",
			Help:      "Document store operations by operation and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "eduportal",
			Subsystem: "docstore",
			Name:      "operation_duration_seconds",
			Help:      "Document store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if err := reg.Register(m.ops); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.ops = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(m.duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.duration = are.ExistingCollector.(*prometheus.HistogramVec)
	}
	return m, nil
}

type instrumented struct {
	next    Store
	metrics *Metrics
}

// Instrument wraps a store so that every operation is counted and timed.
func Instrument(next Store, metrics *Metrics) Store {
	return &instrumented{next: next, metrics: metrics}
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrTransactionAborted):
		result = "aborted"
	case err != nil:
		result = "error"
	}
	s.metrics.ops.WithLabelValues(op, result).Inc()
	s.metrics.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *instrumented) Get(ctx context.Context, path string) (any, error) {
	start := time.Now()
	v, err := s.next.Get(ctx, path)
	s.observe("get", start, err)
	return v, err
}

func (s *instrumented) Set(ctx context.Context, path string, value any) error {
	start := time.Now()
	err := s.next.Set(ctx, path, value)
	s.observe("set", start, err)
	return err
}

func (s *instrumented) Update(ctx context.Context, path string, fields map[string]any) error {
	start := time.Now()
	err := s.next.Update(ctx, path, fields)
	s.observe("update", start, err)
	return err
}

func (s *instrumented) Push(ctx context.Context, path string) (string, error) {
	start := time.Now()
	key, err := s.next.Push(ctx, path)
	s.observe("push", start, err)
	return key, err
}

func (s *instrumented) Remove(ctx context.Context, path string) error {
	start := time.Now()
	err := s.next.Remove(ctx, path)
	s.observe("remove", start, err)
	return err
}

func (s *instrumented) Transaction(ctx context.Context, path string, fn TransactionFn) (any, error) {
	start := time.Now()
	v, err := s.next.Transaction(ctx, path, fn)
	s.observe("transaction", start, err)
	return v, err
}

func (s *instrumented) Close() error {
	return s.next.Close()
}
