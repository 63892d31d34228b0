package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Recorder records simulation and HTTP activity in Prometheus metrics.
// A nil *Recorder records nothing.
type Recorder struct {
	runs     *prometheus.CounterVec
	hours    prometheus.Counter
	duration prometheus.Histogram
	unmet    prometheus.Gauge
	requests *prometheus.CounterVec
}

// NewRecorder registers metrics on the default Prometheus registerer.
func NewRecorder() (*Recorder, error) {
	return NewRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewRecorderWithRegistry registers metrics on reg. Collectors that are
// already registered are reused. A nil registerer defaults to the global one.
func NewRecorderWithRegistry(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_runs_total",
		Help: "Total number of simulation runs by outcome",
	}, []string{"outcome"})
	hours := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "simulation_hours_total",
		Help: "Total number of simulated hours",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulation_duration_seconds",
		Help:    "Wall time of a simulation run",
		Buckets: prometheus.DefBuckets,
	})
	unmet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "simulation_unmet_demand_mwh",
		Help: "Unmet demand of the latest successful run",
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if hours, err = register(reg, hours); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if unmet, err = register(reg, unmet); err != nil {
		return nil, err
	}
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}

	return &Recorder{runs: runs, hours: hours, duration: duration, unmet: unmet, requests: requests}, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun records a successful run.
func (r *Recorder) RecordRun(hours int, took time.Duration, unmetMWh float64) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(OutcomeSuccess).Inc()
	r.hours.Add(float64(hours))
	r.duration.Observe(took.Seconds())
	r.unmet.Set(unmetMWh)
}

// RecordFailure counts a run that did not produce a result.
func (r *Recorder) RecordFailure(outcome string) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordRequest(method, route string, status int) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
