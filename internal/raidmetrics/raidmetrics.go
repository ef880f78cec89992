// Package raidmetrics exposes a raid5.Volume's state over Prometheus:
// current state and failed-device index as gauges, degrade/failure/
// resync events as counters, one collector set per volume name.
package raidmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"raid5vol/pkg/raid5"
)

// Metrics holds the Prometheus collectors for one volume.
type Metrics struct {
	state          prometheus.Gauge
	failedDevice   prometheus.Gauge
	degradeEvents  prometheus.Counter
	failureEvents  prometheus.Counter
	resyncSuccess  prometheus.Counter
	resyncFailures prometheus.Counter
}

// NewMetrics builds the collector set for a volume identified by name
// and registers them with reg.
func NewMetrics(reg prometheus.Registerer, name string) *Metrics {
	labels := prometheus.Labels{"volume": name}

	m := &Metrics{
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        prometheus.BuildFQName("raid5", "volume", "state"),
			Help:        "Current volume state: 0=STOPPED 1=OK 2=DEGRADED 3=FAILED.",
			ConstLabels: labels,
		}),
		failedDevice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        prometheus.BuildFQName("raid5", "volume", "failed_device"),
			Help:        "Index of the device presumed failed, or -1 if none.",
			ConstLabels: labels,
		}),
		degradeEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        prometheus.BuildFQName("raid5", "volume", "degrade_events_total"),
			Help:        "The total number of OK -> DEGRADED transitions.",
			ConstLabels: labels,
		}),
		failureEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        prometheus.BuildFQName("raid5", "volume", "failure_events_total"),
			Help:        "The total number of transitions into FAILED.",
			ConstLabels: labels,
		}),
		resyncSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        prometheus.BuildFQName("raid5", "volume", "resync_success_total"),
			Help:        "The total number of successful resyncs.",
			ConstLabels: labels,
		}),
		resyncFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        prometheus.BuildFQName("raid5", "volume", "resync_failures_total"),
			Help:        "The total number of aborted resyncs.",
			ConstLabels: labels,
		}),
	}

	reg.MustRegister(m.state, m.failedDevice, m.degradeEvents, m.failureEvents, m.resyncSuccess, m.resyncFailures)
	return m
}

// Observe samples a volume's current state into the gauges. Callers
// invoke this after every operation that might change state.
func (m *Metrics) Observe(v *raid5.Volume) {
	m.state.Set(float64(v.Status()))
	m.failedDevice.Set(float64(v.FailedDevice()))
}

// RecordDegrade increments the degrade-event counter.
func (m *Metrics) RecordDegrade() { m.degradeEvents.Inc() }

// RecordFailure increments the failure-event counter.
func (m *Metrics) RecordFailure() { m.failureEvents.Inc() }

// RecordResync increments the resync success or failure counter.
func (m *Metrics) RecordResync(ok bool) {
	if ok {
		m.resyncSuccess.Inc()
	} else {
		m.resyncFailures.Inc()
	}
}
