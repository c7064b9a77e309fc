// Package metrics counts codec events with Prometheus. A Collector is an
// ical.Observer; pass it to a reader or writer with stream.WithObserver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ical"

type Collector struct {
	read      *prometheus.CounterVec
	written   *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	converted *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg. A nil reg
// leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		read: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "property",
				Name:      "read_total",
				Help:      "Properties read, by name.",
			},
			[]string{"name"},
		),
		written: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "property",
				Name:      "written_total",
				Help:      "Properties written, by name.",
			},
			[]string{"name"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "property",
				Name:      "skipped_total",
				Help:      "Properties dropped while reading or writing.",
			},
			[]string{"name", "reason"},
		),
		converted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "component",
				Name:      "converted_total",
				Help:      "Values rewritten between the 1.0 and 2.0 forms.",
			},
			[]string{"from", "to"},
		),
	}
	if reg != nil {
		for _, cv := range []prometheus.Collector{c.read, c.written, c.skipped, c.converted} {
			if err := reg.Register(cv); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Collector) PropertyRead(name string) {
	c.read.WithLabelValues(name).Inc()
}

func (c *Collector) PropertyWritten(name string) {
	c.written.WithLabelValues(name).Inc()
}

func (c *Collector) PropertySkipped(name, reason string) {
	c.skipped.WithLabelValues(name, reason).Inc()
}

func (c *Collector) ComponentConverted(from, to string) {
	c.converted.WithLabelValues(from, to).Inc()
}
