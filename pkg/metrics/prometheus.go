/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package metrics exposes poll cycle counters and battery gauges.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/carverauto/podradar/pkg/models"
)

const namespace = "podradar"

const (
	resultFound    = "found"
	resultNotFound = "not_found"

	componentLeft  = "left"
	componentRight = "right"
	componentCase  = "case"
)

// Prometheus records measurements into its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	ticks        *prometheus.CounterVec
	scanErrors   prometheus.Counter
	sinkErrors   prometheus.Counter
	tickDuration prometheus.Histogram
	battery      *prometheus.GaugeVec
	charging     *prometheus.GaugeVec
}

var _ Recorder = (*Prometheus)(nil)

func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Poll ticks completed, by result.",
		}, []string{"result"}),
		scanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_errors_total",
			Help:      "Discovery passes that failed.",
		}),
		sinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_errors_total",
			Help:      "Records the sink failed to deliver.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Duration of a poll tick including the discovery pass.",
			Buckets:   []float64{0.5, 1, 2, 3, 5, 8, 13, 30, 60},
		}),
		battery: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "battery_percent",
			Help:      "Last decoded battery level, -1 when unknown.",
		}, []string{"component"}),
		charging: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "charging",
			Help:      "Last decoded charging flag (1 charging, 0 not).",
		}, []string{"component"}),
	}

	p.registry.MustRegister(
		p.ticks,
		p.scanErrors,
		p.sinkErrors,
		p.tickDuration,
		p.battery,
		p.charging,
	)

	return p
}

// Registry returns the registry holding the podradar collectors.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Prometheus) TickCompleted(found bool, d time.Duration) {
	result := resultNotFound
	if found {
		result = resultFound
	}

	p.ticks.WithLabelValues(result).Inc()
	p.tickDuration.Observe(d.Seconds())
}

func (p *Prometheus) ScanFailed() {
	p.scanErrors.Inc()
}

func (p *Prometheus) SinkFailed() {
	p.sinkErrors.Inc()
}

func (p *Prometheus) StatusDecoded(status models.DecodedStatus) {
	p.battery.WithLabelValues(componentLeft).Set(float64(status.Left.Wire()))
	p.battery.WithLabelValues(componentRight).Set(float64(status.Right.Wire()))
	p.battery.WithLabelValues(componentCase).Set(float64(status.Case.Wire()))

	p.charging.WithLabelValues(componentLeft).Set(boolGauge(status.ChargingLeft))
	p.charging.WithLabelValues(componentRight).Set(boolGauge(status.ChargingRight))
	p.charging.WithLabelValues(componentCase).Set(boolGauge(status.ChargingCase))
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
