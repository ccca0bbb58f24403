/*
 * Copyright 2021. Go-Sharding Author All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 *  File author: Anders Xiao
 */

package routing

import (
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "sharding_router"

// Metrics counts routed statements by route engine and rejections by error kind.
type Metrics struct {
	routes     *prometheus.CounterVec
	rejections *prometheus.CounterVec
	units      prometheus.Histogram
}

// NewMetrics creates the router metrics and registers them when reg is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		routes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "route_total",
				Help:      "Counter of routed statements.",
			},
			[]string{"engine"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "rejection_total",
				Help:      "Counter of rejected statements.",
			},
			[]string{"kind"},
		),
		units: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "route_units",
				Help:      "Route units of one statement.",
				Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.routes, m.rejections, m.units)
	}
	return m
}

func (m *Metrics) routed(engine string, units int) {
	if m == nil {
		return
	}
	m.routes.WithLabelValues(engine).Inc()
	m.units.Observe(float64(units))
}

func (m *Metrics) rejected(kind rerrors.Kind) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(kind.String()).Inc()
}
