// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	initialize prometheus.Counter
	increment  prometheus.Counter
	reset      prometheus.Counter

	failed   prometheus.Counter
	rejected prometheus.Counter

	batchVerified prometheus.Counter
	subscribers   prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		initialize: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "initialize",
			Help:      "number of successful initialize actions",
		}),
		increment: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "increment",
			Help:      "number of successful increment actions",
		}),
		reset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "reset",
			Help:      "number of successful reset actions",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "actions",
			Name:      "failed",
			Help:      "number of actions that returned an error",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "controller",
			Name:      "rejected",
			Help:      "number of submitted txs that were rejected before execution",
		}),
		batchVerified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "controller",
			Name:      "batch_verified",
			Help:      "number of txs whose signatures were verified in a batch",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "controller",
			Name:      "subscribers",
			Help:      "number of feed subscriptions",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.initialize),
		r.Register(m.increment),
		r.Register(m.reset),
		r.Register(m.failed),
		r.Register(m.rejected),
		r.Register(m.batchVerified),
		r.Register(m.subscribers),
	)
	return m, errs.Err
}
