// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	txsProcessed prometheus.Counter
	txsSucceeded prometheus.Counter
	txsFailed    prometheus.Counter
	txsRejected  prometheus.Counter

	stateChanges    prometheus.Counter
	stateOperations prometheus.Counter

	executeDuration prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		txsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_processed",
			Help:      "number of txs executed against state",
		}),
		txsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_succeeded",
			Help:      "number of executed txs whose action succeeded",
		}),
		txsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_failed",
			Help:      "number of executed txs whose action failed",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_rejected",
			Help:      "number of txs rejected before execution",
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "state_changes",
			Help:      "number of keys written to the database",
		}),
		stateOperations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "state_operations",
			Help:      "number of operations performed on state views",
		}),
		executeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chain",
			Name:      "execute_duration",
			Help:      "time spent executing a tx (in seconds)",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsProcessed),
		r.Register(m.txsSucceeded),
		r.Register(m.txsFailed),
		r.Register(m.txsRejected),
		r.Register(m.stateChanges),
		r.Register(m.stateOperations),
		r.Register(m.executeDuration),
	)
	return m, errs.Err
}
