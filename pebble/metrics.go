// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "pebble"
	metricsInterval  = 10 * time.Second
)

type metrics struct {
	stallStart time.Time
	writeStall prometheus.Counter
	getLatency prometheus.Histogram

	// labeled by the level compacted from: "l0" or "l1+"
	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	diskUsage      prometheus.Gauge
	tombstoneCount prometheus.Gauge
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		writeStall: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "write_stall",
			Help:      "seconds writes were stalled waiting on compaction",
		}),
		getLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "read_latency",
			Help:      "seconds spent in db get",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "compactions",
			Help:      "number of compactions started",
		}, []string{"level"}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_compactions",
			Help:      "number of running compactions",
		}),
		diskUsage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "disk_usage",
			Help:      "bytes of disk used by the store",
		}),
		tombstoneCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "tombstone_count",
			Help:      "approximate count of internal tombstones",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.writeStall),
		r.Register(m.getLatency),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
		r.Register(m.diskUsage),
		r.Register(m.tombstoneCount),
	)
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := "l1+"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Add(time.Since(db.metrics.stallStart).Seconds())
}

func (db *Database) updateMetrics() {
	m := db.db.Metrics()
	db.metrics.diskUsage.Set(float64(m.DiskSpaceUsage()))
	db.metrics.tombstoneCount.Set(float64(m.Keys.TombstoneCount))
}

func (db *Database) collectMetrics() {
	db.updateMetrics()

	t := time.NewTicker(metricsInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			db.updateMetrics()
		case <-db.closing:
			return
		}
	}
}
