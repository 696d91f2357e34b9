package jsonwire

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments a Writer and its scratch pool. A nil *Metrics is
// valid everywhere and records nothing.
type Metrics struct {
	bytesWritten  prometheus.Counter
	bufferGrows   prometheus.Counter
	scratchGets   prometheus.Counter
	scratchPuts   prometheus.Counter
	scratchAllocs prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		bytesWritten: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "jsonwire",
			Name:      "writer_bytes_written_total",
			Help:      "Total bytes appended to writer output buffers.",
		}),
		bufferGrows: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "jsonwire",
			Name:      "writer_buffer_grows_total",
			Help:      "Total output buffer grow operations.",
		}),
		scratchGets: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "jsonwire",
			Name:      "scratch_pool_gets_total",
			Help:      "Total scratch buffers rented from the pool.",
		}),
		scratchPuts: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "jsonwire",
			Name:      "scratch_pool_puts_total",
			Help:      "Total scratch buffers returned to the pool.",
		}),
		scratchAllocs: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "jsonwire",
			Name:      "scratch_pool_allocs_total",
			Help:      "Total scratch buffer allocations (pool misses and resizes).",
		}),
	}
}

func (m *Metrics) addBytes(n int) {
	if m != nil {
		m.bytesWritten.Add(float64(n))
	}
}

func (m *Metrics) incGrows() {
	if m != nil {
		m.bufferGrows.Inc()
	}
}
