package jsonwire

import "sync"

// stackScratchSize is the cutover between the writer's inline scratch array
// and the shared pool. Names at or below this many code units or bytes
// escape through a stack-local region; only larger names touch the pool.
const stackScratchSize = 256

// BufferPool supplies scratch space for escaping oversized names. Get
// returns a slice with length at least size; Put makes it available for
// reuse. Implementations must be safe for concurrent use.
type BufferPool interface {
	Get(size int) *[]byte
	Put(*[]byte)
}

// defaultScratchPool backs every writer that does not configure its own.
var defaultScratchPool = NewBufferPool(nil)

// NewBufferPool returns a sync.Pool backed BufferPool. Buffers are resized
// in place on a Get larger than their capacity, so the pool converges on
// the working set's largest name.
func NewBufferPool(m *Metrics) BufferPool {
	p := &slicePool{metrics: m}
	p.pool.New = func() any {
		if m != nil {
			m.scratchAllocs.Inc()
		}
		b := make([]byte, 0, 4*stackScratchSize)
		return &b
	}
	return p
}

type slicePool struct {
	pool    sync.Pool
	metrics *Metrics
}

func (p *slicePool) Get(size int) *[]byte {
	b := p.pool.Get().(*[]byte)
	if cap(*b) < size {
		if p.metrics != nil {
			p.metrics.scratchAllocs.Inc()
		}
		nb := make([]byte, size)
		*b = nb
	}
	*b = (*b)[:size]
	if p.metrics != nil {
		p.metrics.scratchGets.Inc()
	}
	return b
}

func (p *slicePool) Put(b *[]byte) {
	if p.metrics != nil {
		p.metrics.scratchPuts.Inc()
	}
	p.pool.Put(b)
}
