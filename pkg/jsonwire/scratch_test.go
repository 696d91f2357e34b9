package jsonwire

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// countingPool wraps a BufferPool and tracks rent/return balance.
type countingPool struct {
	inner      BufferPool
	mtx        sync.Mutex
	gets, puts int
}

func (p *countingPool) Get(size int) *[]byte {
	p.mtx.Lock()
	p.gets++
	p.mtx.Unlock()
	return p.inner.Get(size)
}

func (p *countingPool) Put(b *[]byte) {
	p.mtx.Lock()
	p.puts++
	p.mtx.Unlock()
	p.inner.Put(b)
}

func (p *countingPool) balanced() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.gets == p.puts && p.gets > 0
}

func TestPoolGetResizes(t *testing.T) {
	p := NewBufferPool(nil)
	b := p.Get(10)
	require.Len(t, *b, 10)
	p.Put(b)

	b = p.Get(100000)
	require.Len(t, *b, 100000)
	p.Put(b)
}

func TestPoolConcurrentUse(t *testing.T) {
	p := NewBufferPool(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				b := p.Get(64 + j%4096)
				(*b)[0] = byte(j)
				p.Put(b)
			}
		}()
	}
	wg.Wait()
}

func TestPoolMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	p := NewBufferPool(m)

	b := p.Get(1024)
	p.Put(b)

	require.Equal(t, 1.0, counterValue(t, reg, "jsonwire_scratch_pool_gets_total"))
	require.Equal(t, 1.0, counterValue(t, reg, "jsonwire_scratch_pool_puts_total"))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

// faultingEncoder passes the analysis scan but panics during the escape
// pass, after the scratch buffer has been rented.
type faultingEncoder struct{}

func (faultingEncoder) NeedsEscaping(r rune) bool {
	if r == '!' {
		panic("encoder policy fault")
	}
	return false
}

func (faultingEncoder) Name() string { return "faulting" }

// A scratch buffer rented for escaping must be returned on every exit path,
// including a panic raised mid-escape by the policy itself.
func TestScratchReturnedWhenEncoderFaults(t *testing.T) {
	// The quote forces escaping before the scan reaches '!', so the
	// fault fires inside the escape pass. Long enough to bypass the
	// inline stack region and hit the pool.
	name := strings.Repeat("a", 10) + `"` + strings.Repeat("b", 300) + "!"

	pool := &countingPool{inner: NewBufferPool(nil)}
	w, err := NewWriter(WriterOptions{Encoder: faultingEncoder{}, Pool: pool})
	require.NoError(t, err)
	require.NoError(t, w.WriteObjectStart())
	pending := w.BytesPending()

	require.Panics(t, func() {
		_ = w.WriteUUIDField(name, uuid.New())
	})
	require.True(t, pool.balanced(), "gets=%d puts=%d", pool.gets, pool.puts)
	// Nothing was committed to the output.
	require.Equal(t, pending, w.BytesPending())
}
