package jsonwire

const minBufferSize = 256

// buffer is the writer's output region: a byte slice kept at full length
// plus a pending cursor. Writes follow a two-phase protocol: ensure the
// worst-case size once, fetch the free region, write unchecked, advance.
// Growing invalidates previously fetched regions, so free must be called
// again after every ensure.
type buffer struct {
	b       []byte
	pending int
	grows   int
}

func (b *buffer) ensure(maxRequired int) {
	if len(b.b)-b.pending >= maxRequired {
		return
	}
	size := 2 * len(b.b)
	if size < b.pending+maxRequired {
		size = b.pending + maxRequired
	}
	if size < minBufferSize {
		size = minBufferSize
	}
	grown := make([]byte, size)
	copy(grown, b.b[:b.pending])
	b.b = grown
	b.grows++
}

// free returns the writable region past the cursor. Only valid until the
// next ensure.
func (b *buffer) free() []byte {
	return b.b[b.pending:]
}

func (b *buffer) advance(n int) {
	if n > len(b.b)-b.pending {
		panic("jsonwire: buffer advanced past ensured capacity")
	}
	b.pending += n
}

func (b *buffer) bytes() []byte {
	return b.b[:b.pending]
}

func (b *buffer) reset() {
	b.pending = 0
}
