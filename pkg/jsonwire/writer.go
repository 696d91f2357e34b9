package jsonwire

import (
	"github.com/google/uuid"
)

// WriterOptions is the writer's immutable configuration, consulted on every
// write. The zero value means minimized output, the default escape policy,
// full validation, "\n" newlines and the shared scratch pool.
type WriterOptions struct {
	// Indented selects pretty-printed output: a newline before every
	// token after the first in a container, two spaces of indent per
	// nesting level and a space after each colon.
	Indented bool

	// Encoder widens the escape set beyond the mandatory characters.
	// Nil means DefaultEncoder.
	Encoder Encoder

	// SkipValidation disables the structural checks on property and
	// value positions. Depth and container-matching bookkeeping is kept
	// regardless, since the writer's own state depends on it.
	SkipValidation bool

	// NewLine is the sequence emitted in indented mode, "\n" or "\r\n".
	// Empty means "\n".
	NewLine string

	// Pool supplies scratch buffers for escaping names longer than the
	// inline stack region. Nil means the shared package pool.
	Pool BufferPool

	// Metrics instruments the writer. Nil disables instrumentation.
	Metrics *Metrics
}

// Writer incrementally emits JSON into an internally managed buffer. It is
// not safe for concurrent use; one goroutine drives one writer.
type Writer struct {
	indented       bool
	skipValidation bool
	newLine        string
	enc            Encoder
	pool           BufferPool
	metrics        *Metrics

	buf   buffer
	state writerState
}

func NewWriter(opts WriterOptions) (*Writer, error) {
	switch opts.NewLine {
	case "":
		opts.NewLine = "\n"
	case "\n", "\r\n":
	default:
		return nil, ErrInvalidNewLine
	}
	enc := opts.Encoder
	if enc == nil {
		enc = DefaultEncoder
	}
	pool := opts.Pool
	if pool == nil {
		pool = defaultScratchPool
	}
	return &Writer{
		indented:       opts.Indented,
		skipValidation: opts.SkipValidation,
		newLine:        opts.NewLine,
		enc:            enc,
		pool:           pool,
		metrics:        opts.Metrics,
		state:          newWriterState(),
	}, nil
}

// Bytes returns the output written so far. The slice aliases the writer's
// buffer and is invalidated by further writes.
func (w *Writer) Bytes() []byte { return w.buf.bytes() }

// BytesPending reports how many output bytes have been written.
func (w *Writer) BytesPending() int { return w.buf.pending }

// Reset discards all output and state, keeping the buffer for reuse.
func (w *Writer) Reset() {
	w.buf.reset()
	w.state.reset()
}

// ensure grows the output buffer if needed, funneling grow counts into the
// metrics. Callers must re-fetch the free region after calling it.
func (w *Writer) ensure(maxRequired int) {
	grows := w.buf.grows
	w.buf.ensure(maxRequired)
	if w.buf.grows != grows {
		w.metrics.incGrows()
	}
}

func (w *Writer) commit(n int) {
	w.buf.advance(n)
	w.metrics.addBytes(n)
}

func (w *Writer) WriteObjectStart() error { return w.writeStart(containerObject, '{') }
func (w *Writer) WriteArrayStart() error  { return w.writeStart(containerArray, '[') }
func (w *Writer) WriteObjectEnd() error   { return w.writeEnd(containerObject, '}') }
func (w *Writer) WriteArrayEnd() error    { return w.writeEnd(containerArray, ']') }

func (w *Writer) writeStart(kind containerKind, open byte) error {
	if !w.skipValidation {
		if err := w.state.validateWritingValue(); err != nil {
			return err
		}
	}
	if w.state.depth() >= MaxNestingDepth {
		return ErrMaxDepthExceeded
	}

	parent := w.state.current()
	maxRequired := 2
	if w.indented {
		maxRequired += len(w.newLine) + 2*w.state.depth()
	}
	w.ensure(maxRequired)
	out := w.buf.free()
	n := 0
	if !parent.first && w.state.token != tokenPropertyName {
		out[n] = ','
		n++
	}
	if w.indented && w.state.token != tokenNone && w.state.token != tokenPropertyName {
		n += w.putNewLineIndent(out[n:], w.state.depth())
	}
	out[n] = open
	n++
	w.commit(n)

	parent.first = false
	_ = w.state.push(kind) // depth checked above
	if kind == containerObject {
		w.state.token = tokenStartObject
	} else {
		w.state.token = tokenStartArray
	}
	return nil
}

func (w *Writer) writeEnd(kind containerKind, closing byte) error {
	if w.state.depth() == 0 || w.state.current().kind != kind {
		return ErrMismatchedContainer
	}

	empty := w.state.current().first
	maxRequired := 1
	if w.indented {
		maxRequired += len(w.newLine) + 2*(w.state.depth()-1)
	}
	w.ensure(maxRequired)
	out := w.buf.free()
	n := 0
	// An empty container closes on the same line as it opened.
	if w.indented && !empty {
		n += w.putNewLineIndent(out[n:], w.state.depth()-1)
	}
	out[n] = closing
	n++
	w.commit(n)

	_ = w.state.pop(kind) // kind checked above
	if kind == containerObject {
		w.state.token = tokenEndObject
	} else {
		w.state.token = tokenEndArray
	}
	return nil
}

// WritePropertyName emits a quoted, escaped property name and its colon.
// The next write must supply the value; pairing a name with WriteUUIDValue
// is equivalent to WriteUUIDField but lets a container start follow the
// name.
func (w *Writer) WritePropertyName(name string) error {
	if !w.skipValidation {
		if err := w.state.validateWritingProperty(); err != nil {
			return err
		}
	}
	if len(name) > MaxUnescapedTokenSize {
		return ErrPropertyNameTooLong
	}

	idx := firstEscapeIndexString(name, w.enc)
	if idx == -1 {
		writeName(w, name)
	} else if err := w.escapeThenWriteName(name, idx); err != nil {
		return err
	}
	w.state.current().first = false
	w.state.token = tokenPropertyName
	return nil
}

func (w *Writer) escapeThenWriteName(name string, firstEscape int) error {
	maxLen := maxEscapedLength(len(name), firstEscape)
	if maxLen <= stackScratchSize {
		var scratch [stackScratchSize]byte
		n := escapeString(name, scratch[:maxLen], firstEscape, w.enc)
		writeName(w, scratch[:n])
		return nil
	}
	rented := w.pool.Get(maxLen)
	defer w.pool.Put(rented)
	n := escapeString(name, *rented, firstEscape, w.enc)
	writeName(w, (*rented)[:n])
	return nil
}

// WriteUUIDField writes a property name given as a UTF-8 string together
// with its identifier value, quoted in canonical hyphenated form. The name
// is analyzed and escaped as required by the configured encoder.
func (w *Writer) WriteUUIDField(name string, v uuid.UUID) error {
	if !w.skipValidation {
		if err := w.state.validateWritingProperty(); err != nil {
			return err
		}
	}
	if len(name) > MaxUnescapedTokenSize {
		return ErrPropertyNameTooLong
	}

	if idx := firstEscapeIndexString(name, w.enc); idx != -1 {
		if err := w.escapeThenWriteField(name, idx, v); err != nil {
			return err
		}
	} else {
		writeField(w, name, v)
	}
	w.finishValue()
	return nil
}

// WriteUUIDFieldBytes is WriteUUIDField for a name given as raw UTF-8
// bytes. The name is untrusted: it is analyzed and escaped like the string
// form.
func (w *Writer) WriteUUIDFieldBytes(name []byte, v uuid.UUID) error {
	if name == nil {
		return ErrNilPropertyName
	}
	if !w.skipValidation {
		if err := w.state.validateWritingProperty(); err != nil {
			return err
		}
	}
	if len(name) > MaxUnescapedTokenSize {
		return ErrPropertyNameTooLong
	}

	if idx := firstEscapeIndexUTF8(name, w.enc); idx != -1 {
		if err := w.escapeThenWriteFieldBytes(name, idx, v); err != nil {
			return err
		}
	} else {
		writeField(w, name, v)
	}
	w.finishValue()
	return nil
}

// WriteUUIDFieldUTF16 is WriteUUIDField for a name given as UTF-16 code
// units, transcoded into the output encoding during the write. Unpaired
// surrogates are replaced with U+FFFD.
func (w *Writer) WriteUUIDFieldUTF16(name []uint16, v uuid.UUID) error {
	if name == nil {
		return ErrNilPropertyName
	}
	if !w.skipValidation {
		if err := w.state.validateWritingProperty(); err != nil {
			return err
		}
	}
	if len(name) > MaxUnescapedTokenSize {
		return ErrPropertyNameTooLong
	}

	if idx := firstEscapeIndexUTF16(name, w.enc); idx != -1 {
		if err := w.escapeThenWriteFieldUTF16(name, idx, v); err != nil {
			return err
		}
	} else {
		w.writeFieldUTF16(name, v)
	}
	w.finishValue()
	return nil
}

// WriteUUIDFieldRaw is WriteUUIDField for a pre-encoded, pre-escaped name.
// The name is trusted: no analysis or escaping is performed, and the length
// bound is asserted only in debug builds.
func (w *Writer) WriteUUIDFieldRaw(name []byte, v uuid.UUID) error {
	invariant(name != nil, "raw property name is nil")
	invariant(len(name) <= MaxEscapedTokenSize, "raw property name exceeds maximum token size")
	if !w.skipValidation {
		if err := w.state.validateWritingProperty(); err != nil {
			return err
		}
	}
	writeField(w, name, v)
	w.finishValue()
	return nil
}

// WriteUUIDValue writes a bare identifier value: an array element, a root
// value, or the value for a preceding WritePropertyName.
func (w *Writer) WriteUUIDValue(v uuid.UUID) error {
	if !w.skipValidation {
		if err := w.state.validateWritingValue(); err != nil {
			return err
		}
	}
	maxRequired := 2 + FormattedUUIDLength + 1
	if w.indented {
		maxRequired += len(w.newLine) + 2*w.state.depth()
	}
	w.ensure(maxRequired)
	out := w.buf.free()
	n := w.putValuePrefix(out)
	n += putQuotedUUID(out[n:], v)
	w.commit(n)
	w.finishValue()
	return nil
}

func (w *Writer) escapeThenWriteField(name string, firstEscape int, v uuid.UUID) error {
	maxLen := maxEscapedLength(len(name), firstEscape)
	if maxLen <= stackScratchSize {
		var scratch [stackScratchSize]byte
		n := escapeString(name, scratch[:maxLen], firstEscape, w.enc)
		writeField(w, scratch[:n], v)
		return nil
	}
	rented := w.pool.Get(maxLen)
	defer w.pool.Put(rented)
	n := escapeString(name, *rented, firstEscape, w.enc)
	writeField(w, (*rented)[:n], v)
	return nil
}

func (w *Writer) escapeThenWriteFieldBytes(name []byte, firstEscape int, v uuid.UUID) error {
	maxLen := maxEscapedLength(len(name), firstEscape)
	if maxLen <= stackScratchSize {
		var scratch [stackScratchSize]byte
		n := escapeUTF8(name, scratch[:maxLen], firstEscape, w.enc)
		writeField(w, scratch[:n], v)
		return nil
	}
	rented := w.pool.Get(maxLen)
	defer w.pool.Put(rented)
	n := escapeUTF8(name, *rented, firstEscape, w.enc)
	writeField(w, (*rented)[:n], v)
	return nil
}

func (w *Writer) escapeThenWriteFieldUTF16(name []uint16, firstEscape int, v uuid.UUID) error {
	maxLen := maxEscapedTranscodedLength(len(name), firstEscape)
	if maxLen <= stackScratchSize {
		var scratch [stackScratchSize]byte
		n := escapeTranscodeUTF16(name, scratch[:maxLen], firstEscape, w.enc)
		writeField(w, scratch[:n], v)
		return nil
	}
	rented := w.pool.Get(maxLen)
	defer w.pool.Put(rented)
	n := escapeTranscodeUTF16(name, *rented, firstEscape, w.enc)
	writeField(w, (*rented)[:n], v)
	return nil
}

func (w *Writer) finishValue() {
	w.state.current().first = false
	w.state.token = tokenString
}

// putValuePrefix writes the separator and, in indented mode, the newline
// and indent that precede a value token, honoring that a value directly
// after its property name stays on the same line.
func (w *Writer) putValuePrefix(out []byte) int {
	n := 0
	if !w.state.current().first && w.state.token != tokenPropertyName {
		out[n] = ','
		n++
	}
	if w.indented && w.state.token != tokenNone && w.state.token != tokenPropertyName {
		n += w.putNewLineIndent(out[n:], w.state.depth())
	}
	return n
}

func (w *Writer) putNewLineIndent(dst []byte, depth int) int {
	n := copy(dst, w.newLine)
	for i := 0; i < depth; i++ {
		dst[n] = ' '
		dst[n+1] = ' '
		n += 2
	}
	return n
}

func putQuotedUUID(dst []byte, v uuid.UUID) int {
	dst[0] = '"'
	n := 1 + formatUUID(dst[1:], v)
	dst[n] = '"'
	return n + 1
}

// writeField assembles one "name":"value" pair. The name must already be
// escaped (or known not to need it). The worst-case size is summed before
// any byte is written and capacity is ensured exactly once; the writes that
// follow are unchecked.
func writeField[T ~string | ~[]byte](w *Writer, name T, v uuid.UUID) {
	if w.indented {
		writeFieldIndented(w, name, v)
	} else {
		writeFieldMinimized(w, name, v)
	}
}

func writeFieldMinimized[T ~string | ~[]byte](w *Writer, name T, v uuid.UUID) {
	maxRequired := 1 + 3 + len(name) + 2 + FormattedUUIDLength
	w.ensure(maxRequired)
	out := w.buf.free()
	n := 0
	if !w.state.current().first {
		out[n] = ','
		n++
	}
	out[n] = '"'
	n++
	n += putName(out[n:], name)
	out[n] = '"'
	out[n+1] = ':'
	n += 2
	n += putQuotedUUID(out[n:], v)
	w.commit(n)
}

func writeFieldIndented[T ~string | ~[]byte](w *Writer, name T, v uuid.UUID) {
	maxRequired := 1 + len(w.newLine) + 2*w.state.depth() + 4 + len(name) + 2 + FormattedUUIDLength
	w.ensure(maxRequired)
	out := w.buf.free()
	n := 0
	if !w.state.current().first {
		out[n] = ','
		n++
	}
	if w.state.token != tokenNone {
		n += w.putNewLineIndent(out[n:], w.state.depth())
	}
	out[n] = '"'
	n++
	n += putName(out[n:], name)
	out[n] = '"'
	out[n+1] = ':'
	out[n+2] = ' '
	n += 3
	n += putQuotedUUID(out[n:], v)
	w.commit(n)
}

// writeFieldUTF16 is the unescaped text shape: the name transcodes straight
// into the output buffer at the cursor.
func (w *Writer) writeFieldUTF16(name []uint16, v uuid.UUID) {
	nameMax := maxTranscodeExpansion * len(name)
	var maxRequired int
	if w.indented {
		maxRequired = 1 + len(w.newLine) + 2*w.state.depth() + 4 + nameMax + 2 + FormattedUUIDLength
	} else {
		maxRequired = 1 + 3 + nameMax + 2 + FormattedUUIDLength
	}
	w.ensure(maxRequired)
	out := w.buf.free()
	n := 0
	if !w.state.current().first {
		out[n] = ','
		n++
	}
	if w.indented && w.state.token != tokenNone {
		n += w.putNewLineIndent(out[n:], w.state.depth())
	}
	out[n] = '"'
	n++
	n += transcodeUTF16(out[n:], name)
	out[n] = '"'
	out[n+1] = ':'
	n += 2
	if w.indented {
		out[n] = ' '
		n++
	}
	n += putQuotedUUID(out[n:], v)
	w.commit(n)
}

func writeName[T ~string | ~[]byte](w *Writer, name T) {
	var maxRequired int
	if w.indented {
		maxRequired = 1 + len(w.newLine) + 2*w.state.depth() + 4 + len(name)
	} else {
		maxRequired = 1 + 3 + len(name)
	}
	w.ensure(maxRequired)
	out := w.buf.free()
	n := 0
	if !w.state.current().first {
		out[n] = ','
		n++
	}
	if w.indented && w.state.token != tokenNone {
		n += w.putNewLineIndent(out[n:], w.state.depth())
	}
	out[n] = '"'
	n++
	n += putName(out[n:], name)
	out[n] = '"'
	out[n+1] = ':'
	n += 2
	if w.indented {
		out[n] = ' '
		n++
	}
	w.commit(n)
}

// putName copies a name given as either string or bytes. Indexing is the
// one slice operation both shapes share without a converting copy.
func putName[T ~string | ~[]byte](dst []byte, name T) int {
	for i := 0; i < len(name); i++ {
		dst[i] = name[i]
	}
	return len(name)
}
