package jsonwire

type containerKind byte

const (
	containerRoot containerKind = iota
	containerObject
	containerArray
)

type tokenType byte

const (
	tokenNone tokenType = iota
	tokenStartObject
	tokenEndObject
	tokenStartArray
	tokenEndArray
	tokenPropertyName
	tokenString
)

// frame tracks one open container: its kind and whether the next child is
// the first element, which decides separator emission. An explicit stack of
// frames replaces the usual depth-sign encoding; behavior is identical and
// the states are spelled out.
type frame struct {
	kind  containerKind
	first bool
}

type writerState struct {
	stack []frame
	token tokenType
}

func newWriterState() writerState {
	s := writerState{stack: make([]frame, 1, 8)}
	s.stack[0] = frame{kind: containerRoot, first: true}
	return s
}

func (s *writerState) current() *frame {
	return &s.stack[len(s.stack)-1]
}

// depth is the number of open containers, excluding the implicit root.
func (s *writerState) depth() int {
	return len(s.stack) - 1
}

func (s *writerState) push(kind containerKind) error {
	if s.depth() >= MaxNestingDepth {
		return ErrMaxDepthExceeded
	}
	s.stack = append(s.stack, frame{kind: kind, first: true})
	return nil
}

func (s *writerState) pop(kind containerKind) error {
	if s.current().kind != kind {
		return ErrMismatchedContainer
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// validateWritingProperty checks that a property name is legal here: the
// open container is an object and the previous token is not itself a
// property name.
func (s *writerState) validateWritingProperty() error {
	if s.current().kind != containerObject {
		return ErrNotInObject
	}
	if s.token == tokenPropertyName {
		return ErrPropertyAfterProperty
	}
	return nil
}

// validateWritingValue checks that a bare value (or container start) is
// legal: inside an object it must follow a property name. Arrays and the
// root accept values freely.
func (s *writerState) validateWritingValue() error {
	if s.current().kind == containerObject && s.token != tokenPropertyName {
		return ErrValueWithoutProperty
	}
	return nil
}

func (s *writerState) reset() {
	s.stack = s.stack[:1]
	s.stack[0] = frame{kind: containerRoot, first: true}
	s.token = tokenNone
}
