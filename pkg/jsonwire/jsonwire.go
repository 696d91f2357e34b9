// Package jsonwire implements a streaming, allocation-minimizing JSON
// writer. Output accumulates in a single growable byte buffer owned by the
// writer; every write computes a conservative worst-case size up front,
// ensures capacity exactly once, and then emits bytes unchecked.
//
// Property names are accepted as UTF-8 strings, as UTF-16 code-unit slices
// (transcoded on the fly), or as pre-encoded, pre-escaped bytes (trusted,
// not re-analyzed). Values are fixed-width identifiers rendered in their
// canonical hyphenated form.
package jsonwire

import (
	"github.com/pkg/errors"
)

const (
	// MaxUnescapedTokenSize bounds the length of a property name, in
	// UTF-8 bytes or UTF-16 code units, accepted on the untrusted write
	// paths. Worst-case escaping expands every character six-fold, so
	// this keeps the escaped form within MaxEscapedTokenSize.
	MaxUnescapedTokenSize = 166_666_666

	// MaxEscapedTokenSize bounds the escaped form of a single token.
	MaxEscapedTokenSize = 1_000_000_000

	// MaxNestingDepth bounds how many containers may be open at once.
	MaxNestingDepth = 1000

	// maxEscapeExpansion is the per-character worst case: a single input
	// character becoming a \uXXXX sequence.
	maxEscapeExpansion = 6

	// maxTranscodeExpansion is the per-code-unit worst case when
	// transcoding UTF-16 to UTF-8: a single unit becoming three bytes.
	// Surrogate pairs produce four bytes from two units, which is below
	// this bound.
	maxTranscodeExpansion = 3
)

var (
	// ErrNilPropertyName is returned by the untrusted slice-based write
	// paths when the property name is nil.
	ErrNilPropertyName = errors.New("jsonwire: property name must not be nil")

	// ErrPropertyNameTooLong is returned when a property name exceeds
	// MaxUnescapedTokenSize on an untrusted write path.
	ErrPropertyNameTooLong = errors.New("jsonwire: property name exceeds maximum token size")

	// ErrNotInObject is returned when a property name is written while
	// the current container is not an object.
	ErrNotInObject = errors.New("jsonwire: cannot write a property name outside an object")

	// ErrPropertyAfterProperty is returned when two property names are
	// written back to back with no value between them.
	ErrPropertyAfterProperty = errors.New("jsonwire: cannot write a property name immediately after another property name")

	// ErrValueWithoutProperty is returned when a bare value is written
	// inside an object without a preceding property name.
	ErrValueWithoutProperty = errors.New("jsonwire: cannot write a value inside an object without a property name")

	// ErrMismatchedContainer is returned when a container end token does
	// not match the currently open container.
	ErrMismatchedContainer = errors.New("jsonwire: container end does not match the open container")

	// ErrMaxDepthExceeded is returned when opening a container would
	// exceed MaxNestingDepth.
	ErrMaxDepthExceeded = errors.New("jsonwire: maximum nesting depth exceeded")

	// ErrInvalidNewLine is returned by NewWriter when the configured
	// newline sequence is neither "\n" nor "\r\n".
	ErrInvalidNewLine = errors.New(`jsonwire: newline must be "\n" or "\r\n"`)
)
