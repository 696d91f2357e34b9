package jsonwire

import (
	"fmt"

	"github.com/google/uuid"
)

// FormattedUUIDLength is the exact size of the canonical hyphenated form:
// 32 lowercase hex digits plus four hyphens.
const FormattedUUIDLength = 36

// uuidHyphens marks the byte positions of the hyphens in the canonical
// 8-4-4-4-12 grouping.
var uuidHyphens = [FormattedUUIDLength]bool{8: true, 13: true, 18: true, 23: true}

// formatUUID renders v into dst in canonical form and returns
// FormattedUUIDLength. Formatting is total for any 128-bit value; an
// undersized dst means the caller's sizing is broken and panics.
func formatUUID(dst []byte, v uuid.UUID) int {
	if len(dst) < FormattedUUIDLength {
		panic(fmt.Sprintf("jsonwire: uuid destination undersized: %d < %d",
			len(dst), FormattedUUIDLength))
	}
	n := 0
	for _, b := range v {
		if uuidHyphens[n] {
			dst[n] = '-'
			n++
		}
		dst[n] = hexDigits[b>>4]
		dst[n+1] = hexDigits[b&0xF]
		n += 2
	}
	return n
}
