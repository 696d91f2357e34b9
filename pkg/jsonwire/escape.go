package jsonwire

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// controlShorthand maps the control characters that have a two-byte escape
// form; everything else below 0x20 becomes \u00XX.
var controlShorthand = [0x20]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
}

// firstEscapeIndexUTF8 returns the byte index of the first character in s
// that must be escaped under enc, or -1 if the whole name can be copied
// verbatim. Multi-byte runes are reported at their first byte.
func firstEscapeIndexUTF8(s []byte, enc Encoder) int {
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if mandatoryEscape[c] || enc.NeedsEscaping(rune(c)) {
				return i
			}
			i++
			continue
		}
		r, n := utf8.DecodeRune(s[i:])
		if r == utf8.RuneError && n == 1 {
			// Invalid byte sequences are rewritten to U+FFFD by
			// the escaper, so they count as needing escaping.
			return i
		}
		if enc.NeedsEscaping(r) {
			return i
		}
		i += n
	}
	return -1
}

// firstEscapeIndexString mirrors firstEscapeIndexUTF8 for string input, so
// string property names scan without a []byte conversion.
func firstEscapeIndexString(s string, enc Encoder) int {
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if mandatoryEscape[c] || enc.NeedsEscaping(rune(c)) {
				return i
			}
			i++
			continue
		}
		r, n := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && n == 1 {
			return i
		}
		if enc.NeedsEscaping(r) {
			return i
		}
		i += n
	}
	return -1
}

// firstEscapeIndexUTF16 is the code-unit analogue of firstEscapeIndexUTF8.
// Unpaired surrogates count as needing escaping: the escaper replaces them
// with U+FFFD.
func firstEscapeIndexUTF16(s []uint16, enc Encoder) int {
	for i := 0; i < len(s); i++ {
		u := s[i]
		if u < utf8.RuneSelf {
			if mandatoryEscape[u] || enc.NeedsEscaping(rune(u)) {
				return i
			}
			continue
		}
		if isHighSurrogate(u) {
			if i+1 < len(s) && isLowSurrogate(s[i+1]) {
				r := utf16.DecodeRune(rune(u), rune(s[i+1]))
				if enc.NeedsEscaping(r) {
					return i
				}
				i++
				continue
			}
			return i
		}
		if isLowSurrogate(u) {
			return i
		}
		if enc.NeedsEscaping(rune(u)) {
			return i
		}
	}
	return -1
}

// maxEscapedLength is the sizing bound for both escapers: the verbatim
// prefix plus worst-case six-fold expansion of everything after it. It is
// deliberately an upper bound, never an exact count; the buffer manager
// over-allocates and the escapers report the true written length.
func maxEscapedLength(length, firstEscapeIndex int) int {
	return firstEscapeIndex + maxEscapeExpansion*(length-firstEscapeIndex)
}

// maxEscapedTranscodedLength bounds the UTF-8 output of escaping a UTF-16
// name: the unescaped prefix still transcodes at up to three bytes per code
// unit, and everything after the first escape expands at most six-fold.
func maxEscapedTranscodedLength(length, firstEscapeIndex int) int {
	return maxTranscodeExpansion*firstEscapeIndex + maxEscapeExpansion*(length-firstEscapeIndex)
}

// escapeUTF8 copies src[:firstEscapeIndex] verbatim into dst, then re-scans
// from firstEscapeIndex escaping as needed, and returns the number of bytes
// written. dst must be at least maxEscapedLength(len(src), firstEscapeIndex)
// bytes; anything smaller is a sizing defect in the caller and panics.
func escapeUTF8(src, dst []byte, firstEscapeIndex int, enc Encoder) int {
	if len(dst) < maxEscapedLength(len(src), firstEscapeIndex) {
		panic(fmt.Sprintf("jsonwire: escape destination undersized: %d < %d",
			len(dst), maxEscapedLength(len(src), firstEscapeIndex)))
	}
	n := copy(dst, src[:firstEscapeIndex])
	for i := firstEscapeIndex; i < len(src); {
		c := src[i]
		if c < utf8.RuneSelf {
			if mandatoryEscape[c] || enc.NeedsEscaping(rune(c)) {
				n += appendEscaped(dst[n:], rune(c))
			} else {
				dst[n] = c
				n++
			}
			i++
			continue
		}
		r, sz := utf8.DecodeRune(src[i:])
		switch {
		case r == utf8.RuneError && sz == 1:
			n += utf8.EncodeRune(dst[n:], utf8.RuneError)
		case enc.NeedsEscaping(r):
			n += appendEscaped(dst[n:], r)
		default:
			n += copy(dst[n:], src[i:i+sz])
		}
		i += sz
	}
	return n
}

// escapeString is the string analogue of escapeUTF8.
func escapeString(src string, dst []byte, firstEscapeIndex int, enc Encoder) int {
	if len(dst) < maxEscapedLength(len(src), firstEscapeIndex) {
		panic(fmt.Sprintf("jsonwire: escape destination undersized: %d < %d",
			len(dst), maxEscapedLength(len(src), firstEscapeIndex)))
	}
	n := copy(dst, src[:firstEscapeIndex])
	for i := firstEscapeIndex; i < len(src); {
		c := src[i]
		if c < utf8.RuneSelf {
			if mandatoryEscape[c] || enc.NeedsEscaping(rune(c)) {
				n += appendEscaped(dst[n:], rune(c))
			} else {
				dst[n] = c
				n++
			}
			i++
			continue
		}
		r, sz := utf8.DecodeRuneInString(src[i:])
		switch {
		case r == utf8.RuneError && sz == 1:
			n += utf8.EncodeRune(dst[n:], utf8.RuneError)
		case enc.NeedsEscaping(r):
			n += appendEscaped(dst[n:], r)
		default:
			n += copy(dst[n:], src[i:i+sz])
		}
		i += sz
	}
	return n
}

// escapeTranscodeUTF16 escapes src from firstEscapeIndex onward while
// transcoding the whole name to UTF-8 in a single pass, writing into dst.
// Everything before the first escape index is copied through the
// transcoder unaltered; sizing follows maxEscapedTranscodedLength.
func escapeTranscodeUTF16(src []uint16, dst []byte, firstEscapeIndex int, enc Encoder) int {
	if len(dst) < maxEscapedTranscodedLength(len(src), firstEscapeIndex) {
		panic(fmt.Sprintf("jsonwire: escape destination undersized: %d < %d",
			len(dst), maxEscapedTranscodedLength(len(src), firstEscapeIndex)))
	}
	n := transcodeUTF16(dst, src[:firstEscapeIndex])
	for i := firstEscapeIndex; i < len(src); i++ {
		u := src[i]
		if u < utf8.RuneSelf {
			if mandatoryEscape[u] || enc.NeedsEscaping(rune(u)) {
				n += appendEscaped(dst[n:], rune(u))
			} else {
				dst[n] = byte(u)
				n++
			}
			continue
		}
		if isHighSurrogate(u) && i+1 < len(src) && isLowSurrogate(src[i+1]) {
			r := utf16.DecodeRune(rune(u), rune(src[i+1]))
			i++
			if enc.NeedsEscaping(r) {
				n += appendEscaped(dst[n:], r)
			} else {
				n += utf8.EncodeRune(dst[n:], r)
			}
			continue
		}
		if isHighSurrogate(u) || isLowSurrogate(u) {
			n += utf8.EncodeRune(dst[n:], utf8.RuneError)
			continue
		}
		if enc.NeedsEscaping(rune(u)) {
			n += appendEscaped(dst[n:], rune(u))
		} else {
			n += utf8.EncodeRune(dst[n:], rune(u))
		}
	}
	return n
}

// appendEscaped writes the escape sequence for r into dst and returns its
// length. Characters outside the BMP become a surrogate-pair escape.
func appendEscaped(dst []byte, r rune) int {
	switch r {
	case '"':
		return copy(dst, `\"`)
	case '\\':
		return copy(dst, `\\`)
	}
	if r < 0x20 {
		if short := controlShorthand[r]; short != 0 {
			dst[0] = '\\'
			dst[1] = short
			return 2
		}
		return putHexEscape(dst, uint16(r))
	}
	if r > 0xFFFF {
		hi, lo := utf16.EncodeRune(r)
		n := putHexEscape(dst, uint16(hi))
		return n + putHexEscape(dst[n:], uint16(lo))
	}
	return putHexEscape(dst, uint16(r))
}

func putHexEscape(dst []byte, u uint16) int {
	dst[0] = '\\'
	dst[1] = 'u'
	dst[2] = hexDigits[u>>12]
	dst[3] = hexDigits[u>>8&0xF]
	dst[4] = hexDigits[u>>4&0xF]
	dst[5] = hexDigits[u&0xF]
	return 6
}
