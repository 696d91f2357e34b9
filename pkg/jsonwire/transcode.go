package jsonwire

import "unicode/utf8"

const (
	surrHighStart = 0xD800
	surrLowStart  = 0xDC00
	surrEnd       = 0xE000
	surrSelf      = 0x10000
)

func isHighSurrogate(u uint16) bool { return u >= surrHighStart && u < surrLowStart }
func isLowSurrogate(u uint16) bool  { return u >= surrLowStart && u < surrEnd }

// transcodeUTF16 converts src into UTF-8 directly into dst and returns the
// number of bytes written. Unpaired surrogates become U+FFFD. The caller
// must have reserved maxTranscodeExpansion bytes per code unit; dst bounds
// are not re-checked here.
func transcodeUTF16(dst []byte, src []uint16) int {
	n := 0
	for i := 0; i < len(src); i++ {
		u := src[i]
		switch {
		case u < 0x80:
			dst[n] = byte(u)
			n++
		case u < 0x800:
			dst[n] = 0xC0 | byte(u>>6)
			dst[n+1] = 0x80 | byte(u)&0x3F
			n += 2
		case isHighSurrogate(u):
			if i+1 < len(src) && isLowSurrogate(src[i+1]) {
				r := surrSelf + (rune(u)-surrHighStart)<<10 + (rune(src[i+1]) - surrLowStart)
				dst[n] = 0xF0 | byte(r>>18)
				dst[n+1] = 0x80 | byte(r>>12)&0x3F
				dst[n+2] = 0x80 | byte(r>>6)&0x3F
				dst[n+3] = 0x80 | byte(r)&0x3F
				n += 4
				i++
				break
			}
			n += utf8.EncodeRune(dst[n:], utf8.RuneError)
		case isLowSurrogate(u):
			n += utf8.EncodeRune(dst[n:], utf8.RuneError)
		default:
			dst[n] = 0xE0 | byte(u>>12)
			dst[n+1] = 0x80 | byte(u>>6)&0x3F
			dst[n+2] = 0x80 | byte(u)&0x3F
			n += 3
		}
	}
	return n
}
