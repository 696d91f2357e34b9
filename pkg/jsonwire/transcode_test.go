package jsonwire

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestTranscodeUTF16(t *testing.T) {
	for _, tc := range []struct {
		in   []uint16
		want string
	}{
		{in: nil, want: ""},
		{in: utf16.Encode([]rune("abc")), want: "abc"},
		{in: []uint16{0x00E9}, want: "é"},
		{in: []uint16{0x20AC}, want: "€"},
		{in: utf16.Encode([]rune("日本語")), want: "日本語"},
		// Surrogate pair: U+1F600.
		{in: []uint16{0xD83D, 0xDE00}, want: "😀"},
		{in: utf16.Encode([]rune("a😀b")), want: "a😀b"},
		// Unpaired surrogates become U+FFFD.
		{in: []uint16{0xD83D}, want: "�"},
		{in: []uint16{0xDE00}, want: "�"},
		{in: []uint16{'a', 0xD83D, 'b'}, want: "a�b"},
		{in: []uint16{0xD83D, 0xD83D, 0xDE00}, want: "�😀"},
	} {
		dst := make([]byte, maxTranscodeExpansion*len(tc.in)+1)
		n := transcodeUTF16(dst, tc.in)
		require.Equal(t, tc.want, string(dst[:n]), "%v", tc.in)
	}
}

// The x/text UTF-16 decoder is the independent reference: both must agree
// on every input, including the replacement of unpaired surrogates.
func TestTranscodeUTF16MatchesReference(t *testing.T) {
	inputs := [][]uint16{
		utf16.Encode([]rune("plain ascii")),
		utf16.Encode([]rune("héllo wörld")),
		utf16.Encode([]rune("日本語テキスト")),
		utf16.Encode([]rune("😀😁😂🤣")),
		{0xD83D, 'x'},
		{0xDE00, 0xD83D, 0xDE00},
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	for _, in := range inputs {
		raw := make([]byte, 2*len(in))
		for i, u := range in {
			binary.LittleEndian.PutUint16(raw[2*i:], u)
		}
		want, err := dec.Bytes(raw)
		require.NoError(t, err)

		dst := make([]byte, maxTranscodeExpansion*len(in)+1)
		n := transcodeUTF16(dst, in)
		require.Equal(t, string(want), string(dst[:n]), "%v", in)
	}
}
