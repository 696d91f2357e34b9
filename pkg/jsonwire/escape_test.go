package jsonwire

import (
	"encoding/json"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
)

func TestFirstEscapeIndex(t *testing.T) {
	for _, tc := range []struct {
		name string
		enc  Encoder
		want int
	}{
		{name: "", enc: DefaultEncoder, want: -1},
		{name: "abc", enc: DefaultEncoder, want: -1},
		{name: `ab"c`, enc: DefaultEncoder, want: 2},
		{name: `\`, enc: DefaultEncoder, want: 0},
		{name: "a\nb", enc: DefaultEncoder, want: 1},
		{name: "tab\there", enc: DefaultEncoder, want: 3},
		{name: "héllo", enc: DefaultEncoder, want: -1},
		{name: "日本語", enc: DefaultEncoder, want: -1},
		{name: "a<b", enc: DefaultEncoder, want: -1},
		{name: "a<b", enc: HTMLEncoder, want: 1},
		{name: "x&y", enc: HTMLEncoder, want: 1},
		{name: "\u2028", enc: HTMLEncoder, want: 0},
		{name: "\u2028", enc: DefaultEncoder, want: -1},
	} {
		require.Equal(t, tc.want, firstEscapeIndexString(tc.name, tc.enc), "string %q", tc.name)
		require.Equal(t, tc.want, firstEscapeIndexUTF8([]byte(tc.name), tc.enc), "bytes %q", tc.name)
	}
}

func TestFirstEscapeIndexUTF16(t *testing.T) {
	units := func(s string) []uint16 { return utf16.Encode([]rune(s)) }

	require.Equal(t, -1, firstEscapeIndexUTF16(units("abc"), DefaultEncoder))
	require.Equal(t, 2, firstEscapeIndexUTF16(units(`ab"c`), DefaultEncoder))
	require.Equal(t, -1, firstEscapeIndexUTF16(units("a😀b"), DefaultEncoder))
	require.Equal(t, 1, firstEscapeIndexUTF16(units("a<b"), HTMLEncoder))
	// Unpaired surrogates need escaping (to U+FFFD).
	require.Equal(t, 1, firstEscapeIndexUTF16([]uint16{'a', 0xD83D, 'b'}, DefaultEncoder))
	require.Equal(t, 0, firstEscapeIndexUTF16([]uint16{0xDE00}, DefaultEncoder))
}

// The escaped form must unescape back to the input. The stdlib JSON parser
// is the independent oracle here.
func TestEscapeRoundTrip(t *testing.T) {
	names := []string{
		`ab"c`,
		`back\slash`,
		"new\nline",
		"all\b\f\n\r\tshorthands",
		"control\x01\x1fchars",
		"mixed héllo \"quoted\" 日本語",
		"astral 😀 pair",
	}
	for _, name := range names {
		idx := firstEscapeIndexString(name, DefaultEncoder)
		require.NotEqual(t, -1, idx, "%q", name)

		dst := make([]byte, maxEscapedLength(len(name), idx))
		n := escapeString(name, dst, idx, DefaultEncoder)
		require.LessOrEqual(t, n, len(dst))

		var back string
		require.NoError(t, json.Unmarshal([]byte(`"`+string(dst[:n])+`"`), &back), "%q", name)
		require.Equal(t, name, back)
	}
}

func TestEscapeRoundTripHTML(t *testing.T) {
	name := "a<b>c&d \u2028\u2029"
	idx := firstEscapeIndexString(name, HTMLEncoder)
	require.Equal(t, 1, idx)

	dst := make([]byte, maxEscapedLength(len(name), idx))
	n := escapeString(name, dst, idx, HTMLEncoder)

	var back string
	require.NoError(t, json.Unmarshal([]byte(`"`+string(dst[:n])+`"`), &back))
	require.Equal(t, name, back)
}

func TestEscapePrefixVerbatim(t *testing.T) {
	src := []byte(`prefix-stays"suffix`)
	idx := firstEscapeIndexUTF8(src, DefaultEncoder)
	require.Equal(t, 12, idx)

	dst := make([]byte, maxEscapedLength(len(src), idx))
	n := escapeUTF8(src, dst, idx, DefaultEncoder)
	require.Equal(t, src[:idx], dst[:idx])
	require.Equal(t, `prefix-stays\"suffix`, string(dst[:n]))
}

func TestEscapeUTF16MatchesUTF8(t *testing.T) {
	names := []string{`ab"c`, "new\nline", "mixed héllo \"q\"", "astral 😀\"x"}
	for _, name := range names {
		idx8 := firstEscapeIndexString(name, DefaultEncoder)
		dst8 := make([]byte, maxEscapedLength(len(name), idx8))
		n8 := escapeString(name, dst8, idx8, DefaultEncoder)

		units := utf16.Encode([]rune(name))
		idx16 := firstEscapeIndexUTF16(units, DefaultEncoder)
		dst16 := make([]byte, maxEscapedTranscodedLength(len(units), idx16))
		n16 := escapeTranscodeUTF16(units, dst16, idx16, DefaultEncoder)

		require.Equal(t, string(dst8[:n8]), string(dst16[:n16]), "%q", name)
	}
}

func TestEscapeUndersizedDestinationPanics(t *testing.T) {
	src := []byte(`a"b`)
	idx := firstEscapeIndexUTF8(src, DefaultEncoder)
	require.Panics(t, func() {
		escapeUTF8(src, make([]byte, 3), idx, DefaultEncoder)
	})
}

func TestMaxEscapedLengthIsUpperBound(t *testing.T) {
	names := []string{`"`, `ab"c`, "all\b\f\n\r\tshorthands", "héllo\"", "😀\""}
	for _, name := range names {
		idx := firstEscapeIndexString(name, DefaultEncoder)
		bound := maxEscapedLength(len(name), idx)
		dst := make([]byte, bound)
		n := escapeString(name, dst, idx, DefaultEncoder)
		require.LessOrEqual(t, n, bound, "%q", name)
	}
}
