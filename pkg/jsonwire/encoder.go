package jsonwire

// Encoder decides which characters need escaping beyond the mandatory set.
// The quote, backslash and control characters below 0x20 are always escaped
// regardless of policy; an Encoder can only widen the set, never narrow it.
type Encoder interface {
	// NeedsEscaping reports whether r must be emitted as an escape
	// sequence even though the mandatory rules would pass it through.
	NeedsEscaping(r rune) bool

	// Name identifies the policy in logs and metrics.
	Name() string
}

// mandatoryEscape flags the ASCII bytes every policy must escape.
var mandatoryEscape = [128]bool{
	'"':  true,
	'\\': true,
}

func init() {
	for c := 0; c < 0x20; c++ {
		mandatoryEscape[c] = true
	}
}

// DefaultEncoder escapes only the mandatory set.
var DefaultEncoder Encoder = defaultEncoder{}

type defaultEncoder struct{}

func (defaultEncoder) NeedsEscaping(rune) bool { return false }
func (defaultEncoder) Name() string            { return "default" }

// HTMLEncoder additionally escapes characters that are unsafe to embed in
// HTML or JavaScript contexts: '<', '>', '&' and the U+2028/U+2029 line
// separators.
var HTMLEncoder Encoder = htmlEncoder{}

type htmlEncoder struct{}

func (htmlEncoder) NeedsEscaping(r rune) bool {
	switch r {
	case '<', '>', '&', '\u2028', '\u2029':
		return true
	}
	return false
}

func (htmlEncoder) Name() string { return "html" }
