// Package normalize reduces arbitrary Unicode text to the printable ASCII
// subset that the artifact renderer's core fonts can draw.
package normalize

import "strings"

// Text is sanitized text: every byte is printable ASCII or one of \n, \r, \t.
// Values should only come from Sanitize; since every byte is ASCII, byte
// offsets and character offsets coincide.
type Text string

func (t Text) String() string { return string(t) }

// Len returns the number of characters in t.
func (t Text) Len() int { return len(t) }

// Slice returns t[i:j].
func (t Text) Slice(i, j int) Text { return t[i:j] }

var typography = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'",
	"\u201c", `"`, "\u201d", `"`,
	"\u2013", "-", "\u2014", "--",
	"\u2026", "...",
	"\u00a0", " ",
	"\u2028", " ", "\u2029", " ",
)

// Sanitize substitutes smart typography, then maps every remaining rune
// outside the printable ASCII set to exactly one replacement character.
// It never fails and Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) Text {
	if s == "" {
		return ""
	}
	s = typography.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(substitute(r))
	}
	return Text(b.String())
}

// valid reports whether s already satisfies the Text invariant.
func valid(s string) bool {
	for i := 0; i < len(s); i++ {
		if !keep(rune(s[i])) {
			return false
		}
	}
	return true
}

func keep(r rune) bool {
	if r >= 0x80 {
		return false
	}
	return (r >= 0x20 && r < 0x7f) || r == '\n' || r == '\r' || r == '\t'
}

func substitute(r rune) byte {
	switch r {
	case '\u201e', '\u201f', '\u00ab', '\u00bb', '\u2039', '\u203a':
		return '"'
	case '\u2014', '\u2013':
		return '-'
	case '\u2022', '\u2219', '\u22c5':
		return '*'
	default:
		return ' '
	}
}
