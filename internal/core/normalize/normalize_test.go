package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	t.Run("Should replace smart typography", func(t *testing.T) {
		got := Sanitize("\u2018Hello\u2019 \u2014 world\u2026")
		assert.Equal(t, Text("'Hello' -- world..."), got)
	})

	t.Run("Should map glyph classes to single characters", func(t *testing.T) {
		assert.Equal(t, Text(`"quoted"`), Sanitize("«quoted»"))
		assert.Equal(t, Text(`"low"`), Sanitize("„low‟"))
		assert.Equal(t, Text("* item"), Sanitize("• item"))
		assert.Equal(t, Text("a*b"), Sanitize("a⋅b"))
		assert.Equal(t, Text("caf  ok"), Sanitize("café ok"))
	})

	t.Run("Should keep layout whitespace and drop other controls", func(t *testing.T) {
		assert.Equal(t, Text("a\tb\r\nc"), Sanitize("a\tb\r\nc"))
		assert.Equal(t, Text("a b c"), Sanitize("a\x00b\x7fc"))
	})

	t.Run("Should replace each unsupported rune with one character", func(t *testing.T) {
		in := "\u4e2d\u6587 \U0001F600!"
		assert.Equal(t, Text("    !"), Sanitize(in))
	})

	t.Run("Should accept empty input", func(t *testing.T) {
		assert.Equal(t, Text(""), Sanitize(""))
	})

	t.Run("Should treat invalid UTF-8 as unsupported", func(t *testing.T) {
		assert.Equal(t, Text("a b"), Sanitize("a\xffb"))
	})
}

func TestSanitizeProperties(t *testing.T) {
	inputs := []string{
		"",
		"plain ascii",
		"“Smart” ‘quotes’ – dashes — and…",
		"line separator paragraph nbsp",
		"bullets • ∙ ⋅ and arrows → ←",
		"mixed éèê 中 \U0001F4C4 \x01\x02\x1b[0m",
		strings.Repeat("—", 100),
		"a\xff\xfeb",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once.String()), "idempotent for %q", in)
		assert.True(t, valid(once.String()), "range invariant for %q", in)
		for _, r := range once.String() {
			assert.Less(t, r, rune(128))
		}
	}
}
