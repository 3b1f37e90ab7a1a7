package document

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"legal-assistant/internal/core/normalize"
)

// SkippedLine replaces a line that cannot be drawn.
const SkippedLine = "[Content skipped]"

// ErrUnsupportedGlyph is reported for a line holding a byte outside the
// renderable set.
var ErrUnsupportedGlyph = errors.New("document: unsupported glyph")

// Line is one rendered line. Blank lines carry no text; the caller advances
// its cursor by the blank-line height instead.
type Line struct {
	Text  string
	Blank bool
	Err   error
}

// Wrap reflows text into lines of at most width characters. Long lines break
// at the last space when that space sits past two thirds of the width,
// otherwise exactly at width. The returned sequence is lazy and can be ranged
// over any number of times.
func Wrap(text normalize.Text, width int) iter.Seq[Line] {
	if width <= 0 {
		width = DefaultWidth
	}
	minBreak := width * 2 / 3
	return func(yield func(Line) bool) {
		for _, logical := range strings.Split(text.String(), "\n") {
			logical = strings.TrimSuffix(logical, "\r")
			if strings.TrimSpace(logical) == "" {
				if !yield(Line{Blank: true}) {
					return
				}
				continue
			}
			for len(logical) > width {
				piece := logical[:width]
				if cut := strings.LastIndexByte(piece, ' '); cut > minBreak {
					piece, logical = piece[:cut], logical[cut+1:]
				} else {
					logical = logical[width:]
				}
				if !yield(renderLine(piece)) {
					return
				}
			}
			if logical != "" {
				if !yield(renderLine(logical)) {
					return
				}
			}
		}
	}
}

func renderLine(s string) Line {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 0x20 || c >= 0x7f) && c != '\t' && c != '\r' {
			return Line{Text: SkippedLine, Err: fmt.Errorf("%w 0x%02x at column %d", ErrUnsupportedGlyph, c, i)}
		}
	}
	return Line{Text: s}
}
