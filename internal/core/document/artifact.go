package document

import (
	"fmt"
	"strings"
)

// PlacedLine is a line drawn at vertical position Y (top of the cell).
type PlacedLine struct {
	Text string
	Y    float64
}

// Page is one page of an artifact.
type Page struct {
	Lines []PlacedLine
}

// RenderError is a recoverable failure to draw a line or a whole part. The
// composer replaces the failing content with a marker and records the error
// here instead of returning it.
type RenderError struct {
	// Part is the 1-based part number, 0 for the leading header.
	Part int
	// Whole is set when the entire part was replaced.
	Whole bool
	Err   error
}

func (e RenderError) Error() string {
	if e.Whole {
		return fmt.Sprintf("part %d could not be processed: %v", e.Part, e.Err)
	}
	return fmt.Sprintf("part %d: line skipped: %v", e.Part, e.Err)
}

func (e RenderError) Unwrap() error { return e.Err }

// Passage is the text of one part together with its header, for sinks that
// index text rather than files.
type Passage struct {
	Part int
	Page int
	Text string
}

// Artifact is a composed, paginated document.
type Artifact struct {
	Layout   Layout
	Pages    []Page
	Parts    int
	Issues   []RenderError
	Passages []Passage
}

// PageCount returns the number of pages.
func (a *Artifact) PageCount() int { return len(a.Pages) }

// Lines returns every drawn line in reading order.
func (a *Artifact) Lines() []string {
	var out []string
	for _, p := range a.Pages {
		for _, l := range p.Lines {
			out = append(out, l.Text)
		}
	}
	return out
}

// PlainText joins the drawn lines, one page after another.
func (a *Artifact) PlainText() string {
	var b strings.Builder
	for i, p := range a.Pages {
		if i > 0 {
			b.WriteString("\f\n")
		}
		for _, l := range p.Lines {
			b.WriteString(l.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
