package document

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"legal-assistant/internal/core/normalize"
)

// ErrInvalidChunk is reported for a chunk whose body is not valid text.
var ErrInvalidChunk = errors.New("document: chunk is not valid UTF-8")

// Compose lays out the header followed by, for every chunk, a part marker,
// the wrapped chunk, the header again and a gap. After each part the cursor
// is checked against layout.BreakThreshold and, if another part follows, a
// new page is started once it is past it. A line that would cross the
// printable bottom of the page moves to a new page on its own. A part that
// fails is replaced by a one-line marker; Compose itself never fails.
func Compose(header Header, chunks []Chunk, layout Layout) *Artifact {
	layout = layout.withDefaults()
	w := &pageWriter{layout: layout}
	w.newPage()
	w.write(header.Text(), 0)
	w.gap(layout.BodyGap)

	a := &Artifact{Layout: layout}
	for i, ch := range chunks {
		part := i + 1
		mark := w.mark()
		page, err := w.writePart(header, part, ch)
		if err != nil {
			w.restore(mark)
			w.issues = append(w.issues, RenderError{Part: part, Whole: true, Err: err})
			w.write(normalize.Sanitize(fmt.Sprintf("[Part %d could not be processed]", part)), part)
		} else {
			a.Passages = append(a.Passages, Passage{
				Part: part,
				Page: page,
				Text: header.Text().String() + "\n\n" + ch.Text.String(),
			})
		}
		if w.y > layout.BreakThreshold && part < len(chunks) {
			w.newPage()
		}
	}

	a.Pages = w.pages
	a.Parts = len(chunks)
	a.Issues = w.issues
	return a
}

// pageWriter owns the cursor and page list of a single Compose call.
type pageWriter struct {
	layout Layout
	pages  []Page
	y      float64
	issues []RenderError
}

type writerMark struct {
	pages  int
	lines  int
	issues int
	y      float64
}

func (w *pageWriter) newPage() {
	w.pages = append(w.pages, Page{})
	w.y = w.layout.TopMargin
}

func (w *pageWriter) gap(h float64) {
	w.y += h
}

func (w *pageWriter) cell(text string) {
	if w.y+w.layout.LineHeight > w.layout.printableBottom() && w.y > w.layout.TopMargin {
		w.newPage()
	}
	p := &w.pages[len(w.pages)-1]
	p.Lines = append(p.Lines, PlacedLine{Text: text, Y: w.y})
	w.y += w.layout.LineHeight
}

func (w *pageWriter) write(text normalize.Text, part int) {
	for line := range Wrap(text, w.layout.Width) {
		if line.Blank {
			w.gap(w.layout.BlankHeight)
			continue
		}
		if line.Err != nil {
			w.issues = append(w.issues, RenderError{Part: part, Err: line.Err})
		}
		w.cell(line.Text)
	}
}

func (w *pageWriter) writePart(header Header, part int, ch Chunk) (page int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("document: laying out part %d: %v", part, r)
		}
	}()
	if !utf8.ValidString(ch.Text.String()) {
		return 0, ErrInvalidChunk
	}
	w.write(normalize.Sanitize(fmt.Sprintf("\n--- %s %d ---\n", w.layout.PartLabel, part)), part)
	page = len(w.pages)
	w.write(ch.Text, part)
	w.gap(w.layout.BodyGap)
	w.write(header.Text(), part)
	w.gap(w.layout.HeaderGap)
	return page, nil
}

func (w *pageWriter) mark() writerMark {
	return writerMark{
		pages:  len(w.pages),
		lines:  len(w.pages[len(w.pages)-1].Lines),
		issues: len(w.issues),
		y:      w.y,
	}
}

func (w *pageWriter) restore(m writerMark) {
	w.pages = w.pages[:m.pages]
	last := &w.pages[len(w.pages)-1]
	last.Lines = last.Lines[:m.lines]
	w.issues = w.issues[:m.issues]
	w.y = m.y
}

// ComposeText sanitizes text, splits it into at most maxChunks chunks of
// chunkSize characters and composes them under header.
func ComposeText(header Header, text string, layout Layout, chunkSize, maxChunks int) (*Artifact, Chunking) {
	chunking := Split(normalize.Sanitize(text), chunkSize, maxChunks)
	return Compose(header, chunking.Chunks, layout), chunking
}
