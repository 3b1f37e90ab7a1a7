package document

import "legal-assistant/config"

// DefaultWidth is the wrap width, in characters, of artifact lines.
const DefaultWidth = 60

// Layout is the page geometry used by Compose and RenderPDF. Lengths are
// millimetres.
type Layout struct {
	Width          int
	PartLabel      string
	PageWidth      float64
	PageHeight     float64
	TopMargin      float64
	LeftMargin     float64
	BottomMargin   float64
	BreakThreshold float64
	LineHeight     float64
	BlankHeight    float64
	BodyGap        float64
	HeaderGap      float64
	FontSize       float64
}

// DefaultLayout is an A4 page with 15mm margins, 9pt text on 4mm lines and a
// manual page break once the cursor passes 250mm.
func DefaultLayout() Layout {
	return Layout{
		Width:          DefaultWidth,
		PartLabel:      "Part",
		PageWidth:      210,
		PageHeight:     297,
		TopMargin:      15,
		LeftMargin:     15,
		BottomMargin:   20,
		BreakThreshold: 250,
		LineHeight:     4,
		BlankHeight:    3,
		BodyGap:        5,
		HeaderGap:      8,
		FontSize:       9,
	}
}

// LayoutFromConfig merges the configured geometry with a pipeline profile.
func LayoutFromConfig(lc config.LayoutConfig, profile config.ProfileConfig) Layout {
	l := DefaultLayout()
	l.Width = lc.Width
	l.PartLabel = profile.PartLabel
	l.PageHeight = lc.PageHeight
	l.TopMargin = lc.TopMargin
	l.LeftMargin = lc.LeftMargin
	l.BottomMargin = lc.BottomMargin
	l.BreakThreshold = lc.BreakThreshold
	l.LineHeight = lc.LineHeight
	l.BlankHeight = lc.BlankHeight
	l.FontSize = lc.FontSize
	return l.withDefaults()
}

func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	if l.Width <= 0 {
		l.Width = d.Width
	}
	if l.PartLabel == "" {
		l.PartLabel = d.PartLabel
	}
	if l.PageWidth <= 0 {
		l.PageWidth = d.PageWidth
	}
	if l.PageHeight <= 0 {
		l.PageHeight = d.PageHeight
	}
	if l.LineHeight <= 0 {
		l.LineHeight = d.LineHeight
	}
	if l.BreakThreshold <= 0 {
		l.BreakThreshold = d.BreakThreshold
	}
	if l.FontSize <= 0 {
		l.FontSize = d.FontSize
	}
	return l
}

// printableBottom is the y position a line may not cross without starting
// a new page.
func (l Layout) printableBottom() float64 {
	return l.PageHeight - l.BottomMargin
}
