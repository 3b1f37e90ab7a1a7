package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// ContentTypePDF is the media type of rendered artifacts.
const ContentTypePDF = "application/pdf"

var cellReplacer = strings.NewReplacer("\t", " ", "\r", " ")

// RenderPDF draws the artifact page by page at the positions Compose
// assigned. Pagination is entirely Compose's; automatic page breaks are off.
func RenderPDF(a *Artifact, w io.Writer) error {
	l := a.Layout.withDefaults()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: l.PageWidth, Ht: l.PageHeight},
	})
	pdf.SetMargins(l.LeftMargin, l.TopMargin, l.LeftMargin)
	pdf.SetAutoPageBreak(false, l.BottomMargin)
	pdf.SetFont("Arial", "", l.FontSize)

	for _, page := range a.Pages {
		pdf.AddPage()
		for _, line := range page.Lines {
			pdf.SetXY(l.LeftMargin, line.Y)
			pdf.CellFormat(0, l.LineHeight, cellReplacer.Replace(line.Text), "", 0, "L", false, 0, "")
		}
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("document: render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("document: write pdf: %w", err)
	}
	return nil
}

// PDFBytes renders the artifact into memory.
func PDFBytes(a *Artifact) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderPDF(a, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
