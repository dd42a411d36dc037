package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"honnef.co/go/inkedit"
)

// Document is a set of annotation records and the pages they belong to.
type Document struct {
	Pages    []Page
	Ink      []InkRecord
	FreeText []FreeTextRecord
}

// lineHeight is the distance between text baselines, relative to the font
// size.
const lineHeight = 1.2

// WritePDF draws the document's annotations onto blank pages and writes the
// result to w. Each record is drawn on the page its PageIndex refers to.
func WritePDF(w io.Writer, doc Document) error {
	if len(doc.Pages) == 0 {
		return errors.New("export: document has no pages")
	}
	for _, rec := range doc.Ink {
		if rec.PageIndex < 0 || rec.PageIndex >= len(doc.Pages) {
			return fmt.Errorf("export: ink %s: page %d out of range", rec.ID, rec.PageIndex)
		}
	}
	for _, rec := range doc.FreeText {
		if rec.PageIndex < 0 || rec.PageIndex >= len(doc.Pages) {
			return fmt.Errorf("export: freetext %s: page %d out of range", rec.ID, rec.PageIndex)
		}
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for i, page := range doc.Pages {
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: page.Width, Ht: page.Height})
		// gofpdf measures from the top of the page.
		flip := func(y float64) float64 { return page.Height - y }

		for _, rec := range doc.Ink {
			if rec.PageIndex != i {
				continue
			}
			pdf.SetDrawColor(int(rec.Color[0]), int(rec.Color[1]), int(rec.Color[2]))
			pdf.SetLineWidth(rec.Thickness)
			pdf.SetLineCapStyle("round")
			pdf.SetLineJoinStyle("round")
			for _, p := range rec.Paths {
				b := p.Bezier
				if len(b) < 8 {
					continue
				}
				pdf.MoveTo(b[0], flip(b[1]))
				for j := 2; j+5 < len(b); j += 6 {
					pdf.CurveBezierCubicTo(b[j], flip(b[j+1]), b[j+2], flip(b[j+3]), b[j+4], flip(b[j+5]))
				}
				pdf.DrawPath("D")
			}
		}

		for _, rec := range doc.FreeText {
			if rec.PageIndex != i {
				continue
			}
			x, top := rec.Rect[0], flip(rec.Rect[3])
			pdf.SetFont("Helvetica", "", rec.FontSize)
			pdf.SetTextColor(int(rec.Color[0]), int(rec.Color[1]), int(rec.Color[2]))
			if rec.Rotation != 0 {
				pdf.TransformBegin()
				pdf.TransformRotate(float64(rec.Rotation), x, top)
			}
			for j, line := range strings.Split(rec.Value, "\n") {
				pdf.Text(x, top+rec.FontSize*(1+float64(j)*lineHeight), tr(line))
			}
			if rec.Rotation != 0 {
				pdf.TransformEnd()
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	inkedit.Logger().Info("export: writing PDF", "pages", len(doc.Pages), "ink", len(doc.Ink), "freetext", len(doc.FreeText))
	return pdf.Output(w)
}
