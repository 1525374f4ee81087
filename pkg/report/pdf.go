package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/openshift/pr-report/pkg/metrics"
)

const (
	fontFamily = "Helvetica"
	margin     = 15.0
	lineHeight = 5.0
	rowHeight  = 6.0
	footerSize = 12.0
)

// column widths in millimetres, they add up to the usable width of a Letter page
var columnWidths = []float64{28, 10, 62, 26, 16, 20, 10, 13.9}

var headingSizes = map[int]float64{2: 14, 3: 12, 4: 10}

type renderer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Render writes doc as a Letter-sized PDF and returns the number of pages. The PDF
// creation date is the document's generation time so the same document renders the same bytes.
func Render(doc *Document, w io.Writer) (int, error) {
	start := time.Now()
	defer metrics.ObserveStage("render", start)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetModificationDate(doc.GeneratedAt)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("pr-report", false)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+footerSize/2)
	pdf.AliasNbPages("")

	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerSize)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	for _, b := range doc.Blocks {
		switch b.Kind {
		case BlockTitle:
			r.font("B", 16)
			pdf.MultiCell(0, 8, r.tr(b.Text), "", "C", false)
			pdf.Ln(3)
		case BlockHeading:
			size, ok := headingSizes[b.Level]
			if !ok {
				size = 10
			}
			r.font("B", size)
			pdf.MultiCell(0, size/2+1, r.tr(b.Text), "", "L", false)
		case BlockParagraph:
			r.font("", 10)
			pdf.MultiCell(0, lineHeight, r.tr(b.Text), "", "L", false)
		case BlockBullet:
			r.font("", 10)
			pdf.SetX(margin + 4)
			pdf.MultiCell(0, lineHeight, r.tr("• "+b.Text), "", "L", false)
		case BlockSpacer:
			pdf.Ln(b.Height)
		case BlockTable:
			r.table(b.Table)
		}
	}

	if err := pdf.Output(w); err != nil {
		return 0, errors.Wrap(err, "could not render report")
	}
	return pdf.PageNo(), nil
}

// WriteFile renders doc to path.
func WriteFile(doc *Document, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrapf(err, "could not create report file %s", path)
	}
	pages, err := Render(doc, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = errors.Wrapf(closeErr, "could not write report file %s", path)
	}
	return pages, err
}

func (r *renderer) font(style string, size float64) {
	r.pdf.SetFont(fontFamily, style, size)
	r.pdf.SetTextColor(0, 0, 0)
}

// table draws header and rows, repeating the header at the top of every page it spans.
func (r *renderer) table(t *Table) {
	_, pageHeight := r.pdf.GetPageSize()
	_, _, _, bottom := r.pdf.GetMargins()

	r.tableHeader(t.Header)
	for _, row := range t.Rows {
		if r.pdf.GetY()+rowHeight > pageHeight-bottom {
			r.pdf.AddPage()
			r.tableHeader(t.Header)
		}
		r.pdf.SetFont(fontFamily, "", 7)
		r.pdf.SetTextColor(0, 0, 0)
		r.pdf.SetFillColor(245, 245, 220)
		for i, cell := range row {
			r.pdf.CellFormat(columnWidths[i], rowHeight, r.fit(cell, columnWidths[i]), "1", 0, "C", true, 0, "")
		}
		r.pdf.Ln(-1)
	}
}

func (r *renderer) tableHeader(header []string) {
	r.pdf.SetFont(fontFamily, "B", 8)
	r.pdf.SetTextColor(245, 245, 245)
	r.pdf.SetFillColor(128, 128, 128)
	r.pdf.SetDrawColor(0, 0, 0)
	for i, h := range header {
		r.pdf.CellFormat(columnWidths[i], rowHeight+2, r.tr(h), "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
}

// fit shortens text that would overflow a cell of width w.
func (r *renderer) fit(text string, w float64) string {
	s := r.tr(text)
	for len(s) > 1 && r.pdf.GetStringWidth(s) > w-2 {
		s = s[:len(s)-2] + "~"
	}
	return s
}
