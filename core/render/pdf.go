// Package render — PDF renderer.
// Lays the size table out as a bordered grid using gofpdf. The core PDF
// fonts cover latin-1 only, so canonical Korean labels are rendered by
// their English names.
package render

import (
	"bytes"

	"github.com/daye-p/sizepipe/core"
	"github.com/daye-p/sizepipe/core/label"
	"github.com/jung-kurt/gofpdf"
)

// latinLabels substitutes canonical Korean labels for PDF output.
var latinLabels = map[string]string{
	label.ItemLabel:   "Item",
	label.TotalLength: "Total length",
	label.Shoulder:    "Shoulder",
	label.Chest:       "Chest",
	label.Sleeve:      "Sleeve",
	label.Waist:       "Waist",
	label.Hip:         "Hip",
	label.Thigh:       "Thigh",
	label.Rise:        "Rise",
	label.Hem:         "Hem",
	label.Armhole:     "Armhole",
}

// PDFRenderer renders a size table as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render draws the table grid with a title and source line.
func (r *PDFRenderer) Render(table core.SizeTable, meta core.ExtractionMeta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.MultiCell(0, 8, latinize(meta.Title), "", "L", false)
		pdf.Ln(2)
	}
	if meta.URL != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, "Source: "+meta.URL, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	if len(table.Headers) == 0 {
		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(table.Headers))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for _, h := range table.Headers {
		pdf.CellFormat(colWidth, 8, latinize(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range table.Rows {
		for i, cell := range row {
			align := "C"
			text := cell
			if i == 0 {
				align = "L"
				text = latinize(cell)
			}
			pdf.CellFormat(colWidth, 7, text, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// latinize swaps known Korean labels for their English names and drops
// runes the core fonts cannot encode.
func latinize(s string) string {
	if en, ok := latinLabels[s]; ok {
		return en
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r < 0x100 {
			out = append(out, r)
		}
	}
	return string(out)
}
