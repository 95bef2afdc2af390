// Package table makes raw size tables rectangular, detects and corrects
// transposed orientation, and canonicalizes headers and row labels.
package table

import (
	"regexp"
	"strings"

	"github.com/daye-p/sizepipe/core"
	"github.com/daye-p/sizepipe/core/label"
	"github.com/daye-p/sizepipe/core/normalize"
)

// Orientation scoring weights. Empirically tuned; the relative ordering
// matters (size labels in columns and measurement labels in rows dominate),
// the exact values are calibration parameters.
const (
	weightSizeInColumns        = 4
	weightMeasurementInRows    = 4
	weightSizeInRows           = -4
	weightMeasurementInColumns = -3
	weightNumericRowHeader     = -2
)

var bareNumericRe = regexp.MustCompile(`^\d{1,3}$`)

// RectangularRows pads short rows with empty cells and truncates long
// ones so every row has exactly width columns.
func RectangularRows(rows [][]string, width int) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		r := make([]string, width)
		copy(r, row)
		out[i] = r
	}
	return out
}

// Transpose flips a table across its diagonal, treating the header as the
// first matrix row and zero-padding to the widest row first. Degenerate
// input yields an empty table.
func Transpose(t core.SizeTable) core.SizeTable {
	width := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	height := 1 + len(t.Rows)
	if width == 0 || len(t.Headers)+len(t.Rows) == 0 {
		return core.SizeTable{Headers: []string{}, Rows: [][]string{}}
	}

	matrix := make([][]string, 0, height)
	matrix = append(matrix, padded(t.Headers, width))
	for _, row := range t.Rows {
		matrix = append(matrix, padded(row, width))
	}

	flipped := make([][]string, width)
	for i := 0; i < width; i++ {
		flipped[i] = make([]string, height)
		for j := 0; j < height; j++ {
			flipped[i][j] = matrix[j][i]
		}
	}
	return core.SizeTable{Headers: flipped[0], Rows: flipped[1:]}
}

// OrientationScore evaluates whether sizes run along columns (positive)
// or rows (negative). Bare 2-3 digit first cells are a strong signal of
// wrong orientation: sizes are rarely naked numbers in the label column.
func OrientationScore(t core.SizeTable) int {
	score := 0
	for _, h := range headerTail(t.Headers) {
		if label.IsSizeLabel(h) {
			score += weightSizeInColumns
		}
		if label.IsMeasurementLabelLoose(h) {
			score += weightMeasurementInColumns
		}
	}
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		first := row[0]
		if label.IsSizeLabel(first) {
			score += weightSizeInRows
		}
		if label.IsMeasurementLabelLoose(first) {
			score += weightMeasurementInRows
		}
		if bareNumericRe.MatchString(normalize.Cell(first)) {
			score += weightNumericRowHeader
		}
	}
	return score
}

// Standardize is the entry point: it normalizes cells, picks the
// better-scoring orientation (ties favor the table as given), forces the
// canonical item header, uppercases size headers, canonicalizes row
// labels, and pins the total-length row first. Returns nil when the input
// is degenerate.
func Standardize(raw core.SizeTable) *core.SizeTable {
	t := normalizeCells(raw)
	if len(t.Headers) == 0 && len(t.Rows) == 0 {
		return nil
	}

	if flipped := Transpose(t); OrientationScore(flipped) > OrientationScore(t) {
		t = flipped
	}
	if len(t.Headers) == 0 {
		return nil
	}

	t.Rows = RectangularRows(t.Rows, len(t.Headers))
	t.Headers[0] = label.ItemLabel
	for i := 1; i < len(t.Headers); i++ {
		t.Headers[i] = strings.ToUpper(t.Headers[i])
	}
	for _, row := range t.Rows {
		row[0] = label.NormalizeMeasurement(row[0])
	}
	t.Rows = SortMeasurementRows(t.Rows)
	return &t
}

// SortMeasurementRows moves the total-length row to index 0 if present.
// Other rows keep their relative order; total length is conventionally
// the first measurement shown.
func SortMeasurementRows(rows [][]string) [][]string {
	if len(rows) > 0 && len(rows[0]) > 0 && label.NormalizeMeasurement(rows[0][0]) == label.TotalLength {
		return rows
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if label.NormalizeMeasurement(row[0]) == label.TotalLength {
			out := make([][]string, 0, len(rows))
			out = append(out, row)
			out = append(out, rows[:i]...)
			out = append(out, rows[i+1:]...)
			return out
		}
	}
	return rows
}

func normalizeCells(t core.SizeTable) core.SizeTable {
	out := core.SizeTable{Headers: make([]string, len(t.Headers))}
	for i, h := range t.Headers {
		out.Headers[i] = normalize.Cell(h)
	}
	out.Rows = make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		r := make([]string, len(row))
		for j, c := range row {
			r[j] = normalize.Cell(c)
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

func headerTail(headers []string) []string {
	if len(headers) <= 1 {
		return nil
	}
	return headers[1:]
}

func padded(row []string, width int) []string {
	r := make([]string, width)
	copy(r, row)
	return r
}
