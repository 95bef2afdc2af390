package score

import (
	"strconv"

	"github.com/daye-p/sizepipe/core"
	"github.com/daye-p/sizepipe/core/label"
	"github.com/daye-p/sizepipe/core/normalize"
)

// AlignWithOptions re-projects a table's size columns onto the size
// options the product page actually offers. This is the strictest gate in
// the pipeline: it catches vision extractions that hallucinated size
// labels. A nil return rejects the whole table.
//
// Sequential numeric headers (0,1,2,...) matching the option count are
// replaced wholesale; otherwise columns are matched by normalized label
// equality and reordered/filtered to the intersection. Matching fails
// with fewer than 2 matches (for small tables, fewer than half the
// smaller side) or when over 40% of columns stay unmatched.
func AlignWithOptions(t core.SizeTable, options []string) *core.SizeTable {
	if len(t.Headers) < 2 {
		return nil
	}
	options = dedupeOptions(options)
	if len(options) == 0 {
		return nil
	}
	sizeHeaders := t.Headers[1:]

	if isSequentialNumeric(sizeHeaders) && len(sizeHeaders) == len(options) {
		out := t.Clone()
		for i, opt := range options {
			out.Headers[i+1] = normalize.Cell(opt)
		}
		return &out
	}

	// Column index per comparable header label.
	colByLabel := map[string]int{}
	for i, h := range sizeHeaders {
		comp := label.ComparableSizeLabel(h)
		if comp == "" {
			continue
		}
		if _, dup := colByLabel[comp]; !dup {
			colByLabel[comp] = i + 1
		}
	}

	type match struct {
		col   int
		label string
	}
	var matches []match
	taken := map[int]bool{}
	for _, opt := range options {
		col, ok := colByLabel[label.ComparableSizeLabel(opt)]
		if !ok || taken[col] {
			continue
		}
		taken[col] = true
		matches = append(matches, match{col: col, label: normalize.Cell(opt)})
	}

	smaller := len(sizeHeaders)
	if len(options) < smaller {
		smaller = len(options)
	}
	need := 2
	if smaller < 4 {
		need = (smaller + 1) / 2
	}
	if len(matches) < need {
		return nil
	}
	unmatched := len(sizeHeaders) - len(matches)
	if float64(unmatched) > 0.4*float64(len(sizeHeaders)) {
		return nil
	}

	out := core.SizeTable{Headers: []string{t.Headers[0]}}
	for _, m := range matches {
		out.Headers = append(out.Headers, m.label)
	}
	for _, row := range t.Rows {
		newRow := []string{row[0]}
		for _, m := range matches {
			if m.col < len(row) {
				newRow = append(newRow, row[m.col])
			} else {
				newRow = append(newRow, "")
			}
		}
		out.Rows = append(out.Rows, newRow)
	}
	return &out
}

// isSequentialNumeric reports headers of the exact form 0,1,2,... —
// the index-style headers a vision extraction emits when the chart image
// carried no size labels at all.
func isSequentialNumeric(headers []string) bool {
	if len(headers) == 0 {
		return false
	}
	for i, h := range headers {
		n, err := strconv.Atoi(normalize.Cell(h))
		if err != nil || n != i {
			return false
		}
	}
	return true
}

func dedupeOptions(options []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, opt := range options {
		comp := label.ComparableSizeLabel(opt)
		if comp == "" || seen[comp] {
			continue
		}
		seen[comp] = true
		out = append(out, opt)
	}
	return out
}
