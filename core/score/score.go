// Package score holds the shared scoring rubric that judges every table
// candidate, the reducer that picks the best one, and the option-list
// alignment gate.
package score

import (
	"strconv"

	"github.com/daye-p/sizepipe/core"
	"github.com/daye-p/sizepipe/core/label"
	"github.com/daye-p/sizepipe/core/normalize"
)

// Rubric weights. Like the orientation weights, the relative ordering is
// what matters; exact values are calibration parameters.
const (
	weightSizeHeader     = 3
	weightMeasurementRow = 3
	weightHintedRow      = 2
	mixedHeaderPenalty   = 5
)

// Candidate scores a standardized table. Negative means reject: too small
// (under 3 headers x 1 row), no recognizable measurement row, or too many
// value cells outside the plausible 0-400 range.
func Candidate(t core.SizeTable) int {
	if len(t.Headers) < 3 || len(t.Rows) < 1 {
		return -1
	}

	measRows, hintedRows := 0, 0
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		switch {
		case label.IsMeasurementLabel(row[0]):
			measRows++
		case label.IsMeasurementLabelLoose(row[0]):
			hintedRows++
		}
	}
	if measRows+hintedRows == 0 {
		return -1
	}
	if !valuesPlausible(t) {
		return -1
	}

	sizeHeaders, alphaHeaders, numericHeaders := 0, 0, 0
	for _, h := range t.Headers[1:] {
		if !label.IsSizeLabel(h) {
			continue
		}
		sizeHeaders++
		if _, err := strconv.ParseFloat(label.ComparableSizeLabel(h), 64); err == nil {
			numericHeaders++
		} else {
			alphaHeaders++
		}
	}

	score := sizeHeaders*weightSizeHeader +
		measRows*weightMeasurementRow +
		hintedRows*weightHintedRow +
		len(t.Rows)
	// Mixing alpha (M) and numeric (95) size conventions in one header
	// row is a sign of parser confusion.
	if alphaHeaders > 0 && numericHeaders > 0 {
		score -= mixedHeaderPenalty
	}
	return score
}

// Pick reduces all extractor outputs for one source to the single
// highest-scoring non-negative candidate. Ties break on extractor
// priority: HTML tables > embedded JSON > free text.
func Pick(candidates []core.TableCandidate) *core.SizeTable {
	best := -1
	bestPriority := -1
	var picked *core.SizeTable
	for i := range candidates {
		c := &candidates[i]
		s := Candidate(c.Table)
		if s < 0 {
			continue
		}
		s += c.Boost
		if s > best || (s == best && c.Priority > bestPriority) {
			best = s
			bestPriority = c.Priority
			t := c.Table.Clone()
			picked = &t
		}
	}
	return picked
}

// valuesPlausible checks that at least half of the numeric-looking value
// cells fall in the 0-400 range a cm-denominated garment chart allows.
func valuesPlausible(t core.SizeTable) bool {
	numeric, inRange := 0, 0
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		for _, cell := range row[1:] {
			v, err := strconv.ParseFloat(normalize.Cell(cell), 64)
			if err != nil {
				continue
			}
			numeric++
			if v >= 0 && v <= 400 {
				inRange++
			}
		}
	}
	if numeric == 0 {
		return true
	}
	return inRange*2 >= numeric
}
