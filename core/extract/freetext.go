package extract

import (
	"regexp"
	"slices"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/daye-p/sizepipe/core"
	"github.com/daye-p/sizepipe/core/label"
	"github.com/daye-p/sizepipe/core/normalize"
	"github.com/daye-p/sizepipe/core/score"
	tbl "github.com/daye-p/sizepipe/core/table"
)

const freeTextExtractorName = "free-text"

var (
	// [95] 가슴:52/어깨:45 ... grouped by bracketed size index.
	indexedGroupRe = regexp.MustCompile(`\[\s*([A-Za-z0-9 ]{1,8})\s*\]([^\[]+)`)
	labelValueRe   = regexp.MustCompile(`([가-힣A-Za-z][가-힣A-Za-z ]{0,15})\s*[:：]\s*(\d{1,3}(?:\.\d+)?)`)

	// size(어깨/가슴/총장) header-block form.
	headerBlockRe = regexp.MustCompile(`(?i)(?:size|사이즈)\s*[(（]([^)）]+)[)）]`)
	sizeValuesRe  = regexp.MustCompile(`(?i)^\s*\*?\s*([A-Za-z0-9 /]{1,10})\s*[:：]\s*([\d./ ]+)$`)

	// Bare "size S M L" header line.
	// No \b after 사이즈: Korean runes are not word characters in RE2,
	// so a boundary there never matches.
	sizeHeaderRe = regexp.MustCompile(`(?i)^\s*(?:size\b|사이즈)\s*[:：]?\s*(.+)$`)

	// Material/shipping/detail vocabulary ends a measurement block.
	boundaryRe = regexp.MustCompile(`소재|재질|혼용|배송|세탁|교환|반품|상세\s*정보|^\s*\\?\*`)

	sizeTokenSplitRe = regexp.MustCompile(`[\s/,·]+`)
	valueSplitRe     = regexp.MustCompile(`[\s/]+`)
	numericValueRe   = regexp.MustCompile(`^\d{1,3}(\.\d+)?$`)
)

// FreeText recognizes loosely formatted size charts in markup-stripped
// text. Markup input is converted to text first. Patterns are tried in
// priority order; every successful match is standardized and scored, and
// the best match wins.
type FreeText struct{}

// NewFreeText creates a FreeText extractor.
func NewFreeText() *FreeText {
	return &FreeText{}
}

// Name identifies this extractor in candidate provenance.
func (e *FreeText) Name() string { return freeTextExtractorName }

// Priority ranks free text as the least structurally reliable source.
func (e *FreeText) Priority() int { return 1 }

// Extract runs the pattern families over the text form of src and keeps
// the single best-scoring match.
func (e *FreeText) Extract(src string) []core.TableCandidate {
	text := asText(src)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var raws []core.SizeTable
	raws = append(raws, indexedRows(text)...)
	raws = append(raws, sizeRunBlock(text)...)
	raws = append(raws, headerBlock(text)...)
	raws = append(raws, bareSizeHeader(text)...)

	bestScore := -1
	var best *core.SizeTable
	for _, raw := range raws {
		std := tbl.Standardize(raw)
		if std == nil {
			continue
		}
		if s := score.Candidate(*std); s > bestScore {
			bestScore = s
			best = std
		}
	}
	if best == nil || bestScore < 0 {
		return nil
	}
	return []core.TableCandidate{{
		Table:    *best,
		Source:   freeTextExtractorName,
		Priority: e.Priority(),
	}}
}

// asText strips markup by converting to Markdown; raw text passes through.
func asText(src string) string {
	if !strings.Contains(src, "<") || !strings.Contains(src, ">") {
		return src
	}
	text, err := htmltomarkdown.ConvertString(src)
	if err != nil {
		return src
	}
	return text
}

// indexedRows handles "[95] 가슴:52/어깨:45" groups keyed by bracketed size.
func indexedRows(text string) []core.SizeTable {
	var sizes []string
	perSize := map[string]map[string]string{}
	var labelOrder []string

	for _, m := range indexedGroupRe.FindAllStringSubmatch(text, -1) {
		size := normalize.Cell(m[1])
		if !label.IsSizeLabel(size) {
			continue
		}
		pairs := labelValueRe.FindAllStringSubmatch(m[2], -1)
		if len(pairs) == 0 {
			continue
		}
		if _, ok := perSize[size]; !ok {
			sizes = append(sizes, size)
			perSize[size] = map[string]string{}
		}
		for _, p := range pairs {
			name := normalize.Cell(p[1])
			if _, seen := perSize[size][name]; !seen {
				perSize[size][name] = p[2]
			}
			if !slices.Contains(labelOrder, name) {
				labelOrder = append(labelOrder, name)
			}
		}
	}
	if len(sizes) == 0 || len(labelOrder) == 0 {
		return nil
	}

	headers := append([]string{label.ItemLabel}, sizes...)
	var rows [][]string
	for _, name := range labelOrder {
		row := []string{name}
		for _, size := range sizes {
			row = append(row, perSize[size][name])
		}
		rows = append(rows, row)
	}
	return []core.SizeTable{{Headers: headers, Rows: rows}}
}

// sizeRunBlock handles a run of 2+ size tokens followed by a body of
// "label: v1/v2/..." lines, stopped at a boundary pattern.
func sizeRunBlock(text string) []core.SizeTable {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		sizes := sizeTokenRun(line)
		if len(sizes) < 2 {
			continue
		}

		var rows [][]string
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) == "" {
				continue
			}
			if boundaryRe.MatchString(next) {
				break
			}
			m := labelValueRe.FindStringSubmatch(next)
			if m == nil {
				if len(rows) > 0 {
					break
				}
				continue
			}
			rest := next[strings.Index(next, m[2]):]
			values := splitValues(rest)
			if len(values) != len(sizes) {
				continue
			}
			rows = append(rows, append([]string{normalize.Cell(m[1])}, values...))
		}
		if len(rows) == 0 {
			continue
		}
		return []core.SizeTable{{
			Headers: append([]string{label.ItemLabel}, sizes...),
			Rows:    rows,
		}}
	}
	return nil
}

// headerBlock handles "size(어깨/가슴/총장)" followed by "95: 45/52/70"
// lines. The raw table carries sizes in rows; standardization transposes.
func headerBlock(text string) []core.SizeTable {
	m := headerBlockRe.FindStringSubmatchIndex(text)
	if m == nil {
		return nil
	}
	names := strings.Split(text[m[2]:m[3]], "/")
	for i := range names {
		names[i] = normalize.Cell(names[i])
	}
	if len(names) < 2 {
		return nil
	}

	var rows [][]string
	for _, line := range strings.Split(text[m[1]:], "\n") {
		sv := sizeValuesRe.FindStringSubmatch(line)
		if sv == nil {
			continue
		}
		size := normalize.Cell(sv[1])
		if !label.IsSizeLabel(size) {
			continue
		}
		values := splitValues(sv[2])
		if len(values) != len(names) {
			continue
		}
		rows = append(rows, append([]string{size}, values...))
	}
	if len(rows) == 0 {
		return nil
	}
	return []core.SizeTable{{
		Headers: append([]string{"사이즈"}, names...),
		Rows:    rows,
	}}
}

// bareSizeHeader handles a "size S M L" header followed by loosely
// formatted "label 40 42 44" lines.
func bareSizeHeader(text string) []core.SizeTable {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		hm := sizeHeaderRe.FindStringSubmatch(line)
		if hm == nil {
			continue
		}
		sizes := sizeTokenRun(hm[1])
		if len(sizes) < 2 {
			continue
		}

		var rows [][]string
		for _, next := range lines[i+1:] {
			fields := strings.Fields(next)
			if len(fields) != len(sizes)+1 {
				if len(rows) > 0 {
					break
				}
				continue
			}
			if !label.IsMeasurementLabelLoose(fields[0]) {
				continue
			}
			if !allNumeric(fields[1:]) {
				continue
			}
			rows = append(rows, fields)
		}
		if len(rows) == 0 {
			continue
		}
		return []core.SizeTable{{
			Headers: append([]string{label.ItemLabel}, sizes...),
			Rows:    rows,
		}}
	}
	return nil
}

// sizeTokenRun returns the size tokens of a line when every token is a
// size label (an optional leading size/사이즈 word is ignored).
func sizeTokenRun(line string) []string {
	s := strings.TrimSpace(line)
	if hm := sizeHeaderRe.FindStringSubmatch(s); hm != nil {
		s = hm[1]
	}
	tokens := sizeTokenSplitRe.Split(strings.TrimSpace(s), -1)
	var sizes []string
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if !label.IsSizeLabel(tok) {
			return nil
		}
		sizes = append(sizes, normalize.Cell(tok))
	}
	return sizes
}

func splitValues(s string) []string {
	var values []string
	for _, v := range valueSplitRe.Split(strings.TrimSpace(s), -1) {
		if v == "" {
			continue
		}
		values = append(values, strings.TrimSuffix(v, "."))
	}
	return values
}

func allNumeric(fields []string) bool {
	for _, f := range fields {
		if !numericValueRe.MatchString(f) {
			return false
		}
	}
	return true
}
