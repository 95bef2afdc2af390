package extract

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/daye-p/sizepipe/core"
	"github.com/daye-p/sizepipe/core/label"
	"github.com/daye-p/sizepipe/core/normalize"
	"github.com/daye-p/sizepipe/core/score"
	tbl "github.com/daye-p/sizepipe/core/table"
	"github.com/kaptinlin/jsonrepair"
)

const structuredExtractorName = "embedded-json"

// maxVisitedNodes bounds the JSON tree walk so adversarial or huge
// page-state payloads cannot dominate a request.
const maxVisitedNodes = 3000

// sizeKeyNameRe marks object keys that name the size column.
var sizeKeyNameRe = regexp.MustCompile(`(?i)^(size|사이즈|호칭|option)s?$`)

// Structured walks arbitrary JSON trees (raw payloads or page-state
// embedded in <script> tags) looking for size-table shapes: explicit
// {headers, rows} objects, arrays of arrays, arrays of objects with a
// size-labeled key, and size-keyed measurement maps.
type Structured struct{}

// NewStructured creates a Structured extractor.
func NewStructured() *Structured {
	return &Structured{}
}

// Name identifies this extractor in candidate provenance.
func (e *Structured) Name() string { return structuredExtractorName }

// Priority ranks embedded JSON below HTML tables but above free text.
func (e *Structured) Priority() int { return 2 }

// Extract walks every JSON payload found in src and keeps only the single
// best-scoring candidate across all of them.
func (e *Structured) Extract(src string) []core.TableCandidate {
	payloads := jsonPayloads(src)
	if len(payloads) == 0 {
		return nil
	}

	budget := maxVisitedNodes
	bestScore := -1
	var best *core.SizeTable
	for _, payload := range payloads {
		for _, raw := range walkForTables(payload, &budget) {
			std := tbl.Standardize(raw)
			if std == nil {
				continue
			}
			if s := score.Candidate(*std); s > bestScore {
				bestScore = s
				best = std
			}
		}
	}
	if best == nil || bestScore < 0 {
		return nil
	}
	return []core.TableCandidate{{
		Table:    *best,
		Source:   structuredExtractorName,
		Priority: e.Priority(),
	}}
}

// FromValue finds the best size table inside an already-decoded JSON
// value (e.g. a vision model's structured reply). Returns nil when no
// plausible table is found.
func FromValue(v any) *core.SizeTable {
	budget := maxVisitedNodes
	bestScore := -1
	var best *core.SizeTable
	for _, raw := range walkForTables(v, &budget) {
		std := tbl.Standardize(raw)
		if std == nil {
			continue
		}
		if s := score.Candidate(*std); s > bestScore {
			bestScore = s
			best = std
		}
	}
	if bestScore < 0 {
		return nil
	}
	return best
}

// FromJSONText decodes text (repairing malformed JSON) and finds the
// best size table inside it.
func FromJSONText(text string) *core.SizeTable {
	v, ok := decodeJSON(text)
	if !ok {
		return nil
	}
	return FromValue(v)
}

// jsonPayloads decodes src as JSON directly, repairing it when malformed,
// or pulls candidate payloads out of <script> tags when src is markup.
func jsonPayloads(src string) []any {
	if v, ok := decodeJSON(src); ok {
		return []any{v}
	}
	if !strings.Contains(src, "<script") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil
	}
	var payloads []any
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) < 2 {
			return
		}
		// Tolerate assignment prefixes like "window.__STATE__ = {...};".
		if i := strings.IndexAny(text, "{["); i > 0 {
			text = strings.TrimSuffix(strings.TrimSpace(text[i:]), ";")
		}
		if v, ok := decodeJSON(text); ok {
			payloads = append(payloads, v)
		}
	})
	return payloads
}

func decodeJSON(text string) (any, bool) {
	text = strings.TrimSpace(text)
	if len(text) == 0 || (text[0] != '{' && text[0] != '[') {
		return nil, false
	}
	// A decoder stops after the first value, tolerating trailing ";".
	var v any
	if err := json.NewDecoder(strings.NewReader(text)).Decode(&v); err == nil {
		return v, true
	}
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return nil, false
	}
	return v, true
}

// walkForTables is a bounded depth-first walk over a decoded JSON tree.
// The budget counter is shared across payloads of one extraction.
func walkForTables(root any, budget *int) []core.SizeTable {
	var found []core.SizeTable
	stack := []any{root}
	for len(stack) > 0 && *budget > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		*budget--

		switch v := node.(type) {
		case map[string]any:
			if t, ok := tableFromHeadersRows(v); ok {
				found = append(found, t)
			} else if t, ok := tableFromSizeKeyedMap(v); ok {
				found = append(found, t)
			}
			for _, key := range sortedKeys(v) {
				stack = append(stack, v[key])
			}
		case []any:
			if t, ok := tableFromMatrix(v); ok {
				found = append(found, t)
			} else if t, ok := tableFromObjectRows(v); ok {
				found = append(found, t)
			}
			for _, item := range v {
				stack = append(stack, item)
			}
		}
	}
	return found
}

// tableFromHeadersRows matches already-shaped {headers, rows} objects.
func tableFromHeadersRows(m map[string]any) (core.SizeTable, bool) {
	headers, ok := scalarSlice(m["headers"])
	if !ok || len(headers) == 0 {
		return core.SizeTable{}, false
	}
	rawRows, ok := m["rows"].([]any)
	if !ok || len(rawRows) == 0 {
		return core.SizeTable{}, false
	}
	var rows [][]string
	for _, r := range rawRows {
		row, ok := scalarSlice(r)
		if !ok {
			return core.SizeTable{}, false
		}
		rows = append(rows, row)
	}
	return core.SizeTable{Headers: headers, Rows: rows}, true
}

// tableFromMatrix matches arrays of arrays, treating row 0 as headers.
// A header row plus one data row is enough; the rubric gates the rest.
func tableFromMatrix(arr []any) (core.SizeTable, bool) {
	if len(arr) < 2 {
		return core.SizeTable{}, false
	}
	var matrix [][]string
	for _, r := range arr {
		row, ok := scalarSlice(r)
		if !ok || len(row) < 2 {
			return core.SizeTable{}, false
		}
		matrix = append(matrix, row)
	}
	return core.SizeTable{Headers: matrix[0], Rows: matrix[1:]}, true
}

// tableFromObjectRows matches arrays of objects where one common key's
// values are mostly size labels and other common keys are mostly numeric.
func tableFromObjectRows(arr []any) (core.SizeTable, bool) {
	if len(arr) < 2 {
		return core.SizeTable{}, false
	}
	objs := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			return core.SizeTable{}, false
		}
		objs = append(objs, obj)
	}

	// Plain measurement columns are numeric too, so numeric size-label
	// hits alone cannot identify the size column. Alpha labels (S, M, L)
	// and a size-ish key name break the tie.
	common := commonKeys(objs)
	sizeKey := ""
	bestRank := 0
	for _, key := range common {
		hits, alphaHits := 0, 0
		for _, obj := range objs {
			v := stringifyScalar(obj[key])
			if !label.IsSizeLabel(v) {
				continue
			}
			hits++
			if _, err := strconv.ParseFloat(label.ComparableSizeLabel(v), 64); err != nil {
				alphaHits++
			}
		}
		if hits*3 < len(objs)*2 {
			continue
		}
		rank := hits + alphaHits
		if sizeKeyNameRe.MatchString(key) {
			rank += 2 * len(objs)
		}
		if rank > bestRank {
			sizeKey = key
			bestRank = rank
		}
	}
	if sizeKey == "" {
		return core.SizeTable{}, false
	}

	headers := []string{label.ItemLabel}
	for _, obj := range objs {
		headers = append(headers, stringifyScalar(obj[sizeKey]))
	}

	var rows [][]string
	for _, key := range common {
		if key == sizeKey {
			continue
		}
		numeric := 0
		row := []string{key}
		for _, obj := range objs {
			v := stringifyScalar(obj[key])
			if _, err := strconv.ParseFloat(v, 64); err == nil {
				numeric++
			}
			row = append(row, v)
		}
		if numeric*2 >= len(objs) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return core.SizeTable{}, false
	}
	return core.SizeTable{Headers: headers, Rows: rows}, true
}

// tableFromSizeKeyedMap matches objects keyed by size label whose values
// are measurement→number maps.
func tableFromSizeKeyedMap(m map[string]any) (core.SizeTable, bool) {
	if len(m) < 2 {
		return core.SizeTable{}, false
	}
	sizes := make([]string, 0, len(m))
	inner := make(map[string]map[string]any, len(m))
	sizeHits := 0
	for key, v := range m {
		obj, ok := v.(map[string]any)
		if !ok || len(obj) == 0 {
			return core.SizeTable{}, false
		}
		if label.IsSizeLabel(key) {
			sizeHits++
		}
		sizes = append(sizes, key)
		inner[key] = obj
	}
	if sizeHits*3 < len(m)*2 {
		return core.SizeTable{}, false
	}
	sortSizeLabels(sizes)

	// Measurement rows in a deterministic order: canonical rank first,
	// then lexical.
	var measurements []string
	seen := map[string]bool{}
	for _, size := range sizes {
		for name := range inner[size] {
			if !seen[name] {
				seen[name] = true
				measurements = append(measurements, name)
			}
		}
	}
	sort.SliceStable(measurements, func(i, j int) bool {
		ri, rj := measurementRank(measurements[i]), measurementRank(measurements[j])
		if ri != rj {
			return ri < rj
		}
		return measurements[i] < measurements[j]
	})

	headers := append([]string{label.ItemLabel}, sizes...)
	var rows [][]string
	for _, name := range measurements {
		row := []string{name}
		numeric := 0
		for _, size := range sizes {
			v := stringifyScalar(inner[size][name])
			if _, err := strconv.ParseFloat(v, 64); err == nil {
				numeric++
			}
			row = append(row, v)
		}
		if numeric*2 >= len(sizes) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return core.SizeTable{}, false
	}
	return core.SizeTable{Headers: headers, Rows: rows}, true
}

func scalarSlice(v any) ([]string, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		switch item.(type) {
		case string, float64, nil:
			out = append(out, stringifyScalar(item))
		default:
			return nil, false
		}
	}
	return out, true
}

func stringifyScalar(v any) string {
	switch s := v.(type) {
	case string:
		return normalize.Cell(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func commonKeys(objs []map[string]any) []string {
	counts := map[string]int{}
	for _, obj := range objs {
		for key := range obj {
			counts[key]++
		}
	}
	var keys []string
	for key, n := range counts {
		if n == len(objs) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

var alphaSizeRank = map[string]int{
	"XXS": 0, "XS": 1, "S": 2, "M": 3, "L": 4,
	"XL": 5, "XXL": 6, "2XL": 6, "XXXL": 7, "3XL": 7,
	"FREE": 8, "ONE SIZE": 8,
}

// sortSizeLabels orders numerics ascending and alpha sizes XXS..XXXL.
func sortSizeLabels(sizes []string) {
	sort.SliceStable(sizes, func(i, j int) bool {
		a, b := label.ComparableSizeLabel(sizes[i]), label.ComparableSizeLabel(sizes[j])
		na, aerr := strconv.ParseFloat(a, 64)
		nb, berr := strconv.ParseFloat(b, 64)
		if aerr == nil && berr == nil {
			return na < nb
		}
		ra, aok := alphaSizeRank[a]
		rb, bok := alphaSizeRank[b]
		if aok && bok {
			return ra < rb
		}
		return a < b
	})
}

var canonicalMeasurementOrder = []string{
	label.TotalLength, label.Shoulder, label.Chest, label.Sleeve,
	label.Waist, label.Hip, label.Thigh, label.Rise, label.Hem, label.Armhole,
}

func measurementRank(name string) int {
	canon := label.NormalizeMeasurement(name)
	for i, c := range canonicalMeasurementOrder {
		if canon == c {
			return i
		}
	}
	return len(canonicalMeasurementOrder)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
