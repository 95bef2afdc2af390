// Package extract implements the table candidate extractors. Each
// extractor independently proposes zero or more standardized size tables
// from a different substrate: HTML <table> markup, embedded JSON
// page-state, or free-form text. Malformed input yields no candidates,
// never an error.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/daye-p/sizepipe/core"
	tbl "github.com/daye-p/sizepipe/core/table"
)

const htmlExtractorName = "html-table"

// sizeVocabRe marks markup that surrounds an actual size chart rather
// than a layout or navigation table.
var sizeVocabRe = regexp.MustCompile(`(?i)사이즈|size|실측|치수|단면|측정|cm`)

// HTMLTables proposes a candidate for every <table> element whose parsed
// rows survive standardization.
type HTMLTables struct{}

// NewHTMLTables creates an HTMLTables extractor.
func NewHTMLTables() *HTMLTables {
	return &HTMLTables{}
}

// Name identifies this extractor in candidate provenance.
func (e *HTMLTables) Name() string { return htmlExtractorName }

// Priority ranks HTML tables as the most structurally reliable source.
func (e *HTMLTables) Priority() int { return 3 }

// Extract parses every <table> block, treating the first row as headers.
// Tables without at least a header row and one data row are rejected;
// tables surrounded by size vocabulary get a scoring boost.
func (e *HTMLTables) Extract(src string) []core.TableCandidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil
	}

	var candidates []core.TableCandidate
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		var headers []string
		var rows [][]string

		sel.Find("tr").Each(func(i int, tr *goquery.Selection) {
			var cells []string
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, cell.Text())
			})
			if len(cells) == 0 {
				return
			}
			if i == 0 {
				headers = cells
			} else {
				rows = append(rows, cells)
			}
		})

		if len(headers) == 0 || len(rows) == 0 {
			return
		}
		std := tbl.Standardize(core.SizeTable{Headers: headers, Rows: rows})
		if std == nil {
			return
		}

		boost := 0
		if surroundedBySizeVocab(sel) {
			boost = 2
		}
		candidates = append(candidates, core.TableCandidate{
			Table:    *std,
			Source:   htmlExtractorName,
			Priority: e.Priority(),
			Boost:    boost,
		})
	})
	return candidates
}

func surroundedBySizeVocab(sel *goquery.Selection) bool {
	parent := sel.Parent()
	if parent.Length() == 0 {
		return false
	}
	markup, err := goquery.OuterHtml(parent)
	if err != nil {
		return false
	}
	return sizeVocabRe.MatchString(markup)
}
