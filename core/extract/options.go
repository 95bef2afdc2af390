package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/daye-p/sizepipe/core/label"
	"github.com/daye-p/sizepipe/core/normalize"
)

// Placeholder entries that appear in option lists but name no size.
var optionPlaceholders = map[string]bool{
	"사이즈":    true,
	"사이즈선택":  true,
	"옵션선택":   true,
	"선택":     true,
	"필수선택":   true,
	"select": true,
	"size":   true,
}

// SizeOptions scrapes the size option labels a page actually offers from
// its buy-box controls (<select> options, size swatch buttons and lists).
// The returned labels are ground truth for table alignment.
func SizeOptions(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var options []string
	seen := map[string]bool{}
	add := func(_ int, sel *goquery.Selection) {
		text := normalize.Cell(sel.Text())
		if text == "" || optionPlaceholders[normalize.AliasKey(text)] {
			return
		}
		comp := label.ComparableSizeLabel(text)
		if comp == "" || !label.IsSizeLabel(comp) || seen[comp] {
			return
		}
		seen[comp] = true
		options = append(options, text)
	}

	doc.Find("select option").Each(add)
	doc.Find("[class*='size'] button, [class*='size'] li, button[class*='size'], li[class*='size']").Each(add)
	return options
}
