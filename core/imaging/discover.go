// Package imaging discovers image URL candidates on scraped pages, scores
// them per role (product photo vs size-chart image), and sniffs binary
// image dimensions without a decoding library.
package imaging

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/daye-p/sizepipe/core"
)

// lazyLoadAttrs are the img attributes lazy-load libraries stash the real
// URL in, tried after src.
var lazyLoadAttrs = []string{
	"data-src", "data-original", "data-lazy-src", "data-lazy",
	"data-echo", "data-url", "data-image", "data-img",
	"data-zoom-image", "data-large-image", "data-origin", "ec-data-src",
}

var imageExtRe = regexp.MustCompile(`(?i)\.(png|jpe?g|webp|gif|svg|bmp)(\?|$)`)

// imageKeyRe marks JSON property names that plausibly hold an image URL.
var imageKeyRe = regexp.MustCompile(`(?i)^(image|img|imageurl|imgurl|originimage|thumbnail|thumb|photo|picture|src)s?$`)

// maxJSONImageNodes bounds the generic JSON walk for image URLs.
const maxJSONImageNodes = 3000

// Discover collects image URL candidates from img tags (src, srcset, and
// lazy-load attributes), Open Graph and Twitter meta tags, JSON-LD
// Product.image entries, and a generic walk over embedded JSON. Relative
// URLs are resolved against baseURL; duplicates keep their first hint.
func Discover(src, baseURL string) []core.ImageCandidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return discoverFromJSONText(src, baseURL)
	}
	base, _ := url.Parse(baseURL)

	var out []core.ImageCandidate
	seen := map[string]bool{}
	add := func(raw, hint string) {
		abs := resolveURL(raw, base)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		out = append(out, core.ImageCandidate{URL: abs, Hint: hint})
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		hint := imgHint(sel)
		if src, ok := sel.Attr("src"); ok {
			add(src, hint)
		}
		for _, attr := range lazyLoadAttrs {
			if v, ok := sel.Attr(attr); ok {
				add(v, hint)
			}
		}
		for _, attr := range []string{"srcset", "data-srcset"} {
			if v, ok := sel.Attr(attr); ok {
				add(largestFromSrcset(v), hint)
			}
		}
	})

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		prop := sel.AttrOr("property", sel.AttrOr("name", ""))
		switch prop {
		case "og:image", "og:image:secure_url", "twitter:image", "twitter:image:src":
			add(sel.AttrOr("content", ""), prop)
		}
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		for _, u := range jsonLDImages(sel.Text()) {
			add(u, "jsonld")
		}
	})

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if i := strings.IndexAny(text, "{["); i >= 0 {
			for _, c := range discoverFromJSONText(text[i:], baseURL) {
				add(c.URL, c.Hint)
			}
		}
	})

	return out
}

// discoverFromJSONText walks a JSON payload for image-ish property names
// or values with an image file extension.
func discoverFromJSONText(text, baseURL string) []core.ImageCandidate {
	// A decoder stops after the first value, tolerating the trailing
	// ");" or ";" that page-state assignments carry.
	var root any
	if err := json.NewDecoder(strings.NewReader(strings.TrimSpace(text))).Decode(&root); err != nil {
		return nil
	}
	base, _ := url.Parse(baseURL)

	var out []core.ImageCandidate
	seen := map[string]bool{}
	budget := maxJSONImageNodes

	type frame struct {
		node any
		key  string
	}
	stack := []frame{{node: root}}
	for len(stack) > 0 && budget > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		budget--

		switch v := f.node.(type) {
		case map[string]any:
			for key, child := range v {
				stack = append(stack, frame{node: child, key: key})
			}
		case []any:
			for _, child := range v {
				stack = append(stack, frame{node: child, key: f.key})
			}
		case string:
			if !looksLikeImageURL(v, f.key) {
				continue
			}
			abs := resolveURL(v, base)
			if abs == "" || seen[abs] {
				continue
			}
			seen[abs] = true
			out = append(out, core.ImageCandidate{URL: abs, Hint: f.key})
		}
	}
	return out
}

func looksLikeImageURL(v, key string) bool {
	if !strings.Contains(v, "/") {
		return false
	}
	if !strings.HasPrefix(v, "http") && !strings.HasPrefix(v, "//") && !strings.HasPrefix(v, "/") {
		return false
	}
	return imageKeyRe.MatchString(key) || imageExtRe.MatchString(v)
}

// jsonLDImages pulls Product.image URLs out of a JSON-LD payload.
func jsonLDImages(text string) []string {
	var root any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &root); err != nil {
		return nil
	}
	nodes := []any{root}
	if arr, ok := root.([]any); ok {
		nodes = arr
	}

	var images []string
	for _, node := range nodes {
		obj, ok := node.(map[string]any)
		if !ok {
			continue
		}
		if t, _ := obj["@type"].(string); !strings.EqualFold(t, "Product") {
			continue
		}
		switch img := obj["image"].(type) {
		case string:
			images = append(images, img)
		case []any:
			for _, item := range img {
				if s, ok := item.(string); ok {
					images = append(images, s)
				}
			}
		case map[string]any:
			if u, ok := img["url"].(string); ok {
				images = append(images, u)
			}
		}
	}
	return images
}

// largestFromSrcset picks the URL with the largest width descriptor.
func largestFromSrcset(srcset string) string {
	bestURL := ""
	bestWidth := -1
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		width := 0
		if len(fields) > 1 && strings.HasSuffix(fields[1], "w") {
			if n, err := strconv.Atoi(strings.TrimSuffix(fields[1], "w")); err == nil {
				width = n
			}
		}
		if width > bestWidth {
			bestWidth = width
			bestURL = fields[0]
		}
	}
	return bestURL
}

func imgHint(sel *goquery.Selection) string {
	parts := []string{
		sel.AttrOr("alt", ""),
		sel.AttrOr("class", ""),
		sel.AttrOr("id", ""),
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func resolveURL(raw string, base *url.URL) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "data:") {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}
