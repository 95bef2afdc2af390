package imaging

import (
	"strings"

	"github.com/daye-p/sizepipe/core"
)

// thumbnailSegments map cafe24's predictable product-image path
// convention to its full-size segment: /web/product/tiny|small|medium/
// always has a /web/product/big/ counterpart.
var thumbnailSegments = []string{
	"/web/product/tiny/", "/web/product/small/", "/web/product/medium/",
}

const fullSizeSegment = "/web/product/big/"

// AddResolutionVariants synthesizes the full-size URL alongside each
// thumbnail candidate on CDNs with a known path convention, so downstream
// validation can prefer the higher resolution. Variants inherit the
// original's hint and a slight score edge.
func AddResolutionVariants(candidates []core.ImageCandidate) []core.ImageCandidate {
	seen := map[string]bool{}
	for _, c := range candidates {
		seen[c.URL] = true
	}

	out := make([]core.ImageCandidate, 0, len(candidates))
	for _, c := range candidates {
		for _, seg := range thumbnailSegments {
			if !strings.Contains(c.URL, seg) {
				continue
			}
			variant := strings.Replace(c.URL, seg, fullSizeSegment, 1)
			if seen[variant] {
				continue
			}
			seen[variant] = true
			out = append(out, core.ImageCandidate{
				URL:   variant,
				Hint:  c.Hint,
				Score: c.Score + 1,
			})
			break
		}
		out = append(out, c)
	}
	return out
}
