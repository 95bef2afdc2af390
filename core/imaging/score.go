package imaging

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/daye-p/sizepipe/core"
)

// skinAssetHost serves only shop design assets (buttons, banners, layout
// sprites) on cafe24-hosted malls; nothing on it is ever a size chart.
const skinAssetHost = "img.echosting.cafe24.com"

// Path segments that never hold content images.
var nonContentPathRe = regexp.MustCompile(`(?i)/(skin|layout|icon|icons|sprite|common|banner|btn|button|design|menu|popup)/`)

var (
	productPositive = []scoredToken{
		{"product", 3}, {"goods", 3}, {"main", 2}, {"front", 2},
		{"big", 2}, {"large", 2}, {"view", 1}, {"model", 1}, {"착용", 1},
	}
	productNegative = []scoredToken{
		{"size", -4}, {"chart", -4}, {"guide", -3}, {"measurement", -3},
		{"사이즈", -4}, {"icon", -3}, {"logo", -3}, {"banner", -3},
		{"btn", -3}, {"sprite", -3}, {"thumb", -1}, {"tiny", -2},
	}
	chartPositive = []scoredToken{
		{"size", 4}, {"사이즈", 4}, {"chart", 3}, {"guide", 3},
		{"measurement", 3}, {"측정", 3}, {"실측", 3}, {"cm", 2},
		{"spec", 2}, {"detail", 1},
	}
	chartNegative = []scoredToken{
		{"icon", -3}, {"logo", -3}, {"banner", -3}, {"btn", -3},
		{"sprite", -3}, {"main", -1}, {"model", -1},
	}
)

type scoredToken struct {
	token  string
	weight int
}

// ScoreProduct scores a URL (plus its surrounding hint text) for the
// product-photo role. Higher is better; negative means skip.
func ScoreProduct(rawURL, hint string) int {
	score := tokenScore(strings.ToLower(rawURL), productPositive, productNegative)
	score += tokenScore(strings.ToLower(hint), productPositive, productNegative)
	score += formatPenalty(rawURL)
	score += queryDimensionPenalty(rawURL)
	return score
}

// ScoreChart scores a URL for the size-chart-image role. The skin-asset
// CDN is hard-rejected.
func ScoreChart(rawURL string) int {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return -100
	}
	if strings.EqualFold(parsed.Host, skinAssetHost) {
		return -100
	}
	score := tokenScore(strings.ToLower(rawURL), chartPositive, chartNegative)
	score += formatPenalty(rawURL)
	score += queryDimensionPenalty(rawURL)
	return score
}

// RankProduct scores and sorts product-photo candidates, best first,
// with resolution variants added for known CDNs.
func RankProduct(candidates []core.ImageCandidate) []core.ImageCandidate {
	return rank(AddResolutionVariants(candidates), func(c core.ImageCandidate) int {
		return ScoreProduct(c.URL, c.Hint)
	})
}

// RankChart scores and sorts size-chart candidates, best first.
func RankChart(candidates []core.ImageCandidate) []core.ImageCandidate {
	return rank(AddResolutionVariants(candidates), func(c core.ImageCandidate) int {
		return ScoreChart(c.URL)
	})
}

func rank(candidates []core.ImageCandidate, scoreFn func(core.ImageCandidate) int) []core.ImageCandidate {
	out := make([]core.ImageCandidate, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].Score = scoreFn(out[i]) + out[i].Score
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func tokenScore(s string, positive, negative []scoredToken) int {
	score := 0
	for _, t := range positive {
		if strings.Contains(s, t.token) {
			score += t.weight
		}
	}
	for _, t := range negative {
		if strings.Contains(s, t.token) {
			score += t.weight
		}
	}
	if nonContentPathRe.MatchString(s) {
		score -= 4
	}
	return score
}

// formatPenalty downgrades formats that are decorative in practice.
func formatPenalty(rawURL string) int {
	lower := strings.ToLower(rawURL)
	if strings.Contains(lower, ".gif") || strings.Contains(lower, ".svg") {
		return -5
	}
	return 0
}

// queryDimensionPenalty downgrades URLs whose query string already admits
// a small rendition (e.g. ?width=150).
func queryDimensionPenalty(rawURL string) int {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	q := parsed.Query()
	for _, key := range []string{"w", "width", "h", "height"} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < 300 {
			return -3
		}
	}
	return 0
}
