package imaging

import (
	"testing"

	"github.com/daye-p/sizepipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<!DOCTYPE html>
<html><head>
<meta property="og:image" content="https://cdn.shop.com/web/product/big/main_01.jpg"/>
<script type="application/ld+json">
{"@type":"Product","name":"basic tee","image":["https://cdn.shop.com/web/product/big/front.jpg"]}
</script>
</head><body>
<img src="/web/product/small/front.jpg" alt="상품 이미지" class="product-main"/>
<img data-src="https://cdn.shop.com/upload/detail/size_chart.jpg"/>
<img src="https://img.echosting.cafe24.com/skin/btn_buy.gif"/>
<script>
var state = {"goods":{"originImage":"https://cdn.shop.com/web/product/big/back.jpg"}};
</script>
</body></html>`

func TestDiscoverCollectsAllSources(t *testing.T) {
	cands := Discover(productPage, "https://shop.com/item/1")

	urls := map[string]bool{}
	for _, c := range cands {
		urls[c.URL] = true
	}
	assert.True(t, urls["https://cdn.shop.com/web/product/big/main_01.jpg"], "og:image")
	assert.True(t, urls["https://cdn.shop.com/web/product/big/front.jpg"], "json-ld")
	assert.True(t, urls["https://shop.com/web/product/small/front.jpg"], "relative img src")
	assert.True(t, urls["https://cdn.shop.com/upload/detail/size_chart.jpg"], "lazy-load attr")
	assert.True(t, urls["https://cdn.shop.com/web/product/big/back.jpg"], "embedded json")
}

func TestDiscoverDeduplicates(t *testing.T) {
	html := `<img src="https://cdn.shop.com/a.jpg"/><img data-src="https://cdn.shop.com/a.jpg"/>`
	cands := Discover(html, "https://shop.com")
	assert.Len(t, cands, 1)
}

func TestRankProductPrefersProductPaths(t *testing.T) {
	ranked := RankProduct([]core.ImageCandidate{
		{URL: "https://cdn.shop.com/upload/size_chart.jpg"},
		{URL: "https://cdn.shop.com/web/product/big/main_01.jpg"},
		{URL: "https://img.echosting.cafe24.com/skin/btn_buy.gif"},
	})
	require.NotEmpty(t, ranked)
	assert.Equal(t, "https://cdn.shop.com/web/product/big/main_01.jpg", ranked[0].URL)
}

func TestRankChartPrefersChartPathsAndRejectsSkinCDN(t *testing.T) {
	ranked := RankChart([]core.ImageCandidate{
		{URL: "https://cdn.shop.com/web/product/big/main_01.jpg"},
		{URL: "https://cdn.shop.com/upload/detail/size_chart.jpg"},
		{URL: "https://img.echosting.cafe24.com/sizeguide/banner.png"},
	})
	require.NotEmpty(t, ranked)
	assert.Equal(t, "https://cdn.shop.com/upload/detail/size_chart.jpg", ranked[0].URL)

	for _, c := range ranked {
		if c.URL == "https://img.echosting.cafe24.com/sizeguide/banner.png" {
			assert.Equal(t, -100, c.Score)
		}
	}
}

func TestScoreChartHardRejectsSkinHost(t *testing.T) {
	assert.Equal(t, -100, ScoreChart("https://img.echosting.cafe24.com/size/chart.png"))
}

func TestScoreProductPenalizesSmallRenditions(t *testing.T) {
	big := ScoreProduct("https://cdn.shop.com/web/product/big/a.jpg", "")
	small := ScoreProduct("https://cdn.shop.com/web/product/big/a.jpg?width=150", "")
	assert.Greater(t, big, small)
}

func TestAddResolutionVariants(t *testing.T) {
	out := AddResolutionVariants([]core.ImageCandidate{
		{URL: "https://cdn.shop.com/web/product/small/front.jpg", Hint: "상품"},
		{URL: "https://cdn.shop.com/upload/detail.jpg"},
	})

	require.Len(t, out, 3)
	assert.Equal(t, "https://cdn.shop.com/web/product/big/front.jpg", out[0].URL)
	assert.Equal(t, "상품", out[0].Hint)
	assert.Equal(t, 1, out[0].Score)
	assert.Equal(t, "https://cdn.shop.com/web/product/small/front.jpg", out[1].URL)
}

func TestAddResolutionVariantsSkipsExisting(t *testing.T) {
	out := AddResolutionVariants([]core.ImageCandidate{
		{URL: "https://cdn.shop.com/web/product/small/a.jpg"},
		{URL: "https://cdn.shop.com/web/product/big/a.jpg"},
	})
	assert.Len(t, out, 2)
}
