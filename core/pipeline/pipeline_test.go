package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/daye-p/sizepipe/core"
	"github.com/daye-p/sizepipe/core/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const productPage = `<html><head><title>데일리 셔츠</title></head><body>
<table>
<tr><th>메뉴</th><th>링크</th></tr>
<tr><td>회사소개</td><td>/about</td></tr>
<tr><td>고객센터</td><td>/cs</td></tr>
</table>
<div class="size-detail">사이즈 실측 (cm)
<table>
<tr><th>항목</th><th>0</th><th>1</th><th>2</th></tr>
<tr><td>총장</td><td>70</td><td>71</td><td>72</td></tr>
<tr><td>가슴</td><td>52</td><td>54</td><td>56</td></tr>
</table>
</div>
<select>
<option>사이즈 선택</option>
<option>S</option><option>M</option><option>L</option>
</select>
</body></html>`

func pngBytes(width, height uint32) []byte {
	data := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	data = append(data, 0x00, 0x00, 0x00, 0x0D)
	data = append(data, 'I', 'H', 'D', 'R')
	data = append(data,
		byte(width>>24), byte(width>>16), byte(width>>8), byte(width),
		byte(height>>24), byte(height>>16), byte(height>>8), byte(height),
	)
	return append(data, 0x08, 0x06, 0x00, 0x00, 0x00)
}

func TestFromURLEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productPage))
	}))
	defer srv.Close()

	p := New(fetch.New(), zap.NewNop())
	res, err := p.FromURL(context.Background(), srv.URL+"/item", Request{})
	require.NoError(t, err)

	require.NotNil(t, res.Table)
	// Index-style headers are replaced wholesale by the scraped options.
	assert.Equal(t, []string{"항목", "S", "M", "L"}, res.Table.Headers)
	assert.Equal(t, []string{"총장", "70", "71", "72"}, res.Table.Rows[0])
	assert.Equal(t, []string{"가슴", "52", "54", "56"}, res.Table.Rows[1])

	assert.Equal(t, []string{"S", "M", "L"}, res.Options)
	assert.Equal(t, "데일리 셔츠", res.Meta.Title)
	assert.Equal(t, "127.0.0.1", res.Meta.Domain)
	assert.NotEmpty(t, res.Meta.FetchedAt)
}

func TestFromURLProvidedOptionsWin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productPage))
	}))
	defer srv.Close()

	p := New(fetch.New(), zap.NewNop())
	res, err := p.FromURL(context.Background(), srv.URL+"/item", Request{
		SizeOptions: []string{"90", "95", "100"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Table)
	assert.Equal(t, []string{"항목", "90", "95", "100"}, res.Table.Headers)
}

const numericChartPage = `<html><body>
<div class="size-detail">사이즈 실측 (cm)
<table>
<tr><th>항목</th><th>95</th><th>100</th><th>105</th></tr>
<tr><td>총장</td><td>70</td><td>71</td><td>72</td></tr>
<tr><td>가슴</td><td>52</td><td>54</td><td>56</td></tr>
</table>
</div>
</body></html>`

func TestFromPageRejectsTableOnProvidedOptionMismatch(t *testing.T) {
	res, err := p0().FromPage(context.Background(), &core.FetchResult{
		URL:  "https://shop.example.com/item/1",
		Body: numericChartPage,
	}, Request{SizeOptions: []string{"S", "M", "L", "XL"}})
	require.NoError(t, err)
	assert.Nil(t, res.Table)
}

func TestFromPageKeepsTableOnScrapedOptionMismatch(t *testing.T) {
	page := strings.Replace(numericChartPage, "</body>",
		`<select><option>사이즈 선택</option><option>S</option><option>M</option><option>L</option></select></body>`, 1)

	res, err := p0().FromPage(context.Background(), &core.FetchResult{
		URL:  "https://shop.example.com/item/1",
		Body: page,
	}, Request{})
	require.NoError(t, err)
	require.NotNil(t, res.Table)
	assert.Equal(t, []string{"항목", "95", "100", "105"}, res.Table.Headers)
}

func TestFromURLFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	p := New(fetch.New(), zap.NewNop())
	_, err := p.FromURL(context.Background(), srv.URL+"/item", Request{})
	assert.Error(t, err)
}

func TestFromPageNoChart(t *testing.T) {
	p := New(fetch.New(), zap.NewNop())
	res, err := p.FromPage(context.Background(), &core.FetchResult{
		URL:  "https://shop.example.com/item/1",
		Body: "<html><head><title>소개</title></head><body><p>배송 안내</p></body></html>",
	}, Request{})
	require.NoError(t, err)
	assert.Nil(t, res.Table)
	assert.Empty(t, res.Options)
}

func TestFromPageWithImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/item":
			w.Write([]byte(`<html><head><title>셔츠</title></head><body>
			<img src="/web/product/medium/item_main.jpg" alt="모델 착용">
			<img src="/images/size_chart.png" alt="사이즈 차트">
			</body></html>`))
		case "/web/product/big/item_main.jpg", "/web/product/medium/item_main.jpg":
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngBytes(800, 1000))
		case "/images/size_chart.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngBytes(700, 1400))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := fetch.New()
	page, err := client.Page(context.Background(), srv.URL+"/item")
	require.NoError(t, err)

	p := New(client, zap.NewNop())
	cons := fetch.ImageConstraints{MinWidth: 100, MinHeight: 100}
	res, err := p.FromPage(context.Background(), page, Request{
		WithImages: true,
		Product:    cons,
		Chart:      cons,
	})
	require.NoError(t, err)

	require.NotNil(t, res.Product)
	// The synthesized big-CDN variant outranks the medium original.
	assert.True(t, strings.HasSuffix(res.Product.SourceURL, "/web/product/big/item_main.jpg"),
		"got %s", res.Product.SourceURL)
	assert.Equal(t, 800, res.Product.Width)

	require.NotNil(t, res.Chart)
	assert.True(t, strings.HasSuffix(res.Chart.SourceURL, "/images/size_chart.png"),
		"got %s", res.Chart.SourceURL)
}

func TestFromVision(t *testing.T) {
	got, err := p0().FromVision(`{"headers": ["항목", "95", "100", "105"],
	"rows": [["총장", "70", "71", "72"], ["가슴", "52", "54", "56"]]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"항목", "95", "100", "105"}, got.Headers)

	got, err = p0().FromVision(map[string]any{
		"S": map[string]any{"가슴": 49.0, "총장": 68.0},
		"M": map[string]any{"가슴": 52.0, "총장": 69.0},
		"L": map[string]any{"가슴": 55.0, "총장": 70.0},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"항목", "S", "M", "L"}, got.Headers)
	assert.Equal(t, []string{"총장", "68", "69", "70"}, got.Rows[0])

	_, err = p0().FromVision(nil)
	assert.Error(t, err)

	_, err = p0().FromVision("설명만 있는 문자열")
	assert.Error(t, err)
}

func p0() *Pipeline {
	return New(fetch.New(), zap.NewNop())
}
