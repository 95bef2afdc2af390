package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/daye-p/sizepipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := New()
	res, err := c.Page(context.Background(), srv.URL+"/item")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Body, "ok")

	_, err = c.Page(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestWithUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(WithUserAgent("SizeBot/2.0"))
	_, err := c.Page(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "SizeBot/2.0", got)

	// Empty override keeps the default.
	c = New(WithUserAgent(""))
	_, err = c.Page(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, got, "SizePipe/")
}

func TestFirstValidImageAdvancesToFirstSurvivor(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/not-image":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>not an image</html>"))
		case "/tiny":
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngBytes(20, 20))
		case "/good":
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngBytes(800, 600))
		case "/never":
			t.Error("lower-ranked candidate fetched after a success")
		}
	}))
	defer srv.Close()

	c := New(WithTimeout(5 * time.Second))
	payload, err := c.FirstValidImage(context.Background(), []core.ImageCandidate{
		{URL: srv.URL + "/not-image", Score: 9},
		{URL: srv.URL + "/tiny", Score: 8},
		{URL: srv.URL + "/good", Score: 7},
		{URL: srv.URL + "/never", Score: 6},
	}, ImageConstraints{MinWidth: 100, MinHeight: 100})

	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, srv.URL+"/good", payload.SourceURL)
	assert.Equal(t, "image/png", payload.MIMEType)
	assert.Equal(t, 800, payload.Width)
	assert.Equal(t, 600, payload.Height)
	assert.EqualValues(t, 3, hits.Load())
}

func TestFirstValidImageSkipsNegativeScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("negative-scored candidate fetched")
	}))
	defer srv.Close()

	c := New()
	payload, err := c.FirstValidImage(context.Background(), []core.ImageCandidate{
		{URL: srv.URL + "/rejected", Score: -100},
	}, ImageConstraints{})
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestFirstValidImageExhaustionIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	c := New()
	payload, err := c.FirstValidImage(context.Background(), []core.ImageCandidate{
		{URL: srv.URL + "/a", Score: 1},
		{URL: srv.URL + "/b", Score: 1},
	}, ImageConstraints{})
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestFirstValidImageByteBounds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes(800, 600))
	}))
	defer srv.Close()

	c := New()
	payload, err := c.FirstValidImage(context.Background(), []core.ImageCandidate{
		{URL: srv.URL + "/img", Score: 1},
	}, ImageConstraints{MinBytes: 1 << 20})
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestFirstValidImageMaxAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New()
	payload, err := c.FirstValidImage(context.Background(), []core.ImageCandidate{
		{URL: srv.URL + "/a", Score: 3},
		{URL: srv.URL + "/b", Score: 2},
		{URL: srv.URL + "/c", Score: 1},
	}, ImageConstraints{MaxAttempts: 2})
	require.NoError(t, err)
	assert.Nil(t, payload)
	assert.EqualValues(t, 2, hits.Load())
}

func TestFirstValidImageRejectsNegativeConstraints(t *testing.T) {
	c := New()
	_, err := c.FirstValidImage(context.Background(), nil, ImageConstraints{MinWidth: -1})
	assert.Error(t, err)
}
