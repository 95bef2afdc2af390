package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/daye-p/sizepipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTable = core.SizeTable{
	Headers: []string{"항목", "S", "M", "L"},
	Rows: [][]string{
		{"총장", "68", "69", "70"},
		{"가슴", "49", "52", "55"},
	},
}

var sampleMeta = core.ExtractionMeta{
	URL:       "https://shop.example.com/item/42",
	Domain:    "shop.example.com",
	Title:     "데일리 셔츠",
	FetchedAt: "2026-08-30T09:00:00Z",
}

func TestMarkdownRenderer(t *testing.T) {
	r := NewMarkdownRenderer()
	out, err := r.Render(sampleTable, sampleMeta)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# 데일리 셔츠")
	assert.Contains(t, text, "Source: https://shop.example.com/item/42")
	assert.Contains(t, text, "| 항목 | S | M | L |")
	assert.Contains(t, text, "| --- | --- | --- | --- |")
	assert.Contains(t, text, "| 총장 | 68 | 69 | 70 |")
	assert.Equal(t, ".md", r.Extension())
}

func TestMarkdownRendererEscapesPipes(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(core.SizeTable{
		Headers: []string{"항목", "S|M"},
		Rows:    [][]string{{"총장", "68"}},
	}, core.ExtractionMeta{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `S\|M`)
}

func TestJSONRenderer(t *testing.T) {
	r := NewJSONRenderer()
	out, err := r.Render(sampleTable, sampleMeta)
	require.NoError(t, err)
	assert.Equal(t, ".json", r.Extension())

	var decoded struct {
		Metadata core.ExtractionMeta `json:"metadata"`
		Table    core.SizeTable      `json:"table"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, sampleMeta, decoded.Metadata)
	assert.Equal(t, sampleTable, decoded.Table)
}

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer()
	out, err := r.Render(sampleTable, sampleMeta)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"))
	assert.Equal(t, ".pdf", r.Extension())
}

func TestPDFRendererEmptyTable(t *testing.T) {
	out, err := NewPDFRenderer().Render(core.SizeTable{}, core.ExtractionMeta{Title: "Empty"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
