// Package render provides output renderers for extracted size tables.
// This file implements the Markdown renderer (a pipe table).
package render

import (
	"strings"

	"github.com/daye-p/sizepipe/core"
)

// MarkdownRenderer writes a size table as a Markdown pipe table.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render formats the table with a title and source line from metadata.
func (r *MarkdownRenderer) Render(table core.SizeTable, meta core.ExtractionMeta) ([]byte, error) {
	var b strings.Builder
	if meta.Title != "" {
		b.WriteString("# " + meta.Title + "\n\n")
	}
	if meta.URL != "" {
		b.WriteString("Source: " + meta.URL + "\n\n")
	}

	writeRow(&b, table.Headers)
	sep := make([]string, len(table.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)
	for _, row := range table.Rows {
		writeRow(&b, row)
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, cell := range cells {
		b.WriteString(" " + strings.ReplaceAll(cell, "|", "\\|") + " |")
	}
	b.WriteString("\n")
}
