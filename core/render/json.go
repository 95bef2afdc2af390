// Package render — JSON renderer.
// Emits the serializable {headers, rows} shape consumed by storage and
// API collaborators, alongside the extraction metadata.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/daye-p/sizepipe/core"
)

// tableJSON is the complete JSON output for one extraction.
type tableJSON struct {
	Metadata core.ExtractionMeta `json:"metadata"`
	Table    core.SizeTable      `json:"table"`
}

// JSONRenderer produces structured JSON output.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the table and metadata.
func (r *JSONRenderer) Render(table core.SizeTable, meta core.ExtractionMeta) ([]byte, error) {
	data, err := json.MarshalIndent(tableJSON{Metadata: meta, Table: table}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}
