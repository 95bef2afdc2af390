// Package core defines the data model and stage interfaces for SizePipe.
// Each stage of the extraction pipeline is a clean, testable interface.
package core

import "context"

// FetchResult holds the raw page body and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	Body       string
}

// ExtractionMeta holds metadata about one extraction request.
type ExtractionMeta struct {
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Title     string `json:"title"`
	FetchedAt string `json:"fetched_at"` // ISO8601
}

// SizeTable is the canonical output of the extraction pipeline.
// Headers[0] is the item/measurement column label; Headers[1:] are size
// labels. Rows[i][0] is a canonical measurement name; Rows[i][1:] are the
// values for each size. Every row has exactly len(Headers) cells.
type SizeTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Clone returns a deep copy of the table.
func (t SizeTable) Clone() SizeTable {
	out := SizeTable{Headers: append([]string(nil), t.Headers...)}
	out.Rows = make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}

// TableCandidate is a standardized table proposed by one extractor,
// carrying provenance for tie-breaking and an extractor-specific boost.
type TableCandidate struct {
	Table SizeTable
	// Source names the extractor that produced the candidate.
	Source string
	// Priority breaks score ties; higher means a structurally more
	// reliable source (HTML tables > embedded JSON > free text).
	Priority int
	// Boost is added to the rubric score (e.g. size vocabulary found
	// around an HTML table).
	Boost int
}

// ImageCandidate is a provisional image URL proposed during discovery.
type ImageCandidate struct {
	URL   string
	Score int
	// Hint is surrounding text (alt attribute, class names) that
	// informs role scoring.
	Hint string
}

// ImagePayload is a fetched and validated image, handed to the caller.
type ImagePayload struct {
	SourceURL string `json:"source_url"`
	MIMEType  string `json:"mime_type"`
	Bytes     []byte `json:"-"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// Fetcher retrieves a raw page body from a URL.
type Fetcher interface {
	Page(ctx context.Context, url string) (*FetchResult, error)
}

// TableExtractor proposes zero or more size-table candidates from one
// substrate (HTML markup, embedded JSON, or free text).
type TableExtractor interface {
	// Name identifies the extractor in candidate provenance.
	Name() string
	// Priority orders extractors by structural reliability.
	Priority() int
	// Extract proposes candidates from the source text. Malformed input
	// yields no candidates, never an error.
	Extract(src string) []TableCandidate
}

// Renderer converts a finished size table into an output format.
type Renderer interface {
	Render(table SizeTable, meta ExtractionMeta) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md").
	Extension() string
}
