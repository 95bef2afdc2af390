// Package pipeline orchestrates the SizePipe stages: fetch, extract,
// standardize, align with size options, and discover and fetch the
// product and size-chart images.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/daye-p/sizepipe/core"
	"github.com/daye-p/sizepipe/core/extract"
	"github.com/daye-p/sizepipe/core/fetch"
	"github.com/daye-p/sizepipe/core/imaging"
	"github.com/daye-p/sizepipe/core/score"
	"github.com/daye-p/sizepipe/core/table"
	"go.uber.org/zap"
)

// Request controls one extraction run.
type Request struct {
	// SizeOptions are the seller's purchasable sizes, when the caller
	// already knows them. Empty means scrape them from the page.
	SizeOptions []string
	// WithImages enables product and size-chart image fetching.
	WithImages bool
	Product    fetch.ImageConstraints
	Chart      fetch.ImageConstraints
}

// Result is the outcome of one extraction run. Table is nil when no
// plausible size table was found; images are nil when not requested or
// when no candidate survived validation.
type Result struct {
	Meta    core.ExtractionMeta
	Table   *core.SizeTable
	Options []string
	Product *core.ImagePayload
	Chart   *core.ImagePayload
}

// Pipeline runs the extraction stages against a fetched page.
type Pipeline struct {
	client     *fetch.Client
	extractors []core.TableExtractor
	log        *zap.Logger
}

// New creates a Pipeline with the default extractor set: HTML tables,
// embedded JSON, then free text.
func New(client *fetch.Client, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		client: client,
		extractors: []core.TableExtractor{
			extract.NewHTMLTables(),
			extract.NewStructured(),
			extract.NewFreeText(),
		},
		log: log,
	}
}

// FromURL fetches the page and runs the full pipeline against it.
func (p *Pipeline) FromURL(ctx context.Context, rawURL string, req Request) (*Result, error) {
	page, err := p.client.Page(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	return p.FromPage(ctx, page, req)
}

// FromPage runs the pipeline against an already-fetched page.
func (p *Pipeline) FromPage(ctx context.Context, page *core.FetchResult, req Request) (*Result, error) {
	res := &Result{Meta: metaFor(page)}

	res.Table = p.TableFromSource(page.Body)
	if res.Table == nil {
		p.log.Info("no size table found", zap.String("url", page.URL))
	}

	res.Options = req.SizeOptions
	callerOptions := len(res.Options) > 0
	if !callerOptions {
		res.Options = extract.SizeOptions(page.Body)
	}
	if res.Table != nil && len(res.Options) > 0 {
		if aligned := score.AlignWithOptions(*res.Table, res.Options); aligned != nil {
			res.Table = aligned
		} else if callerOptions {
			// Caller-supplied options are ground truth. A table whose size
			// labels cannot be mapped onto them is a hallucinated or wrong
			// chart, so the whole table is rejected. Scraped options are a
			// heuristic and only ever refine, never reject.
			p.log.Info("table rejected: size labels do not match provided options",
				zap.Strings("options", res.Options))
			res.Table = nil
		} else {
			p.log.Debug("scraped size options did not match table headers",
				zap.Strings("options", res.Options))
		}
	}

	if req.WithImages {
		if err := p.fetchImages(ctx, page, req, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// TableFromSource runs every extractor over the source and picks the
// best candidate, or nil if none is plausible.
func (p *Pipeline) TableFromSource(src string) *core.SizeTable {
	var candidates []core.TableCandidate
	for _, e := range p.extractors {
		found := e.Extract(src)
		p.log.Debug("extractor ran",
			zap.String("extractor", e.Name()),
			zap.Int("candidates", len(found)))
		candidates = append(candidates, found...)
	}
	return score.Pick(candidates)
}

// FromVision normalizes a size table handed back by a vision model.
// Accepts a decoded JSON value (map or slice) or a raw JSON string; the
// string form tolerates malformed JSON.
func (p *Pipeline) FromVision(raw any) (*core.SizeTable, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("empty vision payload")
	case string:
		if t := extract.FromJSONText(v); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("no size table in vision payload")
	case core.SizeTable:
		if std := table.Standardize(v); std != nil {
			return std, nil
		}
		return nil, fmt.Errorf("vision table is degenerate")
	default:
		if t := extract.FromValue(v); t != nil {
			return t, nil
		}
		return nil, fmt.Errorf("no size table in vision payload")
	}
}

func (p *Pipeline) fetchImages(ctx context.Context, page *core.FetchResult, req Request, res *Result) error {
	discovered := imaging.Discover(page.Body, page.URL)
	if len(discovered) == 0 {
		p.log.Info("no image candidates on page", zap.String("url", page.URL))
		return nil
	}

	product, err := p.client.FirstValidImage(ctx, imaging.RankProduct(discovered), req.Product)
	if err != nil {
		return fmt.Errorf("fetching product image: %w", err)
	}
	res.Product = product

	chart, err := p.client.FirstValidImage(ctx, imaging.RankChart(discovered), req.Chart)
	if err != nil {
		return fmt.Errorf("fetching size chart image: %w", err)
	}
	res.Chart = chart
	return nil
}

// metaFor builds extraction metadata for a fetched page.
func metaFor(page *core.FetchResult) core.ExtractionMeta {
	meta := core.ExtractionMeta{
		URL:       page.URL,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if u, err := url.Parse(page.URL); err == nil {
		meta.Domain = u.Hostname()
	}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body)); err == nil {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return meta
}
