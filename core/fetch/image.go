package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/daye-p/sizepipe/core"
	"github.com/daye-p/sizepipe/core/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// ImageConstraints bound which fetched images count as valid. Zero
// values disable the corresponding check.
type ImageConstraints struct {
	MinBytes       int
	MaxBytes       int
	MinWidth       int
	MinHeight      int
	MaxAspectRatio float64
	// MaxAttempts caps how many candidates are fetched; 0 means all.
	MaxAttempts int
}

func (c ImageConstraints) validate() error {
	if c.MinBytes < 0 || c.MaxBytes < 0 || c.MinWidth < 0 || c.MinHeight < 0 ||
		c.MaxAspectRatio < 0 || c.MaxAttempts < 0 {
		return fmt.Errorf("negative image constraint: %+v", c)
	}
	return nil
}

// FirstValidImage fetches ranked candidates serially, best first, and
// returns the first one passing the constraints. Individual fetch
// failures advance to the next candidate; exhausting the list yields
// (nil, nil) — "no image found" is an outcome, not an error. Only a
// nonsensical constraint set is an error: that is a caller bug.
func (c *Client) FirstValidImage(ctx context.Context, candidates []core.ImageCandidate, cons ImageConstraints) (*core.ImagePayload, error) {
	if err := cons.validate(); err != nil {
		return nil, err
	}

	attempts := 0
	for _, cand := range candidates {
		if cand.Score < 0 {
			continue
		}
		if cons.MaxAttempts > 0 && attempts >= cons.MaxAttempts {
			break
		}
		attempts++

		payload := c.fetchImage(ctx, cand.URL, cons)
		if payload != nil {
			return payload, nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, nil
}

// fetchImage retrieves and validates a single candidate; nil means skip.
func (c *Client) fetchImage(ctx context.Context, url string, cons ImageConstraints) *core.ImagePayload {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		c.log.Debug("image fetch failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		c.log.Debug("image fetch non-2xx", zap.String("url", url), zap.Int("status", resp.StatusCode()))
		return nil
	}
	body := resp.Body()

	mime := resp.Header().Get("Content-Type")
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if !strings.HasPrefix(mime, "image/") {
		// Origins lie about content types; trust the bytes over the header.
		mime = mimetype.Detect(body).String()
		if !strings.HasPrefix(mime, "image/") {
			c.log.Debug("candidate is not an image", zap.String("url", url), zap.String("mime", mime))
			return nil
		}
	}

	if cons.MinBytes > 0 && len(body) < cons.MinBytes {
		return nil
	}
	if cons.MaxBytes > 0 && len(body) > cons.MaxBytes {
		return nil
	}

	payload := &core.ImagePayload{SourceURL: url, MIMEType: mime, Bytes: body}
	dims := imaging.SniffDimensions(body)
	if dims != nil {
		payload.Width = dims.Width
		payload.Height = dims.Height
	}
	// Unknown dimensions disable the dimension gates rather than failing.
	if dims != nil && !dimensionsAllowed(*dims, cons) {
		c.log.Debug("image dimensions out of bounds",
			zap.String("url", url), zap.Int("width", dims.Width), zap.Int("height", dims.Height))
		return nil
	}
	return payload
}

func dimensionsAllowed(dims imaging.Dimensions, cons ImageConstraints) bool {
	if cons.MinWidth > 0 && dims.Width < cons.MinWidth {
		return false
	}
	if cons.MinHeight > 0 && dims.Height < cons.MinHeight {
		return false
	}
	if cons.MaxAspectRatio > 0 && dims.Width > 0 && dims.Height > 0 {
		ratio := float64(dims.Width) / float64(dims.Height)
		if ratio < 1 {
			ratio = 1 / ratio
		}
		if ratio > cons.MaxAspectRatio {
			return false
		}
	}
	return true
}
