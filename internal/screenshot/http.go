package screenshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strings"
	"time"

	imagepkg "github.com/youruser/sitecards/internal/image"
	"github.com/youruser/sitecards/internal/util"
)

// URLPlaceholder is replaced by the query-escaped page URL in an HTTP
// renderer endpoint.
const URLPlaceholder = "{url}"

// HTTP renders pages through a screenshot service that answers a GET with
// an image of the requested page.
type HTTP struct {
	Endpoint string
	Timeout  time.Duration
}

// NewHTTP returns a renderer for endpoint, which must contain {url}.
func NewHTTP(endpoint string, timeout time.Duration) (*HTTP, error) {
	if !strings.Contains(endpoint, URLPlaceholder) {
		return nil, fmt.Errorf("endpoint %q has no %s placeholder", endpoint, URLPlaceholder)
	}
	return &HTTP{Endpoint: endpoint, Timeout: timeout}, nil
}

// Render requests the screenshot. Network failures and 5xx, 408 and 429
// responses are transient; other statuses and undecodable bodies are not.
func (h *HTTP) Render(ctx context.Context, page string) (image.Image, error) {
	if _, err := checkURL(page); err != nil {
		return nil, err
	}
	target := strings.ReplaceAll(h.Endpoint, URLPlaceholder, url.QueryEscape(page))

	body, err := util.GetBytes(ctx, target, h.Timeout)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var se *util.StatusError
		if errors.As(err, &se) && !se.Temporary() {
			return nil, fmt.Errorf("screenshot of %s: %w", page, err)
		}
		return nil, Transient(fmt.Errorf("screenshot of %s: %w", page, err))
	}

	img, err := imagepkg.DecodeImage(body)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot of %s: %w", page, err)
	}
	return img, nil
}
