// Package screenshot captures website screenshots for card backgrounds.
//
// Renderers classify their failures: errors wrapped with [Transient] may
// succeed on another attempt, every other error is final for that URL.
// [Fetch] retries on that classification.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
)

// ErrInvalidURL is returned for URLs no renderer can load.
var ErrInvalidURL = errors.New("invalid url")

// Renderer captures a screenshot of a web page.
type Renderer interface {
	Render(ctx context.Context, url string) (image.Image, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, url string) (image.Image, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, url string) (image.Image, error) {
	return f(ctx, url)
}

// TransientError marks a failure that may not recur on retry,
// such as a navigation timeout or a 5xx from a screenshot service.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as a TransientError. Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is or wraps a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// checkURL accepts absolute http and https URLs.
func checkURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, raw)
	}
	return u, nil
}
