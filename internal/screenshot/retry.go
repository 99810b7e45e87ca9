package screenshot

import (
	"context"
	"image"
	"time"
)

// Retry controls how Fetch repeats transient failures.
type Retry struct {
	// Attempts is the total number of tries, at least 1.
	Attempts int

	// Delay is the pause between tries. Zero retries immediately.
	Delay time.Duration

	// OnRetry, if set, is called after each transient failure that will be
	// retried, with the 1-based number of the failed attempt.
	OnRetry func(attempt int, err error)
}

// Fetch renders url, retrying transient failures up to r.Attempts times.
// A non-transient error is returned at once. After the last attempt the
// final transient error is returned. Cancelling ctx stops the loop.
func Fetch(ctx context.Context, renderer Renderer, url string, r Retry) (image.Image, error) {
	attempts := max(r.Attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := renderer.Render(ctx, url)
		if err == nil {
			return img, nil
		}
		if lastErr = err; !IsTransient(err) {
			return nil, err
		}
		if i == attempts-1 {
			break
		}
		if r.OnRetry != nil {
			r.OnRetry(i+1, err)
		}
		if r.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.Delay):
			}
		}
	}
	return nil, lastErr
}
