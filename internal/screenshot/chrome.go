package screenshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	imagepkg "github.com/youruser/sitecards/internal/image"
)

// Default viewport, matching a typical desktop browser window.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// ChromeOptions configures the headless browser.
type ChromeOptions struct {
	Width, Height int           // viewport; zero uses the default
	Timeout       time.Duration // per page load; zero means no limit
	ExecPath      string        // empty: let chromedp find Chrome
}

// Chrome renders pages in a headless Chrome shared across calls.
// It is not safe for concurrent use.
type Chrome struct {
	opts          ChromeOptions
	browser       context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
	started       bool
}

// NewChrome prepares a browser allocator. Chrome itself starts on the
// first Render.
func NewChrome(opts ChromeOptions) *Chrome {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultViewportWidth, DefaultViewportHeight
	}
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(opts.Width, opts.Height),
		chromedp.Flag("hide-scrollbars", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browser, cancelBrowser := chromedp.NewContext(allocCtx)
	return &Chrome{
		opts:          opts,
		browser:       browser,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
	}
}

// Render loads url in a new tab and captures the viewport.
func (c *Chrome) Render(ctx context.Context, url string) (image.Image, error) {
	if _, err := checkURL(url); err != nil {
		return nil, err
	}

	if err := c.start(); err != nil {
		return nil, err
	}

	tab, cancel := chromedp.NewContext(c.browser)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if c.opts.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		tab, cancelTimeout = context.WithTimeout(tab, c.opts.Timeout)
		defer cancelTimeout()
	}

	var buf []byte
	err := chromedp.Run(tab,
		chromedp.EmulateViewport(int64(c.opts.Width), int64(c.opts.Height)),
		chromedp.Navigate(url),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, Transient(fmt.Errorf("capture %s: %w", url, err))
	}

	img, err := imagepkg.DecodeImage(buf)
	if err != nil {
		return nil, Transient(fmt.Errorf("decode screenshot of %s: %w", url, err))
	}
	return img, nil
}

// start launches the browser on first use. Tabs created afterwards from
// c.browser share this process instead of allocating their own.
func (c *Chrome) start() error {
	if c.started {
		return nil
	}
	if err := chromedp.Run(c.browser); err != nil {
		// a missing binary will not appear on retry
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("start chrome: %w", err)
		}
		return Transient(fmt.Errorf("start chrome: %w", err))
	}
	c.started = true
	return nil
}

// Close shuts the browser down.
func (c *Chrome) Close() error {
	c.cancelBrowser()
	c.cancelAlloc()
	return nil
}
