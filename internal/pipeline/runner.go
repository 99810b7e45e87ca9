// Package pipeline turns a list of website records into a printable deck.
//
// A run walks the records in input order: screenshot, QR code, card. Each
// artifact lives in a store and is reused when already present, so an
// interrupted run picks up where it stopped. Title and index pages follow,
// then the output store is sequenced and exported as a PDF.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/youruser/sitecards/internal/config"
	"github.com/youruser/sitecards/internal/deck"
	imagepkg "github.com/youruser/sitecards/internal/image"
	"github.com/youruser/sitecards/internal/screenshot"
	"github.com/youruser/sitecards/internal/sites"
	"github.com/youruser/sitecards/internal/store"
)

// Stage names used in failures and log lines.
const (
	StageValidate   = "validate"
	StageScreenshot = "screenshot"
	StageQR         = "qr"
	StageCompose    = "compose"
)

// Runner executes the card pipeline. Fields are set once and not modified
// during a run; a Runner is not safe for concurrent Execute calls.
type Runner struct {
	Renderer    screenshot.Renderer
	Retry       screenshot.Retry
	QR          imagepkg.QREncoder
	Screenshots store.Store
	QRCodes     store.Store
	Output      store.Store
	Compositor  *imagepkg.Compositor
	Pages       *imagepkg.PageBuilder
	Background  image.Image // nil: plain white pages
	TitlePages  int
	Document    string // empty: skip the PDF
	PDF         deck.PDFOptions
	Logger      *log.Logger

	// Refresh regenerates every artifact instead of reusing stored ones.
	Refresh bool
}

// NewRunner wires a runner from cfg with file-backed stores. A configured
// background or font that cannot be loaded is an error.
func NewRunner(cfg config.Config, renderer screenshot.Renderer, logger *log.Logger) (*Runner, error) {
	if logger == nil {
		logger = log.Default()
	}
	shots, err := store.NewFileStore(cfg.Paths.Screenshots)
	if err != nil {
		return nil, err
	}
	qrs, err := store.NewFileStore(cfg.Paths.QRCodes)
	if err != nil {
		return nil, err
	}
	out, err := store.NewFileStore(cfg.Paths.Output)
	if err != nil {
		return nil, err
	}
	fonts, err := LoadFonts(cfg)
	if err != nil {
		return nil, err
	}
	bg, err := imagepkg.LoadBackground(cfg.Paths.Background)
	if err != nil {
		return nil, err
	}

	return &Runner{
		Renderer:    renderer,
		Retry:       screenshot.Retry{Attempts: cfg.Fetch.Attempts, Delay: cfg.Fetch.Delay},
		QR:          imagepkg.NewQREncoder(),
		Screenshots: shots,
		QRCodes:     qrs,
		Output:      out,
		Compositor:  imagepkg.NewCompositor(CardLayout(cfg), fonts),
		Pages:       imagepkg.NewPageBuilder(PageLayout(cfg), fonts),
		Background:  bg,
		TitlePages:  cfg.Layout.TitlePages,
		Document:    cfg.Paths.Document,
		PDF:         deck.PDFOptions{Resolution: cfg.PDF.Resolution},
		Logger:      logger,
	}, nil
}

// LoadFonts loads the configured fonts, falling back to the embedded ones.
func LoadFonts(cfg config.Config) (*imagepkg.Fonts, error) {
	return imagepkg.LoadFonts(
		imagepkg.FontSpec{Path: cfg.Fonts.Minor, Size: cfg.Fonts.MinorSize},
		imagepkg.FontSpec{Path: cfg.Fonts.Major, Size: cfg.Fonts.MajorSize},
	)
}

// CardLayout returns the card geometry for cfg.
func CardLayout(cfg config.Config) imagepkg.CardLayout {
	l := imagepkg.DefaultCardLayout(cfg.Card.Width, cfg.Card.Height)
	l.WrapWidth = cfg.Layout.WrapWidth
	return l
}

// PageLayout returns the index page geometry for cfg.
func PageLayout(cfg config.Config) imagepkg.PageLayout {
	l := imagepkg.DefaultPageLayout(cfg.Card.Width, cfg.Card.Height)
	l.PerPage = cfg.Layout.IndexPerPage
	l.Top = cfg.Layout.IndexTop
	l.Left = cfg.Layout.IndexLeft
	l.LineHeight = cfg.Layout.IndexLineHeight
	return l
}

// Execute runs the whole pipeline over records. Records that fail are
// reported in the result and do not stop the run. Errors from the stores,
// page rendering or the PDF export abort it, as does cancelling ctx.
func (r *Runner) Execute(ctx context.Context, records []sites.Record) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString(), Records: len(records)}
	logger := r.Logger.With("run", result.RunID[:8])

	valid, invalid := sites.Partition(records)
	for _, inv := range invalid {
		logger.Warn("skipping record", "row", inv.Record.Row+1, "err", inv.Err)
		result.fail(inv.Record, StageValidate, inv.Err)
	}

	for _, rec := range valid {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := r.card(ctx, logger, rec, result); err != nil {
			return result, err
		}
	}

	if err := r.renderPages(ctx, logger, records, result); err != nil {
		return result, err
	}

	names, err := r.Output.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list output: %w", err)
	}
	pages, skipped := deck.Sequence(names)
	for _, name := range skipped {
		logger.Debug("ignoring output file", "name", name)
	}
	result.Pages = pages
	result.Skipped = skipped

	if r.Document != "" {
		if err := deck.ExportPDF(ctx, r.Document, r.Output, pages, r.PDF); err != nil {
			return result, fmt.Errorf("export pdf: %w", err)
		}
		result.Document = r.Document
		logger.Info("wrote document", "path", r.Document, "pages", len(pages))
	}

	result.Stats.Duration = time.Since(start)
	logger.Info("run complete",
		"composed", result.Stats.Composed,
		"existing", result.Stats.Existing,
		"failed", len(result.Failures),
		"duration", result.Stats.Duration.Round(time.Millisecond))
	return result, nil
}

// card produces the card for one record. A failure of the record itself is
// recorded in result; the returned error is reserved for run-level failures.
func (r *Runner) card(ctx context.Context, logger *log.Logger, rec sites.Record, result *Result) error {
	name := rec.Name()
	logger = logger.With("row", rec.Row+1, "url", rec.URL)

	if !r.Refresh {
		done, err := r.Output.Exists(ctx, name)
		if err != nil {
			return fmt.Errorf("check card %s: %w", name, err)
		}
		if done {
			logger.Debug("card exists")
			result.Stats.Existing++
			return nil
		}
	}

	shot, err := r.screenshot(ctx, logger, rec, &result.Stats)
	if err != nil {
		return r.recordFailure(ctx, logger, rec, StageScreenshot, err, result)
	}
	qr, err := r.qrCode(ctx, rec, &result.Stats)
	if err != nil {
		return r.recordFailure(ctx, logger, rec, StageQR, err, result)
	}

	card, err := r.Compositor.ComposeCard(shot, qr, rec.URL, rec.Description)
	if err != nil {
		return r.recordFailure(ctx, logger, rec, StageCompose, err, result)
	}
	if err := r.Output.Save(ctx, name, card); err != nil {
		return fmt.Errorf("save card %s: %w", name, err)
	}
	result.Stats.Composed++
	logger.Info("composed card", "name", name)
	return nil
}

// recordFailure logs a per-record failure. Cancellation is passed up so
// that an interrupted fetch stops the run rather than skipping the record.
func (r *Runner) recordFailure(ctx context.Context, logger *log.Logger, rec sites.Record, stage string, err error, result *Result) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	if errors.Is(err, errRunLevel) {
		return err
	}
	logger.Warn("skipping record", "stage", stage, "err", err)
	result.fail(rec, stage, err)
	return nil
}

// errRunLevel marks store failures that must abort the run.
var errRunLevel = errors.New("store failure")

func (r *Runner) screenshot(ctx context.Context, logger *log.Logger, rec sites.Record, stats *Stats) (image.Image, error) {
	name := rec.Name()
	if !r.Refresh {
		ok, err := r.Screenshots.Exists(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errRunLevel, err)
		}
		if ok {
			img, err := r.Screenshots.Load(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("cached screenshot: %w", err)
			}
			stats.ScreenshotsCached++
			return img, nil
		}
	}

	retry := r.Retry
	retry.OnRetry = func(attempt int, err error) {
		logger.Warn("screenshot failed, retrying", "attempt", attempt, "err", err)
	}
	img, err := screenshot.Fetch(ctx, r.Renderer, rec.URL, retry)
	if err != nil {
		return nil, err
	}
	if err := r.Screenshots.Save(ctx, name, img); err != nil {
		return nil, fmt.Errorf("%w: save screenshot: %w", errRunLevel, err)
	}
	stats.ScreenshotsFetched++
	return img, nil
}

func (r *Runner) qrCode(ctx context.Context, rec sites.Record, stats *Stats) (image.Image, error) {
	name := rec.Name()
	if !r.Refresh {
		ok, err := r.QRCodes.Exists(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errRunLevel, err)
		}
		if ok {
			img, err := r.QRCodes.Load(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("cached qr code: %w", err)
			}
			stats.QRCached++
			return img, nil
		}
	}

	img, err := r.QR.Encode(rec.URL)
	if err != nil {
		return nil, err
	}
	if err := r.QRCodes.Save(ctx, name, img); err != nil {
		return nil, fmt.Errorf("%w: save qr code: %w", errRunLevel, err)
	}
	stats.QREncoded++
	return img, nil
}

// renderPages writes the title pages and the index pages. Like cards, a
// page already in the output store is kept unless Refresh is set.
func (r *Runner) renderPages(ctx context.Context, logger *log.Logger, records []sites.Record, result *Result) error {
	for i, n := 0, max(r.TitlePages, 0); i < n; i++ {
		wrote, err := r.savePage(ctx, deck.TitlePage(i), func() (image.Image, error) {
			return r.Pages.RenderTitlePage(r.Background), nil
		})
		if err != nil {
			return err
		}
		result.Stats.TitlePages++
		if !wrote {
			result.Stats.PagesExisting++
		}
	}

	for i, page := range imagepkg.Paginate(records, r.Pages.Layout().PerPage) {
		wrote, err := r.savePage(ctx, deck.IndexPage(i), func() (image.Image, error) {
			return r.Pages.RenderIndexPage(r.Background, sites.URLs(page))
		})
		if err != nil {
			return err
		}
		result.Stats.IndexPages++
		if !wrote {
			result.Stats.PagesExisting++
		}
	}
	logger.Info("rendered pages",
		"title", result.Stats.TitlePages,
		"index", result.Stats.IndexPages,
		"existing", result.Stats.PagesExisting)
	return nil
}

// savePage renders and stores page unless it already exists. It reports
// whether the page was written.
func (r *Runner) savePage(ctx context.Context, page deck.PageID, render func() (image.Image, error)) (bool, error) {
	name := page.Name()
	if !r.Refresh {
		ok, err := r.Output.Exists(ctx, name)
		if err != nil {
			return false, fmt.Errorf("check %s: %w", name, err)
		}
		if ok {
			return false, nil
		}
	}
	img, err := render()
	if err != nil {
		return false, fmt.Errorf("render %s: %w", name, err)
	}
	if err := r.Output.Save(ctx, name, img); err != nil {
		return false, fmt.Errorf("save %s: %w", name, err)
	}
	return true, nil
}
