// Package config holds the immutable run configuration for sitecards.
//
// A Config is built once (defaults, optionally overlaid by a TOML file and
// command-line flags), validated, and then passed by value into every
// component constructor. Nothing in the module reads configuration from
// package-level state.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values mirror what the print service expects.
const (
	DefaultCardWidth  = 1311
	DefaultCardHeight = 1819

	DefaultInput       = "websites.csv"
	DefaultScreenshots = "tmp_screenshots"
	DefaultQRCodes     = "tmp_qr-codes"
	DefaultOutput      = "output"
	DefaultDocument    = "cards.pdf"

	DefaultMinorSize = 25.0
	DefaultMajorSize = 40.0

	DefaultWrapWidth       = 34
	DefaultIndexPerPage    = 26
	DefaultIndexLineHeight = 60
	DefaultIndexTop        = 200
	DefaultIndexLeft       = 100
	DefaultTitlePages      = 1

	DefaultAttempts = 3
	DefaultTimeout  = 30 * time.Second

	DefaultResolution = 100.0

	RendererChrome = "chrome"
	RendererHTTP   = "http"
)

// Config is the complete configuration of a run.
type Config struct {
	Card   Card   `toml:"card"`
	Paths  Paths  `toml:"paths"`
	Fonts  Fonts  `toml:"fonts"`
	Layout Layout `toml:"layout"`
	Fetch  Fetch  `toml:"fetch"`
	PDF    PDF    `toml:"pdf"`
	Serve  Serve  `toml:"serve"`
}

// Card is the pixel size of a card before rotation.
type Card struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Paths lists the working directories and files.
type Paths struct {
	Input       string `toml:"input"`
	Screenshots string `toml:"screenshots"`
	QRCodes     string `toml:"qrcodes"`
	Output      string `toml:"output"`
	Background  string `toml:"background"` // empty: plain white
	Document    string `toml:"document"`
}

// Fonts selects the lighter body font and the bold heading font.
// Empty paths fall back to the embedded Go fonts.
type Fonts struct {
	Minor     string  `toml:"minor"`
	MinorSize float64 `toml:"minor_size"`
	Major     string  `toml:"major"`
	MajorSize float64 `toml:"major_size"`
}

// Layout controls text wrapping and index/title pages.
type Layout struct {
	WrapWidth       int `toml:"wrap_width"`
	IndexPerPage    int `toml:"index_per_page"`
	IndexLineHeight int `toml:"index_line_height"`
	IndexTop        int `toml:"index_top"`
	IndexLeft       int `toml:"index_left"`
	TitlePages      int `toml:"title_pages"`
}

// Fetch configures screenshot capture.
type Fetch struct {
	Renderer string        `toml:"renderer"` // "chrome" or "http"
	Endpoint string        `toml:"endpoint"` // HTTP renderer URL template containing {url}
	Attempts int           `toml:"attempts"`
	Delay    time.Duration `toml:"delay"`
	Timeout  time.Duration `toml:"timeout"`
}

// PDF configures the final document.
type PDF struct {
	Resolution float64 `toml:"resolution"` // pixels per inch
}

// Serve configures the preview server.
type Serve struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Card: Card{Width: DefaultCardWidth, Height: DefaultCardHeight},
		Paths: Paths{
			Input:       DefaultInput,
			Screenshots: DefaultScreenshots,
			QRCodes:     DefaultQRCodes,
			Output:      DefaultOutput,
			Document:    DefaultDocument,
		},
		Fonts: Fonts{MinorSize: DefaultMinorSize, MajorSize: DefaultMajorSize},
		Layout: Layout{
			WrapWidth:       DefaultWrapWidth,
			IndexPerPage:    DefaultIndexPerPage,
			IndexLineHeight: DefaultIndexLineHeight,
			IndexTop:        DefaultIndexTop,
			IndexLeft:       DefaultIndexLeft,
			TitlePages:      DefaultTitlePages,
		},
		Fetch: Fetch{
			Renderer: RendererChrome,
			Attempts: DefaultAttempts,
			Timeout:  DefaultTimeout,
		},
		PDF:   PDF{Resolution: DefaultResolution},
		Serve: Serve{Addr: ":8080"},
	}
}

// Load reads a TOML file on top of the defaults.
// Keys missing from the file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks every setting and returns all problems joined into one error.
func (c Config) Validate() error {
	var errs []error
	if c.Card.Width <= 0 || c.Card.Height <= 0 {
		errs = append(errs, fmt.Errorf("card size must be positive, got %dx%d", c.Card.Width, c.Card.Height))
	}
	if c.Paths.Screenshots == "" || c.Paths.QRCodes == "" || c.Paths.Output == "" {
		errs = append(errs, errors.New("screenshot, qrcode and output directories are required"))
	}
	if c.Fonts.MinorSize <= 0 || c.Fonts.MajorSize <= 0 {
		errs = append(errs, errors.New("font sizes must be positive"))
	}
	if c.Layout.WrapWidth < 1 {
		errs = append(errs, fmt.Errorf("wrap width must be at least 1, got %d", c.Layout.WrapWidth))
	}
	if c.Layout.IndexPerPage < 1 {
		errs = append(errs, fmt.Errorf("index page capacity must be at least 1, got %d", c.Layout.IndexPerPage))
	}
	if c.Layout.TitlePages < 0 {
		errs = append(errs, fmt.Errorf("title pages must not be negative, got %d", c.Layout.TitlePages))
	}
	if c.Fetch.Attempts < 1 {
		errs = append(errs, fmt.Errorf("fetch attempts must be at least 1, got %d", c.Fetch.Attempts))
	}
	switch c.Fetch.Renderer {
	case RendererChrome:
	case RendererHTTP:
		if c.Fetch.Endpoint == "" {
			errs = append(errs, errors.New("http renderer needs fetch.endpoint"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown renderer %q", c.Fetch.Renderer))
	}
	if c.PDF.Resolution <= 0 {
		errs = append(errs, errors.New("pdf resolution must be positive"))
	}
	return errors.Join(errs...)
}
