// Package cli implements the sitecards command-line interface.
//
// Commands:
//   - build: screenshot every site in the CSV and assemble the card deck
//   - pages: list the output directory in print order
//   - wrap: preview how a description breaks into card lines
//   - serve: run the HTTP preview server
//   - clean: remove cached screenshots and QR codes
//
// All commands accept --config to overlay a TOML file on the defaults and
// --verbose for debug logging.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/youruser/sitecards/internal/buildinfo"
	"github.com/youruser/sitecards/internal/config"
	"github.com/youruser/sitecards/internal/screenshot"
)

const appName = "sitecards"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sitecards turns a list of websites into printable cards",
		Long:         `Sitecards takes a screenshot of every website in a CSV file and composes print-ready cards with a QR code, the URL and a short description, plus title and index pages, bundled into one PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.pagesCommand())
	root.AddCommand(c.wrapCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cleanCommand())

	return root
}

// loadConfig returns the defaults, overlaid by --config when given.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.Load(c.configPath)
}

// newRenderer builds the configured screenshot renderer. The returned
// function releases it.
func newRenderer(cfg config.Config) (screenshot.Renderer, func(), error) {
	switch cfg.Fetch.Renderer {
	case config.RendererHTTP:
		h, err := screenshot.NewHTTP(cfg.Fetch.Endpoint, cfg.Fetch.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return h, func() {}, nil
	default:
		ch := screenshot.NewChrome(screenshot.ChromeOptions{Timeout: cfg.Fetch.Timeout})
		return ch, func() { ch.Close() }, nil
	}
}
