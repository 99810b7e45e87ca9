package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youruser/sitecards/internal/config"
	"github.com/youruser/sitecards/internal/pipeline"
	"github.com/youruser/sitecards/internal/sites"
)

type buildOptions struct {
	input    string
	output   string
	document string
	renderer string
	endpoint string
	refresh  bool
	noPDF    bool
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [websites.csv]",
		Short: "Generate cards for every website in a CSV file",
		Long: `Build reads a CSV file with url and description columns, takes a screenshot
of each site, composes one card per row and writes title and index pages.
The pages are then bundled into a single PDF.

Screenshots, QR codes and cards that already exist are reused, so an
interrupted build can simply be started again.`,
		Example: `  sitecards build websites.csv
  sitecards build --renderer http --endpoint 'http://shots.local/?url={url}'
  sitecards build --refresh --no-pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.input = args[0]
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := applyBuildOptions(&cfg, opts); err != nil {
				return err
			}
			return c.runBuild(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory for cards and pages")
	cmd.Flags().StringVar(&opts.document, "pdf", "", "path of the PDF document")
	cmd.Flags().StringVar(&opts.renderer, "renderer", "", "screenshot renderer: chrome or http")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "screenshot service URL containing {url}")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate artifacts that already exist")
	cmd.Flags().BoolVar(&opts.noPDF, "no-pdf", false, "skip the PDF document")

	return cmd
}

// applyBuildOptions overrides cfg with the flags that were set.
func applyBuildOptions(cfg *config.Config, opts buildOptions) error {
	if opts.input != "" {
		cfg.Paths.Input = opts.input
	}
	if opts.output != "" {
		cfg.Paths.Output = opts.output
	}
	if opts.document != "" {
		cfg.Paths.Document = opts.document
	}
	if opts.noPDF {
		cfg.Paths.Document = ""
	}
	if opts.renderer != "" {
		cfg.Fetch.Renderer = opts.renderer
	}
	if opts.endpoint != "" {
		cfg.Fetch.Endpoint = opts.endpoint
	}
	return cfg.Validate()
}

func (c *CLI) runBuild(cmd *cobra.Command, cfg config.Config, opts buildOptions) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	records, err := sites.LoadCSV(cfg.Paths.Input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded records", "path", cfg.Paths.Input, "count", len(records))

	renderer, release, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer release()

	runner, err := pipeline.NewRunner(cfg, renderer, c.Logger)
	if err != nil {
		return err
	}
	runner.Refresh = opts.refresh

	result, err := runner.Execute(ctx, records)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %d pages", len(result.Pages)))

	printBuildSummary(cfg, result)
	return nil
}

func printBuildSummary(cfg config.Config, result *pipeline.Result) {
	s := result.Stats
	printSuccess("%s  %s  %s",
		formatCount(s.Composed, "composed"),
		formatCount(s.Existing, "existing"),
		formatCount(len(result.Failures), "failed"))
	for _, f := range result.Failures {
		printWarning("row %d (%s): %s: %v", f.Record.Row+1, f.Record.URL, f.Stage, f.Err)
	}
	printKeyValue("pages", fmt.Sprintf("%d title, %d cards, %d index",
		s.TitlePages, s.Composed+s.Existing, s.IndexPages))
	printDetail("Output: %s", cfg.Paths.Output)
	if result.Document != "" {
		printFile(result.Document)
	}
}
