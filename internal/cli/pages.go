package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youruser/sitecards/internal/deck"
	"github.com/youruser/sitecards/internal/store"
)

// pagesCommand lists the output directory in print order.
func (c *CLI) pagesCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List generated pages in print order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Paths.Output = output
			}
			out, err := store.NewFileStore(cfg.Paths.Output)
			if err != nil {
				return err
			}
			names, err := out.List(cmd.Context())
			if err != nil {
				return err
			}
			pages, skipped := deck.Sequence(names)
			w := cmd.OutOrStdout()
			for _, p := range pages {
				fmt.Fprintln(w, out.Path(p.Name()))
			}
			for _, name := range skipped {
				c.Logger.Warn("not a page", "name", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	return cmd
}
