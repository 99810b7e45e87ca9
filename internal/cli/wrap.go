package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	imagepkg "github.com/youruser/sitecards/internal/image"
)

// wrapCommand previews how a description is broken into card lines.
func (c *CLI) wrapCommand() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "wrap <text>...",
		Short: "Show how a description wraps on a card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width == 0 {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				width = cfg.Layout.WrapWidth
			}
			if width < 1 {
				return fmt.Errorf("width must be at least 1, got %d", width)
			}
			for _, line := range imagepkg.Wrap(strings.Join(args, " "), width) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", 0, "maximum characters per line (default from config)")
	return cmd
}
