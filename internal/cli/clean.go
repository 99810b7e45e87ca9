package cli

import (
	"github.com/spf13/cobra"

	"github.com/youruser/sitecards/internal/store"
)

// cleanCommand removes cached intermediates so the next build starts fresh.
func (c *CLI) cleanCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove cached screenshots and QR codes",
		Long: `Clean deletes the screenshots and QR codes kept between builds.
With --all the generated cards and pages are removed as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dirs := []string{cfg.Paths.Screenshots, cfg.Paths.QRCodes}
			if all {
				dirs = append(dirs, cfg.Paths.Output)
			}

			total := 0
			for _, dir := range dirs {
				s, err := store.NewFileStore(dir)
				if err != nil {
					return err
				}
				n, err := s.Clear(cmd.Context())
				if err != nil {
					return err
				}
				c.Logger.Debug("cleared", "dir", dir, "files", n)
				total += n
			}

			if total == 0 {
				printInfo("Nothing to clean")
				return nil
			}
			printSuccess("Removed %d files", total)
			for _, dir := range dirs {
				printDetail("Directory: %s", dir)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also remove generated cards and pages")
	return cmd
}
