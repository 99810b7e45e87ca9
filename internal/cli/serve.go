package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/youruser/sitecards/internal/api"
	imagepkg "github.com/youruser/sitecards/internal/image"
	"github.com/youruser/sitecards/internal/pipeline"
	"github.com/youruser/sitecards/internal/screenshot"
	"github.com/youruser/sitecards/internal/store"
)

const shutdownTimeout = 5 * time.Second

// serveCommand runs the preview server until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the card preview server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}

			renderer, release, err := newRenderer(cfg)
			if err != nil {
				return err
			}
			defer release()

			fonts, err := pipeline.LoadFonts(cfg)
			if err != nil {
				return err
			}
			out, err := store.NewFileStore(cfg.Paths.Output)
			if err != nil {
				return err
			}

			if c.Logger.GetLevel() > LogDebug {
				gin.SetMode(gin.ReleaseMode)
			}
			router := api.NewRouter(&api.Server{
				Compositor: imagepkg.NewCompositor(pipeline.CardLayout(cfg), fonts),
				QR:         imagepkg.NewQREncoder(),
				Renderer:   renderer,
				Retry:      screenshot.Retry{Attempts: cfg.Fetch.Attempts, Delay: cfg.Fetch.Delay},
				Output:     out,
				WrapWidth:  cfg.Layout.WrapWidth,
				Logger:     c.Logger,
			})

			printTitle(appName + " preview")
			printKeyValue("listening", cfg.Serve.Addr)
			return serve(cmd.Context(), &http.Server{Addr: cfg.Serve.Addr, Handler: router})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
