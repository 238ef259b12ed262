package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	tcimage "github.com/jmylchreest/tapcolour/internal/image"
	"github.com/jmylchreest/tapcolour/internal/security"
	"github.com/jmylchreest/tapcolour/internal/server"
)

func newServeCmd(cfg *Config) *cobra.Command {
	var (
		addr            string
		shutdownTimeout time.Duration
		framesDir       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the capture pipeline over HTTP",
		Long: `Start an HTTP server exposing capture sessions.

A session binds one frame source to one capture controller, the way a
camera screen owns its camera. Overlapping captures on the same session
are rejected with 409 Conflict.

Session sources are untrusted. Paths must resolve inside --frames-dir and
URLs must be public HTTPS endpoints. Redirects and connections to local or
private addresses are refused.

Endpoints:
  GET    /health
  GET    /convert/{hex}
  POST   /sessions                   {"source": "frame.jpg"}
  GET    /sessions/{id}
  POST   /sessions/{id}/capture      {"tap": {"x": 150, "y": 300}, "view": {"width": 400, "height": 800}}
  DELETE /sessions/{id}/result
  DELETE /sessions/{id}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cfg.Logger(cmd.ErrOrStderr()).Named("serve")

			api := server.New(func(source string) (server.Session, error) {
				resolved, err := resolveSessionSource(source, framesDir)
				if err != nil {
					return nil, err
				}
				opts := cfg.pipelineOptions()
				opts.PublicOnly = true
				c, err := newController(resolved, opts, logger)
				if err != nil {
					return nil, err
				}
				return c, nil
			}, logger)

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server failed: %w", err)
			case <-cmd.Context().Done():
			}

			logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&framesDir, "frames-dir", ".", "directory session paths are resolved against")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Second, "grace period for in-flight requests")
	cmd.Flags().IntVarP(&cfg.Window, "window", "w", cfg.Window, "sampling window size (1 or 3)")
	cmd.Flags().StringVarP(&cfg.Strategy, "strategy", "s", cfg.Strategy, "sampling strategy (decode, dominant)")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "bound on photo capture and decode (0 disables)")
	cmd.Flags().BoolVar(&cfg.Cache, "cache", cfg.Cache, "download URL frames to the cache before sampling")
	cmd.Flags().StringVar(&cfg.CacheDir, "cache-dir", cfg.CacheDir, "frame cache directory (default: user cache dir)")

	return cmd
}

// resolveSessionSource checks a client-supplied frame source.
func resolveSessionSource(source, framesDir string) (string, error) {
	if tcimage.IsURL(source) {
		if err := security.ValidateFrameURL(source); err != nil {
			return "", err
		}
		return source, nil
	}
	return security.ResolveFramePath(source, framesDir)
}
