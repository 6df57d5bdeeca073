package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/config"
	"github.com/Carmen-Shannon/oxy-storefront/engine"
	"github.com/Carmen-Shannon/oxy-storefront/engine/cache"
	"github.com/Carmen-Shannon/oxy-storefront/engine/loader"
	"github.com/Carmen-Shannon/oxy-storefront/engine/renderer"
	"github.com/Carmen-Shannon/oxy-storefront/engine/window"
	"github.com/Carmen-Shannon/oxy-storefront/storefront"

	"github.com/spf13/cobra"
)

func newViewCommand(cfg *config.Config) *cobra.Command {
	var (
		socketURL string
		offline   bool
		watch     bool
		fps       float64
	)

	cmd := &cobra.Command{
		Use:   "view <scene.yaml|scene.toml|scene.json>",
		Short: "Open a scene document in a window",
		Long: `Open a scene document in a window.

Controls:
  W/A/S/D          - Move (after the entrance)
  Q/E              - Down/up
  Right drag       - Look around
  Left drag        - Move an object; the new position is saved and shared
  Shift+left drag  - Rotate an object
  Esc              - Quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if socketURL == "" {
				socketURL = cfg.SocketURL
			}
			if offline {
				socketURL = ""
			}
			return runView(cmd.Context(), cfg, args[0], socketURL, watch, fps)
		},
	}
	cmd.Flags().StringVar(&socketURL, "socket", "", "hub websocket URL (default $OXY_SOCKET_URL)")
	cmd.Flags().BoolVar(&offline, "offline", false, "do not join the scene's room")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the scene document when it changes on disk")
	cmd.Flags().Float64Var(&fps, "fps", 0, "frame rate cap, 0 for uncapped")
	return cmd
}

func runView(parent context.Context, cfg *config.Config, path, socketURL string, watch bool, fps float64) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cache.ConfigureDefaults(cfg.AssetCacheSize); err != nil {
		return fmt.Errorf("asset cache: %w", err)
	}

	w := window.NewWindow(
		window.WithTitle("Storefront - "+path),
		window.WithSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	eng := engine.NewEngine(
		engine.WithWindow(w),
		engine.WithProfiling(cfg.Profile),
		engine.WithFrameLimit(fps),
	)
	assets := loader.NewLoader(
		loader.WithPoster(eng),
		loader.WithWorkers(cfg.AssetWorkers),
		loader.WithTimeout(cfg.FetchTimeout),
	)
	defer assets.Close()

	options := []storefront.ViewerBuilderOption{
		storefront.WithEngine(eng),
		storefront.WithLoader(assets),
		storefront.WithRendererFactory(func() (renderer.Renderer, error) {
			return renderer.NewRenderer(renderer.BackendTypeWGPU, w), nil
		}),
	}
	if socketURL != "" {
		options = append(options, storefront.WithSocketURL(socketURL))
	}
	if watch {
		options = append(options, storefront.WithWatch(100*time.Millisecond))
	}

	v, err := storefront.NewViewer(path, options...)
	if err != nil {
		return err
	}
	if err := v.Start(ctx); err != nil {
		v.Close()
		return err
	}
	v.Run(ctx)
	return nil
}
