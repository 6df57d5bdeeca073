package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-storefront/config"
	"github.com/Carmen-Shannon/oxy-storefront/realtime/hub"

	"github.com/spf13/cobra"
)

func newServeCommand(cfg *config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the realtime hub that scene rooms sync through",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.ListenAddr
			}
			return runServe(cmd.Context(), cfg, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $OXY_LISTEN_ADDR)")
	return cmd
}

func runServe(parent context.Context, cfg *config.Config, addr string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	options := []hub.HubBuilderOption{hub.WithMaxUsers(cfg.MaxUsers)}
	if cfg.ValkeyAddr != "" {
		store, err := hub.NewValkeyStore(cfg.ValkeyAddr, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("occupancy store: %w", err)
		}
		log.Printf("[Hub] sharing occupancy through valkey at %s", cfg.ValkeyAddr)
		options = append(options, hub.WithStore(store))
	}
	return hub.Serve(ctx, addr, hub.NewHub(options...))
}
