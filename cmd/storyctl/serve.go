package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sufield/storyline/internal/adapters/inbound/httpapi"
	"github.com/sufield/storyline/internal/adapters/outbound/inmemory"
	"github.com/sufield/storyline/internal/debug"
	"github.com/sufield/storyline/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(g *globals) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development story endpoint",
		Long: `Run an HTTP server that accepts multipart story uploads on ` + httpapi.StoriesPath + `
and lists the received stories. Stories are kept in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.cfg
			logger, err := logging.New(logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Debug:  debug.Active.Enabled,
				Caller: cfg.Log.Caller,
			})
			if err != nil {
				return err
			}
			if debug.Active.Enabled {
				debug.InitLogger(logger)
			}

			listen := cfg.Server.ListenAddr
			if addr != "" {
				listen = addr
			}
			srv, err := httpapi.New(httpapi.Config{
				Addr:              listen,
				MaxUploadBytes:    cfg.Server.MaxUploadBytes,
				RateLimit:         cfg.Server.RateLimit,
				Burst:             cfg.Server.Burst,
				ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
				ReadTimeout:       cfg.Server.ReadTimeout,
				WriteTimeout:      cfg.Server.WriteTimeout,
				IdleTimeout:       cfg.Server.IdleTimeout,
				DebugRoutes:       debug.Active.Routes,
			}, inmemory.NewStoryRepository(), logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "story endpoint listening on http://%s%s\n", srv.Addr(), httpapi.StoriesPath)

			<-ctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override server.listen_addr")
	return cmd
}
