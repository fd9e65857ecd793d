package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/candidate-concierge/concierge/internal/analytics"
	"github.com/candidate-concierge/concierge/internal/concierge"
	"github.com/candidate-concierge/concierge/internal/dashboard"
	"github.com/candidate-concierge/concierge/internal/interactions"
	"github.com/candidate-concierge/concierge/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and web chat",
	Long:  `Starts the concierge HTTP server: POST /ask, POST /feedback, GET /health, the interaction history and analytics endpoints, and the web chat page.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.log.Sync() //nolint:errcheck

	database, store, err := openInteractions(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	svc := concierge.New(a.resolver, store, a.log.Named("concierge"))

	port := a.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}
	srv := server.New(server.Config{
		Port:           port,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		RequestTimeout: a.cfg.Server.RequestTimeout,
	}, a.log)
	registerRoutes(srv, svc, store, a.log)

	a.log.Info("concierge starting",
		zap.String("version", Version),
		zap.String("subject", a.kb.Subject),
		zap.String("database", database.Location()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// registerRoutes mounts every feature on the server.
func registerRoutes(srv *server.Server, svc *concierge.Service, store *interactions.Store, log *zap.Logger) {
	api := srv.API()

	concierge.RegisterRoutes(api, svc)
	interactions.RegisterRoutes(api, store)
	analytics.RegisterRoutes(api, analytics.New(store))

	dash := dashboard.New(svc, store, log)
	dash.RegisterRoutes(srv.Router(), api)
}
