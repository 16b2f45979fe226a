package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/api"
	"github.com/creativehub205/ladies-tailor-shop/config"
	"github.com/creativehub205/ladies-tailor-shop/internal/cache"
	"github.com/creativehub205/ladies-tailor-shop/internal/janitor"
	"github.com/creativehub205/ladies-tailor-shop/internal/session"
	"github.com/creativehub205/ladies-tailor-shop/internal/telemetry"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	// Serve command flags
	disableNewRelic bool
	disableJanitor  bool
	serverPort      int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Migrates the database, seeds the default tailor account and starts the
HTTP API. The upload janitor runs alongside when enabled.

The server respects the configuration in config.yaml or specified via the --config flag.
It will gracefully shut down on receiving SIGINT or SIGTERM signals.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&disableNewRelic, "disable-newrelic", false, "Disable New Relic monitoring")
	serveCmd.Flags().BoolVar(&disableJanitor, "disable-janitor", false, "Do not sweep orphaned design images")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "Server port (overrides config file)")
}

// revocationStore picks redis when enabled and reachable, memory otherwise
func revocationStore(cfg config.RedisConfig) (session.RevocationStore, func()) {
	if !cfg.Enabled {
		return session.NewMemoryStore(), func() {}
	}

	log.Info("Connecting to Redis...")
	client, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, keeping revoked sessions in memory")
		return session.NewMemoryStore(), func() {}
	}

	return session.NewRedisStore(client), func() {
		log.Info("Closing Redis connection...")
		if err := client.Close(); err != nil {
			log.WithError(err).Error("Error closing Redis connection")
		}
	}
}

// startServer initializes and starts the API server
func startServer() error {
	cfg := loadConfig()
	if serverPort > 0 {
		cfg.Server.Port = serverPort
	}

	log.WithFields(logrus.Fields{
		"port":             cfg.Server.Port,
		"metrics_enabled":  cfg.Metrics.Enabled,
		"newrelic_enabled": cfg.NewRelic.Enabled && !disableNewRelic,
		"janitor_enabled":  cfg.Janitor.Enabled && !disableJanitor,
	}).Info("Initializing service components...")

	db, _ := openDatabase(cfg)
	defer func() {
		log.Info("Closing database connection...")
		if err := db.Close(); err != nil {
			log.WithError(err).Error("Error closing database connection")
		}
	}()

	revocations, closeRevocations := revocationStore(cfg.Redis)
	defer closeRevocations()

	var nrApp *newrelic.Application
	if !disableNewRelic {
		app, err := telemetry.InitNewRelic(cfg.NewRelic)
		if err != nil {
			log.Warnf("Failed to initialize New Relic: %v", err)
		} else if app != nil {
			log.Info("New Relic monitoring initialized successfully")
			nrApp = app
			defer nrApp.Shutdown(5 * time.Second)
		}
	}

	svc, err := newService(cfg, db, revocations)
	if err != nil {
		return errors.Wrap(err, "failed to initialize service")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	created, err := svc.EnsureDefaultTailor(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to seed default tailor")
	}
	if created {
		log.WithField("username", cfg.Auth.DefaultUsername).Warn("Default tailor account created, change its password")
	}

	server := api.NewServer(cfg, log, nrApp, svc)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Janitor.Enabled && !disableJanitor {
		j, err := janitor.New(svc, cfg.Janitor, log)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			return j.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Server shutdown complete")
	return nil
}
