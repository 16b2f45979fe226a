package cmd

import (
	"context"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/config"
	"github.com/creativehub205/ladies-tailor-shop/internal/database"
	"github.com/creativehub205/ladies-tailor-shop/internal/repository"
	"github.com/creativehub205/ladies-tailor-shop/internal/service"
	"github.com/creativehub205/ladies-tailor-shop/internal/session"
	"github.com/creativehub205/ladies-tailor-shop/internal/storage"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// loadConfig loads the configuration or exits
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

// openDatabase connects to the SQLite file and brings the schema up to date.
// A failed migration is fatal.
func openDatabase(cfg *config.Config) (database.DB, *database.MigrationReport) {
	log.WithField("path", cfg.Database.Path).Info("Opening database...")
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := database.AutoMigrate(ctx, db, log)
	if err != nil {
		db.Close()
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	log.WithFields(logrus.Fields{
		"orders_migrated":       report.OrdersMigrated,
		"rows_copied":           report.RowsCopied,
		"customer_ids_repaired": report.CustomerIDsRepaired,
		"unresolved_orders":     report.UnresolvedOrders,
	}).Info("Database schema is up to date")
	return db, report
}

// newService wires the repository, image store and session manager
func newService(cfg *config.Config, db database.DB, revocations session.RevocationStore) (service.Service, error) {
	images, err := storage.NewDiskStore(cfg.Storage.UploadDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare upload directory")
	}

	return service.NewService(service.ServiceConfig{
		Repository: repository.NewRepository(db),
		Images:     images,
		Sessions:   session.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, revocations),
		Logger:     log,
		BcryptCost: cfg.Auth.BcryptCost,
		DefaultTailor: service.DefaultTailor{
			Username: cfg.Auth.DefaultUsername,
			Password: cfg.Auth.DefaultPassword,
			ShopName: cfg.Auth.DefaultShopName,
		},
	})
}
