package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/manoj7569971307/wine-sub000/internal/domain/catalog"
	"github.com/manoj7569971307/wine-sub000/internal/domain/extract"
	"github.com/manoj7569971307/wine-sub000/internal/domain/ledger"
	"github.com/manoj7569971307/wine-sub000/internal/domain/match"
	"github.com/manoj7569971307/wine-sub000/internal/domain/scan"
	"github.com/manoj7569971307/wine-sub000/pkg/config"
	"github.com/manoj7569971307/wine-sub000/pkg/cron"
	"github.com/manoj7569971307/wine-sub000/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Stores
	LedgerStore ledger.Store
	DedupStore  scan.DedupStore
	CatalogRepo *catalog.MemoryRepository

	// Services
	Ledger      *ledger.Ledger
	Matcher     *match.Matcher
	ScanService *scan.Service
	Scheduler   *cron.Scheduler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initStores(); err != nil {
		return nil, fmt.Errorf("failed to init stores: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(); err != nil {
		return err
	}

	d.DB = database
	return nil
}

// initStores initializes the persistence stores and loads the catalog
func (d *Dependencies) initStores() error {
	d.LedgerStore = ledger.NewPostgresStore(d.DB.Pool)
	d.DedupStore = scan.NewPostgresDedupStore(d.DB.Pool)

	entries, err := catalog.LoadFile(d.Config.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalog %s: %w", d.Config.Catalog.Path, err)
	}
	d.CatalogRepo = catalog.NewMemoryRepository(entries)
	d.Logger.Info("catalog loaded",
		slog.String("path", d.Config.Catalog.Path),
		slog.Int("entries", len(entries)))
	return nil
}

// initServices wires the pipeline services
func (d *Dependencies) initServices() error {
	shopID := d.Config.Scan.ShopID
	if shopID == "" {
		return fmt.Errorf("SHOP_ID is required")
	}

	d.Ledger = ledger.New(d.LedgerStore, shopID, d.Config.Scan.DebounceQuiet, d.Logger)
	d.Matcher = match.NewMatcher(d.CatalogRepo, d.Logger)
	d.ScanService = scan.NewService(
		extract.NewPDFDecoder(),
		d.Matcher,
		d.DedupStore,
		d.Ledger,
		shopID,
		d.Logger,
	)
	d.Scheduler = cron.NewScheduler(d.CatalogRepo, d.Config.Catalog.Path, d.Config.Catalog.ReloadCron, d.Logger)

	return nil
}

// Close releases held resources
func (d *Dependencies) Close() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
