// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/manoj7569971307/wine-sub000/internal/domain/catalog"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron        *cron.Cron
	repo        *catalog.MemoryRepository
	catalogPath string
	spec        string
	logger      *slog.Logger
}

// NewScheduler creates a scheduler that reloads the catalog price list from
// catalogPath on the given cron spec (standard 5-field format).
func NewScheduler(repo *catalog.MemoryRepository, catalogPath, spec string, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:        c,
		repo:        repo,
		catalogPath: catalogPath,
		spec:        spec,
		logger:      logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.reloadCatalog)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
		slog.String("spec", s.spec),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the catalog reload (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.reloadCatalog()
}

// reloadCatalog swaps the in-memory catalog for the current price list.
func (s *Scheduler) reloadCatalog() {
	s.logger.Info("starting catalog reload", slog.String("path", s.catalogPath))

	entries, err := catalog.LoadFile(s.catalogPath)
	if err != nil {
		s.logger.Error("failed to reload catalog", slog.Any("error", err))
		return
	}

	s.repo.Replace(entries)
	s.logger.Info("catalog reload completed", slog.Int("entries", len(entries)))
}
