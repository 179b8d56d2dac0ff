package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/manoj7569971307/wine-sub000/internal/domain/scan"
	"github.com/manoj7569971307/wine-sub000/pkg/config"
)

func main() {
	confirm := flag.Bool("confirm", false, "commit the matched batch to the ledger")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger, flag.Arg(0), *confirm); err != nil {
		logger.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, scanPath string, confirm bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	deps, err := InitDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := deps.Ledger.Load(ctx); err != nil {
		return err
	}

	if scanPath != "" {
		return scanFile(ctx, deps, scanPath, confirm)
	}

	if err := deps.Scheduler.Start(); err != nil {
		return err
	}
	logger.Info("inventory service running", slog.String("shop_id", cfg.Scan.ShopID))

	<-ctx.Done()
	logger.Info("shutting down")
	return deps.Ledger.Flush(context.Background())
}

// scanFile runs one document through the pipeline and optionally commits the
// matched batch.
func scanFile(ctx context.Context, deps *Dependencies, path string, confirm bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	res, err := deps.ScanService.Scan(ctx, data)
	if err != nil {
		var dup *scan.DuplicateDocumentError
		if errors.As(err, &dup) {
			deps.Logger.Warn("document already processed", slog.String("identifier", dup.Identifier))
			return nil
		}
		return err
	}

	for _, ln := range res.Table.Lines {
		deps.Logger.Info("parsed line",
			slog.String("brand_number", ln.BrandNumber),
			slog.String("brand_name", ln.BrandName),
			slog.String("qty_cases", ln.QtyCases),
			slog.String("total", ln.Total))
	}
	deps.Logger.Info("scan complete",
		slog.String("identifier", res.Identifier),
		slog.Int("matched", res.Batch.MatchedCount),
		slog.Float64("total_amount", res.Batch.TotalAmount))

	if !confirm {
		deps.Logger.Info("batch not committed; rerun with -confirm to commit")
		return nil
	}
	deps.ScanService.Confirm(res.Batch)
	return deps.Ledger.Flush(ctx)
}
