package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-formatter/constants"
	"github.com/joseph-ayodele/invoice-formatter/internal/common"
	"github.com/joseph-ayodele/invoice-formatter/internal/extract"
	"github.com/joseph-ayodele/invoice-formatter/internal/ingest"
	"github.com/joseph-ayodele/invoice-formatter/internal/journal"
	"github.com/joseph-ayodele/invoice-formatter/internal/metrics"
	"github.com/joseph-ayodele/invoice-formatter/internal/poller"
	"github.com/joseph-ayodele/invoice-formatter/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	logger.Info("starting invoice json formatter",
		"endpoint", cfg.Store.EndpointURL,
		"region", cfg.Store.Region,
		"bucket", cfg.Store.Bucket,
		"poll_interval", cfg.Poller.Interval,
		"target_columns", cfg.Extract.TargetColumns,
	)
	logger.Info("namespace layout",
		"intake", cfg.Store.Bucket+"/"+constants.IntakePrefix,
		"output", cfg.Store.Bucket+"/"+constants.OutputPrefix,
		"error", cfg.Store.Bucket+"/"+constants.ErrorPrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.NewMinioStore(cfg.Store, logger)
	if err != nil {
		logger.Error("connecting to object store", "error", err)
		os.Exit(1)
	}
	if err := st.EnsureBucket(ctx); err != nil {
		logger.Error("ensuring bucket", "error", err)
		os.Exit(1)
	}

	var jnl *journal.Journal
	if cfg.Journal.Path != "" {
		jnl, err = journal.Open(cfg.Journal.Path, logger)
		if err != nil {
			logger.Error("opening journal", "path", cfg.Journal.Path, "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := jnl.Close(); cerr != nil {
				logger.Warn("closing journal", "error", cerr)
			}
		}()
		logger.Info("journal enabled", "path", cfg.Journal.Path)
	}

	if cfg.Metrics.Addr != "" {
		go metrics.Serve(ctx, cfg.Metrics.Addr, logger)
	}

	if cfg.Ingest.DropDir != "" {
		events, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Dir:         cfg.Ingest.DropDir,
			InitialScan: true,
			Debounce:    cfg.Ingest.Debounce,
		}, logger)
		if err != nil {
			logger.Error("starting drop-directory watcher", "dir", cfg.Ingest.DropDir, "error", err)
			os.Exit(1)
		}
		uploader := ingest.NewUploader(st, logger)
		go uploader.Run(ctx, events)
		logger.Info("drop-directory ingest enabled", "dir", cfg.Ingest.DropDir)
	}

	leases := store.NewLeaseManager(st, logger)
	proc := extract.NewProcessor(cfg.Extract.TargetColumns, logger)

	poller.New(leases, proc, jnl, cfg.Poller.Interval, logger).Run(ctx)
	logger.Info("invoice json formatter stopped")
}
