// Command export renders every extraction result in the output
// namespace into one XLSX workbook.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-formatter/internal/common"
	"github.com/joseph-ayodele/invoice-formatter/internal/export"
	"github.com/joseph-ayodele/invoice-formatter/internal/store"
)

func main() {
	out := flag.String("out", "line-items.xlsx", "output workbook path")
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := store.NewMinioStore(cfg.Store, logger)
	if err != nil {
		log.Fatalf("connecting to store: %v", err)
	}

	svc := export.NewService(st, logger)
	workbook, err := svc.ExportLineItemsXLSX(ctx, cfg.Extract.TargetColumns)
	if err != nil {
		log.Fatalf("exporting line items: %v", err)
	}

	if err := os.WriteFile(*out, workbook, 0o644); err != nil {
		log.Fatalf("writing %s: %v", *out, err)
	}
	log.Printf("workbook written to %s", *out)
}
