// Command storehealth checks object-store connectivity and reports how
// many objects sit in each namespace.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-formatter/constants"
	"github.com/joseph-ayodele/invoice-formatter/internal/common"
	"github.com/joseph-ayodele/invoice-formatter/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if cfg.Store.EndpointURL == "" {
		log.Println("ERROR: S3_ENDPOINT_URL env var is required")
		log.Println("  mac/Linux (bash/zsh): export S3_ENDPOINT_URL=http://localhost:9000")
		log.Println("  Windows (PowerShell): $env:S3_ENDPOINT_URL='http://localhost:9000'")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	st, err := store.NewMinioStore(cfg.Store, logger)
	if err != nil {
		log.Fatalf("connecting to store: %v", err)
	}
	if err := st.EnsureBucket(ctx); err != nil {
		log.Fatalf("store health: FAIL (%v)", err)
	}
	log.Printf("store health: OK (bucket %s)", st.Bucket())

	for _, prefix := range []string{constants.IntakePrefix, constants.OutputPrefix, constants.ErrorPrefix} {
		keys, err := st.List(ctx, prefix)
		if err != nil {
			log.Fatalf("listing %s: %v", prefix, err)
		}
		log.Printf("- %s %d object(s)", prefix, len(keys))
	}
}
