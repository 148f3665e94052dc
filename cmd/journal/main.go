// Command journal prints recent processing attempts from the local
// journal database.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/invoice-formatter/internal/common"
	"github.com/joseph-ayodele/invoice-formatter/internal/journal"
)

func main() {
	limit := flag.Int("limit", 20, "number of attempts to print")
	flag.Parse()

	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if cfg.Journal.Path == "" {
		log.Println("ERROR: JOURNAL_PATH env var is required")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	jnl, err := journal.Open(cfg.Journal.Path, logger)
	if err != nil {
		log.Fatalf("opening journal: %v", err)
	}
	defer func() {
		if cerr := jnl.Close(); cerr != nil {
			log.Printf("ERROR: closing journal: %v", cerr)
		}
	}()

	entries, err := jnl.Recent(context.Background(), *limit)
	if err != nil {
		log.Fatalf("reading journal: %v", err)
	}

	log.Printf("attempts: %d", len(entries))
	for _, e := range entries {
		switch {
		case e.Err != "":
			log.Printf("- [%s] %s %s (%s): %s", e.RecordedAt.Format("2006-01-02 15:04:05"), e.Outcome, e.Key, e.Duration, e.Err)
		default:
			log.Printf("- [%s] %s %s (%s): invoice=%q items=%d", e.RecordedAt.Format("2006-01-02 15:04:05"), e.Outcome, e.Key, e.Duration, e.InvoiceNumber, e.Items)
		}
	}
}
