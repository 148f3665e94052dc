// Command extract runs the extraction transform against one local
// document-JSON file and prints (or writes) the result, without
// touching the object store.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/invoice-formatter/internal/common"
	"github.com/joseph-ayodele/invoice-formatter/internal/extract"
)

func main() {
	file := flag.String("file", "", "path to a document JSON file (required)")
	columns := flag.String("columns", "", "comma-separated target columns (default: Description, Gross worth)")
	out := flag.String("out", "", "write result JSON here instead of stdout")
	flag.Parse()

	if *file == "" {
		log.Println("ERROR: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	targets := common.DefaultTargetColumns
	if *columns != "" {
		targets = nil
		for _, c := range strings.Split(*columns, ",") {
			if c = strings.TrimSpace(c); c != "" {
				targets = append(targets, c)
			}
		}
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("reading %s: %v", *file, err)
	}

	proc := extract.NewProcessor(targets, logger)
	result, err := proc.Process(filepath.Base(*file), data)
	if err != nil {
		log.Fatalf("processing %s: %v", *file, err)
	}
	if result == nil {
		log.Fatalf("%s is not a document JSON file", *file)
	}

	payload, err := result.Encode()
	if err != nil {
		log.Fatalf("encoding result: %v", err)
	}

	if *out != "" {
		if err := os.WriteFile(*out, payload, 0o644); err != nil {
			log.Fatalf("writing %s: %v", *out, err)
		}
		log.Printf("result written to %s (%d items)", *out, len(result.Items))
		return
	}
	fmt.Println(string(payload))
}
