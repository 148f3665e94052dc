// Package ingest feeds the intake namespace from a local drop
// directory, so producers without store credentials can hand files to
// the pipeline.
package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joseph-ayodele/invoice-formatter/constants"
)

type WatchConfig struct {
	Dir         string        // directory to watch (recursive)
	InitialScan bool          // if true, walk the dir and emit existing files
	Debounce    time.Duration // coalesce rapid update/rename bursts
}

// StartWatcher emits paths of document-JSON files appearing under the
// configured directory until ctx is cancelled.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Dir == "" {
		return nil, errors.New("no drop directory provided")
	}

	evCh := make(chan string, 256)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, err
	}

	// Watch the tree; optionally emit what is already there.
	err = filepath.WalkDir(cfg.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return w.Add(path)
		}
		if cfg.InitialScan && constants.IsDocumentJSON(path) {
			select {
			case evCh <- path:
			default:
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("failed to add drop directory", "dir", cfg.Dir, "error", err)
		_ = w.Close()
		return nil, err
	}

	go func() {
		defer close(evCh)
		defer func() {
			if cerr := w.Close(); cerr != nil {
				logger.Warn("closing watcher", "error", cerr)
			}
		}()

		var timer *time.Timer
		pending := map[string]struct{}{}

		sendPending := func() {
			for p := range pending {
				select {
				case evCh <- p:
				default:
				}
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case e := <-w.Events:
				if e.Op&fsnotify.Create == fsnotify.Create {
					// New subdirectories join the watch; for files the
					// add fails and is ignored.
					_ = w.Add(e.Name)
				}
				if constants.IsDocumentJSON(e.Name) && (e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename)) != 0 {
					pending[e.Name] = struct{}{}
					if cfg.Debounce > 0 {
						if timer != nil {
							timer.Stop()
						}
						timer = time.AfterFunc(cfg.Debounce, sendPending)
					} else {
						sendPending()
					}
				}
			case werr := <-w.Errors:
				logger.Error("watcher error", "error", werr)
			}
		}
	}()

	return evCh, nil
}
