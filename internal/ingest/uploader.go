package ingest

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/joseph-ayodele/invoice-formatter/constants"
	"github.com/joseph-ayodele/invoice-formatter/internal/store"
)

// Uploader moves dropped files into the intake namespace.
type Uploader struct {
	store  store.ObjectStore
	logger *slog.Logger
}

func NewUploader(st store.ObjectStore, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{store: st, logger: logger}
}

// UploadFile reads one local file and writes it under the intake
// prefix, keyed by basename. The local file is removed only after the
// upload succeeds, so a failed upload is retried on the next event.
func (u *Uploader) UploadFile(ctx context.Context, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	key := constants.IntakePrefix + path.Base(filepath.ToSlash(localPath))
	if err := u.store.Put(ctx, key, data, "application/json"); err != nil {
		return err
	}
	u.logger.Info("uploaded dropped file to intake", "path", localPath, "key", key)
	if err := os.Remove(localPath); err != nil {
		u.logger.Warn("could not remove uploaded drop file", "path", localPath, "error", err)
	}
	return nil
}

// Run consumes watcher events until the channel closes or ctx is
// cancelled. Upload failures are logged and the file left in place.
func (u *Uploader) Run(ctx context.Context, events <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-events:
			if !ok {
				return
			}
			if err := u.UploadFile(ctx, p); err != nil {
				u.logger.Error("drop-file upload failed", "path", p, "error", err)
			}
		}
	}
}
