package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-formatter/internal/store"
)

func TestUploadFileMovesIntoIntake(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()

	dir := t.TempDir()
	local := filepath.Join(dir, "invoice_7.json")
	require.NoError(t, os.WriteFile(local, []byte(`{"texts": []}`), 0o644))

	u := NewUploader(mem, nil)
	require.NoError(t, u.UploadFile(ctx, local))

	data, err := mem.Get(ctx, "json/invoice_7.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"texts": []}`), data)

	_, err = os.Stat(local)
	assert.True(t, os.IsNotExist(err), "local file should be removed after upload")
}

func TestUploadFileMissingLocalFile(t *testing.T) {
	u := NewUploader(store.NewMemStore(), nil)
	err := u.UploadFile(context.Background(), filepath.Join(t.TempDir(), "gone.json"))
	require.Error(t, err)
}

func TestRunConsumesEvents(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()

	dir := t.TempDir()
	local := filepath.Join(dir, "dropped.json")
	require.NoError(t, os.WriteFile(local, []byte(`{}`), 0o644))

	events := make(chan string, 1)
	events <- local
	close(events)

	NewUploader(mem, nil).Run(ctx, events)

	_, err := mem.Get(ctx, "json/dropped.json")
	require.NoError(t, err)
}
