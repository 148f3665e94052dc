package poller

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-formatter/internal/extract"
	"github.com/joseph-ayodele/invoice-formatter/internal/store"
)

const sampleDoc = `{
	"tables": [
		{"data": {"grid": [
			[{"text": "Description"}, {"text": "Gross worth"}],
			[{"text": "Widget"}, {"text": "10.00"}],
			[{"text": "Gadget"}, {"text": "20.00"}]
		]}}
	],
	"texts": [{"text": "Invoice No: INV-2024-001"}]
}`

func newTestPoller(mem *store.MemStore) *Poller {
	leases := store.NewLeaseManager(mem, nil)
	proc := extract.NewProcessor([]string{"Description", "Gross worth"}, nil)
	return New(leases, proc, nil, time.Second, nil)
}

func TestRunOnceProcessesIntakeFile(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	require.NoError(t, mem.Put(ctx, "json/invoice_1.json", []byte(sampleDoc), ""))

	require.NoError(t, newTestPoller(mem).RunOnce(ctx))

	out, err := mem.Get(ctx, "json-line-items/invoice_1.json")
	require.NoError(t, err)

	var result extract.Result
	require.NoError(t, json.Unmarshal(out, &result))
	assert.Equal(t, "INV-2024-001", result.InvoiceNumber)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Widget", result.Items[0]["Description"])

	// Intake and marker are gone; only the result remains.
	assert.Equal(t, 1, mem.Len())
}

func TestRunOnceRoutesDecodeFailureToErrorNamespace(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	original := []byte(`{"tables": [broken`)
	require.NoError(t, mem.Put(ctx, "json/broken.json", original, ""))

	require.NoError(t, newTestPoller(mem).RunOnce(ctx))

	moved, err := mem.Get(ctx, "error/broken.json")
	require.NoError(t, err)
	assert.Equal(t, original, moved, "error namespace must hold the original bytes unchanged")
	assert.Equal(t, 1, mem.Len())
}

func TestRunOnceDiscardsNonDocumentFiles(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	require.NoError(t, mem.Put(ctx, "json/notes.txt", []byte("hello"), ""))

	require.NoError(t, newTestPoller(mem).RunOnce(ctx))

	// No output, no error object, no marker: cleanup only.
	assert.Equal(t, 0, mem.Len())
}

func TestRunOnceWritesSparseResultToOutput(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	require.NoError(t, mem.Put(ctx, "json/no_tables.json", []byte(`{"texts": []}`), ""))

	require.NoError(t, newTestPoller(mem).RunOnce(ctx))

	out, err := mem.Get(ctx, "json-line-items/no_tables.json")
	require.NoError(t, err, "a sparse result still goes to the output namespace")
	var result extract.Result
	require.NoError(t, json.Unmarshal(out, &result))
	assert.Equal(t, "", result.InvoiceNumber)
	assert.Empty(t, result.Items)
}

func TestRunOncePerKeyIsolation(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	require.NoError(t, mem.Put(ctx, "json/a_broken.json", []byte(`nope`), ""))
	require.NoError(t, mem.Put(ctx, "json/b_good.json", []byte(sampleDoc), ""))

	require.NoError(t, newTestPoller(mem).RunOnce(ctx))

	_, err := mem.Get(ctx, "error/a_broken.json")
	require.NoError(t, err)
	_, err = mem.Get(ctx, "json-line-items/b_good.json")
	require.NoError(t, err, "failure on one key must not abort the batch")
}

func TestRunOnceSkipsAlreadyClaimedKeys(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemStore()
	require.NoError(t, mem.Put(ctx, "json/taken.json.in-use", []byte(sampleDoc), ""))

	require.NoError(t, newTestPoller(mem).RunOnce(ctx))

	// The marker belongs to another attempt; leave it alone.
	_, err := mem.Get(ctx, "json/taken.json.in-use")
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Len())
}

type failingListStore struct {
	store.ObjectStore
}

func (f *failingListStore) List(context.Context, string) ([]string, error) {
	return nil, errors.New("service unavailable")
}

func TestRunOnceReturnsListingError(t *testing.T) {
	leases := store.NewLeaseManager(&failingListStore{store.NewMemStore()}, nil)
	proc := extract.NewProcessor([]string{"Description"}, nil)
	p := New(leases, proc, nil, time.Second, nil)

	err := p.RunOnce(context.Background())
	require.Error(t, err)
}

func TestRunOnceHonorsCancellationBetweenKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mem := store.NewMemStore()
	require.NoError(t, mem.Put(context.Background(), "json/later.json", []byte(sampleDoc), ""))

	require.NoError(t, newTestPoller(mem).RunOnce(ctx))

	// Nothing was claimed: the file is untouched for the next run.
	_, err := mem.Get(context.Background(), "json/later.json")
	require.NoError(t, err)
}

func TestRunStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mem := store.NewMemStore()
	p := newTestPoller(mem)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}
