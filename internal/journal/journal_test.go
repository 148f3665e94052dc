package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-formatter/constants"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	require.NoError(t, j.Record(ctx, Entry{
		Key:           "json/invoice_1.json",
		Outcome:       constants.OutcomeProcessed,
		InvoiceNumber: "INV-1",
		Items:         3,
		Duration:      125 * time.Millisecond,
	}))
	require.NoError(t, j.Record(ctx, Entry{
		Key:      "json/broken.json",
		Outcome:  constants.OutcomeError,
		Err:      "decoding broken.json: invalid character",
		Duration: 10 * time.Millisecond,
	}))

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "json/broken.json", entries[0].Key)
	assert.Equal(t, constants.OutcomeError, entries[0].Outcome)
	assert.NotEmpty(t, entries[0].Err)

	assert.Equal(t, "json/invoice_1.json", entries[1].Key)
	assert.Equal(t, constants.OutcomeProcessed, entries[1].Outcome)
	assert.Equal(t, "INV-1", entries[1].InvoiceNumber)
	assert.Equal(t, 3, entries[1].Items)
	assert.Equal(t, 125*time.Millisecond, entries[1].Duration)
	assert.False(t, entries[1].RecordedAt.IsZero())
}

func TestRecentLimit(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, Entry{
			Key:     "json/x.json",
			Outcome: constants.OutcomeSkipped,
		}))
	}

	entries, err := j.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecentEmptyJournal(t *testing.T) {
	j := openTestJournal(t)

	entries, err := j.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
