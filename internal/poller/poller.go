// Package poller drives the claim/process/relocate pipeline against
// the intake namespace.
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-formatter/constants"
	"github.com/joseph-ayodele/invoice-formatter/internal/extract"
	"github.com/joseph-ayodele/invoice-formatter/internal/journal"
	"github.com/joseph-ayodele/invoice-formatter/internal/metrics"
	"github.com/joseph-ayodele/invoice-formatter/internal/store"
)

// Poller lists intake keys, claims them one at a time, and settles each
// into the output or error namespace. Files are processed strictly
// sequentially; a failure in one key's pipeline never aborts the batch.
type Poller struct {
	leases   *store.LeaseManager
	proc     *extract.Processor
	journal  *journal.Journal // nil disables journaling
	interval time.Duration
	logger   *slog.Logger
}

func New(leases *store.LeaseManager, proc *extract.Processor, jnl *journal.Journal, interval time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		leases:   leases,
		proc:     proc,
		journal:  jnl,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. Listing failures are transient: the
// loop logs, sleeps, and retries rather than terminating. Cancellation
// is honored between keys and at the sleep boundary; it is an orderly
// exit, not an error.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poller started", "interval", p.interval)
	for {
		if err := p.RunOnce(ctx); err != nil {
			p.logger.Error("listing intake namespace failed, retrying after sleep", "error", err)
			metrics.PollCyclesTotal.WithLabelValues("failure").Inc()
		} else {
			metrics.PollCyclesTotal.WithLabelValues("success").Inc()
		}

		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return
		case <-time.After(p.interval):
		}
	}
}

// RunOnce performs a single list-and-process pass, so tests can drive
// exactly one iteration deterministically. It returns only loop-scoped
// errors (listing failures); per-key failures are settled and logged
// inside the pass.
func (p *Poller) RunOnce(ctx context.Context) error {
	keys, err := p.leases.Candidates(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if ctx.Err() != nil {
			return nil
		}
		p.logger.Info("found file to process", "key", key)
		p.processKey(ctx, key)
	}
	return nil
}

// processKey runs one key through claim → fetch → process → settle.
// Whatever happens after a successful claim, the in-use marker is
// cleared before control returns.
func (p *Poller) processKey(ctx context.Context, key string) {
	start := time.Now()
	logger := p.logger.With("key", key, "attempt_id", uuid.NewString())

	lease, err := p.leases.Claim(ctx, key)
	if err != nil {
		// Skip this cycle; the key is re-listed next pass if it is
		// still in the intake namespace.
		logger.Error("claim failed, skipping key this cycle", "error", err)
		return
	}

	data, err := p.leases.Fetch(ctx, lease)
	if err != nil {
		logger.Error("fetch failed", "error", err)
		p.settleError(ctx, logger, lease, start, err)
		return
	}

	result, err := p.proc.Process(key, data)
	if err != nil {
		logger.Error("processing failed", "error", err)
		p.settleError(ctx, logger, lease, start, err)
		return
	}

	if result == nil {
		// Not a document JSON: discard the marker, write nothing.
		p.leases.Release(ctx, lease)
		p.record(ctx, logger, journal.Entry{
			Key:      key,
			Outcome:  constants.OutcomeSkipped,
			Duration: time.Since(start),
		})
		return
	}

	payload, err := result.Encode()
	if err != nil {
		logger.Error("encoding result failed", "error", err)
		p.settleError(ctx, logger, lease, start, err)
		return
	}

	if err := p.leases.Settle(ctx, lease, store.DestinationOutput, payload); err != nil {
		// The marker is already cleared, so the object now exists in
		// neither namespace. Accepted, logged data-loss edge case.
		logger.Error("settle failed after successful extraction, data may be lost", "error", err)
		p.record(ctx, logger, journal.Entry{
			Key:      key,
			Outcome:  constants.OutcomeError,
			Err:      err.Error(),
			Duration: time.Since(start),
		})
		return
	}

	logger.Info("processing completed",
		"invoice_number", result.InvoiceNumber,
		"items", len(result.Items),
		"duration", time.Since(start),
	)
	p.record(ctx, logger, journal.Entry{
		Key:           key,
		Outcome:       constants.OutcomeProcessed,
		InvoiceNumber: result.InvoiceNumber,
		Items:         len(result.Items),
		Duration:      time.Since(start),
	})
}

// settleError relocates the claimed bytes to the error namespace.
func (p *Poller) settleError(ctx context.Context, logger *slog.Logger, lease *store.Lease, start time.Time, cause error) {
	if err := p.leases.Settle(ctx, lease, store.DestinationError, nil); err != nil {
		// Both the processing path and the error relocation failed;
		// the object survives only if the marker delete also failed.
		logger.Error("could not relocate file to error namespace, data may be lost", "error", err)
	}
	p.record(ctx, logger, journal.Entry{
		Key:      lease.OriginalKey,
		Outcome:  constants.OutcomeError,
		Err:      cause.Error(),
		Duration: time.Since(start),
	})
}

// record observes metrics and appends to the journal when enabled.
func (p *Poller) record(ctx context.Context, logger *slog.Logger, e journal.Entry) {
	switch e.Outcome {
	case constants.OutcomeProcessed:
		metrics.FilesProcessedTotal.WithLabelValues("processed").Inc()
	case constants.OutcomeError:
		metrics.FilesProcessedTotal.WithLabelValues("error").Inc()
	case constants.OutcomeSkipped:
		metrics.FilesProcessedTotal.WithLabelValues("skipped").Inc()
	}
	metrics.ProcessingDuration.Observe(e.Duration.Seconds())

	if p.journal == nil {
		return
	}
	if err := p.journal.Record(ctx, e); err != nil {
		logger.Warn("journal record failed", "error", err)
	}
}
