package store

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/joseph-ayodele/invoice-formatter/constants"
)

// Destination is one of the terminal namespaces a claimed object can be
// relocated to.
type Destination int

const (
	// DestinationOutput receives the extraction result JSON.
	DestinationOutput Destination = iota
	// DestinationError receives the claimed object's original bytes.
	DestinationError
)

// Lease is a transient claim on an intake key, held for the duration of
// one processing attempt. The marker object IS the lease; nothing is
// persisted elsewhere.
type Lease struct {
	OriginalKey string
	MarkerKey   string
}

// Basename returns the claimed object's base filename, without the
// in-use suffix.
func (l *Lease) Basename() string {
	return strings.TrimSuffix(path.Base(l.MarkerKey), constants.InUseSuffix)
}

// LeaseManager claims intake keys by relocating them to in-use marker
// keys and later settles them into the output or error namespace.
//
// Claiming is copy-then-delete: two non-atomic store operations. If the
// process dies between them the object may exist at both, neither, or
// only one location. Under concurrent pollers both may copy before
// either deletes, producing two markers and double-processing; the
// marker convention is advisory, not a lock. Accepted for single-poller
// deployments.
type LeaseManager struct {
	store  ObjectStore
	logger *slog.Logger
}

func NewLeaseManager(store ObjectStore, logger *slog.Logger) *LeaseManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaseManager{store: store, logger: logger}
}

// Candidates lists intake keys eligible for claiming, skipping
// namespace markers and keys already claimed by a prior or concurrent
// attempt.
func (m *LeaseManager) Candidates(ctx context.Context) ([]string, error) {
	keys, err := m.store.List(ctx, constants.IntakePrefix)
	if err != nil {
		return nil, err
	}
	candidates := keys[:0]
	for _, key := range keys {
		if strings.HasSuffix(key, "/") || strings.HasSuffix(key, constants.InUseSuffix) {
			continue
		}
		candidates = append(candidates, key)
	}
	return candidates, nil
}

// Claim copies the object at key to its in-use marker key and deletes
// the original. Any store error aborts the attempt for this key only.
func (m *LeaseManager) Claim(ctx context.Context, key string) (*Lease, error) {
	markerKey := constants.IntakePrefix + path.Base(key) + constants.InUseSuffix
	m.logger.Info("marking file as in-use", "key", key, "marker_key", markerKey)

	if err := m.store.Copy(ctx, key, markerKey); err != nil {
		return nil, err
	}
	if err := m.store.Delete(ctx, key); err != nil {
		return nil, err
	}
	m.logger.Info("removed original file", "key", key)
	return &Lease{OriginalKey: key, MarkerKey: markerKey}, nil
}

// Fetch reads the claimed object's full body.
func (m *LeaseManager) Fetch(ctx context.Context, lease *Lease) ([]byte, error) {
	return m.store.Get(ctx, lease.MarkerKey)
}

// Settle relocates the claimed object to its terminal namespace and
// clears the marker. For DestinationOutput the payload is written to
// the output namespace under the original basename with the extension
// normalized to .json; for DestinationError the marker's bytes are
// copied to the error namespace unchanged. Marker removal is
// unconditional cleanup: attempted even when the relocation fails, and
// its own failure is reported but non-fatal.
func (m *LeaseManager) Settle(ctx context.Context, lease *Lease, dest Destination, payload []byte) error {
	var settleErr error
	switch dest {
	case DestinationOutput:
		outKey := constants.OutputPrefix + stem(lease.Basename()) + ".json"
		m.logger.Info("storing result", "marker_key", lease.MarkerKey, "output_key", outKey)
		if err := m.store.Put(ctx, outKey, payload, "application/json"); err != nil {
			m.logger.Error("failed to upload result", "output_key", outKey, "error", err)
			settleErr = err
		}
	case DestinationError:
		errKey := constants.ErrorPrefix + lease.Basename()
		m.logger.Info("moving failed file to error namespace", "marker_key", lease.MarkerKey, "error_key", errKey)
		if err := m.store.Copy(ctx, lease.MarkerKey, errKey); err != nil {
			m.logger.Error("could not move file to error namespace", "marker_key", lease.MarkerKey, "error", err)
			settleErr = err
		}
	}

	m.Release(ctx, lease)
	return settleErr
}

// Release deletes the marker object. Best-effort: a failure here is
// logged and swallowed so the attempt's outcome is not changed by
// cleanup.
func (m *LeaseManager) Release(ctx context.Context, lease *Lease) {
	if err := m.store.Delete(ctx, lease.MarkerKey); err != nil {
		m.logger.Warn("could not delete in-use marker", "marker_key", lease.MarkerKey, "error", err)
		return
	}
	m.logger.Info("removed in-use marker", "marker_key", lease.MarkerKey)
}

// stem strips the final extension from a filename.
func stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
