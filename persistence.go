package kitstash

import (
	"context"
	"io"
	"time"

	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
	"github.com/agentstation/kitstash/pkg/store"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence handles snapshot export and import.
type Persistence interface {
	// Export writes a JSON snapshot of all collections to w
	Export(ctx context.Context, w io.Writer) error

	// Import reads a JSON snapshot from r
	Import(ctx context.Context, r io.Reader, mode store.ImportMode) (store.ImportStats, error)
}

// Export writes a JSON snapshot of all collections to w.
func (c *client) Export(ctx context.Context, w io.Writer) error {
	snap, err := store.Export(ctx, c.store)
	if err != nil {
		return errors.WrapResource("export", "snapshot", "", err)
	}
	if err := store.WriteSnapshot(w, snap); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().Str("exported_at", snap.ExportedAt.Format(time.RFC3339)).Msg("Snapshot exported")
	return nil
}

// Import reads a JSON snapshot from r and writes it into the store.
func (c *client) Import(ctx context.Context, r io.Reader, mode store.ImportMode) (store.ImportStats, error) {
	snap, err := store.ReadSnapshot(r)
	if err != nil {
		return store.ImportStats{}, err
	}
	stats, err := store.Import(ctx, c.store, snap, mode)
	if err != nil {
		return stats, err
	}
	logging.FromContext(ctx).Info().
		Str("mode", string(mode)).
		Int("created", stats.Created).
		Int("replaced", stats.Replaced).
		Int("deleted", stats.Deleted).
		Msg("Snapshot imported")
	return stats, nil
}
