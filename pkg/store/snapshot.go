package store

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"slices"

	"github.com/agentstation/utc"

	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
	"github.com/agentstation/kitstash/pkg/records"
)

// SnapshotVersion is the current export format version.
const SnapshotVersion = 1

// Collections lists the collections exported by default.
var Collections = []string{records.CollectionPaints, records.CollectionKits, records.CollectionProjects}

// Snapshot is a whole-store export.
type Snapshot struct {
	Version     int                          `json:"version"`
	ExportedAt  utc.Time                     `json:"exported_at"`
	Collections map[string][]json.RawMessage `json:"collections"`
}

// ImportMode selects how an import treats existing documents.
type ImportMode string

// Import modes
const (
	// ImportReplace empties each imported collection first.
	ImportReplace ImportMode = "replace"
	// ImportMerge keeps existing documents and overwrites those with the
	// same id.
	ImportMerge ImportMode = "merge"
)

// Valid reports whether m is a known mode.
func (m ImportMode) Valid() bool {
	return m == ImportReplace || m == ImportMerge
}

// ImportStats counts what an import did.
type ImportStats struct {
	Created  int `json:"created"`
	Replaced int `json:"replaced"`
	Deleted  int `json:"deleted"`
}

// Export copies the given collections, or Collections when none are named.
func Export(ctx context.Context, s Store, collections ...string) (*Snapshot, error) {
	if len(collections) == 0 {
		collections = Collections
	}
	snap := &Snapshot{
		Version:     SnapshotVersion,
		ExportedAt:  utc.Now(),
		Collections: make(map[string][]json.RawMessage, len(collections)),
	}
	for _, c := range collections {
		docs, err := s.List(ctx, c)
		if err != nil {
			return nil, err
		}
		bodies := make([]json.RawMessage, 0, len(docs))
		for _, doc := range docs {
			bodies = append(bodies, doc.Body)
		}
		snap.Collections[c] = bodies
	}
	return snap, nil
}

// Import writes a snapshot into s.
func Import(ctx context.Context, s Store, snap *Snapshot, mode ImportMode) (ImportStats, error) {
	var stats ImportStats
	if snap == nil {
		return stats, errors.NewValidationError("snapshot", nil, "snapshot is required")
	}
	if !mode.Valid() {
		return stats, errors.NewValidationError("mode", mode, "import mode must be replace or merge")
	}
	if snap.Version > SnapshotVersion {
		return stats, errors.NewValidationError("version", snap.Version, "snapshot is newer than this version of kitstash")
	}

	logger := logging.FromContext(ctx)
	for _, c := range slices.Sorted(maps.Keys(snap.Collections)) {
		if mode == ImportReplace {
			existing, err := s.List(ctx, c)
			if err != nil {
				return stats, err
			}
			for _, doc := range existing {
				if err := s.Delete(ctx, c, doc.ID); err != nil {
					return stats, err
				}
				stats.Deleted++
			}
		}

		for _, body := range snap.Collections[c] {
			f, err := decodeFields(body)
			if err != nil {
				return stats, err
			}
			id := f.id()
			if id != "" {
				if _, err := s.Get(ctx, c, id); err == nil {
					if err := s.Replace(ctx, c, id, f); err != nil {
						return stats, err
					}
					stats.Replaced++
					continue
				} else if !errors.IsNotFound(err) {
					return stats, err
				}
			}
			if _, err := s.Create(ctx, c, f); err != nil {
				return stats, err
			}
			stats.Created++
		}
		logger.Debug().Str("collection", c).Str("mode", string(mode)).Int("documents", len(snap.Collections[c])).Msg("Imported collection")
	}
	return stats, nil
}

// WriteSnapshot encodes snap as indented JSON.
func WriteSnapshot(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return errors.WrapIO("write", "snapshot", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.WrapParse("json", "snapshot", err)
	}
	if snap.Collections == nil {
		snap.Collections = make(map[string][]json.RawMessage)
	}
	return &snap, nil
}
