package session

import (
	"context"

	"github.com/agentstation/kitstash/pkg/consistency"
	"github.com/agentstation/kitstash/pkg/enrichment"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
	"github.com/agentstation/kitstash/pkg/records"
	"github.com/agentstation/kitstash/pkg/store"
)

// Enricher runs an enrichment. *enrichment.Pipeline implements it.
type Enricher interface {
	Run(ctx context.Context, url string) (enrichment.Result, error)
}

// KitSession edits one kit. It is not safe for concurrent use.
type KitSession struct {
	lib     *Library
	working records.Kit
	isNew   bool
	closed  bool
}

func newKitSession(lib *Library, kit records.Kit, isNew bool) *KitSession {
	return &KitSession{lib: lib, working: kit.Clone(), isNew: isNew}
}

// Kit returns a copy of the working kit.
func (s *KitSession) Kit() records.Kit {
	return s.working.Clone()
}

// IsNew reports whether the kit has not been stored yet.
func (s *KitSession) IsNew() bool {
	return s.isNew
}

// Closed reports whether the session was saved or canceled.
func (s *KitSession) Closed() bool {
	return s.closed
}

// Edit applies fn to the working copy.
func (s *KitSession) Edit(fn func(kit *records.Kit)) error {
	if s.closed {
		return errors.ErrSessionClosed
	}
	fn(&s.working)
	return nil
}

// Indicators evaluates the working copy against the current library
// snapshot.
func (s *KitSession) Indicators() consistency.KitIndicators {
	return s.lib.Index().Evaluate(s.working)
}

// Enrich runs e for url and merges the result into the working copy. On
// failure the working copy is left as it was and the returned error carries
// the failure category.
func (s *KitSession) Enrich(ctx context.Context, e Enricher, url string) (enrichment.Result, error) {
	if s.closed {
		return enrichment.Result{}, errors.ErrSessionClosed
	}
	res, err := e.Run(ctx, url)
	if err != nil {
		return res, err
	}
	s.working = enrichment.ApplyToKit(s.working, res.Kit)
	return res, nil
}

// Save sanitizes the working copy and writes it to the store, creating the
// kit or replacing the whole stored record. Advisory warnings never block a
// save. If the write fails the session stays open with its data intact.
func (s *KitSession) Save(ctx context.Context) (string, error) {
	if s.closed {
		return "", errors.ErrSessionClosed
	}
	kit := consistency.SanitizeKit(s.working, s.lib.Index().Paints())
	if kit.Status == "" {
		kit.Status = records.KitNew
	}
	if !kit.Status.Valid() {
		return "", errors.NewValidationError("status", kit.Status, "unknown kit status")
	}

	id, err := store.Save(ctx, s.lib.store, records.CollectionKits, kit)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("kit", kit.Label()).Msg("Failed to save kit")
		return "", err
	}
	kit.ID = id
	s.working = kit
	s.isNew = false
	s.closed = true
	logging.FromContext(logging.WithKit(ctx, id)).Debug().Msg("Saved kit")
	return id, nil
}

// Cancel discards the working copy.
func (s *KitSession) Cancel() {
	s.closed = true
}
