package session

import (
	"context"

	"github.com/agentstation/kitstash/pkg/consistency"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
	"github.com/agentstation/kitstash/pkg/records"
	"github.com/agentstation/kitstash/pkg/store"
)

// PaintSession edits one paint or mix. It is not safe for concurrent use.
type PaintSession struct {
	lib     *Library
	working records.Paint
	isNew   bool
	closed  bool
}

func newPaintSession(lib *Library, paint records.Paint, isNew bool) *PaintSession {
	paint.MixParts = append([]records.MixPart(nil), paint.MixParts...)
	return &PaintSession{lib: lib, working: paint, isNew: isNew}
}

// Paint returns a copy of the working paint.
func (s *PaintSession) Paint() records.Paint {
	p := s.working
	p.MixParts = append([]records.MixPart(nil), s.working.MixParts...)
	return p
}

// IsNew reports whether the paint has not been stored yet.
func (s *PaintSession) IsNew() bool {
	return s.isNew
}

// Closed reports whether the session was saved or canceled.
func (s *PaintSession) Closed() bool {
	return s.closed
}

// Edit applies fn to the working copy.
func (s *PaintSession) Edit(fn func(paint *records.Paint)) error {
	if s.closed {
		return errors.ErrSessionClosed
	}
	fn(&s.working)
	return nil
}

// AddIngredient adds a stored paint to the mix recipe.
func (s *PaintSession) AddIngredient(paintID string, parts int) error {
	if s.closed {
		return errors.ErrSessionClosed
	}
	paint, err := consistency.AddMixPart(s.working, paintID, parts, s.lib.Index().Paints())
	if err != nil {
		return err
	}
	s.working = paint
	return nil
}

// RemoveIngredient drops an ingredient from the recipe.
func (s *PaintSession) RemoveIngredient(paintID string) error {
	if s.closed {
		return errors.ErrSessionClosed
	}
	s.working = consistency.RemoveMixPart(s.working, paintID)
	return nil
}

// Ingredients resolves the recipe against the current snapshot.
func (s *PaintSession) Ingredients() []consistency.Ingredient {
	return consistency.MixIngredients(s.working, s.lib.Index().Paints())
}

// Complete reports whether every ingredient is in stock.
func (s *PaintSession) Complete() bool {
	return s.lib.Index().MixComplete(s.working)
}

// Duplicate returns a stored paint with the same brand and code, if any.
func (s *PaintSession) Duplicate() *records.Paint {
	return consistency.FindDuplicatePaint(s.working, s.lib.Index().Paints(), s.working.ID)
}

// Save validates the working copy and writes it to the store. A duplicate
// is reported by Duplicate but does not block the save. If the write fails
// the session stays open with its data intact.
func (s *PaintSession) Save(ctx context.Context) (string, error) {
	if s.closed {
		return "", errors.ErrSessionClosed
	}
	if err := s.working.Validate(); err != nil {
		return "", err
	}
	if s.working.IsMix && len(s.working.MixParts) == 0 {
		return "", errors.NewValidationError("mix_parts", 0, "a mix needs at least one ingredient")
	}

	id, err := store.Save(ctx, s.lib.store, records.CollectionPaints, s.working)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("paint", s.working.Label()).Msg("Failed to save paint")
		return "", err
	}
	s.working.ID = id
	s.isNew = false
	s.closed = true
	logging.FromContext(logging.WithPaint(ctx, id)).Debug().Msg("Saved paint")
	return id, nil
}

// Cancel discards the working copy.
func (s *PaintSession) Cancel() {
	s.closed = true
}
