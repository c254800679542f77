package consistency

import (
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/records"
)

// AddMixPart returns a copy of paint with one more ingredient. The
// ingredient must be an existing paint other than paint itself, must not be
// in the recipe already, and ratio must be positive. Name, code and brand of
// the ingredient are copied into the part as they are now; later edits to
// the ingredient do not change the recipe.
func AddMixPart(paint records.Paint, ingredientID string, ratio int, allPaints []records.Paint) (records.Paint, error) {
	if ingredientID == "" {
		return paint, errors.NewValidationError("paint_id", ingredientID, "select an ingredient paint")
	}
	if ingredientID == paint.ID {
		return paint, errors.NewValidationError("paint_id", ingredientID, "a mix cannot contain itself")
	}
	if ratio <= 0 {
		return paint, errors.NewValidationError("parts", ratio, "ratio must be a positive integer")
	}
	for _, part := range paint.MixParts {
		if part.PaintID == ingredientID {
			return paint, errors.NewValidationError("paint_id", ingredientID, "ingredient is already in the recipe")
		}
	}

	ingredient, ok := byID(allPaints)[ingredientID]
	if !ok {
		return paint, errors.NewNotFoundError("paint", ingredientID)
	}

	out := paint
	out.IsMix = true
	out.MixParts = append(append([]records.MixPart(nil), paint.MixParts...), records.MixPart{
		PaintID: ingredient.ID,
		Parts:   ratio,
		Name:    ingredient.Name,
		Code:    ingredient.Code,
		Brand:   ingredient.Brand,
	})
	return out, nil
}

// RemoveMixPart returns a copy of paint without the part for ingredientID.
// Removing an ingredient that is not in the recipe returns the paint
// unchanged.
func RemoveMixPart(paint records.Paint, ingredientID string) records.Paint {
	out := paint
	out.MixParts = make([]records.MixPart, 0, len(paint.MixParts))
	for _, part := range paint.MixParts {
		if part.PaintID != ingredientID {
			out.MixParts = append(out.MixParts, part)
		}
	}
	if len(out.MixParts) == 0 {
		out.MixParts = nil
	}
	return out
}
