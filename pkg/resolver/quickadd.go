package resolver

import (
	"github.com/agentstation/kitstash/pkg/records"
)

// QuickAdd builds a new paint record from a catalog entry. The color type
// comes from the entry or, failing that, from the code prefix; the thinner
// comes from the matching spec. An invalid status defaults to in_stock.
func (r *Resolver) QuickAdd(entry Entry, status records.PaintStatus) records.Paint {
	if !status.Valid() {
		status = records.PaintInStock
	}

	colorType := entry.ColorType
	if colorType == "" {
		colorType = r.TypeForCode(entry.Brand, entry.Code)
	}

	code := entry.DisplayCode
	if code == "" {
		code = entry.Code
	}
	brand := entry.BrandName
	if brand == "" {
		brand = entry.Brand
	}

	paint := records.Paint{
		ID:        records.NewID(),
		Brand:     brand,
		Code:      code,
		Name:      entry.Name,
		ColorType: colorType,
		Finish:    entry.Finish,
		Hex:       entry.Hex,
		Status:    status,
	}
	if spec := r.SpecsForType(entry.Brand, colorType); spec != nil {
		paint.Thinner = spec.Thinner
	}
	return paint
}
