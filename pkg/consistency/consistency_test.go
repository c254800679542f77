package consistency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/kitstash/pkg/records"
)

func paint(id string, status records.PaintStatus) records.Paint {
	return records.Paint{ID: id, Brand: "Tamiya", Code: id, Name: "Paint " + id, Status: status}
}

func mix(id string, parts ...string) records.Paint {
	p := records.Paint{ID: id, Name: "Mix " + id, IsMix: true, Status: records.PaintWanted}
	for _, part := range parts {
		p.MixParts = append(p.MixParts, records.MixPart{PaintID: part, Parts: 1})
	}
	return p
}

func TestMixCompleteRegularPaint(t *testing.T) {
	for _, status := range []records.PaintStatus{records.PaintInStock, records.PaintLow, records.PaintWanted, records.PaintEmpty} {
		t.Run(string(status), func(t *testing.T) {
			p := paint("p1", status)
			assert.Equal(t, status == records.PaintInStock, MixComplete(p, nil))
		})
	}
}

func TestMixComplete(t *testing.T) {
	all := []records.Paint{
		paint("a", records.PaintInStock),
		paint("b", records.PaintInStock),
		paint("c", records.PaintLow),
	}

	tests := []struct {
		name string
		mix  records.Paint
		want bool
	}{
		{"empty recipe", mix("m"), false},
		{"all in stock", mix("m", "a", "b"), true},
		{"one low", mix("m", "a", "c"), false},
		{"one missing", mix("m", "a", "gone"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MixComplete(tt.mix, all))
		})
	}
}

func TestMixCompleteIsShallow(t *testing.T) {
	inner := mix("inner", "missing")
	inner.Status = records.PaintInStock
	outer := mix("outer", "inner")

	// inner is judged by its own stored status, not by its ingredients
	assert.True(t, MixComplete(outer, []records.Paint{inner}))
	assert.False(t, MixComplete(inner, []records.Paint{inner}))
}

func TestMixIngredients(t *testing.T) {
	all := []records.Paint{paint("a", records.PaintInStock), paint("b", records.PaintLow)}
	m := mix("m", "a", "b", "gone")
	m.MixParts[2].Name = "Deleted paint"

	got := MixIngredients(m, all)
	require.Len(t, got, 3)
	assert.True(t, got[0].InStock)
	assert.False(t, got[1].InStock)
	assert.False(t, got[1].Missing)
	assert.True(t, got[2].Missing)
	assert.Nil(t, got[2].Paint)
	assert.Equal(t, "Deleted paint", got[2].Part.Name)
}

func TestPaintCoverage(t *testing.T) {
	all := []records.Paint{
		paint("a", records.PaintInStock),
		paint("b", records.PaintLow),
	}
	kit := records.Kit{ID: "k", Paints: []records.KitPaint{{PaintID: "a"}, {PaintID: "b"}, {PaintID: "gone"}}}

	c := PaintCoverage(kit, all)
	assert.Equal(t, Coverage{Total: 3, Owned: 1}, c)
	assert.Equal(t, 2, c.Missing())
	assert.False(t, c.Complete())
	assert.False(t, Coverage{}.Complete())
}

func TestAccessoryCoverage(t *testing.T) {
	kit := records.Kit{Accessories: []records.Accessory{
		{ID: "1", Name: "PE set", Status: records.AccessoryOwned},
		{ID: "2", Name: "Masks", Status: records.AccessoryWanted},
	}}
	assert.Equal(t, Coverage{Total: 2, Owned: 1}, AccessoryCoverage(kit))
}

func TestBuildReady(t *testing.T) {
	all := []records.Paint{
		paint("a", records.PaintInStock),
		paint("low", records.PaintLow),
		paint("wanted", records.PaintWanted),
	}
	owned := records.Accessory{ID: "1", Name: "PE", Status: records.AccessoryOwned}
	wanted := records.Accessory{ID: "2", Name: "Decals", Status: records.AccessoryWanted}

	refs := func(ids ...string) []records.KitPaint {
		result := make([]records.KitPaint, 0, len(ids))
		for _, id := range ids {
			result = append(result, records.KitPaint{PaintID: id})
		}
		return result
	}

	tests := []struct {
		name string
		kit  records.Kit
		want bool
	}{
		{"paints in stock", records.Kit{Status: records.KitNew, Paints: refs("a")}, true},
		{"low counts as ready", records.Kit{Status: records.KitWIP, Paints: refs("a", "low")}, true},
		{"wanted paint", records.Kit{Status: records.KitNew, Paints: refs("a", "wanted")}, false},
		{"missing paint", records.Kit{Status: records.KitNew, Paints: refs("gone")}, false},
		{"accessories only", records.Kit{Status: records.KitNew, Accessories: []records.Accessory{owned}}, true},
		{"wanted accessory", records.Kit{Status: records.KitNew, Paints: refs("a"), Accessories: []records.Accessory{owned, wanted}}, false},
		{"nothing assigned", records.Kit{Status: records.KitNew}, false},
		{"finished", records.Kit{Status: records.KitFinished, Paints: refs("a")}, false},
		{"scrap", records.Kit{Status: records.KitScrap, Paints: refs("a")}, false},
		{"wishlist", records.Kit{Status: records.KitWishlist, Paints: refs("a")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildReady(tt.kit, all))
		})
	}
}

func TestProjectProgress(t *testing.T) {
	project := records.Project{ID: "pr1", Name: "Eastern front"}

	t.Run("finished and wip average", func(t *testing.T) {
		kits := []records.Kit{
			{ID: "k1", ProjectID: "pr1", Status: records.KitFinished},
			{ID: "k2", ProjectID: "pr1", Status: records.KitWIP, Progress: 40},
			{ID: "k3", ProjectID: "other", Status: records.KitFinished},
		}
		assert.Equal(t, 70, ProjectProgress(project, kits))
	})

	t.Run("other statuses count as zero", func(t *testing.T) {
		kits := []records.Kit{
			{ID: "k1", ProjectID: "pr1", Status: records.KitFinished},
			{ID: "k2", ProjectID: "pr1", Status: records.KitNew, Progress: 80},
			{ID: "k3", ProjectID: "pr1", Status: records.KitWIP, Progress: 50},
		}
		assert.Equal(t, 50, ProjectProgress(project, kits))
	})

	t.Run("rounds to nearest", func(t *testing.T) {
		kits := []records.Kit{
			{ID: "k1", ProjectID: "pr1", Status: records.KitWIP, Progress: 33},
			{ID: "k2", ProjectID: "pr1", Status: records.KitWIP, Progress: 34},
		}
		assert.Equal(t, 34, ProjectProgress(project, kits))
	})

	t.Run("no kits", func(t *testing.T) {
		assert.Equal(t, 0, ProjectProgress(project, nil))
		assert.Empty(t, ProjectKits(records.Project{}, []records.Kit{{ID: "k"}}))
	})
}

func TestProjectAccessoryCoverage(t *testing.T) {
	project := records.Project{ID: "pr1", Accessories: []records.Accessory{
		{ID: "1", Name: "Base", Status: records.AccessoryOwned},
		{ID: "2", Name: "Figures", Status: records.AccessoryWanted},
	}}
	assert.Equal(t, Coverage{Total: 2, Owned: 1}, ProjectAccessoryCoverage(project))
}

func TestFindDuplicateKits(t *testing.T) {
	all := []records.Kit{
		{ID: "k1", Brand: "Tamiya", CatalogNumber: "48000"},
		{ID: "k2", Brand: "tamiya", CatalogNumber: "48000"},
		{ID: "k3", Brand: "Tamiya", CatalogNumber: "48001"},
		{ID: "k4", Brand: "Hasegawa", CatalogNumber: "48000"},
	}

	dups := FindDuplicateKits(all[0], all, "k1")
	require.Len(t, dups, 1)
	assert.Equal(t, "k2", dups[0].ID)

	assert.True(t, IsDuplicateKit(all[1], all, "k2"))
	assert.False(t, IsDuplicateKit(all[2], all, "k3"))
	assert.False(t, IsDuplicateKit(records.Kit{Brand: "Tamiya", CatalogNumber: "48000a"}, all, ""))
	assert.False(t, IsDuplicateKit(records.Kit{Brand: "Tamiya"}, all, ""))

	// a new kit has no id to exclude
	assert.Len(t, FindDuplicateKits(records.Kit{Brand: "TAMIYA", CatalogNumber: "48000"}, all, ""), 2)
}

func TestFindDuplicatePaint(t *testing.T) {
	all := []records.Paint{
		{ID: "p1", Brand: "Tamiya", Code: "XF-1", Status: records.PaintInStock},
		mix("m1", "p1"),
	}

	dup := FindDuplicatePaint(records.Paint{Brand: " tamiya", Code: "xf-1"}, all, "")
	require.NotNil(t, dup)
	assert.Equal(t, "p1", dup.ID)

	assert.Nil(t, FindDuplicatePaint(all[0], all, "p1"))
	assert.Nil(t, FindDuplicatePaint(mix("m2"), all, ""))
}

func TestPaintUsage(t *testing.T) {
	kits := []records.Kit{
		{ID: "k1", Paints: []records.KitPaint{{PaintID: "p1"}}},
		{ID: "k2"},
		{ID: "k3", Paints: []records.KitPaint{{PaintID: "p2"}, {PaintID: "p1"}}},
	}
	used := PaintUsage("p1", kits)
	require.Len(t, used, 2)
	assert.Equal(t, "k3", used[1].ID)
	assert.Empty(t, PaintUsage("p9", kits))
}
