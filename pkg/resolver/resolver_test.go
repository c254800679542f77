package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/kitstash/pkg/catalogs"
	"github.com/agentstation/kitstash/pkg/records"
)

func embeddedResolver(t *testing.T) *Resolver {
	t.Helper()
	cat, err := catalogs.NewEmbedded()
	require.NoError(t, err)
	return New(cat)
}

func codes(entries []Entry) []string {
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Code)
	}
	return result
}

func TestListManufacturers(t *testing.T) {
	r := embeddedResolver(t)

	got := r.ListManufacturers()
	require.Len(t, got, 4)
	assert.Equal(t, Option{ID: "tamiya", DisplayName: "Tamiya"}, got[0])
	assert.Equal(t, got, r.ListManufacturers(), "listing must be order-stable")
}

func TestListSeries(t *testing.T) {
	r := embeddedResolver(t)

	series := r.ListSeries("tamiya")
	require.NotEmpty(t, series)
	assert.Equal(t, "xf", series[0].ID)

	unknown := r.ListSeries("revell")
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestBrandEntries(t *testing.T) {
	r := embeddedResolver(t)

	entries := r.BrandEntries("tamiya")
	e, ok := entries["XF1"]
	require.True(t, ok)
	assert.Equal(t, "Flat Black", e.Name)
	_, ok = entries["LP1"]
	assert.True(t, ok, "brand view merges every series")

	unknown := r.BrandEntries("revell")
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)

	assert.Len(t, r.BrandEntryList("tamiya"), len(entries))
	assert.Empty(t, r.BrandEntryList("revell"))
}

func TestSeriesEntries(t *testing.T) {
	r := embeddedResolver(t)

	lp := r.SeriesEntries("tamiya", "lp")
	_, hasLP := lp["LP1"]
	_, hasXF := lp["XF1"]
	assert.True(t, hasLP)
	assert.False(t, hasXF)

	all := r.BrandEntries("tamiya")
	assert.Equal(t, all, r.SeriesEntries("tamiya", ""))
	assert.Equal(t, all, r.SeriesEntries("tamiya", "does-not-exist"))
}

func TestSpecs(t *testing.T) {
	r := embeddedResolver(t)

	spec := r.SpecsForType("tamiya", "lacquer")
	require.NotNil(t, spec)
	assert.Equal(t, "Tamiya Lacquer", spec.Label)
	assert.Nil(t, r.SpecsForType("tamiya", "enamel"))
	assert.Nil(t, r.SpecsForType("revell", "acrylic"))

	prefixed := r.SpecForSeriesPrefix("tamiya", "XF-1")
	require.NotNil(t, prefixed)
	assert.Equal(t, "Tamiya Acrylic", prefixed.Label)

	lower := r.SpecForSeriesPrefix("mrhobby", "h12")
	require.NotNil(t, lower)
	assert.Equal(t, "Aqueous Hobby Color", lower.Label)

	assert.Nil(t, r.SpecForSeriesPrefix("vallejo", "70.950"))
	assert.Nil(t, r.SpecForSeriesPrefix("tamiya", "ZZ-1"))
}

func TestSpecOrDefault(t *testing.T) {
	r := embeddedResolver(t)

	assert.Equal(t, "Vallejo Model Air", r.SpecOrDefault("vallejo", "71.057", "acrylic_air").Label)
	assert.Equal(t, "Tamiya Lacquer", r.SpecOrDefault("tamiya", "LP-1", "").Label)
	assert.Equal(t, r.DefaultSpec(), r.SpecOrDefault("vallejo", "70.950", ""))
	assert.Equal(t, r.DefaultSpec(), r.SpecOrDefault("revell", "32", "enamel"))
}

func TestSearch(t *testing.T) {
	r := embeddedResolver(t)

	t.Run("normalized code in brand scope", func(t *testing.T) {
		got := r.Search("xf1", Scope{Brand: "tamiya"})
		require.NotEmpty(t, got)
		assert.Equal(t, "XF-1", got[0].DisplayCode)
		assert.Contains(t, codes(got), "XF-10")
	})

	t.Run("display code with separators", func(t *testing.T) {
		got := r.Search("c-33", Scope{Brand: "mrhobby"})
		require.Len(t, got, 1)
		assert.Equal(t, "C33", got[0].Code)
	})

	t.Run("dotted numeric code", func(t *testing.T) {
		got := r.Search("70 950", Scope{Brand: "vallejo"})
		require.Len(t, got, 1)
		assert.Equal(t, "Black", got[0].Name)
	})

	t.Run("name across brands keeps catalog order", func(t *testing.T) {
		got := r.Search("flat black", Scope{})
		require.GreaterOrEqual(t, len(got), 3)
		assert.Equal(t, "tamiya", got[0].Brand)
		assert.Equal(t, []string{"XF-1", "C33", "H12"}, codes(got)[:3])
	})

	t.Run("series scope narrows", func(t *testing.T) {
		got := r.Search("black", Scope{Brand: "tamiya", Series: "lp"})
		for _, e := range got {
			assert.Equal(t, "lp", e.Series)
		}
		assert.NotEmpty(t, got)
	})

	t.Run("global cap", func(t *testing.T) {
		assert.Len(t, r.Search("a", Scope{}), 20)
	})

	t.Run("brand cap", func(t *testing.T) {
		assert.Len(t, r.Search("1", Scope{Brand: "tamiya"}), 10)
	})

	t.Run("empty query", func(t *testing.T) {
		assert.Empty(t, r.Search("  -. ", Scope{}))
	})

	t.Run("unknown brand", func(t *testing.T) {
		assert.Empty(t, r.Search("xf1", Scope{Brand: "revell"}))
	})
}

func TestLookupAndResolve(t *testing.T) {
	r := embeddedResolver(t)

	e := r.Lookup("mrhobby", "c-33")
	require.NotNil(t, e)
	assert.Equal(t, "Flat Black", e.Name)

	assert.Nil(t, r.Lookup("mrhobby", "C-999"))
	assert.Nil(t, r.Lookup("mrhobby", ""))

	exact := r.Resolve("tamiya", "xf 1")
	require.NotNil(t, exact)
	assert.Equal(t, "XF-1", exact.Code)

	byName := r.Resolve("tamiya", "khaki")
	require.NotNil(t, byName)
	assert.Equal(t, "XF-49", byName.Code)

	assert.Nil(t, r.Resolve("tamiya", "nothing like this"))
}

func TestQuickAdd(t *testing.T) {
	r := embeddedResolver(t)

	e := r.Lookup("tamiya", "XF-1")
	require.NotNil(t, e)

	paint := r.QuickAdd(*e, "")
	assert.NotEmpty(t, paint.ID)
	assert.Equal(t, "Tamiya", paint.Brand)
	assert.Equal(t, "XF-1", paint.Code)
	assert.Equal(t, "Flat Black", paint.Name)
	assert.Equal(t, "acrylic", paint.ColorType)
	assert.Equal(t, "X-20A Acrylic Thinner", paint.Thinner)
	assert.Equal(t, records.PaintInStock, paint.Status)
	assert.False(t, paint.IsMix)
	assert.NoError(t, paint.Validate())

	wanted := r.QuickAdd(Entry{Brand: "tamiya", Code: "XF-99", Name: "Unlisted"}, records.PaintWanted)
	assert.Equal(t, records.PaintWanted, wanted.Status)
	assert.Equal(t, "acrylic", wanted.ColorType, "color type inferred from the prefix")
	assert.Equal(t, "tamiya", wanted.Brand)
}

func TestNewWithNilCatalog(t *testing.T) {
	r := New(nil)
	assert.Empty(t, r.ListManufacturers())
	assert.Empty(t, r.Search("xf1", Scope{}))
	assert.Nil(t, r.SpecForSeriesPrefix("tamiya", "XF-1"))
}
