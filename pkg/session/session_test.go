package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/kitstash/pkg/consistency"
	"github.com/agentstation/kitstash/pkg/enrichment"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/records"
	"github.com/agentstation/kitstash/pkg/store"
)

// failingStore fails every write while fail is set.
type failingStore struct {
	store.Store
	fail bool
}

func (f *failingStore) Create(ctx context.Context, collection string, record any) (string, error) {
	if f.fail {
		return "", errors.WrapResource("create", collection, "", errors.New("disk full"))
	}
	return f.Store.Create(ctx, collection, record)
}

func (f *failingStore) Replace(ctx context.Context, collection, id string, record any) error {
	if f.fail {
		return errors.WrapResource("replace", collection, id, errors.New("disk full"))
	}
	return f.Store.Replace(ctx, collection, id, record)
}

// enricherFunc adapts a function to Enricher.
type enricherFunc func(ctx context.Context, url string) (enrichment.Result, error)

func (f enricherFunc) Run(ctx context.Context, url string) (enrichment.Result, error) {
	return f(ctx, url)
}

func seed(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []records.Paint{
		{ID: "p-black", Brand: "Tamiya", Code: "XF-1", Name: "Flat Black", Status: records.PaintInStock},
		{ID: "p-white", Brand: "Tamiya", Code: "XF-2", Name: "Flat White", Status: records.PaintLow},
	} {
		_, err := s.Create(ctx, records.CollectionPaints, p)
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, records.CollectionKits, records.Kit{
		ID: "k-1", Brand: "Tamiya", CatalogNumber: "61032", Scale: "1/48", Status: records.KitNew,
	})
	require.NoError(t, err)
}

func TestLibraryTracksStore(t *testing.T) {
	s := store.NewMemory()
	seed(t, s)

	lib := NewLibrary(s)
	defer lib.Close()

	assert.Len(t, lib.Index().Paints(), 2)
	_, ok := lib.Index().Kit("k-1")
	assert.True(t, ok)

	var changed []string
	lib.OnChange(func(collection string, _ *consistency.Index) {
		changed = append(changed, collection)
	})

	_, err := lib.SaveProject(context.Background(), records.Project{Name: "  Battle of Britain  "})
	require.NoError(t, err)
	require.Len(t, lib.Index().Projects(), 1)
	assert.Equal(t, "Battle of Britain", lib.Index().Projects()[0].Name)
	assert.Equal(t, records.ProjectPlanned, lib.Index().Projects()[0].Status)
	assert.Equal(t, []string{records.CollectionProjects}, changed)

	require.NoError(t, lib.Delete(context.Background(), records.CollectionPaints, "p-white"))
	assert.Len(t, lib.Index().Paints(), 1)

	_, err = lib.SaveProject(context.Background(), records.Project{Name: " "})
	assert.True(t, errors.IsValidationError(err))
}

func TestKitSessionIndicatorsAndSave(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seed(t, s)
	lib := NewLibrary(s)
	defer lib.Close()

	sess := lib.NewKit()
	require.NoError(t, sess.Edit(func(k *records.Kit) {
		k.Brand = "tamiya"
		k.CatalogNumber = "61032"
		k.Scale = "1:48"
		k.Paints = []records.KitPaint{{PaintID: "p-black"}, {PaintID: "p-white"}, {PaintID: "gone"}}
	}))

	ind := sess.Indicators()
	assert.Equal(t, consistency.Coverage{Total: 3, Owned: 1}, ind.Paints)
	require.Len(t, ind.Duplicates, 1)
	assert.Equal(t, "k-1", ind.Duplicates[0].ID)
	assert.False(t, ind.Ready)

	id, err := sess.Save(ctx)
	require.NoError(t, err)
	assert.True(t, sess.Closed())

	saved, ok := lib.Index().Kit(id)
	require.True(t, ok)
	assert.Equal(t, "1/48", saved.Scale)
	assert.Equal(t, []records.KitPaint{{PaintID: "p-black"}, {PaintID: "p-white"}}, saved.Paints)
	assert.Len(t, lib.Index().Kits(), 2)

	_, err = sess.Save(ctx)
	assert.ErrorIs(t, err, errors.ErrSessionClosed)
	assert.ErrorIs(t, sess.Edit(func(*records.Kit) {}), errors.ErrSessionClosed)
}

func TestKitSessionEditReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seed(t, s)
	lib := NewLibrary(s)
	defer lib.Close()

	sess, err := lib.EditKit("k-1")
	require.NoError(t, err)
	require.NoError(t, sess.Edit(func(k *records.Kit) {
		k.Scale = ""
		k.Progress = 140
		k.Status = records.KitWIP
	}))
	id, err := sess.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "k-1", id)

	kit, _ := lib.Index().Kit("k-1")
	assert.Empty(t, kit.Scale)
	assert.Equal(t, 100, kit.Progress)

	_, err = lib.EditKit("missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestKitSessionSaveFailureKeepsSessionOpen(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Store: store.NewMemory()}
	lib := NewLibrary(fs)
	defer lib.Close()

	sess := lib.NewKit()
	require.NoError(t, sess.Edit(func(k *records.Kit) { k.Brand = "Eduard" }))

	fs.fail = true
	_, err := sess.Save(ctx)
	require.Error(t, err)
	assert.False(t, sess.Closed())
	assert.Equal(t, "Eduard", sess.Kit().Brand)
	assert.Empty(t, lib.Index().Kits())

	fs.fail = false
	_, err = sess.Save(ctx)
	require.NoError(t, err)
	assert.Len(t, lib.Index().Kits(), 1)
}

func TestKitSessionEnrich(t *testing.T) {
	ctx := context.Background()
	lib := NewLibrary(store.NewMemory())
	defer lib.Close()

	sess := lib.NewKit()
	require.NoError(t, sess.Edit(func(k *records.Kit) { k.Brand = "Tamiya"; k.Notes = "mine" }))

	failing := enricherFunc(func(context.Context, string) (enrichment.Result, error) {
		err := errors.NewRelayError("u", 403, "Forbidden", nil)
		return enrichment.Result{Failed: true, Category: errors.Classify(err)}, err
	})
	before := sess.Kit()
	res, err := sess.Enrich(ctx, failing, "https://kits.example.com/1")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryRelayDenied, res.Category)
	assert.Equal(t, before, sess.Kit())

	working := enricherFunc(func(_ context.Context, url string) (enrichment.Result, error) {
		return enrichment.Result{Kit: enrichment.PartialKit{
			SourceURL:     url,
			CatalogNumber: "61032",
			Scale:         "1:48",
			Year:          1994,
		}}, nil
	})
	_, err = sess.Enrich(ctx, working, "https://kits.example.com/1")
	require.NoError(t, err)

	kit := sess.Kit()
	assert.Equal(t, "Tamiya", kit.Brand)
	assert.Equal(t, "61032", kit.CatalogNumber)
	assert.Equal(t, "1/48", kit.Scale)
	assert.Equal(t, 1994, kit.Year)
	assert.Equal(t, "mine", kit.Notes)
}

func TestPaintSessionMix(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seed(t, s)
	lib := NewLibrary(s)
	defer lib.Close()

	mix := lib.NewMix("Dark Grey")
	assert.True(t, records.IsMixID(mix.Paint().ID))

	_, err := mix.Save(ctx)
	assert.True(t, errors.IsValidationError(err), "a mix needs ingredients")

	require.NoError(t, mix.AddIngredient("p-black", 2))
	assert.True(t, mix.Complete())
	require.NoError(t, mix.AddIngredient("p-white", 1))
	assert.False(t, mix.Complete(), "low stock ingredient")

	assert.True(t, errors.IsValidationError(mix.AddIngredient("p-black", 1)))
	assert.True(t, errors.IsValidationError(mix.AddIngredient(mix.Paint().ID, 1)))
	assert.True(t, errors.IsValidationError(mix.AddIngredient("p-black", 0)))
	assert.True(t, errors.IsNotFound(mix.AddIngredient("nope", 1)))

	require.NoError(t, mix.RemoveIngredient("p-white"))
	assert.True(t, mix.Complete())
	require.Len(t, mix.Ingredients(), 1)
	assert.Equal(t, "XF-1", mix.Ingredients()[0].Part.Code)

	id, err := mix.Save(ctx)
	require.NoError(t, err)
	stored, ok := lib.Index().Paint(id)
	require.True(t, ok)
	assert.True(t, stored.IsMix)
	assert.True(t, lib.Index().MixComplete(stored))

	require.NoError(t, lib.Delete(ctx, records.CollectionPaints, "p-black"))
	stored, _ = lib.Index().Paint(id)
	assert.False(t, lib.Index().MixComplete(stored), "deleted ingredient")
}

func TestPaintSessionDuplicate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seed(t, s)
	lib := NewLibrary(s)
	defer lib.Close()

	sess := lib.NewPaint(records.Paint{Brand: " tamiya ", Code: "xf-1", Name: "Black"})
	dup := sess.Duplicate()
	require.NotNil(t, dup)
	assert.Equal(t, "p-black", dup.ID)

	id, err := sess.Save(ctx)
	require.NoError(t, err, "duplicates do not block saves")
	assert.NotEqual(t, "p-black", id)

	edit, err := lib.EditPaint("p-black")
	require.NoError(t, err)
	require.NoError(t, edit.Edit(func(p *records.Paint) { p.Status = "bogus" }))
	_, err = edit.Save(ctx)
	assert.True(t, errors.IsValidationError(err))
	assert.False(t, edit.Closed())

	edit.Cancel()
	assert.ErrorIs(t, edit.RemoveIngredient("x"), errors.ErrSessionClosed)
}
