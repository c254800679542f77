package kitstash

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/kitstash/pkg/enrichment"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/records"
	"github.com/agentstation/kitstash/pkg/resolver"
	"github.com/agentstation/kitstash/pkg/store"
)

func newClient(t *testing.T, opts ...Option) Client {
	t.Helper()
	ks, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ks.Close() })
	return ks
}

func TestNewDefaults(t *testing.T) {
	ks := newClient(t)

	assert.Equal(t, "embedded", ks.Catalog().Source())
	assert.Positive(t, ks.Catalog().Len())
	assert.NotNil(t, ks.Library())

	_, err := ks.Enrich(context.Background(), "https://kits.example.com/1")
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(WithRelayAuth("cookie", ""))
	assert.Error(t, err)

	_, err = New(WithStore(nil))
	assert.Error(t, err)

	_, err = New(WithCatalogPath(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)
}

func TestQuickAddPaint(t *testing.T) {
	ctx := context.Background()
	ks := newClient(t)

	hits := ks.Resolver().Search("xf1", resolver.Scope{Brand: "tamiya"})
	require.NotEmpty(t, hits)

	id, err := ks.QuickAddPaint(ctx, hits[0], records.PaintInStock)
	require.NoError(t, err)

	paint, ok := ks.Library().Index().Paint(id)
	require.True(t, ok)
	assert.Equal(t, "Tamiya", paint.Brand)
	assert.Equal(t, "XF-1", paint.Code)
	assert.NotEmpty(t, paint.Thinner)

	dupID, err := ks.QuickAddPaint(ctx, hits[0], records.PaintInStock)
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)
	assert.Equal(t, id, dupID)
}

func TestKitHooks(t *testing.T) {
	ctx := context.Background()
	ks := newClient(t)

	var added, updated, removed []string
	ks.OnKitAdded(func(k records.Kit) { added = append(added, k.ID) })
	ks.OnKitUpdated(func(_, k records.Kit) { updated = append(updated, k.ID) })
	ks.OnKitRemoved(func(k records.Kit) { removed = append(removed, k.ID) })

	sess := ks.Library().NewKit()
	require.NoError(t, sess.Edit(func(k *records.Kit) { k.Brand = "Eduard"; k.CatalogNumber = "82161" }))
	id, err := sess.Save(ctx)
	require.NoError(t, err)

	edit, err := ks.Library().EditKit(id)
	require.NoError(t, err)
	require.NoError(t, edit.Edit(func(k *records.Kit) { k.Progress = 50 }))
	_, err = edit.Save(ctx)
	require.NoError(t, err)

	require.NoError(t, ks.Library().Delete(ctx, records.CollectionKits, id))

	assert.Equal(t, []string{id}, added)
	assert.Equal(t, []string{id}, updated)
	assert.Equal(t, []string{id}, removed)
}

func TestEnrichKit(t *testing.T) {
	ctx := context.Background()
	page, err := os.ReadFile(filepath.Join("pkg", "enrichment", "testdata", "kit.html"))
	require.NoError(t, err)

	relay := enrichment.RelayFunc(func(_ context.Context, url string) (string, error) {
		if url == "https://kits.example.com/kits/61032" {
			return string(page), nil
		}
		return "", errors.NewRelayError(url, 403, "Forbidden", nil)
	})
	ks := newClient(t, WithRelayClient(relay))

	sess := ks.Library().NewKit()
	require.NoError(t, sess.Edit(func(k *records.Kit) { k.Brand = "Tamiya" }))
	id, err := sess.Save(ctx)
	require.NoError(t, err)

	kit, res, err := ks.EnrichKit(ctx, id, "https://kits.example.com/kits/61032")
	require.NoError(t, err)
	assert.Equal(t, "61032", kit.CatalogNumber)
	require.Len(t, res.SoftFailures, 1)
	assert.Equal(t, errors.CategoryRelayDenied, res.SoftFailures[0].Category)

	stored, ok := ks.Library().Index().Kit(id)
	require.True(t, ok)
	assert.Equal(t, "1/48", stored.Scale)
	assert.Len(t, stored.Offers, 2)

	_, _, err = ks.EnrichKit(ctx, id, "https://kits.example.com/other")
	assert.True(t, errors.IsRelayDenied(err))
	after, _ := ks.Library().Index().Kit(id)
	assert.Equal(t, stored, after)
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newClient(t)
	_, err := src.Library().SaveProject(ctx, records.Project{Name: "Desert"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.Export(ctx, &buf))

	dst := newClient(t, WithSQLite(filepath.Join(t.TempDir(), "kitstash.db")))
	stats, err := dst.Import(ctx, &buf, store.ImportMerge)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)
	require.Len(t, dst.Library().Index().Projects(), 1)
	assert.Equal(t, "Desert", dst.Library().Index().Projects()[0].Name)
}
