package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/records"
)

// stores returns a fresh instance of every implementation.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, s)
		})
	}
}

func sampleKit() records.Kit {
	return records.Kit{
		Brand:         "Tamiya",
		CatalogNumber: "61032",
		Scale:         "1/48",
		SubjectName:   "Spitfire Mk.I",
		Status:        records.KitWIP,
		Progress:      40,
		Paints:        []records.KitPaint{{PaintID: "p-1", Note: "cockpit"}},
		Accessories:   []records.Accessory{{ID: "a-1", Name: "Resin seat", Status: records.AccessoryOwned}},
		Offers:        []records.Offer{{Shop: "Hobby Shop", Price: "12.50 EUR"}},
	}
}

func TestCreateAssignsIDAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	forEachStore(t, func(t *testing.T, s Store) {
		kit := sampleKit()
		id, err := s.Create(ctx, records.CollectionKits, kit)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		got, err := GetAs[records.Kit](ctx, s, records.CollectionKits, id)
		require.NoError(t, err)

		kit.ID = id
		if diff := cmp.Diff(kit, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCreateKeepsGivenIDAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	forEachStore(t, func(t *testing.T, s Store) {
		paint := records.Paint{ID: "p-1", Brand: "Tamiya", Code: "XF-1", Status: records.PaintInStock}
		id, err := s.Create(ctx, records.CollectionPaints, paint)
		require.NoError(t, err)
		assert.Equal(t, "p-1", id)

		_, err = s.Create(ctx, records.CollectionPaints, paint)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrAlreadyExists)
	})
}

func TestListIsInCreationOrder(t *testing.T) {
	ctx := context.Background()
	forEachStore(t, func(t *testing.T, s Store) {
		for _, id := range []string{"z", "a", "m"} {
			_, err := s.Create(ctx, records.CollectionProjects, records.Project{ID: id, Name: id})
			require.NoError(t, err)
		}
		_, err := s.Create(ctx, records.CollectionKits, records.Kit{ID: "other"})
		require.NoError(t, err)

		projects, err := ListAs[records.Project](ctx, s, records.CollectionProjects)
		require.NoError(t, err)
		ids := make([]string, 0, len(projects))
		for _, p := range projects {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"z", "a", "m"}, ids)

		empty, err := s.List(ctx, "unknown")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestUpdateMergesShallowly(t *testing.T) {
	ctx := context.Background()
	forEachStore(t, func(t *testing.T, s Store) {
		id, err := s.Create(ctx, records.CollectionKits, sampleKit())
		require.NoError(t, err)

		err = s.Update(ctx, records.CollectionKits, id, map[string]any{
			"progress": 70,
			"id":       "hijack",
			"paints":   []records.KitPaint{{PaintID: "p-2"}},
		})
		require.NoError(t, err)

		got, err := GetAs[records.Kit](ctx, s, records.CollectionKits, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, 70, got.Progress)
		assert.Equal(t, "Tamiya", got.Brand)
		assert.Equal(t, []records.KitPaint{{PaintID: "p-2"}}, got.Paints)

		err = s.Update(ctx, records.CollectionKits, "missing", map[string]any{"progress": 1})
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestReplaceClearsOmittedFields(t *testing.T) {
	ctx := context.Background()
	forEachStore(t, func(t *testing.T, s Store) {
		id, err := s.Create(ctx, records.CollectionKits, sampleKit())
		require.NoError(t, err)

		kit := sampleKit()
		kit.ID = id
		kit.Offers = nil
		require.NoError(t, s.Replace(ctx, records.CollectionKits, id, kit))

		got, err := GetAs[records.Kit](ctx, s, records.CollectionKits, id)
		require.NoError(t, err)
		assert.Empty(t, got.Offers)

		assert.True(t, errors.IsNotFound(s.Replace(ctx, records.CollectionKits, "missing", kit)))
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	forEachStore(t, func(t *testing.T, s Store) {
		id, err := s.Create(ctx, records.CollectionPaints, records.Paint{Brand: "Vallejo", Code: "70.950"})
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, records.CollectionPaints, id))
		_, err = s.Get(ctx, records.CollectionPaints, id)
		assert.True(t, errors.IsNotFound(err))
		assert.True(t, errors.IsNotFound(s.Delete(ctx, records.CollectionPaints, id)))
	})
}

func TestInvalidInput(t *testing.T) {
	ctx := context.Background()
	forEachStore(t, func(t *testing.T, s Store) {
		_, err := s.Create(ctx, "", records.Kit{})
		assert.True(t, errors.IsValidationError(err))

		_, err = s.Create(ctx, records.CollectionKits, nil)
		assert.True(t, errors.IsValidationError(err))

		_, err = s.Create(ctx, records.CollectionKits, []string{"not", "an", "object"})
		assert.True(t, errors.IsValidationError(err))

		_, err = s.Get(ctx, records.CollectionKits, " ")
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestSubscribeDeliversAfterEveryWrite(t *testing.T) {
	ctx := context.Background()
	forEachStore(t, func(t *testing.T, s Store) {
		var deliveries [][]records.Paint
		cancel := SubscribeAs(s, records.CollectionPaints, func(paints []records.Paint) {
			deliveries = append(deliveries, paints)
		})

		require.Len(t, deliveries, 1, "current list is delivered on subscribe")
		assert.Empty(t, deliveries[0])

		id, err := s.Create(ctx, records.CollectionPaints, records.Paint{Brand: "Tamiya", Code: "XF-1"})
		require.NoError(t, err)
		require.NoError(t, s.Update(ctx, records.CollectionPaints, id, map[string]any{"status": "low"}))
		_, err = s.Create(ctx, records.CollectionKits, records.Kit{Brand: "Eduard"})
		require.NoError(t, err)

		require.Len(t, deliveries, 3, "other collections do not notify")
		require.Len(t, deliveries[2], 1)
		assert.Equal(t, records.PaintLow, deliveries[2][0].Status)

		cancel()
		cancel()
		require.NoError(t, s.Delete(ctx, records.CollectionPaints, id))
		assert.Len(t, deliveries, 3)
	})
}

func TestSubscribeDeliversInOrderUnderConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	const writers = 20
	forEachStore(t, func(t *testing.T, s Store) {
		var (
			mu    sync.Mutex
			sizes []int
		)
		cancel := s.Subscribe(records.CollectionPaints, func(docs []Document) {
			mu.Lock()
			sizes = append(sizes, len(docs))
			mu.Unlock()
		})
		defer cancel()

		var wg sync.WaitGroup
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Create(ctx, records.CollectionPaints, records.Paint{Brand: "Tamiya", Code: fmt.Sprintf("XF-%d", i+1)})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, sizes, writers+1)
		for i := 1; i < len(sizes); i++ {
			assert.GreaterOrEqual(t, sizes[i], sizes[i-1], "delivery %d went back in time", i)
		}
		assert.Equal(t, writers, sizes[len(sizes)-1])
	})
}

func TestSaveCreatesThenReplaces(t *testing.T) {
	ctx := context.Background()
	forEachStore(t, func(t *testing.T, s Store) {
		kit := sampleKit()
		id, err := Save(ctx, s, records.CollectionKits, kit)
		require.NoError(t, err)

		kit.ID = id
		kit.Progress = 90
		again, err := Save(ctx, s, records.CollectionKits, kit)
		require.NoError(t, err)
		assert.Equal(t, id, again)

		kits, err := ListAs[records.Kit](ctx, s, records.CollectionKits)
		require.NoError(t, err)
		require.Len(t, kits, 1)
		assert.Equal(t, 90, kits[0].Progress)

		withID := records.Kit{ID: "imported", Brand: "Airfix"}
		id, err = Save(ctx, s, records.CollectionKits, withID)
		require.NoError(t, err)
		assert.Equal(t, "imported", id)
	})
}

func TestSnapshotExportImport(t *testing.T) {
	ctx := context.Background()
	src := NewMemory()
	_, err := src.Create(ctx, records.CollectionPaints, records.Paint{ID: "p-1", Brand: "Tamiya", Code: "XF-1"})
	require.NoError(t, err)
	_, err = src.Create(ctx, records.CollectionKits, records.Kit{ID: "k-1", Brand: "Tamiya", CatalogNumber: "61032"})
	require.NoError(t, err)

	snap, err := Export(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Len(t, snap.Collections[records.CollectionPaints], 1)
	assert.Empty(t, snap.Collections[records.CollectionProjects])

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, snap))
	read, err := ReadSnapshot(&buf)
	require.NoError(t, err)

	forEachStore(t, func(t *testing.T, dst Store) {
		_, err := dst.Create(ctx, records.CollectionKits, records.Kit{ID: "k-1", Brand: "Old"})
		require.NoError(t, err)
		_, err = dst.Create(ctx, records.CollectionKits, records.Kit{ID: "k-2", Brand: "Revell"})
		require.NoError(t, err)

		t.Run("merge", func(t *testing.T) {
			stats, err := Import(ctx, dst, read, ImportMerge)
			require.NoError(t, err)
			assert.Equal(t, ImportStats{Created: 1, Replaced: 1}, stats)

			kits, err := ListAs[records.Kit](ctx, dst, records.CollectionKits)
			require.NoError(t, err)
			require.Len(t, kits, 2)
			assert.Equal(t, "Tamiya", kits[0].Brand)
		})

		t.Run("replace", func(t *testing.T) {
			stats, err := Import(ctx, dst, read, ImportReplace)
			require.NoError(t, err)
			assert.Equal(t, 3, stats.Deleted)
			assert.Equal(t, 2, stats.Created)

			kits, err := ListAs[records.Kit](ctx, dst, records.CollectionKits)
			require.NoError(t, err)
			require.Len(t, kits, 1)
			assert.Equal(t, "k-1", kits[0].ID)
		})
	})

	_, err = Import(ctx, src, read, ImportMode("append"))
	assert.True(t, errors.IsValidationError(err))
	_, err = Import(ctx, src, &Snapshot{Version: SnapshotVersion + 1}, ImportMerge)
	assert.True(t, errors.IsValidationError(err))
}

func TestReadSnapshotRejectsGarbage(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewBufferString("{not json"))
	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)
}
