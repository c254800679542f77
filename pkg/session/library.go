// Package session holds the live view of a collection and the edit
// sessions that change it.
//
// A Library subscribes to the paints, kits and projects collections and
// keeps an immutable consistency.Index of the latest snapshots. Edit
// sessions own a working copy of one record, evaluate it against the
// current index on every call and write it back through the store on Save.
package session

import (
	"context"
	"sync"

	"github.com/agentstation/kitstash/pkg/consistency"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
	"github.com/agentstation/kitstash/pkg/records"
	"github.com/agentstation/kitstash/pkg/store"
)

// ChangeHook is called after the index was rebuilt for a collection.
type ChangeHook func(collection string, index *consistency.Index)

// Library is the live, indexed view of a store.
type Library struct {
	store store.Store

	mu       sync.RWMutex
	paints   []records.Paint
	kits     []records.Kit
	projects []records.Project
	index    *consistency.Index
	onChange []ChangeHook

	cancels []func()
}

// NewLibrary subscribes to the record collections of s. The library is
// populated before NewLibrary returns.
func NewLibrary(s store.Store) *Library {
	l := &Library{
		store: s,
		index: consistency.NewIndex(nil, nil, nil),
	}
	l.cancels = []func(){
		store.SubscribeAs(s, records.CollectionPaints, func(paints []records.Paint) {
			l.update(records.CollectionPaints, func() { l.paints = paints })
		}),
		store.SubscribeAs(s, records.CollectionKits, func(kits []records.Kit) {
			l.update(records.CollectionKits, func() { l.kits = kits })
		}),
		store.SubscribeAs(s, records.CollectionProjects, func(projects []records.Project) {
			l.update(records.CollectionProjects, func() { l.projects = projects })
		}),
	}
	return l
}

func (l *Library) update(collection string, set func()) {
	l.mu.Lock()
	set()
	l.index = consistency.NewIndex(l.paints, l.kits, l.projects)
	index := l.index
	hooks := append([]ChangeHook(nil), l.onChange...)
	l.mu.Unlock()

	for _, fn := range hooks {
		fn(collection, index)
	}
}

// OnChange registers a callback for collection changes.
func (l *Library) OnChange(fn ChangeHook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Index returns the current snapshot.
func (l *Library) Index() *consistency.Index {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.index
}

// Store returns the underlying store.
func (l *Library) Store() store.Store {
	return l.store
}

// Close stops the subscriptions. The store is not closed.
func (l *Library) Close() {
	for _, cancel := range l.cancels {
		cancel()
	}
	l.cancels = nil
}

// NewKit starts a session for a kit that is not stored yet.
func (l *Library) NewKit() *KitSession {
	return newKitSession(l, records.Kit{Status: records.KitNew}, true)
}

// EditKit starts a session on a copy of a stored kit.
func (l *Library) EditKit(id string) (*KitSession, error) {
	kit, ok := l.Index().Kit(id)
	if !ok {
		return nil, errors.NewNotFoundError("kit", id)
	}
	return newKitSession(l, kit, false), nil
}

// NewPaint starts a session for a paint that is not stored yet, e.g. a
// catalog quick add.
func (l *Library) NewPaint(paint records.Paint) *PaintSession {
	if paint.Status == "" {
		paint.Status = records.PaintInStock
	}
	return newPaintSession(l, paint, true)
}

// NewMix starts a session for a new mix. The mix gets its id up front so
// ingredients can be checked against it.
func (l *Library) NewMix(name string) *PaintSession {
	return newPaintSession(l, records.Paint{
		ID:     records.NewMixID(),
		Name:   name,
		Status: records.PaintInStock,
		IsMix:  true,
	}, true)
}

// EditPaint starts a session on a copy of a stored paint.
func (l *Library) EditPaint(id string) (*PaintSession, error) {
	paint, ok := l.Index().Paint(id)
	if !ok {
		return nil, errors.NewNotFoundError("paint", id)
	}
	return newPaintSession(l, paint, false), nil
}

// SaveProject sanitizes and stores a project.
func (l *Library) SaveProject(ctx context.Context, project records.Project) (string, error) {
	project = consistency.SanitizeProject(project)
	if project.Name == "" {
		return "", errors.NewValidationError("name", project.Name, "project name is required")
	}
	if project.Status == "" {
		project.Status = records.ProjectPlanned
	}
	if !project.Status.Valid() {
		return "", errors.NewValidationError("status", project.Status, "unknown project status")
	}
	id, err := store.Save(ctx, l.store, records.CollectionProjects, project)
	if err != nil {
		return "", err
	}
	logging.FromContext(ctx).Debug().Str("project_id", id).Msg("Saved project")
	return id, nil
}

// Delete removes a record. References to it elsewhere stay in place and
// are ignored or dropped on the next save of the referencing record.
func (l *Library) Delete(ctx context.Context, collection, id string) error {
	return l.store.Delete(ctx, collection, id)
}
