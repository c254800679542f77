package store

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/agentstation/kitstash/pkg/logging"
)

// Memory is an in-memory Store.
type Memory struct {
	mu          sync.RWMutex
	seq         int64
	collections map[string]map[string]Document
	events      *broker
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	m := &Memory{collections: make(map[string]map[string]Document)}
	m.events = newBroker(m.List)
	return m
}

// Create implements Store.
func (m *Memory) Create(ctx context.Context, collection string, record any) (string, error) {
	id, body, err := prepareCreate(collection, record)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	docs := m.collections[collection]
	if docs == nil {
		docs = make(map[string]Document)
		m.collections[collection] = docs
	}
	if _, exists := docs[id]; exists {
		m.mu.Unlock()
		return "", alreadyExists(collection, id)
	}
	m.seq++
	docs[id] = Document{ID: id, Seq: m.seq, Body: body}
	m.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("collection", collection).Str("id", id).Msg("Created document")
	m.events.publish(ctx, collection)
	return id, nil
}

// Update implements Store.
func (m *Memory) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}

	m.mu.Lock()
	doc, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return notFound(collection, id)
	}
	body, err := applyUpdate(doc.Body, id, patch)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	doc.Body = body
	m.collections[collection][id] = doc
	m.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("collection", collection).Str("id", id).Int("fields", len(patch)).Msg("Updated document")
	m.events.publish(ctx, collection)
	return nil
}

// Replace implements Store.
func (m *Memory) Replace(ctx context.Context, collection, id string, record any) error {
	body, err := prepareReplace(collection, id, record)
	if err != nil {
		return err
	}

	m.mu.Lock()
	doc, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return notFound(collection, id)
	}
	doc.Body = body
	m.collections[collection][id] = doc
	m.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("collection", collection).Str("id", id).Msg("Replaced document")
	m.events.publish(ctx, collection)
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := checkKey(collection, id); err != nil {
		return err
	}

	m.mu.Lock()
	if _, ok := m.collections[collection][id]; !ok {
		m.mu.Unlock()
		return notFound(collection, id)
	}
	delete(m.collections[collection], id)
	m.mu.Unlock()

	logging.FromContext(ctx).Debug().Str("collection", collection).Str("id", id).Msg("Deleted document")
	m.events.publish(ctx, collection)
	return nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, collection, id string) (Document, error) {
	if err := checkKey(collection, id); err != nil {
		return Document{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return Document{}, notFound(collection, id)
	}
	return cloneDocument(doc), nil
}

// List implements Store.
func (m *Memory) List(_ context.Context, collection string) ([]Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	m.mu.RLock()
	docs := make([]Document, 0, len(m.collections[collection]))
	for _, doc := range m.collections[collection] {
		docs = append(docs, cloneDocument(doc))
	}
	m.mu.RUnlock()

	slices.SortFunc(docs, func(a, b Document) int {
		return cmp.Compare(a.Seq, b.Seq)
	})
	return docs, nil
}

// Subscribe implements Store.
func (m *Memory) Subscribe(collection string, fn Listener) func() {
	return m.events.subscribe(collection, fn)
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}

func cloneDocument(d Document) Document {
	d.Body = append(json.RawMessage(nil), d.Body...)
	return d
}
