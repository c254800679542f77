package store

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/kitstash/pkg/logging"
)

// listFunc loads the current documents of a collection.
type listFunc func(ctx context.Context, collection string) ([]Document, error)

// broker fans collection changes out to listeners. Listeners run
// synchronously on the writing goroutine, outside any store lock. Loading
// and delivering a list is serialized per collection, so listeners see the
// lists in load order and the last delivery is the latest state.
type broker struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[string]map[int]Listener
	delivery  map[string]*sync.Mutex
	list      listFunc
}

func newBroker(list listFunc) *broker {
	return &broker{
		listeners: make(map[string]map[int]Listener),
		delivery:  make(map[string]*sync.Mutex),
		list:      list,
	}
}

// deliveryLock returns the mutex that serializes deliveries of collection.
func (b *broker) deliveryLock(collection string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.delivery[collection]
	if !ok {
		l = &sync.Mutex{}
		b.delivery[collection] = l
	}
	return l
}

// subscribe registers fn and delivers the current list once.
func (b *broker) subscribe(collection string, fn Listener) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.listeners[collection] == nil {
		b.listeners[collection] = make(map[int]Listener)
	}
	b.listeners[collection][id] = fn
	b.mu.Unlock()

	lock := b.deliveryLock(collection)
	lock.Lock()
	ctx := context.Background()
	if docs, err := b.list(ctx, collection); err == nil {
		fn(docs)
	} else {
		logging.FromContext(ctx).Warn().Err(err).Str("collection", collection).Msg("Initial subscription load failed")
	}
	lock.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners[collection], id)
		})
	}
}

// publish delivers the current list to every listener of collection.
func (b *broker) publish(ctx context.Context, collection string) {
	lock := b.deliveryLock(collection)
	lock.Lock()
	defer lock.Unlock()

	b.mu.RLock()
	fns := make([]Listener, 0, len(b.listeners[collection]))
	ids := make([]int, 0, len(b.listeners[collection]))
	for id := range b.listeners[collection] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, b.listeners[collection][id])
	}
	b.mu.RUnlock()

	if len(fns) == 0 {
		return
	}
	docs, err := b.list(ctx, collection)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("collection", collection).Msg("Failed to load collection for subscribers")
		return
	}
	for _, fn := range fns {
		fn(docs)
	}
}
