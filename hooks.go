package kitstash

import (
	"reflect"
	"sync"

	"github.com/agentstation/kitstash/pkg/consistency"
	"github.com/agentstation/kitstash/pkg/records"
)

// Hooks provides event callback registration.
type Hooks interface {
	// OnKitAdded registers a callback for when kits are added
	OnKitAdded(KitAddedHook)

	// OnKitUpdated registers a callback for when kits are updated
	OnKitUpdated(KitUpdatedHook)

	// OnKitRemoved registers a callback for when kits are removed
	OnKitRemoved(KitRemovedHook)

	// OnPaintsChanged registers a callback for any change to the paints
	OnPaintsChanged(PaintsChangedHook)
}

// Hook function types for collection events
type (
	// KitAddedHook is called when a kit is added to the collection
	KitAddedHook func(kit records.Kit)

	// KitUpdatedHook is called when a stored kit changes
	KitUpdatedHook func(old, new records.Kit)

	// KitRemovedHook is called when a kit is removed from the collection
	KitRemovedHook func(kit records.Kit)

	// PaintsChangedHook is called with the new paint list after any change
	PaintsChangedHook func(paints []records.Paint)
)

// hooks manages event callbacks for collection changes
type hooks struct {
	mu              sync.RWMutex
	onKitAdded      []KitAddedHook
	onKitUpdated    []KitUpdatedHook
	onKitRemoved    []KitRemovedHook
	onPaintsChanged []PaintsChangedHook

	// kits is the last kit snapshot seen, used to diff the next one
	kits []records.Kit
}

// newHooks creates a new hooks instance diffing against the given kits
func newHooks(kits []records.Kit) *hooks {
	return &hooks{kits: kits}
}

// OnKitAdded registers a callback for when kits are added
func (h *hooks) OnKitAdded(fn KitAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onKitAdded = append(h.onKitAdded, fn)
}

// OnKitUpdated registers a callback for when kits are updated
func (h *hooks) OnKitUpdated(fn KitUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onKitUpdated = append(h.onKitUpdated, fn)
}

// OnKitRemoved registers a callback for when kits are removed
func (h *hooks) OnKitRemoved(fn KitRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onKitRemoved = append(h.onKitRemoved, fn)
}

// OnPaintsChanged registers a callback for any change to the paints
func (h *hooks) OnPaintsChanged(fn PaintsChangedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onPaintsChanged = append(h.onPaintsChanged, fn)
}

// triggerChange is registered on the library and dispatches to the typed
// hooks.
func (h *hooks) triggerChange(collection string, index *consistency.Index) {
	switch collection {
	case records.CollectionKits:
		h.triggerKitUpdate(index.Kits())
	case records.CollectionPaints:
		h.mu.RLock()
		defer h.mu.RUnlock()
		for _, hook := range h.onPaintsChanged {
			hook(index.Paints())
		}
	}
}

// triggerKitUpdate compares the previous and the new kit lists and
// triggers the matching hooks
func (h *hooks) triggerKitUpdate(newKits []records.Kit) {
	h.mu.Lock()
	oldKits := h.kits
	h.kits = newKits
	added := append([]KitAddedHook(nil), h.onKitAdded...)
	updated := append([]KitUpdatedHook(nil), h.onKitUpdated...)
	removed := append([]KitRemovedHook(nil), h.onKitRemoved...)
	h.mu.Unlock()

	oldKitMap := make(map[string]records.Kit, len(oldKits))
	for _, kit := range oldKits {
		oldKitMap[kit.ID] = kit
	}
	newKitMap := make(map[string]records.Kit, len(newKits))
	for _, kit := range newKits {
		newKitMap[kit.ID] = kit
	}

	for _, newKit := range newKits {
		if oldKit, exists := oldKitMap[newKit.ID]; exists {
			if !reflect.DeepEqual(oldKit, newKit) {
				for _, hook := range updated {
					hook(oldKit, newKit)
				}
			}
		} else {
			for _, hook := range added {
				hook(newKit)
			}
		}
	}

	for _, oldKit := range oldKits {
		if _, exists := newKitMap[oldKit.ID]; !exists {
			for _, hook := range removed {
				hook(oldKit)
			}
		}
	}
}
