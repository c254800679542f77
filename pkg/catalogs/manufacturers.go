package catalogs

import (
	"fmt"
	"sync"
)

// Manufacturers is a concurrent safe, insertion ordered set of manufacturers.
type Manufacturers struct {
	mu    sync.RWMutex
	order []string
	items map[string]*Manufacturer
}

// NewManufacturers creates an empty Manufacturers set.
func NewManufacturers() *Manufacturers {
	return &Manufacturers{
		items: make(map[string]*Manufacturer),
	}
}

// Get returns a manufacturer by id and whether it exists.
func (m *Manufacturers) Get(id string) (*Manufacturer, bool) {
	m.mu.RLock()
	manufacturer, ok := m.items[id]
	m.mu.RUnlock()
	return manufacturer, ok
}

// Set stores a manufacturer. A new id is appended to the order; an existing
// id keeps its position.
func (m *Manufacturers) Set(manufacturer *Manufacturer) error {
	if manufacturer == nil {
		return fmt.Errorf("manufacturer cannot be nil")
	}
	if manufacturer.ID == "" {
		return fmt.Errorf("manufacturer id cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[manufacturer.ID]; !exists {
		m.order = append(m.order, manufacturer.ID)
	}
	m.items[manufacturer.ID] = manufacturer
	return nil
}

// Exists checks if a manufacturer exists without returning it.
func (m *Manufacturers) Exists(id string) bool {
	m.mu.RLock()
	_, exists := m.items[id]
	m.mu.RUnlock()
	return exists
}

// Len returns the number of manufacturers.
func (m *Manufacturers) Len() int {
	m.mu.RLock()
	length := len(m.order)
	m.mu.RUnlock()
	return length
}

// List returns the manufacturers in declared order.
func (m *Manufacturers) List() []*Manufacturer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Manufacturer, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.items[id])
	}
	return result
}

// ForEach applies a function to each manufacturer in declared order.
// The function should not modify the manufacturer.
// If the function returns false, iteration stops early.
func (m *Manufacturers) ForEach(fn func(manufacturer *Manufacturer) bool) {
	for _, manufacturer := range m.List() {
		if !fn(manufacturer) {
			return
		}
	}
}
