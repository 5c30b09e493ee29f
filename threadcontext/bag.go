package threadcontext

import "sync"

// Bag holds request-scoped ambient values shared by everything running on
// one logical execution path.
type Bag struct {
	name   string
	values map[string]interface{}
	mu     sync.RWMutex
}

// NewBag creates an empty bag
func NewBag(name string) *Bag {
	return &Bag{
		name:   name,
		values: make(map[string]interface{}),
	}
}

// Name returns the bag name
func (b *Bag) Name() string {
	return b.name
}

// Set stores a value in the bag
func (b *Bag) Set(key string, value interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = value
}

// Get retrieves a value from the bag
func (b *Bag) Get(key string) (interface{}, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, exists := b.values[key]
	return value, exists
}

// GetString retrieves a string value from the bag
func (b *Bag) GetString(key string) (string, bool) {
	value, exists := b.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// Delete removes a value from the bag
func (b *Bag) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.values, key)
}

// Clear removes all values from the bag
func (b *Bag) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values = make(map[string]interface{})
}

// Len returns the number of values held
func (b *Bag) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.values)
}

// Service returns the Service view of the bag
func (b *Bag) Service() Service {
	return bagService{bag: b}
}

// swap installs values and returns the map it replaced
func (b *Bag) swap(values map[string]interface{}) map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	previous := b.values
	b.values = values
	return previous
}

func (b *Bag) copyValues() map[string]interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyMap(b.values)
}

func copyMap(values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

type bagSnapshot struct {
	bag    *Bag
	values map[string]interface{}
}

type bagDisplaced struct {
	bag    *Bag
	values map[string]interface{}
}

type bagService struct {
	bag *Bag
}

func (s bagService) Capture() Snapshot {
	return bagSnapshot{bag: s.bag, values: s.bag.copyValues()}
}

// Apply installs a private copy so writes made while the snapshot is active
// never reach the snapshot itself.
func (s bagService) Apply(snapshot Snapshot) Displaced {
	snap, ok := snapshot.(bagSnapshot)
	if !ok || snap.bag != s.bag {
		fail("apply", s.bag.name, ErrForeignSnapshot)
	}
	return bagDisplaced{bag: s.bag, values: s.bag.swap(copyMap(snap.values))}
}

func (s bagService) Restore(snapshot Snapshot, displaced Displaced) {
	if snap, ok := snapshot.(bagSnapshot); !ok || snap.bag != s.bag {
		fail("restore", s.bag.name, ErrForeignSnapshot)
	}
	moved, ok := displaced.(bagDisplaced)
	if !ok || moved.bag != s.bag {
		fail("restore", s.bag.name, ErrForeignDisplaced)
	}
	s.bag.swap(moved.values)
}
