package asset

import "sync"

// ID is an opaque asset identity. IDs are unique per store, never reused,
// and remain valid as map keys after the asset is removed.
type ID uint64

// InvalidID is the zero value, representing no asset.
const InvalidID ID = 0

// EventKind describes how an asset changed.
type EventKind uint8

const (
	// Added indicates the asset was inserted into the store.
	Added EventKind = iota + 1

	// Modified indicates the asset's value was replaced or mutated in place.
	Modified

	// Removed indicates the asset was deleted from the store.
	Removed

	// LoadedWithDependencies indicates the asset and everything it references
	// finished loading. Treated like Modified by consumers.
	LoadedWithDependencies
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	case LoadedWithDependencies:
		return "loaded-with-dependencies"
	default:
		return "unknown"
	}
}

// Event records a single change to a store.
type Event struct {
	Kind EventKind
	ID   ID
}

// Store holds assets of one kind behind opaque identities.
//
// Store is safe for concurrent use. Events accumulate in mutation order until
// drained; the intended consumer drains once per frame.
type Store[T any] struct {
	mu     sync.Mutex
	nextID ID
	assets map[ID]T
	events []Event
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		nextID: 1,
		assets: make(map[ID]T),
	}
}

// Add inserts an asset and returns its new identity.
func (s *Store[T]) Add(v T) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.assets[id] = v
	s.events = append(s.events, Event{Kind: Added, ID: id})
	return id
}

// Set replaces the asset value, emitting a Modified event.
// Setting an unknown identity is a no-op.
func (s *Store[T]) Set(id ID, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return
	}
	s.assets[id] = v
	s.events = append(s.events, Event{Kind: Modified, ID: id})
}

// Touch emits a Modified event without replacing the value.
// Use after mutating an asset in place (e.g. writing pixels through a Frame).
func (s *Store[T]) Touch(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return
	}
	s.events = append(s.events, Event{Kind: Modified, ID: id})
}

// MarkLoaded emits a LoadedWithDependencies event for the asset.
func (s *Store[T]) MarkLoaded(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return
	}
	s.events = append(s.events, Event{Kind: LoadedWithDependencies, ID: id})
}

// Remove deletes the asset, emitting a Removed event.
// Removing an unknown identity is a no-op.
func (s *Store[T]) Remove(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[id]; !ok {
		return
	}
	delete(s.assets, id)
	s.events = append(s.events, Event{Kind: Removed, ID: id})
}

// Get returns the asset value for the identity.
func (s *Store[T]) Get(id ID) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.assets[id]
	return v, ok
}

// Len returns the number of assets in the store.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

// DrainEvents returns all accumulated events in mutation order and clears
// the event buffer. Call once per frame.
func (s *Store[T]) DrainEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := s.events
	s.events = nil
	return ev
}
