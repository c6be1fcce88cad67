package store

import (
	"slices"
	"sync"
	"time"
)

// Persistence is the durable backing for the store's collections. Loads
// never fail from the caller's point of view: a backend that cannot read
// returns an empty collection. Saves are fire-and-forget; a failed save
// leaves memory ahead of durable state until the next successful save.
type Persistence interface {
	LoadCategories() []Category
	SaveCategories([]Category)
	LoadTasks() []Task
	SaveTasks([]Task)
}

// Store is the single authoritative in-memory copy of categories and tasks.
// It hydrates from the persistence backend once at construction, and every
// successful mutation writes the full collection back synchronously.
//
// Methods are safe for concurrent use: command closures read and mutate the
// store from goroutines outside the event loop.
type Store struct {
	persist Persistence

	mu         sync.RWMutex
	categories []Category
	tasks      []Task
	filters    Filters

	now func() time.Time
}

// New hydrates a store from p.
func New(p Persistence) *Store {
	return &Store{
		persist:    p,
		categories: p.LoadCategories(),
		tasks:      p.LoadTasks(),
		now:        time.Now,
	}
}

// Categories returns a copy of the category collection.
func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// Tasks returns a copy of the task collection.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// SetFilters overwrites the active filter criteria. Filters are in-memory
// only; this never touches tasks, categories, or durable state.
func (s *Store) SetFilters(f Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
}

// Filters returns the active filter criteria.
func (s *Store) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Replace swaps in entirely new collections and persists both. Used by
// backup import; the previous collections are discarded.
func (s *Store) Replace(categories []Category, tasks []Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = slices.Clone(categories)
	s.tasks = slices.Clone(tasks)
	s.persist.SaveCategories(s.categories)
	s.persist.SaveTasks(s.tasks)
}
