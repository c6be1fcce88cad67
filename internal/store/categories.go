package store

import (
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
)

// Palette is the set of colors new categories are assigned from.
var Palette = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#06b6d4", // cyan
	"#3b82f6", // blue
	"#8b5cf6", // purple
	"#ec4899", // pink
	"#f43f5e", // rose
	"#14b8a6", // teal
}

// RandomColor picks a palette color for a new category.
func RandomColor() string {
	return Palette[rand.IntN(len(Palette))]
}

// AddCategory appends a category with a fresh id and persists. The caller
// validates that name is non-empty before calling.
func (s *Store) AddCategory(name, color string) Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Category{
		ID:    uuid.NewString(),
		Name:  name,
		Color: color,
	}
	s.categories = append(s.categories, c)
	s.persist.SaveCategories(s.categories)
	return c
}

// UpdateCategory updates name and color of the category with the given id.
// No-op when the id is unknown.
func (s *Store) UpdateCategory(id, name, color string) (Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		s.categories[i].Name = name
		s.categories[i].Color = color
		s.persist.SaveCategories(s.categories)
		return s.categories[i], true
	}
	return Category{}, false
}

// DeleteCategory removes the category and cascades to every task that
// references it, persisting both collections. No-op when the id is unknown.
func (s *Store) DeleteCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.categories, func(c Category) bool { return c.ID == id })
	if idx == -1 {
		return
	}
	s.categories = slices.Delete(s.categories, idx, idx+1)
	s.tasks = slices.DeleteFunc(s.tasks, func(t Task) bool { return t.CategoryID == id })
	s.persist.SaveCategories(s.categories)
	s.persist.SaveTasks(s.tasks)
}

// CategoryByID looks up a category by id.
func (s *Store) CategoryByID(id string) (Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
