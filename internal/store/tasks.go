package store

import (
	"slices"

	"github.com/google/uuid"
)

// AddTask appends a task with a fresh id and persists. Status starts at
// todo; an empty priority defaults to normal. The caller validates that
// title is non-empty and categoryID names an existing category.
func (s *Store) AddTask(title, categoryID, deadline string, priority Priority) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if priority == "" {
		priority = PriorityNormal
	}
	t := Task{
		ID:         uuid.NewString(),
		Title:      title,
		CategoryID: categoryID,
		Deadline:   deadline,
		Status:     StatusTodo,
		Priority:   priority,
		CreatedAt:  s.now(),
	}
	s.tasks = append(s.tasks, t)
	s.persist.SaveTasks(s.tasks)
	return t
}

// UpdateTask merges u into the task with the given id, last write wins per
// field, and persists. No-op when the id is unknown.
func (s *Store) UpdateTask(id string, u TaskUpdate) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		if u.Title != nil {
			s.tasks[i].Title = *u.Title
		}
		if u.CategoryID != nil {
			s.tasks[i].CategoryID = *u.CategoryID
		}
		if u.Deadline != nil {
			s.tasks[i].Deadline = *u.Deadline
		}
		if u.Priority != nil {
			s.tasks[i].Priority = *u.Priority
		}
		s.persist.SaveTasks(s.tasks)
		return s.tasks[i], true
	}
	return Task{}, false
}

// DeleteTask removes the task and persists. No-op when the id is unknown.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
	if idx == -1 {
		return
	}
	s.tasks = slices.Delete(s.tasks, idx, idx+1)
	s.persist.SaveTasks(s.tasks)
}

// UpdateTaskStatus transitions the task to status and persists. A value
// outside the status set is rejected silently: no change, no write. Any
// valid status is reachable from any other.
func (s *Store) UpdateTaskStatus(id string, status Status) (Task, bool) {
	if !status.Valid() {
		return Task{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		s.tasks[i].Status = status
		s.persist.SaveTasks(s.tasks)
		return s.tasks[i], true
	}
	return Task{}, false
}

// TaskByID looks up a task by id.
func (s *Store) TaskByID(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
