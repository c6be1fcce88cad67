// Package query derives the display list from raw store state. Everything
// here is pure: inputs are never mutated and identical inputs produce
// identical output.
package query

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/sadopc/taskdeck/internal/store"
)

// Derive filters tasks against f and orders the survivors for display.
// It returns a fresh slice; the input is left untouched.
func Derive(tasks []store.Task, f store.Filters) []store.Task {
	var out []store.Task
	for _, t := range tasks {
		if Matches(t, f) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, Compare)
	return out
}

// Matches reports whether t passes every active (non-empty) criterion:
// category equality, status equality, priority equality, and
// case-insensitive substring match of the search text against the title.
func Matches(t store.Task, f store.Filters) bool {
	if f.Category != "" && t.CategoryID != f.Category {
		return false
	}
	if f.Status != "" && string(t.Status) != f.Status {
		return false
	}
	if f.Priority != "" && string(t.Priority) != f.Priority {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Compare orders two tasks for display: priority rank ascending, then
// createdAt descending (newest first), then tasks with a deadline before
// tasks without one, earliest deadline first.
func Compare(a, b store.Task) int {
	if d := a.Priority.Rank() - b.Priority.Rank(); d != 0 {
		return d
	}
	if d := b.CreatedAt.Compare(a.CreatedAt); d != 0 {
		return d
	}
	switch {
	case a.Deadline != "" && b.Deadline == "":
		return -1
	case a.Deadline == "" && b.Deadline != "":
		return 1
	default:
		return strings.Compare(a.Deadline, b.Deadline)
	}
}

// Overdue reports whether the task's deadline has passed as of now.
// Done tasks and tasks without a deadline are never overdue.
func Overdue(t store.Task, now time.Time) bool {
	if t.Deadline == "" || t.Status == store.StatusDone {
		return false
	}
	d, err := time.ParseInLocation(store.DeadlineFormat, t.Deadline, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return d.Before(today)
}

// CompletionPercent returns the share of tasks that are done, rounded to
// the nearest whole percent. Zero when there are no tasks.
func CompletionPercent(tasks []store.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == store.StatusDone {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}
