package tui

import (
	"github.com/sadopc/taskdeck/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTasks viewState = iota
	viewCategories
	viewStats
)

var viewNames = []string{"Tasks", "Categories", "Stats"}

// --- Messages ---

type tasksDataMsg struct {
	tasks      []store.Task
	categories []store.Category
}

type categoriesDataMsg struct {
	categories []store.Category
}

type statsDataMsg struct {
	tasks      []store.Task
	categories []store.Category
}

type statusMsg struct {
	text    string
	isError bool
}

type backupDoneMsg struct {
	path string
}

type importDoneMsg struct{}

// --- Helpers ---

func priorityMarker(p store.Priority) string {
	switch p {
	case store.PriorityUrgent:
		return "!!"
	case store.PriorityHot:
		return " !"
	case store.PriorityLow:
		return " ·"
	default:
		return "  "
	}
}

func statusLabel(s store.Status) string {
	switch s {
	case store.StatusInProgress:
		return "in progress"
	case store.StatusDone:
		return "done"
	default:
		return "todo"
	}
}

// nextStatus cycles todo -> in-progress -> done -> todo.
func nextStatus(s store.Status) store.Status {
	switch s {
	case store.StatusTodo:
		return store.StatusInProgress
	case store.StatusInProgress:
		return store.StatusDone
	default:
		return store.StatusTodo
	}
}

// truncate shortens s to at most n runes, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
