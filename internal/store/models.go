package store

import "time"

// Priority is the display weight of a task. Lower rank sorts first.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHot    Priority = "hot"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank for a priority. Unknown values rank as normal.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHot:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// Status is a task lifecycle state. Transitions are unconstrained: any
// status may be set from any other, including reverting done to todo.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is a member of the status set.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Task is a unit of work. Deadline is a calendar date in 2006-01-02 form,
// empty when the task has none. Priority is omitempty so that records
// written before the priority field existed can still be represented.
type Task struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CategoryID string    `json:"categoryId"`
	Deadline   string    `json:"deadline,omitempty"`
	Status     Status    `json:"status"`
	Priority   Priority  `json:"priority,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Filters holds the active list criteria. An empty field matches anything.
// Filters live in memory only and are never persisted.
type Filters struct {
	Category string
	Status   string
	Priority string
	Search   string
}

// TaskUpdate carries a partial task update. Nil fields are left unchanged;
// each non-nil field overwrites the stored value (last write wins).
type TaskUpdate struct {
	Title      *string
	CategoryID *string
	Deadline   *string
	Priority   *Priority
}

// DeadlineFormat is the calendar-date layout used for task deadlines.
const DeadlineFormat = "2006-01-02"
