package storage

import (
	"encoding/json"

	"github.com/sadopc/taskdeck/internal/store"
)

// LoadCategories returns the stored categories, or an empty collection when
// the record is absent or unreadable.
func (a *Adapter) LoadCategories() []store.Category {
	data, ok := a.readRecord(keyCategories)
	if !ok {
		return nil
	}
	var categories []store.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		a.logger.Error("decode categories record", "err", err)
		return nil
	}
	return categories
}

// SaveCategories overwrites the categories record.
func (a *Adapter) SaveCategories(categories []store.Category) {
	data, err := json.Marshal(emptyNotNull(categories))
	if err != nil {
		a.logger.Error("encode categories record", "err", err)
		return
	}
	a.writeRecord(keyCategories, data)
}

// LoadTasks returns the stored tasks after priority migration. When any
// stored task predates the priority field, the migrated collection is
// written back immediately so the next load is a no-op.
func (a *Adapter) LoadTasks() []store.Task {
	data, ok := a.readRecord(keyTasks)
	if !ok {
		return nil
	}
	var tasks []store.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		a.logger.Error("decode tasks record", "err", err)
		return nil
	}
	tasks, migrated := MigratePriorities(tasks)
	if migrated {
		a.logger.Info("backfilled task priorities", "count", len(tasks))
		a.SaveTasks(tasks)
	}
	return tasks
}

// SaveTasks overwrites the tasks record.
func (a *Adapter) SaveTasks(tasks []store.Task) {
	data, err := json.Marshal(emptyNotNull(tasks))
	if err != nil {
		a.logger.Error("encode tasks record", "err", err)
		return
	}
	a.writeRecord(keyTasks, data)
}

// MigratePriorities backfills priority on tasks that lack one, defaulting
// to normal. Idempotent: a second pass over its own output changes nothing.
func MigratePriorities(tasks []store.Task) ([]store.Task, bool) {
	migrated := false
	for i := range tasks {
		if tasks[i].Priority == "" {
			tasks[i].Priority = store.PriorityNormal
			migrated = true
		}
	}
	return tasks, migrated
}

// emptyNotNull keeps empty collections encoding as [] rather than null.
func emptyNotNull[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
