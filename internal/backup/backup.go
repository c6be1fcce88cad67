// Package backup serializes the full application state to a transportable
// JSON document and restores state from one.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sadopc/taskdeck/internal/storage"
	"github.com/sadopc/taskdeck/internal/store"
)

// Document is the backup wire format. Extra fields in an imported document
// are ignored.
type Document struct {
	Categories []store.Category `json:"categories"`
	Tasks      []store.Task     `json:"tasks"`
	ExportedAt string           `json:"exportedAt"`
}

// documentSchema is the structural contract an imported document must meet:
// both collections present and array-shaped. Record fields beyond that are
// checked only as far as decoding into the domain types requires.
const documentSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["categories", "tasks"],
	"properties": {
		"categories": {"type": "array"},
		"tasks": {"type": "array"}
	}
}`

var schema = jsonschema.MustCompileString("backup.schema.json", documentSchema)

// ValidationError describes why an imported document was rejected. An
// import that fails leaves both the store and durable state untouched.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid backup document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid backup document: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Codec reads and writes backup documents against a store and its
// persistence backend.
type Codec struct {
	store   *store.Store
	persist store.Persistence

	now func() time.Time
}

func New(s *store.Store, p store.Persistence) *Codec {
	return &Codec{store: s, persist: p, now: time.Now}
}

// Export builds a document from current durable state. Durable, not
// in-memory: if a write previously failed, the export will not reflect the
// unpersisted change.
func (c *Codec) Export() Document {
	categories := c.persist.LoadCategories()
	if categories == nil {
		// Keep empty collections as [] so the document stays importable.
		categories = []store.Category{}
	}
	tasks := c.persist.LoadTasks()
	if tasks == nil {
		tasks = []store.Task{}
	}
	return Document{
		Categories: categories,
		Tasks:      tasks,
		ExportedAt: c.now().UTC().Format(time.RFC3339),
	}
}

// ExportJSON serializes the export document.
func (c *Codec) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(c.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// ExportFile writes the export document to path.
func (c *Codec) ExportFile(path string) error {
	data, err := c.ExportJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	return nil
}

// Import validates data and replaces both the durable records and the live
// store with the document's collections. Beyond the schema's array check,
// every element must decode into its record type; a document whose elements
// do not is rejected too. On any validation failure the previous state is
// fully preserved. Imported tasks get the same priority backfill applied as
// tasks loaded from storage.
func (c *Codec) Import(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Reason: "not parseable as JSON", Err: err}
	}
	if err := schema.Validate(raw); err != nil {
		return &ValidationError{Reason: "document shape", Err: err}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Reason: "record shape", Err: err}
	}

	tasks, _ := storage.MigratePriorities(doc.Tasks)
	c.store.Replace(doc.Categories, tasks)
	return nil
}

// ImportFile reads and imports the document at path.
func (c *Codec) ImportFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup file: %w", err)
	}
	return c.Import(data)
}
