package backup

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sadopc/taskdeck/internal/storage"
	"github.com/sadopc/taskdeck/internal/store"
)

// flakyPersist wraps a real adapter and drops writes on demand, so memory
// and durable state can be pushed apart.
type flakyPersist struct {
	*storage.Adapter
	fail bool
}

func (p *flakyPersist) SaveCategories(categories []store.Category) {
	if p.fail {
		return
	}
	p.Adapter.SaveCategories(categories)
}

func (p *flakyPersist) SaveTasks(tasks []store.Task) {
	if p.fail {
		return
	}
	p.Adapter.SaveTasks(tasks)
}

func newTestCodec(t *testing.T) (*Codec, *store.Store, *flakyPersist) {
	t.Helper()
	a, err := storage.NewMemory(log.New(io.Discard))
	if err != nil {
		t.Fatalf("new memory adapter: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	p := &flakyPersist{Adapter: a}
	st := store.New(p)
	return New(st, p), st, p
}

// ============================================================
// Export
// ============================================================

func TestExportShape(t *testing.T) {
	codec, st, _ := newTestCodec(t)
	c := st.AddCategory("Home", "#ef4444")
	st.AddTask("Mow lawn", c.ID, "2026-09-01", store.PriorityHot)

	doc := codec.Export()
	if len(doc.Categories) != 1 || len(doc.Tasks) != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if _, err := time.Parse(time.RFC3339, doc.ExportedAt); err != nil {
		t.Fatalf("exportedAt %q is not RFC 3339: %v", doc.ExportedAt, err)
	}
}

func TestExportEmptyStateIsImportable(t *testing.T) {
	codec, _, _ := newTestCodec(t)

	data, err := codec.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}
	if err := codec.Import(data); err != nil {
		t.Fatalf("export of an empty store must be importable: %v", err)
	}
}

func TestExportReadsDurableState(t *testing.T) {
	codec, st, p := newTestCodec(t)
	c := st.AddCategory("Home", "#ef4444")
	st.AddTask("Persisted", c.ID, "", "")

	// This mutation never reaches durable storage.
	p.fail = true
	st.AddTask("Lost to the export", c.ID, "", "")
	p.fail = false

	doc := codec.Export()
	if len(doc.Tasks) != 1 || doc.Tasks[0].Title != "Persisted" {
		t.Fatalf("export must reflect durable state only, got %+v", doc.Tasks)
	}
}

// ============================================================
// Import
// ============================================================

func TestExportImportRoundTrip(t *testing.T) {
	codec, st, _ := newTestCodec(t)
	c1 := st.AddCategory("Home", "#ef4444")
	c2 := st.AddCategory("Work", "#3b82f6")
	st.AddTask("Mow lawn", c1.ID, "2026-09-01", store.PriorityHot)
	st.AddTask("Ship release", c2.ID, "", store.PriorityUrgent)

	wantCategories := st.Categories()
	wantTasks := st.Tasks()

	data, err := codec.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}
	if err := codec.Import(data); err != nil {
		t.Fatalf("import: %v", err)
	}

	if !slices.Equal(st.Categories(), wantCategories) {
		t.Fatalf("categories changed across round trip:\n%+v\n%+v", st.Categories(), wantCategories)
	}
	gotTasks := st.Tasks()
	if len(gotTasks) != len(wantTasks) {
		t.Fatalf("task count changed: %d != %d", len(gotTasks), len(wantTasks))
	}
	for i := range wantTasks {
		got, want := gotTasks[i], wantTasks[i]
		if got.ID != want.ID || got.Title != want.Title || got.CategoryID != want.CategoryID ||
			got.Deadline != want.Deadline || got.Status != want.Status || got.Priority != want.Priority ||
			!got.CreatedAt.Equal(want.CreatedAt) {
			t.Fatalf("task %d changed across round trip:\n%+v\n%+v", i, got, want)
		}
	}
}

func TestImportMissingCategories(t *testing.T) {
	codec, st, _ := newTestCodec(t)
	st.AddCategory("Keep me", "#ef4444")
	before := st.Categories()

	err := codec.Import([]byte(`{"tasks": []}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !slices.Equal(st.Categories(), before) {
		t.Fatal("rejected import must leave prior state unchanged")
	}
}

func TestImportCategoriesNotArray(t *testing.T) {
	codec, _, _ := newTestCodec(t)

	err := codec.Import([]byte(`{"categories": "nope", "tasks": []}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestImportRejectsNonRecordElements(t *testing.T) {
	codec, st, _ := newTestCodec(t)
	st.AddCategory("Keep me", "#ef4444")
	before := st.Categories()

	// Arrays pass the shape check, but the elements are not task records.
	err := codec.Import([]byte(`{"categories": [], "tasks": [1, 2]}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !slices.Equal(st.Categories(), before) {
		t.Fatal("rejected import must leave prior state unchanged")
	}
}

func TestImportMalformedJSON(t *testing.T) {
	codec, st, p := newTestCodec(t)
	st.AddCategory("Keep me", "#ef4444")
	before := p.LoadCategories()

	err := codec.Import([]byte(`{broken`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !slices.Equal(p.LoadCategories(), before) {
		t.Fatal("rejected import must leave durable state unchanged")
	}
}

func TestImportExtraFieldsIgnored(t *testing.T) {
	codec, st, _ := newTestCodec(t)

	doc := `{
		"categories": [{"id": "c1", "name": "Home", "color": "#ef4444"}],
		"tasks": [],
		"exportedAt": "2026-08-29T00:00:00Z",
		"appVersion": "9.9.9",
		"anything": {"else": true}
	}`
	if err := codec.Import([]byte(doc)); err != nil {
		t.Fatalf("extra fields must be ignored: %v", err)
	}
	if len(st.Categories()) != 1 || st.Categories()[0].Name != "Home" {
		t.Fatalf("import did not land: %+v", st.Categories())
	}
}

func TestImportBackfillsPriority(t *testing.T) {
	codec, st, _ := newTestCodec(t)

	doc := `{
		"categories": [{"id": "c1", "name": "Home", "color": "#ef4444"}],
		"tasks": [{"id": "t1", "title": "Old record", "categoryId": "c1", "status": "todo", "createdAt": "2026-08-01T12:00:00Z"}]
	}`
	if err := codec.Import([]byte(doc)); err != nil {
		t.Fatal(err)
	}

	tasks := st.Tasks()
	if tasks[0].Priority != store.PriorityNormal {
		t.Fatalf("imported task should get the priority backfill, got %q", tasks[0].Priority)
	}
}

func TestImportReplacesBothStoreAndDurable(t *testing.T) {
	codec, st, p := newTestCodec(t)
	st.AddCategory("Old", "#111")

	doc := `{"categories": [{"id": "c9", "name": "New", "color": "#222"}], "tasks": []}`
	if err := codec.Import([]byte(doc)); err != nil {
		t.Fatal(err)
	}

	if len(st.Categories()) != 1 || st.Categories()[0].ID != "c9" {
		t.Fatalf("store not replaced: %+v", st.Categories())
	}
	durable := p.LoadCategories()
	if len(durable) != 1 || durable[0].ID != "c9" {
		t.Fatalf("durable record not replaced: %+v", durable)
	}
}

// ============================================================
// Files
// ============================================================

func TestExportImportFile(t *testing.T) {
	codec, st, _ := newTestCodec(t)
	c := st.AddCategory("Home", "#ef4444")
	st.AddTask("Mow lawn", c.ID, "", "")

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := codec.ExportFile(path); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	// The file on disk is a well-formed document.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"categories", "tasks", "exportedAt"} {
		if _, ok := doc[field]; !ok {
			t.Fatalf("document missing %q", field)
		}
	}

	if err := codec.ImportFile(path); err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
}

func TestImportFileMissing(t *testing.T) {
	codec, _, _ := newTestCodec(t)
	err := codec.ImportFile(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Fatal("a read failure is not a validation failure")
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tasks := []store.Task{
		{ID: "t1", Title: "Mow lawn", CategoryID: "c1", Deadline: "2026-09-01", Status: store.StatusTodo, Priority: store.PriorityHot, CreatedAt: created},
		{ID: "t2", Title: "Orphaned", CategoryID: "gone", Status: store.StatusDone, Priority: store.PriorityNormal, CreatedAt: created},
	}
	categories := map[string]store.Category{
		"c1": {ID: "c1", Name: "Home", Color: "#ef4444"},
	}

	path := filepath.Join(t.TempDir(), "tasks.csv")
	if err := ToCSV(tasks, categories, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"ID", "Title", "Category", "Priority", "Status", "Deadline", "Created"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[1] != "Mow lawn" || row[2] != "Home" || row[3] != "hot" || row[5] != "2026-09-01" {
		t.Fatalf("unexpected row: %v", row)
	}

	// Unknown category falls back to a placeholder.
	if records[2][2] != "Unknown" {
		t.Fatalf("orphaned task category = %q, want Unknown", records[2][2])
	}
}
