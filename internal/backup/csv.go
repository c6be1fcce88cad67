package backup

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/taskdeck/internal/store"
)

// ToCSV writes a flat task listing to path, resolving category names from
// the given lookup. Meant for spreadsheets; JSON backup is the format the
// importer understands.
func ToCSV(tasks []store.Task, categories map[string]store.Category, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Category", "Priority", "Status", "Deadline", "Created"}); err != nil {
		return err
	}

	for _, t := range tasks {
		categoryName := "Unknown"
		if c, ok := categories[t.CategoryID]; ok {
			categoryName = c.Name
		}

		row := []string{
			t.ID,
			t.Title,
			categoryName,
			string(t.Priority),
			string(t.Status),
			t.Deadline,
			t.CreatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
