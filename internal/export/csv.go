package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sadopc/minima/internal/board"
	"github.com/sadopc/minima/internal/model"
)

// Data is what an export needs to resolve names.
type Data struct {
	Tasks    []model.Task
	Projects []model.Project
	Users    []model.User
}

var csvHeader = []string{"ID", "Project", "Name", "Status", "Priority", "Due", "Assignees", "Tags", "Description", "Created", "Updated"}

func ToCSV(d Data, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, d)
}

func WriteCSV(out io.Writer, d Data) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range d.Tasks {
		row := []string{
			t.ID,
			board.ProjectName(t.ProjectID, d.Projects),
			t.Name,
			t.Status.Label(),
			t.Priority.Label(),
			formatDue(t.DueDate),
			strings.Join(board.AssigneeNames(t.AssigneeIDs, d.Users), "; "),
			strings.Join(t.Tags, ", "),
			t.Description,
			t.CreatedAt.Local().Format(time.RFC3339),
			t.UpdatedAt.Local().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDue(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Local().Format("2006-01-02")
}
