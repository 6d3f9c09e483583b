package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/minima/internal/board"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Tasks      []jsonTask `json:"tasks"`
}

type jsonTask struct {
	ID          string   `json:"id"`
	Project     string   `json:"project"`
	ProjectID   string   `json:"project_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date,omitempty"`
	Assignees   []string `json:"assignees"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func ToJSON(d Data, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()
	if err := WriteJSON(f, d); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func WriteJSON(w io.Writer, d Data) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(d.Tasks),
		Tasks:      make([]jsonTask, 0, len(d.Tasks)),
	}

	for _, t := range d.Tasks {
		tags := t.Tags
		if tags == nil {
			tags = []string{}
		}
		export.Tasks = append(export.Tasks, jsonTask{
			ID:          t.ID,
			Project:     board.ProjectName(t.ProjectID, d.Projects),
			ProjectID:   t.ProjectID,
			Name:        t.Name,
			Description: t.Description,
			Status:      string(t.Status),
			Priority:    string(t.Priority),
			DueDate:     formatDue(t.DueDate),
			Assignees:   board.AssigneeNames(t.AssigneeIDs, d.Users),
			Tags:        tags,
			CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
