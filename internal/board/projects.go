package board

import "github.com/sadopc/minima/internal/model"

type ProjectSummary struct {
	Total int `json:"total"`
	Done  int `json:"done"`
}

func ProjectStats(tasks []model.Task, projectID string) ProjectSummary {
	var s ProjectSummary
	for _, t := range tasks {
		if t.ProjectID != projectID {
			continue
		}
		s.Total++
		if t.Status == model.StatusDone {
			s.Done++
		}
	}
	return s
}

// Progress returns the project's supplied progress when set; otherwise the
// share of its tasks that are done, as a percentage.
func Progress(p model.Project, tasks []model.Task) int {
	if p.Progress != nil {
		return clampPercent(*p.Progress)
	}
	s := ProjectStats(tasks, p.ID)
	if s.Total == 0 {
		return 0
	}
	return s.Done * 100 / s.Total
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
