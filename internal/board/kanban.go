package board

import "github.com/sadopc/minima/internal/model"

// Buckets holds one column per status, indexed like model.Statuses.
type Buckets [4][]model.Task

// BucketByStatus partitions tasks into kanban columns. Each column keeps the
// input order. Tasks with an unrecognised status are dropped.
func BucketByStatus(tasks []model.Task) Buckets {
	var b Buckets
	for _, t := range tasks {
		i := t.Status.Index()
		if i < 0 {
			continue
		}
		b[i] = append(b[i], t.Clone())
	}
	return b
}

// Column returns the bucket for a status.
func (b Buckets) Column(s model.Status) []model.Task {
	i := s.Index()
	if i < 0 {
		return nil
	}
	return b[i]
}

func (b Buckets) Len() int {
	n := 0
	for _, col := range b {
		n += len(col)
	}
	return n
}

// StatusCounts returns the number of tasks per status in model.Statuses order.
func StatusCounts(tasks []model.Task) [4]int {
	var n [4]int
	for _, t := range tasks {
		if i := t.Status.Index(); i >= 0 {
			n[i]++
		}
	}
	return n
}

// ShiftStatus returns the neighbouring status in column order, clamped at
// the ends. delta is typically -1 or +1.
func ShiftStatus(s model.Status, delta int) model.Status {
	i := s.Index()
	if i < 0 {
		return s
	}
	i += delta
	if i < 0 {
		i = 0
	}
	if i >= len(model.Statuses) {
		i = len(model.Statuses) - 1
	}
	return model.Statuses[i]
}

// NextStatus cycles through statuses, wrapping after the last.
func NextStatus(s model.Status) model.Status {
	i := s.Index()
	return model.Statuses[(i+1)%len(model.Statuses)]
}
