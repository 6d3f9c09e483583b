package board

import "github.com/sadopc/minima/internal/model"

const UnknownProject = "Unknown Project"

// ResolveAssignees maps ids through users, keeping the order of ids and
// silently dropping ids with no match.
func ResolveAssignees(ids []string, users []model.User) []model.User {
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}

// AssigneeNames is ResolveAssignees reduced to display names.
func AssigneeNames(ids []string, users []model.User) []string {
	resolved := ResolveAssignees(ids, users)
	names := make([]string, len(resolved))
	for i, u := range resolved {
		names[i] = u.Name()
	}
	return names
}

func ResolveProject(projectID string, projects []model.Project) (model.Project, bool) {
	for _, p := range projects {
		if p.ID == projectID {
			return p.Clone(), true
		}
	}
	return model.Project{}, false
}

// ProjectName returns the project's name, or UnknownProject for orphans.
func ProjectName(projectID string, projects []model.Project) string {
	if p, ok := ResolveProject(projectID, projects); ok {
		return p.Name
	}
	return UnknownProject
}

func ResolveUser(userID string, users []model.User) (model.User, bool) {
	for _, u := range users {
		if u.ID == userID {
			return u, true
		}
	}
	return model.User{}, false
}
