package forms

import (
	"strings"
	"time"

	"github.com/sadopc/minima/internal/model"
)

const (
	ProjectNameMax        = 100
	ProjectDescriptionMax = 500
)

type ProjectForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func NewProjectForm() ProjectForm {
	return ProjectForm{Color: model.DefaultColor.Value}
}

func ProjectFormFrom(p model.Project) ProjectForm {
	return ProjectForm{Name: p.Name, Description: p.Description, Color: p.Color}
}

var (
	ProjectNameCheck        = All(Required("Project name is required."), MaxLen(ProjectNameMax))
	ProjectDescriptionCheck = MaxLen(ProjectDescriptionMax)
	ProjectColorCheck       = All(Required("Project color is required."), paletteColor)
)

func paletteColor(s string) error {
	values := make([]string, len(model.Palette))
	for i, c := range model.Palette {
		values[i] = c.Value
	}
	return OneOf(values...)(s)
}

func (f ProjectForm) Validate() *Errors {
	return check([]Rule{
		{Field: "name", Value: f.Name, Check: ProjectNameCheck},
		{Field: "description", Value: f.Description, Check: ProjectDescriptionCheck},
		{Field: "color", Value: f.Color, Check: ProjectColorCheck},
	})
}

// ToProject builds the project the form describes. A new project is owned by
// ownerID, who also becomes its first member. Progress is left unset so it
// follows the project's tasks.
func (f ProjectForm) ToProject(existing *model.Project, ownerID string, now time.Time) model.Project {
	var p model.Project
	if existing != nil {
		p = existing.Clone()
	} else {
		p = model.Project{
			ID:        model.NewID("project", now),
			OwnerID:   ownerID,
			MemberIDs: []string{ownerID},
			CreatedAt: now,
		}
	}
	p.Name = strings.TrimSpace(f.Name)
	p.Description = f.Description
	p.Color = f.Color
	p.UpdatedAt = now
	return p
}
