// Package category serves the fixed category and priority vocabularies that
// clients offer when a grievance is filed. Stored grievances are not checked
// against them.
package category

import (
	"strings"

	"github.com/frahmantamala/grievance-management/internal/advisory"
)

type Category struct {
	Name        string
	Description string
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		Name:        c.Name,
		Description: c.Description,
	}
}

// fromLabel splits "High - Needs immediate investigation" into its name and
// description.
func fromLabel(label string) *Category {
	name, description, _ := strings.Cut(label, " - ")
	return &Category{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
}

func defaultCategories() []*Category {
	out := make([]*Category, 0, len(advisory.Categories))
	for _, name := range advisory.Categories {
		out = append(out, &Category{Name: name})
	}
	return out
}

func defaultPriorities() []*Category {
	out := make([]*Category, 0, len(advisory.PriorityLevels))
	for _, label := range advisory.PriorityLevels {
		out = append(out, fromLabel(label))
	}
	return out
}
