package group

import (
	"context"

	"blogfeed/internal/core/group"

	"github.com/gofrs/uuid"
)

type GroupRepository interface {
	Create(ctx context.Context, g *group.Group) (*group.Group, error)
	FindBySlug(ctx context.Context, slug string) (*group.Group, error)
	FindByID(ctx context.Context, id uuid.UUID) (*group.Group, error)
	List(ctx context.Context) ([]*group.Group, error)
}

type GroupDTO struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func ToDTO(g *group.Group) GroupDTO {
	return GroupDTO{
		ID:          g.ID.String(),
		Slug:        g.Slug,
		Title:       g.Title,
		Description: g.Description,
	}
}
