package post

import (
	"context"
	"time"

	"blogfeed/internal/core/post"
	"blogfeed/internal/paginator"
	groupPort "blogfeed/internal/ports/group"
	userPort "blogfeed/internal/ports/user"

	"github.com/gofrs/uuid"
)

// Filter narrows a post listing. Zero value selects every post.
type Filter struct {
	GroupID    *uuid.UUID
	AuthorID   *uuid.UUID
	FollowedBy *uuid.UUID // posts by authors this user follows
}

// PostRepository stores posts. List results are ordered newest first
// (pub_date desc, id desc) with author and group loaded.
type PostRepository interface {
	Create(ctx context.Context, p *post.Post) (*post.Post, error)
	UpdateContent(ctx context.Context, p *post.Post) error
	FindByID(ctx context.Context, id uint) (*post.Post, error)
	Count(ctx context.Context, f Filter) (int64, error)
	List(ctx context.Context, f Filter, offset, limit int) ([]*post.Post, error)
}

type PostDTO struct {
	ID      uint                `json:"id"`
	Title   string              `json:"title"`
	Text    string              `json:"text"`
	PubDate time.Time           `json:"pub_date"`
	Author  userPort.UserDTO    `json:"author"`
	Group   *groupPort.GroupDTO `json:"group,omitempty"`
	Image   string              `json:"image,omitempty"`
}

// PageDTO is one page of a listing.
type PageDTO struct {
	Posts []PostDTO        `json:"posts"`
	Meta  paginator.Window `json:"meta"`
}

// ToDTO converts p; summaryLen controls the Title field.
func ToDTO(p *post.Post, summaryLen int) PostDTO {
	dto := PostDTO{
		ID:      p.ID,
		Title:   p.Summary(summaryLen),
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  userPort.ToDTO(&p.Author),
		Image:   p.Image,
	}
	if p.Group != nil {
		g := groupPort.ToDTO(p.Group)
		dto.Group = &g
	}
	return dto
}

func ToPageDTO(page paginator.Page[*post.Post], summaryLen int) PageDTO {
	posts := make([]PostDTO, 0, len(page.Items))
	for _, p := range page.Items {
		posts = append(posts, ToDTO(p, summaryLen))
	}
	return PageDTO{Posts: posts, Meta: page.Window}
}
