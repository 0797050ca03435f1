package comment

import (
	"context"
	"time"

	"blogfeed/internal/core/comment"
	userPort "blogfeed/internal/ports/user"
)

// CommentRepository stores comments. ListByPost returns them oldest first.
type CommentRepository interface {
	Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*comment.Comment, error)
}

type CommentDTO struct {
	ID      uint             `json:"id"`
	PostID  uint             `json:"post_id"`
	Author  userPort.UserDTO `json:"author"`
	Text    string           `json:"text"`
	Created time.Time        `json:"created"`
}

func ToDTO(c *comment.Comment) CommentDTO {
	return CommentDTO{
		ID:      c.ID,
		PostID:  c.PostID,
		Author:  userPort.ToDTO(&c.Author),
		Text:    c.Text,
		Created: c.Created,
	}
}
