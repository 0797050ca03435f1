package commentapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blogfeed/internal/core/apperr"
	commentEntity "blogfeed/internal/core/comment"
	commentPort "blogfeed/internal/ports/comment"
	postPort "blogfeed/internal/ports/post"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type CommentService struct {
	CommentRepository commentPort.CommentRepository
	PostRepository    postPort.PostRepository
	logger            *zap.Logger
	now               func() time.Time
}

func NewCommentService(commentRepo commentPort.CommentRepository, postRepo postPort.PostRepository, logger *zap.Logger) *CommentService {
	return &CommentService{
		CommentRepository: commentRepo,
		PostRepository:    postRepo,
		logger:            logger,
		now:               time.Now,
	}
}

// AddComment appends a comment to postID.
func (s *CommentService) AddComment(ctx context.Context, postID uint, authorID uuid.UUID, text string) (*commentEntity.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.NewValidationError("text", "required")
	}
	if _, err := s.PostRepository.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	c, err := s.CommentRepository.Create(ctx, &commentEntity.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
		Created:  s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	s.logger.Debug("comment added", zap.Uint("post_id", postID), zap.Uint("comment_id", c.ID))
	return c, nil
}

// ListComments returns the thread of postID, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]commentPort.CommentDTO, error) {
	comments, err := s.CommentRepository.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	dtos := make([]commentPort.CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, commentPort.ToDTO(c))
	}
	return dtos, nil
}
