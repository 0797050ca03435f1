package postapp

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"blogfeed/internal/core/apperr"
	postEntity "blogfeed/internal/core/post"
	groupPort "blogfeed/internal/ports/group"
	"blogfeed/internal/ports/media"
	postPort "blogfeed/internal/ports/post"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Image is an uploaded file attached to a post form.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PostForm carries the editable fields of a post. An empty GroupSlug
// leaves the post outside any group. A nil Image keeps the current one.
type PostForm struct {
	Text      string
	GroupSlug string
	Image     *Image
}

type PostService struct {
	PostRepository  postPort.PostRepository
	GroupRepository groupPort.GroupRepository
	Images          media.ImageStore // nil when uploads are disabled
	logger          *zap.Logger
	now             func() time.Time
}

func NewPostService(
	postRepo postPort.PostRepository,
	groupRepo groupPort.GroupRepository,
	images media.ImageStore,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		PostRepository:  postRepo,
		GroupRepository: groupRepo,
		Images:          images,
		logger:          logger,
		now:             time.Now,
	}
}

// CreatePost publishes a new post by authorID, dated now, and returns it
// with author and group loaded.
func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, form PostForm) (*postEntity.Post, error) {
	p := &postEntity.Post{AuthorID: authorID}
	if err := s.apply(ctx, p, form); err != nil {
		return nil, err
	}
	p.PubDate = s.now()

	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.logger.Info("post created",
		zap.Uint("post_id", created.ID),
		zap.String("author_id", authorID.String()))
	return s.PostRepository.FindByID(ctx, created.ID)
}

// EditPost rewrites text, group and image of an existing post. Only the
// author may edit; anyone else gets ErrForbidden and nothing is written.
func (s *PostService) EditPost(ctx context.Context, postID uint, editorID uuid.UUID, form PostForm) (*postEntity.Post, error) {
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != editorID {
		s.logger.Debug("edit refused",
			zap.Uint("post_id", postID),
			zap.String("editor_id", editorID.String()))
		return nil, apperr.ErrForbidden
	}
	if err := s.apply(ctx, p, form); err != nil {
		return nil, err
	}
	if err := s.PostRepository.UpdateContent(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return s.PostRepository.FindByID(ctx, postID)
}

// GetPost returns a post with author and group loaded.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*postEntity.Post, error) {
	return s.PostRepository.FindByID(ctx, postID)
}

// apply validates form and copies it onto p. The image is uploaded last so
// an invalid form never leaves an orphaned object behind.
func (s *PostService) apply(ctx context.Context, p *postEntity.Post, form PostForm) error {
	text := strings.TrimSpace(form.Text)
	verr := &apperr.ValidationError{}
	if text == "" {
		verr.Add("text", "required")
	}

	var groupID *uuid.UUID
	if slug := strings.TrimSpace(form.GroupSlug); slug != "" {
		g, err := s.GroupRepository.FindBySlug(ctx, slug)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			verr.Add("group", "unknown group")
		case err != nil:
			return fmt.Errorf("lookup group: %w", err)
		default:
			groupID = &g.ID
		}
	}

	if form.Image != nil {
		if s.Images == nil {
			verr.Add("image", "uploads are disabled")
		} else if !strings.HasPrefix(form.Image.ContentType, "image/") {
			verr.Add("image", "not an image")
		}
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	if form.Image != nil {
		key := "posts/" + uuid.Must(uuid.NewV4()).String() + path.Ext(form.Image.Filename)
		if err := s.Images.Put(ctx, key, form.Image.ContentType, form.Image.Data); err != nil {
			return fmt.Errorf("store image: %w", err)
		}
		p.Image = key
	}
	p.Text = text
	p.GroupID = groupID
	p.Group = nil
	return nil
}
