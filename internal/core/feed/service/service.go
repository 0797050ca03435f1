package feedapp

import (
	"context"
	"fmt"

	groupEntity "blogfeed/internal/core/group"
	postEntity "blogfeed/internal/core/post"
	userEntity "blogfeed/internal/core/user"
	"blogfeed/internal/paginator"
	groupPort "blogfeed/internal/ports/group"
	postPort "blogfeed/internal/ports/post"
	userPort "blogfeed/internal/ports/user"

	"go.uber.org/zap"
)

// FeedService assembles paginated post listings. Counting and slicing
// happen in the store; only one page of posts is ever loaded.
type FeedService struct {
	PostRepository  postPort.PostRepository
	GroupRepository groupPort.GroupRepository
	UserRepository  userPort.UserRepository
	pageSize        int
	summaryLen      int
	logger          *zap.Logger
}

func NewFeedService(
	postRepo postPort.PostRepository,
	groupRepo groupPort.GroupRepository,
	userRepo userPort.UserRepository,
	pageSize, summaryLen int,
	logger *zap.Logger,
) *FeedService {
	return &FeedService{
		PostRepository:  postRepo,
		GroupRepository: groupRepo,
		UserRepository:  userRepo,
		pageSize:        pageSize,
		summaryLen:      summaryLen,
		logger:          logger,
	}
}

// ListAll returns the requested page of every post.
func (s *FeedService) ListAll(ctx context.Context, page string) (*postPort.PageDTO, error) {
	return s.List(ctx, postPort.Filter{}, page)
}

// ListByGroup returns the requested page of posts filed under slug.
func (s *FeedService) ListByGroup(ctx context.Context, slug, page string) (*groupEntity.Group, *postPort.PageDTO, error) {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	dto, err := s.List(ctx, postPort.Filter{GroupID: &g.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return g, dto, nil
}

// ListByAuthor returns the requested page of posts written by username.
func (s *FeedService) ListByAuthor(ctx context.Context, username, page string) (*userEntity.User, *postPort.PageDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	dto, err := s.List(ctx, postPort.Filter{AuthorID: &u.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return u, dto, nil
}

// List pages through the posts matching f.
func (s *FeedService) List(ctx context.Context, f postPort.Filter, page string) (*postPort.PageDTO, error) {
	total, err := s.PostRepository.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	w := paginator.NewWindow(int(total), s.pageSize, page)

	var posts []*postEntity.Post
	if w.Limit > 0 {
		posts, err = s.PostRepository.List(ctx, f, w.Offset, w.Limit)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
	}
	s.logger.Debug("feed page",
		zap.String("page", page),
		zap.Int("number", w.Number),
		zap.Int("total", w.TotalItems))

	dto := postPort.ToPageDTO(paginator.FromWindow(w, posts), s.summaryLen)
	return &dto, nil
}
