package followapp

import (
	"context"
	"fmt"

	followEntity "blogfeed/internal/core/follow"
	userEntity "blogfeed/internal/core/user"
	"blogfeed/internal/metrics"
	followPort "blogfeed/internal/ports/follow"
	postPort "blogfeed/internal/ports/post"
	userPort "blogfeed/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// PostLister pages through filtered post listings.
type PostLister interface {
	List(ctx context.Context, f postPort.Filter, page string) (*postPort.PageDTO, error)
}

type FollowService struct {
	FollowRepository followPort.FollowRepository
	UserRepository   userPort.UserRepository
	posts            PostLister
	logger           *zap.Logger
}

func NewFollowService(
	followRepo followPort.FollowRepository,
	userRepo userPort.UserRepository,
	posts PostLister,
	logger *zap.Logger,
) *FollowService {
	return &FollowService{
		FollowRepository: followRepo,
		UserRepository:   userRepo,
		posts:            posts,
		logger:           logger,
	}
}

// Follow records that userID follows authorID. Following yourself or
// following twice changes nothing and is not an error.
func (s *FollowService) Follow(ctx context.Context, userID, authorID uuid.UUID) error {
	if userID == authorID {
		s.logger.Debug("⚠️ self follow ignored", zap.String("user_id", userID.String()))
		return nil
	}

	created, err := s.FollowRepository.Create(ctx, &followEntity.Follow{
		ID:       uuid.Must(uuid.NewV4()),
		UserID:   userID,
		AuthorID: authorID,
	})
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	if created {
		metrics.Followed()
		s.logger.Info("✅ follow",
			zap.String("user_id", userID.String()),
			zap.String("author_id", authorID.String()))
	}
	return nil
}

// Unfollow removes the edge if it exists.
func (s *FollowService) Unfollow(ctx context.Context, userID, authorID uuid.UUID) error {
	deleted, err := s.FollowRepository.Delete(ctx, userID, authorID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	if deleted {
		metrics.Unfollowed()
		s.logger.Info("unfollow",
			zap.String("user_id", userID.String()),
			zap.String("author_id", authorID.String()))
	}
	return nil
}

func (s *FollowService) FollowByUsername(ctx context.Context, userID uuid.UUID, username string) error {
	author, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.Follow(ctx, userID, author.ID)
}

func (s *FollowService) UnfollowByUsername(ctx context.Context, userID uuid.UUID, username string) error {
	author, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.Unfollow(ctx, userID, author.ID)
}

// IsFollowing is false for anonymous viewers (uuid.Nil).
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	return s.FollowRepository.Exists(ctx, userID, authorID)
}

// PersonalizedFeed pages through posts by the authors userID follows,
// newest first. The follow set is read at query time, so unfollowed
// authors disappear immediately.
func (s *FollowService) PersonalizedFeed(ctx context.Context, userID uuid.UUID, page string) (*postPort.PageDTO, error) {
	return s.posts.List(ctx, postPort.Filter{FollowedBy: &userID}, page)
}

func (s *FollowService) Following(ctx context.Context, userID uuid.UUID) ([]userPort.UserDTO, error) {
	users, err := s.FollowRepository.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTOs(users), nil
}

func (s *FollowService) Followers(ctx context.Context, authorID uuid.UUID) ([]userPort.UserDTO, error) {
	users, err := s.FollowRepository.ListFollowers(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return toDTOs(users), nil
}

func (s *FollowService) Counts(ctx context.Context, userID uuid.UUID) (*followPort.FollowCountsDTO, error) {
	followers, err := s.FollowRepository.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.FollowRepository.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &followPort.FollowCountsDTO{Followers: followers, Following: following}, nil
}

func toDTOs(users []*userEntity.User) []userPort.UserDTO {
	dtos := make([]userPort.UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, userPort.ToDTO(u))
	}
	return dtos
}
