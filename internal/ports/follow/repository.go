package follow

import (
	"context"

	"blogfeed/internal/core/follow"
	"blogfeed/internal/core/user"

	"github.com/gofrs/uuid"
)

// FollowRepository stores follow edges. Create must treat an existing
// (user, author) pair as success and report created=false.
type FollowRepository interface {
	Create(ctx context.Context, f *follow.Follow) (created bool, err error)
	Delete(ctx context.Context, userID, authorID uuid.UUID) (deleted bool, err error)
	Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]*user.User, error)
	ListFollowers(ctx context.Context, authorID uuid.UUID) ([]*user.User, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowers(ctx context.Context, authorID uuid.UUID) (int64, error)
}

type FollowCountsDTO struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
