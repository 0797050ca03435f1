package database

import (
	"context"
	"errors"

	"blogfeed/internal/core/follow"
	"blogfeed/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepositoryDatabase implements FollowRepository on gorm. The unique
// index on (user_id, author_id) is the only serialization point for
// concurrent follows.
type FollowRepositoryDatabase struct {
	db *gorm.DB
}

func NewFollowRepositoryDatabase(db *gorm.DB) *FollowRepositoryDatabase {
	return &FollowRepositoryDatabase{db: db}
}

func (repo *FollowRepositoryDatabase) Create(ctx context.Context, f *follow.Follow) (bool, error) {
	res := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (repo *FollowRepositoryDatabase) Delete(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	res := repo.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&follow.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (repo *FollowRepositoryDatabase) Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&follow.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *FollowRepositoryDatabase) ListFollowing(ctx context.Context, userID uuid.UUID) ([]*user.User, error) {
	return repo.usersIn(ctx, repo.db.WithContext(ctx).
		Model(&follow.Follow{}).
		Select("author_id").
		Where("user_id = ?", userID))
}

func (repo *FollowRepositoryDatabase) ListFollowers(ctx context.Context, authorID uuid.UUID) ([]*user.User, error) {
	return repo.usersIn(ctx, repo.db.WithContext(ctx).
		Model(&follow.Follow{}).
		Select("user_id").
		Where("author_id = ?", authorID))
}

func (repo *FollowRepositoryDatabase) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&follow.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (repo *FollowRepositoryDatabase) CountFollowers(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&follow.Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (repo *FollowRepositoryDatabase) usersIn(ctx context.Context, ids *gorm.DB) ([]*user.User, error) {
	var users []*user.User
	if err := repo.db.WithContext(ctx).Where("id IN (?)", ids).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
