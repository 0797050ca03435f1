package database

import (
	"errors"

	"blogfeed/internal/core/apperr"
	"blogfeed/internal/core/comment"
	"blogfeed/internal/core/follow"
	"blogfeed/internal/core/group"
	"blogfeed/internal/core/post"
	"blogfeed/internal/core/user"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the store owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&group.Group{},
		&post.Post{},
		&comment.Comment{},
		&follow.Follow{},
	)
}

// notFound maps gorm's missing-row error onto the shared taxonomy.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	return err
}
