package database

import (
	"context"

	"blogfeed/internal/core/follow"
	"blogfeed/internal/core/post"
	postPort "blogfeed/internal/ports/post"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepositoryDatabase implements PostRepository on gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateContent writes the mutable columns only; author and pub_date are
// never part of an update.
func (repo *PostRepositoryDatabase) UpdateContent(ctx context.Context, p *post.Post) error {
	res := repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"text":     p.Text,
			"group_id": p.GroupID,
			"image":    p.Image,
		})
	if res.Error != nil {
		return res.Error
	}
	return nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uint) (*post.Post, error) {
	var p post.Post
	err := repo.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) Count(ctx context.Context, f postPort.Filter) (int64, error) {
	var count int64
	if err := repo.filtered(ctx, f).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *PostRepositoryDatabase) List(ctx context.Context, f postPort.Filter, offset, limit int) ([]*post.Post, error) {
	var posts []*post.Post
	err := repo.filtered(ctx, f).
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) filtered(ctx context.Context, f postPort.Filter) *gorm.DB {
	q := repo.db.WithContext(ctx).Model(&post.Post{})
	if f.GroupID != nil {
		q = q.Where("group_id = ?", *f.GroupID)
	}
	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	if f.FollowedBy != nil {
		followed := repo.db.WithContext(ctx).
			Model(&follow.Follow{}).
			Select("author_id").
			Where("user_id = ?", *f.FollowedBy)
		q = q.Where("author_id IN (?)", followed)
	}
	return q
}
