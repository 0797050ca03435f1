// Package seed fills a store with fake authors, groups, posts and follow
// edges for local development.
package seed

import (
	"context"
	"fmt"

	postEntity "blogfeed/internal/core/post"
	postapp "blogfeed/internal/core/post/service"
	groupPort "blogfeed/internal/ports/group"
	userPort "blogfeed/internal/ports/user"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Password is shared by every generated account.
const Password = "password123"

type UserCreator interface {
	RegisterUser(ctx context.Context, firstName, lastName, username, password string) (*userPort.UserDTO, error)
}

type GroupCreator interface {
	CreateGroup(ctx context.Context, slug, title, description string) (*groupPort.GroupDTO, error)
}

type PostCreator interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, form postapp.PostForm) (*postEntity.Post, error)
}

type Follower interface {
	Follow(ctx context.Context, userID, authorID uuid.UUID) error
}

type Options struct {
	Users          int
	Groups         int
	PostsPerUser   int
	FollowsPerUser int
	Seed           int64
}

type Stats struct {
	Users   int
	Groups  int
	Posts   int
	Follows int
}

type Seeder struct {
	users   UserCreator
	groups  GroupCreator
	posts   PostCreator
	follows Follower
	logger  *zap.Logger
}

func NewSeeder(users UserCreator, groups GroupCreator, posts PostCreator, follows Follower, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, groups: groups, posts: posts, follows: follows, logger: logger}
}

// Run creates the data described by opts. Individual failures are logged
// and skipped; only context cancellation stops the run early.
func (s *Seeder) Run(ctx context.Context, opts Options) (Stats, error) {
	faker := gofakeit.New(opts.Seed)
	var stats Stats

	s.logger.Info("🚀 Creating users...", zap.Int("target", opts.Users))
	userIDs := make([]uuid.UUID, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		username := fmt.Sprintf("%s%d", faker.Username(), i)
		u, err := s.users.RegisterUser(ctx, faker.FirstName(), faker.LastName(), username, Password)
		if err != nil {
			s.logger.Error("❌ Error creating user", zap.String("username", username), zap.Error(err))
			continue
		}
		userIDs = append(userIDs, uuid.FromStringOrNil(u.ID))
	}
	stats.Users = len(userIDs)
	s.logger.Info("✅ Finished creating users", zap.Int("count", stats.Users))

	slugs := make([]string, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		slug := fmt.Sprintf("group-%d", i+1)
		g, err := s.groups.CreateGroup(ctx, slug, faker.Hobby(), faker.Sentence(8))
		if err != nil {
			s.logger.Error("❌ Error creating group", zap.String("slug", slug), zap.Error(err))
			continue
		}
		slugs = append(slugs, g.Slug)
	}
	stats.Groups = len(slugs)

	s.logger.Info("🚀 Starting follow setup...")
	for _, userID := range userIDs {
		for n := 0; n < opts.FollowsPerUser && len(userIDs) > 1; n++ {
			authorID := userIDs[faker.Number(0, len(userIDs)-1)]
			if authorID == userID {
				continue
			}
			if err := s.follows.Follow(ctx, userID, authorID); err != nil {
				s.logger.Error("❌ Error: user could not follow", zap.Error(err))
				continue
			}
			stats.Follows++
		}
	}
	s.logger.Info("✅ Follow setup completed", zap.Int("count", stats.Follows))

	s.logger.Info("🚀 Starting post creation...")
	for _, userID := range userIDs {
		for p := 0; p < opts.PostsPerUser; p++ {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			form := postapp.PostForm{Text: faker.Paragraph(1, 3, 12, " ")}
			if len(slugs) > 0 && faker.Bool() {
				form.GroupSlug = slugs[faker.Number(0, len(slugs)-1)]
			}
			if _, err := s.posts.CreatePost(ctx, userID, form); err != nil {
				s.logger.Error("❌ Error creating post", zap.String("user_id", userID.String()), zap.Error(err))
				continue
			}
			stats.Posts++
			if stats.Posts%100 == 0 {
				s.logger.Info("➡️ Created posts so far", zap.Int("count", stats.Posts))
			}
		}
	}
	s.logger.Info("✅ Seed data creation completed", zap.Int("posts", stats.Posts))
	return stats, nil
}
