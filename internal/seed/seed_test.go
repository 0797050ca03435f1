package seed

import (
	"context"
	"testing"

	"blogfeed/internal/adapters/database"
	"blogfeed/internal/adapters/database/dbtest"
	feedapp "blogfeed/internal/core/feed/service"
	followapp "blogfeed/internal/core/follow/service"
	groupapp "blogfeed/internal/core/group/service"
	postapp "blogfeed/internal/core/post/service"
	userapp "blogfeed/internal/core/user/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun(t *testing.T) {
	db := dbtest.NewDB(t)
	log := zap.NewNop()
	userRepo := database.NewUserRepositoryDatabase(db)
	groupRepo := database.NewGroupRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)
	feed := feedapp.NewFeedService(postRepo, groupRepo, userRepo, 10, 15, log)

	s := NewSeeder(
		userapp.NewUserService(userRepo, []byte("secret"), log),
		groupapp.NewGroupService(groupRepo, log),
		postapp.NewPostService(postRepo, groupRepo, nil, log),
		followapp.NewFollowService(database.NewFollowRepositoryDatabase(db), userRepo, feed, log),
		log,
	)

	stats, err := s.Run(context.Background(), Options{
		Users: 4, Groups: 2, PostsPerUser: 3, FollowsPerUser: 2, Seed: 42,
	})
	require.NoError(t, err)
	require.Equal(t, 4, stats.Users)
	require.Equal(t, 2, stats.Groups)
	require.Equal(t, 12, stats.Posts)

	page, err := feed.ListAll(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	require.Equal(t, 12, page.Meta.TotalItems)
}

func TestRunStopsOnCancel(t *testing.T) {
	db := dbtest.NewDB(t)
	log := zap.NewNop()
	userRepo := database.NewUserRepositoryDatabase(db)
	groupRepo := database.NewGroupRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)
	feed := feedapp.NewFeedService(postRepo, groupRepo, userRepo, 10, 15, log)
	s := NewSeeder(
		userapp.NewUserService(userRepo, []byte("secret"), log),
		groupapp.NewGroupService(groupRepo, log),
		postapp.NewPostService(postRepo, groupRepo, nil, log),
		followapp.NewFollowService(database.NewFollowRepositoryDatabase(db), userRepo, feed, log),
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Run(ctx, Options{Users: 3, PostsPerUser: 1})
	require.ErrorIs(t, err, context.Canceled)
}
