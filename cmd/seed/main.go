package main

import (
	"context"
	"flag"
	"time"

	dbadapter "blogfeed/internal/adapters/database"
	"blogfeed/internal/config"
	feedapp "blogfeed/internal/core/feed/service"
	followapp "blogfeed/internal/core/follow/service"
	groupapp "blogfeed/internal/core/group/service"
	postapp "blogfeed/internal/core/post/service"
	userapp "blogfeed/internal/core/user/service"
	"blogfeed/internal/seed"

	"go.uber.org/zap"
)

func main() {
	users := flag.Int("users", 50, "number of authors to create")
	groups := flag.Int("groups", 5, "number of groups to create")
	posts := flag.Int("posts", 10, "posts per author")
	follows := flag.Int("follows", 5, "follow attempts per author")
	seedValue := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		config.InitLogger("development").Fatal("❌ Invalid configuration", zap.Error(err))
	}
	logger := config.InitLogger(cfg.Env)
	defer logger.Sync()

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("❌ Database connection failed", zap.Error(err))
	}
	if err := dbadapter.Migrate(db); err != nil {
		logger.Fatal("❌ Error during migrations", zap.Error(err))
	}

	userRepo := dbadapter.NewUserRepositoryDatabase(db)
	groupRepo := dbadapter.NewGroupRepositoryDatabase(db)
	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	feedSvc := feedapp.NewFeedService(postRepo, groupRepo, userRepo, cfg.PostsPerPage, cfg.PostSummaryLength, logger)

	s := seed.NewSeeder(
		userapp.NewUserService(userRepo, []byte(cfg.JWTSecret), logger),
		groupapp.NewGroupService(groupRepo, logger),
		postapp.NewPostService(postRepo, groupRepo, nil, logger),
		followapp.NewFollowService(dbadapter.NewFollowRepositoryDatabase(db), userRepo, feedSvc, logger),
		logger,
	)

	stats, err := s.Run(context.Background(), seed.Options{
		Users:          *users,
		Groups:         *groups,
		PostsPerUser:   *posts,
		FollowsPerUser: *follows,
		Seed:           *seedValue,
	})
	if err != nil {
		logger.Fatal("❌ Seeding aborted", zap.Error(err))
	}
	logger.Info("✅ Seed finished",
		zap.Int("users", stats.Users),
		zap.Int("groups", stats.Groups),
		zap.Int("posts", stats.Posts),
		zap.Int("follows", stats.Follows),
		zap.String("password", seed.Password))
}
