package main

import (
	"context"
	"database/sql"

	dbadapter "blogfeed/internal/adapters/database"
	"blogfeed/internal/adapters/httpapi"
	"blogfeed/internal/adapters/memory"
	redisadapter "blogfeed/internal/adapters/redis"
	"blogfeed/internal/adapters/storage"
	"blogfeed/internal/config"
	commentapp "blogfeed/internal/core/comment/service"
	feedapp "blogfeed/internal/core/feed/service"
	followapp "blogfeed/internal/core/follow/service"
	groupapp "blogfeed/internal/core/group/service"
	postapp "blogfeed/internal/core/post/service"
	userapp "blogfeed/internal/core/user/service"
	"blogfeed/internal/ports/cache"
	"blogfeed/internal/ports/media"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	loaded := config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		config.InitLogger("development").Fatal("❌ Invalid configuration", zap.Error(err))
	}
	logger := config.InitLogger(cfg.Env)
	defer logger.Sync()
	logger.Info("configuration loaded", zap.Bool("dotenv", loaded), zap.String("driver", cfg.DBDriver))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("❌ Database connection failed", zap.Error(err))
	}
	if err := dbadapter.Migrate(db); err != nil {
		logger.Fatal("❌ Error during migrations", zap.Error(err))
	}
	logger.Info("✅ Database migrations completed")

	redisClient, err := config.InitRedis(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("❌ Redis connection failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("❌ Error getting raw DB", zap.Error(err))
	}
	defer closeResources(logger, redisClient, sqlDB)

	var indexCache cache.ListingCache
	if redisClient != nil {
		indexCache = redisadapter.NewListingCacheRedis(redisClient, cfg.IndexCacheTTL, logger)
	} else {
		logger.Info("using in-process index cache")
		indexCache = memory.NewListingCache(cfg.IndexCacheTTL)
	}

	var images media.ImageStore
	if cfg.S3Endpoint != "" {
		store, err := storage.NewImageStoreMinio(storage.ImageStoreConfig{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		}, logger)
		if err != nil {
			logger.Fatal("❌ Image store setup failed", zap.Error(err))
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Fatal("❌ Image bucket unavailable", zap.Error(err))
		}
		images = store
	} else {
		logger.Info("S3_ENDPOINT not set, image uploads disabled")
	}

	userRepo := dbadapter.NewUserRepositoryDatabase(db)
	groupRepo := dbadapter.NewGroupRepositoryDatabase(db)
	postRepo := dbadapter.NewPostRepositoryDatabase(db)
	commentRepo := dbadapter.NewCommentRepositoryDatabase(db)
	followRepo := dbadapter.NewFollowRepositoryDatabase(db)

	userSvc := userapp.NewUserService(userRepo, []byte(cfg.JWTSecret), logger)
	feedSvc := feedapp.NewFeedService(postRepo, groupRepo, userRepo, cfg.PostsPerPage, cfg.PostSummaryLength, logger)
	followSvc := followapp.NewFollowService(followRepo, userRepo, feedSvc, logger)
	postSvc := postapp.NewPostService(postRepo, groupRepo, images, logger)
	commentSvc := commentapp.NewCommentService(commentRepo, postRepo, logger)
	groupSvc := groupapp.NewGroupService(groupRepo, logger)

	r := httpapi.SetupRoutes(httpapi.Dependencies{
		Users:         userSvc,
		Feed:          feedSvc,
		Follows:       followSvc,
		Posts:         postSvc,
		Comments:      commentSvc,
		Groups:        groupSvc,
		IndexCache:    indexCache,
		Images:        images,
		SummaryLength: cfg.PostSummaryLength,
		Logger:        logger,

		AdminUsernames: cfg.AdminUsernames,
	})

	logger.Info("🚀 App is running", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
	}
}

// closeResources closes the redis and database connections.
func closeResources(logger *zap.Logger, redisClient *redis.Client, sqlDB *sql.DB) {
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
