package httpapi

import (
	"context"
	"net/http"

	"blogfeed/internal/adapters/httpapi/middleware"
	commentEntity "blogfeed/internal/core/comment"
	groupEntity "blogfeed/internal/core/group"
	postEntity "blogfeed/internal/core/post"
	postapp "blogfeed/internal/core/post/service"
	userEntity "blogfeed/internal/core/user"
	"blogfeed/internal/ports/cache"
	commentPort "blogfeed/internal/ports/comment"
	followPort "blogfeed/internal/ports/follow"
	groupPort "blogfeed/internal/ports/group"
	"blogfeed/internal/ports/media"
	postPort "blogfeed/internal/ports/post"
	userPort "blogfeed/internal/ports/user"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type UserUseCase interface {
	RegisterUser(ctx context.Context, firstName, lastName, username, password string) (*userPort.UserDTO, error)
	LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error)
	ParseToken(token string) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*userEntity.User, error)
}

type FeedUseCase interface {
	ListAll(ctx context.Context, page string) (*postPort.PageDTO, error)
	ListByGroup(ctx context.Context, slug, page string) (*groupEntity.Group, *postPort.PageDTO, error)
	ListByAuthor(ctx context.Context, username, page string) (*userEntity.User, *postPort.PageDTO, error)
}

type FollowUseCase interface {
	FollowByUsername(ctx context.Context, userID uuid.UUID, username string) error
	UnfollowByUsername(ctx context.Context, userID uuid.UUID, username string) error
	IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	PersonalizedFeed(ctx context.Context, userID uuid.UUID, page string) (*postPort.PageDTO, error)
	Counts(ctx context.Context, userID uuid.UUID) (*followPort.FollowCountsDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, form postapp.PostForm) (*postEntity.Post, error)
	EditPost(ctx context.Context, postID uint, editorID uuid.UUID, form postapp.PostForm) (*postEntity.Post, error)
	GetPost(ctx context.Context, postID uint) (*postEntity.Post, error)
}

type CommentUseCase interface {
	AddComment(ctx context.Context, postID uint, authorID uuid.UUID, text string) (*commentEntity.Comment, error)
	ListComments(ctx context.Context, postID uint) ([]commentPort.CommentDTO, error)
}

type GroupUseCase interface {
	CreateGroup(ctx context.Context, slug, title, description string) (*groupPort.GroupDTO, error)
	ListGroups(ctx context.Context) ([]groupPort.GroupDTO, error)
}

// Dependencies is everything the HTTP surface needs. Images may be nil
// when uploads are disabled.
type Dependencies struct {
	Users         UserUseCase
	Feed          FeedUseCase
	Follows       FollowUseCase
	Posts         PostUseCase
	Comments      CommentUseCase
	Groups        GroupUseCase
	IndexCache    cache.ListingCache
	Images        media.ImageStore
	SummaryLength int
	Logger        *zap.Logger

	// AdminUsernames may flush the index cache.
	AdminUsernames []string
}

func SetupRoutes(d Dependencies) *gin.Engine {
	registerFormFieldNames()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.ZapLogger(d.Logger), middleware.JWTAuthMiddleware(d.Users))

	view := &presenter{images: d.Images, summaryLen: d.SummaryLength, logger: d.Logger}
	fc := NewFeedController(d.Feed, d.Follows, d.IndexCache, view)
	pc := NewPostController(d.Posts, d.Comments, d.Groups, view)
	flc := NewFollowController(d.Follows, view)
	gc := NewGroupController(d.Groups, view)
	uc := NewUserController(d.Users, view)
	ac := NewAdminController(d.IndexCache, d.Users, d.AdminUsernames, view)

	login := middleware.RequireLogin()

	r.GET("/", fc.Index)
	r.GET("/group/:slug/", fc.GroupPosts)
	r.GET("/profile/:username/", fc.Profile)
	r.GET("/follow/", login, fc.FollowIndex)
	r.POST("/profile/:username/follow/", login, flc.Follow)
	r.POST("/profile/:username/unfollow/", login, flc.Unfollow)

	r.GET("/posts/:id/", pc.Detail)
	r.GET("/create/", login, pc.CreateForm)
	r.POST("/create/", login, pc.Create)
	r.GET("/posts/:id/edit/", login, pc.EditForm)
	r.POST("/posts/:id/edit/", login, pc.Edit)
	r.POST("/posts/:id/comment/", login, pc.AddComment)

	r.POST("/groups/", login, gc.Create)

	r.POST("/auth/signup/", uc.Signup)
	r.POST("/auth/login/", uc.Login)

	r.DELETE("/admin/cache/index/", login, ac.RequireAdmin, ac.InvalidateIndex)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
