package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"blogfeed/internal/adapters/httpapi/middleware"
	"blogfeed/internal/metrics"
	"blogfeed/internal/ports/cache"
	followPort "blogfeed/internal/ports/follow"
	groupPort "blogfeed/internal/ports/group"
	postPort "blogfeed/internal/ports/post"
	userPort "blogfeed/internal/ports/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FeedController struct {
	feed    FeedUseCase
	follows FollowUseCase
	cache   cache.ListingCache
	view    *presenter
}

func NewFeedController(feed FeedUseCase, follows FollowUseCase, c cache.ListingCache, view *presenter) *FeedController {
	return &FeedController{feed: feed, follows: follows, cache: c, view: view}
}

type groupPage struct {
	Group groupPort.GroupDTO `json:"group"`
	*postPort.PageDTO
}

type profilePage struct {
	Author    userPort.UserDTO           `json:"author"`
	Following bool                       `json:"following"`
	Counts    followPort.FollowCountsDTO `json:"counts"`
	*postPort.PageDTO
}

// Index serves the global listing. Rendered pages are cached per resolved
// page number; new posts show up once the entry expires or is invalidated.
func (ctl *FeedController) Index(c *gin.Context) {
	page := cacheablePage(c.Query("page"))
	ctx := c.Request.Context()

	payload, hit, err := ctl.cache.Get(ctx, page)
	if err != nil {
		metrics.CacheError()
		ctl.view.logger.Warn("⚠️ index cache read failed", zap.Error(err))
	}
	if hit {
		metrics.CacheHit()
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
		return
	}
	metrics.CacheMiss()

	dto, err := ctl.feed.ListAll(ctx, page)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	payload, err = json.Marshal(ctl.view.page(dto))
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	// Out-of-range values render another page; only store what was asked
	// for so clients cannot mint keys.
	if strconv.Itoa(dto.Meta.Number) == page {
		if err := ctl.cache.Put(ctx, page, payload); err != nil {
			metrics.CacheError()
			ctl.view.logger.Warn("⚠️ index cache write failed", zap.Error(err))
		}
	}
	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (ctl *FeedController) GroupPosts(c *gin.Context) {
	g, dto, err := ctl.feed.ListByGroup(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, groupPage{Group: groupPort.ToDTO(g), PageDTO: ctl.view.page(dto)})
}

func (ctl *FeedController) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	author, dto, err := ctl.feed.ListByAuthor(ctx, c.Param("username"), c.Query("page"))
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	following, err := ctl.follows.IsFollowing(ctx, middleware.UserID(c), author.ID)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	counts, err := ctl.follows.Counts(ctx, author.ID)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profilePage{
		Author:    userPort.ToDTO(author),
		Following: following,
		Counts:    *counts,
		PageDTO:   ctl.view.page(dto),
	})
}

func (ctl *FeedController) FollowIndex(c *gin.Context) {
	dto, err := ctl.follows.PersonalizedFeed(c.Request.Context(), middleware.UserID(c), c.Query("page"))
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.view.page(dto))
}

// cacheablePage canonicalizes the page query so "02", " 2" and "2" share
// an entry and garbage collapses onto page 1.
func cacheablePage(raw string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "1"
	}
	return strconv.Itoa(n)
}
