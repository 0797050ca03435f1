package httpapi

import (
	"net/http"
	"net/url"

	"blogfeed/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
)

type FollowController struct {
	follows FollowUseCase
	view    *presenter
}

func NewFollowController(follows FollowUseCase, view *presenter) *FollowController {
	return &FollowController{follows: follows, view: view}
}

// Follow subscribes the caller to the profile's author. Following yourself
// or someone already followed still lands back on the profile.
func (ctl *FollowController) Follow(c *gin.Context) {
	username := c.Param("username")
	if err := ctl.follows.FollowByUsername(c.Request.Context(), middleware.UserID(c), username); err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(username))
}

func (ctl *FollowController) Unfollow(c *gin.Context) {
	username := c.Param("username")
	if err := ctl.follows.UnfollowByUsername(c.Request.Context(), middleware.UserID(c), username); err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(username))
}

func profilePath(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}
