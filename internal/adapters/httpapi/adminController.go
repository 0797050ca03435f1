package httpapi

import (
	"errors"
	"net/http"

	"blogfeed/internal/adapters/httpapi/middleware"
	"blogfeed/internal/core/apperr"
	"blogfeed/internal/ports/cache"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	cache  cache.ListingCache
	users  UserUseCase
	admins map[string]struct{}
	view   *presenter
}

func NewAdminController(c cache.ListingCache, users UserUseCase, adminUsernames []string, view *presenter) *AdminController {
	admins := make(map[string]struct{}, len(adminUsernames))
	for _, name := range adminUsernames {
		admins[name] = struct{}{}
	}
	return &AdminController{cache: c, users: users, admins: admins, view: view}
}

// RequireAdmin lets only configured admin accounts through. Runs after
// RequireLogin, so the caller is known.
func (ctl *AdminController) RequireAdmin(c *gin.Context) {
	u, err := ctl.users.FindByID(c.Request.Context(), middleware.UserID(c))
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		ctl.view.fail(c, err)
		c.Abort()
		return
	}
	if u == nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if _, ok := ctl.admins[u.Username]; !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.Next()
}

// InvalidateIndex drops every cached index page so the next request
// rebuilds it from the store.
func (ctl *AdminController) InvalidateIndex(c *gin.Context) {
	if err := ctl.cache.Invalidate(c.Request.Context()); err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
