package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"blogfeed/internal/adapters/httpapi/middleware"
	"blogfeed/internal/core/apperr"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users UserUseCase
	view  *presenter
}

func NewUserController(users UserUseCase, view *presenter) *UserController {
	return &UserController{users: users, view: view}
}

func (ctl *UserController) Signup(c *gin.Context) {
	var req struct {
		FirstName string `form:"first_name" json:"first_name" binding:"max=150"`
		LastName  string `form:"last_name" json:"last_name" binding:"max=150"`
		Username  string `form:"username" json:"username" binding:"required,max=150"`
		Password  string `form:"password" json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBind(&req); err != nil {
		ctl.view.badForm(c, err)
		return
	}
	u, err := ctl.users.RegisterUser(c.Request.Context(), req.FirstName, req.LastName, req.Username, req.Password)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Login issues a token and stores it in a cookie. A local "next" target
// turns the response into a redirect back to where the user came from.
func (ctl *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username" binding:"required"`
		Password string `form:"password" json:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		ctl.view.badForm(c, err)
		return
	}
	res, err := ctl.users.LoginUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		ctl.view.fail(c, err)
		return
	}

	maxAge := int(time.Until(time.Unix(res.ExpiresAt, 0)).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, res.Token, maxAge, "/", "", false, true)

	if next := c.Query("next"); isLocalPath(next) {
		c.Redirect(http.StatusFound, next)
		return
	}
	c.JSON(http.StatusOK, res)
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}
