package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const (
	// UserIDKey is the gin context key holding the authenticated user's uuid.UUID.
	UserIDKey = "userID"
	// TokenCookie is set by the login endpoint for browser clients.
	TokenCookie = "token"
	LoginPath   = "/auth/login/"
)

type TokenParser interface {
	ParseToken(token string) (uuid.UUID, error)
}

// JWTAuthMiddleware resolves the caller from an "Authorization: Bearer"
// header or the token cookie. Requests without a valid token continue
// anonymously; RequireLogin decides whether that is acceptable.
func JWTAuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(TokenCookie)
		}
		if token != "" {
			if id, err := parser.ParseToken(token); err == nil {
				c.Set(UserIDKey, id)
			}
		}
		c.Next()
	}
}

// RequireLogin redirects anonymous callers to the login page, carrying the
// original path in "next".
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == uuid.Nil {
			c.Redirect(http.StatusFound, LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user or uuid.Nil.
func UserID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

func LoginRedirect(next string) string {
	return LoginPath + "?next=" + url.QueryEscape(next)
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
