package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

type fakeParser struct {
	valid map[string]uuid.UUID
}

func (p fakeParser) ParseToken(token string) (uuid.UUID, error) {
	if id, ok := p.valid[token]; ok {
		return id, nil
	}
	return uuid.Nil, errors.New("bad token")
}

func newEngine(parser TokenParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(parser))
	r.GET("/open", func(c *gin.Context) { c.String(http.StatusOK, UserID(c).String()) })
	r.GET("/closed", RequireLogin(), func(c *gin.Context) { c.String(http.StatusOK, UserID(c).String()) })
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	r := newEngine(fakeParser{valid: map[string]uuid.UUID{"good": id}})

	t.Run("bearer header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/closed", nil)
		req.Header.Set("Authorization", "Bearer good")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, id.String(), w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/closed", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "good"})
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid token is anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer forged")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, uuid.Nil.String(), w.Body.String())
	})

	t.Run("login redirect keeps next", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/closed?page=2", nil))
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/auth/login/?next=%2Fclosed%3Fpage%3D2", w.Header().Get("Location"))
	})
}
