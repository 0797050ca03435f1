package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"blogfeed/internal/adapters/database"
	"blogfeed/internal/adapters/database/dbtest"
	"blogfeed/internal/adapters/memory"
	commentapp "blogfeed/internal/core/comment/service"
	feedapp "blogfeed/internal/core/feed/service"
	followapp "blogfeed/internal/core/follow/service"
	groupapp "blogfeed/internal/core/group/service"
	postEntity "blogfeed/internal/core/post"
	postapp "blogfeed/internal/core/post/service"
	userapp "blogfeed/internal/core/user/service"
	postPort "blogfeed/internal/ports/post"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeImageStore struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeImageStore) Put(_ context.Context, key, _ string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeImageStore) URL(key string) string { return "http://images.test/" + key }

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	users  *userapp.UserService
	cache  *memory.ListingCache
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.NewDB(t)
	log := zap.NewNop()

	userRepo := database.NewUserRepositoryDatabase(db)
	groupRepo := database.NewGroupRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)

	env := &testEnv{db: db, now: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)}
	env.users = userapp.NewUserService(userRepo, []byte("test-secret"), log)
	env.cache = memory.NewListingCache(20 * time.Second).WithClock(func() time.Time { return env.now })

	feed := feedapp.NewFeedService(postRepo, groupRepo, userRepo, 10, 15, log)
	env.router = SetupRoutes(Dependencies{
		Users:         env.users,
		Feed:          feed,
		Follows:       followapp.NewFollowService(database.NewFollowRepositoryDatabase(db), userRepo, feed, log),
		Posts:         postapp.NewPostService(postRepo, groupRepo, &fakeImageStore{}, log),
		Comments:      commentapp.NewCommentService(database.NewCommentRepositoryDatabase(db), postRepo, log),
		Groups:        groupapp.NewGroupService(groupRepo, log),
		IndexCache:    env.cache,
		Images:        &fakeImageStore{},
		SummaryLength: 15,
		Logger:        log,

		AdminUsernames: []string{"leo"},
	})
	return env
}

// signup registers username and returns a bearer token for it.
func (e *testEnv) signup(t *testing.T, username string) (string, uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	dto, err := e.users.RegisterUser(ctx, "", "", username, "password123")
	require.NoError(t, err)
	res, err := e.users.LoginUser(ctx, username, "password123")
	require.NoError(t, err)
	return res.Token, uuid.FromStringOrNil(dto.ID)
}

func (e *testEnv) seedPosts(t *testing.T, authorID uuid.UUID, n int) {
	t.Helper()
	repo := database.NewPostRepositoryDatabase(e.db)
	for i := 0; i < n; i++ {
		e.now = e.now.Add(time.Second)
		_, err := repo.Create(context.Background(), &postEntity.Post{
			Text: "seeded", AuthorID: authorID, PubDate: e.now,
		})
		require.NoError(t, err)
	}
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestIndexIsCachedUntilInvalidated(t *testing.T) {
	e := newTestEnv(t)
	token, id := e.signup(t, "leo")
	e.seedPosts(t, id, 2)

	first := e.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))
	require.Len(t, decode[postPort.PageDTO](t, first).Posts, 2)

	created := e.do(t, http.MethodPost, "/create/", url.Values{"text": {"fresh post"}}, token)
	require.Equal(t, http.StatusFound, created.Code)
	require.Equal(t, "/profile/leo/", created.Header().Get("Location"))

	cached := e.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, "HIT", cached.Header().Get("X-Cache"))
	require.Equal(t, first.Body.Bytes(), cached.Body.Bytes())

	otherToken, _ := e.signup(t, "mia")
	denied := e.do(t, http.MethodDelete, "/admin/cache/index/", nil, otherToken)
	require.Equal(t, http.StatusForbidden, denied.Code)
	require.Equal(t, "HIT", e.do(t, http.MethodGet, "/", nil, "").Header().Get("X-Cache"))

	cleared := e.do(t, http.MethodDelete, "/admin/cache/index/", nil, token)
	require.Equal(t, http.StatusNoContent, cleared.Code)

	fresh := e.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, "MISS", fresh.Header().Get("X-Cache"))
	require.Contains(t, fresh.Body.String(), "fresh post")
	require.Len(t, decode[postPort.PageDTO](t, fresh).Posts, 3)
}

func TestIndexCacheExpires(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.signup(t, "leo")

	require.Equal(t, "MISS", e.do(t, http.MethodGet, "/", nil, "").Header().Get("X-Cache"))
	e.do(t, http.MethodPost, "/create/", url.Values{"text": {"late post"}}, token)

	e.now = e.now.Add(21 * time.Second)
	w := e.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, "MISS", w.Header().Get("X-Cache"))
	require.Contains(t, w.Body.String(), "late post")
}

func TestIndexPagesAreCachedSeparately(t *testing.T) {
	e := newTestEnv(t)
	_, id := e.signup(t, "leo")
	e.seedPosts(t, id, 13)

	one := decode[postPort.PageDTO](t, e.do(t, http.MethodGet, "/?page=1", nil, ""))
	two := decode[postPort.PageDTO](t, e.do(t, http.MethodGet, "/?page=2", nil, ""))
	require.Len(t, one.Posts, 10)
	require.Len(t, two.Posts, 3)
	require.Equal(t, 2, two.Meta.Number)

	again := e.do(t, http.MethodGet, "/?page=2", nil, "")
	require.Equal(t, "HIT", again.Header().Get("X-Cache"))
	require.Len(t, decode[postPort.PageDTO](t, again).Posts, 3)

	junk := decode[postPort.PageDTO](t, e.do(t, http.MethodGet, "/?page=abc", nil, ""))
	require.Equal(t, 1, junk.Meta.Number)

	for _, raw := range []string{"1000", "1001", "0", "-4"} {
		w := e.do(t, http.MethodGet, "/?page="+raw, nil, "")
		require.Equal(t, "MISS", w.Header().Get("X-Cache"), raw)
		require.Equal(t, 2, decode[postPort.PageDTO](t, w).Meta.Number, raw)

		_, ok, err := e.cache.Get(context.Background(), raw)
		require.NoError(t, err)
		require.False(t, ok, raw)
	}
}

func TestLoginRequired(t *testing.T) {
	e := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/create/"},
		{http.MethodPost, "/create/"},
		{http.MethodGet, "/follow/"},
		{http.MethodPost, "/profile/leo/follow/"},
		{http.MethodPost, "/posts/1/comment/"},
	} {
		w := e.do(t, tc.method, tc.path, url.Values{}, "")
		require.Equal(t, http.StatusFound, w.Code, tc.path)
		require.Equal(t, "/auth/login/?next="+url.QueryEscape(tc.path), w.Header().Get("Location"))
	}
}

func TestCreatePostValidation(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.signup(t, "leo")

	w := e.do(t, http.MethodPost, "/create/", url.Values{"text": {""}}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]map[string]string](t, w)
	require.Equal(t, "required", body["errors"]["text"])

	w = e.do(t, http.MethodPost, "/create/", url.Values{"text": {"hi"}, "group": {"nope"}}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, decode[map[string]map[string]string](t, w)["errors"], "group")
}

func TestCreatePostWithImage(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.signup(t, "leo")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("text", "picture post"))
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="image"; filename="cat.png"`}
	h["Content-Type"] = []string{"image/png"}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/create/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	page := decode[postPort.PageDTO](t, e.do(t, http.MethodGet, "/profile/leo/", nil, ""))
	require.Len(t, page.Posts, 1)
	require.True(t, strings.HasPrefix(page.Posts[0].Image, "http://images.test/posts/"), page.Posts[0].Image)
	require.True(t, strings.HasSuffix(page.Posts[0].Image, ".png"))
}

func TestEditPost(t *testing.T) {
	e := newTestEnv(t)
	authorToken, authorID := e.signup(t, "leo")
	otherToken, _ := e.signup(t, "mia")
	e.seedPosts(t, authorID, 1)

	form := e.do(t, http.MethodGet, "/posts/1/edit/", nil, authorToken)
	require.Equal(t, http.StatusOK, form.Code)
	require.True(t, decode[postFormPage](t, form).IsEdit)

	w := e.do(t, http.MethodGet, "/posts/1/edit/", nil, otherToken)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/posts/1/", w.Header().Get("Location"))

	w = e.do(t, http.MethodPost, "/posts/1/edit/", url.Values{"text": {"hijacked"}}, otherToken)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/posts/1/", w.Header().Get("Location"))

	w = e.do(t, http.MethodPost, "/posts/1/edit/", url.Values{"text": {""}}, otherToken)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/posts/1/", w.Header().Get("Location"))

	w = e.do(t, http.MethodPost, "/posts/7/edit/", url.Values{"text": {"x"}}, authorToken)
	require.Equal(t, http.StatusNotFound, w.Code)

	detail := decode[postDetail](t, e.do(t, http.MethodGet, "/posts/1/", nil, ""))
	require.Equal(t, "seeded", detail.Post.Text)

	w = e.do(t, http.MethodPost, "/posts/1/edit/", url.Values{"text": {"edited"}}, authorToken)
	require.Equal(t, http.StatusFound, w.Code)
	detail = decode[postDetail](t, e.do(t, http.MethodGet, "/posts/1/", nil, ""))
	require.Equal(t, "edited", detail.Post.Text)
	require.Equal(t, "leo", detail.Post.Author.Username)
}

func TestComments(t *testing.T) {
	e := newTestEnv(t)
	token, id := e.signup(t, "leo")
	e.seedPosts(t, id, 1)

	w := e.do(t, http.MethodPost, "/posts/1/comment/", url.Values{"text": {"nice"}}, token)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/posts/1/", w.Header().Get("Location"))

	w = e.do(t, http.MethodPost, "/posts/1/comment/", url.Values{"text": {""}}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/posts/42/comment/", url.Values{"text": {"lost"}}, token)
	require.Equal(t, http.StatusNotFound, w.Code)

	detail := decode[postDetail](t, e.do(t, http.MethodGet, "/posts/1/", nil, ""))
	require.Len(t, detail.Comments, 1)
	require.Equal(t, "nice", detail.Comments[0].Text)
}

func TestFollowFlow(t *testing.T) {
	e := newTestEnv(t)
	readerToken, readerID := e.signup(t, "reader")
	_, writerID := e.signup(t, "writer")
	e.seedPosts(t, writerID, 2)

	empty := decode[postPort.PageDTO](t, e.do(t, http.MethodGet, "/follow/", nil, readerToken))
	require.Empty(t, empty.Posts)

	w := e.do(t, http.MethodPost, "/profile/writer/follow/", nil, readerToken)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/profile/writer/", w.Header().Get("Location"))

	feed := decode[postPort.PageDTO](t, e.do(t, http.MethodGet, "/follow/", nil, readerToken))
	require.Len(t, feed.Posts, 2)

	profile := decode[profilePage](t, e.do(t, http.MethodGet, "/profile/writer/", nil, readerToken))
	require.True(t, profile.Following)
	require.EqualValues(t, 1, profile.Counts.Followers)

	anon := decode[profilePage](t, e.do(t, http.MethodGet, "/profile/writer/", nil, ""))
	require.False(t, anon.Following)

	w = e.do(t, http.MethodPost, "/profile/reader/follow/", nil, readerToken)
	require.Equal(t, http.StatusFound, w.Code)
	self := decode[profilePage](t, e.do(t, http.MethodGet, "/profile/reader/", nil, readerToken))
	require.False(t, self.Following)
	require.EqualValues(t, 0, self.Counts.Followers)
	require.Equal(t, readerID.String(), self.Author.ID)

	w = e.do(t, http.MethodPost, "/profile/writer/unfollow/", nil, readerToken)
	require.Equal(t, http.StatusFound, w.Code)
	feed = decode[postPort.PageDTO](t, e.do(t, http.MethodGet, "/follow/", nil, readerToken))
	require.Empty(t, feed.Posts)

	w = e.do(t, http.MethodPost, "/profile/ghost/follow/", nil, readerToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGroups(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.signup(t, "leo")

	w := e.do(t, http.MethodPost, "/groups/", url.Values{"slug": {"cats"}, "title": {"Cats"}}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPost, "/groups/", url.Values{"slug": {"cats"}, "title": {"Again"}}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/create/", url.Values{"text": {"meow"}, "group": {"cats"}}, token)
	require.Equal(t, http.StatusFound, w.Code)

	g := decode[groupPage](t, e.do(t, http.MethodGet, "/group/cats/", nil, ""))
	require.Equal(t, "Cats", g.Group.Title)
	require.Len(t, g.Posts, 1)

	require.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/group/dogs/", nil, "").Code)
	require.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/profile/ghost/", nil, "").Code)
	require.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/posts/99/", nil, "").Code)
	require.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/posts/abc/", nil, "").Code)
}

func TestAuth(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/auth/signup/", url.Values{"username": {"leo"}, "password": {"short"}}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, decode[map[string]map[string]string](t, w)["errors"], "password")

	w = e.do(t, http.MethodPost, "/auth/signup/", url.Values{"username": {"leo"}, "password": {"password123"}}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPost, "/auth/login/", url.Values{"username": {"leo"}, "password": {"wrong-password"}}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/auth/login/?next=%2Fcreate%2F", url.Values{"username": {"leo"}, "password": {"password123"}}, "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/create/", w.Header().Get("Location"))

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	e.do(t, http.MethodGet, "/", nil, "")
	w = e.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "blogfeed_listing_cache_requests_total")
}

func TestUsernamesStayRoutable(t *testing.T) {
	e := newTestEnv(t)

	for _, handle := range []string{"a/b", "x?y"} {
		w := e.do(t, http.MethodPost, "/auth/signup/", url.Values{"username": {handle}, "password": {"password123"}}, "")
		require.Equal(t, http.StatusBadRequest, w.Code, handle)
		require.Contains(t, decode[map[string]map[string]string](t, w)["errors"], "username", handle)
	}

	token, _ := e.signup(t, "reader")
	e.signup(t, "mia+blog@home")

	w := e.do(t, http.MethodPost, "/profile/mia+blog@home/follow/", nil, token)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/profile/mia+blog@home/", w.Header().Get("Location"))

	profile := decode[profilePage](t, e.do(t, http.MethodGet, "/profile/mia+blog@home/", nil, token))
	require.True(t, profile.Following)
}
