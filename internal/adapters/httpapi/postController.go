package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"blogfeed/internal/adapters/httpapi/middleware"
	"blogfeed/internal/core/apperr"
	postEntity "blogfeed/internal/core/post"
	postapp "blogfeed/internal/core/post/service"
	commentPort "blogfeed/internal/ports/comment"
	groupPort "blogfeed/internal/ports/group"
	postPort "blogfeed/internal/ports/post"

	"github.com/gin-gonic/gin"
)

const maxImageBytes = 5 << 20

type PostController struct {
	posts    PostUseCase
	comments CommentUseCase
	groups   GroupUseCase
	view     *presenter
}

func NewPostController(posts PostUseCase, comments CommentUseCase, groups GroupUseCase, view *presenter) *PostController {
	return &PostController{posts: posts, comments: comments, groups: groups, view: view}
}

type postRequest struct {
	Text  string `form:"text" json:"text" binding:"required"`
	Group string `form:"group" json:"group"`
}

type commentRequest struct {
	Text string `form:"text" json:"text" binding:"required"`
}

type postDetail struct {
	Post     postPort.PostDTO         `json:"post"`
	Comments []commentPort.CommentDTO `json:"comments"`
}

type postFormPage struct {
	Post   *postPort.PostDTO    `json:"post,omitempty"`
	Groups []groupPort.GroupDTO `json:"groups"`
	IsEdit bool                 `json:"is_edit"`
}

func (ctl *PostController) Detail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		ctl.view.fail(c, apperr.ErrNotFound)
		return
	}
	ctx := c.Request.Context()
	p, err := ctl.posts.GetPost(ctx, id)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	comments, err := ctl.comments.ListComments(ctx, id)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, postDetail{Post: ctl.postDTO(p), Comments: comments})
}

func (ctl *PostController) CreateForm(c *gin.Context) {
	groups, err := ctl.groups.ListGroups(c.Request.Context())
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, postFormPage{Groups: groups})
}

func (ctl *PostController) Create(c *gin.Context) {
	form, ok := ctl.bindPostForm(c)
	if !ok {
		return
	}
	p, err := ctl.posts.CreatePost(c.Request.Context(), middleware.UserID(c), form)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(p.Author.Username))
}

// EditForm shows the post for editing. Anyone but the author is sent back
// to the post page.
func (ctl *PostController) EditForm(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		ctl.view.fail(c, apperr.ErrNotFound)
		return
	}
	ctx := c.Request.Context()
	p, err := ctl.posts.GetPost(ctx, id)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	if p.AuthorID != middleware.UserID(c) {
		c.Redirect(http.StatusFound, detailPath(id))
		return
	}
	groups, err := ctl.groups.ListGroups(ctx)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	dto := ctl.postDTO(p)
	c.JSON(http.StatusOK, postFormPage{Post: &dto, Groups: groups, IsEdit: true})
}

// Edit saves the author's changes. Ownership is checked before the form
// is looked at, so a non-author is redirected whatever the body holds.
func (ctl *PostController) Edit(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		ctl.view.fail(c, apperr.ErrNotFound)
		return
	}
	p, err := ctl.posts.GetPost(c.Request.Context(), id)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	if p.AuthorID != middleware.UserID(c) {
		c.Redirect(http.StatusFound, detailPath(id))
		return
	}
	form, ok := ctl.bindPostForm(c)
	if !ok {
		return
	}
	_, err = ctl.posts.EditPost(c.Request.Context(), id, middleware.UserID(c), form)
	if errors.Is(err, apperr.ErrForbidden) {
		c.Redirect(http.StatusFound, detailPath(id))
		return
	}
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, detailPath(id))
}

func (ctl *PostController) AddComment(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		ctl.view.fail(c, apperr.ErrNotFound)
		return
	}
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		ctl.view.badForm(c, err)
		return
	}
	if _, err := ctl.comments.AddComment(c.Request.Context(), id, middleware.UserID(c), req.Text); err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, detailPath(id))
}

func (ctl *PostController) bindPostForm(c *gin.Context) (postapp.PostForm, bool) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		ctl.view.badForm(c, err)
		return postapp.PostForm{}, false
	}
	form := postapp.PostForm{Text: req.Text, GroupSlug: req.Group}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return form, true
	case err != nil:
		ctl.view.badForm(c, err)
		return postapp.PostForm{}, false
	}
	if fh.Size > maxImageBytes {
		ctl.view.fail(c, apperr.NewValidationError("image", "file too large"))
		return postapp.PostForm{}, false
	}
	f, err := fh.Open()
	if err != nil {
		ctl.view.fail(c, err)
		return postapp.PostForm{}, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		ctl.view.fail(c, err)
		return postapp.PostForm{}, false
	}
	form.Image = &postapp.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	return form, true
}

func (ctl *PostController) postDTO(p *postEntity.Post) postPort.PostDTO {
	dto := postPort.ToDTO(p, ctl.view.summaryLen)
	dto.Image = ctl.view.imageURL(dto.Image)
	return dto
}

func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func detailPath(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}
