package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	groups GroupUseCase
	view   *presenter
}

func NewGroupController(groups GroupUseCase, view *presenter) *GroupController {
	return &GroupController{groups: groups, view: view}
}

func (ctl *GroupController) Create(c *gin.Context) {
	var req struct {
		Slug        string `form:"slug" json:"slug" binding:"required,max=200"`
		Title       string `form:"title" json:"title" binding:"required,max=200"`
		Description string `form:"description" json:"description"`
	}
	if err := c.ShouldBind(&req); err != nil {
		ctl.view.badForm(c, err)
		return
	}
	g, err := ctl.groups.CreateGroup(c.Request.Context(), req.Slug, req.Title, req.Description)
	if err != nil {
		ctl.view.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}
