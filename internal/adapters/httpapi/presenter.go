package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"blogfeed/internal/adapters/httpapi/middleware"
	"blogfeed/internal/core/apperr"
	"blogfeed/internal/ports/media"
	postPort "blogfeed/internal/ports/post"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// presenter renders DTOs and errors the same way for every controller.
type presenter struct {
	images     media.ImageStore
	summaryLen int
	logger     *zap.Logger
}

// page swaps stored image keys for public URLs.
func (p *presenter) page(dto *postPort.PageDTO) *postPort.PageDTO {
	for i := range dto.Posts {
		dto.Posts[i].Image = p.imageURL(dto.Posts[i].Image)
	}
	return dto
}

func (p *presenter) imageURL(key string) string {
	if key == "" || p.images == nil {
		return key
	}
	return p.images.URL(key)
}

// fail maps a service error onto the response. Unauthorized goes to the
// login page; Forbidden is handled by callers since its redirect target
// depends on the route.
func (p *presenter) fail(c *gin.Context, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.Redirect(http.StatusFound, middleware.LoginRedirect(c.Request.URL.RequestURI()))
	default:
		_ = c.Error(err)
		p.logger.Error("❌ request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// badForm answers a request whose body failed binding.
func (p *presenter) badForm(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrors(err)})
}

func bindingErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": "malformed request"}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "invalid value"
	}
}

var fieldNamesOnce sync.Once

// registerFormFieldNames makes validator report form field names instead
// of Go struct field names.
func registerFormFieldNames() {
	fieldNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}
