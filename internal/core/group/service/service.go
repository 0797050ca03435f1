package groupapp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"blogfeed/internal/core/apperr"
	groupEntity "blogfeed/internal/core/group"
	groupPort "blogfeed/internal/ports/group"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type GroupService struct {
	GroupRepository groupPort.GroupRepository
	logger          *zap.Logger
}

func NewGroupService(repo groupPort.GroupRepository, logger *zap.Logger) *GroupService {
	return &GroupService{GroupRepository: repo, logger: logger}
}

// CreateGroup adds a category. Slugs are unique and URL safe.
func (s *GroupService) CreateGroup(ctx context.Context, slug, title, description string) (*groupPort.GroupDTO, error) {
	slug = strings.TrimSpace(slug)
	title = strings.TrimSpace(title)

	verr := &apperr.ValidationError{}
	if title == "" {
		verr.Add("title", "required")
	}
	if !slugPattern.MatchString(slug) {
		verr.Add("slug", "letters, digits, hyphens and underscores only")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.GroupRepository.FindBySlug(ctx, slug); err == nil {
		return nil, apperr.NewValidationError("slug", "already taken")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("lookup slug: %w", err)
	}

	g, err := s.GroupRepository.Create(ctx, &groupEntity.Group{
		ID:          uuid.Must(uuid.NewV4()),
		Slug:        slug,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.Info("group created", zap.String("slug", g.Slug))
	dto := groupPort.ToDTO(g)
	return &dto, nil
}

func (s *GroupService) GetBySlug(ctx context.Context, slug string) (*groupEntity.Group, error) {
	return s.GroupRepository.FindBySlug(ctx, slug)
}

func (s *GroupService) ListGroups(ctx context.Context) ([]groupPort.GroupDTO, error) {
	groups, err := s.GroupRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]groupPort.GroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, groupPort.ToDTO(g))
	}
	return dtos, nil
}
