package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/permission"
)

// Project operations
func (s *DefaultService) CreateProject(ctx context.Context, actorID string, req models.ProjectRequest) (*models.Project, error) {
	project, err := projectFromRequest(req)
	if err != nil {
		return nil, err
	}
	project.UserID = actorID

	if err := s.resolver.CheckCreate(ctx, actorID, permission.Refs{GroupID: project.GroupID}); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}
	return project, nil
}

func (s *DefaultService) GetProject(ctx context.Context, actorID, id string) (*models.Project, error) {
	project, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireVisible(ctx, actorID, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *DefaultService) UpdateProject(ctx context.Context, actorID, id string, req models.ProjectRequest) (*models.Project, error) {
	next, err := projectFromRequest(req)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckUpdate(ctx, actorID, current, permission.Refs{GroupID: next.GroupID}); err != nil {
		return nil, err
	}

	next.ID = current.ID
	next.UserID = current.UserID
	next.CreatedAt = current.CreatedAt
	if next.ImageRef == nil {
		next.ImageRef = current.ImageRef
	}

	if err := s.repo.UpdateProject(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *DefaultService) DeleteProject(ctx context.Context, actorID, id string) error {
	current, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if err := s.resolver.CheckDelete(ctx, actorID, current); err != nil {
		return err
	}
	return s.repo.SoftDeleteProject(ctx, id)
}

func (s *DefaultService) ListProjects(ctx context.Context, actorID string, filter models.RecordFilter) ([]models.Project, error) {
	return listVisible(ctx, s, actorID,
		func(ctx context.Context) ([]models.Project, error) {
			return s.repo.GetUserProjects(ctx, actorID, filter)
		},
		func(ctx context.Context, groupID string) ([]models.Project, error) {
			return s.repo.GetGroupProjects(ctx, groupID, filter)
		},
		func(p models.Project) (string, string) { return p.ID, p.UserID },
	)
}

func projectFromRequest(req models.ProjectRequest) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidArgument)
	}
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	return &models.Project{
		Name:        name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ImageRef:    optional(req.ImageRef),
		GroupID:     optional(req.GroupID),
	}, nil
}

// loadProject returns a live project or NotFound
func (s *DefaultService) loadProject(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s not found", common.ErrNotFound, projectID)
	}
	return project, nil
}
