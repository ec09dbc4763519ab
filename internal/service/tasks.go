package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
)

// Task operations. Tasks belong to a project, so access is decided on the
// project: edit to change tasks, view to list them.
func (s *DefaultService) CreateTask(ctx context.Context, actorID, projectID string, req models.TaskRequest) (*models.Task, error) {
	project, err := s.projectWithAccess(ctx, actorID, projectID, models.PermissionEdit)
	if err != nil {
		return nil, err
	}

	task, err := taskFromRequest(req)
	if err != nil {
		return nil, err
	}
	task.ProjectID = project.ID

	if err := s.resolver.CheckAssignee(ctx, project, task.AssigneeID); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

func (s *DefaultService) UpdateTask(ctx context.Context, actorID, projectID, taskID string, req models.TaskRequest) (*models.Task, error) {
	project, err := s.projectWithAccess(ctx, actorID, projectID, models.PermissionEdit)
	if err != nil {
		return nil, err
	}

	current, err := s.projectTask(ctx, project.ID, taskID)
	if err != nil {
		return nil, err
	}

	next, err := taskFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckAssignee(ctx, project, next.AssigneeID); err != nil {
		return nil, err
	}

	next.ID = current.ID
	next.ProjectID = current.ProjectID
	next.CreatedAt = current.CreatedAt
	if next.FileRef == nil {
		next.FileRef = current.FileRef
	}

	if err := s.repo.UpdateTask(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *DefaultService) DeleteTask(ctx context.Context, actorID, projectID, taskID string) error {
	project, err := s.projectWithAccess(ctx, actorID, projectID, models.PermissionEdit)
	if err != nil {
		return err
	}
	if _, err := s.projectTask(ctx, project.ID, taskID); err != nil {
		return err
	}
	return s.repo.SoftDeleteTask(ctx, taskID)
}

func (s *DefaultService) ListTasks(ctx context.Context, actorID, projectID string) ([]models.Task, error) {
	project, err := s.projectWithAccess(ctx, actorID, projectID, models.PermissionView)
	if err != nil {
		return nil, err
	}
	return s.repo.GetProjectTasks(ctx, project.ID)
}

func (s *DefaultService) projectWithAccess(ctx context.Context, actorID, projectID string, level models.Permission) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckProjectAccess(ctx, actorID, project, level); err != nil {
		return nil, err
	}
	return project, nil
}

// projectTask loads a live task and requires it to belong to projectID
func (s *DefaultService) projectTask(ctx context.Context, projectID, taskID string) (*models.Task, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.ProjectID != projectID {
		return nil, fmt.Errorf("%w: task %s not found", common.ErrNotFound, taskID)
	}
	return task, nil
}

func taskFromRequest(req models.TaskRequest) (*models.Task, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidArgument)
	}

	status := req.Status
	if status == "" {
		status = models.TaskPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", common.ErrInvalidArgument, status)
	}
	if err := validateDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	return &models.Task{
		Name:       name,
		Status:     status,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		FileRef:    optional(req.FileRef),
		AssigneeID: optional(req.AssigneeID),
	}, nil
}
