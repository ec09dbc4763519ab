package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/permission"
	"github.com/rongwang/fintrack/internal/storage"
)

// Attachment operations hand out presigned object storage URLs. The object key
// is stored on the project or task as its image or file reference. The project
// image belongs to the project row, so only the owner may replace it.

func (s *DefaultService) PresignProjectImageUpload(ctx context.Context, actorID, projectID, filename string) (*models.UploadResponse, error) {
	if err := s.requireStorage(filename); err != nil {
		return nil, err
	}
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckUpdate(ctx, actorID, project, permission.Refs{GroupID: project.GroupID}); err != nil {
		return nil, err
	}

	signed, err := s.storage.PresignUpload(ctx, storage.ObjectKey("projects", project.ID, filename))
	if err != nil {
		return nil, err
	}

	project.ImageRef = &signed.Key
	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	return uploadResponse(signed), nil
}

func (s *DefaultService) PresignProjectImageDownload(ctx context.Context, actorID, projectID string) (*models.DownloadResponse, error) {
	if s.storage == nil {
		return nil, storage.ErrDisabled
	}
	project, err := s.projectWithAccess(ctx, actorID, projectID, models.PermissionView)
	if err != nil {
		return nil, err
	}
	if project.ImageRef == nil {
		return nil, fmt.Errorf("%w: project %s has no image", common.ErrNotFound, projectID)
	}

	signed, err := s.storage.PresignDownload(ctx, *project.ImageRef)
	if err != nil {
		return nil, err
	}
	return &models.DownloadResponse{Status: "success", URL: signed.URL}, nil
}

func (s *DefaultService) PresignTaskFileUpload(ctx context.Context, actorID, projectID, taskID, filename string) (*models.UploadResponse, error) {
	if err := s.requireStorage(filename); err != nil {
		return nil, err
	}
	project, err := s.projectWithAccess(ctx, actorID, projectID, models.PermissionEdit)
	if err != nil {
		return nil, err
	}
	task, err := s.projectTask(ctx, project.ID, taskID)
	if err != nil {
		return nil, err
	}

	signed, err := s.storage.PresignUpload(ctx, storage.ObjectKey("tasks", task.ID, filename))
	if err != nil {
		return nil, err
	}

	task.FileRef = &signed.Key
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return uploadResponse(signed), nil
}

func (s *DefaultService) PresignTaskFileDownload(ctx context.Context, actorID, projectID, taskID string) (*models.DownloadResponse, error) {
	if s.storage == nil {
		return nil, storage.ErrDisabled
	}
	project, err := s.projectWithAccess(ctx, actorID, projectID, models.PermissionView)
	if err != nil {
		return nil, err
	}
	task, err := s.projectTask(ctx, project.ID, taskID)
	if err != nil {
		return nil, err
	}
	if task.FileRef == nil {
		return nil, fmt.Errorf("%w: task %s has no file", common.ErrNotFound, taskID)
	}

	signed, err := s.storage.PresignDownload(ctx, *task.FileRef)
	if err != nil {
		return nil, err
	}
	return &models.DownloadResponse{Status: "success", URL: signed.URL}, nil
}

func (s *DefaultService) requireStorage(filename string) error {
	if s.storage == nil {
		return storage.ErrDisabled
	}
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("%w: file name is required", common.ErrInvalidArgument)
	}
	return nil
}

func uploadResponse(signed *storage.Presigned) *models.UploadResponse {
	return &models.UploadResponse{
		Status:    "success",
		Key:       signed.Key,
		URL:       signed.URL,
		ExpiresAt: signed.ExpiresAt,
	}
}
