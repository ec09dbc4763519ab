package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
)

// Type operations. Users create private types; global types come from seeding
// and cannot be changed through the service.
func (s *DefaultService) CreateType(ctx context.Context, actorID string, kind models.RecordKind, req models.TypeRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidArgument)
	}

	category := &models.Category{Kind: kind, Name: name, Owner: models.OwnedBy(actorID)}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListTypes returns the global types plus the actor's own
func (s *DefaultService) ListTypes(ctx context.Context, actorID string, kind models.RecordKind) ([]models.Category, error) {
	return s.repo.GetVisibleCategories(ctx, kind, actorID)
}

func (s *DefaultService) UpdateType(ctx context.Context, actorID string, kind models.RecordKind, id string, req models.TypeRequest) (*models.Category, error) {
	category, err := s.ownedType(ctx, actorID, kind, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidArgument)
	}

	category.Name = name
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *DefaultService) DeleteType(ctx context.Context, actorID string, kind models.RecordKind, id string) error {
	if _, err := s.ownedType(ctx, actorID, kind, id); err != nil {
		return err
	}
	return s.repo.SoftDeleteCategory(ctx, kind, id)
}

// ownedType hides global and foreign types behind NotFound
func (s *DefaultService) ownedType(ctx context.Context, actorID string, kind models.RecordKind, id string) (*models.Category, error) {
	category, err := s.repo.GetCategory(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if category == nil || !category.Owner.IsOwnedBy(actorID) {
		return nil, fmt.Errorf("%w: %s type not found or not authorized", common.ErrNotFound, kind)
	}
	return category, nil
}
