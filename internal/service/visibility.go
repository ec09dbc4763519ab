package service

import (
	"context"
	"fmt"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
)

// listVisible returns the actor's own page followed by the rows of every group
// the actor belongs to and can view. Group rows authored by the actor are left
// out because the own branch already covers them. Only the own branch is
// paginated, so the result may be longer than the requested limit.
func listVisible[T any](
	ctx context.Context,
	s *DefaultService,
	actorID string,
	own func(ctx context.Context) ([]T, error),
	inGroup func(ctx context.Context, groupID string) ([]T, error),
	identify func(T) (id, ownerID string),
) ([]T, error) {
	result, err := own(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(result))
	for _, item := range result {
		id, _ := identify(item)
		seen[id] = struct{}{}
	}

	groups, err := s.repo.GetUserGroups(ctx, actorID)
	if err != nil {
		return nil, err
	}

	for _, group := range groups {
		ok, err := s.groups.CheckGroupPermission(ctx, group.ID, actorID, models.PermissionView)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		items, err := inGroup(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			id, ownerID := identify(item)
			if ownerID == actorID {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			result = append(result, item)
		}
	}

	return result, nil
}

// requireVisible lets the owner or anyone with view on the record's group read it
func (s *DefaultService) requireVisible(ctx context.Context, actorID string, record models.Owned) error {
	if record.IsDeleted() {
		return fmt.Errorf("%w: record not found", common.ErrNotFound)
	}
	if record.OwnerID() == actorID {
		return nil
	}
	if groupID := record.GroupRef(); groupID != nil {
		ok, err := s.groups.CheckGroupPermission(ctx, *groupID, actorID, models.PermissionView)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("%w: record not found", common.ErrNotFound)
}
