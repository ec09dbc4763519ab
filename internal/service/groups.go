package service

import (
	"context"
	"fmt"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
)

// Group operations
func (s *DefaultService) CreateGroup(ctx context.Context, actorID string, req models.CreateGroupRequest) (*models.Group, error) {
	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     actorID,
	}

	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("error creating group: %w", err)
	}

	s.log.Info(ctx, "group created", "groupId", group.ID, "ownerId", actorID)
	return group, nil
}

// GetGroup requires view on the group
func (s *DefaultService) GetGroup(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := s.requireGroup(ctx, actorID, groupID, models.PermissionView); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups returns the groups the actor is a member of
func (s *DefaultService) ListGroups(ctx context.Context, actorID string) ([]models.Group, error) {
	return s.repo.GetUserGroups(ctx, actorID)
}

func (s *DefaultService) DeleteGroup(ctx context.Context, actorID, groupID string) error {
	if _, err := s.ownedGroup(ctx, actorID, groupID); err != nil {
		return err
	}
	if err := s.repo.SoftDeleteGroup(ctx, groupID); err != nil {
		return err
	}
	s.log.Info(ctx, "group deleted", "groupId", groupID)
	return nil
}

// Membership operations

// AddMember is owner only. Adding an existing member is a ConstraintViolation.
func (s *DefaultService) AddMember(ctx context.Context, actorID, groupID string, req models.AddMemberRequest) (*models.GroupMember, error) {
	if _, err := s.ownedGroup(ctx, actorID, groupID); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s not found", common.ErrNotFound, req.UserID)
	}

	member := &models.GroupMember{GroupID: groupID, UserID: req.UserID}
	if err := s.repo.AddGroupMember(ctx, member); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "group member added", "groupId", groupID, "userId", req.UserID)
	return member, nil
}

func (s *DefaultService) RemoveMember(ctx context.Context, actorID, groupID, userID string) error {
	group, err := s.ownedGroup(ctx, actorID, groupID)
	if err != nil {
		return err
	}
	if userID == group.OwnerID {
		return fmt.Errorf("%w: the owner cannot leave their group", common.ErrInvalidArgument)
	}

	if err := s.repo.RemoveGroupMember(ctx, groupID, userID); err != nil {
		return err
	}

	s.log.Info(ctx, "group member removed", "groupId", groupID, "userId", userID)
	return nil
}

// ListMembers requires view on the group
func (s *DefaultService) ListMembers(ctx context.Context, actorID, groupID string) ([]models.GroupMember, error) {
	if _, err := s.loadGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.requireGroup(ctx, actorID, groupID, models.PermissionView); err != nil {
		return nil, err
	}
	return s.repo.GetGroupMembers(ctx, groupID)
}

// Share operations

// CreateShare is owner only. Granting again replaces the permission.
func (s *DefaultService) CreateShare(ctx context.Context, actorID, groupID string, req models.CreateShareRequest) (*models.GroupShare, error) {
	if !req.Permission.Valid() {
		return nil, fmt.Errorf("%w: permission must be view or edit", common.ErrInvalidArgument)
	}

	group, err := s.ownedGroup(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}

	if req.UserID == group.OwnerID {
		return nil, fmt.Errorf("%w: cannot share with group owner", common.ErrInvalidArgument)
	}

	user, err := s.repo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s not found", common.ErrNotFound, req.UserID)
	}

	share := &models.GroupShare{GroupID: groupID, UserID: req.UserID, Permission: req.Permission}
	if err := s.repo.UpsertGroupShare(ctx, share); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "group share granted", "groupId", groupID, "userId", req.UserID, "permission", req.Permission)
	return share, nil
}

func (s *DefaultService) ListShares(ctx context.Context, actorID, groupID string) ([]models.GroupShare, error) {
	if _, err := s.ownedGroup(ctx, actorID, groupID); err != nil {
		return nil, err
	}
	return s.repo.GetGroupShares(ctx, groupID)
}

func (s *DefaultService) DeleteShare(ctx context.Context, actorID, groupID, userID string) error {
	if _, err := s.ownedGroup(ctx, actorID, groupID); err != nil {
		return err
	}

	if err := s.repo.DeleteGroupShare(ctx, groupID, userID); err != nil {
		return fmt.Errorf("share: %w", err)
	}

	s.log.Info(ctx, "group share revoked", "groupId", groupID, "userId", userID)
	return nil
}

// CheckGroupPermission answers the permission probe for the actor
func (s *DefaultService) CheckGroupPermission(ctx context.Context, actorID, groupID string, level models.Permission) (bool, error) {
	if !level.Valid() {
		return false, fmt.Errorf("%w: level must be view or edit", common.ErrInvalidArgument)
	}
	return s.groups.CheckGroupPermission(ctx, groupID, actorID, level)
}

func (s *DefaultService) loadGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("%w: group %s not found", common.ErrNotFound, groupID)
	}
	return group, nil
}

// ownedGroup loads a live group and requires actorID to own it
func (s *DefaultService) ownedGroup(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	group, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != actorID {
		return nil, fmt.Errorf("%w: only the group owner can do this", common.ErrUnauthorized)
	}
	return group, nil
}

func (s *DefaultService) requireGroup(ctx context.Context, actorID, groupID string, level models.Permission) error {
	ok, err := s.groups.CheckGroupPermission(ctx, groupID, actorID, level)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no %s access to group %s", common.ErrUnauthorized, level, groupID)
	}
	return nil
}
