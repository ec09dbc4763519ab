// Package permission decides who may act on groups and on the records,
// projects and tasks attached to them.
package permission

import (
	"context"

	"github.com/rongwang/fintrack/internal/models"
)

// Store is the read side the group policy needs
type Store interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupShare(ctx context.Context, groupID, userID string) (*models.GroupShare, error)
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)
}

// Checker answers whether a user may act on a group at a given level
type Checker struct {
	store Store
}

func NewChecker(store Store) *Checker {
	return &Checker{store: store}
}

// CheckGroupPermission resolves, in order: missing group denies, the owner is
// allowed, an explicit share caps the user at its level, a plain member is
// allowed, anyone else is denied. The share is consulted before membership.
func (c *Checker) CheckGroupPermission(ctx context.Context, groupID, userID string, required models.Permission) (bool, error) {
	group, err := c.store.GetGroup(ctx, groupID)
	if err != nil {
		return false, err
	}
	if group == nil || group.DeletedAt != nil {
		return false, nil
	}

	if group.OwnerID == userID {
		return true, nil
	}

	share, err := c.store.GetGroupShare(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	if share != nil {
		return share.Permission.Satisfies(required), nil
	}

	// Membership grants edit, which covers view
	return c.store.IsGroupMember(ctx, groupID, userID)
}
