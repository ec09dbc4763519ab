package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/dbx"
	"github.com/rongwang/fintrack/internal/models"
)

const groupColumns = `id, name, description, owner_id, created_at, updated_at, deleted_at`

// Group repository methods

// CreateGroup inserts the group and the owner's membership in one transaction
func (r *SQLRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}

	now := r.now()
	group.CreatedAt = now
	group.UpdatedAt = now

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		query := `
			INSERT INTO user_groups (id, name, description, owner_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, tx.Rebind(query),
			group.ID, group.Name, group.Description, group.OwnerID, group.CreatedAt, group.UpdatedAt); err != nil {
			return mapError(err)
		}

		// The owner is always a member
		return addGroupMemberTx(ctx, tx, &models.GroupMember{
			GroupID:   group.ID,
			UserID:    group.OwnerID,
			CreatedAt: now,
		})
	})
}

func (r *SQLRepository) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM user_groups WHERE id = ? AND deleted_at IS NULL`

	var group models.Group
	found, err := r.get(ctx, &group, query, groupID)
	if err != nil || !found {
		return nil, err
	}

	return &group, nil
}

func (r *SQLRepository) SoftDeleteGroup(ctx context.Context, groupID string) error {
	now := r.now()
	return r.execOne(ctx,
		`UPDATE user_groups SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, groupID)
}

// GetUserGroups returns the live groups the user is a member of
func (r *SQLRepository) GetUserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.owner_id, g.created_at, g.updated_at, g.deleted_at
		FROM user_groups g
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = ? AND g.deleted_at IS NULL
		ORDER BY g.created_at, g.id
	`

	groups := []models.Group{}
	if err := r.selectAll(ctx, &groups, query, userID); err != nil {
		return nil, err
	}

	return groups, nil
}

// Membership repository methods

func addGroupMemberTx(ctx context.Context, tx *sqlx.Tx, member *models.GroupMember) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, tx.Rebind(
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)`),
		member.GroupID, member.UserID); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: user is already a member", common.ErrConstraintViolation)
	}

	_, err := tx.ExecContext(ctx, tx.Rebind(
		`INSERT INTO group_members (group_id, user_id, created_at) VALUES (?, ?, ?)`),
		member.GroupID, member.UserID, member.CreatedAt)

	return mapError(err)
}

func (r *SQLRepository) AddGroupMember(ctx context.Context, member *models.GroupMember) error {
	if member.CreatedAt.IsZero() {
		member.CreatedAt = r.now()
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		return addGroupMemberTx(ctx, tx, member)
	})
}

func (r *SQLRepository) RemoveGroupMember(ctx context.Context, groupID, userID string) error {
	return r.execOne(ctx, `DELETE FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID)
}

func (r *SQLRepository) IsGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	_, err := r.get(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)`,
		groupID, userID)
	return exists, err
}

func (r *SQLRepository) GetGroupMembers(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	members := []models.GroupMember{}
	err := r.selectAll(ctx, &members,
		`SELECT group_id, user_id, created_at FROM group_members WHERE group_id = ? ORDER BY created_at, user_id`,
		groupID)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Share repository methods

// UpsertGroupShare creates the share or replaces the permission of an existing one
func (r *SQLRepository) UpsertGroupShare(ctx context.Context, share *models.GroupShare) error {
	if share.CreatedAt.IsZero() {
		share.CreatedAt = r.now()
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, tx.Rebind(
			`SELECT EXISTS(SELECT 1 FROM group_shares WHERE group_id = ? AND user_id = ?)`),
			share.GroupID, share.UserID); err != nil {
			return err
		}

		var err error
		if exists {
			// Update the permission if the user already holds a share
			_, err = tx.ExecContext(ctx, tx.Rebind(
				`UPDATE group_shares SET permission = ? WHERE group_id = ? AND user_id = ?`),
				share.Permission, share.GroupID, share.UserID)
		} else {
			_, err = tx.ExecContext(ctx, tx.Rebind(
				`INSERT INTO group_shares (group_id, user_id, permission, created_at) VALUES (?, ?, ?, ?)`),
				share.GroupID, share.UserID, share.Permission, share.CreatedAt)
		}
		return mapError(err)
	})
}

func (r *SQLRepository) GetGroupShare(ctx context.Context, groupID, userID string) (*models.GroupShare, error) {
	var share models.GroupShare
	found, err := r.get(ctx, &share,
		`SELECT group_id, user_id, permission, created_at FROM group_shares WHERE group_id = ? AND user_id = ?`,
		groupID, userID)
	if err != nil || !found {
		return nil, err
	}
	return &share, nil
}

func (r *SQLRepository) GetGroupShares(ctx context.Context, groupID string) ([]models.GroupShare, error) {
	shares := []models.GroupShare{}
	err := r.selectAll(ctx, &shares,
		`SELECT group_id, user_id, permission, created_at FROM group_shares WHERE group_id = ? ORDER BY created_at, user_id`,
		groupID)
	if err != nil {
		return nil, err
	}
	return shares, nil
}

func (r *SQLRepository) DeleteGroupShare(ctx context.Context, groupID, userID string) error {
	return r.execOne(ctx, `DELETE FROM group_shares WHERE group_id = ? AND user_id = ?`, groupID, userID)
}
