package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
)

const userColumns = `id, username, email, password_hash, is_active, created_at, updated_at, deleted_at`

// User repository methods
func (r *SQLRepository) CreateUser(ctx context.Context, user *models.User) error {
	var taken bool
	if _, err := r.get(ctx, &taken,
		`SELECT EXISTS(SELECT 1 FROM users WHERE (username = ? OR email = ?) AND deleted_at IS NULL)`,
		user.Username, user.Email); err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: username or email already registered", common.ErrConstraintViolation)
	}

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := r.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, username, email, password_hash, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.rebind(query),
		user.ID, user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt)

	return mapError(err)
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getUser(ctx, `id = ?`, id)
}

func (r *SQLRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `username = ?`, username)
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `email = ?`, email)
}

func (r *SQLRepository) getUser(ctx context.Context, predicate string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + predicate + ` AND deleted_at IS NULL`

	var user models.User
	found, err := r.get(ctx, &user, query, arg)
	if err != nil || !found {
		return nil, err // User not found when both are nil
	}

	return &user, nil
}

func (r *SQLRepository) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	return r.execOne(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, r.now(), userID)
}

func (r *SQLRepository) SoftDeleteUser(ctx context.Context, userID string) error {
	now := r.now()
	return r.execOne(ctx,
		`UPDATE users SET is_active = ?, deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		false, now, now, userID)
}
