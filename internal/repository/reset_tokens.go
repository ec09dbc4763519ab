package repository

import (
	"context"

	"github.com/rongwang/fintrack/internal/models"
)

// Password reset repository methods
func (r *SQLRepository) CreateResetToken(ctx context.Context, token *models.ResetToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = r.now()
	}
	token.ExpiresAt = utc(token.ExpiresAt)

	_, err := r.db.ExecContext(ctx, r.rebind(
		`INSERT INTO reset_tokens (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`),
		token.Token, token.UserID, token.ExpiresAt, token.CreatedAt)

	return mapError(err)
}

// GetResetToken returns the token row, expired or not
func (r *SQLRepository) GetResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	var rt models.ResetToken
	found, err := r.get(ctx, &rt,
		`SELECT token, user_id, expires_at, created_at FROM reset_tokens WHERE token = ?`, token)
	if err != nil || !found {
		return nil, err
	}
	return &rt, nil
}

func (r *SQLRepository) DeleteResetToken(ctx context.Context, token string) error {
	return r.execOne(ctx, `DELETE FROM reset_tokens WHERE token = ?`, token)
}
