package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rongwang/fintrack/internal/auth"
	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/mailer"
	"github.com/rongwang/fintrack/internal/models"
)

// Authentication methods
func (s *DefaultService) SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error) {
	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	// Duplicate username or email surfaces as ErrConstraintViolation
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "userId", user.ID)

	return &models.AuthResponse{
		Status:   "success",
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("%w: incorrect username or password", common.ErrInvalidCredentials)
	}

	if err := s.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, fmt.Errorf("%w: incorrect username or password", common.ErrInvalidCredentials)
		}
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:    "success",
		UserID:    user.ID,
		Username:  user.Username,
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int(s.tokens.TTL().Seconds()),
	}, nil
}

// Authenticate resolves a bearer token to an active user
func (s *DefaultService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidCredentials, err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, fmt.Errorf("%w: account is not active", common.ErrInvalidCredentials)
	}

	return user, nil
}

// ForgotPassword creates a reset token and hands it to the mailer
func (s *DefaultService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user not found", common.ErrNotFound)
	}

	token := &models.ResetToken{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.repo.CreateResetToken(ctx, token); err != nil {
		return fmt.Errorf("error creating reset token: %w", err)
	}

	s.log.Info(ctx, "password reset requested", "userId", user.ID)

	return s.mailer.SendPasswordReset(ctx, mailer.PasswordResetMessage{
		From:      s.mailFrom,
		To:        user.Email,
		Username:  user.Username,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}

// ResetPassword redeems a live token once. The token row is deleted before the
// password changes, so only one of two concurrent redemptions can win.
func (s *DefaultService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	token, err := s.repo.GetResetToken(ctx, req.Token)
	if err != nil {
		return err
	}
	if token == nil || token.Expired(s.now()) {
		return fmt.Errorf("%w: invalid or expired token", common.ErrInvalidArgument)
	}

	if err := s.repo.DeleteResetToken(ctx, token.Token); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired token", common.ErrInvalidArgument)
		}
		return err
	}

	user, err := s.repo.GetUserByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user not found", common.ErrNotFound)
	}

	hashedPassword, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return s.repo.UpdateUserPassword(ctx, user.ID, hashedPassword)
}

// User methods
func (s *DefaultService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", common.ErrNotFound)
	}
	return user, nil
}

func (s *DefaultService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.repo.SoftDeleteUser(ctx, userID); err != nil {
		return err
	}
	s.log.Info(ctx, "user deleted", "userId", userID)
	return nil
}
