package service

import (
	"context"
	"time"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *ServiceTestSuite) TestSignUpAndLogin() {
	t := suite.T()
	userID := suite.signUp("alice")

	_, err := suite.svc.SignUp(suite.ctx, models.SignUpRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, common.ErrConstraintViolation)

	resp, err := suite.svc.Login(suite.ctx, models.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)

	user, err := suite.svc.Authenticate(suite.ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	_, err = suite.svc.Login(suite.ctx, models.LoginRequest{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = suite.svc.Login(suite.ctx, models.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = suite.svc.Authenticate(suite.ctx, "not-a-token")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func (suite *ServiceTestSuite) TestDeletedUserCannotLogIn() {
	t := suite.T()
	userID := suite.signUp("alice")

	resp, err := suite.svc.Login(suite.ctx, models.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, suite.svc.DeleteUser(suite.ctx, userID))

	_, err = suite.svc.Login(suite.ctx, models.LoginRequest{Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = suite.svc.Authenticate(suite.ctx, resp.Token)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = suite.svc.GetUser(suite.ctx, userID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// the username is free again
	suite.signUp("alice")
}

func (suite *ServiceTestSuite) TestPasswordReset() {
	t := suite.T()
	suite.signUp("alice")

	err := suite.svc.ForgotPassword(suite.ctx, models.ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, suite.svc.ForgotPassword(suite.ctx, models.ForgotPasswordRequest{Email: "alice@example.com"}))
	msg := suite.mail.last()
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "alice", msg.Username)
	require.NotEmpty(t, msg.Token)

	require.NoError(t, suite.svc.ResetPassword(suite.ctx, models.ResetPasswordRequest{Token: msg.Token, NewPassword: "new-password"}))

	_, err = suite.svc.Login(suite.ctx, models.LoginRequest{Username: "alice", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = suite.svc.Login(suite.ctx, models.LoginRequest{Username: "alice", Password: "new-password"})
	assert.NoError(t, err)

	// tokens are single use
	err = suite.svc.ResetPassword(suite.ctx, models.ResetPasswordRequest{Token: msg.Token, NewPassword: "another-password"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func (suite *ServiceTestSuite) TestExpiredResetToken() {
	t := suite.T()
	suite.signUp("alice")

	require.NoError(t, suite.svc.ForgotPassword(suite.ctx, models.ForgotPasswordRequest{Email: "alice@example.com"}))
	token := suite.mail.last().Token

	later := time.Now().UTC().Add(2 * time.Hour)
	suite.svc.now = func() time.Time { return later }

	err := suite.svc.ResetPassword(suite.ctx, models.ResetPasswordRequest{Token: token, NewPassword: "new-password"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

// redeemingRepository consumes the token right after it has been read, as a
// concurrent reset of the same token would.
type redeemingRepository struct {
	repository.Repository
}

func (r *redeemingRepository) GetResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	rt, err := r.Repository.GetResetToken(ctx, token)
	if err != nil || rt == nil {
		return rt, err
	}
	return rt, r.Repository.DeleteResetToken(ctx, token)
}

func (suite *ServiceTestSuite) TestResetTokenRedeemedConcurrently() {
	t := suite.T()
	suite.signUp("alice")

	require.NoError(t, suite.svc.ForgotPassword(suite.ctx, models.ForgotPasswordRequest{Email: "alice@example.com"}))
	token := suite.mail.last().Token

	svc := suite.newService(&redeemingRepository{Repository: suite.repo})
	err := svc.ResetPassword(suite.ctx, models.ResetPasswordRequest{Token: token, NewPassword: "new-password"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = suite.svc.Login(suite.ctx, models.LoginRequest{Username: "alice", Password: "password123"})
	assert.NoError(t, err)
	_, err = suite.svc.Login(suite.ctx, models.LoginRequest{Username: "alice", Password: "new-password"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}
