package service

import (
	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *ServiceTestSuite) TestGroupMembership() {
	t := suite.T()
	owner := suite.signUp("owner")
	member := suite.signUp("member")
	stranger := suite.signUp("stranger")
	groupID := suite.createGroup(owner, member)

	groups, err := suite.svc.ListGroups(suite.ctx, owner)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, groupID, groups[0].ID)

	members, err := suite.svc.ListMembers(suite.ctx, member, groupID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = suite.svc.AddMember(suite.ctx, owner, groupID, models.AddMemberRequest{UserID: member})
	assert.ErrorIs(t, err, common.ErrConstraintViolation)

	_, err = suite.svc.AddMember(suite.ctx, member, groupID, models.AddMemberRequest{UserID: stranger})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = suite.svc.AddMember(suite.ctx, owner, groupID, models.AddMemberRequest{UserID: "missing"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = suite.svc.RemoveMember(suite.ctx, owner, groupID, owner)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = suite.svc.GetGroup(suite.ctx, stranger, groupID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = suite.svc.GetGroup(suite.ctx, owner, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, suite.svc.RemoveMember(suite.ctx, owner, groupID, member))
	ok, err := suite.svc.CheckGroupPermission(suite.ctx, member, groupID, models.PermissionView)
	require.NoError(t, err)
	assert.False(t, ok)
}

func (suite *ServiceTestSuite) TestDeleteGroup() {
	t := suite.T()
	owner := suite.signUp("owner")
	member := suite.signUp("member")
	groupID := suite.createGroup(owner, member)

	assert.ErrorIs(t, suite.svc.DeleteGroup(suite.ctx, member, groupID), common.ErrUnauthorized)
	require.NoError(t, suite.svc.DeleteGroup(suite.ctx, owner, groupID))

	ok, err := suite.svc.CheckGroupPermission(suite.ctx, owner, groupID, models.PermissionView)
	require.NoError(t, err)
	assert.False(t, ok, "a deleted group denies everyone")

	assert.ErrorIs(t, suite.svc.DeleteGroup(suite.ctx, owner, groupID), common.ErrNotFound)
}

func (suite *ServiceTestSuite) TestShares() {
	t := suite.T()
	owner := suite.signUp("owner")
	guest := suite.signUp("guest")
	groupID := suite.createGroup(owner)

	_, err := suite.svc.CreateShare(suite.ctx, owner, groupID, models.CreateShareRequest{UserID: owner, Permission: models.PermissionView})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = suite.svc.CreateShare(suite.ctx, owner, groupID, models.CreateShareRequest{UserID: guest, Permission: "admin"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = suite.svc.CreateShare(suite.ctx, owner, groupID, models.CreateShareRequest{UserID: "missing", Permission: models.PermissionView})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = suite.svc.CreateShare(suite.ctx, guest, groupID, models.CreateShareRequest{UserID: guest, Permission: models.PermissionEdit})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = suite.svc.CreateShare(suite.ctx, owner, groupID, models.CreateShareRequest{UserID: guest, Permission: models.PermissionView})
	require.NoError(t, err)

	view, err := suite.svc.CheckGroupPermission(suite.ctx, guest, groupID, models.PermissionView)
	require.NoError(t, err)
	edit, err := suite.svc.CheckGroupPermission(suite.ctx, guest, groupID, models.PermissionEdit)
	require.NoError(t, err)
	assert.True(t, view)
	assert.False(t, edit)

	// granting again replaces the level
	_, err = suite.svc.CreateShare(suite.ctx, owner, groupID, models.CreateShareRequest{UserID: guest, Permission: models.PermissionEdit})
	require.NoError(t, err)
	shares, err := suite.svc.ListShares(suite.ctx, owner, groupID)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, models.PermissionEdit, shares[0].Permission)

	require.NoError(t, suite.svc.DeleteShare(suite.ctx, owner, groupID, guest))
	for _, level := range []models.Permission{models.PermissionView, models.PermissionEdit} {
		ok, err := suite.svc.CheckGroupPermission(suite.ctx, guest, groupID, level)
		require.NoError(t, err)
		assert.False(t, ok, "level %s after revoke", level)
	}

	assert.ErrorIs(t, suite.svc.DeleteShare(suite.ctx, owner, groupID, guest), common.ErrNotFound)

	_, err = suite.svc.CheckGroupPermission(suite.ctx, owner, groupID, "admin")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}
