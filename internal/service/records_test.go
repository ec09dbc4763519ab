package service

import (
	"context"
	"time"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *ServiceTestSuite) TestListMergesGroupRecords() {
	t := suite.T()
	alice := suite.signUp("alice")
	bob := suite.signUp("bob")
	groupID := suite.createGroup(bob, alice)

	suite.income(alice, 10, nil)
	suite.income(alice, 20, nil)
	own := suite.income(alice, 30, &groupID)
	suite.income(bob, 40, &groupID)
	suite.income(bob, 50, &groupID)
	suite.income(bob, 60, nil) // personal to bob

	list, err := suite.svc.ListTransactions(suite.ctx, alice, models.KindIncome, models.RecordFilter{})
	require.NoError(t, err)

	seen := map[string]bool{}
	fromGroup := 0
	for _, txn := range list {
		assert.False(t, seen[txn.ID], "duplicate %s", txn.ID)
		seen[txn.ID] = true
		if txn.UserID != alice {
			fromGroup++
		}
	}
	assert.Len(t, list, 5)
	assert.Equal(t, 2, fromGroup)
	assert.True(t, seen[own.ID])
}

func (suite *ServiceTestSuite) TestGroupRecordsAreNotPaginated() {
	t := suite.T()
	alice := suite.signUp("alice")
	bob := suite.signUp("bob")
	groupID := suite.createGroup(bob, alice)

	for i := 0; i < 3; i++ {
		suite.income(alice, int64(10+i), nil)
		suite.income(bob, int64(20+i), &groupID)
	}

	list, err := suite.svc.ListTransactions(suite.ctx, alice, models.KindIncome, models.RecordFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list, 4, "one own record plus every group record")
}

func (suite *ServiceTestSuite) TestListSkipsGroupsWithoutView() {
	t := suite.T()
	alice := suite.signUp("alice")
	bob := suite.signUp("bob")
	groupID := suite.createGroup(bob, alice)
	suite.income(bob, 40, &groupID)

	require.NoError(t, suite.svc.RemoveMember(suite.ctx, bob, groupID, alice))

	list, err := suite.svc.ListTransactions(suite.ctx, alice, models.KindIncome, models.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func (suite *ServiceTestSuite) TestCreateRejectsForeignType() {
	t := suite.T()
	alice := suite.signUp("alice")
	bob := suite.signUp("bob")

	private, err := suite.svc.CreateType(suite.ctx, bob, models.KindExpense, models.TypeRequest{Name: "bob-only"})
	require.NoError(t, err)

	_, err = suite.svc.CreateTransaction(suite.ctx, alice, models.KindExpense, models.TransactionRequest{
		Amount: decimal.NewFromInt(5),
		TypeID: private.ID,
	})
	assert.ErrorIs(t, err, common.ErrInvalidReference)

	_, err = suite.svc.CreateTransaction(suite.ctx, bob, models.KindExpense, models.TransactionRequest{
		Amount: decimal.NewFromInt(5),
		TypeID: private.ID,
	})
	assert.NoError(t, err)

	// an income type id is not an expense type
	_, err = suite.svc.CreateTransaction(suite.ctx, alice, models.KindExpense, models.TransactionRequest{
		Amount: decimal.NewFromInt(5),
		TypeID: suite.typeID(models.KindIncome, "salary"),
	})
	assert.ErrorIs(t, err, common.ErrInvalidReference)
}

func (suite *ServiceTestSuite) TestCreateValidatesInput() {
	t := suite.T()
	alice := suite.signUp("alice")
	food := suite.typeID(models.KindExpense, "food")

	cases := map[string]models.TransactionRequest{
		"zero amount":     {Amount: decimal.Zero, TypeID: food},
		"negative amount": {Amount: decimal.NewFromInt(-3), TypeID: food},
		"three decimals":  {Amount: decimal.RequireFromString("1.234"), TypeID: food},
		"missing type":    {Amount: decimal.NewFromInt(3)},
	}
	for name, req := range cases {
		_, err := suite.svc.CreateTransaction(suite.ctx, alice, models.KindExpense, req)
		assert.ErrorIs(t, err, common.ErrInvalidArgument, name)
	}

	_, err := suite.svc.CreateTransaction(suite.ctx, alice, models.KindBudget, models.TransactionRequest{Amount: decimal.NewFromInt(3), TypeID: food})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	txn, err := suite.svc.CreateTransaction(suite.ctx, alice, models.KindExpense, models.TransactionRequest{
		Amount: decimal.RequireFromString("12.50"),
		TypeID: food,
	})
	require.NoError(t, err)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("12.5")))
}

func (suite *ServiceTestSuite) TestGroupWriteNeedsEdit() {
	t := suite.T()
	owner := suite.signUp("owner")
	viewer := suite.signUp("viewer")
	stranger := suite.signUp("stranger")
	groupID := suite.createGroup(owner)

	_, err := suite.svc.CreateShare(suite.ctx, owner, groupID, models.CreateShareRequest{UserID: viewer, Permission: models.PermissionView})
	require.NoError(t, err)

	req := models.TransactionRequest{
		Amount:  decimal.NewFromInt(5),
		TypeID:  suite.typeID(models.KindExpense, "food"),
		GroupID: &groupID,
	}
	_, err = suite.svc.CreateTransaction(suite.ctx, viewer, models.KindExpense, req)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = suite.svc.CreateTransaction(suite.ctx, stranger, models.KindExpense, req)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	record := suite.expense(owner, "food", 5, &groupID)

	got, err := suite.svc.GetTransaction(suite.ctx, viewer, models.KindExpense, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	_, err = suite.svc.GetTransaction(suite.ctx, stranger, models.KindExpense, record.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// only the author updates or deletes
	_, err = suite.svc.UpdateTransaction(suite.ctx, viewer, models.KindExpense, record.ID, req)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, suite.svc.DeleteTransaction(suite.ctx, viewer, models.KindExpense, record.ID), common.ErrNotFound)
}

func (suite *ServiceTestSuite) TestUpdateTransaction() {
	t := suite.T()
	alice := suite.signUp("alice")
	original := suite.expense(alice, "food", 5, nil)

	updated, err := suite.svc.UpdateTransaction(suite.ctx, alice, models.KindExpense, original.ID, models.TransactionRequest{
		Amount: decimal.NewFromInt(7),
		TypeID: suite.typeID(models.KindExpense, "rent"),
	})
	require.NoError(t, err)
	assert.Equal(t, alice, updated.UserID)
	assert.WithinDuration(t, original.Date, updated.Date, time.Millisecond, "date kept when not sent")

	got, err := suite.svc.GetTransaction(suite.ctx, alice, models.KindExpense, original.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, suite.typeID(models.KindExpense, "rent"), got.TypeID)
	assert.WithinDuration(t, original.CreatedAt, got.CreatedAt, time.Millisecond)
}

func (suite *ServiceTestSuite) TestSoftDeleteTwiceIsNotFound() {
	t := suite.T()
	alice := suite.signUp("alice")
	txn := suite.expense(alice, "food", 5, nil)

	require.NoError(t, suite.svc.DeleteTransaction(suite.ctx, alice, models.KindExpense, txn.ID))

	_, err := suite.svc.GetTransaction(suite.ctx, alice, models.KindExpense, txn.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	list, err := suite.svc.ListTransactions(suite.ctx, alice, models.KindExpense, models.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, suite.svc.DeleteTransaction(suite.ctx, alice, models.KindExpense, txn.ID), common.ErrNotFound)
}

func (suite *ServiceTestSuite) TestDeleteNeedsCurrentGroupEdit() {
	t := suite.T()
	owner := suite.signUp("owner")
	member := suite.signUp("member")
	groupID := suite.createGroup(owner, member)

	txn := suite.expense(member, "food", 5, &groupID)
	require.NoError(t, suite.svc.RemoveMember(suite.ctx, owner, groupID, member))

	err := suite.svc.DeleteTransaction(suite.ctx, member, models.KindExpense, txn.ID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

// revokingRepository drops a share right after the permission check has
// read it, before the write lands.
type revokingRepository struct {
	repository.Repository
	groupID string
	userID  string
}

func (r *revokingRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if err := r.Repository.DeleteGroupShare(ctx, r.groupID, r.userID); err != nil {
		return err
	}
	return r.Repository.CreateTransaction(ctx, txn)
}

func (suite *ServiceTestSuite) TestRevokedShareDoesNotBlockInFlightWrite() {
	t := suite.T()
	owner := suite.signUp("owner")
	editor := suite.signUp("editor")
	groupID := suite.createGroup(owner)

	_, err := suite.svc.CreateShare(suite.ctx, owner, groupID, models.CreateShareRequest{UserID: editor, Permission: models.PermissionEdit})
	require.NoError(t, err)

	svc := suite.newService(&revokingRepository{Repository: suite.repo, groupID: groupID, userID: editor})
	txn, err := svc.CreateTransaction(suite.ctx, editor, models.KindExpense, models.TransactionRequest{
		Amount:  decimal.NewFromInt(9),
		TypeID:  suite.typeID(models.KindExpense, "food"),
		GroupID: &groupID,
	})
	require.NoError(t, err, "the check and the write are separate round trips")

	stored, err := suite.repo.GetTransaction(suite.ctx, models.KindExpense, txn.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	ok, err := svc.CheckGroupPermission(suite.ctx, editor, groupID, models.PermissionEdit)
	require.NoError(t, err)
	assert.False(t, ok)
}

func (suite *ServiceTestSuite) TestBudgets() {
	t := suite.T()
	alice := suite.signUp("alice")
	bob := suite.signUp("bob")
	food := suite.typeID(models.KindBudget, "food")

	budget, err := suite.svc.CreateBudget(suite.ctx, alice, models.BudgetRequest{CategoryID: food, Amount: decimal.NewFromInt(200)})
	require.NoError(t, err)
	assert.Equal(t, models.PeriodMonthly, budget.Period)

	_, err = suite.svc.CreateBudget(suite.ctx, alice, models.BudgetRequest{CategoryID: food, Amount: decimal.NewFromInt(1), Period: "hourly"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = suite.svc.CreateBudget(suite.ctx, alice, models.BudgetRequest{
		CategoryID: suite.typeID(models.KindExpense, "food"),
		Amount:     decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, common.ErrInvalidReference, "expense types are not budget categories")

	updated, err := suite.svc.UpdateBudget(suite.ctx, alice, budget.ID, models.BudgetRequest{
		CategoryID: food,
		Amount:     decimal.NewFromInt(250),
		Period:     models.PeriodYearly,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PeriodYearly, updated.Period)

	_, err = suite.svc.GetBudget(suite.ctx, bob, budget.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	list, err := suite.svc.ListBudgets(suite.ctx, alice, models.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Amount.Equal(decimal.NewFromInt(250)))

	assert.ErrorIs(t, suite.svc.DeleteBudget(suite.ctx, bob, budget.ID), common.ErrNotFound)
	require.NoError(t, suite.svc.DeleteBudget(suite.ctx, alice, budget.ID))
	assert.ErrorIs(t, suite.svc.DeleteBudget(suite.ctx, alice, budget.ID), common.ErrNotFound)
}

func (suite *ServiceTestSuite) TestListFiltersApplyToGroupBranch() {
	t := suite.T()
	alice := suite.signUp("alice")
	bob := suite.signUp("bob")
	groupID := suite.createGroup(bob, alice)

	suite.expense(bob, "food", 10, &groupID)
	suite.expense(bob, "rent", 20, &groupID)
	suite.expense(alice, "rent", 30, nil)

	rent := suite.typeID(models.KindExpense, "rent")
	list, err := suite.svc.ListTransactions(suite.ctx, alice, models.KindExpense, models.RecordFilter{TypeID: &rent})
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, txn := range list {
		assert.Equal(t, rent, txn.TypeID)
	}

	future := time.Now().Add(48 * time.Hour)
	list, err = suite.svc.ListTransactions(suite.ctx, alice, models.KindExpense, models.RecordFilter{StartDate: &future})
	require.NoError(t, err)
	assert.Empty(t, list)
}
