package service

import (
	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *ServiceTestSuite) TestSummaryBudgetStatus() {
	t := suite.T()
	alice := suite.signUp("alice")

	_, err := suite.svc.CreateBudget(suite.ctx, alice, models.BudgetRequest{
		CategoryID: suite.typeID(models.KindBudget, "food"),
		Amount:     decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	suite.expense(alice, "food", 50, nil)
	suite.expense(alice, "food", 30, nil)
	suite.expense(alice, "rent", 500, nil)
	suite.income(alice, 1000, nil)

	summary, err := suite.svc.Summarize(suite.ctx, alice, nil, nil)
	require.NoError(t, err)

	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(580)))
	assert.True(t, summary.NetBalance.Equal(decimal.NewFromInt(420)))

	require.Len(t, summary.BudgetStatus, 1)
	food := summary.BudgetStatus["food"]
	assert.True(t, food.Allocated.Equal(decimal.NewFromInt(200)))
	assert.True(t, food.Spent.Equal(decimal.NewFromInt(80)))
}

func (suite *ServiceTestSuite) TestSummaryEmpty() {
	alice := suite.signUp("alice")

	summary, err := suite.svc.Summarize(suite.ctx, alice, nil, nil)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), summary.NetBalance.IsZero())
	assert.Empty(suite.T(), summary.BudgetStatus)
}

// The group sum covers every group-tagged record, including the actor's own,
// which the personal sum already counted.
func (suite *ServiceTestSuite) TestSummaryCountsOwnGroupRecordsTwice() {
	t := suite.T()
	alice := suite.signUp("alice")
	bob := suite.signUp("bob")
	groupID := suite.createGroup(bob, alice)

	suite.expense(alice, "food", 40, &groupID)
	suite.expense(bob, "food", 10, &groupID)
	suite.expense(bob, "food", 99, nil)

	personal, err := suite.svc.Summarize(suite.ctx, alice, nil, nil)
	require.NoError(t, err)
	assert.True(t, personal.TotalExpense.Equal(decimal.NewFromInt(40)))

	withGroup, err := suite.svc.Summarize(suite.ctx, alice, &groupID, nil)
	require.NoError(t, err)
	assert.True(t, withGroup.TotalExpense.Equal(decimal.NewFromInt(90)), "got %s", withGroup.TotalExpense)
}

func (suite *ServiceTestSuite) TestSummaryByProject() {
	t := suite.T()
	alice := suite.signUp("alice")
	project := suite.createProject(alice, nil)

	_, err := suite.svc.CreateTransaction(suite.ctx, alice, models.KindExpense, models.TransactionRequest{
		Amount:    decimal.NewFromInt(25),
		TypeID:    suite.typeID(models.KindExpense, "food"),
		ProjectID: &project.ID,
	})
	require.NoError(t, err)
	suite.expense(alice, "food", 75, nil)

	summary, err := suite.svc.Summarize(suite.ctx, alice, nil, &project.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalExpense.Equal(decimal.NewFromInt(25)))
}

func (suite *ServiceTestSuite) TestSummaryNeedsGroupView() {
	alice := suite.signUp("alice")
	bob := suite.signUp("bob")
	groupID := suite.createGroup(bob)

	_, err := suite.svc.Summarize(suite.ctx, alice, &groupID, nil)
	assert.ErrorIs(suite.T(), err, common.ErrUnauthorized)
}
