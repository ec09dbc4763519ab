package service

import (
	"context"
	"fmt"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/shopspring/decimal"
)

// Summarize totals the actor's incomes and expenses, adding the whole of one
// group's records when groupID is set. The group sum includes the actor's own
// group-tagged records, so those count twice.
func (s *DefaultService) Summarize(ctx context.Context, actorID string, groupID, projectID *string) (*models.FinancialSummary, error) {
	groupID = optional(groupID)
	projectID = optional(projectID)

	if groupID != nil {
		ok, err := s.groups.CheckGroupPermission(ctx, *groupID, actorID, models.PermissionView)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no view access to group %s", common.ErrUnauthorized, *groupID)
		}
	}

	income, err := s.total(ctx, models.KindIncome, actorID, groupID, projectID)
	if err != nil {
		return nil, err
	}
	expense, err := s.total(ctx, models.KindExpense, actorID, groupID, projectID)
	if err != nil {
		return nil, err
	}

	status, err := s.budgetStatus(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	return &models.FinancialSummary{
		TotalIncome:  income,
		TotalExpense: expense,
		NetBalance:   income.Sub(expense),
		BudgetStatus: status,
	}, nil
}

func (s *DefaultService) total(ctx context.Context, kind models.RecordKind, actorID string, groupID, projectID *string) (decimal.Decimal, error) {
	sum, err := s.repo.SumUserTransactions(ctx, kind, actorID, projectID)
	if err != nil {
		return decimal.Zero, err
	}
	if groupID == nil {
		return sum, nil
	}

	groupSum, err := s.repo.SumGroupTransactions(ctx, kind, *groupID, projectID)
	if err != nil {
		return decimal.Zero, err
	}
	return sum.Add(groupSum), nil
}

// budgetStatus pairs budget categories with expense types by name. A later
// budget for the same category replaces the allocation of an earlier one.
func (s *DefaultService) budgetStatus(ctx context.Context, actorID string, projectID *string) (map[string]models.BudgetStatus, error) {
	allocations, err := s.repo.GetBudgetAllocations(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	status := make(map[string]models.BudgetStatus, len(allocations))
	if len(allocations) == 0 {
		return status, nil
	}
	for _, a := range allocations {
		status[a.CategoryName] = models.BudgetStatus{Allocated: a.Amount, Spent: decimal.Zero}
	}

	totals, err := s.repo.GetExpenseTotalsByType(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	for _, t := range totals {
		entry, ok := status[t.TypeName]
		if !ok {
			continue
		}
		entry.Spent = entry.Spent.Add(t.Total)
		status[t.TypeName] = entry
	}
	return status, nil
}
