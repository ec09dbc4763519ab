package repository

import (
	"context"

	"github.com/rongwang/fintrack/internal/models"
	"github.com/shopspring/decimal"
)

// Aggregate queries used by the financial summary

// SumUserTransactions totals the user's own live records of a kind
func (r *SQLRepository) SumUserTransactions(ctx context.Context, kind models.RecordKind, userID string, projectID *string) (decimal.Decimal, error) {
	return r.sumTransactions(ctx, kind, `user_id = ?`, userID, projectID)
}

// SumGroupTransactions totals every live record tagged with the group, whoever owns it
func (r *SQLRepository) SumGroupTransactions(ctx context.Context, kind models.RecordKind, groupID string, projectID *string) (decimal.Decimal, error) {
	return r.sumTransactions(ctx, kind, `group_id = ?`, groupID, projectID)
}

func (r *SQLRepository) sumTransactions(ctx context.Context, kind models.RecordKind, predicate string, arg any, projectID *string) (decimal.Decimal, error) {
	table, err := transactionTable(kind)
	if err != nil {
		return decimal.Zero, err
	}

	query := `SELECT COALESCE(SUM(amount), 0) FROM ` + table + ` WHERE ` + predicate + ` AND deleted_at IS NULL`
	args := []any{arg}
	if projectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *projectID)
	}

	var total decimal.Decimal
	if _, err := r.get(ctx, &total, query, args...); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// GetBudgetAllocations lists the user's live budgets with their category name, oldest first
func (r *SQLRepository) GetBudgetAllocations(ctx context.Context, userID string, projectID *string) ([]BudgetAllocation, error) {
	query := `
		SELECT COALESCE(bc.name, 'Unknown') AS category_name, b.amount
		FROM budgets b
		LEFT JOIN budget_categories bc ON bc.id = b.category_id AND bc.deleted_at IS NULL
		WHERE b.user_id = ? AND b.deleted_at IS NULL
	`
	args := []any{userID}
	if projectID != nil {
		query += ` AND b.project_id = ?`
		args = append(args, *projectID)
	}
	query += ` ORDER BY b.created_at, b.id`

	allocations := []BudgetAllocation{}
	if err := r.selectAll(ctx, &allocations, query, args...); err != nil {
		return nil, err
	}
	return allocations, nil
}

// GetExpenseTotalsByType sums the user's live expenses per expense type name
func (r *SQLRepository) GetExpenseTotalsByType(ctx context.Context, userID string, projectID *string) ([]TypeTotal, error) {
	query := `
		SELECT et.name AS type_name, COALESCE(SUM(e.amount), 0) AS total
		FROM expenses e
		JOIN expense_types et ON et.id = e.type_id AND et.deleted_at IS NULL
		WHERE e.user_id = ? AND e.deleted_at IS NULL
	`
	args := []any{userID}
	if projectID != nil {
		query += ` AND e.project_id = ?`
		args = append(args, *projectID)
	}
	query += ` GROUP BY et.name`

	totals := []TypeTotal{}
	if err := r.selectAll(ctx, &totals, query, args...); err != nil {
		return nil, err
	}
	return totals, nil
}
