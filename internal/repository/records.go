package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
)

const (
	transactionColumns = `id, amount, type_id, description, date, user_id, group_id, project_id, created_at, updated_at, deleted_at`
	budgetColumns      = `id, category_id, amount, period, user_id, group_id, project_id, created_at, updated_at, deleted_at`
)

func transactionTable(kind models.RecordKind) (string, error) {
	switch kind {
	case models.KindIncome:
		return "incomes", nil
	case models.KindExpense:
		return "expenses", nil
	}
	return "", fmt.Errorf("%w: %q is not a transaction kind", common.ErrInvalidArgument, kind)
}

// filterColumns names the columns a RecordFilter applies to. Empty names are skipped.
type filterColumns struct {
	typeID string
	date   string
}

// applyFilter appends the filter predicates. Pagination is added only when paged is set.
func applyFilter(query string, args []any, filter models.RecordFilter, cols filterColumns, order string, paged bool) (string, []any) {
	if filter.TypeID != nil && cols.typeID != "" {
		query += ` AND ` + cols.typeID + ` = ?`
		args = append(args, *filter.TypeID)
	}
	if filter.ProjectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *filter.ProjectID)
	}
	if cols.date != "" {
		if filter.StartDate != nil {
			query += ` AND ` + cols.date + ` >= ?`
			args = append(args, utc(*filter.StartDate))
		}
		if filter.EndDate != nil {
			query += ` AND ` + cols.date + ` <= ?`
			args = append(args, utc(*filter.EndDate))
		}
	}

	query += ` ORDER BY ` + order

	if paged {
		limit := filter.Limit
		if limit <= 0 {
			limit = models.DefaultPageLimit
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, max(filter.Offset, 0))
	}

	return query, args
}

var transactionFilter = filterColumns{typeID: "type_id", date: "date"}

// Income and expense repository methods
func (r *SQLRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	table, err := transactionTable(txn.Kind)
	if err != nil {
		return err
	}

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}

	now := r.now()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	txn.Date = utc(txn.Date)

	query := `
		INSERT INTO ` + table + ` (id, amount, type_id, description, date, user_id, group_id, project_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, r.rebind(query),
		txn.ID, txn.Amount, txn.TypeID, txn.Description, txn.Date,
		txn.UserID, txn.GroupID, txn.ProjectID, txn.CreatedAt, txn.UpdatedAt)

	return mapError(err)
}

func (r *SQLRepository) GetTransaction(ctx context.Context, kind models.RecordKind, id string) (*models.Transaction, error) {
	table, err := transactionTable(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM ` + table + ` WHERE id = ? AND deleted_at IS NULL`

	var txn models.Transaction
	found, err := r.get(ctx, &txn, query, id)
	if err != nil || !found {
		return nil, err
	}

	txn.Kind = kind
	return &txn, nil
}

// UpdateTransaction overwrites the mutable fields. Owner and creation time are never touched.
func (r *SQLRepository) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	table, err := transactionTable(txn.Kind)
	if err != nil {
		return err
	}

	txn.UpdatedAt = r.now()
	txn.Date = utc(txn.Date)

	return r.execOne(ctx, `
		UPDATE `+table+`
		SET amount = ?, type_id = ?, description = ?, date = ?, group_id = ?, project_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`,
		txn.Amount, txn.TypeID, txn.Description, txn.Date, txn.GroupID, txn.ProjectID, txn.UpdatedAt, txn.ID)
}

func (r *SQLRepository) SoftDeleteTransaction(ctx context.Context, kind models.RecordKind, id string) error {
	table, err := transactionTable(kind)
	if err != nil {
		return err
	}

	now := r.now()
	return r.execOne(ctx,
		`UPDATE `+table+` SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
}

// GetUserTransactions returns one page of the user's own records
func (r *SQLRepository) GetUserTransactions(ctx context.Context, kind models.RecordKind, userID string, filter models.RecordFilter) ([]models.Transaction, error) {
	return r.listTransactions(ctx, kind, `user_id = ?`, userID, filter, true)
}

// GetGroupTransactions returns every record tagged with the group. It is not paginated.
func (r *SQLRepository) GetGroupTransactions(ctx context.Context, kind models.RecordKind, groupID string, filter models.RecordFilter) ([]models.Transaction, error) {
	return r.listTransactions(ctx, kind, `group_id = ?`, groupID, filter, false)
}

func (r *SQLRepository) listTransactions(ctx context.Context, kind models.RecordKind, predicate string, arg any, filter models.RecordFilter, paged bool) ([]models.Transaction, error) {
	table, err := transactionTable(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM ` + table + ` WHERE ` + predicate + ` AND deleted_at IS NULL`
	query, args := applyFilter(query, []any{arg}, filter, transactionFilter, `date DESC, id`, paged)

	txns := []models.Transaction{}
	if err := r.selectAll(ctx, &txns, query, args...); err != nil {
		return nil, err
	}
	for i := range txns {
		txns[i].Kind = kind
	}

	return txns, nil
}

var budgetFilter = filterColumns{typeID: "category_id"}

// Budget repository methods
func (r *SQLRepository) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}

	now := r.now()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	query := `
		INSERT INTO budgets (id, category_id, amount, period, user_id, group_id, project_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.rebind(query),
		budget.ID, budget.CategoryID, budget.Amount, budget.Period,
		budget.UserID, budget.GroupID, budget.ProjectID, budget.CreatedAt, budget.UpdatedAt)

	return mapError(err)
}

func (r *SQLRepository) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = ? AND deleted_at IS NULL`

	var budget models.Budget
	found, err := r.get(ctx, &budget, query, id)
	if err != nil || !found {
		return nil, err
	}

	return &budget, nil
}

func (r *SQLRepository) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	budget.UpdatedAt = r.now()

	return r.execOne(ctx, `
		UPDATE budgets
		SET category_id = ?, amount = ?, period = ?, group_id = ?, project_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`,
		budget.CategoryID, budget.Amount, budget.Period, budget.GroupID, budget.ProjectID, budget.UpdatedAt, budget.ID)
}

func (r *SQLRepository) SoftDeleteBudget(ctx context.Context, id string) error {
	now := r.now()
	return r.execOne(ctx,
		`UPDATE budgets SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
}

func (r *SQLRepository) GetUserBudgets(ctx context.Context, userID string, filter models.RecordFilter) ([]models.Budget, error) {
	return r.listBudgets(ctx, `user_id = ?`, userID, filter, true)
}

func (r *SQLRepository) GetGroupBudgets(ctx context.Context, groupID string, filter models.RecordFilter) ([]models.Budget, error) {
	return r.listBudgets(ctx, `group_id = ?`, groupID, filter, false)
}

func (r *SQLRepository) listBudgets(ctx context.Context, predicate string, arg any, filter models.RecordFilter, paged bool) ([]models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE ` + predicate + ` AND deleted_at IS NULL`
	query, args := applyFilter(query, []any{arg}, filter, budgetFilter, `created_at, id`, paged)

	budgets := []models.Budget{}
	if err := r.selectAll(ctx, &budgets, query, args...); err != nil {
		return nil, err
	}

	return budgets, nil
}
