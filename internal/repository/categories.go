package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
)

const categoryColumns = `id, name, user_id, created_at, deleted_at`

func categoryTable(kind models.RecordKind) (string, error) {
	switch kind {
	case models.KindIncome:
		return "income_types", nil
	case models.KindExpense:
		return "expense_types", nil
	case models.KindBudget:
		return "budget_categories", nil
	}
	return "", fmt.Errorf("%w: unknown type kind %q", common.ErrInvalidArgument, kind)
}

// Type repository methods

// CreateCategory inserts a type. Names are unique across every live row of the kind,
// global or owned.
func (r *SQLRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	table, err := categoryTable(category.Kind)
	if err != nil {
		return err
	}

	if err := r.checkCategoryName(ctx, table, category.Name, ""); err != nil {
		return err
	}

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	category.CreatedAt = r.now()

	query := `INSERT INTO ` + table + ` (id, name, user_id, created_at) VALUES (?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, r.rebind(query),
		category.ID, category.Name, category.Owner, category.CreatedAt)

	return mapError(err)
}

func (r *SQLRepository) checkCategoryName(ctx context.Context, table, name, exceptID string) error {
	var taken bool
	query := `SELECT EXISTS(SELECT 1 FROM ` + table + ` WHERE name = ? AND id <> ? AND deleted_at IS NULL)`
	if _, err := r.get(ctx, &taken, query, name, exceptID); err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: type %q already exists", common.ErrConstraintViolation, name)
	}
	return nil
}

func (r *SQLRepository) GetCategory(ctx context.Context, kind models.RecordKind, id string) (*models.Category, error) {
	table, err := categoryTable(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + categoryColumns + ` FROM ` + table + ` WHERE id = ? AND deleted_at IS NULL`

	var category models.Category
	found, err := r.get(ctx, &category, query, id)
	if err != nil || !found {
		return nil, err
	}

	category.Kind = kind
	return &category, nil
}

// GetVisibleCategories returns the global types plus the ones owned by userID
func (r *SQLRepository) GetVisibleCategories(ctx context.Context, kind models.RecordKind, userID string) ([]models.Category, error) {
	table, err := categoryTable(kind)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + ` FROM ` + table + `
		WHERE (user_id IS NULL OR user_id = ?) AND deleted_at IS NULL
		ORDER BY name
	`

	categories := []models.Category{}
	if err := r.selectAll(ctx, &categories, query, userID); err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].Kind = kind
	}

	return categories, nil
}

// UpdateCategory renames a live type
func (r *SQLRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	table, err := categoryTable(category.Kind)
	if err != nil {
		return err
	}

	if err := r.checkCategoryName(ctx, table, category.Name, category.ID); err != nil {
		return err
	}

	return r.execOne(ctx,
		`UPDATE `+table+` SET name = ? WHERE id = ? AND deleted_at IS NULL`,
		category.Name, category.ID)
}

func (r *SQLRepository) SoftDeleteCategory(ctx context.Context, kind models.RecordKind, id string) error {
	table, err := categoryTable(kind)
	if err != nil {
		return err
	}

	return r.execOne(ctx,
		`UPDATE `+table+` SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		r.now(), id)
}

// EnsureGlobalCategory inserts a global type unless a live type of that name exists.
// It reports whether a row was created.
func (r *SQLRepository) EnsureGlobalCategory(ctx context.Context, kind models.RecordKind, name string) (bool, error) {
	table, err := categoryTable(kind)
	if err != nil {
		return false, err
	}

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM ` + table + ` WHERE name = ? AND deleted_at IS NULL)`
	if _, err := r.get(ctx, &exists, query, name); err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	err = r.CreateCategory(ctx, &models.Category{Kind: kind, Name: name, Owner: models.GlobalOwner()})
	if err != nil {
		return false, err
	}
	return true, nil
}
