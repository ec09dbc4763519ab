package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/shopspring/decimal"
)

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, userID, passwordHash string) error
	SoftDeleteUser(ctx context.Context, userID string) error

	// Group operations
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	SoftDeleteGroup(ctx context.Context, groupID string) error
	GetUserGroups(ctx context.Context, userID string) ([]models.Group, error)

	// Membership operations
	AddGroupMember(ctx context.Context, member *models.GroupMember) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)
	GetGroupMembers(ctx context.Context, groupID string) ([]models.GroupMember, error)

	// Share operations
	UpsertGroupShare(ctx context.Context, share *models.GroupShare) error
	GetGroupShare(ctx context.Context, groupID, userID string) (*models.GroupShare, error)
	GetGroupShares(ctx context.Context, groupID string) ([]models.GroupShare, error)
	DeleteGroupShare(ctx context.Context, groupID, userID string) error

	// Type operations, keyed by kind
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, kind models.RecordKind, id string) (*models.Category, error)
	GetVisibleCategories(ctx context.Context, kind models.RecordKind, userID string) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	SoftDeleteCategory(ctx context.Context, kind models.RecordKind, id string) error
	EnsureGlobalCategory(ctx context.Context, kind models.RecordKind, name string) (bool, error)

	// Income and expense operations
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, kind models.RecordKind, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error
	SoftDeleteTransaction(ctx context.Context, kind models.RecordKind, id string) error
	GetUserTransactions(ctx context.Context, kind models.RecordKind, userID string, filter models.RecordFilter) ([]models.Transaction, error)
	GetGroupTransactions(ctx context.Context, kind models.RecordKind, groupID string, filter models.RecordFilter) ([]models.Transaction, error)

	// Budget operations
	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudget(ctx context.Context, id string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	SoftDeleteBudget(ctx context.Context, id string) error
	GetUserBudgets(ctx context.Context, userID string, filter models.RecordFilter) ([]models.Budget, error)
	GetGroupBudgets(ctx context.Context, groupID string, filter models.RecordFilter) ([]models.Budget, error)

	// Project operations
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, project *models.Project) error
	SoftDeleteProject(ctx context.Context, id string) error
	GetUserProjects(ctx context.Context, userID string, filter models.RecordFilter) ([]models.Project, error)
	GetGroupProjects(ctx context.Context, groupID string, filter models.RecordFilter) ([]models.Project, error)

	// Task operations
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	SoftDeleteTask(ctx context.Context, id string) error
	GetProjectTasks(ctx context.Context, projectID string) ([]models.Task, error)

	// Password reset operations
	CreateResetToken(ctx context.Context, token *models.ResetToken) error
	GetResetToken(ctx context.Context, token string) (*models.ResetToken, error)
	DeleteResetToken(ctx context.Context, token string) error

	// Aggregates
	SumUserTransactions(ctx context.Context, kind models.RecordKind, userID string, projectID *string) (decimal.Decimal, error)
	SumGroupTransactions(ctx context.Context, kind models.RecordKind, groupID string, projectID *string) (decimal.Decimal, error)
	GetBudgetAllocations(ctx context.Context, userID string, projectID *string) ([]BudgetAllocation, error)
	GetExpenseTotalsByType(ctx context.Context, userID string, projectID *string) ([]TypeTotal, error)
}

// BudgetAllocation is one budget row resolved to its category name.
// CategoryName is "Unknown" when the category is gone.
type BudgetAllocation struct {
	CategoryName string          `db:"category_name"`
	Amount       decimal.Decimal `db:"amount"`
}

// TypeTotal is the spent amount for one expense type name
type TypeTotal struct {
	TypeName string          `db:"type_name"`
	Total    decimal.Decimal `db:"total"`
}

// SQLRepository implements the Repository interface on PostgreSQL or SQLite.
// Queries are written with ? placeholders and rebound for the driver in use.
type SQLRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLRepository creates a new repository over an open connection
func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// GetDB returns the underlying database connection
func (r *SQLRepository) GetDB() *sqlx.DB {
	return r.db
}

func (r *SQLRepository) rebind(query string) string {
	return r.db.Rebind(query)
}

// get runs a single-row query and reports absence as found == false
func (r *SQLRepository) get(ctx context.Context, dest any, query string, args ...any) (found bool, err error) {
	err = r.db.GetContext(ctx, dest, r.rebind(query), args...)
	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *SQLRepository) selectAll(ctx context.Context, dest any, query string, args ...any) error {
	return r.db.SelectContext(ctx, dest, r.rebind(query), args...)
}

// execOne runs a mutation that must touch exactly one live row
func (r *SQLRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return mapError(err)
	}
	return requireAffected(res)
}

// utc normalizes a timestamp before it is written or compared
func utc(t time.Time) time.Time {
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
