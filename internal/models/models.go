package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents an account in the system
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"` // Password hash, not returned in JSON
	IsActive     bool       `db:"is_active" json:"isActive"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

// Group is a set of users sharing financial records. The owner is always a member.
type Group struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	OwnerID     string     `db:"owner_id" json:"ownerId"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}

// GroupMember is one (group, user) membership pair
type GroupMember struct {
	GroupID   string    `db:"group_id" json:"groupId"`
	UserID    string    `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// GroupShare grants a user capped access to a group without membership.
// At most one share exists per (group, user).
type GroupShare struct {
	GroupID    string     `db:"group_id" json:"groupId"`
	UserID     string     `db:"user_id" json:"userId"`
	Permission Permission `db:"permission" json:"permission"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

// Category is an income type, expense type or budget category
type Category struct {
	ID        string     `db:"id" json:"id"`
	Kind      RecordKind `db:"-" json:"kind"`
	Name      string     `db:"name" json:"name"`
	Owner     TypeOwner  `db:"user_id" json:"userId"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// Transaction is an income or an expense entry
type Transaction struct {
	ID          string          `db:"id" json:"id"`
	Kind        RecordKind      `db:"-" json:"kind"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	TypeID      string          `db:"type_id" json:"typeId"`
	Description *string         `db:"description" json:"description,omitempty"`
	Date        time.Time       `db:"date" json:"date"`
	UserID      string          `db:"user_id" json:"userId"`
	GroupID     *string         `db:"group_id" json:"groupId,omitempty"`
	ProjectID   *string         `db:"project_id" json:"projectId,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
	DeletedAt   *time.Time      `db:"deleted_at" json:"-"`
}

// Budget allocates an amount to a budget category for a period
type Budget struct {
	ID         string          `db:"id" json:"id"`
	CategoryID string          `db:"category_id" json:"categoryId"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Period     BudgetPeriod    `db:"period" json:"period"`
	UserID     string          `db:"user_id" json:"userId"`
	GroupID    *string         `db:"group_id" json:"groupId,omitempty"`
	ProjectID  *string         `db:"project_id" json:"projectId,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
	DeletedAt  *time.Time      `db:"deleted_at" json:"-"`
}

// Project groups records and tasks, optionally under a group
type Project struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	StartDate   *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate     *time.Time `db:"end_date" json:"endDate,omitempty"`
	ImageRef    *string    `db:"image_ref" json:"imageRef,omitempty"`
	UserID      string     `db:"user_id" json:"userId"`
	GroupID     *string    `db:"group_id" json:"groupId,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}

// Task is a unit of work inside a project
type Task struct {
	ID         string     `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Status     TaskStatus `db:"status" json:"status"`
	StartDate  *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate    *time.Time `db:"end_date" json:"endDate,omitempty"`
	FileRef    *string    `db:"file_ref" json:"fileRef,omitempty"`
	ProjectID  string     `db:"project_id" json:"projectId"`
	AssigneeID *string    `db:"assignee_id" json:"assigneeId,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt  *time.Time `db:"deleted_at" json:"-"`
}

// ResetToken is a one-shot password reset credential
type ResetToken struct {
	Token     string    `db:"token" json:"-"`
	UserID    string    `db:"user_id" json:"userId"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Expired reports whether the token can no longer be redeemed at now
func (t *ResetToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Owned is implemented by records that carry an owner and an optional group.
// A nil record reports itself as deleted.
type Owned interface {
	OwnerID() string
	GroupRef() *string
	IsDeleted() bool
}

func (t *Transaction) OwnerID() string   { return t.UserID }
func (t *Transaction) GroupRef() *string { return t.GroupID }
func (t *Transaction) IsDeleted() bool   { return t == nil || t.DeletedAt != nil }

func (b *Budget) OwnerID() string   { return b.UserID }
func (b *Budget) GroupRef() *string { return b.GroupID }
func (b *Budget) IsDeleted() bool   { return b == nil || b.DeletedAt != nil }

func (p *Project) OwnerID() string   { return p.UserID }
func (p *Project) GroupRef() *string { return p.GroupID }
func (p *Project) IsDeleted() bool   { return p == nil || p.DeletedAt != nil }

// DefaultPageLimit bounds the personal page when a list request sets no limit
const DefaultPageLimit = 100

// RecordFilter narrows list queries. Offset and Limit only bound the personal page.
type RecordFilter struct {
	TypeID    *string
	ProjectID *string
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

// BudgetStatus is the allocated and spent amount of one budget category
type BudgetStatus struct {
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
}

// FinancialSummary is the derived report over an actor's scope
type FinancialSummary struct {
	TotalIncome  decimal.Decimal         `json:"totalIncome"`
	TotalExpense decimal.Decimal         `json:"totalExpense"`
	NetBalance   decimal.Decimal         `json:"netBalance"`
	BudgetStatus map[string]BudgetStatus `json:"budgetStatus"`
}
