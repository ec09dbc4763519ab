package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Permission is the level a group share grants
type Permission string

const (
	PermissionView Permission = "view"
	PermissionEdit Permission = "edit"
)

func (p Permission) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

// Satisfies reports whether holding p is enough for required.
// An edit grant covers view; a view grant never covers edit.
func (p Permission) Satisfies(required Permission) bool {
	return p == PermissionEdit || (required == PermissionView && p == PermissionView)
}

// RecordKind selects one of the record or type families
type RecordKind string

const (
	KindIncome  RecordKind = "income"
	KindExpense RecordKind = "expense"
	KindBudget  RecordKind = "budget"
)

func ParseRecordKind(s string) (RecordKind, error) {
	switch k := RecordKind(s); k {
	case KindIncome, KindExpense, KindBudget:
		return k, nil
	}
	return "", fmt.Errorf("unknown record kind %q", s)
}

type BudgetPeriod string

const (
	PeriodDaily   BudgetPeriod = "daily"
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// TypeOwner says who a Category belongs to: either nobody (a global type,
// visible to every user) or exactly one user. The zero value is Global.
type TypeOwner struct {
	userID string
}

// GlobalOwner returns the owner of default types
func GlobalOwner() TypeOwner { return TypeOwner{} }

// OwnedBy returns an owner bound to userID
func OwnedBy(userID string) TypeOwner { return TypeOwner{userID: userID} }

func (o TypeOwner) IsGlobal() bool { return o.userID == "" }

// UserID returns the owning user, ok is false for global types
func (o TypeOwner) UserID() (id string, ok bool) {
	return o.userID, o.userID != ""
}

// IsOwnedBy reports whether the type is private to userID
func (o TypeOwner) IsOwnedBy(userID string) bool {
	return !o.IsGlobal() && o.userID == userID
}

// VisibleTo reports whether userID may reference the type
func (o TypeOwner) VisibleTo(userID string) bool {
	return o.IsGlobal() || o.userID == userID
}

func (o TypeOwner) String() string {
	if o.IsGlobal() {
		return "global"
	}
	return "user:" + o.userID
}

// Scan maps a nullable user_id column
func (o *TypeOwner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		o.userID = ""
	case string:
		o.userID = v
	case []byte:
		o.userID = string(v)
	default:
		return fmt.Errorf("cannot scan %T into TypeOwner", src)
	}
	return nil
}

func (o TypeOwner) Value() (driver.Value, error) {
	if o.IsGlobal() {
		return nil, nil
	}
	return o.userID, nil
}

func (o TypeOwner) MarshalJSON() ([]byte, error) {
	if o.IsGlobal() {
		return []byte("null"), nil
	}
	return json.Marshal(o.userID)
}

func (o *TypeOwner) UnmarshalJSON(data []byte) error {
	var id *string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	if id == nil {
		o.userID = ""
		return nil
	}
	o.userID = *id
	return nil
}
