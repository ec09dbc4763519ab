package permission

import (
	"context"
	"fmt"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
)

// ResolverStore is the read side the write checks need
type ResolverStore interface {
	Store
	GetCategory(ctx context.Context, kind models.RecordKind, id string) (*models.Category, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// GroupChecker is satisfied by *Checker
type GroupChecker interface {
	CheckGroupPermission(ctx context.Context, groupID, userID string, required models.Permission) (bool, error)
}

// Refs are the references a record carries. An empty TypeID skips the type check,
// which is how projects are validated.
type Refs struct {
	TypeKind  models.RecordKind
	TypeID    string
	GroupID   *string
	ProjectID *string
}

// Resolver gates every mutation of records, projects and tasks
type Resolver struct {
	store  ResolverStore
	groups GroupChecker
}

func NewResolver(store ResolverStore, groups GroupChecker) *Resolver {
	return &Resolver{store: store, groups: groups}
}

// CheckCreate validates the type, group and project references of a new record
// owned by actorID.
func (r *Resolver) CheckCreate(ctx context.Context, actorID string, refs Refs) error {
	if refs.TypeID != "" {
		category, err := r.store.GetCategory(ctx, refs.TypeKind, refs.TypeID)
		if err != nil {
			return err
		}
		if category == nil || category.DeletedAt != nil || !category.Owner.VisibleTo(actorID) {
			return fmt.Errorf("%w: %s type %s does not exist or not authorized", common.ErrInvalidReference, refs.TypeKind, refs.TypeID)
		}
	}

	if refs.GroupID != nil {
		ok, err := r.groups.CheckGroupPermission(ctx, *refs.GroupID, actorID, models.PermissionEdit)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: not authorized to add records to group %s", common.ErrUnauthorized, *refs.GroupID)
		}
	}

	if refs.ProjectID != nil {
		project, err := r.store.GetProject(ctx, *refs.ProjectID)
		if err != nil {
			return err
		}
		ok, err := r.projectAccess(ctx, actorID, project, models.PermissionEdit)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: project %s does not exist or not authorized", common.ErrInvalidReference, *refs.ProjectID)
		}
	}

	return nil
}

// CheckUpdate requires current to be a live record owned by actorID, then
// validates the new references exactly like CheckCreate.
func (r *Resolver) CheckUpdate(ctx context.Context, actorID string, current models.Owned, refs Refs) error {
	if !ownedBy(current, actorID) {
		return fmt.Errorf("%w: record not found", common.ErrNotFound)
	}
	return r.CheckCreate(ctx, actorID, refs)
}

// CheckDelete requires current to be a live record owned by actorID. A record
// still tagged with a group additionally needs edit on that group, so losing
// group rights blocks deletion even for the original author.
func (r *Resolver) CheckDelete(ctx context.Context, actorID string, current models.Owned) error {
	if !ownedBy(current, actorID) {
		return fmt.Errorf("%w: record not found", common.ErrNotFound)
	}

	if groupID := current.GroupRef(); groupID != nil {
		ok, err := r.groups.CheckGroupPermission(ctx, *groupID, actorID, models.PermissionEdit)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: not authorized to delete records of group %s", common.ErrUnauthorized, *groupID)
		}
	}

	return nil
}

// CheckProjectAccess is the task-level gate: the project owner, or a user holding
// level on the project's group.
func (r *Resolver) CheckProjectAccess(ctx context.Context, actorID string, project *models.Project, level models.Permission) error {
	ok, err := r.projectAccess(ctx, actorID, project, level)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no %s access to project", common.ErrUnauthorized, level)
	}
	return nil
}

// CheckAssignee validates a task assignee: the user must exist and, for a group
// project, hold at least view on the group.
func (r *Resolver) CheckAssignee(ctx context.Context, project *models.Project, assigneeID *string) error {
	if assigneeID == nil {
		return nil
	}

	user, err := r.store.GetUserByID(ctx, *assigneeID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %s does not exist", common.ErrInvalidReference, *assigneeID)
	}

	if project.GroupID != nil {
		ok, err := r.groups.CheckGroupPermission(ctx, *project.GroupID, *assigneeID, models.PermissionView)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: user %s is not in the project group", common.ErrInvalidReference, *assigneeID)
		}
	}

	return nil
}

func (r *Resolver) projectAccess(ctx context.Context, actorID string, project *models.Project, level models.Permission) (bool, error) {
	if project.IsDeleted() {
		return false, nil
	}
	if project.UserID == actorID {
		return true, nil
	}
	if project.GroupID == nil {
		return false, nil
	}
	return r.groups.CheckGroupPermission(ctx, *project.GroupID, actorID, level)
}

func ownedBy(record models.Owned, actorID string) bool {
	return record != nil && !record.IsDeleted() && record.OwnerID() == actorID
}
