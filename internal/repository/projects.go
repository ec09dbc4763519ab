package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rongwang/fintrack/internal/models"
)

const (
	projectColumns = `id, name, description, start_date, end_date, image_ref, user_id, group_id, created_at, updated_at, deleted_at`
	taskColumns    = `id, name, status, start_date, end_date, file_ref, project_id, assignee_id, created_at, updated_at, deleted_at`
)

// Project repository methods
func (r *SQLRepository) CreateProject(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}

	now := r.now()
	project.CreatedAt = now
	project.UpdatedAt = now

	query := `
		INSERT INTO projects (id, name, description, start_date, end_date, image_ref, user_id, group_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.rebind(query),
		project.ID, project.Name, project.Description, utcPtr(project.StartDate), utcPtr(project.EndDate),
		project.ImageRef, project.UserID, project.GroupID, project.CreatedAt, project.UpdatedAt)

	return mapError(err)
}

func (r *SQLRepository) GetProject(ctx context.Context, id string) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND deleted_at IS NULL`

	var project models.Project
	found, err := r.get(ctx, &project, query, id)
	if err != nil || !found {
		return nil, err
	}

	return &project, nil
}

func (r *SQLRepository) UpdateProject(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = r.now()

	return r.execOne(ctx, `
		UPDATE projects
		SET name = ?, description = ?, start_date = ?, end_date = ?, image_ref = ?, group_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`,
		project.Name, project.Description, utcPtr(project.StartDate), utcPtr(project.EndDate),
		project.ImageRef, project.GroupID, project.UpdatedAt, project.ID)
}

func (r *SQLRepository) SoftDeleteProject(ctx context.Context, id string) error {
	now := r.now()
	return r.execOne(ctx,
		`UPDATE projects SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
}

func (r *SQLRepository) GetUserProjects(ctx context.Context, userID string, filter models.RecordFilter) ([]models.Project, error) {
	return r.listProjects(ctx, `user_id = ?`, userID, filter, true)
}

func (r *SQLRepository) GetGroupProjects(ctx context.Context, groupID string, filter models.RecordFilter) ([]models.Project, error) {
	return r.listProjects(ctx, `group_id = ?`, groupID, filter, false)
}

func (r *SQLRepository) listProjects(ctx context.Context, predicate string, arg any, filter models.RecordFilter, paged bool) ([]models.Project, error) {
	// projects carry no type and are not filtered by project
	filter.TypeID, filter.ProjectID = nil, nil

	query := `SELECT ` + projectColumns + ` FROM projects WHERE ` + predicate + ` AND deleted_at IS NULL`
	query, args := applyFilter(query, []any{arg}, filter, filterColumns{date: "start_date"}, `created_at, id`, paged)

	projects := []models.Project{}
	if err := r.selectAll(ctx, &projects, query, args...); err != nil {
		return nil, err
	}

	return projects, nil
}

// Task repository methods
func (r *SQLRepository) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	now := r.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `
		INSERT INTO tasks (id, name, status, start_date, end_date, file_ref, project_id, assignee_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, r.rebind(query),
		task.ID, task.Name, task.Status, utcPtr(task.StartDate), utcPtr(task.EndDate),
		task.FileRef, task.ProjectID, task.AssigneeID, task.CreatedAt, task.UpdatedAt)

	return mapError(err)
}

func (r *SQLRepository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND deleted_at IS NULL`

	var task models.Task
	found, err := r.get(ctx, &task, query, id)
	if err != nil || !found {
		return nil, err
	}

	return &task, nil
}

func (r *SQLRepository) UpdateTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = r.now()

	return r.execOne(ctx, `
		UPDATE tasks
		SET name = ?, status = ?, start_date = ?, end_date = ?, file_ref = ?, assignee_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`,
		task.Name, task.Status, utcPtr(task.StartDate), utcPtr(task.EndDate),
		task.FileRef, task.AssigneeID, task.UpdatedAt, task.ID)
}

func (r *SQLRepository) SoftDeleteTask(ctx context.Context, id string) error {
	now := r.now()
	return r.execOne(ctx,
		`UPDATE tasks SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
}

func (r *SQLRepository) GetProjectTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? AND deleted_at IS NULL ORDER BY created_at, id`

	tasks := []models.Task{}
	if err := r.selectAll(ctx, &tasks, query, projectID); err != nil {
		return nil, err
	}

	return tasks, nil
}
