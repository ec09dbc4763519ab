package service

import (
	"errors"
	"strings"
	"time"

	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *ServiceTestSuite) createProject(actorID string, groupID *string) *models.Project {
	project, err := suite.svc.CreateProject(suite.ctx, actorID, models.ProjectRequest{Name: "renovation", GroupID: groupID})
	require.NoError(suite.T(), err)
	return project
}

func (suite *ServiceTestSuite) TestProjects() {
	t := suite.T()
	owner := suite.signUp("owner")
	member := suite.signUp("member")
	stranger := suite.signUp("stranger")
	groupID := suite.createGroup(owner, member)

	_, err := suite.svc.CreateProject(suite.ctx, stranger, models.ProjectRequest{Name: "x", GroupID: &groupID})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	_, err = suite.svc.CreateProject(suite.ctx, owner, models.ProjectRequest{Name: "x", StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = suite.svc.CreateProject(suite.ctx, owner, models.ProjectRequest{Name: "  "})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	shared := suite.createProject(owner, &groupID)
	suite.createProject(stranger, nil)

	list, err := suite.svc.ListProjects(suite.ctx, member, models.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, shared.ID, list[0].ID)

	_, err = suite.svc.GetProject(suite.ctx, stranger, shared.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	updated, err := suite.svc.UpdateProject(suite.ctx, owner, shared.ID, models.ProjectRequest{Name: "kitchen", GroupID: &groupID})
	require.NoError(t, err)
	assert.Equal(t, "kitchen", updated.Name)

	_, err = suite.svc.UpdateProject(suite.ctx, member, shared.ID, models.ProjectRequest{Name: "mine"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, suite.svc.DeleteProject(suite.ctx, owner, shared.ID))
	assert.ErrorIs(t, suite.svc.DeleteProject(suite.ctx, owner, shared.ID), common.ErrNotFound)
}

func (suite *ServiceTestSuite) TestRecordProjectReference() {
	t := suite.T()
	owner := suite.signUp("owner")
	member := suite.signUp("member")
	stranger := suite.signUp("stranger")
	groupID := suite.createGroup(owner, member)

	personal := suite.createProject(owner, nil)
	shared := suite.createProject(owner, &groupID)

	req := func(projectID string) models.TransactionRequest {
		return models.TransactionRequest{
			Amount:    decimal.NewFromInt(3),
			TypeID:    suite.typeID(models.KindExpense, "food"),
			ProjectID: &projectID,
		}
	}

	_, err := suite.svc.CreateTransaction(suite.ctx, owner, models.KindExpense, req(personal.ID))
	assert.NoError(t, err)

	_, err = suite.svc.CreateTransaction(suite.ctx, member, models.KindExpense, req(shared.ID))
	assert.NoError(t, err, "group edit covers the project")

	_, err = suite.svc.CreateTransaction(suite.ctx, member, models.KindExpense, req(personal.ID))
	assert.ErrorIs(t, err, common.ErrInvalidReference)

	_, err = suite.svc.CreateTransaction(suite.ctx, stranger, models.KindExpense, req("missing"))
	assert.ErrorIs(t, err, common.ErrInvalidReference)

	require.NoError(t, suite.svc.DeleteProject(suite.ctx, owner, personal.ID))
	_, err = suite.svc.CreateTransaction(suite.ctx, owner, models.KindExpense, req(personal.ID))
	assert.ErrorIs(t, err, common.ErrInvalidReference)
}

func (suite *ServiceTestSuite) TestTasks() {
	t := suite.T()
	owner := suite.signUp("owner")
	member := suite.signUp("member")
	viewer := suite.signUp("viewer")
	stranger := suite.signUp("stranger")
	groupID := suite.createGroup(owner, member)
	_, err := suite.svc.CreateShare(suite.ctx, owner, groupID, models.CreateShareRequest{UserID: viewer, Permission: models.PermissionView})
	require.NoError(t, err)

	project := suite.createProject(owner, &groupID)

	task, err := suite.svc.CreateTask(suite.ctx, member, project.ID, models.TaskRequest{Name: "paint", AssigneeID: &viewer})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)

	_, err = suite.svc.CreateTask(suite.ctx, viewer, project.ID, models.TaskRequest{Name: "tile"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = suite.svc.CreateTask(suite.ctx, stranger, project.ID, models.TaskRequest{Name: "tile"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = suite.svc.CreateTask(suite.ctx, owner, project.ID, models.TaskRequest{Name: "tile", AssigneeID: &stranger})
	assert.ErrorIs(t, err, common.ErrInvalidReference)

	missing := "missing"
	_, err = suite.svc.CreateTask(suite.ctx, owner, project.ID, models.TaskRequest{Name: "tile", AssigneeID: &missing})
	assert.ErrorIs(t, err, common.ErrInvalidReference)

	_, err = suite.svc.CreateTask(suite.ctx, owner, project.ID, models.TaskRequest{Name: "tile", Status: "blocked"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = suite.svc.CreateTask(suite.ctx, owner, "missing", models.TaskRequest{Name: "tile"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	tasks, err := suite.svc.ListTasks(suite.ctx, viewer, project.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	_, err = suite.svc.ListTasks(suite.ctx, stranger, project.ID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	updated, err := suite.svc.UpdateTask(suite.ctx, owner, project.ID, task.ID, models.TaskRequest{Name: "paint", Status: models.TaskDone})
	require.NoError(t, err)
	assert.Equal(t, models.TaskDone, updated.Status)
	assert.Nil(t, updated.AssigneeID)

	other := suite.createProject(owner, nil)
	_, err = suite.svc.UpdateTask(suite.ctx, owner, other.ID, task.ID, models.TaskRequest{Name: "moved"})
	assert.ErrorIs(t, err, common.ErrNotFound, "task belongs to another project")

	require.NoError(t, suite.svc.DeleteTask(suite.ctx, member, project.ID, task.ID))
	assert.ErrorIs(t, suite.svc.DeleteTask(suite.ctx, member, project.ID, task.ID), common.ErrNotFound)
}

func (suite *ServiceTestSuite) TestAttachments() {
	t := suite.T()
	owner := suite.signUp("owner")
	member := suite.signUp("member")
	stranger := suite.signUp("stranger")
	groupID := suite.createGroup(owner, member)
	project := suite.createProject(owner, &groupID)

	_, err := suite.svc.PresignProjectImageDownload(suite.ctx, owner, project.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	upload, err := suite.svc.PresignProjectImageUpload(suite.ctx, owner, project.ID, "../photo.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.Key, "projects/"+project.ID+"/"))
	assert.True(t, strings.HasSuffix(upload.Key, "-photo.png"))

	stored, err := suite.svc.GetProject(suite.ctx, owner, project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ImageRef)
	assert.Equal(t, upload.Key, *stored.ImageRef)

	download, err := suite.svc.PresignProjectImageDownload(suite.ctx, owner, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://download.test/"+upload.Key, download.URL)

	_, err = suite.svc.PresignProjectImageUpload(suite.ctx, stranger, project.ID, "photo.png")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = suite.svc.PresignProjectImageUpload(suite.ctx, owner, project.ID, " ")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	task, err := suite.svc.CreateTask(suite.ctx, owner, project.ID, models.TaskRequest{Name: "receipt"})
	require.NoError(t, err)

	fileUpload, err := suite.svc.PresignTaskFileUpload(suite.ctx, owner, project.ID, task.ID, "receipt.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fileUpload.Key, "tasks/"+task.ID+"/"))

	fileDownload, err := suite.svc.PresignTaskFileDownload(suite.ctx, member, project.ID, task.ID)
	require.NoError(t, err)
	assert.Contains(t, fileDownload.URL, fileUpload.Key)

	memberUpload, err := suite.svc.PresignTaskFileUpload(suite.ctx, member, project.ID, task.ID, "invoice.pdf")
	require.NoError(t, err, "task files follow project edit access")
	assert.True(t, strings.HasPrefix(memberUpload.Key, "tasks/"+task.ID+"/"))

	disabled := NewDefaultService(suite.repo, Dependencies{Tokens: suite.svc.tokens})
	_, err = disabled.PresignProjectImageUpload(suite.ctx, owner, project.ID, "photo.png")
	assert.True(t, errors.Is(err, storage.ErrDisabled))
	_, err = disabled.PresignTaskFileDownload(suite.ctx, owner, project.ID, task.ID)
	assert.True(t, errors.Is(err, storage.ErrDisabled))
}

func (suite *ServiceTestSuite) TestProjectImageIsOwnerOnly() {
	t := suite.T()
	owner := suite.signUp("owner")
	member := suite.signUp("member")
	editor := suite.signUp("editor")
	groupID := suite.createGroup(owner, member)

	_, err := suite.svc.CreateShare(suite.ctx, owner, groupID, models.CreateShareRequest{UserID: editor, Permission: models.PermissionEdit})
	require.NoError(t, err)

	original := "projects/original.png"
	project, err := suite.svc.CreateProject(suite.ctx, owner, models.ProjectRequest{
		Name:     "renovation",
		GroupID:  &groupID,
		ImageRef: &original,
	})
	require.NoError(t, err)

	for _, actor := range []string{member, editor} {
		_, err = suite.svc.PresignProjectImageUpload(suite.ctx, actor, project.ID, "replacement.png")
		assert.ErrorIs(t, err, common.ErrNotFound)
	}

	stored, err := suite.svc.GetProject(suite.ctx, member, project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ImageRef)
	assert.Equal(t, original, *stored.ImageRef)

	download, err := suite.svc.PresignProjectImageDownload(suite.ctx, member, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://download.test/"+original, download.URL)
}
