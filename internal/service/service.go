package service

import (
	"context"
	"time"

	"github.com/rongwang/fintrack/internal/auth"
	"github.com/rongwang/fintrack/internal/mailer"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/permission"
	"github.com/rongwang/fintrack/internal/repository"
	"github.com/rongwang/fintrack/internal/storage"
	"github.com/rongwang/fintrack/internal/utils"
)

// Service defines all the business logic operations. Every operation after
// authentication takes the acting user's id explicitly.
type Service interface {
	// Authentication
	SignUp(ctx context.Context, req models.SignUpRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error

	// Users
	GetUser(ctx context.Context, userID string) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error

	// Groups, members and shares
	CreateGroup(ctx context.Context, actorID string, req models.CreateGroupRequest) (*models.Group, error)
	GetGroup(ctx context.Context, actorID, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context, actorID string) ([]models.Group, error)
	DeleteGroup(ctx context.Context, actorID, groupID string) error
	AddMember(ctx context.Context, actorID, groupID string, req models.AddMemberRequest) (*models.GroupMember, error)
	RemoveMember(ctx context.Context, actorID, groupID, userID string) error
	ListMembers(ctx context.Context, actorID, groupID string) ([]models.GroupMember, error)
	CreateShare(ctx context.Context, actorID, groupID string, req models.CreateShareRequest) (*models.GroupShare, error)
	ListShares(ctx context.Context, actorID, groupID string) ([]models.GroupShare, error)
	DeleteShare(ctx context.Context, actorID, groupID, userID string) error
	CheckGroupPermission(ctx context.Context, actorID, groupID string, level models.Permission) (bool, error)

	// Income types, expense types and budget categories
	CreateType(ctx context.Context, actorID string, kind models.RecordKind, req models.TypeRequest) (*models.Category, error)
	ListTypes(ctx context.Context, actorID string, kind models.RecordKind) ([]models.Category, error)
	UpdateType(ctx context.Context, actorID string, kind models.RecordKind, id string, req models.TypeRequest) (*models.Category, error)
	DeleteType(ctx context.Context, actorID string, kind models.RecordKind, id string) error

	// Incomes and expenses
	CreateTransaction(ctx context.Context, actorID string, kind models.RecordKind, req models.TransactionRequest) (*models.Transaction, error)
	GetTransaction(ctx context.Context, actorID string, kind models.RecordKind, id string) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, actorID string, kind models.RecordKind, id string, req models.TransactionRequest) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, actorID string, kind models.RecordKind, id string) error
	ListTransactions(ctx context.Context, actorID string, kind models.RecordKind, filter models.RecordFilter) ([]models.Transaction, error)

	// Budgets
	CreateBudget(ctx context.Context, actorID string, req models.BudgetRequest) (*models.Budget, error)
	GetBudget(ctx context.Context, actorID, id string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, actorID, id string, req models.BudgetRequest) (*models.Budget, error)
	DeleteBudget(ctx context.Context, actorID, id string) error
	ListBudgets(ctx context.Context, actorID string, filter models.RecordFilter) ([]models.Budget, error)

	// Projects
	CreateProject(ctx context.Context, actorID string, req models.ProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, actorID, id string) (*models.Project, error)
	UpdateProject(ctx context.Context, actorID, id string, req models.ProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, actorID, id string) error
	ListProjects(ctx context.Context, actorID string, filter models.RecordFilter) ([]models.Project, error)

	// Tasks
	CreateTask(ctx context.Context, actorID, projectID string, req models.TaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, actorID, projectID, taskID string, req models.TaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, actorID, projectID, taskID string) error
	ListTasks(ctx context.Context, actorID, projectID string) ([]models.Task, error)

	// Attachments
	PresignProjectImageUpload(ctx context.Context, actorID, projectID, filename string) (*models.UploadResponse, error)
	PresignProjectImageDownload(ctx context.Context, actorID, projectID string) (*models.DownloadResponse, error)
	PresignTaskFileUpload(ctx context.Context, actorID, projectID, taskID, filename string) (*models.UploadResponse, error)
	PresignTaskFileDownload(ctx context.Context, actorID, projectID, taskID string) (*models.DownloadResponse, error)

	// Analytics
	Summarize(ctx context.Context, actorID string, groupID, projectID *string) (*models.FinancialSummary, error)
}

// Dependencies are the external collaborators of DefaultService.
// Storage may be nil when attachments are disabled.
type Dependencies struct {
	Hasher        auth.PasswordHasher
	Tokens        *auth.TokenManager
	Mailer        mailer.Mailer
	Storage       storage.Presigner
	Logger        utils.Logger
	ResetTokenTTL time.Duration
	MailFrom      string
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo     repository.Repository
	groups   *permission.Checker
	resolver *permission.Resolver
	hasher   auth.PasswordHasher
	tokens   *auth.TokenManager
	mailer   mailer.Mailer
	storage  storage.Presigner
	log      utils.Logger
	resetTTL time.Duration
	mailFrom string
	now      func() time.Time
}

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, deps Dependencies) *DefaultService {
	checker := permission.NewChecker(repo)

	if deps.Logger == nil {
		deps.Logger = utils.NopLogger()
	}
	if deps.Hasher == nil {
		deps.Hasher = auth.NewBcryptHasher(0)
	}
	if deps.Mailer == nil {
		deps.Mailer = mailer.NewLogMailer(deps.Logger)
	}
	if deps.ResetTokenTTL <= 0 {
		deps.ResetTokenTTL = time.Hour
	}

	return &DefaultService{
		repo:     repo,
		groups:   checker,
		resolver: permission.NewResolver(repo, checker),
		hasher:   deps.Hasher,
		tokens:   deps.Tokens,
		mailer:   deps.Mailer,
		storage:  deps.Storage,
		log:      deps.Logger.With("component", "service"),
		resetTTL: deps.ResetTokenTTL,
		mailFrom: deps.MailFrom,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ Service = (*DefaultService)(nil)
