package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/service"
	"github.com/rongwang/fintrack/internal/utils"
)

// Handler handles HTTP requests
type Handler struct {
	svc service.Service
	log utils.Logger
}

// NewHandler creates a new Handler
func NewHandler(svc service.Service, log utils.Logger) *Handler {
	if log == nil {
		log = utils.NopLogger()
	}
	return &Handler{svc: svc, log: log.With("component", "api")}
}

// SetupRoutes registers every route under /api
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(RequestLogger(h.log))

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", h.SignUp)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/forgot-password", h.ForgotPassword)
		authRoutes.POST("/reset-password", h.ResetPassword)
	}

	protected := api.Group("")
	protected.Use(AuthMiddleware(h.svc))

	users := protected.Group("/users")
	{
		users.GET("/me", h.GetMe)
		users.DELETE("/me", h.DeleteMe)
	}

	groups := protected.Group("/groups")
	{
		groups.POST("", h.CreateGroup)
		groups.GET("", h.ListGroups)
		groups.GET("/:id", h.GetGroup)
		groups.DELETE("/:id", h.DeleteGroup)
		groups.GET("/:id/permission", h.CheckPermission)

		groups.POST("/:id/members", h.AddMember)
		groups.GET("/:id/members", h.ListMembers)
		groups.DELETE("/:id/members/:userId", h.RemoveMember)

		groups.POST("/:id/shares", h.CreateShare)
		groups.GET("/:id/shares", h.ListShares)
		groups.DELETE("/:id/shares/:userId", h.DeleteShare)
	}

	h.typeRoutes(protected.Group("/income-types"), models.KindIncome)
	h.typeRoutes(protected.Group("/expense-types"), models.KindExpense)
	h.typeRoutes(protected.Group("/budget-categories"), models.KindBudget)

	h.transactionRoutes(protected.Group("/incomes"), models.KindIncome)
	h.transactionRoutes(protected.Group("/expenses"), models.KindExpense)

	budgets := protected.Group("/budgets")
	{
		budgets.POST("", h.CreateBudget)
		budgets.GET("", h.ListBudgets)
		budgets.GET("/:id", h.GetBudget)
		budgets.PUT("/:id", h.UpdateBudget)
		budgets.DELETE("/:id", h.DeleteBudget)
	}

	projects := protected.Group("/projects")
	{
		projects.POST("", h.CreateProject)
		projects.GET("", h.ListProjects)
		projects.GET("/:id", h.GetProject)
		projects.PUT("/:id", h.UpdateProject)
		projects.DELETE("/:id", h.DeleteProject)
		projects.POST("/:id/image", h.PresignProjectImageUpload)
		projects.GET("/:id/image", h.PresignProjectImageDownload)

		projects.POST("/:id/tasks", h.CreateTask)
		projects.GET("/:id/tasks", h.ListTasks)
		projects.PUT("/:id/tasks/:taskId", h.UpdateTask)
		projects.DELETE("/:id/tasks/:taskId", h.DeleteTask)
		projects.POST("/:id/tasks/:taskId/file", h.PresignTaskFileUpload)
		projects.GET("/:id/tasks/:taskId/file", h.PresignTaskFileDownload)
	}

	protected.GET("/summary", h.Summary)
}

func (h *Handler) typeRoutes(rg *gin.RouterGroup, kind models.RecordKind) {
	rg.POST("", h.createType(kind))
	rg.GET("", h.listTypes(kind))
	rg.PUT("/:id", h.updateType(kind))
	rg.DELETE("/:id", h.deleteType(kind))
}

func (h *Handler) transactionRoutes(rg *gin.RouterGroup, kind models.RecordKind) {
	rg.POST("", h.createTransaction(kind))
	rg.GET("", h.listTransactions(kind))
	rg.GET("/:id", h.getTransaction(kind))
	rg.PUT("/:id", h.updateTransaction(kind))
	rg.DELETE("/:id", h.deleteTransaction(kind))
}

func success(data any) models.DataResponse {
	return models.DataResponse{Status: "success", Data: data}
}

func message(text string) models.MessageResponse {
	return models.MessageResponse{Status: "success", Message: text}
}
