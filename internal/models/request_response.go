package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request models
type SignUpRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type CreateGroupRequest struct {
	Name        string  `json:"name" binding:"required,max=50"`
	Description *string `json:"description" binding:"omitempty,max=200"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type CreateShareRequest struct {
	UserID     string     `json:"userId" binding:"required"`
	Permission Permission `json:"permission" binding:"required,oneof=view edit"`
}

type TypeRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// TransactionRequest creates or replaces an income or an expense
type TransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	TypeID      string          `json:"typeId" binding:"required"`
	Description *string         `json:"description" binding:"omitempty,max=200"`
	Date        *time.Time      `json:"date"`
	GroupID     *string         `json:"groupId"`
	ProjectID   *string         `json:"projectId"`
}

type BudgetRequest struct {
	CategoryID string          `json:"categoryId" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Period     BudgetPeriod    `json:"period" binding:"omitempty,oneof=daily weekly monthly yearly"`
	GroupID    *string         `json:"groupId"`
	ProjectID  *string         `json:"projectId"`
}

type ProjectRequest struct {
	Name        string     `json:"name" binding:"required,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=500"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	ImageRef    *string    `json:"imageRef" binding:"omitempty,max=255"`
	GroupID     *string    `json:"groupId"`
}

type TaskRequest struct {
	Name       string     `json:"name" binding:"required,max=100"`
	Status     TaskStatus `json:"status" binding:"omitempty,oneof=pending in_progress done"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	FileRef    *string    `json:"fileRef" binding:"omitempty,max=255"`
	AssigneeID *string    `json:"assigneeId"`
}

// UploadRequest names the file a presigned upload URL is requested for
type UploadRequest struct {
	Filename string `json:"filename" binding:"required,max=255"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	UserID    string `json:"userId,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"token,omitempty"`
	TokenType string `json:"tokenType,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type GroupResponse struct {
	Status string `json:"status"`
	Group  *Group `json:"group"`
}

// DataResponse wraps a single entity or a list
type DataResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type PermissionResponse struct {
	Status  string     `json:"status"`
	GroupID string     `json:"groupId"`
	Level   Permission `json:"level"`
	Allowed bool       `json:"allowed"`
}

type UploadResponse struct {
	Status    string    `json:"status"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type DownloadResponse struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
