package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/fintrack/internal/common"
	"github.com/rongwang/fintrack/internal/models"
	"github.com/rongwang/fintrack/internal/storage"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{common.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{common.ErrUnauthorized, http.StatusForbidden, "FORBIDDEN"},
	{common.ErrInvalidReference, http.StatusBadRequest, "INVALID_REFERENCE"},
	{common.ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
	{common.ErrConstraintViolation, http.StatusConflict, "CONFLICT"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
	{storage.ErrDisabled, http.StatusServiceUnavailable, "STORAGE_DISABLED"},
}

// statusFor maps a service error to its HTTP status and error code
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// respondError writes the error body. Internal errors are logged and their
// detail is not sent to the client.
func (h *Handler) respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "unexpected error", "path", c.FullPath(), "error", err)
		msg = "Internal server error"
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: msg,
	})
}

func (h *Handler) respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "INVALID_REQUEST",
		Message: err.Error(),
	})
}
