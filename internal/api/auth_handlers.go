package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/fintrack/internal/models"
)

// SignUp handles user registration
func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles user login
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.svc.ForgotPassword(c.Request.Context(), req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, message("Password reset instructions sent"))
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, message("Password has been reset"))
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(user))
}

// DeleteMe soft-deletes the caller's account
func (h *Handler) DeleteMe(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), actorID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Account deleted"))
}
