package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/fintrack/internal/models"
)

// Project handlers

func (h *Handler) CreateProject(c *gin.Context) {
	var req models.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	project, err := h.svc.CreateProject(c.Request.Context(), actorID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, success(project))
}

func (h *Handler) GetProject(c *gin.Context) {
	project, err := h.svc.GetProject(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(project))
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var req models.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	project, err := h.svc.UpdateProject(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(project))
}

func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Project deleted"))
}

func (h *Handler) ListProjects(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	projects, err := h.svc.ListProjects(c.Request.Context(), actorID(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(projects))
}

// Task handlers

func (h *Handler) CreateTask(c *gin.Context) {
	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	task, err := h.svc.CreateTask(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, success(task))
}

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.svc.ListTasks(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(tasks))
}

func (h *Handler) UpdateTask(c *gin.Context) {
	var req models.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	task, err := h.svc.UpdateTask(c.Request.Context(), actorID(c), c.Param("id"), c.Param("taskId"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(task))
}

func (h *Handler) DeleteTask(c *gin.Context) {
	if err := h.svc.DeleteTask(c.Request.Context(), actorID(c), c.Param("id"), c.Param("taskId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Task deleted"))
}

// Attachment handlers

func (h *Handler) PresignProjectImageUpload(c *gin.Context) {
	var req models.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	resp, err := h.svc.PresignProjectImageUpload(c.Request.Context(), actorID(c), c.Param("id"), req.Filename)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) PresignProjectImageDownload(c *gin.Context) {
	resp, err := h.svc.PresignProjectImageDownload(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) PresignTaskFileUpload(c *gin.Context) {
	var req models.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	resp, err := h.svc.PresignTaskFileUpload(c.Request.Context(), actorID(c), c.Param("id"), c.Param("taskId"), req.Filename)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) PresignTaskFileDownload(c *gin.Context) {
	resp, err := h.svc.PresignTaskFileDownload(c.Request.Context(), actorID(c), c.Param("id"), c.Param("taskId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
