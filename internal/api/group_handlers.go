package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/fintrack/internal/models"
)

func (h *Handler) CreateGroup(c *gin.Context) {
	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	group, err := h.svc.CreateGroup(c.Request.Context(), actorID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.GroupResponse{Status: "success", Group: group})
}

func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.svc.ListGroups(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(groups))
}

func (h *Handler) GetGroup(c *gin.Context) {
	group, err := h.svc.GetGroup(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.GroupResponse{Status: "success", Group: group})
}

func (h *Handler) DeleteGroup(c *gin.Context) {
	if err := h.svc.DeleteGroup(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Group deleted"))
}

// CheckPermission answers whether the caller holds ?level= (default view) on the group
func (h *Handler) CheckPermission(c *gin.Context) {
	groupID := c.Param("id")
	level := models.Permission(c.DefaultQuery("level", string(models.PermissionView)))

	allowed, err := h.svc.CheckGroupPermission(c.Request.Context(), actorID(c), groupID, level)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PermissionResponse{
		Status:  "success",
		GroupID: groupID,
		Level:   level,
		Allowed: allowed,
	})
}

func (h *Handler) AddMember(c *gin.Context) {
	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	member, err := h.svc.AddMember(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, success(member))
}

func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.svc.ListMembers(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(members))
}

func (h *Handler) RemoveMember(c *gin.Context) {
	if err := h.svc.RemoveMember(c.Request.Context(), actorID(c), c.Param("id"), c.Param("userId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Member removed"))
}

func (h *Handler) CreateShare(c *gin.Context) {
	var req models.CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	share, err := h.svc.CreateShare(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, success(share))
}

func (h *Handler) ListShares(c *gin.Context) {
	shares, err := h.svc.ListShares(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(shares))
}

func (h *Handler) DeleteShare(c *gin.Context) {
	if err := h.svc.DeleteShare(c.Request.Context(), actorID(c), c.Param("id"), c.Param("userId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Share revoked"))
}
