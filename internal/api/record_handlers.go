package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/fintrack/internal/models"
)

// Type handlers

func (h *Handler) createType(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBadRequest(c, err)
			return
		}

		category, err := h.svc.CreateType(c.Request.Context(), actorID(c), kind, req)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, success(category))
	}
}

func (h *Handler) listTypes(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := h.svc.ListTypes(c.Request.Context(), actorID(c), kind)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, success(categories))
	}
}

func (h *Handler) updateType(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBadRequest(c, err)
			return
		}

		category, err := h.svc.UpdateType(c.Request.Context(), actorID(c), kind, c.Param("id"), req)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, success(category))
	}
}

func (h *Handler) deleteType(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.svc.DeleteType(c.Request.Context(), actorID(c), kind, c.Param("id")); err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, message("Type deleted"))
	}
}

// Income and expense handlers

func (h *Handler) createTransaction(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBadRequest(c, err)
			return
		}

		txn, err := h.svc.CreateTransaction(c.Request.Context(), actorID(c), kind, req)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, success(txn))
	}
}

func (h *Handler) getTransaction(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := h.svc.GetTransaction(c.Request.Context(), actorID(c), kind, c.Param("id"))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, success(txn))
	}
}

func (h *Handler) updateTransaction(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.respondBadRequest(c, err)
			return
		}

		txn, err := h.svc.UpdateTransaction(c.Request.Context(), actorID(c), kind, c.Param("id"), req)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, success(txn))
	}
}

func (h *Handler) deleteTransaction(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.svc.DeleteTransaction(c.Request.Context(), actorID(c), kind, c.Param("id")); err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, message(fmt.Sprintf("%s deleted", kind)))
	}
}

func (h *Handler) listTransactions(kind models.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseFilter(c)
		if err != nil {
			h.respondBadRequest(c, err)
			return
		}

		txns, err := h.svc.ListTransactions(c.Request.Context(), actorID(c), kind, filter)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, success(txns))
	}
}

// Budget handlers

func (h *Handler) CreateBudget(c *gin.Context) {
	var req models.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	budget, err := h.svc.CreateBudget(c.Request.Context(), actorID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, success(budget))
}

func (h *Handler) GetBudget(c *gin.Context) {
	budget, err := h.svc.GetBudget(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(budget))
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	var req models.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBadRequest(c, err)
		return
	}

	budget, err := h.svc.UpdateBudget(c.Request.Context(), actorID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(budget))
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	if err := h.svc.DeleteBudget(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("budget deleted"))
}

func (h *Handler) ListBudgets(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.respondBadRequest(c, err)
		return
	}

	budgets, err := h.svc.ListBudgets(c.Request.Context(), actorID(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(budgets))
}

// Summary handles GET /summary?groupId=&projectId=
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.svc.Summarize(c.Request.Context(), actorID(c), queryRef(c, "groupId"), queryRef(c, "projectId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(summary))
}

// parseFilter reads typeId, projectId, startDate, endDate, offset and limit
// from the query string. Dates are RFC 3339 or YYYY-MM-DD.
func parseFilter(c *gin.Context) (models.RecordFilter, error) {
	filter := models.RecordFilter{
		TypeID:    queryRef(c, "typeId"),
		ProjectID: queryRef(c, "projectId"),
	}

	var err error
	if filter.StartDate, err = queryDate(c, "startDate"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = queryDate(c, "endDate"); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		return filter, err
	}
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryRef(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

func queryDate(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s %q", key, v)
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}
