package todo

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/martlaane/organizer-backend/middleware"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// List - GET /todos?tab=active|completed|deleted
func (h *Handler) List(c *gin.Context) {
	tab := c.DefaultQuery("tab", "active")
	views, err := h.Service.List(c.Request.Context(), tab, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch todos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tab": tab, "todos": views})
}

// Create - POST /todos
func (h *Handler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.Service.Create(c.Request.Context(), req,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Update - PUT /todos/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.Service.Update(c.Request.Context(), id, req,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

// Complete - PATCH /todos/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	h.singleAction(c, h.Service.Complete)
}

// Reopen - PATCH /todos/:id/reopen
func (h *Handler) Reopen(c *gin.Context) {
	h.singleAction(c, h.Service.Reopen)
}

// Delete - DELETE /todos/:id
func (h *Handler) Delete(c *gin.Context) {
	h.singleAction(c, h.Service.Delete)
}

// Restore - PATCH /todos/:id/restore
func (h *Handler) Restore(c *gin.Context) {
	h.singleAction(c, h.Service.Restore)
}

// PermanentDelete - DELETE /todos/:id/permanent
func (h *Handler) PermanentDelete(c *gin.Context) {
	h.singleAction(c, h.Service.PermanentDelete)
}

// BulkComplete - POST /todos/bulk/complete
func (h *Handler) BulkComplete(c *gin.Context) {
	h.bulkAction(c, h.Service.Complete)
}

// BulkDelete - POST /todos/bulk/delete
func (h *Handler) BulkDelete(c *gin.Context) {
	h.bulkAction(c, h.Service.Delete)
}

// BulkRestore - POST /todos/bulk/restore
func (h *Handler) BulkRestore(c *gin.Context) {
	h.bulkAction(c, h.Service.Restore)
}

// BulkPermanentDelete - POST /todos/bulk/permanent-delete
func (h *Handler) BulkPermanentDelete(c *gin.Context) {
	h.bulkAction(c, h.Service.PermanentDelete)
}

// Reorder - POST /todos/reorder
func (h *Handler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Service.Reorder(c.Request.Context(), req.TodoID, req.NewPosition,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reorder todos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) singleAction(c *gin.Context, fn func(ctx context.Context, ids []uint, userID uint, ip, requestID string) error) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.runAction(c, []uint{id}, fn)
}

func (h *Handler) bulkAction(c *gin.Context, fn func(ctx context.Context, ids []uint, userID uint, ip, requestID string) error) {
	var req BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.runAction(c, req.IDs, fn)
}

func (h *Handler) runAction(c *gin.Context, ids []uint, fn func(ctx context.Context, ids []uint, userID uint, ip, requestID string) error) {
	err := fn(c.Request.Context(), ids,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update todos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo ID"})
		return 0, false
	}
	return uint(id), true
}
