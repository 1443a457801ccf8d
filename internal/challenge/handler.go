package challenge

import (
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

// List - GET /challenges
func (h *Handler) List(c *gin.Context) {
	challenges, err := h.Service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch challenges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

// Get - GET /challenges/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ch, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch challenge"})
		return
	}
	c.JSON(http.StatusOK, ch)
}

// Create - POST /challenges
func (h *Handler) Create(c *gin.Context) {
	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch, err := h.Service.Create(c.Request.Context(), req,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ch)
}

// Update - PUT /challenges/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch, err := h.Service.Update(c.Request.Context(), id, req,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ch)
}

// Delete - DELETE /challenges/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.Service.Delete(c.Request.Context(), id,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete challenge"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "challenge deleted"})
}

// PermanentDelete - DELETE /challenges/:id/permanent
func (h *Handler) PermanentDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := h.Service.PermanentDelete(c.Request.Context(), id,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete challenge"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "challenge permanently deleted"})
}

// RefreshCompleted - POST /challenges/refresh-completed
func (h *Handler) RefreshCompleted(c *gin.Context) {
	if err := h.Service.RefreshCompleted(c.Request.Context(), time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh challenges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "completed challenges updated"})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge ID"})
		return 0, false
	}
	return uint(id), true
}
