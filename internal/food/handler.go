package food

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/martlaane/organizer-backend/middleware"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// ListFoods - GET /foods?category=&type= ("all" matches everything)
func (h *Handler) ListFoods(c *gin.Context) {
	foods, err := h.Service.ListFoods(c.Request.Context(),
		c.DefaultQuery("category", "all"),
		c.DefaultQuery("type", "all"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch foods"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

// AddFood - POST /foods
func (h *Handler) AddFood(c *gin.Context) {
	var req FoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := h.Service.AddFood(c.Request.Context(), req,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add food"})
		return
	}
	c.JSON(http.StatusCreated, f)
}

// DeleteFood - DELETE /foods/:id
func (h *Handler) DeleteFood(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food ID"})
		return
	}

	err = h.Service.DeleteFood(c.Request.Context(), uint(id),
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete food"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "food deleted"})
}

// GetMealPlan - GET /meal-plan
func (h *Handler) GetMealPlan(c *gin.Context) {
	week, err := h.Service.GetMealPlan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch meal plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal_plan": week})
}

// SaveMealPlan - PUT /meal-plan
func (h *Handler) SaveMealPlan(c *gin.Context) {
	var req SaveMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Service.SaveMealPlan(c.Request.Context(), req,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal plan updated"})
}
