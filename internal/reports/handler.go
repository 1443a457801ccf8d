package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// ExportAgenda - GET /reports/agenda?from=&to=&format=
//
// The from/to window defaults to the current month.
func (h *Handler) ExportAgenda(c *gin.Context) {
	h.export(c, ReportTypeAgenda, FormatPDF)
}

// ExportEvents - GET /reports/events?format=
func (h *Handler) ExportEvents(c *gin.Context) {
	h.export(c, ReportTypeEvents, FormatExcel)
}

// ExportMealPlan - GET /reports/meal-plan?format=
func (h *Handler) ExportMealPlan(c *gin.Context) {
	h.export(c, ReportTypeMealPlan, FormatExcel)
}

// ExportTodos - GET /reports/todos?format=
func (h *Handler) ExportTodos(c *gin.Context) {
	h.export(c, ReportTypeTodos, FormatCSV)
}

func (h *Handler) export(c *gin.Context, reportType, defaultFormat string) {
	format := c.DefaultQuery("format", defaultFormat)

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' date, expected YYYY-MM-DD"})
			return
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' date, expected YYYY-MM-DD"})
			return
		}
		to = t
	}

	data, filename, contentType, err := h.Service.Export(c.Request.Context(), reportType, format, from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
