package calendar

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/martlaane/organizer-backend/middleware"
)

const timeLayout = "15:04"

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// EventRequest is the write payload for series creates and edits.
type EventRequest struct {
	Title              string `json:"title" binding:"required"`
	Description        string `json:"description"`
	Category           string `json:"category" binding:"required"`
	StartDate          string `json:"start_date" binding:"required"`
	EndDate            string `json:"end_date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	Recurrence         string `json:"recurrence"`
	RecurrenceInterval int    `json:"recurrence_interval"`
	RecurrenceWeekdays []int  `json:"recurrence_weekdays"`
	RecurrenceEnd      string `json:"recurrence_end"`
	RecurrenceCount    int    `json:"recurrence_count"`
	RecurrenceUntil    string `json:"recurrence_until"`
}

// EditRequest targets one occurrence of a series at a scope.
type EditRequest struct {
	EventRequest
	Scope        string `json:"scope"`
	InstanceDate string `json:"instance_date"`
}

// DeleteRequest selects the scope and slot of a delete.
type DeleteRequest struct {
	Scope        string `json:"scope"`
	InstanceDate string `json:"instance_date"`
}

// GetOccurrences - GET /calendar/occurrences?from=&to=
func (h *Handler) GetOccurrences(c *gin.Context) {
	from, err := ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing 'from' date, expected YYYY-MM-DD"})
		return
	}
	to, err := ParseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing 'to' date, expected YYYY-MM-DD"})
		return
	}

	occs, err := h.Service.GetOccurrences(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"occurrences": occs, "from": FormatDate(from), "to": FormatDate(to)})
}

// ListEvents - GET /calendar/events
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.Service.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent - GET /calendar/events/:id
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ev, err := h.Service.GetEvent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// CreateEvent - POST /calendar/events
func (h *Handler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	ev, err := h.Service.AddSeries(
		c.Request.Context(), in,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// UpdateEvent - PUT /calendar/events/:id
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}
	scope, instanceDate, err := parseTarget(req.Scope, req.InstanceDate)
	if err != nil {
		respondError(c, err)
		return
	}

	ev, err := h.Service.EditSeries(
		c.Request.Context(), id, instanceDate, scope, in,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// DeleteEvent - DELETE /calendar/events/:id
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Scope == "" {
		req.Scope = c.DefaultQuery("scope", string(ScopeAll))
	}
	if req.InstanceDate == "" {
		req.InstanceDate = c.Query("instance_date")
	}

	scope, err := ParseScope(req.Scope)
	if err != nil {
		respondError(c, err)
		return
	}
	var instanceDate time.Time
	if req.InstanceDate != "" {
		if instanceDate, err = ParseDate(req.InstanceDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid instance_date, expected YYYY-MM-DD"})
			return
		}
	} else if scope != ScopeAll {
		c.JSON(http.StatusBadRequest, gin.H{"error": "instance_date is required for single and future scopes"})
		return
	}

	err = h.Service.DeleteSeries(
		c.Request.Context(), id, instanceDate, scope,
		middleware.GetUserIDFromContext(c),
		middleware.GetIPFromContext(c),
		middleware.GetRequestIDFromContext(c),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// ListExceptions - GET /calendar/events/:id/exceptions
func (h *Handler) ListExceptions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	dates, err := h.Service.ListExceptions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, FormatDate(d))
	}
	c.JSON(http.StatusOK, gin.H{"exceptions": out})
}

func (req EventRequest) toInput() (EventInput, error) {
	start, err := ParseDate(req.StartDate)
	if err != nil {
		return EventInput{}, &ValidationError{Field: "start_date", Reason: "expected YYYY-MM-DD"}
	}
	in := EventInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		StartDate:   start,
	}
	if req.EndDate != "" {
		end, err := ParseDate(req.EndDate)
		if err != nil {
			return EventInput{}, &ValidationError{Field: "end_date", Reason: "expected YYYY-MM-DD"}
		}
		in.EndDate = &end
	}
	if in.StartTime, err = parseClock("start_time", req.StartTime); err != nil {
		return EventInput{}, err
	}
	if in.EndTime, err = parseClock("end_time", req.EndTime); err != nil {
		return EventInput{}, err
	}

	in.Rule, err = req.toRule()
	if err != nil {
		return EventInput{}, err
	}
	return in, nil
}

// toRule normalizes the wire fields into a rule: defaults are filled in
// and fields that the chosen terminator does not use are cleared before
// validation.
func (req EventRequest) toRule() (Rule, error) {
	rule := Rule{
		Freq:     Frequency(req.Recurrence),
		Interval: req.RecurrenceInterval,
		Weekdays: req.RecurrenceWeekdays,
		End:      Terminator(req.RecurrenceEnd),
		Count:    req.RecurrenceCount,
	}
	if rule.Freq == "" {
		rule.Freq = FreqNone
	}
	if rule.Freq == FreqNone {
		return Rule{Freq: FreqNone}, nil
	}
	if rule.Interval == 0 {
		rule.Interval = 1
	}
	if rule.End == "" {
		rule.End = EndNever
	}
	switch rule.End {
	case EndNever:
		rule.Count = 0
	case EndOnDate:
		rule.Count = 0
		if req.RecurrenceUntil == "" {
			return Rule{}, &ValidationError{Field: "recurrence_until", Reason: "required when recurrence_end is on-date"}
		}
		until, err := ParseDate(req.RecurrenceUntil)
		if err != nil {
			return Rule{}, &ValidationError{Field: "recurrence_until", Reason: "expected YYYY-MM-DD"}
		}
		rule.Until = &until
	}
	return rule, nil
}

func parseClock(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return nil, &ValidationError{Field: field, Reason: "expected HH:MM"}
	}
	return &t, nil
}

// parseTarget resolves the scope and targeted occurrence of an edit.
// Scope all needs no instance date; the other scopes require one. The
// payload start date is never used as the target, since a single-scope
// edit may move the occurrence away from the slot it replaces.
func parseTarget(scopeStr, instanceStr string) (Scope, time.Time, error) {
	scope, err := ParseScope(scopeStr)
	if err != nil {
		return "", time.Time{}, err
	}
	if instanceStr == "" {
		if scope == ScopeAll {
			return scope, time.Time{}, nil
		}
		return "", time.Time{}, &ValidationError{Field: "instance_date", Reason: "required for single and future scopes"}
	}
	date, err := ParseDate(instanceStr)
	if err != nil {
		return "", time.Time{}, &ValidationError{Field: "instance_date", Reason: "expected YYYY-MM-DD"}
	}
	return scope, date, nil
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return 0, false
	}
	return uint(id), true
}

// respondError maps the calendar error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *ValidationError
	var ierr *InvalidInstanceError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
	case errors.As(err, &ierr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ierr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
