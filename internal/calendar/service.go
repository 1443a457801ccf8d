package calendar

import (
	"context"
	"time"

	"github.com/martlaane/organizer-backend/internal/auditlog"
)

// Service is the calendar's application surface: window queries over
// materialized occurrences plus scoped series mutations.
type Service interface {
	GetOccurrences(ctx context.Context, from, to time.Time) ([]Occurrence, error)
	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id uint) (*Event, error)
	AddSeries(ctx context.Context, in EventInput, userID uint, ip, requestID string) (*Event, error)
	EditSeries(ctx context.Context, seriesID uint, instanceDate time.Time, scope Scope, in EventInput, userID uint, ip, requestID string) (*Event, error)
	DeleteSeries(ctx context.Context, seriesID uint, instanceDate time.Time, scope Scope, userID uint, ip, requestID string) error
	ListExceptions(ctx context.Context, seriesID uint) ([]time.Time, error)
}

type service struct {
	store    Store
	editor   *Editor
	auditSvc auditlog.Service
}

func NewService(store Store, auditSvc auditlog.Service) Service {
	return &service{
		store:    store,
		editor:   NewEditor(store),
		auditSvc: auditSvc,
	}
}

// GetOccurrences materializes every occurrence inside [from, to].
func (s *service) GetOccurrences(ctx context.Context, from, to time.Time) ([]Occurrence, error) {
	if DateOnly(to).Before(DateOnly(from)) {
		return nil, &ValidationError{Field: "to", Reason: "window end precedes window start"}
	}
	events, err := s.store.ListActive(ctx, from, to)
	if err != nil {
		return nil, err
	}
	occs, err := Materialize(events, from, to)
	if err != nil {
		return nil, err
	}
	if occs == nil {
		occs = []Occurrence{}
	}
	return occs, nil
}

// ListEvents returns the raw series rows, for edit forms and exports.
func (s *service) ListEvents(ctx context.Context) ([]Event, error) {
	return s.store.ListAll(ctx)
}

func (s *service) GetEvent(ctx context.Context, id uint) (*Event, error) {
	return s.store.Get(ctx, id)
}

// AddSeries validates and persists a new series.
func (s *service) AddSeries(ctx context.Context, in EventInput, userID uint, ip, requestID string) (*Event, error) {
	if err := in.validate(); err != nil {
		s.logAudit(ctx, userID, "EVENT_CREATED", map[string]interface{}{"title": in.Title, "error": err.Error()}, ip, requestID, "FAILURE")
		return nil, err
	}

	ev := &Event{CreatedBy: userID}
	applyInput(ev, in)
	if err := s.store.Insert(ctx, ev); err != nil {
		s.logAudit(ctx, userID, "EVENT_CREATED", map[string]interface{}{"title": in.Title, "error": err.Error()}, ip, requestID, "FAILURE")
		return nil, err
	}

	s.logAudit(ctx, userID, "EVENT_CREATED", map[string]interface{}{
		"event_id": ev.ID,
		"title":    ev.Title,
		"start":    FormatDate(ev.StartDate),
	}, ip, requestID, "SUCCESS")
	return ev, nil
}

// EditSeries applies a scoped edit through the editor.
func (s *service) EditSeries(ctx context.Context, seriesID uint, instanceDate time.Time, scope Scope, in EventInput, userID uint, ip, requestID string) (*Event, error) {
	ev, err := s.editor.Edit(ctx, seriesID, instanceDate, scope, in, userID)
	details := map[string]interface{}{
		"series_id": seriesID,
		"scope":     string(scope),
		"instance":  FormatDate(DateOnly(instanceDate)),
	}
	if err != nil {
		details["error"] = err.Error()
		s.logAudit(ctx, userID, "EVENT_EDITED", details, ip, requestID, "FAILURE")
		return nil, err
	}
	s.logAudit(ctx, userID, "EVENT_EDITED", details, ip, requestID, "SUCCESS")
	return ev, nil
}

// DeleteSeries applies a scoped delete through the editor.
func (s *service) DeleteSeries(ctx context.Context, seriesID uint, instanceDate time.Time, scope Scope, userID uint, ip, requestID string) error {
	err := s.editor.Delete(ctx, seriesID, instanceDate, scope)
	details := map[string]interface{}{
		"series_id": seriesID,
		"scope":     string(scope),
		"instance":  FormatDate(DateOnly(instanceDate)),
	}
	if err != nil {
		details["error"] = err.Error()
		s.logAudit(ctx, userID, "EVENT_DELETED", details, ip, requestID, "FAILURE")
		return err
	}
	s.logAudit(ctx, userID, "EVENT_DELETED", details, ip, requestID, "SUCCESS")
	return nil
}

// ListExceptions returns a series' suppressed occurrence dates.
func (s *service) ListExceptions(ctx context.Context, seriesID uint) ([]time.Time, error) {
	return NewExceptionLedger(s.store).List(ctx, seriesID)
}

func (s *service) logAudit(ctx context.Context, userID uint, action string, details map[string]interface{}, ip, requestID, status string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.LogAction(ctx, &userID, action, details, ip, requestID, status)
}
