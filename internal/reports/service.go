package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/martlaane/organizer-backend/internal/calendar"
	"github.com/martlaane/organizer-backend/internal/food"
	"github.com/martlaane/organizer-backend/internal/todo"
)

type Service interface {
	Export(ctx context.Context, reportType, format string, from, to time.Time) ([]byte, string, string, error)
}

type service struct {
	calendarSvc calendar.Service
	todoSvc     todo.Service
	foodSvc     food.Service
	exporter    ReportExporter
}

func NewService(calendarSvc calendar.Service, todoSvc todo.Service, foodSvc food.Service) Service {
	return &service{
		calendarSvc: calendarSvc,
		todoSvc:     todoSvc,
		foodSvc:     foodSvc,
		exporter:    NewReportExporter(),
	}
}

// Export gathers the rows for one report and renders it.
func (s *service) Export(ctx context.Context, reportType, format string, from, to time.Time) ([]byte, string, string, error) {
	var data ReportData

	switch reportType {
	case ReportTypeAgenda:
		rows, err := s.agendaRows(ctx, from, to)
		if err != nil {
			return nil, "", "", err
		}
		data.Agenda = rows

	case ReportTypeEvents:
		rows, err := s.eventRows(ctx)
		if err != nil {
			return nil, "", "", err
		}
		data.Events = rows

	case ReportTypeTodos:
		rows, err := s.todoRows(ctx)
		if err != nil {
			return nil, "", "", err
		}
		data.Todos = rows

	case ReportTypeMealPlan:
		rows, err := s.mealPlanRows(ctx)
		if err != nil {
			return nil, "", "", err
		}
		data.MealPlan = rows

	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}

	return s.exporter.Export(reportType, format, data)
}

func (s *service) agendaRows(ctx context.Context, from, to time.Time) ([]AgendaReportRow, error) {
	occs, err := s.calendarSvc.GetOccurrences(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]AgendaReportRow, 0, len(occs))
	for _, o := range occs {
		rows = append(rows, AgendaReportRow{
			Date:       o.Date,
			Title:      o.Title,
			Category:   o.Category,
			StartTime:  clockOf(o.StartTime),
			EndTime:    clockOf(o.EndTime),
			Recurring:  o.Recurring,
			Overridden: o.Overridden,
		})
	}
	return rows, nil
}

func (s *service) eventRows(ctx context.Context) ([]EventReportRow, error) {
	events, err := s.calendarSvc.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]EventReportRow, 0, len(events))
	for _, ev := range events {
		if ev.IsException() {
			continue
		}
		rows = append(rows, EventReportRow{
			ID:         ev.ID,
			Title:      ev.Title,
			Category:   ev.Category,
			StartDate:  ev.StartDate,
			EndDate:    ev.EndDate,
			Recurrence: ev.Recurrence,
			CreatedAt:  ev.CreatedAt,
		})
	}
	return rows, nil
}

func (s *service) todoRows(ctx context.Context) ([]TodoReportRow, error) {
	now := time.Now()
	rows := []TodoReportRow{}

	for _, tab := range []string{"active", "completed"} {
		views, err := s.todoSvc.List(ctx, tab, now)
		if err != nil {
			return nil, err
		}
		for _, v := range views {
			rows = append(rows, TodoReportRow{
				ID:        v.ID,
				Name:      v.Name,
				ByWho:     v.ByWho,
				Priority:  v.Priority,
				DueDate:   v.DueDate,
				Completed: v.Completed,
				Overdue:   v.Overdue,
			})
		}
	}
	return rows, nil
}

func (s *service) mealPlanRows(ctx context.Context) ([]MealPlanReportRow, error) {
	week, err := s.foodSvc.GetMealPlan(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]MealPlanReportRow, 0, len(week))
	for _, p := range week {
		rows = append(rows, MealPlanReportRow{
			Day:       p.Day,
			Breakfast: p.Breakfast,
			Lunch:     p.Lunch,
			Dinner:    p.Dinner,
			Snack:     p.Snack,
		})
	}
	return rows, nil
}

func clockOf(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}
