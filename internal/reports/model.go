package reports

import "time"

// Report types supported by the exporter.
const (
	ReportTypeAgenda   = "agenda"
	ReportTypeEvents   = "events"
	ReportTypeTodos    = "todos"
	ReportTypeMealPlan = "meal_plan"
)

// Export formats.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// AgendaReportRow is one materialized occurrence in the agenda export.
type AgendaReportRow struct {
	Date       time.Time
	Title      string
	Category   string
	StartTime  string
	EndTime    string
	Recurring  bool
	Overridden bool
}

// EventReportRow is one series row in the events export.
type EventReportRow struct {
	ID         uint
	Title      string
	Category   string
	StartDate  time.Time
	EndDate    *time.Time
	Recurrence string
	CreatedAt  time.Time
}

// TodoReportRow is one item in the todos export.
type TodoReportRow struct {
	ID        uint
	Name      string
	ByWho     string
	Priority  string
	DueDate   *time.Time
	Completed bool
	Overdue   bool
}

// MealPlanReportRow is one weekday of the meal-plan export.
type MealPlanReportRow struct {
	Day       string
	Breakfast string
	Lunch     string
	Dinner    string
	Snack     string
}

// ReportData bundles the rows a single export can draw from.
type ReportData struct {
	Agenda   []AgendaReportRow
	Events   []EventReportRow
	Todos    []TodoReportRow
	MealPlan []MealPlanReportRow
}
