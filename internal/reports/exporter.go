package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportExporter renders report data into a downloadable document.
// It returns the document bytes, a filename and a content type.
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch reportType {
	case ReportTypeAgenda:
		return e.exportAgendaByFormat(format, timestamp, data.Agenda)
	case ReportTypeEvents:
		return e.exportEventsByFormat(format, timestamp, data.Events)
	case ReportTypeTodos:
		return e.exportTodosByFormat(format, timestamp, data.Todos)
	case ReportTypeMealPlan:
		return e.exportMealPlanByFormat(format, timestamp, data.MealPlan)
	default:
		return nil, "", "", fmt.Errorf("unsupported report type: %s", reportType)
	}
}

//// ============================
/// AGENDA EXPORTS
//// ============================

func (e *reportExporter) exportAgendaByFormat(format, timestamp string, rows []AgendaReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatPDF:
		data, err := e.exportAgendaPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("agenda_%s.pdf", timestamp), "application/pdf", nil

	case FormatCSV:
		data, err := e.exportAgendaCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("agenda_%s.csv", timestamp), "text/csv", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for agenda: %s", format)
	}
}

func (e *reportExporter) exportAgendaPDF(rows []AgendaReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Agenda")
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 10)
	widths := []float64{25, 70, 30, 20, 20, 25}
	headers := []string{"Date", "Title", "Category", "Start", "End", "Repeats"}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		repeats := ""
		if r.Recurring {
			repeats = "yes"
		}
		if r.Overridden {
			repeats = "moved"
		}

		title := r.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}

		pdf.CellFormat(widths[0], 6, r.Date.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.StartTime, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.EndTime, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, repeats, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportAgendaCSV(rows []AgendaReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Date", "Title", "Category", "Start", "End", "Recurring", "Overridden"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.Date.Format("2006-01-02"),
			r.Title,
			r.Category,
			r.StartTime,
			r.EndTime,
			strconv.FormatBool(r.Recurring),
			strconv.FormatBool(r.Overridden),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// EVENTS EXPORTS
//// ============================

func (e *reportExporter) exportEventsByFormat(format, timestamp string, rows []EventReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportEventsExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportEventsCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("events_report_%s.csv", timestamp), "text/csv", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for events: %s", format)
	}
}

func (e *reportExporter) exportEventsExcel(rows []EventReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Events"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"ID", "Title", "Category", "Start Date", "End Date", "Recurrence", "Created At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		endDate := ""
		if r.EndDate != nil {
			endDate = r.EndDate.Format("2006-01-02")
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.StartDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), endDate)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Recurrence)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportEventsCSV(rows []EventReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Category", "Start Date", "End Date", "Recurrence", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		endDate := ""
		if r.EndDate != nil {
			endDate = r.EndDate.Format("2006-01-02")
		}

		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Title,
			r.Category,
			r.StartDate.Format("2006-01-02"),
			endDate,
			r.Recurrence,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// TODOS EXPORTS
//// ============================

func (e *reportExporter) exportTodosByFormat(format, timestamp string, rows []TodoReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatCSV:
		data, err := e.exportTodosCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("todos_report_%s.csv", timestamp), "text/csv", nil

	case FormatExcel:
		data, err := e.exportTodosExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("todos_report_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for todos: %s", format)
	}
}

func (e *reportExporter) exportTodosCSV(rows []TodoReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "By Who", "Priority", "Due Date", "Completed", "Overdue"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		dueDate := ""
		if r.DueDate != nil {
			dueDate = r.DueDate.Format("2006-01-02")
		}

		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Name,
			r.ByWho,
			r.Priority,
			dueDate,
			strconv.FormatBool(r.Completed),
			strconv.FormatBool(r.Overdue),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportTodosExcel(rows []TodoReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Todos"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"ID", "Name", "By Who", "Priority", "Due Date", "Completed", "Overdue"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		dueDate := ""
		if r.DueDate != nil {
			dueDate = r.DueDate.Format("2006-01-02")
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.ByWho)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Priority)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), dueDate)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Completed)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Overdue)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

//// ============================
/// MEAL PLAN EXPORTS
//// ============================

func (e *reportExporter) exportMealPlanByFormat(format, timestamp string, rows []MealPlanReportRow) ([]byte, string, string, error) {
	switch format {
	case FormatExcel:
		data, err := e.exportMealPlanExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("meal_plan_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatCSV:
		data, err := e.exportMealPlanCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("meal_plan_%s.csv", timestamp), "text/csv", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format for meal plan: %s", format)
	}
}

func (e *reportExporter) exportMealPlanExcel(rows []MealPlanReportRow) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Meal Plan"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"Day", "Breakfast", "Lunch", "Dinner", "Snack"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.Day)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Breakfast)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Lunch)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Dinner)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Snack)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportMealPlanCSV(rows []MealPlanReportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Day", "Breakfast", "Lunch", "Dinner", "Snack"}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{r.Day, r.Breakfast, r.Lunch, r.Dinner, r.Snack}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
