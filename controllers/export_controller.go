package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"lasalleserve/app"
	"lasalleserve/db"
	"lasalleserve/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ExportController struct{ *Srv }

func NewExportController(s *Srv) *ExportController { return &ExportController{Srv: s} }

// Loans writes the loan register as an XLSX workbook.
func (ec *ExportController) Loans(c *gin.Context) {
	loans, err := ec.Repo.ListLoans(c.Request.Context(), db.LoanQuery{
		ViewerID:   app.UserIDFrom(c),
		ViewerRole: app.RoleFrom(c),
		Status:     c.DefaultQuery("status", "all"),
		AcademicYr: c.Query("academicYear"),
		Semester:   c.DefaultQuery("semester", "all"),
	})
	if err != nil {
		ec.fail(c, err)
		return
	}

	rows := make([][]interface{}, 0, len(loans)+1)
	rows = append(rows, []interface{}{
		"No", "Borrower", "Room", "Facilities", "Purpose",
		"Start Date", "End Date", "Time", "Status",
		"Academic Year", "Semester", "Returned At",
	})
	for i, l := range loans {
		rows = append(rows, []interface{}{
			i + 1,
			borrowerName(&l),
			roomName(&l),
			formatFacilities(l.Items),
			l.Purpose,
			formatDate(l.StartDate),
			formatDate(l.EndDate),
			l.StartTime + "-" + l.EndTime,
			string(l.Status),
			l.AcademicYear,
			l.Semester,
			formatDateTimePtr(l.ReturnedAt),
		})
	}

	ec.writeWorkbook(c, "Loans", "loans.xlsx", rows)
}

// Returns writes the completed-loan history.
func (ec *ExportController) Returns(c *gin.Context) {
	loans, err := ec.Repo.ListReturnHistory(c.Request.Context(), db.ReturnHistoryQuery{
		ViewerID:     app.UserIDFrom(c),
		ViewerRole:   app.RoleFrom(c),
		AcademicYear: c.Query("academicYear"),
		Semester:     c.DefaultQuery("semester", "all"),
	})
	if err != nil {
		ec.fail(c, err)
		return
	}

	rows := make([][]interface{}, 0, len(loans)+1)
	rows = append(rows, []interface{}{
		"No", "Borrower", "Room", "Returned Items", "Returned At",
		"Academic Year", "Semester", "Notes",
	})
	for i, l := range loans {
		rows = append(rows, []interface{}{
			i + 1,
			borrowerName(&l),
			roomName(&l),
			formatReturnedItems(l.Items),
			formatDateTimePtr(l.ReturnedAt),
			l.AcademicYear,
			l.Semester,
			l.ReturnNotes,
		})
	}

	ec.writeWorkbook(c, "Returns", "returns.xlsx", rows)
}

// Reports writes the damage-report register.
func (ec *ExportController) Reports(c *gin.Context) {
	reports, err := ec.Repo.ListDamageReports(c.Request.Context(), db.ReportQuery{
		ViewerID:   app.UserIDFrom(c),
		ViewerRole: app.RoleFrom(c),
		Status:     c.DefaultQuery("status", "all"),
		Priority:   c.DefaultQuery("priority", "all"),
	})
	if err != nil {
		ec.fail(c, err)
		return
	}

	rows := make([][]interface{}, 0, len(reports)+1)
	rows = append(rows, []interface{}{
		"No", "Asset", "Reporter", "Description", "Priority",
		"Status", "Reported At", "Notes",
	})
	for i, r := range reports {
		asset, reporter := "", ""
		if r.Asset != nil {
			asset = r.Asset.Name
		}
		if r.Reporter != nil {
			reporter = r.Reporter.Name
		}
		rows = append(rows, []interface{}{
			i + 1, asset, reporter, r.Description, r.Priority,
			r.Status, formatDate(r.CreatedAt), r.Notes,
		})
	}

	ec.writeWorkbook(c, "Damage Reports", "damage-reports.xlsx", rows)
}

func (ec *ExportController) writeWorkbook(c *gin.Context, sheet, filename string, rows [][]interface{}) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheet)

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			ec.fail(c, err)
			return
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			ec.fail(c, err)
			return
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(c.Writer); err != nil {
		ec.Log.Error("export write failed", zap.Error(err))
	}
	c.Status(http.StatusOK)
}

// ---- formatting helpers (dd/mm/yyyy, "Name (2x)" lists) ----

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

func formatDateTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

func formatFacilities(items []models.LoanItem) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(items))
	for _, li := range items {
		name := li.AssetID
		if li.Asset != nil {
			name = li.Asset.Name
		}
		parts = append(parts, fmt.Sprintf("%s (%dx)", name, li.Quantity))
	}
	return strings.Join(parts, ", ")
}

func formatReturnedItems(items []models.LoanItem) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(items))
	for _, li := range items {
		name := li.AssetID
		if li.Asset != nil {
			name = li.Asset.Name
		}
		qty := li.Quantity
		if li.ReturnedQuantity != nil {
			qty = *li.ReturnedQuantity
		}
		cond := ""
		if li.ReturnedCondition != nil {
			cond = ", " + *li.ReturnedCondition
		}
		parts = append(parts, fmt.Sprintf("%s (%dx%s)", name, qty, cond))
	}
	return strings.Join(parts, ", ")
}

func borrowerName(l *models.Loan) string {
	if l.Borrower != nil {
		return l.Borrower.Name
	}
	return l.BorrowerID
}

func roomName(l *models.Loan) string {
	if l.Room != nil {
		return l.Room.Name
	}
	return "-"
}
