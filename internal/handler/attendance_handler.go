package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/middleware"
	appErrors "github.com/talentra/ems-api/pkg/errors"
	"github.com/talentra/ems-api/pkg/export"
	"github.com/talentra/ems-api/pkg/response"
)

type attendanceService interface {
	MonthView(ctx context.Context, employeeID string, year int, month time.Month) (*dto.MonthViewResponse, bool, error)
	Today(ctx context.Context, employeeID string) (*dto.TodayResponse, error)
	CheckIn(ctx context.Context, employeeID string) error
	CheckOut(ctx context.Context, employeeID string) error
}

// AttendanceHandler exposes the attendance calendar and check-in endpoints.
type AttendanceHandler struct {
	service attendanceService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewAttendanceHandler creates a new handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		service: svc,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// MonthView godoc
// @Summary Month attendance view
// @Description Records, summary tiles and calendar cells for one month
// @Tags Attendance
// @Produce json
// @Param employeeId path string true "Employee ID or 'me'"
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /employees/{employeeId}/attendance [get]
func (h *AttendanceHandler) MonthView(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, cacheHit, err := h.service.MonthView(c.Request.Context(), employeeID, year, month)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, view, nil, middleware.ExtractMeta(c))
}

// Today godoc
// @Summary Today's attendance state
// @Description Check-in state for the calling employee's current day
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /attendance/today [get]
func (h *AttendanceHandler) Today(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EmployeeID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no employee record linked to this account"))
		return
	}

	res, err := h.service.Today(c.Request.Context(), claims.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// CheckIn godoc
// @Summary Check in for today
// @Description Record the caller's check-in. The new state is observed by re-fetching today's attendance.
// @Tags Attendance
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EmployeeID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no employee record linked to this account"))
		return
	}

	if err := h.service.CheckIn(c.Request.Context(), claims.EmployeeID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// CheckOut godoc
// @Summary Check out for today
// @Description Record the caller's check-out against the open check-in.
// @Tags Attendance
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EmployeeID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no employee record linked to this account"))
		return
	}

	if err := h.service.CheckOut(c.Request.Context(), claims.EmployeeID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ExportMonth godoc
// @Summary Export month attendance
// @Description Raw attendance records for one month as a CSV or PDF download
// @Tags Attendance
// @Produce text/csv
// @Param employeeId path string true "Employee ID or 'me'"
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Param format query string false "Export format: csv (default) or pdf"
// @Success 200 {string} string "File content"
// @Failure 400 {object} response.Envelope
// @Router /employees/{employeeId}/attendance/export [get]
func (h *AttendanceHandler) ExportMonth(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	view, _, err := h.service.MonthView(c.Request.Context(), employeeID, year, month)
	if err != nil {
		response.Error(c, err)
		return
	}

	headers := []string{"date", "status", "check_in", "check_out", "note"}
	rows := make([]map[string]string, 0, len(view.Records))
	for _, record := range view.Records {
		row := map[string]string{
			"date":   record.Date.Format("2006-01-02"),
			"status": string(record.Status),
		}
		if record.CheckIn != nil {
			row["check_in"] = record.CheckIn.Format("15:04")
		}
		if record.CheckOut != nil {
			row["check_out"] = record.CheckOut.Format("15:04")
		}
		if record.Note != nil {
			row["note"] = *record.Note
		}
		rows = append(rows, row)
	}

	dataset := export.Dataset{Headers: headers, Rows: rows}
	var (
		data        []byte
		contentType string
		extension   string
	)
	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		data, err = h.csv.Render(dataset)
		contentType, extension = "text/csv", "csv"
	case "pdf":
		title := fmt.Sprintf("Attendance %d-%02d", year, int(month))
		data, err = h.pdf.Render(dataset, title)
		contentType, extension = "application/pdf", "pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
		return
	}

	filename := fmt.Sprintf("attendance-%s-%d-%02d.%s", employeeID, year, int(month), extension)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

func parseYearMonth(c *gin.Context) (int, time.Month, error) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "year query parameter is required")
	}
	monthNum, err := strconv.Atoi(c.Query("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return 0, 0, appErrors.Clone(appErrors.ErrValidation, "month query parameter must be 1-12")
	}
	return year, time.Month(monthNum), nil
}
