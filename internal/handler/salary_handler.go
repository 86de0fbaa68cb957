package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/service"
	appErrors "github.com/talentra/ems-api/pkg/errors"
	"github.com/talentra/ems-api/pkg/response"
)

// SalaryHandler exposes salary history and payslip export endpoints.
type SalaryHandler struct {
	service *service.SalaryService
}

// NewSalaryHandler creates a new handler.
func NewSalaryHandler(svc *service.SalaryService) *SalaryHandler {
	return &SalaryHandler{service: svc}
}

// History godoc
// @Summary Salary history
// @Tags Salary
// @Produce json
// @Param employeeId path string true "Employee ID or 'me'"
// @Success 200 {object} response.Envelope
// @Router /employees/{employeeId}/salary [get]
func (h *SalaryHandler) History(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	records, err := h.service.History(c.Request.Context(), employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, nil)
}

// RequestExport godoc
// @Summary Request payslip PDF
// @Description Queues asynchronous payslip generation; poll the job status for completion
// @Tags Salary
// @Accept json
// @Produce json
// @Param employeeId path string true "Employee ID or 'me'"
// @Param payload body dto.PayslipExportRequest true "Payslip month"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /employees/{employeeId}/salary/payslips [post]
func (h *SalaryHandler) RequestExport(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	var req dto.PayslipExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payslip payload"))
		return
	}

	job, err := h.service.RequestExport(c.Request.Context(), employeeID, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, job, nil)
}

// JobStatus godoc
// @Summary Payslip job status
// @Tags Salary
// @Produce json
// @Param employeeId path string true "Employee ID or 'me'"
// @Param id path string true "Payslip job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /employees/{employeeId}/salary/payslips/{id} [get]
func (h *SalaryHandler) JobStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	job, err := h.service.JobStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if job.EmployeeID != employeeID {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "payslip job not found"))
		return
	}

	response.JSON(c, http.StatusOK, job, nil)
}

// DownloadURL godoc
// @Summary Signed payslip download token
// @Description Returns a short-lived token accepted by the files endpoint
// @Tags Salary
// @Produce json
// @Param employeeId path string true "Employee ID or 'me'"
// @Param id path string true "Payslip job ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /employees/{employeeId}/salary/payslips/{id}/url [get]
func (h *SalaryHandler) DownloadURL(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	job, err := h.service.JobStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if job.EmployeeID != employeeID {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "payslip job not found"))
		return
	}

	token, expiresAt, err := h.service.IssueDownloadToken(c.Request.Context(), job.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"url":        fmt.Sprintf("/files/payslips?token=%s", token),
		"expires_at": expiresAt,
	}, nil)
}

// DownloadByToken godoc
// @Summary Download payslip by signed token
// @Tags Salary
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} file "Payslip PDF"
// @Failure 401 {object} response.Envelope
// @Router /files/payslips [get]
func (h *SalaryHandler) DownloadByToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter is required"))
		return
	}

	job, file, err := h.service.OpenByToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat payslip file"))
		return
	}

	filename := fmt.Sprintf("payslip-%d-%02d.pdf", job.Year, job.Month)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.DataFromReader(http.StatusOK, info.Size(), "application/pdf", file, nil)
}
