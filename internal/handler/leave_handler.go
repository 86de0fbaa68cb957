package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/models"
	"github.com/talentra/ems-api/internal/service"
	appErrors "github.com/talentra/ems-api/pkg/errors"
	"github.com/talentra/ems-api/pkg/response"
)

// LeaveHandler exposes the leave request workflow endpoints.
type LeaveHandler struct {
	service *service.LeaveService
}

// NewLeaveHandler creates a new handler.
func NewLeaveHandler(svc *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{service: svc}
}

// List godoc
// @Summary List leave requests
// @Description Employees see their own requests; admins and supervisors see everyone's
// @Tags Leave
// @Produce json
// @Param status query string false "Status filter"
// @Param from query string false "Date range start (YYYY-MM-DD)"
// @Param to query string false "Date range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /leave [get]
func (h *LeaveHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.LeaveFilter{
		Page:      intQuery(c, "page"),
		PageSize:  intQuery(c, "page_size"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if claims.Role == models.RoleEmployee {
		filter.EmployeeID = claims.EmployeeID
	} else if target := c.Query("employee_id"); target != "" {
		filter.EmployeeID = target
	}
	if raw := c.Query("status"); raw != "" {
		status := models.LeaveStatus(raw)
		if !status.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown leave status"))
			return
		}
		filter.Status = &status
	}
	if from, ok := dateQuery(c, "from"); ok {
		filter.DateFrom = &from
	}
	if to, ok := dateQuery(c, "to"); ok {
		filter.DateTo = &to
	}

	requests, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, paginationFor(filter.Page, filter.PageSize, total))
}

// Get godoc
// @Summary Get leave request
// @Tags Leave
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /leave/{id} [get]
func (h *LeaveHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	request, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if claims != nil && claims.Role == models.RoleEmployee && request.EmployeeID != claims.EmployeeID {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	response.JSON(c, http.StatusOK, request, nil)
}

// Create godoc
// @Summary Request leave
// @Tags Leave
// @Accept json
// @Produce json
// @Param payload body dto.CreateLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /leave [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EmployeeID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no employee record linked to this account"))
		return
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave payload"))
		return
	}

	request, err := h.service.Request(c.Request.Context(), claims.EmployeeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

// Approve godoc
// @Summary Approve leave request
// @Tags Leave
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body dto.DecideLeaveRequest false "Decision note"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /leave/{id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

// Reject godoc
// @Summary Reject leave request
// @Tags Leave
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body dto.DecideLeaveRequest false "Decision note"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /leave/{id}/reject [post]
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

// Cancel godoc
// @Summary Cancel own pending leave request
// @Tags Leave
// @Produce json
// @Param id path string true "Leave request ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /leave/{id}/cancel [post]
func (h *LeaveHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.EmployeeID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no employee record linked to this account"))
		return
	}

	request, err := h.service.Cancel(c.Request.Context(), c.Param("id"), claims.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, request, nil)
}

func (h *LeaveHandler) decide(c *gin.Context, action func(ctx context.Context, id, decidedBy string, req dto.DecideLeaveRequest) (*models.LeaveRequest, error)) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.DecideLeaveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
			return
		}
	}

	request, err := action(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, request, nil)
}

func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
