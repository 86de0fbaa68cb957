package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/middleware"
	"github.com/talentra/ems-api/internal/service"
	appErrors "github.com/talentra/ems-api/pkg/errors"
	"github.com/talentra/ems-api/pkg/response"
)

// RefdataHandler exposes reference data endpoints for form dropdowns.
type RefdataHandler struct {
	service *service.RefdataService
}

// NewRefdataHandler creates a new handler.
func NewRefdataHandler(svc *service.RefdataService) *RefdataHandler {
	return &RefdataHandler{service: svc}
}

// Bundle godoc
// @Summary Reference data bundle
// @Description Departments, designations, employee types and leave types in one payload
// @Tags Refdata
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /refdata [get]
func (h *RefdataHandler) Bundle(c *gin.Context) {
	bundle, cacheHit, err := h.service.Bundle(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, bundle, nil, middleware.ExtractMeta(c))
}

// CreateDepartment godoc
// @Summary Create department
// @Tags Refdata
// @Accept json
// @Produce json
// @Param payload body dto.CreateDepartmentRequest true "Department payload"
// @Success 201 {object} response.Envelope
// @Router /refdata/departments [post]
func (h *RefdataHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid department payload"))
		return
	}

	department, err := h.service.CreateDepartment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, department)
}

// UpdateDepartment godoc
// @Summary Rename department
// @Tags Refdata
// @Accept json
// @Produce json
// @Param id path string true "Department ID"
// @Param payload body dto.CreateDepartmentRequest true "Department payload"
// @Success 204 {object} response.Envelope
// @Router /refdata/departments/{id} [put]
func (h *RefdataHandler) UpdateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid department payload"))
		return
	}

	if err := h.service.UpdateDepartment(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteDepartment godoc
// @Summary Delete department
// @Tags Refdata
// @Produce json
// @Param id path string true "Department ID"
// @Success 204 {object} response.Envelope
// @Router /refdata/departments/{id} [delete]
func (h *RefdataHandler) DeleteDepartment(c *gin.Context) {
	if err := h.service.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateDesignation godoc
// @Summary Create designation
// @Tags Refdata
// @Accept json
// @Produce json
// @Param payload body dto.CreateDesignationRequest true "Designation payload"
// @Success 201 {object} response.Envelope
// @Router /refdata/designations [post]
func (h *RefdataHandler) CreateDesignation(c *gin.Context) {
	var req dto.CreateDesignationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid designation payload"))
		return
	}

	designation, err := h.service.CreateDesignation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, designation)
}

// CreateEmployeeType godoc
// @Summary Create employee type
// @Tags Refdata
// @Accept json
// @Produce json
// @Param payload body dto.CreateEmployeeTypeRequest true "Employee type payload"
// @Success 201 {object} response.Envelope
// @Router /refdata/employee-types [post]
func (h *RefdataHandler) CreateEmployeeType(c *gin.Context) {
	var req dto.CreateEmployeeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid employee type payload"))
		return
	}

	employeeType, err := h.service.CreateEmployeeType(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, employeeType)
}

// CreateLeaveType godoc
// @Summary Create leave type
// @Tags Refdata
// @Accept json
// @Produce json
// @Param payload body dto.CreateLeaveTypeRequest true "Leave type payload"
// @Success 201 {object} response.Envelope
// @Router /refdata/leave-types [post]
func (h *RefdataHandler) CreateLeaveType(c *gin.Context) {
	var req dto.CreateLeaveTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave type payload"))
		return
	}

	leaveType, err := h.service.CreateLeaveType(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, leaveType)
}
