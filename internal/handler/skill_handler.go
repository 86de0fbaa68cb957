package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/service"
	appErrors "github.com/talentra/ems-api/pkg/errors"
	"github.com/talentra/ems-api/pkg/response"
)

// SkillHandler exposes profile skill endpoints.
type SkillHandler struct {
	service *service.SkillService
}

// NewSkillHandler creates a new handler.
func NewSkillHandler(svc *service.SkillService) *SkillHandler {
	return &SkillHandler{service: svc}
}

// List godoc
// @Summary List employee skills
// @Tags Skills
// @Produce json
// @Param employeeId path string true "Employee ID or 'me'"
// @Success 200 {object} response.Envelope
// @Router /employees/{employeeId}/skills [get]
func (h *SkillHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	skills, err := h.service.List(c.Request.Context(), employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, skills, nil)
}

// Upsert godoc
// @Summary Add or update a skill
// @Description The skill name is the natural key; resubmitting updates level and years
// @Tags Skills
// @Accept json
// @Produce json
// @Param employeeId path string true "Employee ID or 'me'"
// @Param payload body dto.UpsertSkillRequest true "Skill payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /employees/{employeeId}/skills [put]
func (h *SkillHandler) Upsert(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	var req dto.UpsertSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid skill payload"))
		return
	}

	skill, err := h.service.Upsert(c.Request.Context(), employeeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, skill, nil)
}

// Delete godoc
// @Summary Remove a skill
// @Tags Skills
// @Produce json
// @Param employeeId path string true "Employee ID or 'me'"
// @Param id path string true "Skill ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /employees/{employeeId}/skills/{id} [delete]
func (h *SkillHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
