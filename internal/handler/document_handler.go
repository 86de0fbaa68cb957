package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentra/ems-api/internal/dto"
	"github.com/talentra/ems-api/internal/service"
	appErrors "github.com/talentra/ems-api/pkg/errors"
	"github.com/talentra/ems-api/pkg/response"
)

// DocumentHandler exposes employee document endpoints.
type DocumentHandler struct {
	service *service.DocumentService
}

// NewDocumentHandler creates a new handler.
func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// List godoc
// @Summary List employee documents
// @Tags Documents
// @Produce json
// @Param employeeId path string true "Employee ID or 'me'"
// @Success 200 {object} response.Envelope
// @Router /employees/{employeeId}/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	documents, err := h.service.List(c.Request.Context(), employeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, documents, nil)
}

// Upload godoc
// @Summary Upload employee document
// @Description Multipart upload with title and category fields
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param employeeId path string true "Employee ID or 'me'"
// @Param file formData file true "Document file"
// @Param title formData string true "Document title"
// @Param category formData string true "Document category"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /employees/{employeeId}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	var req dto.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document payload"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file part is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file"))
		return
	}
	defer file.Close() //nolint:errcheck

	document, err := h.service.Upload(
		c.Request.Context(),
		employeeID,
		claims.UserID,
		req,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, document)
}

// Download godoc
// @Summary Download employee document
// @Tags Documents
// @Produce octet-stream
// @Param employeeId path string true "Employee ID or 'me'"
// @Param id path string true "Document ID"
// @Success 200 {file} file "Document content"
// @Failure 404 {object} response.Envelope
// @Router /employees/{employeeId}/documents/{id} [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	claims := claimsFromContext(c)
	employeeID := employeeIDFromPath(c, claims)
	if !canAccessEmployee(claims, employeeID) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	document, file, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	if document.EmployeeID != employeeID {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "document not found"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+document.FileName+`"`)
	c.DataFromReader(http.StatusOK, document.SizeBytes, document.MIMEType, file, nil)
}

// Delete godoc
// @Summary Delete employee document
// @Tags Documents
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Param id path string true "Document ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /employees/{employeeId}/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
