package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/services"
	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

// ReferenceHandler serves stations, diseases, skills, hospitals and guidances
type ReferenceHandler struct {
	BaseHandler
	referenceService services.ReferenceService
}

func NewReferenceHandler(referenceService services.ReferenceService, logger utils.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		BaseHandler:      NewBaseHandler(logger),
		referenceService: referenceService,
	}
}

// GetElogbookInfo returns every reference table
// @Summary E-logbook reference data
// @Tags admin
// @Produce json
// @Success 200 {object} models.ElogbookInfo
// @Router /admin/elogbook [get]
func (h *ReferenceHandler) GetElogbookInfo(c *gin.Context) {
	info, err := h.referenceService.GetElogbookInfo(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Create returns the POST handler of one reference kind
// @Summary Create reference record
// @Tags admin
// @Accept json
// @Produce json
// @Param body body services.ReferenceRequest true "Name and, for diseases and skills, station"
// @Success 201 {object} interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/{kind} [post]
func (h *ReferenceHandler) Create(kind models.ReferenceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.ReferenceRequest
		if !h.bindJSON(c, &req) {
			return
		}

		h.LogRequest(c, "Creating reference record", "kind", kind, "name", req.Name)

		item, err := h.referenceService.Create(c.Request.Context(), kind, &req)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// Update returns the PATCH handler of one reference kind; the id is in the body
// @Summary Update reference record
// @Tags admin
// @Accept json
// @Produce json
// @Param body body services.ReferenceRequest true "Id, name and, for diseases and skills, station"
// @Success 200 {object} interface{}
// @Router /admin/{kind} [patch]
func (h *ReferenceHandler) Update(kind models.ReferenceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.ReferenceRequest
		if !h.bindJSON(c, &req) {
			return
		}

		h.LogRequest(c, "Updating reference record", "kind", kind, "id", req.ID)

		item, err := h.referenceService.Update(c.Request.Context(), kind, &req)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// Delete returns the DELETE handler of one reference kind
// @Summary Delete reference record
// @Tags admin
// @Param id path int true "Record ID"
// @Success 200 {object} models.MessageResponse
// @Router /admin/{kind}/{id} [delete]
func (h *ReferenceHandler) Delete(kind models.ReferenceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := h.parseIDParam(c, "id")
		if id == 0 {
			return
		}

		h.LogRequest(c, "Deleting reference record", "kind", kind, "id", id)

		if err := h.referenceService.Delete(c.Request.Context(), kind, id); err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Deleted successfully"})
	}
}
