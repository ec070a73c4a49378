package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/elogbook-service/internal/services"
	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PresenceHandler struct {
	BaseHandler
	presenceService services.PresenceService
	exportService   services.ExportService
}

func NewPresenceHandler(presenceService services.PresenceService, exportService services.ExportService, logger utils.Logger) *PresenceHandler {
	return &PresenceHandler{
		BaseHandler:     NewBaseHandler(logger),
		presenceService: presenceService,
		exportService:   exportService,
	}
}

// ListPresences
// @Summary List student presences
// @Tags admin
// @Produce json
// @Success 200 {array} models.Presence
// @Router /admin/presence [get]
func (h *PresenceHandler) ListPresences(c *gin.Context) {
	presences, err := h.presenceService.ListPresences(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, presences)
}

// AssignStudentStation enrols a student in a station
// @Summary Assign student to station
// @Tags admin
// @Accept json
// @Produce json
// @Param body body services.AssignStationRequest true "Student and station"
// @Success 200 {object} models.StudentStation
// @Router /admin/presence/assignments [post]
func (h *PresenceHandler) AssignStudentStation(c *gin.Context) {
	var req services.AssignStationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Assigning student to station", "student_id", req.StudentID, "station_id", req.StationID)

	enrolment, err := h.presenceService.AssignStudentStation(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrolment)
}

// AddOrUpdatePresence
// @Summary Save presence counters
// @Tags admin
// @Accept json
// @Produce json
// @Param body body services.PresenceRequest true "Presence counters"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/presence [put]
func (h *PresenceHandler) AddOrUpdatePresence(c *gin.Context) {
	var req services.PresenceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Saving presence", "student_id", req.StudentID, "station_id", req.StationID)

	resp, err := h.presenceService.AddOrUpdatePresence(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeletePresence
// @Summary Delete presence
// @Tags admin
// @Accept json
// @Produce json
// @Param body body services.DeletePresenceRequest true "Student and station"
// @Success 200 {object} models.MessageResponse
// @Router /admin/presence [delete]
func (h *PresenceHandler) DeletePresence(c *gin.Context) {
	var req services.DeletePresenceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Deleting presence", "student_id", req.StudentID, "station_id", req.StationID)

	resp, err := h.presenceService.DeletePresence(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportPresences downloads every presence row as a spreadsheet
// @Summary Export presences
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /admin/presence/export [get]
func (h *PresenceHandler) ExportPresences(c *gin.Context) {
	data, err := h.exportService.ExportPresences(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("presence-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
