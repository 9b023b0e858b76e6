package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/services"
	"github.com/voltprep/revision-service/internal/utils"
)

// ProgressHandler serves the progress report and the reset action
type ProgressHandler struct {
	BaseHandler
	service *services.ProgressService
}

func NewProgressHandler(service *services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetReport handles GET /progress/:level/report?topic=
func (h *ProgressHandler) GetReport(c *gin.Context) {
	level := models.Level(c.Param("level"))
	topic := c.Query("topic")

	report, err := h.service.Report(c.Request.Context(), level, topic)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "progress report", report)
}

// ResetProgress handles DELETE /progress/:level
func (h *ProgressHandler) ResetProgress(c *gin.Context) {
	level := models.Level(c.Param("level"))
	if err := h.service.Reset(c.Request.Context(), level); err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "progress reset", nil)
}
