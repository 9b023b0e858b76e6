package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltprep/revision-service/internal/export"
	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/progress"
	"github.com/voltprep/revision-service/internal/services"
	"github.com/voltprep/revision-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves xlsx downloads of attempt history and question banks
type ExportHandler struct {
	BaseHandler
	banks *services.BankService
	store *progress.Store
}

func NewExportHandler(banks *services.BankService, store *progress.Store, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(logger),
		banks:       banks,
		store:       store,
	}
}

// ExportHistory handles GET /export/:level/history.xlsx
func (h *ExportHandler) ExportHistory(c *gin.Context) {
	level := models.Level(c.Param("level"))
	if !level.Valid() {
		h.RespondServiceError(c, services.ErrInvalidLevel)
		return
	}

	records := h.store.History(c.Request.Context(), level)
	data, err := export.HistoryToExcel(records)
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "export failed", err)
		return
	}

	filename := fmt.Sprintf("attempt-history-level%s.xlsx", level)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportQuestions handles GET /export/:level/:topic/questions.xlsx
func (h *ExportHandler) ExportQuestions(c *gin.Context) {
	level := models.Level(c.Param("level"))
	topic := c.Param("topic")

	questions, err := h.banks.Questions(level, topic)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}

	data, err := export.QuestionsToExcel(questions)
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "export failed", err)
		return
	}

	filename := fmt.Sprintf("%s-level%s.xlsx", topic, level)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
