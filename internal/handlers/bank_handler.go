package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltprep/revision-service/internal/models"
	"github.com/voltprep/revision-service/internal/services"
	"github.com/voltprep/revision-service/internal/utils"
)

// BankHandler serves question bank listings
type BankHandler struct {
	BaseHandler
	service *services.BankService
}

func NewBankHandler(service *services.BankService, logger utils.Logger) *BankHandler {
	return &BankHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListTopics handles GET /banks/:level
func (h *BankHandler) ListTopics(c *gin.Context) {
	level := models.Level(c.Param("level"))
	overviews, err := h.service.Topics(c.Request.Context(), level)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "topics", overviews)
}

// GetTopic handles GET /banks/:level/:topic
func (h *BankHandler) GetTopic(c *gin.Context) {
	level := models.Level(c.Param("level"))
	overview, err := h.service.Topic(c.Request.Context(), level, c.Param("topic"))
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "topic", overview)
}
