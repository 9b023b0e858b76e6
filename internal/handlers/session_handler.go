package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltprep/revision-service/internal/services"
	"github.com/voltprep/revision-service/internal/utils"
)

// SessionHandler serves the quiz session lifecycle
type SessionHandler struct {
	BaseHandler
	service *services.SessionService
}

func NewSessionHandler(service *services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// StartSession handles POST /sessions
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	view, err := h.service.Start(c.Request.Context(), &req)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}

	message := "session started"
	if view.Empty {
		// Zero questions is a real state the client renders ("no problem
		// questions left"), never silently swapped for the full bank.
		message = "no questions match the requested mode"
	}
	h.RespondWithSuccess(c, http.StatusCreated, message, view)
}

// GetSession handles GET /sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "session", view)
}

// SubmitAnswer handles POST /sessions/:id/answer
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.Answer(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "answer locked", result)
}

// Advance handles POST /sessions/:id/advance
func (h *SessionHandler) Advance(c *gin.Context) {
	view, err := h.service.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "advanced", view)
}

// FinishSession handles POST /sessions/:id/finish
func (h *SessionHandler) FinishSession(c *gin.Context) {
	view, err := h.service.Finish(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "session finished", view)
}

// RestartSession handles POST /sessions/:id/restart
func (h *SessionHandler) RestartSession(c *gin.Context) {
	view, err := h.service.Restart(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.RespondServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "session restarted", view)
}
