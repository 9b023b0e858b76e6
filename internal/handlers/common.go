package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltprep/revision-service/internal/services"
	"github.com/voltprep/revision-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common response and logging helpers for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error) {
	if err != nil {
		h.logger.LogError(err, message,
			"status_code", statusCode,
			"method", c.Request.Method,
			"path", c.Request.URL.Path)
	}
	c.JSON(statusCode, ErrorResponse{Message: message})
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{Message: message, Data: data})
}

// RespondServiceError maps service sentinel errors onto HTTP statuses.
func (h *BaseHandler) RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, services.ErrInvalidLevel),
		errors.Is(err, services.ErrInvalidOption):
		h.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, services.ErrTopicNotFound),
		errors.Is(err, services.ErrSessionNotFound):
		h.RespondWithError(c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, services.ErrSessionFinished),
		errors.Is(err, services.ErrAlreadyAnswered),
		errors.Is(err, services.ErrNotAnswered),
		errors.Is(err, services.ErrEmptySession):
		h.RespondWithError(c, http.StatusConflict, err.Error(), err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "internal server error", err)
	}
}

// HealthCheck reports service liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "revision-service",
	})
}
