package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/voltprep/revision-service/internal/progress"
	"github.com/voltprep/revision-service/internal/services"
	"github.com/voltprep/revision-service/internal/utils"
)

type HandlerManager struct {
	bankHandler     *BankHandler
	sessionHandler  *SessionHandler
	progressHandler *ProgressHandler
	exportHandler   *ExportHandler
}

func NewHandlerManager(
	bankService *services.BankService,
	sessionService *services.SessionService,
	progressService *services.ProgressService,
	store *progress.Store,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		bankHandler:     NewBankHandler(bankService, logger),
		sessionHandler:  NewSessionHandler(sessionService, logger),
		progressHandler: NewProgressHandler(progressService, logger),
		exportHandler:   NewExportHandler(bankService, store, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, allowedOrigins []string) {
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Question bank routes
		banks := v1.Group("/banks")
		{
			banks.GET("/:level", hm.bankHandler.ListTopics)
			banks.GET("/:level/:topic", hm.bankHandler.GetTopic)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/answer", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/advance", hm.sessionHandler.Advance)
			sessions.POST("/:id/finish", hm.sessionHandler.FinishSession)
			sessions.POST("/:id/restart", hm.sessionHandler.RestartSession)
		}

		// Progress routes
		progressRoutes := v1.Group("/progress")
		{
			progressRoutes.GET("/:level/report", hm.progressHandler.GetReport)
			progressRoutes.DELETE("/:level", hm.progressHandler.ResetProgress)
		}

		// Export routes
		exports := v1.Group("/export")
		{
			exports.GET("/:level/history.xlsx", hm.exportHandler.ExportHistory)
			exports.GET("/:level/:topic/questions.xlsx", hm.exportHandler.ExportQuestions)
		}
	}
}
