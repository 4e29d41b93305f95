package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"health-assistant/internal/config"
)

func NewRouter(logger *logrus.Logger, cfg config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(cfg.API.BasePath)
	{
		// Measurement intake
		api.POST("/records/glucose", h.PostGlucose)
		api.POST("/records/pressure", h.PostPressure)
		api.POST("/records/pulse", h.PostPulse)

		// History (read-only reporting boundary)
		api.GET("/alerts/:patient_id", h.GetAlerts)
		api.GET("/notifications/:patient_id", h.GetNotifications)
		api.PUT("/notifications/:id/read", h.MarkNotificationRead)

		// Reminder settings
		api.GET("/reminders/:patient_id", h.GetReminderSettings)
		api.PUT("/reminders/:patient_id", h.PutReminderSettings)

		// Caregiver contact
		api.GET("/caregiver/:patient_id", h.GetCaregiver)
		api.PUT("/caregiver/:patient_id", h.PutCaregiver)
	}

	// Realtime notification push for the dashboard
	r.GET("/ws/:patient_id", h.WebSocket)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
