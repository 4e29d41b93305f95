package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"health-assistant/internal/db"
	"health-assistant/internal/intake"
	"health-assistant/internal/models"
	"health-assistant/internal/notifier"
)

type Handler struct {
	db       *db.DB
	pipeline *intake.Pipeline
	notifier *notifier.Service
	logger   *logrus.Logger
}

func NewHandler(db *db.DB, pipeline *intake.Pipeline, notifier *notifier.Service, logger *logrus.Logger) *Handler {
	return &Handler{db: db, pipeline: pipeline, notifier: notifier, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func patientIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("patient_id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient_id"})
		return 0, false
	}
	return id, true
}

type glucoseRequest struct {
	PatientID int64      `json:"patient_id" binding:"required"`
	Value     float64    `json:"value" binding:"required"`
	Context   string     `json:"context"`
	TakenAt   *time.Time `json:"taken_at"`
}

func (h *Handler) PostGlucose(c *gin.Context) {
	var req glucoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid glucose record: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	context := models.GlucoseContext(req.Context)
	switch context {
	case models.ContextFasting, models.ContextPreMeal, models.ContextPostMeal, models.ContextOther:
	case "":
		context = models.ContextFasting
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid glucose context"})
		return
	}

	m := models.Measurement{
		PatientID:      req.PatientID,
		Kind:           models.MetricGlucose,
		Glucose:        req.Value,
		GlucoseContext: context,
		TakenAt:        takenAtOrNow(req.TakenAt),
	}
	h.ingest(c, m)
}

type pressureRequest struct {
	PatientID int64      `json:"patient_id" binding:"required"`
	Systolic  int        `json:"systolic" binding:"required"`
	Diastolic int        `json:"diastolic" binding:"required"`
	TakenAt   *time.Time `json:"taken_at"`
}

func (h *Handler) PostPressure(c *gin.Context) {
	var req pressureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid pressure record: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	m := models.Measurement{
		PatientID: req.PatientID,
		Kind:      models.MetricPressure,
		Systolic:  req.Systolic,
		Diastolic: req.Diastolic,
		TakenAt:   takenAtOrNow(req.TakenAt),
	}
	h.ingest(c, m)
}

type pulseRequest struct {
	PatientID int64      `json:"patient_id" binding:"required"`
	Value     int        `json:"value" binding:"required"`
	TakenAt   *time.Time `json:"taken_at"`
}

func (h *Handler) PostPulse(c *gin.Context) {
	var req pulseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid pulse record: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	m := models.Measurement{
		PatientID: req.PatientID,
		Kind:      models.MetricPulse,
		Pulse:     req.Value,
		TakenAt:   takenAtOrNow(req.TakenAt),
	}
	h.ingest(c, m)
}

func takenAtOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}

// ingest runs the pipeline and returns the judgment. Only the measurement
// write failing produces an error response.
func (h *Handler) ingest(c *gin.Context, m models.Measurement) {
	judgment, err := h.pipeline.Ingest(c.Request.Context(), m)
	if err != nil {
		h.logger.Errorf("Ingest failed for patient %d: %v", m.PatientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save measurement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": judgment})
}

func (h *Handler) GetAlerts(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	alerts, err := h.db.ListAlertsByPatient(c.Request.Context(), patientID, 100)
	if err != nil {
		h.logger.Errorf("Failed to list alerts for patient %d: %v", patientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get alerts"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *Handler) GetNotifications(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	notifications, err := h.db.ListNotificationsByPatient(c.Request.Context(), patientID, 50)
	if err != nil {
		h.logger.Errorf("Failed to list notifications for patient %d: %v", patientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	if err := h.db.MarkNotificationRead(c.Request.Context(), id); err != nil {
		h.logger.Errorf("Failed to mark notification %s read: %v", id, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetReminderSettings(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	settings, err := h.db.GetReminderSettings(c.Request.Context(), patientID)
	if err != nil {
		h.logger.Errorf("Failed to get reminder settings for patient %d: %v", patientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reminder settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type reminderSettingsRequest struct {
	Enabled       *bool  `json:"enabled" binding:"required"`
	MorningTime   string `json:"morning_time"`
	AfternoonTime string `json:"afternoon_time"`
	EveningTime   string `json:"evening_time"`
}

func (h *Handler) PutReminderSettings(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	var req reminderSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid reminder settings: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	settings := models.DefaultReminderSettings(patientID)
	settings.Enabled = *req.Enabled
	if req.MorningTime != "" {
		settings.MorningTime = req.MorningTime
	}
	if req.AfternoonTime != "" {
		settings.AfternoonTime = req.AfternoonTime
	}
	if req.EveningTime != "" {
		settings.EveningTime = req.EveningTime
	}

	if err := h.db.UpsertReminderSettings(c.Request.Context(), settings); err != nil {
		h.logger.Errorf("Failed to upsert reminder settings for patient %d: %v", patientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reminder settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) GetCaregiver(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	caregiver, found, err := h.db.GetCaregiverContact(c.Request.Context(), patientID)
	if err != nil {
		h.logger.Errorf("Failed to get caregiver contact for patient %d: %v", patientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get caregiver contact"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "No caregiver contact on file"})
		return
	}
	c.JSON(http.StatusOK, caregiver)
}

type caregiverRequest struct {
	Name   string `json:"name" binding:"required"`
	ChatID int64  `json:"chat_id"`
	Phone  string `json:"phone"`
}

func (h *Handler) PutCaregiver(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	var req caregiverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Invalid caregiver contact: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	contact := models.CaregiverContact{
		PatientID: patientID,
		Name:      req.Name,
		ChatID:    req.ChatID,
		Phone:     req.Phone,
	}
	if err := h.db.UpsertCaregiverContact(c.Request.Context(), contact); err != nil {
		h.logger.Errorf("Failed to upsert caregiver contact for patient %d: %v", patientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save caregiver contact"})
		return
	}
	c.JSON(http.StatusOK, contact)
}

// WebSocket upgrades the connection and registers it for realtime
// notification push until the client disconnects.
func (h *Handler) WebSocket(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("WebSocket upgrade failed for patient %d: %v", patientID, err)
		return
	}

	ws := h.notifier.WS()
	ws.AddConnection(patientID, conn)
	defer func() {
		ws.RemoveConnection(patientID, conn)
		conn.Close()
	}()

	// Drain the read side until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
