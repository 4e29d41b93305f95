// Package notifier converts judgments, reminders and reports into outbound
// messages, records them in the notification ledger, and hands delivery to a
// bounded worker pool so ingest latency never depends on sink latency.
package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"health-assistant/internal/models"
)

// Store is the storage capability set the dispatcher needs.
type Store interface {
	GetPatient(ctx context.Context, id int64) (models.Patient, error)
	GetReminderSettings(ctx context.Context, patientID int64) (models.ReminderSettings, error)
	GetCaregiverContact(ctx context.Context, patientID int64) (models.CaregiverContact, bool, error)
	CreateNotification(ctx context.Context, n models.Notification) error
}

// Sink delivers a text message to an external address. Transport and address
// format are the sink's concern.
type Sink interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// outbound is one queued delivery.
type outbound struct {
	chatID int64
	text   string
}

// Service is the notification dispatcher.
type Service struct {
	store       Store
	sink        Sink
	logger      *logrus.Logger
	queue       chan outbound
	sendTimeout time.Duration
	maxWorkers  int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          *sync.WaitGroup
	ws          *WSManager
}

// New constructs a dispatcher Service.
func New(store Store, sink Sink, logger *logrus.Logger, queueSize, maxWorkers int, sendTimeout time.Duration) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		store:       store,
		sink:        sink,
		logger:      logger,
		queue:       make(chan outbound, queueSize),
		sendTimeout: sendTimeout,
		maxWorkers:  maxWorkers,
		ctx:         ctx,
		cancel:      cancel,
		ws:          NewWSManager(logger),
	}
}

// Start launches the delivery worker pool.
func (s *Service) Start(wg *sync.WaitGroup) {
	s.wg = wg
	for i := 0; i < s.maxWorkers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop cancels the workers. Queued deliveries that have not started are
// dropped; the ledger already records them as intended.
func (s *Service) Stop() {
	s.cancel()
}

// WS exposes the websocket manager to the API boundary.
func (s *Service) WS() *WSManager {
	return s.ws
}

// kindPrefix mirrors the per-kind emoji the assistant has always used in chat.
func kindPrefix(kind models.NotificationKind) string {
	switch kind {
	case models.NotificationWarning:
		return "⚠️ "
	case models.NotificationCritical:
		return "\U0001f6a8 "
	case models.NotificationReminder:
		return "⏰ "
	case models.NotificationReport:
		return "\U0001f4cb "
	default:
		return "\U0001f4ca "
	}
}

// Notify records a notification for the patient and queues its delivery.
// Reminder-kind notifications honor the patient's opt-out; every other kind
// is never suppressed. Returns false when the patient is unknown, has no
// registered chat, opted out of reminders, or the ledger write failed.
// Sink failures never surface here: the ledger reflects intent, not receipt.
func (s *Service) Notify(ctx context.Context, patientID int64, message string, kind models.NotificationKind) bool {
	if kind == models.NotificationReminder {
		settings, err := s.store.GetReminderSettings(ctx, patientID)
		if err != nil {
			s.logger.Errorf("Failed to load reminder settings for patient %d: %v", patientID, err)
			return false
		}
		if !settings.Enabled {
			s.logger.Debugf("Reminders disabled for patient %d, skipping", patientID)
			return false
		}
	}

	patient, err := s.store.GetPatient(ctx, patientID)
	if err != nil {
		s.logger.Errorf("Failed to load patient %d: %v", patientID, err)
		return false
	}
	if patient.ChatID == 0 {
		s.logger.Warnf("Patient %d has no registered chat, skipping %s notification", patientID, kind)
		return false
	}

	n := models.Notification{
		ID:        uuid.New(),
		PatientID: patientID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Errorf("CreateNotification failed for patient %d: %v", patientID, err)
		return false
	}

	s.enqueue(outbound{chatID: patient.ChatID, text: kindPrefix(kind) + message})
	s.ws.SendToPatient(patientID, n)

	s.logger.Infof("Notification %s queued for patient %d (kind=%s)", n.ID, patientID, kind)
	return true
}

// SendReportToDoctor delivers an escalated weekly report to the patient's
// caregiver. A patient with no caregiver on file is a silent no-op: nothing
// is written and nothing is sent.
func (s *Service) SendReportToDoctor(ctx context.Context, patientID int64, report string) bool {
	caregiver, found, err := s.store.GetCaregiverContact(ctx, patientID)
	if err != nil {
		s.logger.Errorf("Failed to load caregiver contact for patient %d: %v", patientID, err)
		return false
	}
	if !found || caregiver.ChatID == 0 {
		s.logger.Debugf("Patient %d has no caregiver contact, skipping report", patientID)
		return false
	}

	n := models.Notification{
		ID:        uuid.New(),
		PatientID: patientID,
		Kind:      models.NotificationReport,
		Message:   "Weekly report sent to caregiver: " + caregiver.Name,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Errorf("CreateNotification failed for patient %d: %v", patientID, err)
		return false
	}

	s.enqueue(outbound{
		chatID: caregiver.ChatID,
		text:   kindPrefix(models.NotificationReport) + "WEEKLY REPORT\n\n" + report,
	})

	s.logger.Infof("Weekly report for patient %d queued to caregiver %q", patientID, caregiver.Name)
	return true
}

// enqueue hands a delivery to the worker pool without blocking the caller.
func (s *Service) enqueue(task outbound) {
	select {
	case s.queue <- task:
	default:
		s.logger.Errorf("Delivery queue full, dropping message for chat %d", task.chatID)
	}
}

// worker drains the delivery queue until the service is stopped.
func (s *Service) worker(id int) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			s.logger.Infof("Delivery worker %d stopped", id)
			return
		case task := <-s.queue:
			s.deliver(task)
		}
	}
}

// deliver sends one message, bounded by the configured timeout. Failures are
// logged and swallowed; the ledger row was already written.
func (s *Service) deliver(task outbound) {
	ctx, cancel := context.WithTimeout(s.ctx, s.sendTimeout)
	defer cancel()
	if err := s.sink.Send(ctx, task.chatID, task.text); err != nil {
		s.logger.Errorf("Delivery to chat %d failed: %v", task.chatID, err)
	}
}
