package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies an entry in the notification ledger.
type NotificationKind string

const (
	NotificationInfo     NotificationKind = "info"
	NotificationWarning  NotificationKind = "warning"
	NotificationCritical NotificationKind = "critical"
	NotificationReminder NotificationKind = "reminder"
	NotificationReport   NotificationKind = "report"
)

// Notification is one dispatched message recorded in the per-patient ledger.
// The row reflects dispatch intent, not confirmed receipt. IsRead is flipped
// by the consuming UI, never by this service.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	PatientID int64            `json:"patient_id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
