package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity grades a classified measurement.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is the persisted occurrence of a critical judgment. Rows are
// append-only; Notified is fixed at insert time and never updated.
type Alert struct {
	ID          uuid.UUID  `json:"id"`
	PatientID   int64      `json:"patient_id"`
	AlertKind   string     `json:"alert_kind"`
	MetricKind  MetricKind `json:"metric_kind"`
	MetricValue string     `json:"metric_value"`
	Severity    Severity   `json:"severity"`
	Notified    bool       `json:"notified"`
	CreatedAt   time.Time  `json:"created_at"`
}
