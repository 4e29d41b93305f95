package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"health-assistant/internal/models"
)

// CreateAlert appends an alert record. Alerts are append-only; there is no
// update or delete path. A fresh UUID is generated when the caller left the
// id unset.
func (d *DB) CreateAlert(ctx context.Context, alert models.Alert) (uuid.UUID, error) {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO alerts (
		id, patient_id, alert_kind, metric_kind, metric_value, severity, notified, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := d.Pool.Exec(ctx, query,
		alert.ID,
		alert.PatientID,
		alert.AlertKind,
		alert.MetricKind,
		alert.MetricValue,
		alert.Severity,
		alert.Notified,
		alert.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert alert: %w", err)
	}
	return alert.ID, nil
}

// CriticalAlertsSince returns a patient's critical alerts created at or after
// the given instant, most recent first. This feeds the weekly escalation
// rollup, which counts only critical severity.
func (d *DB) CriticalAlertsSince(ctx context.Context, patientID int64, since time.Time) ([]models.Alert, error) {
	query := `
	SELECT id, patient_id, alert_kind, metric_kind, metric_value, severity, notified, created_at
	FROM alerts
	WHERE patient_id = $1 AND severity = 'critical' AND created_at >= $2
	ORDER BY created_at DESC`

	rows, err := d.Pool.Query(ctx, query, patientID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get critical alerts for patient %d: %w", patientID, err)
	}
	defer rows.Close()

	var list []models.Alert
	for rows.Next() {
		var a models.Alert
		err := rows.Scan(
			&a.ID,
			&a.PatientID,
			&a.AlertKind,
			&a.MetricKind,
			&a.MetricValue,
			&a.Severity,
			&a.Notified,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, nil
}

// ListAlertsByPatient returns a patient's alert history, most recent first.
func (d *DB) ListAlertsByPatient(ctx context.Context, patientID int64, limit int) ([]models.Alert, error) {
	query := `
	SELECT id, patient_id, alert_kind, metric_kind, metric_value, severity, notified, created_at
	FROM alerts
	WHERE patient_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

	rows, err := d.Pool.Query(ctx, query, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts for patient %d: %w", patientID, err)
	}
	defer rows.Close()

	var list []models.Alert
	for rows.Next() {
		var a models.Alert
		err := rows.Scan(
			&a.ID,
			&a.PatientID,
			&a.AlertKind,
			&a.MetricKind,
			&a.MetricValue,
			&a.Severity,
			&a.Notified,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, nil
}
