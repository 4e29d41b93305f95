package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"health-assistant/internal/models"
)

// CreateNotification appends a row to the per-patient notification ledger.
func (d *DB) CreateNotification(ctx context.Context, n models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO notifications (id, patient_id, kind, message, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := d.Pool.Exec(ctx, query,
		n.ID,
		n.PatientID,
		n.Kind,
		n.Message,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListNotificationsByPatient returns a patient's notification history,
// most recent first.
func (d *DB) ListNotificationsByPatient(ctx context.Context, patientID int64, limit int) ([]models.Notification, error) {
	query := `
	SELECT id, patient_id, kind, message, is_read, created_at
	FROM notifications
	WHERE patient_id = $1
	ORDER BY created_at DESC
	LIMIT $2`

	rows, err := d.Pool.Query(ctx, query, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for patient %d: %w", patientID, err)
	}
	defer rows.Close()

	var list []models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.PatientID, &n.Kind, &n.Message, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, nil
}

// MarkNotificationRead flips the is_read flag. Called from the UI boundary
// only; the core never reads notifications back on the patient's behalf.
func (d *DB) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `UPDATE notifications SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no notification found with id %s", id)
	}
	return nil
}
