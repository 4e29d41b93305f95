package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"health-assistant/internal/models"
)

// GetReminderSettings returns a patient's reminder settings, falling back to
// the defaults (enabled, standard windows) when no row exists.
func (d *DB) GetReminderSettings(ctx context.Context, patientID int64) (models.ReminderSettings, error) {
	query := `
	SELECT patient_id, enabled, morning_time, afternoon_time, evening_time
	FROM reminder_settings
	WHERE patient_id = $1`

	var s models.ReminderSettings
	err := d.Pool.QueryRow(ctx, query, patientID).Scan(
		&s.PatientID,
		&s.Enabled,
		&s.MorningTime,
		&s.AfternoonTime,
		&s.EveningTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DefaultReminderSettings(patientID), nil
		}
		return models.ReminderSettings{}, fmt.Errorf("failed to get reminder settings for patient %d: %w", patientID, err)
	}
	return s, nil
}

// UpsertReminderSettings inserts or replaces the single settings row for a
// patient.
func (d *DB) UpsertReminderSettings(ctx context.Context, s models.ReminderSettings) error {
	query := `
	INSERT INTO reminder_settings (patient_id, enabled, morning_time, afternoon_time, evening_time, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW())
	ON CONFLICT (patient_id) DO UPDATE
	SET enabled = EXCLUDED.enabled,
	    morning_time = EXCLUDED.morning_time,
	    afternoon_time = EXCLUDED.afternoon_time,
	    evening_time = EXCLUDED.evening_time,
	    updated_at = NOW()`

	_, err := d.Pool.Exec(ctx, query, s.PatientID, s.Enabled, s.MorningTime, s.AfternoonTime, s.EveningTime)
	if err != nil {
		return fmt.Errorf("failed to upsert reminder settings for patient %d: %w", s.PatientID, err)
	}
	return nil
}
