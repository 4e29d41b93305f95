package db

import (
	"context"
	"fmt"

	"health-assistant/internal/models"
)

// GetPatient looks up one patient directory entry.
func (d *DB) GetPatient(ctx context.Context, id int64) (models.Patient, error) {
	query := `
	SELECT id, full_name, COALESCE(telegram_chat_id, 0), registered_at
	FROM patients
	WHERE id = $1`

	var p models.Patient
	err := d.Pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.FullName, &p.ChatID, &p.RegisteredAt)
	if err != nil {
		return models.Patient{}, fmt.Errorf("failed to get patient %d: %w", id, err)
	}
	return p, nil
}

// ListPatients returns the full patient directory. The weekly rollup fans out
// over this list.
func (d *DB) ListPatients(ctx context.Context) ([]models.Patient, error) {
	query := `
	SELECT id, full_name, COALESCE(telegram_chat_id, 0), registered_at
	FROM patients
	ORDER BY id`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var list []models.Patient
	for rows.Next() {
		var p models.Patient
		if err := rows.Scan(&p.ID, &p.FullName, &p.ChatID, &p.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		list = append(list, p)
	}
	return list, nil
}

// ListPatientsForReminders returns the patients eligible for scheduled
// reminders. A patient with no reminder_settings row counts as enabled.
func (d *DB) ListPatientsForReminders(ctx context.Context) ([]models.Patient, error) {
	query := `
	SELECT p.id, p.full_name, COALESCE(p.telegram_chat_id, 0), p.registered_at
	FROM patients p
	LEFT JOIN reminder_settings r ON p.id = r.patient_id
	WHERE COALESCE(r.enabled, true)
	ORDER BY p.id`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients for reminders: %w", err)
	}
	defer rows.Close()

	var list []models.Patient
	for rows.Next() {
		var p models.Patient
		if err := rows.Scan(&p.ID, &p.FullName, &p.ChatID, &p.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		list = append(list, p)
	}
	return list, nil
}
