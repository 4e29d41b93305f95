package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"health-assistant/internal/models"
)

// GetCaregiverContact returns the caregiver on file for a patient. The second
// return value reports whether a contact exists; its absence is not an error.
func (d *DB) GetCaregiverContact(ctx context.Context, patientID int64) (models.CaregiverContact, bool, error) {
	query := `
	SELECT patient_id, name, chat_id, phone
	FROM caregiver_contacts
	WHERE patient_id = $1`

	var c models.CaregiverContact
	err := d.Pool.QueryRow(ctx, query, patientID).Scan(&c.PatientID, &c.Name, &c.ChatID, &c.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CaregiverContact{}, false, nil
		}
		return models.CaregiverContact{}, false, fmt.Errorf("failed to get caregiver contact for patient %d: %w", patientID, err)
	}
	return c, true, nil
}

// UpsertCaregiverContact inserts or replaces a patient's caregiver contact.
func (d *DB) UpsertCaregiverContact(ctx context.Context, c models.CaregiverContact) error {
	query := `
	INSERT INTO caregiver_contacts (patient_id, name, chat_id, phone, updated_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (patient_id) DO UPDATE
	SET name = EXCLUDED.name,
	    chat_id = EXCLUDED.chat_id,
	    phone = EXCLUDED.phone,
	    updated_at = NOW()`

	_, err := d.Pool.Exec(ctx, query, c.PatientID, c.Name, c.ChatID, c.Phone)
	if err != nil {
		return fmt.Errorf("failed to upsert caregiver contact for patient %d: %w", c.PatientID, err)
	}
	return nil
}
