package db

import (
	"context"
	"fmt"

	"health-assistant/internal/models"
)

// InsertMeasurement appends a raw measurement row and returns its id.
// This is the primary write of the intake pipeline; its failure is the only
// one that fails an ingest call.
func (d *DB) InsertMeasurement(ctx context.Context, m models.Measurement) (int64, error) {
	query := `
	INSERT INTO measurements (
		patient_id, kind, glucose, glucose_context, systolic, diastolic, pulse, taken_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`

	var id int64
	err := d.Pool.QueryRow(ctx, query,
		m.PatientID,
		m.Kind,
		m.Glucose,
		m.GlucoseContext,
		m.Systolic,
		m.Diastolic,
		m.Pulse,
		m.TakenAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert measurement: %w", err)
	}
	return id, nil
}
