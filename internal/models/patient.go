package models

import "time"

// Patient is a directory entry for a tracked user. ChatID is the Telegram
// chat the patient is reachable on; zero means no address is registered.
type Patient struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	ChatID       int64     `json:"chat_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ReminderSettings holds the per-patient reminder schedule. One row per
// patient, upserted; DefaultReminderSettings applies when no row exists.
type ReminderSettings struct {
	PatientID     int64  `json:"patient_id"`
	Enabled       bool   `json:"enabled"`
	MorningTime   string `json:"morning_time"`
	AfternoonTime string `json:"afternoon_time"`
	EveningTime   string `json:"evening_time"`
}

// DefaultReminderSettings returns the settings assumed for a patient who
// never configured reminders: enabled, at the standard windows.
func DefaultReminderSettings(patientID int64) ReminderSettings {
	return ReminderSettings{
		PatientID:     patientID,
		Enabled:       true,
		MorningTime:   "08:00",
		AfternoonTime: "13:00",
		EveningTime:   "20:00",
	}
}

// CaregiverContact is the clinician or relative who receives escalated
// weekly reports. Optional; escalation is a no-op without it.
type CaregiverContact struct {
	PatientID int64  `json:"patient_id"`
	Name      string `json:"name"`
	ChatID    int64  `json:"chat_id"`
	Phone     string `json:"phone"`
}
