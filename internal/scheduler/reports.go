package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"health-assistant/internal/models"
)

// Window names one of the daily reminder slots.
type Window string

const (
	WindowMorning   Window = "morning"
	WindowAfternoon Window = "afternoon"
	WindowEvening   Window = "evening"
)

// escalationThreshold is how many critical alerts in the trailing week pull
// the caregiver in.
const escalationThreshold = 3

var reminderMessages = map[Window]string{
	WindowMorning:   "Good morning! Time to measure your fasting glucose",
	WindowAfternoon: "Lunchtime! Don't forget to measure your glucose before eating",
	WindowEvening:   "Good evening! Time to measure your glucose before dinner or bed",
}

// SendReminders fans a window-specific reminder out over every patient with
// reminders enabled. One patient's failure never stops the batch; the
// dispatcher also re-checks opt-out per patient.
func (s *Scheduler) SendReminders(ctx context.Context, window Window) {
	patients, err := s.store.ListPatientsForReminders(ctx)
	if err != nil {
		s.logger.Errorf("Failed to list patients for %s reminders: %v", window, err)
		return
	}

	sent := 0
	for _, p := range patients {
		if s.dispatcher.Notify(ctx, p.ID, reminderMessages[window], models.NotificationReminder) {
			sent++
		}
	}
	s.logger.Infof("Reminders (%s) dispatched to %d/%d patients", window, sent, len(patients))
}

// RunWeeklyReports aggregates each patient's trailing-7-day critical alerts
// and escalates or informs accordingly. Per-patient failures are isolated.
func (s *Scheduler) RunWeeklyReports(ctx context.Context, now time.Time) {
	patients, err := s.store.ListPatients(ctx)
	if err != nil {
		s.logger.Errorf("Failed to list patients for weekly reports: %v", err)
		return
	}

	for _, p := range patients {
		s.processWeekly(ctx, p, now)
	}
	s.logger.Infof("Weekly reports processed for %d patients", len(patients))
}

// processWeekly decides between no action, informing the patient, and
// escalating to the caregiver. Only critical alerts count toward the
// threshold; a patient who is persistently warning-level is never escalated.
func (s *Scheduler) processWeekly(ctx context.Context, p models.Patient, now time.Time) {
	alerts, err := s.store.CriticalAlertsSince(ctx, p.ID, now.Add(-7*24*time.Hour))
	if err != nil {
		s.logger.Errorf("Failed to load critical alerts for patient %d: %v", p.ID, err)
		return
	}

	switch {
	case len(alerts) >= escalationThreshold:
		s.logger.Warnf("Patient %d accumulated %d critical episodes this week, escalating", p.ID, len(alerts))
		report := FormatWeeklyReport(p.FullName, alerts)
		s.dispatcher.SendReportToDoctor(ctx, p.ID, report)
		s.dispatcher.Notify(ctx, p.ID, fmt.Sprintf(
			"Over the past week you had %d critical episodes. A report has been sent to your doctor. Please contact your doctor for a consultation.",
			len(alerts)), models.NotificationWarning)
	case len(alerts) > 0:
		s.dispatcher.Notify(ctx, p.ID, fmt.Sprintf(
			"Weekly summary: %d critical episode(s) this week. Keep a close eye on your readings.",
			len(alerts)), models.NotificationInfo)
	}
}

var metricLabels = map[models.MetricKind]string{
	models.MetricGlucose:  "Glucose level",
	models.MetricPressure: "Blood pressure",
	models.MetricPulse:    "Pulse",
}

var alertKindLabels = map[string]string{
	"glucose_critical":  "Critical glucose level",
	"pressure_critical": "Critical blood pressure",
	"pulse_critical":    "Critical pulse",
}

// FormatWeeklyReport renders the caregiver-facing report. Alerts are expected
// most-recent-first, as CriticalAlertsSince returns them.
func FormatWeeklyReport(patientName string, alerts []models.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %s\n", patientName)
	b.WriteString("Period: last 7 days\n")
	fmt.Fprintf(&b, "Critical episodes: %d\n\n", len(alerts))
	b.WriteString("Details:\n")

	for i, a := range alerts {
		fmt.Fprintf(&b, "\n%d. %s %s\n", i+1, a.CreatedAt.Format("02.01.2006"), a.CreatedAt.Format("15:04"))
		label, ok := metricLabels[a.MetricKind]
		if !ok {
			label = string(a.MetricKind)
		}
		fmt.Fprintf(&b, "   Metric: %s\n", label)
		fmt.Fprintf(&b, "   Value: %s\n", a.MetricValue)
		kind, ok := alertKindLabels[a.AlertKind]
		if !ok {
			kind = a.AlertKind
		}
		fmt.Fprintf(&b, "   Event: %s\n", kind)
	}

	b.WriteString("\n\nRecommendation: a consultation and possible treatment adjustment are required.")
	return b.String()
}
