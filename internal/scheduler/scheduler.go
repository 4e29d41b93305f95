// Package scheduler drives the time-based side of the assistant: three daily
// reminder windows and a weekly rollup that escalates accumulated critical
// alerts to the patient's caregiver.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"health-assistant/internal/models"
)

// Store is the storage capability set the scheduler needs.
type Store interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
	ListPatientsForReminders(ctx context.Context) ([]models.Patient, error)
	CriticalAlertsSince(ctx context.Context, patientID int64, since time.Time) ([]models.Alert, error)
}

// Dispatcher is the outbound side; implemented by notifier.Service.
type Dispatcher interface {
	Notify(ctx context.Context, patientID int64, message string, kind models.NotificationKind) bool
	SendReportToDoctor(ctx context.Context, patientID int64, report string) bool
}

// Trigger is one named recurring job. Weekday nil means daily. lastFired is
// the only process-wide scheduling state; a trigger fires at most once per
// scheduled window and a window missed by more than fireWindow is skipped,
// not replayed.
type Trigger struct {
	Name      string
	Hour      int
	Minute    int
	Weekday   *time.Weekday
	Handler   func(ctx context.Context, now time.Time)
	lastFired time.Time
}

// fireWindow is how long after its scheduled time a trigger may still fire.
const fireWindow = time.Hour

// due reports whether the trigger should fire at now (already in the
// scheduler's location).
func (t *Trigger) due(now time.Time) bool {
	if t.Weekday != nil && now.Weekday() != *t.Weekday {
		return false
	}
	sched := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
	if now.Before(sched) || now.Sub(sched) >= fireWindow {
		return false
	}
	return t.lastFired.Before(sched)
}

// Scheduler owns the trigger set. Each trigger runs on its own goroutine lane
// so a long weekly batch never delays the next daily reminder.
type Scheduler struct {
	store      Store
	dispatcher Dispatcher
	logger     *logrus.Logger
	loc        *time.Location
	tick       time.Duration
	triggers   []*Trigger
}

// New builds a Scheduler with the standard trigger set, evaluated in loc.
func New(store Store, dispatcher Dispatcher, logger *logrus.Logger, loc *time.Location) *Scheduler {
	s := &Scheduler{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		loc:        loc,
		tick:       30 * time.Second,
	}
	sunday := time.Sunday
	s.triggers = []*Trigger{
		{Name: "morning-reminders", Hour: 8, Handler: func(ctx context.Context, _ time.Time) {
			s.SendReminders(ctx, WindowMorning)
		}},
		{Name: "afternoon-reminders", Hour: 13, Handler: func(ctx context.Context, _ time.Time) {
			s.SendReminders(ctx, WindowAfternoon)
		}},
		{Name: "evening-reminders", Hour: 20, Handler: func(ctx context.Context, _ time.Time) {
			s.SendReminders(ctx, WindowEvening)
		}},
		{Name: "weekly-report", Hour: 21, Weekday: &sunday, Handler: s.RunWeeklyReports},
	}
	return s
}

// Start launches one lane per trigger. Lanes stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, wg *sync.WaitGroup) {
	for _, t := range s.triggers {
		wg.Add(1)
		go s.runLane(ctx, wg, t)
	}
	s.logger.Infof("Scheduler started with %d triggers (tz=%s)", len(s.triggers), s.loc)
}

func (s *Scheduler) runLane(ctx context.Context, wg *sync.WaitGroup, t *Trigger) {
	defer wg.Done()
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("Trigger %s stopped", t.Name)
			return
		case <-ticker.C:
			now := time.Now().In(s.loc)
			if !t.due(now) {
				continue
			}
			t.lastFired = now
			s.logger.Infof("Trigger %s firing at %s", t.Name, now.Format("15:04"))
			t.Handler(ctx, now)
		}
	}
}
