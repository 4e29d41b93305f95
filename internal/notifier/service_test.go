package notifier

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"health-assistant/internal/models"
)

type fakeStore struct {
	mu            sync.Mutex
	patients      map[int64]models.Patient
	settings      map[int64]models.ReminderSettings
	caregivers    map[int64]models.CaregiverContact
	notifications []models.Notification
	notifErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		patients:   make(map[int64]models.Patient),
		settings:   make(map[int64]models.ReminderSettings),
		caregivers: make(map[int64]models.CaregiverContact),
	}
}

func (f *fakeStore) GetPatient(_ context.Context, id int64) (models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok {
		return models.Patient{}, errors.New("no rows in result set")
	}
	return p, nil
}

func (f *fakeStore) GetReminderSettings(_ context.Context, patientID int64) (models.ReminderSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.settings[patientID]; ok {
		return s, nil
	}
	return models.DefaultReminderSettings(patientID), nil
}

func (f *fakeStore) GetCaregiverContact(_ context.Context, patientID int64) (models.CaregiverContact, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.caregivers[patientID]
	return c, ok, nil
}

func (f *fakeStore) CreateNotification(_ context.Context, n models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notifErr != nil {
		return f.notifErr
	}
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeStore) rows() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Notification(nil), f.notifications...)
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSink struct {
	sent chan sentMessage
	err  error
}

func newFakeSink() *fakeSink {
	return &fakeSink{sent: make(chan sentMessage, 16)}
}

func (f *fakeSink) Send(_ context.Context, chatID int64, text string) error {
	f.sent <- sentMessage{chatID: chatID, text: text}
	return f.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(t *testing.T, store *fakeStore, sink *fakeSink) *Service {
	t.Helper()
	svc := New(store, sink, testLogger(), 16, 1, time.Second)
	var wg sync.WaitGroup
	svc.Start(&wg)
	t.Cleanup(func() {
		svc.Stop()
		wg.Wait()
	})
	return svc
}

func waitForSend(t *testing.T, sink *fakeSink) sentMessage {
	t.Helper()
	select {
	case msg := <-sink.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound delivery")
		return sentMessage{}
	}
}

func TestNotify_RecordsLedgerAndDelivers(t *testing.T) {
	store := newFakeStore()
	store.patients[1] = models.Patient{ID: 1, FullName: "Anna", ChatID: 555}
	sink := newFakeSink()
	svc := newTestService(t, store, sink)

	ok := svc.Notify(context.Background(), 1, "Glucose is critically low", models.NotificationCritical)
	require.True(t, ok)

	rows := store.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].PatientID)
	assert.Equal(t, models.NotificationCritical, rows[0].Kind)
	assert.Equal(t, "Glucose is critically low", rows[0].Message)
	assert.False(t, rows[0].IsRead)

	msg := waitForSend(t, sink)
	assert.Equal(t, int64(555), msg.chatID)
	assert.Contains(t, msg.text, "Glucose is critically low")
}

func TestNotify_NoRegisteredChatIsNoOp(t *testing.T) {
	store := newFakeStore()
	store.patients[1] = models.Patient{ID: 1, FullName: "Anna", ChatID: 0}
	svc := newTestService(t, store, newFakeSink())

	ok := svc.Notify(context.Background(), 1, "hello", models.NotificationInfo)
	assert.False(t, ok)
	assert.Empty(t, store.rows())
}

func TestNotify_UnknownPatientIsNoOp(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store, newFakeSink())

	ok := svc.Notify(context.Background(), 42, "hello", models.NotificationInfo)
	assert.False(t, ok)
	assert.Empty(t, store.rows())
}

func TestNotify_ReminderHonorsOptOut(t *testing.T) {
	store := newFakeStore()
	store.patients[1] = models.Patient{ID: 1, FullName: "Anna", ChatID: 555}
	settings := models.DefaultReminderSettings(1)
	settings.Enabled = false
	store.settings[1] = settings
	sink := newFakeSink()
	svc := newTestService(t, store, sink)

	ok := svc.Notify(context.Background(), 1, "time to measure", models.NotificationReminder)
	assert.False(t, ok)
	assert.Empty(t, store.rows())

	// Opt-out governs reminders only; a critical alert still goes through.
	ok = svc.Notify(context.Background(), 1, "critical reading", models.NotificationCritical)
	require.True(t, ok)
	require.Len(t, store.rows(), 1)
	assert.Equal(t, models.NotificationCritical, store.rows()[0].Kind)
}

func TestNotify_ReminderDefaultsToEnabled(t *testing.T) {
	store := newFakeStore()
	store.patients[1] = models.Patient{ID: 1, FullName: "Anna", ChatID: 555}
	sink := newFakeSink()
	svc := newTestService(t, store, sink)

	// No settings row on file: the default is enabled.
	ok := svc.Notify(context.Background(), 1, "time to measure", models.NotificationReminder)
	require.True(t, ok)
	require.Len(t, store.rows(), 1)
	assert.Equal(t, models.NotificationReminder, store.rows()[0].Kind)
}

func TestNotify_SinkFailureKeepsLedgerRow(t *testing.T) {
	store := newFakeStore()
	store.patients[1] = models.Patient{ID: 1, FullName: "Anna", ChatID: 555}
	sink := newFakeSink()
	sink.err = errors.New("telegram unavailable")
	svc := newTestService(t, store, sink)

	ok := svc.Notify(context.Background(), 1, "critical reading", models.NotificationCritical)
	require.True(t, ok)

	// Delivery was attempted and failed; the ledger row stays untouched.
	waitForSend(t, sink)
	require.Len(t, store.rows(), 1)
	assert.Equal(t, "critical reading", store.rows()[0].Message)
}

func TestNotify_LedgerWriteFailureReturnsFalse(t *testing.T) {
	store := newFakeStore()
	store.patients[1] = models.Patient{ID: 1, FullName: "Anna", ChatID: 555}
	store.notifErr = errors.New("db down")
	svc := newTestService(t, store, newFakeSink())

	ok := svc.Notify(context.Background(), 1, "hello", models.NotificationInfo)
	assert.False(t, ok)
}

func TestSendReportToDoctor_NoCaregiverIsSilentNoOp(t *testing.T) {
	store := newFakeStore()
	store.patients[1] = models.Patient{ID: 1, FullName: "Anna", ChatID: 555}
	sink := newFakeSink()
	svc := newTestService(t, store, sink)

	ok := svc.SendReportToDoctor(context.Background(), 1, "report body")
	assert.False(t, ok)
	assert.Empty(t, store.rows())
	select {
	case msg := <-sink.sent:
		t.Fatalf("unexpected delivery to chat %d", msg.chatID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSendReportToDoctor_DeliversToCaregiver(t *testing.T) {
	store := newFakeStore()
	store.patients[1] = models.Patient{ID: 1, FullName: "Anna", ChatID: 555}
	store.caregivers[1] = models.CaregiverContact{PatientID: 1, Name: "Dr. Petrov", ChatID: 777}
	sink := newFakeSink()
	svc := newTestService(t, store, sink)

	ok := svc.SendReportToDoctor(context.Background(), 1, "Patient: Anna\nCritical episodes: 3")
	require.True(t, ok)

	rows := store.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationReport, rows[0].Kind)
	assert.Contains(t, rows[0].Message, "Dr. Petrov")

	msg := waitForSend(t, sink)
	assert.Equal(t, int64(777), msg.chatID)
	assert.True(t, strings.Contains(msg.text, "WEEKLY REPORT"))
	assert.Contains(t, msg.text, "Critical episodes: 3")
}
