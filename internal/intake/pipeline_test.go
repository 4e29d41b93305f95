package intake

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"health-assistant/internal/models"
)

type fakeStore struct {
	measurements []models.Measurement
	alerts       []models.Alert
	insertErr    error
	alertErr     error
}

func (f *fakeStore) InsertMeasurement(_ context.Context, m models.Measurement) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.measurements = append(f.measurements, m)
	return int64(len(f.measurements)), nil
}

func (f *fakeStore) CreateAlert(_ context.Context, alert models.Alert) (uuid.UUID, error) {
	if f.alertErr != nil {
		return uuid.Nil, f.alertErr
	}
	f.alerts = append(f.alerts, alert)
	return uuid.New(), nil
}

type notifyCall struct {
	patientID int64
	message   string
	kind      models.NotificationKind
}

type fakeDispatcher struct {
	calls  []notifyCall
	result bool
}

func (f *fakeDispatcher) Notify(_ context.Context, patientID int64, message string, kind models.NotificationKind) bool {
	f.calls = append(f.calls, notifyCall{patientID, message, kind})
	return f.result
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestIngest_CriticalGlucose(t *testing.T) {
	store := &fakeStore{}
	dispatcher := &fakeDispatcher{result: true}
	p := New(store, dispatcher, testLogger())

	m := models.Measurement{
		PatientID:      1,
		Kind:           models.MetricGlucose,
		Glucose:        2.0,
		GlucoseContext: models.ContextFasting,
	}
	judgment, err := p.Ingest(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, models.SeverityCritical, judgment.Severity)

	require.Len(t, store.measurements, 1)

	require.Len(t, store.alerts, 1)
	alert := store.alerts[0]
	assert.Equal(t, int64(1), alert.PatientID)
	assert.Equal(t, "glucose_critical", alert.AlertKind)
	assert.Equal(t, models.MetricGlucose, alert.MetricKind)
	assert.Equal(t, "2.0", alert.MetricValue)
	assert.Equal(t, models.SeverityCritical, alert.Severity)
	assert.True(t, alert.Notified)

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, models.NotificationCritical, dispatcher.calls[0].kind)
	assert.Contains(t, dispatcher.calls[0].message, judgment.Message)
	for _, rec := range judgment.Recommendations {
		assert.Contains(t, dispatcher.calls[0].message, rec)
	}
}

func TestIngest_WarningPulseSkipsAlertLedger(t *testing.T) {
	store := &fakeStore{}
	dispatcher := &fakeDispatcher{result: true}
	p := New(store, dispatcher, testLogger())

	m := models.Measurement{PatientID: 1, Kind: models.MetricPulse, Pulse: 105}
	judgment, err := p.Ingest(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, models.SeverityWarning, judgment.Severity)

	assert.Empty(t, store.alerts)
	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, models.NotificationWarning, dispatcher.calls[0].kind)
}

func TestIngest_NormalReadingHasNoSideEffects(t *testing.T) {
	store := &fakeStore{}
	dispatcher := &fakeDispatcher{result: true}
	p := New(store, dispatcher, testLogger())

	m := models.Measurement{PatientID: 1, Kind: models.MetricPressure, Systolic: 120, Diastolic: 80}
	judgment, err := p.Ingest(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, models.SeverityNormal, judgment.Severity)

	assert.Len(t, store.measurements, 1)
	assert.Empty(t, store.alerts)
	assert.Empty(t, dispatcher.calls)
}

func TestIngest_MeasurementWriteFailureIsFatal(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("db down")}
	dispatcher := &fakeDispatcher{result: true}
	p := New(store, dispatcher, testLogger())

	m := models.Measurement{PatientID: 1, Kind: models.MetricPulse, Pulse: 45}
	_, err := p.Ingest(context.Background(), m)
	require.Error(t, err)

	// Nothing downstream runs when the primary write fails.
	assert.Empty(t, store.alerts)
	assert.Empty(t, dispatcher.calls)
}

func TestIngest_AlertWriteFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{alertErr: errors.New("alerts table locked")}
	dispatcher := &fakeDispatcher{result: true}
	p := New(store, dispatcher, testLogger())

	m := models.Measurement{PatientID: 1, Kind: models.MetricPulse, Pulse: 130}
	judgment, err := p.Ingest(context.Background(), m)
	require.NoError(t, err, "a lost alert row must not fail ingest")
	assert.Equal(t, models.SeverityCritical, judgment.Severity)
	assert.Len(t, store.measurements, 1)
}

func TestIngest_NotifiedFlagFollowsDispatchOutcome(t *testing.T) {
	store := &fakeStore{}
	dispatcher := &fakeDispatcher{result: false}
	p := New(store, dispatcher, testLogger())

	m := models.Measurement{PatientID: 1, Kind: models.MetricPressure, Systolic: 190, Diastolic: 100}
	_, err := p.Ingest(context.Background(), m)
	require.NoError(t, err)

	require.Len(t, store.alerts, 1)
	assert.False(t, store.alerts[0].Notified)
	assert.Equal(t, "pressure_critical", store.alerts[0].AlertKind)
	assert.Equal(t, "190/100", store.alerts[0].MetricValue)
}
