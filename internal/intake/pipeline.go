// Package intake is the synchronous ingest path: persist the raw measurement,
// classify it, and fan the judgment out to the alert ledger and dispatcher.
package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"health-assistant/internal/analyzer"
	"health-assistant/internal/models"
)

// Store is the storage capability set the pipeline needs.
type Store interface {
	InsertMeasurement(ctx context.Context, m models.Measurement) (int64, error)
	CreateAlert(ctx context.Context, alert models.Alert) (uuid.UUID, error)
}

// Dispatcher delivers judgment notifications; implemented by notifier.Service.
type Dispatcher interface {
	Notify(ctx context.Context, patientID int64, message string, kind models.NotificationKind) bool
}

// Pipeline is the composition root of the synchronous measurement path.
type Pipeline struct {
	store      Store
	dispatcher Dispatcher
	logger     *logrus.Logger
}

func New(store Store, dispatcher Dispatcher, logger *logrus.Logger) *Pipeline {
	return &Pipeline{store: store, dispatcher: dispatcher, logger: logger}
}

// Ingest persists one measurement and classifies it. Only the measurement
// write can fail the call; alerting and notification failures are logged and
// swallowed so the caller always gets the judgment back. Critical judgments
// produce an alert ledger entry, warnings a notification only.
func (p *Pipeline) Ingest(ctx context.Context, m models.Measurement) (analyzer.Judgment, error) {
	if _, err := p.store.InsertMeasurement(ctx, m); err != nil {
		return analyzer.Judgment{}, fmt.Errorf("failed to persist measurement: %w", err)
	}

	judgment := analyzer.Classify(m)

	switch judgment.Severity {
	case models.SeverityCritical:
		text := judgment.Message + "\n\n" + strings.Join(judgment.Recommendations, "\n")
		notified := p.dispatcher.Notify(ctx, m.PatientID, text, models.NotificationCritical)

		alert := models.Alert{
			PatientID:   m.PatientID,
			AlertKind:   string(m.Kind) + "_critical",
			MetricKind:  m.Kind,
			MetricValue: m.ValueString(),
			Severity:    models.SeverityCritical,
			Notified:    notified,
		}
		if _, err := p.store.CreateAlert(ctx, alert); err != nil {
			// The measurement stays; a lost alert row must not fail ingest.
			p.logger.Errorf("Failed to record alert for patient %d: %v", m.PatientID, err)
		}

	case models.SeverityWarning:
		text := judgment.Message + "\n\n" + strings.Join(judgment.Recommendations, "\n")
		p.dispatcher.Notify(ctx, m.PatientID, text, models.NotificationWarning)
	}

	return judgment, nil
}
