// Package kafka is the asynchronous intake lane: measurement events published
// by upstream capture services are fed into the same pipeline as the HTTP
// boundary.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"health-assistant/internal/intake"
	"health-assistant/internal/models"
)

// measurementEvent is the wire shape of one captured reading.
type measurementEvent struct {
	PatientID int64     `json:"patient_id"`
	Kind      string    `json:"kind"`
	Glucose   float64   `json:"glucose,omitempty"`
	Context   string    `json:"context,omitempty"`
	Systolic  int       `json:"systolic,omitempty"`
	Diastolic int       `json:"diastolic,omitempty"`
	Pulse     int       `json:"pulse,omitempty"`
	TakenAt   time.Time `json:"taken_at"`
}

type Consumer struct {
	reader   *kafka.Reader
	pipeline *intake.Pipeline
	logger   *logrus.Logger
}

func NewConsumer(broker, topic, groupID string, pipeline *intake.Pipeline, logger *logrus.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, pipeline: pipeline, logger: logger}
}

// Start consumes measurement events until ctx is cancelled. Malformed events
// are logged and skipped; pipeline errors do not stop consumption.
func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info("Kafka measurement consumer started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Kafka consumer stopping")
				return
			}
			c.logger.Errorf("Read message failed: %v", err)
			continue
		}

		var ev measurementEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.logger.Errorf("Unmarshal measurement event failed: %v", err)
			continue
		}
		if ev.PatientID < 1 {
			c.logger.Error("Invalid measurement event: missing patient_id")
			continue
		}

		m, ok := eventToMeasurement(ev)
		if !ok {
			c.logger.Errorf("Invalid measurement event for patient %d: unknown kind %q", ev.PatientID, ev.Kind)
			continue
		}

		judgment, err := c.pipeline.Ingest(ctx, m)
		if err != nil {
			c.logger.Errorf("Ingest failed for patient %d: %v", ev.PatientID, err)
			continue
		}
		c.logger.Infof("Processed %s event for patient %d (severity=%s)", m.Kind, ev.PatientID, judgment.Severity)
	}
}

func eventToMeasurement(ev measurementEvent) (models.Measurement, bool) {
	takenAt := ev.TakenAt
	if takenAt.IsZero() {
		takenAt = time.Now()
	}
	m := models.Measurement{
		PatientID: ev.PatientID,
		TakenAt:   takenAt,
	}
	switch models.MetricKind(ev.Kind) {
	case models.MetricGlucose:
		m.Kind = models.MetricGlucose
		m.Glucose = ev.Glucose
		m.GlucoseContext = models.GlucoseContext(ev.Context)
		if m.GlucoseContext == "" {
			m.GlucoseContext = models.ContextFasting
		}
	case models.MetricPressure:
		m.Kind = models.MetricPressure
		m.Systolic = ev.Systolic
		m.Diastolic = ev.Diastolic
	case models.MetricPulse:
		m.Kind = models.MetricPulse
		m.Pulse = ev.Pulse
	default:
		return models.Measurement{}, false
	}
	return m, true
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Kafka reader close failed: %v", err)
	}
}
