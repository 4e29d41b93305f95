package models

import (
	"fmt"
	"strconv"
	"time"
)

// MetricKind identifies which vital sign a measurement or alert refers to.
type MetricKind string

const (
	MetricGlucose  MetricKind = "glucose"
	MetricPressure MetricKind = "pressure"
	MetricPulse    MetricKind = "pulse"
)

// GlucoseContext is the meal context a glucose reading was taken in.
// Fasting and pre-meal readings share the same reference range.
type GlucoseContext string

const (
	ContextFasting  GlucoseContext = "fasting"
	ContextPreMeal  GlucoseContext = "pre-meal"
	ContextPostMeal GlucoseContext = "post-meal"
	ContextOther    GlucoseContext = "other"
)

// Measurement is one self-reported vital sign reading. It is created by the
// intake boundary with already-validated values and never mutated afterwards.
type Measurement struct {
	PatientID      int64          `json:"patient_id"`
	Kind           MetricKind     `json:"kind"`
	Glucose        float64        `json:"glucose,omitempty"`
	GlucoseContext GlucoseContext `json:"glucose_context,omitempty"`
	Systolic       int            `json:"systolic,omitempty"`
	Diastolic      int            `json:"diastolic,omitempty"`
	Pulse          int            `json:"pulse,omitempty"`
	TakenAt        time.Time      `json:"taken_at"`
}

// ValueString renders the measured value the way it is snapshotted on alerts
// and in caregiver reports.
func (m Measurement) ValueString() string {
	switch m.Kind {
	case MetricGlucose:
		return strconv.FormatFloat(m.Glucose, 'f', 1, 64)
	case MetricPressure:
		return fmt.Sprintf("%d/%d", m.Systolic, m.Diastolic)
	case MetricPulse:
		return strconv.Itoa(m.Pulse)
	default:
		return ""
	}
}
