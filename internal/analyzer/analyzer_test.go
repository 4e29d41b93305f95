package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"health-assistant/internal/models"
)

func TestAnalyzeGlucose_FastingBands(t *testing.T) {
	cases := []struct {
		name     string
		value    float64
		expected models.Severity
	}{
		{"critically low", 2.0, models.SeverityCritical},
		{"just below critical boundary", 3.4, models.SeverityCritical},
		{"critical boundary is warning", 3.5, models.SeverityWarning},
		{"low warning", 3.9, models.SeverityWarning},
		{"lower normal boundary", 4.0, models.SeverityNormal},
		{"mid range", 5.5, models.SeverityNormal},
		{"upper normal boundary", 7.0, models.SeverityNormal},
		{"high warning", 7.1, models.SeverityWarning},
		{"upper warning boundary", 13.0, models.SeverityWarning},
		{"critically high", 13.1, models.SeverityCritical},
		{"very high", 20.0, models.SeverityCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j := AnalyzeGlucose(tc.value, models.ContextFasting)
			assert.Equal(t, tc.expected, j.Severity)
		})
	}
}

func TestAnalyzeGlucose_PreMealMatchesFasting(t *testing.T) {
	for _, v := range []float64{3.0, 3.8, 5.0, 7.5, 14.0} {
		fasting := AnalyzeGlucose(v, models.ContextFasting)
		preMeal := AnalyzeGlucose(v, models.ContextPreMeal)
		assert.Equal(t, fasting.Severity, preMeal.Severity, "value %.1f", v)
	}
}

func TestAnalyzeGlucose_PostMealBands(t *testing.T) {
	cases := []struct {
		value    float64
		expected models.Severity
	}{
		{3.0, models.SeverityCritical},
		{3.8, models.SeverityWarning},
		{4.0, models.SeverityNormal},
		{8.0, models.SeverityNormal},  // warning when fasting, fine after a meal
		{10.0, models.SeverityNormal},
		{10.5, models.SeverityWarning},
		{13.5, models.SeverityCritical},
	}

	for _, tc := range cases {
		j := AnalyzeGlucose(tc.value, models.ContextPostMeal)
		assert.Equal(t, tc.expected, j.Severity, "value %.1f", tc.value)
	}
}

func TestAnalyzeGlucose_OtherContext(t *testing.T) {
	assert.Equal(t, models.SeverityNormal, AnalyzeGlucose(4.0, models.ContextOther).Severity)
	assert.Equal(t, models.SeverityNormal, AnalyzeGlucose(10.0, models.ContextOther).Severity)
	assert.Equal(t, models.SeverityWarning, AnalyzeGlucose(3.9, models.ContextOther).Severity)
	assert.Equal(t, models.SeverityWarning, AnalyzeGlucose(10.1, models.ContextOther).Severity)
	assert.Equal(t, models.SeverityCritical, AnalyzeGlucose(3.4, models.ContextOther).Severity)
	assert.Equal(t, models.SeverityCritical, AnalyzeGlucose(13.1, models.ContextOther).Severity)
}

func TestAnalyzeBloodPressure_PrecedenceOrder(t *testing.T) {
	// A hypertensive crisis must never be downgraded by the later
	// low-pressure rules, whichever component triggers it.
	j := AnalyzeBloodPressure(185, 65)
	assert.Equal(t, models.SeverityCritical, j.Severity)

	j = AnalyzeBloodPressure(150, 125)
	assert.Equal(t, models.SeverityCritical, j.Severity)

	// Critically low beats the warning rules too.
	j = AnalyzeBloodPressure(85, 95)
	assert.Equal(t, models.SeverityCritical, j.Severity)
}

func TestAnalyzeBloodPressure_Bands(t *testing.T) {
	cases := []struct {
		name               string
		systolic, diastolic int
		expected           models.Severity
	}{
		{"hypertensive crisis systolic", 180, 80, models.SeverityCritical},
		{"hypertensive crisis diastolic", 120, 120, models.SeverityCritical},
		{"hypotension systolic", 89, 75, models.SeverityCritical},
		{"hypotension diastolic", 110, 59, models.SeverityCritical},
		{"hypertension warning systolic", 140, 80, models.SeverityWarning},
		{"hypertension warning diastolic", 120, 90, models.SeverityWarning},
		{"low warning systolic", 99, 72, models.SeverityWarning},
		{"low warning diastolic", 110, 69, models.SeverityWarning},
		{"normal", 120, 80, models.SeverityNormal},
		{"normal lower edge", 100, 70, models.SeverityNormal},
		{"normal upper edge", 139, 89, models.SeverityNormal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			j := AnalyzeBloodPressure(tc.systolic, tc.diastolic)
			assert.Equal(t, tc.expected, j.Severity)
		})
	}
}

func TestAnalyzePulse_Boundaries(t *testing.T) {
	cases := []struct {
		value    int
		expected models.Severity
	}{
		{49, models.SeverityCritical},
		{50, models.SeverityWarning},
		{59, models.SeverityWarning},
		{60, models.SeverityNormal},
		{100, models.SeverityNormal},
		{101, models.SeverityWarning},
		{120, models.SeverityWarning},
		{121, models.SeverityCritical},
	}

	for _, tc := range cases {
		j := AnalyzePulse(tc.value)
		assert.Equal(t, tc.expected, j.Severity, "pulse %d", tc.value)
	}
}

func TestClassify_Dispatch(t *testing.T) {
	glucose := models.Measurement{Kind: models.MetricGlucose, Glucose: 2.0, GlucoseContext: models.ContextFasting}
	assert.Equal(t, models.SeverityCritical, Classify(glucose).Severity)

	pressure := models.Measurement{Kind: models.MetricPressure, Systolic: 120, Diastolic: 80}
	assert.Equal(t, models.SeverityNormal, Classify(pressure).Severity)

	pulse := models.Measurement{Kind: models.MetricPulse, Pulse: 105}
	assert.Equal(t, models.SeverityWarning, Classify(pulse).Severity)
}

func TestClassify_Deterministic(t *testing.T) {
	m := models.Measurement{Kind: models.MetricGlucose, Glucose: 14.2, GlucoseContext: models.ContextPostMeal}
	first := Classify(m)
	second := Classify(m)
	assert.Equal(t, first, second)
}

func TestJudgments_CarryGuidance(t *testing.T) {
	// Every non-normal judgment must come with a recommendation script.
	nonNormal := []Judgment{
		AnalyzeGlucose(2.0, models.ContextFasting),
		AnalyzeGlucose(3.8, models.ContextFasting),
		AnalyzeGlucose(11.0, models.ContextPostMeal),
		AnalyzeBloodPressure(190, 100),
		AnalyzeBloodPressure(145, 85),
		AnalyzeBloodPressure(95, 72),
		AnalyzePulse(45),
		AnalyzePulse(110),
	}
	for _, j := range nonNormal {
		require.NotEqual(t, models.SeverityNormal, j.Severity)
		assert.NotEmpty(t, j.Message)
		assert.NotEmpty(t, j.Recommendations)
	}
}
