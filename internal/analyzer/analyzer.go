// Package analyzer classifies self-reported vital sign readings against
// clinical reference ranges and attaches actionable guidance. All functions
// are pure: same reading, same judgment.
package analyzer

import (
	"fmt"

	"health-assistant/internal/models"
)

// Judgment is the outcome of classifying one measurement.
type Judgment struct {
	Severity        models.Severity `json:"severity"`
	Message         string          `json:"message"`
	Recommendations []string        `json:"recommendations"`
}

// Classify dispatches a measurement to the classifier for its metric kind.
func Classify(m models.Measurement) Judgment {
	switch m.Kind {
	case models.MetricGlucose:
		return AnalyzeGlucose(m.Glucose, m.GlucoseContext)
	case models.MetricPressure:
		return AnalyzeBloodPressure(m.Systolic, m.Diastolic)
	case models.MetricPulse:
		return AnalyzePulse(m.Pulse)
	default:
		return Judgment{Severity: models.SeverityNormal}
	}
}

// AnalyzeGlucose classifies a glucose reading in mmol/L. The critical bands
// (<3.5, >13.0) apply regardless of meal context; the warning and normal
// bands depend on it. Fasting and pre-meal share the 4.0-7.0 range,
// post-meal and other readings use 4.0-10.0.
func AnalyzeGlucose(value float64, context models.GlucoseContext) Judgment {
	if value < 3.5 {
		return Judgment{
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("DANGER! Glucose is critically low: %.1f mmol/L", value),
			Recommendations: []string{
				"URGENT: take 15-20 g of fast-acting carbohydrates:",
				"- 3-4 sugar cubes",
				"- 150 ml of sweet juice",
				"- 1 tablespoon of honey",
				"Repeat the measurement in 15 minutes",
				"If it does not improve, call emergency services (103, 112)",
			},
		}
	}

	if value > 13.0 {
		return Judgment{
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("DANGER! Glucose is critically high: %.1f mmol/L", value),
			Recommendations: []string{
				"Contact your doctor immediately!",
				"Check when you last took your medication",
				"Drink plenty of water",
				"Do NOT engage in physical activity",
				"Be ready to tell your doctor:",
				"- when you last took insulin or medication",
				"- what you ate today",
				"- whether you feel nausea, weakness or thirst",
			},
		}
	}

	switch context {
	case models.ContextFasting, models.ContextPreMeal:
		if value < 4.0 {
			return Judgment{
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("Glucose is slightly low: %.1f mmol/L (fasting range: 4.0-7.0)", value),
				Recommendations: []string{
					"Eat something with carbohydrates before your next meal",
					"Check the level again in 30 minutes",
					"Your medication dose may need adjusting - discuss with your doctor",
				},
			}
		}
		if value > 7.0 {
			return Judgment{
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("Glucose is elevated: %.1f mmol/L (fasting range: 4.0-7.0)", value),
				Recommendations: []string{
					"Consider light physical activity (a 15-20 minute walk)",
					"Drink a glass of water",
					"Watch what you eat for the rest of the day",
					"Check whether you missed a medication dose",
				},
			}
		}
		return Judgment{
			Severity: models.SeverityNormal,
			Message:  fmt.Sprintf("Great! Glucose is within range: %.1f mmol/L", value),
			Recommendations: []string{
				"Keep it up!",
				"Stick to your meal and medication schedule",
			},
		}

	case models.ContextPostMeal:
		if value < 4.0 {
			return Judgment{
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("Glucose is low after a meal: %.1f mmol/L", value),
				Recommendations: []string{
					"Take 10-15 g of fast-acting carbohydrates",
					"Your insulin dose may be too high - discuss with your doctor",
					"Check the level again in 15 minutes",
				},
			}
		}
		if value > 10.0 {
			return Judgment{
				Severity: models.SeverityWarning,
				Message:  fmt.Sprintf("Glucose is elevated after a meal: %.1f mmol/L (target: up to 10.0)", value),
				Recommendations: []string{
					"Review what you ate (possibly too many carbohydrates)",
					"A short walk helps bring the level down",
					"The dose may need adjusting - discuss with your doctor",
				},
			}
		}
		return Judgment{
			Severity: models.SeverityNormal,
			Message:  fmt.Sprintf("Good! Post-meal glucose is within range: %.1f mmol/L", value),
			Recommendations: []string{
				"Excellent control!",
				"Keep it going!",
			},
		}
	}

	// Readings taken outside a known meal context get the wide band.
	if value >= 4.0 && value <= 10.0 {
		return Judgment{
			Severity: models.SeverityNormal,
			Message:  fmt.Sprintf("Glucose is within acceptable limits: %.1f mmol/L", value),
		}
	}
	return Judgment{
		Severity: models.SeverityWarning,
		Message:  fmt.Sprintf("Glucose needs attention: %.1f mmol/L", value),
		Recommendations: []string{
			"Keep an eye on the trend",
			"Stick to your medication schedule",
		},
	}
}

// AnalyzeBloodPressure classifies a blood pressure reading in mmHg. Rules are
// evaluated in order, first match wins, so a hypertensive crisis is never
// downgraded by the low-diastolic warning rule.
func AnalyzeBloodPressure(systolic, diastolic int) Judgment {
	if systolic >= 180 || diastolic >= 120 {
		return Judgment{
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("DANGER! Critically high blood pressure: %d/%d mmHg", systolic, diastolic),
			Recommendations: []string{
				"Seek medical help URGENTLY!",
				"Call emergency services (103, 112)",
				"Take the pressure-lowering medication your doctor prescribed",
				"Lie down with your head elevated",
				"Try to breathe deeply and calmly",
				"Do NOT take a double dose of medication!",
			},
		}
	}

	if systolic < 90 || diastolic < 60 {
		return Judgment{
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("ATTENTION! Critically low blood pressure: %d/%d mmHg", systolic, diastolic),
			Recommendations: []string{
				"Lie down and raise your legs above heart level",
				"Drink some water",
				"Eating something salty can help",
				"If you feel weak or dizzy, call emergency services",
				"Contact your doctor to adjust your treatment",
			},
		}
	}

	if systolic >= 140 || diastolic >= 90 {
		return Judgment{
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Elevated blood pressure: %d/%d mmHg (normal: 100/70 - 140/90)", systolic, diastolic),
			Recommendations: []string{
				"Check whether you took your medication today",
				"Try to relax and avoid stress",
				"Limit salt in your food",
				"Avoid caffeine",
				"Repeat the measurement in 15-30 minutes",
				"If the pressure does not come down, contact your doctor",
			},
		}
	}

	if systolic < 100 || diastolic < 70 {
		return Judgment{
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Low blood pressure: %d/%d mmHg", systolic, diastolic),
			Recommendations: []string{
				"Drink a glass of water",
				"Tea or coffee can help",
				"If you feel dizzy, sit or lie down",
				"Avoid sudden movements",
				"If low pressure is frequent, discuss it with your doctor",
			},
		}
	}

	return Judgment{
		Severity: models.SeverityNormal,
		Message:  fmt.Sprintf("Blood pressure is normal: %d/%d mmHg", systolic, diastolic),
		Recommendations: []string{
			"Great! Keep monitoring your health",
			"Measure your pressure regularly",
		},
	}
}

// AnalyzePulse classifies a resting pulse reading in beats per minute.
func AnalyzePulse(value int) Judgment {
	if value < 50 {
		return Judgment{
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("ATTENTION! Critically low pulse: %d bpm", value),
			Recommendations: []string{
				"Contact your doctor",
				"If you feel weak or dizzy, lie down",
				"If you lose consciousness, emergency services (103, 112)",
				"Do not take pulse-lowering medication without consulting your doctor",
			},
		}
	}

	if value > 120 {
		return Judgment{
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("ATTENTION! Critically high pulse: %d bpm", value),
			Recommendations: []string{
				"Sit or lie down",
				"Breathe deeply and slowly",
				"Drink some water",
				"Avoid physical exertion",
				"If it does not settle, or you feel chest pain, call emergency services",
				"Contact your doctor",
			},
		}
	}

	if value < 60 {
		return Judgment{
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Pulse is below normal: %d bpm (normal: 60-100)", value),
			Recommendations: []string{
				"If you are an athlete, this may be normal for you",
				"Check your medication (some drugs lower the pulse)",
				"If a low pulse is frequent, discuss it with your doctor",
			},
		}
	}

	if value > 100 {
		return Judgment{
			Severity: models.SeverityWarning,
			Message:  fmt.Sprintf("Pulse is above normal: %d bpm (normal: 60-100)", value),
			Recommendations: []string{
				"Try to calm down",
				"Take a few deep breaths",
				"Avoid caffeine",
				"Repeat the measurement in 10-15 minutes at rest",
				"If your pulse is often elevated, discuss it with your doctor",
			},
		}
	}

	return Judgment{
		Severity: models.SeverityNormal,
		Message:  fmt.Sprintf("Pulse is normal: %d bpm", value),
		Recommendations: []string{
			"Great! Keep monitoring your health",
		},
	}
}
