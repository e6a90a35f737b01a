package model

import "github.com/hashcare/hashcare/pkg/domain/types"

// ClassifyStock derives the stock status: Critical below half the minimum,
// Low below the minimum, Good otherwise.
func ClassifyStock(stock, minLevel int) types.StockStatus {
	switch {
	case float64(stock) < float64(minLevel)/2:
		return types.StockCritical
	case stock < minLevel:
		return types.StockLow
	default:
		return types.StockGood
	}
}

// Fatigue above this level is treated as burnout risk
const BurnoutFatigueLevel = 80

func ClassifyFatigue(level int) types.VitalLevel {
	switch {
	case level > BurnoutFatigueLevel:
		return types.VitalCritical
	case level > 60:
		return types.VitalWarning
	default:
		return types.VitalNormal
	}
}

// Heart rate above this at rest is a tachycardia event
const TachycardiaBPM = 110

func ClassifyHeartRate(bpm float64) types.VitalLevel {
	switch {
	case bpm > TachycardiaBPM || bpm < 40:
		return types.VitalCritical
	case bpm > 100 || bpm < 50:
		return types.VitalWarning
	default:
		return types.VitalNormal
	}
}

func ClassifySpO2(pct float64) types.VitalLevel {
	switch {
	case pct < 90:
		return types.VitalCritical
	case pct < 95:
		return types.VitalWarning
	default:
		return types.VitalNormal
	}
}

func ClassifyGlucose(mgdl float64) types.VitalLevel {
	switch {
	case mgdl > 250 || mgdl < 54:
		return types.VitalCritical
	case mgdl > 140 || mgdl < 70:
		return types.VitalWarning
	default:
		return types.VitalNormal
	}
}

// ClassifyInsulin flags a bolus above 5 U/hr
func ClassifyInsulin(rate float64) types.VitalLevel {
	if rate > 5 {
		return types.VitalWarning
	}
	return types.VitalNormal
}

// ClassifyVitals classifies every sign of s
func ClassifyVitals(s VitalSample) VitalLevels {
	return VitalLevels{
		HeartRate: ClassifyHeartRate(s.HeartRate),
		SpO2:      ClassifySpO2(s.SpO2),
		Glucose:   ClassifyGlucose(s.Glucose),
		Insulin:   ClassifyInsulin(s.Insulin),
	}
}

// ClampPercent bounds v to the 0..100 range
func ClampPercent[T ~int | ~float64](v T) T {
	return min(max(v, 0), 100)
}
