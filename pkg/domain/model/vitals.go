package model

import (
	"time"

	"github.com/hashcare/hashcare/pkg/domain/types"
)

// VitalSample is one reading of the simulated wearable
type VitalSample struct {
	Timestamp time.Time `json:"timestamp"`
	HeartRate float64   `json:"heartRate"`
	SpO2      float64   `json:"spo2"`
	Glucose   float64   `json:"glucose"`
	Insulin   float64   `json:"insulin"`
}

type VitalLevels struct {
	HeartRate types.VitalLevel `json:"heartRate"`
	SpO2      types.VitalLevel `json:"spo2"`
	Glucose   types.VitalLevel `json:"glucose"`
	Insulin   types.VitalLevel `json:"insulin"`
}

// VitalsSnapshot holds the rolling sample window, oldest first
type VitalsSnapshot struct {
	Samples []VitalSample `json:"samples"`
	Latest  *VitalSample  `json:"latest,omitempty"`
	Levels  VitalLevels   `json:"levels"`
}
