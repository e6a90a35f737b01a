package types

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

type AmbulanceType string

const (
	AmbulanceALS      AmbulanceType = "ALS"
	AmbulanceBLS      AmbulanceType = "BLS"
	AmbulanceNeonatal AmbulanceType = "Neonatal"
)

type AmbulanceStatus string

const (
	AmbulanceAvailable   AmbulanceStatus = "Available"
	AmbulanceOnDuty      AmbulanceStatus = "On Duty"
	AmbulanceDispatched  AmbulanceStatus = "Dispatched"
	AmbulanceReturning   AmbulanceStatus = "Returning"
	AmbulanceMaintenance AmbulanceStatus = "Maintenance"
)

func AllAmbulanceStatuses() []AmbulanceStatus {
	return []AmbulanceStatus{
		AmbulanceAvailable,
		AmbulanceOnDuty,
		AmbulanceDispatched,
		AmbulanceReturning,
		AmbulanceMaintenance,
	}
}

func (s AmbulanceStatus) IsValid() bool {
	return slices.Contains(AllAmbulanceStatuses(), s)
}

func (s AmbulanceStatus) String() string {
	return string(s)
}

type DriverStatus string

const (
	DriverAvailable DriverStatus = "Available"
	DriverOnTrip    DriverStatus = "On Trip"
	DriverBreak     DriverStatus = "Break"
)

type JobStatus string

const (
	JobPending      JobStatus = "Pending"
	JobEnRoute      JobStatus = "En Route"
	JobOnScene      JobStatus = "On Scene"
	JobTransporting JobStatus = "Transporting"
	JobCompleted    JobStatus = "Completed"
)

func (s JobStatus) IsActive() bool {
	return s != JobPending && s != JobCompleted
}

type JobSeverity string

const (
	SeverityCritical JobSeverity = "Critical"
	SeverityHigh     JobSeverity = "High"
	SeverityMedium   JobSeverity = "Medium"
	SeverityLow      JobSeverity = "Low"
)

func AllJobSeverities() []JobSeverity {
	return []JobSeverity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

func (s JobSeverity) IsValid() bool {
	return slices.Contains(AllJobSeverities(), s)
}

func ParseJobSeverity(s string) (JobSeverity, error) {
	v := JobSeverity(s)
	if !v.IsValid() {
		return "", goerr.New("invalid job severity", goerr.V("severity", s))
	}
	return v, nil
}
