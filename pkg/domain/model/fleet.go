package model

import (
	"time"

	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Location is a WGS84 coordinate in degrees
type Location struct {
	Lat float64 `json:"lat" toml:"lat"`
	Lng float64 `json:"lng" toml:"lng"`
}

// Valid reports whether the coordinate is on the globe
func (l Location) Valid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}

type Ambulance struct {
	ID           string                `json:"id" toml:"id"`
	PlateNumber  string                `json:"plateNumber" toml:"plate_number"`
	Type         types.AmbulanceType   `json:"type" toml:"type"`
	Status       types.AmbulanceStatus `json:"status" toml:"status"`
	Location     Location              `json:"location" toml:"location"`
	Heading      float64               `json:"heading" toml:"heading"`
	FuelLevel    float64               `json:"fuelLevel" toml:"fuel_level"`
	Speed        float64               `json:"speed" toml:"speed"`
	DriverID     string                `json:"driverId" toml:"driver_id"`
	CurrentJobID string                `json:"currentJobId,omitempty" toml:"current_job_id"`
}

// Moving reports whether the ambulance takes part in position updates
func (a *Ambulance) Moving() bool {
	return a.Status == types.AmbulanceDispatched ||
		(a.Status == types.AmbulanceOnDuty && a.Speed > 0)
}

type Driver struct {
	ID      string             `json:"id" toml:"id"`
	Name    string             `json:"name" toml:"name"`
	Contact string             `json:"contact" toml:"contact"`
	Status  types.DriverStatus `json:"status" toml:"status"`
	Rating  float64            `json:"rating" toml:"rating"`
}

type PatientLocation struct {
	Location
	Address string `json:"address" toml:"address"`
}

type DispatchJob struct {
	ID                  string            `json:"id" toml:"id"`
	PatientLocation     PatientLocation   `json:"patientLocation" toml:"patient_location"`
	Severity            types.JobSeverity `json:"severity" toml:"severity"`
	AssignedAmbulanceID string            `json:"assignedAmbulanceId,omitempty" toml:"assigned_ambulance_id"`
	Status              types.JobStatus   `json:"status" toml:"status"`
	Timestamp           time.Time         `json:"timestamp" toml:"-"`
	Description         string            `json:"description" toml:"description"`
	ETA                 string            `json:"eta,omitempty" toml:"eta"`
}

// Validate checks fields a caller must supply when creating a job
func (j *DispatchJob) Validate() error {
	if j.Description == "" {
		return goerr.Wrap(ErrInvalidJob, "description is required", goerr.V(FieldKey, "description"))
	}
	if !j.PatientLocation.Valid() {
		return goerr.Wrap(ErrInvalidJob, "patient location is out of range",
			goerr.V("lat", j.PatientLocation.Lat), goerr.V("lng", j.PatientLocation.Lng))
	}
	if j.Severity != "" && !j.Severity.IsValid() {
		return goerr.Wrap(ErrInvalidJob, "invalid severity", goerr.V("severity", j.Severity))
	}
	return nil
}

// FleetSnapshot is an immutable view of the fleet at one instant
type FleetSnapshot struct {
	Ambulances []Ambulance   `json:"ambulances"`
	Drivers    []Driver      `json:"drivers"`
	Jobs       []DispatchJob `json:"jobs"`
}
