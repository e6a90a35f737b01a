package fleet

import (
	"time"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
)

// DefaultCenter is used when no ambulance has a usable position
var DefaultCenter = model.Location{Lat: 28.6139, Lng: 77.2090}

func SeedAmbulances() []model.Ambulance {
	return []model.Ambulance{
		{ID: "AMB-001", PlateNumber: "DL-01-AB-1234", Type: types.AmbulanceALS, Status: types.AmbulanceAvailable, Location: model.Location{Lat: 28.61, Lng: 77.20}, Heading: 0, FuelLevel: 85, DriverID: "DRV-1"},
		{ID: "AMB-002", PlateNumber: "DL-01-XY-9876", Type: types.AmbulanceBLS, Status: types.AmbulanceOnDuty, Location: model.Location{Lat: 28.62, Lng: 77.21}, Heading: 45, FuelLevel: 60, Speed: 40, DriverID: "DRV-2", CurrentJobID: "JOB-101"},
		{ID: "AMB-003", PlateNumber: "DL-02-ZZ-4567", Type: types.AmbulanceALS, Status: types.AmbulanceAvailable, Location: model.Location{Lat: 28.60, Lng: 77.19}, Heading: 180, FuelLevel: 90, DriverID: "DRV-3"},
		{ID: "AMB-004", PlateNumber: "DL-03-MM-1122", Type: types.AmbulanceNeonatal, Status: types.AmbulanceMaintenance, Location: model.Location{Lat: 28.63, Lng: 77.22}, Heading: 270, FuelLevel: 20, DriverID: "DRV-4"},
		{ID: "AMB-005", PlateNumber: "DL-04-QQ-3344", Type: types.AmbulanceBLS, Status: types.AmbulanceAvailable, Location: model.Location{Lat: 28.59, Lng: 77.18}, Heading: 90, FuelLevel: 75, DriverID: "DRV-5"},
	}
}

func SeedDrivers() []model.Driver {
	return []model.Driver{
		{ID: "DRV-1", Name: "Ramesh Singh", Contact: "9876543210", Status: types.DriverAvailable, Rating: 4.8},
		{ID: "DRV-2", Name: "Suresh Kumar", Contact: "9876543211", Status: types.DriverOnTrip, Rating: 4.5},
		{ID: "DRV-3", Name: "Amit Patel", Contact: "9876543212", Status: types.DriverAvailable, Rating: 4.9},
		{ID: "DRV-4", Name: "Vijay Malhotra", Contact: "9876543213", Status: types.DriverBreak, Rating: 4.2},
		{ID: "DRV-5", Name: "Rajesh Khanna", Contact: "9876543214", Status: types.DriverAvailable, Rating: 4.7},
	}
}

func SeedJobs(now time.Time) []model.DispatchJob {
	return []model.DispatchJob{
		{
			ID: "JOB-101",
			PatientLocation: model.PatientLocation{
				Location: model.Location{Lat: 28.625, Lng: 77.215},
				Address:  "Connaught Place, Block B",
			},
			Severity:            types.SeverityHigh,
			Status:              types.JobEnRoute,
			Timestamp:           now,
			Description:         "Chest Pain, Male 55",
			AssignedAmbulanceID: "AMB-002",
			ETA:                 "5 min",
		},
	}
}
