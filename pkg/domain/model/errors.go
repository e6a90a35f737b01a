package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotFound is wrapped by repositories and simulators when a lookup
	// by ID fails
	ErrNotFound = goerr.New("not found")

	// ErrAlreadyExists is returned when creating a record whose key is taken
	ErrAlreadyExists = goerr.New("already exists")

	// ErrConflict is returned when the current state forbids an operation
	ErrConflict = goerr.New("conflicting state")

	ErrEmptyScenario       = goerr.New("scenario has no steps")
	ErrInvalidScenarioStep = goerr.New("invalid scenario step")
	ErrInvalidAccount      = goerr.New("invalid account")
	ErrInvalidJob          = goerr.New("invalid dispatch job")
	ErrInvalidInput        = goerr.New("invalid input")
)

// Context keys for error values
const (
	ScenarioIDKey  = "scenario_id"
	StepIndexKey   = "step_index"
	EmailKey       = "email"
	FieldKey       = "field"
	AmbulanceIDKey = "ambulance_id"
	JobIDKey       = "job_id"
	BedIDKey       = "bed_id"
	ItemIDKey      = "item_id"
	StaffIDKey     = "staff_id"
	AppointmentKey = "appointment_id"
	AlertIDKey     = "alert_id"
	ActionIDKey    = "action_id"
	RunIDKey       = "run_id"
	DocumentIDKey  = "document_id"
	MemoryIDKey    = "memory_id"
	StatusKey      = "status"
)
