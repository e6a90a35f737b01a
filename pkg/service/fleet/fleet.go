package fleet

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// TickInterval is how often Fleet.Tick is expected to run
const TickInterval = time.Second

const (
	// maxStep is the largest per-axis position change per tick, in degrees
	maxStep       = 0.00025
	minSpeed      = 20.0
	maxSpeed      = 60.0
	fuelBurn      = 0.02
	ratingDrift   = 0.01
	ratingFloor   = 3.5
	fatigueChance = 0.2
	// triageSpread is the half width of the box around triageOrigin where
	// triaged incidents are placed
	triageSpread = 0.015
)

var triageOrigin = model.Location{Lat: 28.61, Lng: 77.21}

// Fleet simulates ambulance telemetry and owns the dispatch board
type Fleet struct {
	clock clock.Clock
	rng   *rand.Rand

	mu         sync.RWMutex
	ambulances []model.Ambulance
	drivers    []model.Driver
	jobs       []model.DispatchJob
}

var _ interfaces.Simulator = &Fleet{}

type Option func(*Fleet)

func WithClock(clk clock.Clock) Option {
	return func(f *Fleet) {
		f.clock = clk
	}
}

// WithRand fixes the random source, mainly for tests
func WithRand(rng *rand.Rand) Option {
	return func(f *Fleet) {
		f.rng = rng
	}
}

// WithSeed replaces the built-in ambulances, drivers and jobs. Nil slices
// keep the built-in values.
func WithSeed(ambulances []model.Ambulance, drivers []model.Driver, jobs []model.DispatchJob) Option {
	return func(f *Fleet) {
		if ambulances != nil {
			f.ambulances = slices.Clone(ambulances)
		}
		if drivers != nil {
			f.drivers = slices.Clone(drivers)
		}
		if jobs != nil {
			f.jobs = slices.Clone(jobs)
		}
	}
}

func New(opts ...Option) *Fleet {
	f := &Fleet{
		clock: clock.New(),
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(f)
	}
	// built-in seed is applied after options so job timestamps use the
	// configured clock
	if f.ambulances == nil {
		f.ambulances = SeedAmbulances()
	}
	if f.drivers == nil {
		f.drivers = SeedDrivers()
	}
	if f.jobs == nil {
		f.jobs = SeedJobs(f.clock.Now())
	}
	for i := range f.ambulances {
		f.ambulances[i].FuelLevel = model.ClampPercent(f.ambulances[i].FuelLevel)
	}
	return f
}

// Tick moves every moving ambulance one step and lets on-trip driver
// ratings drift down.
func (f *Fleet) Tick(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ambulances := slices.Clone(f.ambulances)
	for i := range ambulances {
		a := &ambulances[i]
		if !a.Moving() {
			a.Speed = 0
			continue
		}

		dLat := (f.rng.Float64() - 0.5) * 2 * maxStep
		dLng := (f.rng.Float64() - 0.5) * 2 * maxStep
		a.Location.Lat += dLat
		a.Location.Lng += dLng
		a.Heading = math.Atan2(dLng, dLat) * 180 / math.Pi
		a.Speed = minSpeed + f.rng.Float64()*(maxSpeed-minSpeed)
		a.FuelLevel = math.Max(0, a.FuelLevel-fuelBurn)
	}
	f.ambulances = ambulances

	if f.rng.Float64() < fatigueChance {
		drivers := slices.Clone(f.drivers)
		for i := range drivers {
			if drivers[i].Status == types.DriverOnTrip {
				drivers[i].Rating = math.Max(ratingFloor, drivers[i].Rating-ratingDrift)
			}
		}
		f.drivers = drivers
	}

	return nil
}

// Snapshot returns copies of the current fleet state
func (f *Fleet) Snapshot() model.FleetSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return model.FleetSnapshot{
		Ambulances: slices.Clone(f.ambulances),
		Drivers:    slices.Clone(f.drivers),
		Jobs:       slices.Clone(f.jobs),
	}
}

func (f *Fleet) Ambulances() []model.Ambulance {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.ambulances)
}

func (f *Fleet) Drivers() []model.Driver {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.drivers)
}

// Jobs returns the dispatch board, newest added first
func (f *Fleet) Jobs() []model.DispatchJob {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.jobs)
}

// AddJob puts a job on the board without assigning an ambulance
func (f *Fleet) AddJob(ctx context.Context, job model.DispatchJob) (model.DispatchJob, error) {
	if err := job.Validate(); err != nil {
		return model.DispatchJob{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	job = f.fillJob(job)
	if f.jobIndex(job.ID) >= 0 {
		return model.DispatchJob{}, goerr.Wrap(model.ErrAlreadyExists, "job already on the board",
			goerr.V(model.JobIDKey, job.ID))
	}

	jobs := make([]model.DispatchJob, 0, len(f.jobs)+1)
	jobs = append(jobs, job)
	f.jobs = append(jobs, f.jobs...)

	logging.From(ctx).Info("dispatch job added",
		"job_id", job.ID,
		"severity", job.Severity,
		"address", job.PatientLocation.Address)
	return job, nil
}

// Dispatch assigns an available ambulance to job. A job already on the
// board is updated in place, a new one is appended.
func (f *Fleet) Dispatch(ctx context.Context, job model.DispatchJob, ambulanceID string) (model.DispatchJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ai := slices.IndexFunc(f.ambulances, func(a model.Ambulance) bool { return a.ID == ambulanceID })
	if ai < 0 {
		return model.DispatchJob{}, goerr.Wrap(model.ErrNotFound, "ambulance not found",
			goerr.V(model.AmbulanceIDKey, ambulanceID))
	}
	if st := f.ambulances[ai].Status; st != types.AmbulanceAvailable {
		return model.DispatchJob{}, goerr.Wrap(model.ErrConflict, "ambulance is not available",
			goerr.V(model.AmbulanceIDKey, ambulanceID),
			goerr.V(model.StatusKey, st))
	}

	ji := -1
	if job.ID != "" {
		ji = f.jobIndex(job.ID)
	}
	if ji >= 0 {
		job = f.jobs[ji]
		if job.Status == types.JobCompleted || job.AssignedAmbulanceID != "" {
			return model.DispatchJob{}, goerr.Wrap(model.ErrConflict, "job is already assigned or completed",
				goerr.V(model.JobIDKey, job.ID),
				goerr.V(model.StatusKey, job.Status))
		}
	} else {
		if err := job.Validate(); err != nil {
			return model.DispatchJob{}, err
		}
		job = f.fillJob(job)
	}

	job.AssignedAmbulanceID = ambulanceID
	job.Status = types.JobEnRoute

	jobs := slices.Clone(f.jobs)
	if ji >= 0 {
		jobs[ji] = job
	} else {
		jobs = append(jobs, job)
	}
	f.jobs = jobs

	ambulances := slices.Clone(f.ambulances)
	ambulances[ai].Status = types.AmbulanceDispatched
	ambulances[ai].CurrentJobID = job.ID
	f.ambulances = ambulances

	f.setDriverStatus(ambulances[ai].DriverID, types.DriverOnTrip)

	logging.From(ctx).Info("ambulance dispatched",
		"job_id", job.ID,
		"ambulance_id", ambulanceID)
	return job, nil
}

// DispatchByID assigns an ambulance to a job already on the board
func (f *Fleet) DispatchByID(ctx context.Context, jobID, ambulanceID string) (model.DispatchJob, error) {
	f.mu.RLock()
	known := f.jobIndex(jobID) >= 0
	f.mu.RUnlock()
	if !known {
		return model.DispatchJob{}, goerr.Wrap(model.ErrNotFound, "job not found", goerr.V(model.JobIDKey, jobID))
	}
	return f.Dispatch(ctx, model.DispatchJob{ID: jobID}, ambulanceID)
}

// CompleteJob closes a job and returns its ambulance and driver to service
func (f *Fleet) CompleteJob(ctx context.Context, jobID string) (model.DispatchJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ji := f.jobIndex(jobID)
	if ji < 0 {
		return model.DispatchJob{}, goerr.Wrap(model.ErrNotFound, "job not found", goerr.V(model.JobIDKey, jobID))
	}
	if f.jobs[ji].Status == types.JobCompleted {
		return model.DispatchJob{}, goerr.Wrap(model.ErrConflict, "job already completed", goerr.V(model.JobIDKey, jobID))
	}

	jobs := slices.Clone(f.jobs)
	jobs[ji].Status = types.JobCompleted
	job := jobs[ji]
	f.jobs = jobs

	if ai := slices.IndexFunc(f.ambulances, func(a model.Ambulance) bool { return a.ID == job.AssignedAmbulanceID }); ai >= 0 {
		ambulances := slices.Clone(f.ambulances)
		ambulances[ai].Status = types.AmbulanceAvailable
		ambulances[ai].CurrentJobID = ""
		ambulances[ai].Speed = 0
		f.ambulances = ambulances
		f.setDriverStatus(ambulances[ai].DriverID, types.DriverAvailable)
	}

	logging.From(ctx).Info("dispatch job completed", "job_id", jobID)
	return job, nil
}

// NearestAvailable returns the available ambulance closest to loc
func (f *Fleet) NearestAvailable(loc model.Location) (model.Ambulance, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return nearestAvailable(f.ambulances, loc)
}

// TriageResult is a freshly triaged incident. When SuggestedAmbulanceID is
// empty the job was put on the board unassigned.
type TriageResult struct {
	Job                  model.DispatchJob `json:"job"`
	SuggestedAmbulanceID string            `json:"suggestedAmbulanceId,omitempty"`
}

// Triage turns a free text incident report into a critical pending job and
// suggests the nearest available ambulance. The job is only added to the
// board when no ambulance can be suggested; otherwise the caller confirms
// with Dispatch.
func (f *Fleet) Triage(ctx context.Context, description string) (*TriageResult, error) {
	if description == "" {
		return nil, goerr.Wrap(model.ErrInvalidJob, "description is required", goerr.V(model.FieldKey, "description"))
	}

	f.mu.Lock()
	loc := model.Location{
		Lat: triageOrigin.Lat + (f.rng.Float64()-0.5)*2*triageSpread,
		Lng: triageOrigin.Lng + (f.rng.Float64()-0.5)*2*triageSpread,
	}
	f.mu.Unlock()

	job := model.DispatchJob{
		PatientLocation: model.PatientLocation{Location: loc, Address: "Detected via NLP"},
		Severity:        types.SeverityCritical,
		Status:          types.JobPending,
		Description:     description,
	}

	if amb, ok := f.NearestAvailable(loc); ok {
		f.mu.Lock()
		job = f.fillJob(job)
		f.mu.Unlock()
		return &TriageResult{Job: job, SuggestedAmbulanceID: amb.ID}, nil
	}

	added, err := f.AddJob(ctx, job)
	if err != nil {
		return nil, err
	}
	return &TriageResult{Job: added}, nil
}

// nearestAvailable keeps the first ambulance on equal distance
func nearestAvailable(ambulances []model.Ambulance, loc model.Location) (model.Ambulance, bool) {
	var (
		best  model.Ambulance
		found bool
		dist  = math.Inf(1)
	)
	for _, a := range ambulances {
		if a.Status != types.AmbulanceAvailable {
			continue
		}
		if d := distance(a.Location, loc); d < dist {
			best, dist, found = a, d, true
		}
	}
	return best, found
}

// distance is an equirectangular approximation, good enough for ranking
// ambulances inside one city
func distance(a, b model.Location) float64 {
	x := (b.Lng - a.Lng) * math.Cos((a.Lat+b.Lat)/2*math.Pi/180)
	y := b.Lat - a.Lat
	return math.Sqrt(x*x + y*y)
}

// fillJob sets defaults; caller holds mu
func (f *Fleet) fillJob(job model.DispatchJob) model.DispatchJob {
	now := f.clock.Now()
	if job.ID == "" {
		job.ID = fmt.Sprintf("JOB-%d", now.UnixMilli())
		for f.jobIndex(job.ID) >= 0 {
			job.ID = fmt.Sprintf("JOB-%d-%d", now.UnixMilli(), f.rng.IntN(1000))
		}
	}
	if job.Status == "" {
		job.Status = types.JobPending
	}
	if job.Severity == "" {
		job.Severity = types.SeverityMedium
	}
	if job.Timestamp.IsZero() {
		job.Timestamp = now
	}
	return job
}

func (f *Fleet) jobIndex(id string) int {
	return slices.IndexFunc(f.jobs, func(j model.DispatchJob) bool { return j.ID == id })
}

// setDriverStatus updates one driver; caller holds mu
func (f *Fleet) setDriverStatus(driverID string, status types.DriverStatus) {
	di := slices.IndexFunc(f.drivers, func(d model.Driver) bool { return d.ID == driverID })
	if di < 0 {
		return
	}
	drivers := slices.Clone(f.drivers)
	drivers[di].Status = status
	f.drivers = drivers
}
