package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/benbjohnson/clock"
	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/service/agent"
	"github.com/hashcare/hashcare/pkg/service/bus"
	"github.com/hashcare/hashcare/pkg/service/fleet"
	"github.com/hashcare/hashcare/pkg/service/gateway"
	"github.com/hashcare/hashcare/pkg/service/geo"
	"github.com/hashcare/hashcare/pkg/service/hospital"
	"github.com/hashcare/hashcare/pkg/service/vitals"
	"github.com/hashcare/hashcare/pkg/service/worker"
	"github.com/m-mizutani/goerr/v2"
)

// UseCases holds the live simulation state and the account directory
type UseCases struct {
	repo    interfaces.Repository
	clock   clock.Clock
	gateway interfaces.AIGateway
	store   interfaces.DocumentStore
	seed    *model.Seed

	Bus      *bus.Bus
	Fleet    *fleet.Fleet
	Hospital *hospital.Hospital
	Vitals   *vitals.Monitor
	Account  *AccountUseCase

	agents map[types.UserRole]*agent.Engine
}

type Option func(*UseCases)

// WithClock drives every simulator and timer from clk
func WithClock(clk clock.Clock) Option {
	return func(uc *UseCases) {
		uc.clock = clk
	}
}

func WithGateway(g interfaces.AIGateway) Option {
	return func(uc *UseCases) {
		uc.gateway = g
	}
}

func WithDocumentStore(s interfaces.DocumentStore) Option {
	return func(uc *UseCases) {
		uc.store = s
	}
}

// WithSeed replaces the built-in fleet, hospital and scenario data. Empty
// sections keep the defaults.
func WithSeed(seed *model.Seed) Option {
	return func(uc *UseCases) {
		uc.seed = seed
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:  repo,
		clock: clock.New(),
	}
	for _, opt := range opts {
		opt(uc)
	}

	if uc.gateway == nil {
		uc.gateway = gateway.New(nil)
	}
	seed := uc.seed
	if seed == nil {
		seed = &model.Seed{}
	}

	uc.Bus = bus.New(bus.WithClock(uc.clock))

	fleetOpts := []fleet.Option{fleet.WithClock(uc.clock), fleet.WithRand(newRand())}
	if len(seed.Ambulances) > 0 || len(seed.Drivers) > 0 || len(seed.Jobs) > 0 {
		fleetOpts = append(fleetOpts, fleet.WithSeed(seed.Ambulances, seed.Drivers, seed.Jobs))
	}
	uc.Fleet = fleet.New(fleetOpts...)

	hospitalOpts := []hospital.Option{
		hospital.WithClock(uc.clock),
		hospital.WithRand(newRand()),
		hospital.WithNotifier(uc.Bus),
	}
	if len(seed.Staff) > 0 {
		hospitalOpts = append(hospitalOpts, hospital.WithStaff(seed.Staff))
	}
	if len(seed.Beds) > 0 {
		hospitalOpts = append(hospitalOpts, hospital.WithBeds(seed.Beds))
	}
	if len(seed.Inventory) > 0 {
		hospitalOpts = append(hospitalOpts, hospital.WithInventory(seed.Inventory))
	}
	uc.Hospital = hospital.New(hospitalOpts...)

	uc.Vitals = vitals.New(
		vitals.WithClock(uc.clock),
		vitals.WithRand(newRand()),
		vitals.WithNotifier(uc.Bus),
	)

	uc.agents = make(map[types.UserRole]*agent.Engine)
	for _, role := range []types.UserRole{types.RolePatient, types.RoleAdmin} {
		agentOpts := []agent.Option{
			agent.WithClock(uc.clock),
			agent.WithRand(newRand()),
			agent.WithNotifier(uc.Bus),
			agent.WithGateway(uc.gateway),
			agent.WithRole(role),
			agent.WithScenarios(seed.Scenarios...),
		}
		if uc.store != nil {
			agentOpts = append(agentOpts, agent.WithDocumentStore(uc.store))
		}
		uc.agents[role] = agent.New(agentOpts...)
	}

	uc.Account = NewAccountUseCase(repo)
	return uc
}

// Agent returns the narration engine for role
func (uc *UseCases) Agent(role types.UserRole) (*agent.Engine, error) {
	e, ok := uc.agents[role]
	if !ok {
		return nil, goerr.Wrap(ErrUnknownRole, "no agent engine for role", goerr.V(RoleKey, role))
	}
	return e, nil
}

func (uc *UseCases) Gateway() interfaces.AIGateway {
	return uc.gateway
}

// Workers returns one ticker per simulator at its native interval
func (uc *UseCases) Workers(opts ...worker.Option) []*worker.Ticker {
	opts = append([]worker.Option{worker.WithClock(uc.clock)}, opts...)
	return []*worker.Ticker{
		worker.NewTicker("wellness", bus.NewWellness(uc.Bus, newRand()), bus.WellnessInterval, opts...),
		worker.NewTicker("fleet", uc.Fleet, fleet.TickInterval, opts...),
		worker.NewTicker("hospital", uc.Hospital, hospital.TickInterval, opts...),
		worker.NewTicker("vitals", uc.Vitals, vitals.TickInterval, opts...),
		worker.NewTicker("agent-patient", uc.agents[types.RolePatient], agent.TickInterval, opts...),
		worker.NewTicker("agent-admin", uc.agents[types.RoleAdmin], agent.TickInterval, opts...),
	}
}

// Triage files a free text incident. When an ambulance is available the
// admin agent proposes the dispatch instead of assigning it directly.
func (uc *UseCases) Triage(ctx context.Context, description string) (*fleet.TriageResult, error) {
	result, err := uc.Fleet.Triage(ctx, description)
	if err != nil {
		return nil, err
	}

	admin := uc.agents[types.RoleAdmin]
	if result.SuggestedAmbulanceID == "" {
		admin.AddThought(ctx, "Incident queued. No ambulance available.", types.CategoryLogistics)
		uc.Bus.Publish(ctx, types.NotificationWarning, "Incident Queued", "No ambulance is available. The job is waiting on the board.", model.DefaultToastTTL)
		return result, nil
	}

	admin.AddThought(ctx, fmt.Sprintf("Triage complete. Nearest unit: %s.", result.SuggestedAmbulanceID), types.CategoryLogistics)
	admin.AddAction(ctx,
		fmt.Sprintf("Dispatch %s", result.SuggestedAmbulanceID),
		result.Job.Description,
		types.ActionIntervention,
		0,
	)
	return result, nil
}

// FleetMap is the vector fallback view of the fleet
type FleetMap struct {
	Center  model.Location `json:"center"`
	Markers []geo.Marker   `json:"markers"`
}

func (uc *UseCases) FleetMap() FleetMap {
	ambulances := uc.Fleet.Ambulances()
	center := geo.FleetCenter(ambulances)
	return FleetMap{
		Center:  center,
		Markers: geo.VectorLayout(center, ambulances),
	}
}

// NearbyHospitals resolves the device location, falling back to the
// default city, and asks the gateway for hospitals around it
func (uc *UseCases) NearbyHospitals(ctx context.Context, lat, lng *float64) (model.Location, []model.NearbyHospital) {
	loc := geo.Resolve(lat, lng)
	return loc, uc.gateway.NearbyHospitals(ctx, loc.Lat, loc.Lng)
}

// Shutdown cancels scenario timers and waits for in-flight analyses
func (uc *UseCases) Shutdown() {
	for _, e := range uc.agents {
		e.Stop()
	}
}
