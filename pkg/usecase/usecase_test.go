package usecase_test

import (
	"context"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/repository/memory"
	"github.com/hashcare/hashcare/pkg/service/geo"
	"github.com/hashcare/hashcare/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func newUseCases(t *testing.T, opts ...usecase.Option) *usecase.UseCases {
	t.Helper()
	opts = append([]usecase.Option{usecase.WithClock(clock.NewMock())}, opts...)
	uc := usecase.New(memory.New(), opts...)
	t.Cleanup(uc.Shutdown)
	return uc
}

func TestUseCases_Agent(t *testing.T) {
	uc := newUseCases(t)

	patient, err := uc.Agent(types.RolePatient)
	gt.NoError(t, err).Required()
	gt.V(t, patient.Role()).Equal(types.RolePatient)

	admin, err := uc.Agent(types.RoleAdmin)
	gt.NoError(t, err).Required()
	gt.V(t, admin.Role()).Equal(types.RoleAdmin)

	_, err = uc.Agent(types.UserRole("nurse"))
	gt.Error(t, err).Is(usecase.ErrUnknownRole)
	gt.Error(t, err).Is(model.ErrInvalidInput)
}

func TestUseCases_Workers(t *testing.T) {
	uc := newUseCases(t)
	workers := uc.Workers()
	gt.A(t, workers).Length(6)

	names := make(map[string]bool)
	for _, w := range workers {
		names[w.Name()] = true
	}
	gt.B(t, names["fleet"]).True()
	gt.B(t, names["agent-admin"]).True()
}

func TestUseCases_Triage(t *testing.T) {
	ctx := context.Background()

	t.Run("suggests the nearest ambulance", func(t *testing.T) {
		uc := newUseCases(t)
		jobs := len(uc.Fleet.Jobs())

		result, err := uc.Triage(ctx, "Elderly man collapsed near the metro station")
		gt.NoError(t, err).Required()
		gt.String(t, result.SuggestedAmbulanceID).NotEqual("")
		gt.V(t, result.Job.Severity).Equal(types.SeverityCritical)

		// the board is untouched until the dispatch is confirmed
		gt.A(t, uc.Fleet.Jobs()).Length(jobs)

		admin, err := uc.Agent(types.RoleAdmin)
		gt.NoError(t, err).Required()
		actions := admin.Actions()
		gt.A(t, actions).Length(1)
		gt.V(t, actions[0].Title).Equal("Dispatch " + result.SuggestedAmbulanceID)
		gt.V(t, actions[0].Status).Equal(types.ActionPending)
	})

	t.Run("empty description", func(t *testing.T) {
		uc := newUseCases(t)
		_, err := uc.Triage(ctx, "")
		gt.Error(t, err).Is(model.ErrInvalidJob)
	})
}

func TestUseCases_FleetMap(t *testing.T) {
	uc := newUseCases(t)
	m := uc.FleetMap()

	gt.B(t, m.Center.Valid()).True()
	gt.Number(t, len(m.Markers)).GreaterOrEqual(1)
	for _, marker := range m.Markers {
		gt.B(t, marker.Point.Visible()).True()
	}
}

func TestUseCases_NearbyHospitals(t *testing.T) {
	uc := newUseCases(t)

	loc, hospitals := uc.NearbyHospitals(context.Background(), nil, nil)
	gt.V(t, loc).Equal(geo.Fallback)
	gt.A(t, hospitals).Length(0)
}

func TestUseCases_Seed(t *testing.T) {
	seed := &model.Seed{
		Inventory: []model.InventoryItem{
			{ID: 1, Name: "Oxygen Cylinders", Stock: 45, MinLevel: 100, Unit: "units"},
		},
	}
	uc := newUseCases(t, usecase.WithSeed(seed))

	items := uc.Hospital.Inventory()
	gt.A(t, items).Length(1)
	gt.V(t, items[0].Status).Equal(types.StockCritical)
}
