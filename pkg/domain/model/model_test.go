package model_test

import (
	"testing"
	"time"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestScenario_Validate(t *testing.T) {
	valid := func() model.Scenario {
		return model.Scenario{
			ID: "FireDrill",
			Steps: []model.ScenarioStep{
				{
					Notification: &model.NotificationSpec{Kind: types.NotificationWarning, Title: "Drill", Message: "Evacuate"},
					Thought:      &model.ThoughtSpec{Text: "Drill started", Category: types.CategorySecurity},
				},
				{
					Delay:  time.Second,
					Action: &model.ActionSpec{Title: "Unlock exits", Kind: types.ActionAutomation},
				},
			},
		}
	}

	t.Run("valid scenario", func(t *testing.T) {
		s := valid()
		gt.NoError(t, s.Validate())
	})

	t.Run("no steps", func(t *testing.T) {
		s := valid()
		s.Steps = nil
		gt.Error(t, s.Validate()).Is(model.ErrEmptyScenario)
	})

	t.Run("negative delay", func(t *testing.T) {
		s := valid()
		s.Steps[1].Delay = -time.Second
		gt.Error(t, s.Validate()).Is(model.ErrInvalidScenarioStep)
	})

	t.Run("step without effect", func(t *testing.T) {
		s := valid()
		s.Steps = append(s.Steps, model.ScenarioStep{Delay: 2 * time.Second})
		gt.Error(t, s.Validate()).Is(model.ErrInvalidScenarioStep)
	})

	t.Run("unknown thought category", func(t *testing.T) {
		s := valid()
		s.Steps[0].Thought.Category = "Finance"
		gt.Error(t, s.Validate()).Is(model.ErrInvalidScenarioStep)
	})

	t.Run("bad id", func(t *testing.T) {
		s := valid()
		s.ID = "fire drill"
		gt.Error(t, s.Validate())
	})
}

func TestAccount_Validate(t *testing.T) {
	for _, acc := range model.DefaultAccounts() {
		gt.NoError(t, acc.Validate())
	}

	acc := model.DefaultAccounts()[1]
	acc.Email = "not-an-email"
	gt.Error(t, acc.Validate()).Is(model.ErrInvalidAccount)

	acc = model.DefaultAccounts()[1]
	acc.Password = ""
	gt.Error(t, acc.Validate()).Is(model.ErrInvalidAccount)

	acc = model.DefaultAccounts()[1]
	acc.Role = "nurse"
	gt.Error(t, acc.Validate()).Is(model.ErrInvalidAccount)
}

func TestProfileUpdate_Apply(t *testing.T) {
	profile := model.DefaultAccounts()[1].UserProfile
	weight := "68 kg"
	updated := model.ProfileUpdate{Weight: &weight}.Apply(profile)

	gt.V(t, updated.Weight).Equal("68 kg")
	gt.V(t, updated.Name).Equal(profile.Name)
	gt.V(t, profile.Weight).Equal("70 kg")
}

func TestNormalizeEmail(t *testing.T) {
	gt.V(t, model.NormalizeEmail("  User@HashCare.com ")).Equal("user@hashcare.com")
}

func TestDispatchJob_Validate(t *testing.T) {
	job := model.DispatchJob{
		Description:     "Fall, Female 70",
		PatientLocation: model.PatientLocation{Location: model.Location{Lat: 28.6, Lng: 77.2}},
		Severity:        types.SeverityHigh,
	}
	gt.NoError(t, job.Validate())

	job.PatientLocation.Lat = 123
	gt.Error(t, job.Validate()).Is(model.ErrInvalidJob)

	job.PatientLocation.Lat = 28.6
	job.Description = ""
	gt.Error(t, job.Validate()).Is(model.ErrInvalidJob)
}

func TestNewNotificationID(t *testing.T) {
	seen := map[model.NotificationID]bool{}
	for range 1000 {
		id := model.NewNotificationID()
		gt.B(t, seen[id]).False()
		seen[id] = true
	}
}
