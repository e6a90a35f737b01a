package model

import (
	"time"

	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Thought is one line of agent narration
type Thought struct {
	ID         ThoughtID             `json:"id"`
	Timestamp  time.Time             `json:"timestamp"`
	Category   types.ThoughtCategory `json:"category"`
	Text       string                `json:"text"`
	Confidence int                   `json:"confidence"`
	State      types.ThoughtState    `json:"state"`
}

// Action is a proposed intervention awaiting approval
type Action struct {
	ID          ActionID           `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Kind        types.ActionKind   `json:"kind"`
	Status      types.ActionStatus `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
	// AutoExecuteAfter executes the action automatically when it is still
	// pending after this duration. Zero disables auto execution.
	AutoExecuteAfter time.Duration `json:"autoExecuteAfter,omitempty"`
}

type ThoughtSpec struct {
	Text     string                `json:"text"`
	Category types.ThoughtCategory `json:"category"`
}

type ActionSpec struct {
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Kind             types.ActionKind `json:"kind"`
	AutoExecuteAfter time.Duration    `json:"autoExecuteAfter,omitempty"`
}

// ScenarioStep is one timed beat of a scenario. Any combination of the
// three effects may be set; they apply in notification, thought, action
// order.
type ScenarioStep struct {
	Delay        time.Duration     `json:"delay"`
	Notification *NotificationSpec `json:"notification,omitempty"`
	Thought      *ThoughtSpec      `json:"thought,omitempty"`
	Action       *ActionSpec       `json:"action,omitempty"`
}

// Scenario is a named script of timed steps
type Scenario struct {
	ID          types.ScenarioID `json:"id"`
	Description string           `json:"description,omitempty"`
	Steps       []ScenarioStep   `json:"steps"`
}

// Validate checks the script is well formed
func (s *Scenario) Validate() error {
	if err := s.ID.Validate(); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return goerr.Wrap(ErrEmptyScenario, "scenario has no steps", goerr.V(ScenarioIDKey, s.ID))
	}
	for i, step := range s.Steps {
		if step.Delay < 0 {
			return goerr.Wrap(ErrInvalidScenarioStep, "negative delay", goerr.V(ScenarioIDKey, s.ID), goerr.V(StepIndexKey, i))
		}
		if step.Notification == nil && step.Thought == nil && step.Action == nil {
			return goerr.Wrap(ErrInvalidScenarioStep, "step has no effect", goerr.V(ScenarioIDKey, s.ID), goerr.V(StepIndexKey, i))
		}
		if step.Thought != nil && !step.Thought.Category.IsValid() {
			return goerr.Wrap(ErrInvalidScenarioStep, "invalid thought category", goerr.V(ScenarioIDKey, s.ID), goerr.V(StepIndexKey, i))
		}
		if step.Action != nil && !step.Action.Kind.IsValid() {
			return goerr.Wrap(ErrInvalidScenarioStep, "invalid action kind", goerr.V(ScenarioIDKey, s.ID), goerr.V(StepIndexKey, i))
		}
	}
	return nil
}

// ScenarioRun is a handle to a triggered scenario
type ScenarioRun struct {
	ID         RunID            `json:"id"`
	ScenarioID types.ScenarioID `json:"scenarioId"`
	StartedAt  time.Time        `json:"startedAt"`
	Pending    int              `json:"pendingSteps"`
}

type SleepMetric struct {
	Duration  string `json:"duration"`
	Quality   string `json:"quality"`
	DeepSleep string `json:"deepSleep"`
}

type HeartMetric struct {
	AvgBPM int    `json:"avgBpm"`
	HRV    int    `json:"hrv"`
	Status string `json:"status"`
}

type ActivityMetric struct {
	Steps    int    `json:"steps"`
	Calories int    `json:"calories"`
	Status   string `json:"status"`
}

type DailyReport struct {
	Summary string `json:"summary"`
	Score   int    `json:"score"`
	Metrics struct {
		Sleep    SleepMetric    `json:"sleep"`
		Heart    HeartMetric    `json:"heart"`
		Activity ActivityMetric `json:"activity"`
	} `json:"metrics"`
	Insights   []string `json:"insights"`
	ActionPlan []string `json:"actionPlan"`
}
