package agent

import (
	"context"
	"slices"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// BuiltinScenarios returns the four demo scripts
func BuiltinScenarios() []model.Scenario {
	return []model.Scenario{
		{
			ID:          types.ScenarioHighHR,
			Description: "Tachycardia at rest",
			Steps: []model.ScenarioStep{
				{
					Notification: &model.NotificationSpec{
						Kind:    types.NotificationCritical,
						Title:   "High Heart Rate Alert",
						Message: "Patient HR exceeds 110bpm at rest. Interventional protocol recommended.",
						TTL:     8 * time.Second,
					},
					Thought: &model.ThoughtSpec{Text: "ALERT: Tachycardia event detected (>110 bpm) at rest.", Category: types.CategoryHealth},
				},
				{
					Delay:   1500 * time.Millisecond,
					Thought: &model.ThoughtSpec{Text: "Context Analysis: No physical exertion. Cortisol markers inferred.", Category: types.CategoryHealth},
					Action: &model.ActionSpec{
						Title:            "Stress Intervention Protocol",
						Description:      "Dimming ambient lights. Queuing guided breathing exercise. Monitoring for escalation.",
						Kind:             types.ActionIntervention,
						AutoExecuteAfter: 300 * time.Second,
					},
				},
			},
		},
		{
			ID:          types.ScenarioLowStock,
			Description: "Pharmacy stock below safety threshold",
			Steps: []model.ScenarioStep{
				{
					Notification: &model.NotificationSpec{
						Kind:    types.NotificationWarning,
						Title:   "Supply Chain Warning",
						Message: "Metformin inventory critical. Auto-restock advised.",
						TTL:     6 * time.Second,
					},
					Thought: &model.ThoughtSpec{Text: "SUPPLY CHAIN EVENT: 'Metformin' inventory below safety threshold.", Category: types.CategoryLogistics},
				},
				{
					Delay:   1500 * time.Millisecond,
					Thought: &model.ThoughtSpec{Text: "Querying vendor database... Apollo Pharmacy offers best rate.", Category: types.CategoryLogistics},
					Action: &model.ActionSpec{
						Title:       "Auto-Procurement Order",
						Description: "Execute purchase order #8821 for 30-day supply. Cost: ₹140.",
						Kind:        types.ActionAutomation,
					},
				},
			},
		},
		{
			ID:          types.ScenarioStaffBurnout,
			Description: "Nurse over duty cycle",
			Steps: []model.ScenarioStep{
				{
					Notification: &model.NotificationSpec{
						Kind:    types.NotificationError,
						Title:   "Workforce Alert",
						Message: "Nurse Priya fatigue index > 85%. Shift rotation required.",
						TTL:     7 * time.Second,
					},
					Thought: &model.ThoughtSpec{Text: "WORKFORCE SAFETY: Nurse Priya exceeded 12h duty cycle.", Category: types.CategoryResource},
				},
				{
					Delay:   1500 * time.Millisecond,
					Thought: &model.ThoughtSpec{Text: "Resource Re-allocation: Nurse Raj is available in Ward B.", Category: types.CategoryResource},
					Action: &model.ActionSpec{
						Title:       "Shift Rotation Mandate",
						Description: "Assign Nurse Raj to relieve Nurse Priya immediately to prevent fatigue error.",
						Kind:        types.ActionSuggestion,
					},
				},
			},
		},
		{
			ID:          types.ScenarioSOS,
			Description: "SOS beacon from the patient",
			Steps: []model.ScenarioStep{
				{
					Notification: &model.NotificationSpec{
						Kind:    types.NotificationCritical,
						Title:   "SOS BEACON DETECTED",
						Message: "Emergency Protocols Activated. EMS Dispatching.",
						TTL:     10 * time.Second,
					},
					Thought: &model.ThoughtSpec{Text: "CRITICAL EVENT: SOS Beacon Triangulated.", Category: types.CategorySecurity},
				},
				{
					Delay:   500 * time.Millisecond,
					Thought: &model.ThoughtSpec{Text: "Broadcasting encrypted location packet to EMS...", Category: types.CategorySecurity},
				},
				{
					Delay:   1000 * time.Millisecond,
					Thought: &model.ThoughtSpec{Text: "Overriding Smart Lock: [Front_Main] -> UNLOCKED.", Category: types.CategorySecurity},
				},
				{
					Delay: 2000 * time.Millisecond,
					Action: &model.ActionSpec{
						Title:       "Emergency Response Coordination",
						Description: "EMS Dispatched. Medical Profile Transmitted. Family Alerted.",
						Kind:        types.ActionIntervention,
					},
				},
			},
		},
	}
}

type scenarioRun struct {
	run     model.ScenarioRun
	pending map[int]*clock.Timer
}

func (r *scenarioRun) stop() {
	for idx, t := range r.pending {
		t.Stop()
		delete(r.pending, idx)
	}
}

type triggerConfig struct {
	supersede bool
}

type TriggerOption func(*triggerConfig)

// WithSupersede cancels runs of the same scenario that still have pending
// steps before starting the new one
func WithSupersede() TriggerOption {
	return func(c *triggerConfig) {
		c.supersede = true
	}
}

// RegisterScenario validates and adds or replaces a script
func (e *Engine) RegisterScenario(s model.Scenario) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenarios[s.ID] = s
	return nil
}

// Scenarios lists registered scripts ordered by ID
func (e *Engine) Scenarios() []model.Scenario {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]model.Scenario, 0, len(e.scenarios))
	for _, s := range e.scenarios {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b model.Scenario) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// TriggerScenario starts a script. Steps without delay apply before
// returning; the rest are scheduled on the engine clock relative to the
// trigger time. Overlapping runs interleave unless WithSupersede is given.
func (e *Engine) TriggerScenario(ctx context.Context, id types.ScenarioID, opts ...TriggerOption) (model.ScenarioRun, error) {
	var cfg triggerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	e.mu.Lock()
	s, ok := e.scenarios[id]
	if !ok {
		e.mu.Unlock()
		return model.ScenarioRun{}, goerr.Wrap(ErrScenarioNotFound, "cannot trigger scenario", goerr.V(model.ScenarioIDKey, id))
	}

	if cfg.supersede {
		for runID, r := range e.runs {
			if r.run.ScenarioID == id {
				r.stop()
				delete(e.runs, runID)
			}
		}
	}

	r := &scenarioRun{
		run: model.ScenarioRun{
			ID:         model.NewRunID(),
			ScenarioID: id,
			StartedAt:  e.clock.Now(),
		},
		pending: make(map[int]*clock.Timer),
	}

	bgCtx := context.WithoutCancel(ctx)
	var immediate []int
	for idx, step := range s.Steps {
		if step.Delay <= 0 {
			immediate = append(immediate, idx)
			continue
		}
		runID, stepIdx, step := r.run.ID, idx, step
		r.pending[idx] = e.clock.AfterFunc(step.Delay, func() {
			e.runStep(bgCtx, runID, stepIdx, step)
		})
	}
	if len(r.pending) > 0 {
		e.runs[r.run.ID] = r
	}
	r.run.Pending = len(r.pending)
	handle := r.run
	e.mu.Unlock()

	logging.From(ctx).Info("scenario triggered",
		"scenario_id", id,
		"run_id", handle.ID,
		"pending_steps", handle.Pending)

	for _, idx := range immediate {
		e.applyStep(ctx, s.Steps[idx])
	}
	return handle, nil
}

// runStep fires a scheduled step unless its run was cancelled
func (e *Engine) runStep(ctx context.Context, runID model.RunID, idx int, step model.ScenarioStep) {
	e.mu.Lock()
	r, ok := e.runs[runID]
	if !ok {
		e.mu.Unlock()
		return
	}
	if _, ok := r.pending[idx]; !ok {
		e.mu.Unlock()
		return
	}
	delete(r.pending, idx)
	if len(r.pending) == 0 {
		delete(e.runs, runID)
	}
	e.mu.Unlock()

	e.applyStep(ctx, step)
}

// applyStep publishes, narrates and proposes in that order
func (e *Engine) applyStep(ctx context.Context, step model.ScenarioStep) {
	if n := step.Notification; n != nil {
		e.publish(ctx, n.Kind, n.Title, n.Message, n.TTL)
	}
	if t := step.Thought; t != nil {
		e.AddThought(ctx, t.Text, t.Category)
	}
	if a := step.Action; a != nil {
		e.AddAction(ctx, a.Title, a.Description, a.Kind, a.AutoExecuteAfter)
	}
}

// CancelScenario drops every pending step of a run. It reports false when
// the run is unknown or already finished.
func (e *Engine) CancelScenario(ctx context.Context, runID model.RunID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.runs[runID]
	if !ok {
		return false
	}
	r.stop()
	delete(e.runs, runID)
	logging.From(ctx).Info("scenario cancelled", "run_id", runID, "scenario_id", r.run.ScenarioID)
	return true
}

// PendingRuns lists runs that still have scheduled steps
func (e *Engine) PendingRuns() []model.ScenarioRun {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]model.ScenarioRun, 0, len(e.runs))
	for _, r := range e.runs {
		run := r.run
		run.Pending = len(r.pending)
		out = append(out, run)
	}
	slices.SortFunc(out, func(a, b model.ScenarioRun) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	return out
}
