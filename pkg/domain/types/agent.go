package types

import (
	"regexp"
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

// ThoughtCategory tags a narration line with the subsystem it concerns
type ThoughtCategory string

const (
	CategoryHealth       ThoughtCategory = "Health"
	CategoryLogistics    ThoughtCategory = "Logistics"
	CategorySecurity     ThoughtCategory = "Security"
	CategoryEnvironment  ThoughtCategory = "Environment"
	CategoryResource     ThoughtCategory = "Resource"
	CategoryMedicalIntel ThoughtCategory = "Medical_Intel"
)

func AllThoughtCategories() []ThoughtCategory {
	return []ThoughtCategory{
		CategoryHealth,
		CategoryLogistics,
		CategorySecurity,
		CategoryEnvironment,
		CategoryResource,
		CategoryMedicalIntel,
	}
}

func (c ThoughtCategory) IsValid() bool {
	return slices.Contains(AllThoughtCategories(), c)
}

func (c ThoughtCategory) String() string {
	return string(c)
}

func ParseThoughtCategory(s string) (ThoughtCategory, error) {
	c := ThoughtCategory(s)
	if !c.IsValid() {
		return "", goerr.New("invalid thought category", goerr.V("category", s))
	}
	return c, nil
}

// ThoughtState is the display state of a thought
type ThoughtState string

const (
	ThoughtThinking ThoughtState = "thinking"
	ThoughtDone     ThoughtState = "done"
)

// ActionKind classifies a proposed action
type ActionKind string

const (
	ActionIntervention ActionKind = "intervention"
	ActionAutomation   ActionKind = "automation"
	ActionSuggestion   ActionKind = "suggestion"
)

func AllActionKinds() []ActionKind {
	return []ActionKind{ActionIntervention, ActionAutomation, ActionSuggestion}
}

func (k ActionKind) IsValid() bool {
	return slices.Contains(AllActionKinds(), k)
}

func (k ActionKind) String() string {
	return string(k)
}

func ParseActionKind(s string) (ActionKind, error) {
	k := ActionKind(s)
	if !k.IsValid() {
		return "", goerr.New("invalid action kind", goerr.V("kind", s))
	}
	return k, nil
}

// ActionStatus is the lifecycle state of an action. Only pending is
// non-terminal.
type ActionStatus string

const (
	ActionPending  ActionStatus = "pending"
	ActionExecuted ActionStatus = "executed"
	ActionRejected ActionStatus = "rejected"
)

func (s ActionStatus) IsTerminal() bool {
	return s == ActionExecuted || s == ActionRejected
}

func (s ActionStatus) String() string {
	return string(s)
}

// ScenarioID names a scripted scenario
type ScenarioID string

const (
	ScenarioHighHR       ScenarioID = "HighHR"
	ScenarioLowStock     ScenarioID = "LowStock"
	ScenarioStaffBurnout ScenarioID = "StaffBurnout"
	ScenarioSOS          ScenarioID = "SOS"
)

var scenarioIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Validate checks that the id is usable as a URL path segment
func (id ScenarioID) Validate() error {
	if id == "" {
		return goerr.New("scenario ID cannot be empty")
	}
	if !scenarioIDPattern.MatchString(string(id)) {
		return goerr.New("scenario ID must be alphanumeric with hyphens or underscores", goerr.V("id", id))
	}
	return nil
}

func (id ScenarioID) String() string {
	return string(id)
}

// UserRole selects the persona the agent engine narrates for
type UserRole string

const (
	RolePatient UserRole = "patient"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	return r == RolePatient || r == RoleAdmin
}

func (r UserRole) String() string {
	return string(r)
}

func ParseUserRole(s string) (UserRole, error) {
	r := UserRole(s)
	if !r.IsValid() {
		return "", goerr.New("invalid user role", goerr.V("role", s))
	}
	return r, nil
}
