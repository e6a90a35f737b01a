package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// SeedFile is the TOML layout of the simulation seed. Every section is
// optional.
type SeedFile struct {
	Ambulances []model.Ambulance     `toml:"ambulance"`
	Drivers    []model.Driver        `toml:"driver"`
	Jobs       []model.DispatchJob   `toml:"job"`
	Staff      []model.Staff         `toml:"staff"`
	Beds       []model.Bed           `toml:"bed"`
	Inventory  []model.InventoryItem `toml:"inventory"`
	Scenarios  []Scenario            `toml:"scenario"`
}

// Scenario is a scripted scenario with durations written as strings
// ("500ms", "2s")
type Scenario struct {
	ID          string `toml:"id"`
	Description string `toml:"description"`
	Steps       []Step `toml:"step"`
}

type Step struct {
	Delay        string        `toml:"delay"`
	Notification *Notification `toml:"notification"`
	Thought      *Thought      `toml:"thought"`
	Action       *Action       `toml:"action"`
}

type Notification struct {
	Kind    string `toml:"kind"`
	Title   string `toml:"title"`
	Message string `toml:"message"`
	TTL     string `toml:"ttl"`
}

type Thought struct {
	Text     string `toml:"text"`
	Category string `toml:"category"`
}

type Action struct {
	Title            string `toml:"title"`
	Description      string `toml:"description"`
	Kind             string `toml:"kind"`
	AutoExecuteAfter string `toml:"auto_execute_after"`
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidDuration, "failed to parse duration", goerr.V("value", s))
	}
	return d, nil
}

// parseTTL reads a toast lifetime. Empty selects the default toast TTL;
// "sticky", "0s" and negative values keep the toast until dismissed.
func parseTTL(s string) (time.Duration, error) {
	switch s {
	case "":
		return model.DefaultToastTTL, nil
	case "sticky":
		return model.StickyTTL, nil
	}
	d, err := parseDuration(s)
	if err != nil {
		return 0, err
	}
	return model.ResolveTTL(d), nil
}

// ToModel converts and validates the script
func (s *Scenario) ToModel() (model.Scenario, error) {
	out := model.Scenario{
		ID:          types.ScenarioID(s.ID),
		Description: s.Description,
	}

	for i, st := range s.Steps {
		delay, err := parseDuration(st.Delay)
		if err != nil {
			return model.Scenario{}, goerr.Wrap(err, "invalid step delay", goerr.V(IDKey, s.ID), goerr.V(model.StepIndexKey, i))
		}
		step := model.ScenarioStep{Delay: delay}

		if n := st.Notification; n != nil {
			ttl, err := parseTTL(n.TTL)
			if err != nil {
				return model.Scenario{}, goerr.Wrap(err, "invalid notification ttl", goerr.V(IDKey, s.ID), goerr.V(model.StepIndexKey, i))
			}
			kind, err := types.ParseNotificationKind(n.Kind)
			if err != nil {
				return model.Scenario{}, goerr.Wrap(ErrInvalidConfig, "invalid notification kind", goerr.V(IDKey, s.ID), goerr.V(model.StepIndexKey, i), goerr.V("kind", n.Kind))
			}
			step.Notification = &model.NotificationSpec{Kind: kind, Title: n.Title, Message: n.Message, TTL: ttl}
		}

		if th := st.Thought; th != nil {
			step.Thought = &model.ThoughtSpec{Text: th.Text, Category: types.ThoughtCategory(th.Category)}
		}

		if a := st.Action; a != nil {
			after, err := parseDuration(a.AutoExecuteAfter)
			if err != nil {
				return model.Scenario{}, goerr.Wrap(err, "invalid auto execution delay", goerr.V(IDKey, s.ID), goerr.V(model.StepIndexKey, i))
			}
			step.Action = &model.ActionSpec{
				Title:            a.Title,
				Description:      a.Description,
				Kind:             types.ActionKind(a.Kind),
				AutoExecuteAfter: after,
			}
		}

		out.Steps = append(out.Steps, step)
	}

	if err := out.Validate(); err != nil {
		return model.Scenario{}, goerr.Wrap(ErrInvalidConfig, "invalid scenario", goerr.V(IDKey, s.ID), goerr.V("cause", err.Error()))
	}
	return out, nil
}

func checkUnique[T any, K comparable](section string, items []T, key func(T) K) error {
	seen := make(map[K]bool, len(items))
	for _, item := range items {
		k := key(item)
		if seen[k] {
			return goerr.Wrap(ErrDuplicateID, "duplicate ID in seed", goerr.V(SectionKey, section), goerr.V(IDKey, k))
		}
		seen[k] = true
	}
	return nil
}

// Validate checks IDs are unique within each section and that stock,
// fuel and fatigue values are in range
func (f *SeedFile) Validate() error {
	if err := checkUnique("ambulance", f.Ambulances, func(a model.Ambulance) string { return a.ID }); err != nil {
		return err
	}
	if err := checkUnique("driver", f.Drivers, func(d model.Driver) string { return d.ID }); err != nil {
		return err
	}
	if err := checkUnique("job", f.Jobs, func(j model.DispatchJob) string { return j.ID }); err != nil {
		return err
	}
	if err := checkUnique("staff", f.Staff, func(s model.Staff) int { return s.ID }); err != nil {
		return err
	}
	if err := checkUnique("bed", f.Beds, func(b model.Bed) string { return b.ID }); err != nil {
		return err
	}
	if err := checkUnique("inventory", f.Inventory, func(i model.InventoryItem) int { return i.ID }); err != nil {
		return err
	}
	if err := checkUnique("scenario", f.Scenarios, func(s Scenario) string { return s.ID }); err != nil {
		return err
	}
	for _, a := range f.Ambulances {
		if a.FuelLevel < 0 || a.FuelLevel > 100 {
			return goerr.Wrap(ErrInvalidConfig, "fuel level must be within 0..100", goerr.V(SectionKey, "ambulance"), goerr.V(IDKey, a.ID), goerr.V("fuel_level", a.FuelLevel))
		}
	}
	for _, s := range f.Staff {
		if s.FatigueLevel < 0 || s.FatigueLevel > 100 {
			return goerr.Wrap(ErrInvalidConfig, "fatigue level must be within 0..100", goerr.V(SectionKey, "staff"), goerr.V(IDKey, s.ID), goerr.V("fatigue_level", s.FatigueLevel))
		}
	}
	for _, i := range f.Inventory {
		if i.Stock < 0 || i.MinLevel < 0 {
			return goerr.Wrap(ErrInvalidConfig, "stock and min_level must not be negative", goerr.V(SectionKey, "inventory"), goerr.V(IDKey, i.ID), goerr.V("stock", i.Stock), goerr.V("min_level", i.MinLevel))
		}
	}
	return nil
}

// ToModel converts the file into the seed handed to the simulators
func (f *SeedFile) ToModel() (*model.Seed, error) {
	seed := &model.Seed{
		Ambulances: f.Ambulances,
		Drivers:    f.Drivers,
		Jobs:       f.Jobs,
		Staff:      f.Staff,
		Beds:       f.Beds,
		Inventory:  f.Inventory,
	}
	for _, s := range f.Scenarios {
		sc, err := s.ToModel()
		if err != nil {
			return nil, err
		}
		seed.Scenarios = append(seed.Scenarios, sc)
	}
	return seed, nil
}

// LoadSeed loads the simulation seed from a TOML file
func LoadSeed(path string) (*model.Seed, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "seed file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V(ConfigPathKey, path))
	}

	var file SeedFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML seed", goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "seed validation failed", goerr.V(ConfigPathKey, path))
	}

	seed, err := file.ToModel()
	if err != nil {
		return nil, goerr.Wrap(err, "seed conversion failed", goerr.V(ConfigPathKey, path))
	}
	return seed, nil
}
