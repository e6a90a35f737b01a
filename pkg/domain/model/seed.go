package model

// Seed is the initial simulation state loaded at startup. Empty sections
// keep the built-in data.
type Seed struct {
	Ambulances []Ambulance
	Drivers    []Driver
	Jobs       []DispatchJob
	Staff      []Staff
	Beds       []Bed
	Inventory  []InventoryItem
	Scenarios  []Scenario
}
