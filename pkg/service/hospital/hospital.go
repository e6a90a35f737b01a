package hospital

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// TickInterval is how often Hospital.Tick is expected to run
const TickInterval = 5 * time.Second

const (
	consumeChance  = 0.2
	maxConsume     = 4
	incidentChance = 0.01
	// fatigue drift per tick
	maxFatigueGain = 2
	maxFatigueDrop = 3
)

var (
	incidentTypes     = []string{"Hypotension Alert", "Arrhythmia Detected", "Oxygen Supply Low", "Fall Detected"}
	incidentLocations = []string{"Ward A", "ICU", "ER", "Ward B"}
)

// Hospital simulates hospital operations: pharmacy stock, clinical alerts
// and staff fatigue. It also owns the bed board, appointments and billing.
type Hospital struct {
	clock    clock.Clock
	rng      *rand.Rand
	notifier interfaces.Notifier

	mu           sync.RWMutex
	staff        []model.Staff
	beds         []model.Bed
	inventory    []model.InventoryItem
	appointments []model.Appointment
	invoices     []model.Invoice
	alerts       []model.AlertIncident
	erQueue      []model.ERTriagePatient
	departments  []model.DepartmentMetric
}

var _ interfaces.Simulator = &Hospital{}

type Option func(*Hospital)

func WithClock(clk clock.Clock) Option {
	return func(h *Hospital) {
		h.clock = clk
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(h *Hospital) {
		h.rng = rng
	}
}

// WithNotifier publishes stock, incident and fatigue alerts
func WithNotifier(n interfaces.Notifier) Option {
	return func(h *Hospital) {
		h.notifier = n
	}
}

func WithStaff(staff []model.Staff) Option {
	return func(h *Hospital) {
		h.staff = slices.Clone(staff)
	}
}

func WithBeds(beds []model.Bed) Option {
	return func(h *Hospital) {
		h.beds = slices.Clone(beds)
	}
}

func WithInventory(items []model.InventoryItem) Option {
	return func(h *Hospital) {
		h.inventory = slices.Clone(items)
	}
}

func New(opts ...Option) *Hospital {
	h := &Hospital{
		clock: clock.New(),
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.staff == nil {
		h.staff = SeedStaff()
	}
	if h.beds == nil {
		h.beds = SeedBeds()
	}
	if h.inventory == nil {
		h.inventory = SeedInventory()
	}
	for i := range h.inventory {
		h.inventory[i].Stock = max(h.inventory[i].Stock, 0)
		h.inventory[i].MinLevel = max(h.inventory[i].MinLevel, 0)
		h.inventory[i].Reclassify()
	}
	for i := range h.staff {
		h.staff[i].FatigueLevel = model.ClampPercent(h.staff[i].FatigueLevel)
	}
	h.appointments = SeedAppointments()
	h.invoices = SeedInvoices()
	h.alerts = SeedAlerts(h.clock.Now())
	h.erQueue = SeedERQueue()
	h.departments = SeedDepartmentMetrics()

	return h
}

type pending struct {
	kind    types.NotificationKind
	title   string
	message string
}

// Tick consumes stock, occasionally injects a clinical alert and drifts
// staff fatigue. Notifications are published after the state is swapped in.
func (h *Hospital) Tick(ctx context.Context) error {
	var out []pending

	h.mu.Lock()
	now := h.clock.Now()

	inventory := slices.Clone(h.inventory)
	var newAlerts []model.AlertIncident
	for i := range inventory {
		if h.rng.Float64() >= consumeChance {
			continue
		}
		item := &inventory[i]
		before := item.Status
		item.Stock = max(0, item.Stock-h.rng.IntN(maxConsume+1))
		item.Reclassify()

		if item.Status == types.StockCritical && before != types.StockCritical {
			alert := stockAlert(*item, now)
			newAlerts = append(newAlerts, alert)
			out = append(out, pending{types.NotificationWarning, alert.Type, alert.Description})
		}
	}
	h.inventory = inventory

	if h.rng.Float64() < incidentChance {
		severity := types.AlertMedium
		if h.rng.Float64() < 0.5 {
			severity = types.AlertHigh
		}
		alert := model.AlertIncident{
			ID:        fmt.Sprintf("ALT-%d", now.UnixMilli()),
			Type:      incidentTypes[h.rng.IntN(len(incidentTypes))],
			Location:  incidentLocations[h.rng.IntN(len(incidentLocations))],
			Severity:  severity,
			Time:      "Just now",
			Distance:  "0m",
			Status:    types.AlertNew,
			CreatedAt: now,
		}
		newAlerts = append(newAlerts, alert)
		out = append(out, pending{types.NotificationCritical, alert.Type,
			fmt.Sprintf("%s reported at %s.", alert.Type, alert.Location)})
	}

	if len(newAlerts) > 0 {
		h.alerts = append(newAlerts, h.alerts...)
	}

	staff := slices.Clone(h.staff)
	for i := range staff {
		s := &staff[i]
		before := s.FatigueLevel
		if s.Status == types.StaffOnDuty {
			s.FatigueLevel += h.rng.IntN(maxFatigueGain + 1)
		} else {
			s.FatigueLevel -= h.rng.IntN(maxFatigueDrop + 1)
		}
		s.FatigueLevel = model.ClampPercent(s.FatigueLevel)

		if before <= model.BurnoutFatigueLevel && s.FatigueLevel > model.BurnoutFatigueLevel {
			out = append(out, pending{types.NotificationWarning, "Fatigue Warning",
				fmt.Sprintf("%s (%s) fatigue level reached %d%%.", s.Name, s.Department, s.FatigueLevel)})
		}
	}
	h.staff = staff
	h.mu.Unlock()

	h.publish(ctx, out)
	return nil
}

func stockAlert(item model.InventoryItem, now time.Time) model.AlertIncident {
	return model.AlertIncident{
		ID:          fmt.Sprintf("INV-%d-%d", now.UnixMilli(), item.ID),
		Type:        "Critical Low Stock",
		Location:    "Pharmacy Storage",
		Severity:    types.AlertMedium,
		Time:        "Just now",
		Distance:    "-",
		Status:      types.AlertNew,
		Description: fmt.Sprintf("%s is critically low (%d %s). Restock immediately.", item.Name, item.Stock, item.Unit),
		CreatedAt:   now,
	}
}

func (h *Hospital) publish(ctx context.Context, out []pending) {
	if h.notifier == nil {
		return
	}
	for _, p := range out {
		h.notifier.Publish(ctx, p.kind, p.title, p.message, model.DefaultToastTTL)
	}
}

// Snapshot returns copies of the current hospital state
func (h *Hospital) Snapshot() model.HospitalSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return model.HospitalSnapshot{
		Staff:             slices.Clone(h.staff),
		Beds:              slices.Clone(h.beds),
		Inventory:         slices.Clone(h.inventory),
		Appointments:      slices.Clone(h.appointments),
		Invoices:          slices.Clone(h.invoices),
		Alerts:            slices.Clone(h.alerts),
		ERQueue:           slices.Clone(h.erQueue),
		DepartmentMetrics: slices.Clone(h.departments),
	}
}

func (h *Hospital) Inventory() []model.InventoryItem {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.inventory)
}

func (h *Hospital) Staff() []model.Staff {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.staff)
}

func (h *Hospital) Alerts() []model.AlertIncident {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.alerts)
}

// OccupancyRate is the share of occupied beds in percent
func (h *Hospital) OccupancyRate() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.beds) == 0 {
		return 0
	}
	occupied := 0
	for _, b := range h.beds {
		if b.Status == types.BedOccupied {
			occupied++
		}
	}
	return float64(occupied) / float64(len(h.beds)) * 100
}

// BurnoutRisk returns on-duty staff above the burnout fatigue level
func (h *Hospital) BurnoutRisk() []model.Staff {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []model.Staff
	for _, s := range h.staff {
		if s.Status == types.StaffOnDuty && s.FatigueLevel > model.BurnoutFatigueLevel {
			out = append(out, s)
		}
	}
	return out
}

// AssignBed admits a patient to an available bed
func (h *Hospital) AssignBed(ctx context.Context, bedID, patientName string) (model.Bed, error) {
	patientName = strings.TrimSpace(patientName)
	if patientName == "" {
		return model.Bed{}, goerr.Wrap(model.ErrInvalidInput, "patient name is required", goerr.V(model.FieldKey, "patientName"))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	idx, err := h.bedIndex(bedID)
	if err != nil {
		return model.Bed{}, err
	}
	if st := h.beds[idx].Status; st != types.BedAvailable {
		return model.Bed{}, goerr.Wrap(model.ErrConflict, "bed is not available",
			goerr.V(model.BedIDKey, bedID), goerr.V(model.StatusKey, st))
	}

	beds := slices.Clone(h.beds)
	beds[idx].Status = types.BedOccupied
	beds[idx].PatientName = patientName
	beds[idx].AdmissionTime = "Just now"
	h.beds = beds

	logging.From(ctx).Info("bed assigned", "bed_id", bedID)
	return beds[idx], nil
}

// DischargeBed frees an occupied bed; it goes to cleaning first
func (h *Hospital) DischargeBed(ctx context.Context, bedID string) (model.Bed, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx, err := h.bedIndex(bedID)
	if err != nil {
		return model.Bed{}, err
	}
	if st := h.beds[idx].Status; st != types.BedOccupied {
		return model.Bed{}, goerr.Wrap(model.ErrConflict, "bed is not occupied",
			goerr.V(model.BedIDKey, bedID), goerr.V(model.StatusKey, st))
	}

	beds := slices.Clone(h.beds)
	beds[idx].Status = types.BedCleaning
	beds[idx].PatientName = ""
	beds[idx].AdmissionTime = ""
	beds[idx].PredictedDischarge = ""
	h.beds = beds

	logging.From(ctx).Info("bed discharged", "bed_id", bedID)
	return beds[idx], nil
}

// UpdateInventory sets the stock of one item and recomputes its status
func (h *Hospital) UpdateInventory(ctx context.Context, itemID, stock int) (model.InventoryItem, error) {
	if stock < 0 {
		return model.InventoryItem{}, goerr.Wrap(model.ErrInvalidInput, "stock must not be negative",
			goerr.V(model.ItemIDKey, itemID), goerr.V("stock", stock))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	idx := slices.IndexFunc(h.inventory, func(i model.InventoryItem) bool { return i.ID == itemID })
	if idx < 0 {
		return model.InventoryItem{}, goerr.Wrap(model.ErrNotFound, "inventory item not found", goerr.V(model.ItemIDKey, itemID))
	}

	inventory := slices.Clone(h.inventory)
	inventory[idx].Stock = stock
	inventory[idx].Reclassify()
	h.inventory = inventory

	logging.From(ctx).Info("inventory updated",
		"item_id", itemID,
		"stock", stock,
		"status", inventory[idx].Status)
	return inventory[idx], nil
}

// ProcurementPlan lists every Low or Critical item with the quantity that
// brings it to twice its minimum level
func (h *Hospital) ProcurementPlan() []model.ProcurementLine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return procurementPlan(h.inventory)
}

func procurementPlan(inventory []model.InventoryItem) []model.ProcurementLine {
	var lines []model.ProcurementLine
	for _, item := range inventory {
		if item.Status == types.StockGood {
			continue
		}
		lines = append(lines, model.ProcurementLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Stock:    item.Stock,
			MinLevel: item.MinLevel,
			Status:   item.Status,
			Quantity: 2*item.MinLevel - item.Stock,
			Unit:     item.Unit,
		})
	}
	return lines
}

// Procure executes the procurement plan and returns the lines ordered
func (h *Hospital) Procure(ctx context.Context) []model.ProcurementLine {
	h.mu.Lock()
	lines := procurementPlan(h.inventory)
	if len(lines) > 0 {
		inventory := slices.Clone(h.inventory)
		for _, line := range lines {
			idx := slices.IndexFunc(inventory, func(i model.InventoryItem) bool { return i.ID == line.ItemID })
			inventory[idx].Stock += line.Quantity
			inventory[idx].Reclassify()
		}
		h.inventory = inventory
	}
	h.mu.Unlock()

	if len(lines) > 0 {
		logging.From(ctx).Info("procurement executed", "lines", len(lines))
		h.publish(ctx, []pending{{types.NotificationSuccess, "Procurement Order Placed",
			fmt.Sprintf("Restock ordered for %d items.", len(lines))}})
	}
	return lines
}

// AddStaff registers a staff member. A zero ID is replaced by the next free
// one.
func (h *Hospital) AddStaff(ctx context.Context, s model.Staff) (model.Staff, error) {
	if strings.TrimSpace(s.Name) == "" {
		return model.Staff{}, goerr.Wrap(model.ErrInvalidInput, "staff name is required", goerr.V(model.FieldKey, "name"))
	}
	if s.Status == "" {
		s.Status = types.StaffOnDuty
	}
	if !s.Status.IsValid() {
		return model.Staff{}, goerr.Wrap(model.ErrInvalidInput, "invalid staff status", goerr.V(model.StatusKey, s.Status))
	}
	s.FatigueLevel = model.ClampPercent(s.FatigueLevel)

	h.mu.Lock()
	defer h.mu.Unlock()

	if s.ID == 0 {
		s.ID = nextID(h.staff, func(s model.Staff) int { return s.ID })
	} else if slices.ContainsFunc(h.staff, func(x model.Staff) bool { return x.ID == s.ID }) {
		return model.Staff{}, goerr.Wrap(model.ErrAlreadyExists, "staff id already used", goerr.V(model.StaffIDKey, s.ID))
	}
	h.staff = append(slices.Clone(h.staff), s)

	logging.From(ctx).Info("staff added", "staff_id", s.ID)
	return s, nil
}

// UpdateStaff replaces a staff record
func (h *Hospital) UpdateStaff(ctx context.Context, s model.Staff) (model.Staff, error) {
	if !s.Status.IsValid() {
		return model.Staff{}, goerr.Wrap(model.ErrInvalidInput, "invalid staff status", goerr.V(model.StatusKey, s.Status))
	}
	s.FatigueLevel = model.ClampPercent(s.FatigueLevel)

	h.mu.Lock()
	defer h.mu.Unlock()

	idx, err := h.staffIndex(s.ID)
	if err != nil {
		return model.Staff{}, err
	}
	staff := slices.Clone(h.staff)
	staff[idx] = s
	h.staff = staff
	return s, nil
}

func (h *Hospital) UpdateStaffStatus(ctx context.Context, id int, status types.StaffStatus) (model.Staff, error) {
	if !status.IsValid() {
		return model.Staff{}, goerr.Wrap(model.ErrInvalidInput, "invalid staff status", goerr.V(model.StatusKey, status))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	idx, err := h.staffIndex(id)
	if err != nil {
		return model.Staff{}, err
	}
	staff := slices.Clone(h.staff)
	staff[idx].Status = status
	h.staff = staff

	logging.From(ctx).Info("staff status updated", "staff_id", id, "status", status)
	return staff[idx], nil
}

func (h *Hospital) AddAppointment(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	if strings.TrimSpace(a.PatientName) == "" {
		return model.Appointment{}, goerr.Wrap(model.ErrInvalidInput, "patient name is required", goerr.V(model.FieldKey, "patientName"))
	}
	if a.Status == "" {
		a.Status = types.AppointmentScheduled
	}
	if !a.Status.IsValid() {
		return model.Appointment{}, goerr.Wrap(model.ErrInvalidInput, "invalid appointment status", goerr.V(model.StatusKey, a.Status))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if a.ID == 0 {
		a.ID = nextID(h.appointments, func(a model.Appointment) int { return a.ID })
	}
	h.appointments = append(slices.Clone(h.appointments), a)
	return a, nil
}

func (h *Hospital) UpdateAppointmentStatus(ctx context.Context, id int, status types.AppointmentStatus) (model.Appointment, error) {
	if !status.IsValid() {
		return model.Appointment{}, goerr.Wrap(model.ErrInvalidInput, "invalid appointment status", goerr.V(model.StatusKey, status))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	idx := slices.IndexFunc(h.appointments, func(a model.Appointment) bool { return a.ID == id })
	if idx < 0 {
		return model.Appointment{}, goerr.Wrap(model.ErrNotFound, "appointment not found", goerr.V(model.AppointmentKey, id))
	}
	appointments := slices.Clone(h.appointments)
	appointments[idx].Status = status
	h.appointments = appointments
	return appointments[idx], nil
}

// CreateInvoice puts a new invoice at the head of the billing list
func (h *Hospital) CreateInvoice(ctx context.Context, inv model.Invoice) (model.Invoice, error) {
	if strings.TrimSpace(inv.PatientName) == "" {
		return model.Invoice{}, goerr.Wrap(model.ErrInvalidInput, "patient name is required", goerr.V(model.FieldKey, "patientName"))
	}
	if inv.Amount < 0 {
		return model.Invoice{}, goerr.Wrap(model.ErrInvalidInput, "amount must not be negative", goerr.V("amount", inv.Amount))
	}
	if inv.Status == "" {
		inv.Status = types.InvoicePending
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if inv.ID == "" {
		inv.ID = fmt.Sprintf("INV-%03d", len(h.invoices)+1)
		for slices.ContainsFunc(h.invoices, func(x model.Invoice) bool { return x.ID == inv.ID }) {
			inv.ID = fmt.Sprintf("INV-%d", h.clock.Now().UnixNano())
		}
	}
	if inv.Date == "" {
		inv.Date = h.clock.Now().Format(time.DateOnly)
	}

	invoices := make([]model.Invoice, 0, len(h.invoices)+1)
	invoices = append(invoices, inv)
	h.invoices = append(invoices, h.invoices...)
	return inv, nil
}

// ResolveAlert removes an alert from the board
func (h *Hospital) ResolveAlert(ctx context.Context, alertID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := slices.IndexFunc(h.alerts, func(a model.AlertIncident) bool { return a.ID == alertID })
	if idx < 0 {
		return goerr.Wrap(model.ErrNotFound, "alert not found", goerr.V(model.AlertIDKey, alertID))
	}
	h.alerts = slices.Delete(slices.Clone(h.alerts), idx, idx+1)

	logging.From(ctx).Info("alert resolved", "alert_id", alertID)
	return nil
}

func (h *Hospital) bedIndex(id string) (int, error) {
	idx := slices.IndexFunc(h.beds, func(b model.Bed) bool { return b.ID == id })
	if idx < 0 {
		return -1, goerr.Wrap(model.ErrNotFound, "bed not found", goerr.V(model.BedIDKey, id))
	}
	return idx, nil
}

func (h *Hospital) staffIndex(id int) (int, error) {
	idx := slices.IndexFunc(h.staff, func(s model.Staff) bool { return s.ID == id })
	if idx < 0 {
		return -1, goerr.Wrap(model.ErrNotFound, "staff not found", goerr.V(model.StaffIDKey, id))
	}
	return idx, nil
}

func nextID[T any](items []T, id func(T) int) int {
	next := 1
	for _, item := range items {
		next = max(next, id(item)+1)
	}
	return next
}
