package model

import (
	"time"

	"github.com/hashcare/hashcare/pkg/domain/types"
)

type Staff struct {
	ID           int               `json:"id" toml:"id"`
	Name         string            `json:"name" toml:"name"`
	Role         string            `json:"role" toml:"role"`
	Department   string            `json:"department" toml:"department"`
	Status       types.StaffStatus `json:"status" toml:"status"`
	Shift        string            `json:"shift" toml:"shift"`
	Contact      string            `json:"contact" toml:"contact"`
	FatigueLevel int               `json:"fatigueLevel" toml:"fatigue_level"`
}

type Bed struct {
	ID                 string          `json:"id" toml:"id"`
	Ward               string          `json:"ward" toml:"ward"`
	Number             int             `json:"number" toml:"number"`
	Status             types.BedStatus `json:"status" toml:"status"`
	PatientName        string          `json:"patientName,omitempty" toml:"patient_name"`
	AdmissionTime      string          `json:"admissionTime,omitempty" toml:"admission_time"`
	Type               string          `json:"type" toml:"type"`
	PredictedDischarge string          `json:"predictedDischarge,omitempty" toml:"predicted_discharge"`
}

type InventoryItem struct {
	ID         int               `json:"id" toml:"id"`
	Name       string            `json:"name" toml:"name"`
	Category   string            `json:"category" toml:"category"`
	Stock      int               `json:"stock" toml:"stock"`
	Unit       string            `json:"unit" toml:"unit"`
	MinLevel   int               `json:"minLevel" toml:"min_level"`
	Expiry     string            `json:"expiry" toml:"expiry"`
	Status     types.StockStatus `json:"status" toml:"-"`
	AutoRefill bool              `json:"autoRefill,omitempty" toml:"auto_refill"`
}

// Reclassify recomputes Status from the current numbers
func (i *InventoryItem) Reclassify() {
	i.Status = ClassifyStock(i.Stock, i.MinLevel)
}

type Appointment struct {
	ID          int                     `json:"id"`
	PatientName string                  `json:"patientName"`
	DoctorName  string                  `json:"doctorName"`
	Type        string                  `json:"type"`
	Time        string                  `json:"time"`
	Date        string                  `json:"date"`
	Status      types.AppointmentStatus `json:"status"`
	Notes       string                  `json:"notes,omitempty"`
}

type Invoice struct {
	ID          string              `json:"id"`
	PatientName string              `json:"patientName"`
	Amount      float64             `json:"amount"`
	Date        string              `json:"date"`
	Status      types.InvoiceStatus `json:"status"`
	Items       []string            `json:"items"`
}

type AlertIncident struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	Location    string              `json:"location"`
	Severity    types.AlertSeverity `json:"severity"`
	Time        string              `json:"time"`
	Distance    string              `json:"distance"`
	Description string              `json:"description,omitempty"`
	Status      types.AlertStatus   `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type ERTriagePatient struct {
	ID                 string `json:"id"`
	Time               string `json:"time"`
	Symptoms           string `json:"symptoms"`
	AISeverity         int    `json:"aiSeverity"`
	PredictedDiagnosis string `json:"predictedDiagnosis"`
	Status             string `json:"status"`
}

type DepartmentMetric struct {
	Name       string `json:"name"`
	Load       int    `json:"load"`
	Staffing   int    `json:"staffing"`
	Efficiency int    `json:"efficiency"`
}

// Understaffed reports whether patient load exceeds staffing
func (m DepartmentMetric) Understaffed() bool {
	return m.Load > m.Staffing
}

// ProcurementLine is one suggested restock order
type ProcurementLine struct {
	ItemID   int               `json:"itemId"`
	Name     string            `json:"name"`
	Stock    int               `json:"stock"`
	MinLevel int               `json:"minLevel"`
	Status   types.StockStatus `json:"status"`
	Quantity int               `json:"quantity"`
	Unit     string            `json:"unit"`
}

// HospitalSnapshot is an immutable view of hospital operations
type HospitalSnapshot struct {
	Staff             []Staff            `json:"staff"`
	Beds              []Bed              `json:"beds"`
	Inventory         []InventoryItem    `json:"inventory"`
	Appointments      []Appointment      `json:"appointments"`
	Invoices          []Invoice          `json:"invoices"`
	Alerts            []AlertIncident    `json:"alerts"`
	ERQueue           []ERTriagePatient  `json:"erQueue"`
	DepartmentMetrics []DepartmentMetric `json:"departmentMetrics"`
}
