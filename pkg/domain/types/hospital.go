package types

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

// StockStatus is always derived from stock and minimum level, never set directly
type StockStatus string

const (
	StockGood     StockStatus = "Good"
	StockLow      StockStatus = "Low"
	StockCritical StockStatus = "Critical"
)

type BedStatus string

const (
	BedAvailable   BedStatus = "Available"
	BedOccupied    BedStatus = "Occupied"
	BedCleaning    BedStatus = "Cleaning"
	BedMaintenance BedStatus = "Maintenance"
)

type StaffStatus string

const (
	StaffOnDuty  StaffStatus = "On Duty"
	StaffOffDuty StaffStatus = "Off Duty"
	StaffOnBreak StaffStatus = "On Break"
)

func AllStaffStatuses() []StaffStatus {
	return []StaffStatus{StaffOnDuty, StaffOffDuty, StaffOnBreak}
}

func (s StaffStatus) IsValid() bool {
	return slices.Contains(AllStaffStatuses(), s)
}

func ParseStaffStatus(s string) (StaffStatus, error) {
	v := StaffStatus(s)
	if !v.IsValid() {
		return "", goerr.New("invalid staff status", goerr.V("status", s))
	}
	return v, nil
}

type AlertSeverity string

const (
	AlertLow      AlertSeverity = "low"
	AlertMedium   AlertSeverity = "medium"
	AlertHigh     AlertSeverity = "high"
	AlertCritical AlertSeverity = "critical"
)

type AlertStatus string

const (
	AlertNew          AlertStatus = "New"
	AlertAcknowledged AlertStatus = "Acknowledged"
	AlertResolved     AlertStatus = "Resolved"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "Scheduled"
	AppointmentCheckedIn AppointmentStatus = "Checked In"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
	AppointmentPending   AppointmentStatus = "Pending"
)

func AllAppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		AppointmentScheduled,
		AppointmentCheckedIn,
		AppointmentCompleted,
		AppointmentCancelled,
		AppointmentPending,
	}
}

func (s AppointmentStatus) IsValid() bool {
	return slices.Contains(AllAppointmentStatuses(), s)
}

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	v := AppointmentStatus(s)
	if !v.IsValid() {
		return "", goerr.New("invalid appointment status", goerr.V("status", s))
	}
	return v, nil
}

type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "Paid"
	InvoicePending InvoiceStatus = "Pending"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

// VitalLevel classifies a single vital sign reading
type VitalLevel string

const (
	VitalNormal   VitalLevel = "normal"
	VitalWarning  VitalLevel = "warning"
	VitalCritical VitalLevel = "critical"
)
