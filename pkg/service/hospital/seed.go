package hospital

import (
	"time"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
)

func SeedStaff() []model.Staff {
	return []model.Staff{
		{ID: 1, Name: "Dr. Anjali Sharma", Role: "Doctor", Department: "Cardiology", Status: types.StaffOnDuty, Shift: "Morning", Contact: "98765-11001", FatigueLevel: 45},
		{ID: 2, Name: "Dr. Vikram Singh", Role: "Doctor", Department: "Emergency", Status: types.StaffOnDuty, Shift: "Morning", Contact: "98765-11002", FatigueLevel: 82},
		{ID: 3, Name: "Nurse Priya Patel", Role: "Nurse", Department: "ICU", Status: types.StaffOnDuty, Shift: "Morning", Contact: "98765-11003", FatigueLevel: 90},
		{ID: 4, Name: "Dr. Arjun Reddy", Role: "Doctor", Department: "Neurology", Status: types.StaffOffDuty, Shift: "Night", Contact: "98765-11004", FatigueLevel: 10},
		{ID: 5, Name: "Dr. Meera Iyer", Role: "Doctor", Department: "Pediatrics", Status: types.StaffOnDuty, Shift: "Evening", Contact: "98765-11005", FatigueLevel: 30},
		{ID: 6, Name: "Ramesh Kumar", Role: "Support", Department: "Housekeeping", Status: types.StaffOnDuty, Shift: "Morning", Contact: "98765-11020", FatigueLevel: 60},
		{ID: 7, Name: "Sunita Devi", Role: "Support", Department: "Sanitation", Status: types.StaffOnBreak, Shift: "Morning", Contact: "98765-11021", FatigueLevel: 55},
		{ID: 8, Name: "Dr. Sanjay Verma", Role: "Doctor", Department: "ENT", Status: types.StaffOnBreak, Shift: "Evening", Contact: "98765-11008", FatigueLevel: 40},
		{ID: 9, Name: "Sister Mary", Role: "Nurse", Department: "General Ward", Status: types.StaffOnDuty, Shift: "Night", Contact: "98765-11009", FatigueLevel: 75},
		{ID: 10, Name: "Rajesh Singh", Role: "Support", Department: "Security", Status: types.StaffOnDuty, Shift: "Night", Contact: "98765-11030", FatigueLevel: 20},
		{ID: 11, Name: "Amitabh Bachchan", Role: "Admin", Department: "Management", Status: types.StaffOnDuty, Shift: "Morning", Contact: "98765-11040", FatigueLevel: 50},
		{ID: 12, Name: "Tech. Rahul Roy", Role: "Support", Department: "Lab", Status: types.StaffOnDuty, Shift: "Evening", Contact: "98765-11050", FatigueLevel: 35},
	}
}

func SeedBeds() []model.Bed {
	return []model.Bed{
		{ID: "ICU-01", Ward: "ICU", Number: 1, Status: types.BedOccupied, PatientName: "Rahul Verma (45M)", Type: "ICU", AdmissionTime: "2d ago"},
		{ID: "ICU-02", Ward: "ICU", Number: 2, Status: types.BedAvailable, Type: "ICU"},
		{ID: "ICU-03", Ward: "ICU", Number: 3, Status: types.BedMaintenance, Type: "ICU"},
		{ID: "ICU-04", Ward: "ICU", Number: 4, Status: types.BedOccupied, PatientName: "Anita Roy (62F)", Type: "ICU", AdmissionTime: "5h ago"},
		{ID: "GEN-01", Ward: "General", Number: 101, Status: types.BedOccupied, PatientName: "Sneha Gupta (28F)", Type: "General", AdmissionTime: "1d ago"},
		{ID: "GEN-02", Ward: "General", Number: 102, Status: types.BedAvailable, Type: "General"},
		{ID: "GEN-03", Ward: "General", Number: 103, Status: types.BedAvailable, Type: "General"},
		{ID: "GEN-04", Ward: "General", Number: 104, Status: types.BedCleaning, Type: "General"},
		{ID: "ER-01", Ward: "Emergency", Number: 1, Status: types.BedOccupied, PatientName: "Amit Kumar (33M)", Type: "Emergency", AdmissionTime: "30m ago"},
		{ID: "ER-02", Ward: "Emergency", Number: 2, Status: types.BedOccupied, PatientName: "Sanya Malhotra (22F)", Type: "Emergency", AdmissionTime: "1h ago"},
		{ID: "ER-03", Ward: "Emergency", Number: 3, Status: types.BedAvailable, Type: "Emergency"},
	}
}

// SeedInventory returns the built-in pharmacy stock. Status is left empty
// and derived on load.
func SeedInventory() []model.InventoryItem {
	return []model.InventoryItem{
		{ID: 1, Name: "Dolo 650", Category: "Medicine", Stock: 850, Unit: "strips", MinLevel: 200, Expiry: "2025-12"},
		{ID: 2, Name: "Augmentin 625", Category: "Medicine", Stock: 120, Unit: "strips", MinLevel: 50, Expiry: "2024-11"},
		{ID: 3, Name: "Pan-D", Category: "Medicine", Stock: 45, Unit: "strips", MinLevel: 100, Expiry: "2025-05"},
		{ID: 4, Name: "Ascoril LS", Category: "Medicine", Stock: 15, Unit: "bottles", MinLevel: 30, Expiry: "2024-09"},
		{ID: 5, Name: "Volini Gel", Category: "Consumable", Stock: 60, Unit: "tubes", MinLevel: 20, Expiry: "2026-01"},
		{ID: 6, Name: "Betadine", Category: "Consumable", Stock: 200, Unit: "tubes", MinLevel: 50, Expiry: "2025-08"},
		{ID: 7, Name: "Shelcal 500", Category: "Medicine", Stock: 300, Unit: "strips", MinLevel: 100, Expiry: "2027-01"},
		{ID: 8, Name: "Montair LC", Category: "Medicine", Stock: 250, Unit: "strips", MinLevel: 100, Expiry: "2026-05"},
		{ID: 9, Name: "Azithral 500", Category: "Medicine", Stock: 80, Unit: "strips", MinLevel: 50, Expiry: "2025-04"},
		{ID: 10, Name: "Glycomet-GP 1", Category: "Medicine", Stock: 400, Unit: "strips", MinLevel: 150, Expiry: "2025-10"},
		{ID: 11, Name: "Telma 40", Category: "Medicine", Stock: 350, Unit: "strips", MinLevel: 100, Expiry: "2026-02"},
		{ID: 12, Name: "Combiflam", Category: "Medicine", Stock: 600, Unit: "strips", MinLevel: 200, Expiry: "2025-11"},
	}
}

func SeedAppointments() []model.Appointment {
	return []model.Appointment{
		{ID: 1, PatientName: "Aditi Rao", DoctorName: "Dr. Anjali Sharma", Type: "Check-up", Time: "09:00 AM", Date: "2023-10-25", Status: types.AppointmentCheckedIn},
		{ID: 2, PatientName: "Vijay Kumar", DoctorName: "Dr. Vikram Singh", Type: "Emergency Follow-up", Time: "10:30 AM", Date: "2023-10-25", Status: types.AppointmentScheduled},
		{ID: 3, PatientName: "Chirag Menon", DoctorName: "Dr. Anjali Sharma", Type: "Consultation", Time: "02:00 PM", Date: "2023-10-25", Status: types.AppointmentPending},
	}
}

func SeedInvoices() []model.Invoice {
	return []model.Invoice{
		{ID: "INV-001", PatientName: "Rahul Verma", Amount: 1200.50, Date: "2023-10-24", Status: types.InvoicePending, Items: []string{"ICU Stay (1 day)", "MRI Scan"}},
		{ID: "INV-002", PatientName: "Sneha Gupta", Amount: 450.00, Date: "2023-10-23", Status: types.InvoicePaid, Items: []string{"General Ward (2 days)", "Medication"}},
	}
}

func SeedAlerts(now time.Time) []model.AlertIncident {
	return []model.AlertIncident{
		{ID: "ALT-1", Type: "Cardiac Arrest", Location: "ER - Bed 2", Severity: types.AlertCritical, Time: "2m ago", Distance: "0m", Status: types.AlertNew, CreatedAt: now.Add(-2 * time.Minute)},
		{ID: "ALT-2", Type: "Oxygen Pressure Low", Location: "ICU - Unit 3", Severity: types.AlertHigh, Time: "15m ago", Distance: "0m", Status: types.AlertAcknowledged, CreatedAt: now.Add(-15 * time.Minute)},
	}
}

func SeedERQueue() []model.ERTriagePatient {
	return []model.ERTriagePatient{
		{ID: "ER-101", Time: "10:42 AM", Symptoms: "Severe Chest Pain", AISeverity: 9, PredictedDiagnosis: "Possible Myocardial Infarction", Status: "Incoming"},
		{ID: "ER-102", Time: "10:45 AM", Symptoms: "Road Accident / Trauma", AISeverity: 8, PredictedDiagnosis: "Fracture / Internal Bleeding", Status: "Incoming"},
		{ID: "ER-103", Time: "10:55 AM", Symptoms: "High Fever (104F)", AISeverity: 6, PredictedDiagnosis: "Viral Infection / Dengue", Status: "Triaged"},
	}
}

func SeedDepartmentMetrics() []model.DepartmentMetric {
	return []model.DepartmentMetric{
		{Name: "Emergency", Load: 85, Staffing: 90, Efficiency: 92},
		{Name: "ICU", Load: 70, Staffing: 80, Efficiency: 88},
		{Name: "Cardiology", Load: 60, Staffing: 100, Efficiency: 95},
		{Name: "General", Load: 45, Staffing: 70, Efficiency: 85},
		{Name: "Pediatrics", Load: 55, Staffing: 85, Efficiency: 90},
	}
}
