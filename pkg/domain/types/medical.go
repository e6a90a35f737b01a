package types

type DocumentStatus string

const (
	DocumentAnalyzing DocumentStatus = "analyzing"
	DocumentProcessed DocumentStatus = "processed"
	DocumentError     DocumentStatus = "error"
)

// MemoryType classifies an extracted medical memory
type MemoryType string

const (
	MemoryInstruction MemoryType = "instruction"
	MemoryMedication  MemoryType = "medication"
	MemoryTestResult  MemoryType = "test_result"
	MemoryAppointment MemoryType = "appointment"
	MemoryLifestyle   MemoryType = "lifestyle"
)

// MemoryTypeFromInsight maps a transcript insight type onto a memory type.
// Unknown values become instructions.
func MemoryTypeFromInsight(s string) MemoryType {
	switch MemoryType(s) {
	case MemoryMedication, MemoryLifestyle, MemoryInstruction, MemoryTestResult, MemoryAppointment:
		return MemoryType(s)
	default:
		return MemoryInstruction
	}
}

type MemoryStatus string

const (
	MemoryActive    MemoryStatus = "active"
	MemoryCompleted MemoryStatus = "completed"
	MemoryMissed    MemoryStatus = "missed"
	MemoryIgnored   MemoryStatus = "ignored"
)

// Priority of an extracted action item
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)
