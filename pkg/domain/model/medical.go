package model

import (
	"time"

	"github.com/hashcare/hashcare/pkg/domain/types"
)

// MedicalDocument is an uploaded document and the outcome of its analysis
type MedicalDocument struct {
	ID            DocumentID           `json:"id"`
	Name          string               `json:"name"`
	Type          string               `json:"type"`
	MimeType      string               `json:"mimeType"`
	UploadedAt    time.Time            `json:"uploadedAt"`
	Status        types.DocumentStatus `json:"status"`
	StorageKey    string               `json:"storageKey,omitempty"`
	Summary       string               `json:"summary,omitempty"`
	Tags          []string             `json:"tags"`
	Abnormalities []string             `json:"abnormalities"`
}

// MedicalMemory is a fact extracted from a document or a transcript.
// It changes only through an explicit user edit or ignore.
type MedicalMemory struct {
	ID          MemoryID           `json:"id"`
	SourceDocID DocumentID         `json:"sourceDocId,omitempty"`
	Date        time.Time          `json:"date"`
	Type        types.MemoryType   `json:"type"`
	Detail      string             `json:"detail"`
	Status      types.MemoryStatus `json:"status"`
	Confidence  int                `json:"confidence"`
}

type ActionItem struct {
	Type     string         `json:"type"`
	Detail   string         `json:"detail"`
	Priority types.Priority `json:"priority"`
}

// DocumentAnalysis is the structured reading of a medical document. A
// non-empty Error means the analysis failed and the other fields are unset.
type DocumentAnalysis struct {
	DocType       string       `json:"docType"`
	Date          string       `json:"date"`
	Summary       string       `json:"summary"`
	Abnormalities []string     `json:"abnormalities"`
	ActionItems   []ActionItem `json:"actionItems"`
	Error         string       `json:"error,omitempty"`
}

func (a *DocumentAnalysis) Failed() bool {
	return a == nil || a.Error != ""
}

type Insight struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	Confidence int    `json:"confidence"`
}

// TranscriptAnalysis follows the same Error convention as DocumentAnalysis
type TranscriptAnalysis struct {
	Insights      []Insight `json:"insights"`
	MissedActions []string  `json:"missedActions"`
	Error         string    `json:"error,omitempty"`
}

func (a *TranscriptAnalysis) Failed() bool {
	return a == nil || a.Error != ""
}

// NearbyHospital is a hospital suggested by the AI gateway
type NearbyHospital struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Distance      string   `json:"distance"`
	Rating        float64  `json:"rating"`
	BedsAvailable int      `json:"bedsAvailable"`
	WaitList      int      `json:"waitList"`
	Specialties   []string `json:"specialties"`
	Address       string   `json:"address,omitempty"`
}
