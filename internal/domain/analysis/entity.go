package analysis

import (
	"encoding/json"
	"time"
)

// RecordID identifies one saved record
type RecordID string

// Type enum: the five analysis categories
type Type string

const (
	TypeImage        Type = "imageAnalyses"
	TypeVoice        Type = "voiceDiagnoses"
	TypeSymptoms     Type = "symptomChecks"
	TypeMentalHealth Type = "mentalHealthAssessments"
	TypeDietary      Type = "dietaryAnalyses"
)

// Types lists every known analysis type.
func Types() []Type {
	return []Type{TypeImage, TypeVoice, TypeSymptoms, TypeMentalHealth, TypeDietary}
}

// Valid reports whether t is one of the closed set of analysis types.
func (t Type) Valid() bool {
	switch t {
	case TypeImage, TypeVoice, TypeSymptoms, TypeMentalHealth, TypeDietary:
		return true
	}
	return false
}

// Urgency enum
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// Record is one immutable saved outcome of a single analysis request.
// The log is append-only: a record is never updated in place.
// Result stays opaque to the store; only the display layer interprets it.
type Record struct {
	ID        RecordID        `json:"id"`
	UserID    string          `json:"userId"`
	Type      Type            `json:"analysisType"`
	Timestamp time.Time       `json:"timestamp"`
	MediaURL  string          `json:"mediaUrl,omitempty"`
	Result    json.RawMessage `json:"result"`
}
