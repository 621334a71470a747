package analysis

import (
	"encoding/json"
	"strings"
)

// DisplayRecord is the common display shape shared by the five result
// payloads. Absent fields render as absent sections, never as errors.
type DisplayRecord struct {
	Assessment            string                 `json:"assessment,omitempty"`
	Recommendations       []string               `json:"recommendations,omitempty"`
	Urgency               Urgency                `json:"urgency,omitempty"`
	CrisisWarning         string                 `json:"crisisWarning,omitempty"`
	SpecialistOrResources []string               `json:"specialistOrResources,omitempty"`
	IndianRecommendations []IndianRecommendation `json:"indianRecommendations,omitempty"`
}

// Display extracts the canonical display shape from a raw result payload.
// The five variants name conceptually equivalent content differently, so
// extraction is an exhaustive switch over the type tag rather than a
// duck-typed field probe. Malformed payloads yield an empty display.
func Display(t Type, raw json.RawMessage) DisplayRecord {
	res, err := DecodeResult(t, raw)
	if err != nil {
		return DisplayRecord{}
	}
	return displayOf(res)
}

func displayOf(res Result) DisplayRecord {
	var d DisplayRecord
	switch r := res.(type) {
	case *ImageResult:
		d.Assessment = r.Assessment
		if strings.TrimSpace(r.Recommendations) != "" {
			d.Recommendations = []string{r.Recommendations}
		}
		d.SpecialistOrResources = r.DoctorRecommendations
		d.IndianRecommendations = r.IndianMedicalRecommendations
	case *VoiceResult:
		d.Assessment = strings.Join(r.PotentialConditions, ", ")
		d.Recommendations = r.ClarifyingQuestions
		d.SpecialistOrResources = r.DoctorRecommendations
		d.IndianRecommendations = r.IndianMedicalRecommendations
	case *SymptomResult:
		d.Assessment = r.UrgencyReasoning
		if d.Assessment == "" {
			d.Assessment = strings.Join(r.PotentialConditions, ", ")
		}
		d.Urgency = r.Urgency
		d.Recommendations = r.SuggestedNextSteps
		d.SpecialistOrResources = r.DoctorRecommendations
		d.IndianRecommendations = r.IndianMedicalRecommendations
	case *MentalHealthResult:
		d.Assessment = r.Assessment
		d.Recommendations = r.Recommendations
		d.CrisisWarning = r.CrisisWarning
		d.SpecialistOrResources = r.ResourceSuggestions
		d.IndianRecommendations = r.IndianMedicalRecommendations
	case *DietResult:
		d.Assessment = r.NutritionalBreakdown
		d.Recommendations = r.ImprovementSuggestions
		if strings.TrimSpace(r.ProfessionalRecommendation) != "" {
			d.SpecialistOrResources = []string{r.ProfessionalRecommendation}
		}
		d.IndianRecommendations = r.IndianMedicalRecommendations
	}
	if len(d.Recommendations) == 0 {
		d.Recommendations = nil
	}
	if len(d.SpecialistOrResources) == 0 {
		d.SpecialistOrResources = nil
	}
	if len(d.IndianRecommendations) == 0 {
		d.IndianRecommendations = nil
	}
	return d
}
