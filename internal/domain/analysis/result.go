package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fallback values applied when the model omits a required list or sentence.
var (
	DefaultDoctorRecommendations = []string{"General Practitioner"}
	DefaultResourceSuggestions   = []string{"General Practitioner", "Mental Health Professional"}
)

// DefaultProfessionalRecommendation is the fixed dietary fallback sentence.
const DefaultProfessionalRecommendation = "Consult a registered dietitian or your General Practitioner for personalized dietary advice."

// IndianRecommendation is one localized professional suggestion.
type IndianRecommendation struct {
	DoctorName   string `json:"doctorName"`
	HospitalName string `json:"hospitalName"`
	Specialty    string `json:"specialty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
}

// Result is implemented by the five payload variants. Normalize back-fills
// missing fields with deterministic defaults and is idempotent.
type Result interface {
	Normalize()
	analysisType() Type
}

type ImageResult struct {
	Assessment                   string                 `json:"assessment"`
	Recommendations              string                 `json:"recommendations"`
	DoctorRecommendations        []string               `json:"doctorRecommendations"`
	IndianMedicalRecommendations []IndianRecommendation `json:"indianMedicalRecommendations"`
}

func (r *ImageResult) analysisType() Type { return TypeImage }

func (r *ImageResult) Normalize() {
	if len(r.DoctorRecommendations) == 0 {
		r.DoctorRecommendations = append([]string(nil), DefaultDoctorRecommendations...)
	}
	if r.IndianMedicalRecommendations == nil {
		r.IndianMedicalRecommendations = []IndianRecommendation{}
	}
}

type VoiceResult struct {
	PotentialConditions          []string               `json:"potentialConditions"`
	ClarifyingQuestions          []string               `json:"clarifyingQuestions"`
	DoctorRecommendations        []string               `json:"doctorRecommendations"`
	IndianMedicalRecommendations []IndianRecommendation `json:"indianMedicalRecommendations"`
}

func (r *VoiceResult) analysisType() Type { return TypeVoice }

func (r *VoiceResult) Normalize() {
	if r.PotentialConditions == nil {
		r.PotentialConditions = []string{}
	}
	if r.ClarifyingQuestions == nil {
		r.ClarifyingQuestions = []string{}
	}
	if len(r.DoctorRecommendations) == 0 {
		r.DoctorRecommendations = append([]string(nil), DefaultDoctorRecommendations...)
	}
	if r.IndianMedicalRecommendations == nil {
		r.IndianMedicalRecommendations = []IndianRecommendation{}
	}
}

type SymptomResult struct {
	PotentialConditions          []string               `json:"potentialConditions"`
	Urgency                      Urgency                `json:"urgency"`
	UrgencyReasoning             string                 `json:"urgencyReasoning"`
	SuggestedNextSteps           []string               `json:"suggestedNextSteps"`
	DoctorRecommendations        []string               `json:"doctorRecommendations"`
	IndianMedicalRecommendations []IndianRecommendation `json:"indianMedicalRecommendations"`
}

func (r *SymptomResult) analysisType() Type { return TypeSymptoms }

func (r *SymptomResult) Normalize() {
	if r.PotentialConditions == nil {
		r.PotentialConditions = []string{}
	}
	if r.SuggestedNextSteps == nil {
		r.SuggestedNextSteps = []string{}
	}
	if len(r.DoctorRecommendations) == 0 {
		r.DoctorRecommendations = append([]string(nil), DefaultDoctorRecommendations...)
	}
	if r.IndianMedicalRecommendations == nil {
		r.IndianMedicalRecommendations = []IndianRecommendation{}
	}
}

type MentalHealthResult struct {
	Assessment                   string                 `json:"assessment"`
	Recommendations              []string               `json:"recommendations"`
	ResourceSuggestions          []string               `json:"resourceSuggestions"`
	CrisisWarning                string                 `json:"crisisWarning,omitempty"`
	IndianMedicalRecommendations []IndianRecommendation `json:"indianMedicalRecommendations"`
}

func (r *MentalHealthResult) analysisType() Type { return TypeMentalHealth }

func (r *MentalHealthResult) Normalize() {
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
	if len(r.ResourceSuggestions) == 0 {
		r.ResourceSuggestions = append([]string(nil), DefaultResourceSuggestions...)
	}
	if r.IndianMedicalRecommendations == nil {
		r.IndianMedicalRecommendations = []IndianRecommendation{}
	}
}

type DietResult struct {
	NutritionalBreakdown         string                 `json:"nutritionalBreakdown"`
	HealthObservations           []string               `json:"healthObservations"`
	ImprovementSuggestions       []string               `json:"improvementSuggestions"`
	ProfessionalRecommendation   string                 `json:"professionalRecommendation"`
	IndianMedicalRecommendations []IndianRecommendation `json:"indianMedicalRecommendations"`
}

func (r *DietResult) analysisType() Type { return TypeDietary }

func (r *DietResult) Normalize() {
	if r.HealthObservations == nil {
		r.HealthObservations = []string{}
	}
	if r.ImprovementSuggestions == nil {
		r.ImprovementSuggestions = []string{}
	}
	if strings.TrimSpace(r.ProfessionalRecommendation) == "" {
		r.ProfessionalRecommendation = DefaultProfessionalRecommendation
	}
	if r.IndianMedicalRecommendations == nil {
		r.IndianMedicalRecommendations = []IndianRecommendation{}
	}
}

// NewResult returns the zero payload variant for t.
func NewResult(t Type) (Result, error) {
	switch t {
	case TypeImage:
		return &ImageResult{}, nil
	case TypeVoice:
		return &VoiceResult{}, nil
	case TypeSymptoms:
		return &SymptomResult{}, nil
	case TypeMentalHealth:
		return &MentalHealthResult{}, nil
	case TypeDietary:
		return &DietResult{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
}

// DecodeResult parses raw into the typed variant for t without normalizing.
func DecodeResult(t Type, raw json.RawMessage) (Result, error) {
	res, err := NewResult(t)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, res); err != nil {
		return nil, fmt.Errorf("decoding %s result: %w", t, err)
	}
	return res, nil
}

// NormalizeRaw decodes raw as a t payload, back-fills defaults and re-encodes.
// Running it over already-normalized input yields identical output.
func NormalizeRaw(t Type, raw json.RawMessage) (json.RawMessage, error) {
	res, err := DecodeResult(t, raw)
	if err != nil {
		return nil, err
	}
	res.Normalize()
	out, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encoding %s result: %w", t, err)
	}
	return out, nil
}
