package analysis

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeBackfillsDoctorRecommendations(t *testing.T) {
	for _, tc := range []struct {
		name string
		res  Result
	}{
		{"image", &ImageResult{}},
		{"voice", &VoiceResult{}},
		{"symptoms", &SymptomResult{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			tc.res.Normalize()
			var got []string
			switch r := tc.res.(type) {
			case *ImageResult:
				got = r.DoctorRecommendations
			case *VoiceResult:
				got = r.DoctorRecommendations
			case *SymptomResult:
				got = r.DoctorRecommendations
			}
			if !reflect.DeepEqual(got, []string{"General Practitioner"}) {
				t.Errorf("doctorRecommendations = %v, want [General Practitioner]", got)
			}
		})
	}
}

func TestNormalizeKeepsExplicitDoctorRecommendations(t *testing.T) {
	r := &SymptomResult{DoctorRecommendations: []string{"Cardiologist"}}
	r.Normalize()
	if !reflect.DeepEqual(r.DoctorRecommendations, []string{"Cardiologist"}) {
		t.Errorf("doctorRecommendations = %v, want [Cardiologist]", r.DoctorRecommendations)
	}
}

func TestNormalizeMentalHealthDefaults(t *testing.T) {
	r := &MentalHealthResult{Assessment: "you sound tired"}
	r.Normalize()

	want := []string{"General Practitioner", "Mental Health Professional"}
	if !reflect.DeepEqual(r.ResourceSuggestions, want) {
		t.Errorf("resourceSuggestions = %v, want %v", r.ResourceSuggestions, want)
	}
	if r.CrisisWarning != "" {
		t.Errorf("crisisWarning = %q, want empty (pass-through only)", r.CrisisWarning)
	}
}

func TestNormalizeDietDefaults(t *testing.T) {
	r := &DietResult{NutritionalBreakdown: "mostly carbs"}
	r.Normalize()

	if r.ProfessionalRecommendation != DefaultProfessionalRecommendation {
		t.Errorf("professionalRecommendation = %q, want the fixed fallback", r.ProfessionalRecommendation)
	}
	if r.HealthObservations == nil || r.ImprovementSuggestions == nil {
		t.Error("optional lists should be back-filled with empty slices, not nil")
	}
}

// A symptomChecks payload missing doctorRecommendations and
// indianMedicalRecommendations gains exactly the defaults; every other
// field stays untouched.
func TestNormalizeRawSymptomBackfill(t *testing.T) {
	raw := json.RawMessage(`{
		"potentialConditions": ["tension headache"],
		"urgency": "Low",
		"urgencyReasoning": "no red flags",
		"suggestedNextSteps": ["rest", "hydrate"]
	}`)

	out, err := NormalizeRaw(TypeSymptoms, raw)
	if err != nil {
		t.Fatalf("NormalizeRaw: %v", err)
	}

	var got SymptomResult
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decoding normalized result: %v", err)
	}

	want := SymptomResult{
		PotentialConditions:          []string{"tension headache"},
		Urgency:                      UrgencyLow,
		UrgencyReasoning:             "no red flags",
		SuggestedNextSteps:           []string{"rest", "hydrate"},
		DoctorRecommendations:        []string{"General Practitioner"},
		IndianMedicalRecommendations: []IndianRecommendation{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalized result = %+v, want %+v", got, want)
	}
}

// Re-normalizing an already-normalized payload is a no-op.
func TestNormalizeRawIdempotent(t *testing.T) {
	for _, typ := range Types() {
		once, err := NormalizeRaw(typ, json.RawMessage(`{}`))
		if err != nil {
			t.Fatalf("%s: first NormalizeRaw: %v", typ, err)
		}
		twice, err := NormalizeRaw(typ, once)
		if err != nil {
			t.Fatalf("%s: second NormalizeRaw: %v", typ, err)
		}
		if !bytes.Equal(once, twice) {
			t.Errorf("%s: normalization not idempotent:\nonce:  %s\ntwice: %s", typ, once, twice)
		}
	}
}

func TestNormalizeRawUnknownType(t *testing.T) {
	if _, err := NormalizeRaw(Type("bloodPanels"), json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for unknown analysis type")
	}
}

func TestTypeValid(t *testing.T) {
	for _, typ := range Types() {
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}
	if Type("").Valid() || Type("scans").Valid() {
		t.Error("unknown tags must not validate")
	}
}
