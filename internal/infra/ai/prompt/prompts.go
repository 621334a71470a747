// Package prompt builds schema-constrained prompts for the five analysis
// features. Every system prompt demands one valid JSON object per the
// feature's schema; missing fields are back-filled later by the domain
// normalizer, not by the model.
package prompt

import "fmt"

const commonRules = `You are a cautious health information assistant, not a doctor. You must produce one valid JSON object only (no markdown, no commentary, no code fences). Never give a definitive diagnosis; always encourage consulting a professional. Where indianMedicalRecommendations is requested, suggest plausible specialists or hospitals in India relevant to the concern, as objects with doctorName, hospitalName, specialty and optionally phoneNumber.`

// ImageSystem is the schema-bearing system prompt for medical image analysis.
func ImageSystem() string {
	return commonRules + `

Task: analyze a user-provided medical image together with their description of the concern.

Schema (example with empty values):
{
  "assessment": "<string>",
  "recommendations": "<string>",
  "doctorRecommendations": ["<specialist>"],
  "indianMedicalRecommendations": [
    {"doctorName": "<string>", "hospitalName": "<string>", "specialty": "<string>", "phoneNumber": "<string>"}
  ]
}`
}

// ImageUser wraps the user's description; the image itself travels as a
// vision content part.
func ImageUser(description string) string {
	return fmt.Sprintf("The attached image relates to this concern: %s\nRespond with the JSON per schema.", description)
}

// VoiceSystem is the schema-bearing system prompt for spoken symptom intake.
func VoiceSystem() string {
	return commonRules + `

Task: the user described their symptoms by voice; you receive the transcript. Identify potential conditions and ask clarifying questions.

Schema (example with empty values):
{
  "potentialConditions": ["<string>"],
  "clarifyingQuestions": ["<string>"],
  "doctorRecommendations": ["<specialist>"],
  "indianMedicalRecommendations": [
    {"doctorName": "<string>", "hospitalName": "<string>", "specialty": "<string>", "phoneNumber": "<string>"}
  ]
}`
}

func VoiceUser(transcript string) string {
	return fmt.Sprintf("Symptom description (transcribed): %s\nRespond with the JSON per schema.", transcript)
}

// SymptomsSystem is the schema-bearing system prompt for the symptom checker.
func SymptomsSystem() string {
	return commonRules + `

Task: triage a free-text symptom description. urgency must be exactly one of "Low", "Medium" or "High", with reasoning.

Schema (example with empty values):
{
  "potentialConditions": ["<string>"],
  "urgency": "<Low|Medium|High>",
  "urgencyReasoning": "<string>",
  "suggestedNextSteps": ["<string>"],
  "doctorRecommendations": ["<specialist>"],
  "indianMedicalRecommendations": [
    {"doctorName": "<string>", "hospitalName": "<string>", "specialty": "<string>", "phoneNumber": "<string>"}
  ]
}`
}

func SymptomsUser(symptoms string) string {
	return fmt.Sprintf("Symptoms: %s\nRespond with the JSON per schema.", symptoms)
}

// MentalHealthSystem is the schema-bearing system prompt for the check-in.
// crisisWarning is a pass-through display field: set it only when the text
// suggests immediate risk, and keep it empty otherwise.
func MentalHealthSystem() string {
	return commonRules + `

Task: a supportive, non-clinical read of a mental-health check-in. If the text suggests a risk of self-harm or harm to others, set crisisWarning to a short message pointing to emergency services and helplines; otherwise omit it.

Schema (example with empty values):
{
  "assessment": "<string>",
  "recommendations": ["<string>"],
  "resourceSuggestions": ["<string>"],
  "crisisWarning": "<string, optional>",
  "indianMedicalRecommendations": [
    {"doctorName": "<string>", "hospitalName": "<string>", "specialty": "<string>", "phoneNumber": "<string>"}
  ]
}`
}

func MentalHealthUser(feeling string) string {
	return fmt.Sprintf("Check-in: %s\nRespond with the JSON per schema.", feeling)
}

// DietSystem is the schema-bearing system prompt for dietary analysis.
func DietSystem() string {
	return commonRules + `

Task: analyze a described and/or photographed meal for nutritional content.

Schema (example with empty values):
{
  "nutritionalBreakdown": "<string>",
  "healthObservations": ["<string>"],
  "improvementSuggestions": ["<string>"],
  "professionalRecommendation": "<string>",
  "indianMedicalRecommendations": [
    {"doctorName": "<string>", "hospitalName": "<string>", "specialty": "<string>", "phoneNumber": "<string>"}
  ]
}`
}

func DietUser(description string, hasImage bool) string {
	switch {
	case description == "" && hasImage:
		return "Analyze the attached meal photo and respond with the JSON per schema."
	case hasImage:
		return fmt.Sprintf("Meal description: %s\nA photo of the meal is attached. Respond with the JSON per schema.", description)
	default:
		return fmt.Sprintf("Meal description: %s\nRespond with the JSON per schema.", description)
	}
}
