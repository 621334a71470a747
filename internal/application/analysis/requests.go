package analysis

import (
	"strings"
	"unicode/utf8"

	domai "github.com/swasthya-ai/swasthya/internal/domain/ai"
	domain "github.com/swasthya-ai/swasthya/internal/domain/analysis"
)

// minTextLen is the minimum description length for the symptom checker
// and mental-health check-in.
const minTextLen = 10

// maxMediaBytes caps decoded uploads; browser data URIs beyond this are
// rejected before any network dispatch.
const maxMediaBytes = 20 << 20

func requireUserID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", domain.Invalid("userId", "must not be empty")
	}
	return id, nil
}

// parseMedia decodes a data URI and enforces the feature's media prefix
// ("image/" or "audio/"). A mismatched type is a validation error, never
// a dispatched request.
func parseMedia(field, dataURI, prefix string) (*domai.Media, error) {
	m, err := domai.ParseDataURI(dataURI)
	if err != nil {
		return nil, domain.Invalid(field, err.Error())
	}
	if !m.HasPrefix(prefix) {
		return nil, domain.Invalid(field, "unsupported media type "+m.MIME+", expected "+prefix+"*")
	}
	if len(m.Data) == 0 {
		return nil, domain.Invalid(field, "empty media payload")
	}
	if len(m.Data) > maxMediaBytes {
		return nil, domain.Invalid(field, "media payload too large")
	}
	return &m, nil
}

// ImageRequest carries an image upload plus a description of the concern.
type ImageRequest struct {
	UserID      string `json:"userId"`
	Description string `json:"description"`
	Image       string `json:"image"` // data URI, image/*
	Save        bool   `json:"save"`
}

func (r *ImageRequest) validate() (*domai.Media, error) {
	id, err := requireUserID(r.UserID)
	if err != nil {
		return nil, err
	}
	r.UserID = id
	if strings.TrimSpace(r.Description) == "" {
		return nil, domain.Invalid("description", "must not be empty")
	}
	if strings.TrimSpace(r.Image) == "" {
		return nil, domain.Invalid("image", "an image is required")
	}
	return parseMedia("image", r.Image, "image/")
}

// VoiceRequest carries recorded audio and/or a typed transcript.
type VoiceRequest struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
	Audio  string `json:"audio,omitempty"` // data URI, audio/*
	Save   bool   `json:"save"`
}

func (r *VoiceRequest) validate() (*domai.Media, error) {
	id, err := requireUserID(r.UserID)
	if err != nil {
		return nil, err
	}
	r.UserID = id
	hasText := strings.TrimSpace(r.Text) != ""
	hasAudio := strings.TrimSpace(r.Audio) != ""
	if !hasText && !hasAudio {
		return nil, domain.Invalid("text", "provide a description or an audio recording")
	}
	if !hasAudio {
		return nil, nil
	}
	return parseMedia("audio", r.Audio, "audio/")
}

// SymptomRequest carries a free-text symptom description.
type SymptomRequest struct {
	UserID   string `json:"userId"`
	Symptoms string `json:"symptoms"`
	Save     bool   `json:"save"`
}

func (r *SymptomRequest) validate() error {
	id, err := requireUserID(r.UserID)
	if err != nil {
		return err
	}
	r.UserID = id
	if utf8.RuneCountInString(strings.TrimSpace(r.Symptoms)) < minTextLen {
		return domain.Invalid("symptoms", "describe your symptoms in a little more detail")
	}
	return nil
}

// MentalHealthRequest carries a free-text check-in.
type MentalHealthRequest struct {
	UserID  string `json:"userId"`
	Feeling string `json:"feeling"`
	Save    bool   `json:"save"`
}

func (r *MentalHealthRequest) validate() error {
	id, err := requireUserID(r.UserID)
	if err != nil {
		return err
	}
	r.UserID = id
	if utf8.RuneCountInString(strings.TrimSpace(r.Feeling)) < minTextLen {
		return domain.Invalid("feeling", "tell us a little more about how you are feeling")
	}
	return nil
}

// DietRequest carries a meal description and/or a meal photo.
type DietRequest struct {
	UserID      string `json:"userId"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"` // data URI, image/*
	Save        bool   `json:"save"`
}

func (r *DietRequest) validate() (*domai.Media, error) {
	id, err := requireUserID(r.UserID)
	if err != nil {
		return nil, err
	}
	r.UserID = id
	hasText := strings.TrimSpace(r.Description) != ""
	hasImage := strings.TrimSpace(r.Image) != ""
	if !hasText && !hasImage {
		return nil, domain.Invalid("description", "provide a meal description or a photo")
	}
	if !hasImage {
		return nil, nil
	}
	return parseMedia("image", r.Image, "image/")
}
