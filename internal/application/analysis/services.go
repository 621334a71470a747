package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swasthya-ai/swasthya/internal/application"
	domai "github.com/swasthya-ai/swasthya/internal/domain/ai"
	domain "github.com/swasthya-ai/swasthya/internal/domain/analysis"
	"github.com/swasthya-ai/swasthya/internal/infra/ai/prompt"
)

// Service implements the five analysis use-cases plus history retrieval.
// Safe for concurrent use.
type Service struct {
	Repo  domain.Repository
	AI    domai.Client
	Media domain.MediaStore // optional, archives uploads when configured
	Clock application.Clock
	Log   *zap.Logger
}

// Outcome is one finished submit: the persisted (or persistable) record,
// its display shape, and whether persistence succeeded. A failed save
// never discards the computed result; SaveError carries the reason.
type Outcome struct {
	Record    *domain.Record       `json:"record"`
	Display   domain.DisplayRecord `json:"display"`
	Saved     bool                 `json:"saved"`
	SaveError string               `json:"saveError,omitempty"`
}

func (s *Service) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

// AnalyzeImage runs the medical-image pipeline: image + description.
func (s *Service) AnalyzeImage(ctx context.Context, req ImageRequest) (*Outcome, error) {
	media, err := req.validate()
	if err != nil {
		return nil, err
	}
	creq := domai.CompletionRequest{
		System: prompt.ImageSystem(),
		User:   prompt.ImageUser(strings.TrimSpace(req.Description)),
		Image:  media,
	}
	return s.run(ctx, domain.TypeImage, req.UserID, creq, media, req.Save)
}

// AnalyzeVoice transcribes recorded audio when present and merges it with
// any typed text before the completion call.
func (s *Service) AnalyzeVoice(ctx context.Context, req VoiceRequest) (*Outcome, error) {
	media, err := req.validate()
	if err != nil {
		return nil, err
	}
	transcript := strings.TrimSpace(req.Text)
	if media != nil {
		spoken, err := s.AI.Transcribe(ctx, *media)
		if err != nil {
			return nil, err
		}
		if transcript == "" {
			transcript = spoken
		} else if spoken != "" {
			transcript = transcript + "\n" + spoken
		}
	}
	if transcript == "" {
		return nil, domain.Invalid("audio", "nothing could be transcribed from the recording")
	}
	creq := domai.CompletionRequest{
		System: prompt.VoiceSystem(),
		User:   prompt.VoiceUser(transcript),
	}
	return s.run(ctx, domain.TypeVoice, req.UserID, creq, media, req.Save)
}

// CheckSymptoms triages a free-text symptom description.
func (s *Service) CheckSymptoms(ctx context.Context, req SymptomRequest) (*Outcome, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	creq := domai.CompletionRequest{
		System: prompt.SymptomsSystem(),
		User:   prompt.SymptomsUser(strings.TrimSpace(req.Symptoms)),
	}
	return s.run(ctx, domain.TypeSymptoms, req.UserID, creq, nil, req.Save)
}

// AssessMentalHealth runs the check-in pipeline. The crisisWarning field
// in the result is a pass-through from the model, not a safety system.
func (s *Service) AssessMentalHealth(ctx context.Context, req MentalHealthRequest) (*Outcome, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	creq := domai.CompletionRequest{
		System: prompt.MentalHealthSystem(),
		User:   prompt.MentalHealthUser(strings.TrimSpace(req.Feeling)),
	}
	return s.run(ctx, domain.TypeMentalHealth, req.UserID, creq, nil, req.Save)
}

// AnalyzeDiet analyzes a described and/or photographed meal.
func (s *Service) AnalyzeDiet(ctx context.Context, req DietRequest) (*Outcome, error) {
	media, err := req.validate()
	if err != nil {
		return nil, err
	}
	creq := domai.CompletionRequest{
		System: prompt.DietSystem(),
		User:   prompt.DietUser(strings.TrimSpace(req.Description), media != nil),
		Image:  media,
	}
	return s.run(ctx, domain.TypeDietary, req.UserID, creq, media, req.Save)
}

// History returns the user's full record log newest-first.
func (s *Service) History(ctx context.Context, userID string) ([]*domain.Record, error) {
	userID, err := requireUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, userID)
}

// run is the shared tail of every submit: completion -> normalize ->
// record -> optional media archive -> optional save -> display.
func (s *Service) run(ctx context.Context, t domain.Type, userID string, creq domai.CompletionRequest, media *domai.Media, save bool) (*Outcome, error) {
	raw, err := s.AI.Complete(ctx, creq)
	if err != nil {
		return nil, err
	}
	normalized, err := domain.NormalizeRaw(t, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domai.ErrMalformedCompletion, err)
	}

	rec := &domain.Record{
		ID:        domain.RecordID(fmt.Sprintf("%s-%s", t, uuid.New().String())),
		UserID:    userID,
		Type:      t,
		Timestamp: s.Clock.Now().UTC(),
		Result:    normalized,
	}

	if media != nil && s.Media != nil {
		key := fmt.Sprintf("%s/%s/%s.%s", userID, t, rec.ID, media.Ext())
		url, err := s.Media.Put(ctx, key, media.MIME, media.Data)
		if err != nil {
			// Archiving is best-effort; the analysis proceeds without it.
			s.logger().Warn("media archive failed", zap.String("key", key), zap.Error(err))
		} else {
			rec.MediaURL = url
		}
	}

	out := &Outcome{Record: rec, Display: domain.Display(t, normalized)}
	if save {
		if err := s.Repo.Save(ctx, rec); err != nil {
			// Persistence failure must not hide a successful analysis.
			s.logger().Error("record save failed",
				zap.String("user_id", userID),
				zap.String("analysis_type", string(t)),
				zap.Error(err))
			out.SaveError = err.Error()
		} else {
			out.Saved = true
		}
	}
	return out, nil
}
