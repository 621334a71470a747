package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	domai "github.com/swasthya-ai/swasthya/internal/domain/ai"
	domain "github.com/swasthya-ai/swasthya/internal/domain/analysis"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// fakeAI returns canned completions and records the requests it saw.
type fakeAI struct {
	completion    string
	completionErr error
	transcript    string
	transcribeErr error

	lastRequest *domai.CompletionRequest
	transcribed bool
}

func (f *fakeAI) Complete(ctx context.Context, req domai.CompletionRequest) (json.RawMessage, error) {
	f.lastRequest = &req
	if f.completionErr != nil {
		return nil, f.completionErr
	}
	return json.RawMessage(f.completion), nil
}

func (f *fakeAI) Transcribe(ctx context.Context, audio domai.Media) (string, error) {
	f.transcribed = true
	if f.transcribeErr != nil {
		return "", f.transcribeErr
	}
	return f.transcript, nil
}

// memRepo is an in-memory Repository; failSave simulates a store outage.
type memRepo struct {
	records  []*domain.Record
	failSave error
}

func (m *memRepo) Save(ctx context.Context, rec *domain.Record) error {
	if strings.TrimSpace(rec.UserID) == "" {
		return domain.ErrEmptyUserID
	}
	if m.failSave != nil {
		return m.failSave
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memRepo) List(ctx context.Context, userID string) ([]*domain.Record, error) {
	out := []*domain.Record{}
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].UserID == userID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func dataURI(mime, payload string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func newService(ai *fakeAI, repo *memRepo) *Service {
	return &Service{
		Repo:  repo,
		AI:    ai,
		Clock: fixedClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func TestCheckSymptomsPipeline(t *testing.T) {
	ai := &fakeAI{completion: `{"potentialConditions":["dehydration"],"urgency":"Low","urgencyReasoning":"mild","suggestedNextSteps":["drink water"]}`}
	repo := &memRepo{}
	svc := newService(ai, repo)

	out, err := svc.CheckSymptoms(context.Background(), SymptomRequest{
		UserID:   " u1 ",
		Symptoms: "headache and dry mouth since morning",
		Save:     true,
	})
	if err != nil {
		t.Fatalf("CheckSymptoms: %v", err)
	}

	if !out.Saved {
		t.Errorf("Saved = false, want true (SaveError=%q)", out.SaveError)
	}
	if out.Record.UserID != "u1" {
		t.Errorf("userId not trimmed: %q", out.Record.UserID)
	}
	if out.Record.Type != domain.TypeSymptoms {
		t.Errorf("analysisType = %s", out.Record.Type)
	}
	if !strings.HasPrefix(string(out.Record.ID), string(domain.TypeSymptoms)+"-") {
		t.Errorf("record id %q missing type prefix", out.Record.ID)
	}
	if !out.Record.Timestamp.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("timestamp = %v, want the clock's instant", out.Record.Timestamp)
	}

	// Normalization ran: the missing specialist list gained its default.
	var res domain.SymptomResult
	if err := json.Unmarshal(out.Record.Result, &res); err != nil {
		t.Fatal(err)
	}
	if len(res.DoctorRecommendations) != 1 || res.DoctorRecommendations[0] != "General Practitioner" {
		t.Errorf("doctorRecommendations = %v", res.DoctorRecommendations)
	}

	if out.Display.Urgency != domain.UrgencyLow {
		t.Errorf("display urgency = %q", out.Display.Urgency)
	}
	if len(repo.records) != 1 {
		t.Fatalf("repo holds %d records, want 1", len(repo.records))
	}
}

func TestValidationRejectedBeforeDispatch(t *testing.T) {
	png := dataURI("image/png", "img")
	wav := dataURI("audio/wav", "aud")

	for _, tc := range []struct {
		name string
		call func(svc *Service) error
	}{
		{"symptoms empty user", func(svc *Service) error {
			_, err := svc.CheckSymptoms(context.Background(), SymptomRequest{Symptoms: "a very long symptom text"})
			return err
		}},
		{"symptoms too short", func(svc *Service) error {
			_, err := svc.CheckSymptoms(context.Background(), SymptomRequest{UserID: "u1", Symptoms: "ache"})
			return err
		}},
		{"mental health too short", func(svc *Service) error {
			_, err := svc.AssessMentalHealth(context.Background(), MentalHealthRequest{UserID: "u1", Feeling: "sad"})
			return err
		}},
		{"image without description", func(svc *Service) error {
			_, err := svc.AnalyzeImage(context.Background(), ImageRequest{UserID: "u1", Image: png})
			return err
		}},
		{"image without image", func(svc *Service) error {
			_, err := svc.AnalyzeImage(context.Background(), ImageRequest{UserID: "u1", Description: "rash on arm"})
			return err
		}},
		{"image with audio payload", func(svc *Service) error {
			_, err := svc.AnalyzeImage(context.Background(), ImageRequest{UserID: "u1", Description: "rash", Image: wav})
			return err
		}},
		{"voice with neither text nor audio", func(svc *Service) error {
			_, err := svc.AnalyzeVoice(context.Background(), VoiceRequest{UserID: "u1"})
			return err
		}},
		{"voice with image payload", func(svc *Service) error {
			_, err := svc.AnalyzeVoice(context.Background(), VoiceRequest{UserID: "u1", Audio: png})
			return err
		}},
		{"diet with neither text nor image", func(svc *Service) error {
			_, err := svc.AnalyzeDiet(context.Background(), DietRequest{UserID: "u1"})
			return err
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ai := &fakeAI{completion: `{}`}
			err := tc.call(newService(ai, &memRepo{}))
			if !domain.IsValidation(err) {
				t.Errorf("err = %v, want a validation error", err)
			}
			if ai.lastRequest != nil {
				t.Error("validation failure still dispatched a completion")
			}
		})
	}
}

// A store outage after a successful completion keeps the result visible:
// no error, Saved=false, SaveError carries the reason.
func TestSaveFailureKeepsResult(t *testing.T) {
	ai := &fakeAI{completion: `{"assessment":"ok","recommendations":["rest"]}`}
	repo := &memRepo{failSave: errors.New("store unavailable")}
	svc := newService(ai, repo)

	out, err := svc.AssessMentalHealth(context.Background(), MentalHealthRequest{
		UserID:  "u1",
		Feeling: "stressed about exams lately",
		Save:    true,
	})
	if err != nil {
		t.Fatalf("save failure must not fail the analysis: %v", err)
	}
	if out.Saved {
		t.Error("Saved = true despite store outage")
	}
	if !strings.Contains(out.SaveError, "store unavailable") {
		t.Errorf("SaveError = %q", out.SaveError)
	}
	if out.Record == nil || out.Display.Assessment != "ok" {
		t.Errorf("computed result lost: %+v", out)
	}
}

func TestCompletionFailurePropagates(t *testing.T) {
	ai := &fakeAI{completionErr: domai.ErrEmptyCompletion}
	svc := newService(ai, &memRepo{})

	_, err := svc.CheckSymptoms(context.Background(), SymptomRequest{
		UserID: "u1", Symptoms: "persistent cough for two weeks",
	})
	if !errors.Is(err, domai.ErrEmptyCompletion) {
		t.Errorf("err = %v, want ErrEmptyCompletion", err)
	}
}

func TestMalformedCompletionShape(t *testing.T) {
	ai := &fakeAI{completion: `{"urgency": 3}`}
	svc := newService(ai, &memRepo{})

	_, err := svc.CheckSymptoms(context.Background(), SymptomRequest{
		UserID: "u1", Symptoms: "persistent cough for two weeks",
	})
	if !errors.Is(err, domai.ErrMalformedCompletion) {
		t.Errorf("err = %v, want ErrMalformedCompletion", err)
	}
}

func TestVoiceTranscribesAudio(t *testing.T) {
	ai := &fakeAI{
		completion: `{"potentialConditions":["laryngitis"]}`,
		transcript: "my throat hurts when I speak",
	}
	svc := newService(ai, &memRepo{})

	out, err := svc.AnalyzeVoice(context.Background(), VoiceRequest{
		UserID: "u1",
		Audio:  dataURI("audio/webm", "blob"),
	})
	if err != nil {
		t.Fatalf("AnalyzeVoice: %v", err)
	}
	if !ai.transcribed {
		t.Error("audio was not transcribed")
	}
	if !strings.Contains(ai.lastRequest.User, "my throat hurts") {
		t.Errorf("prompt missing transcript: %q", ai.lastRequest.User)
	}
	if out.Record.Type != domain.TypeVoice {
		t.Errorf("analysisType = %s", out.Record.Type)
	}
}

func TestVoiceTextOnlySkipsTranscription(t *testing.T) {
	ai := &fakeAI{completion: `{}`}
	svc := newService(ai, &memRepo{})

	if _, err := svc.AnalyzeVoice(context.Background(), VoiceRequest{
		UserID: "u1", Text: "I feel dizzy standing up",
	}); err != nil {
		t.Fatalf("AnalyzeVoice: %v", err)
	}
	if ai.transcribed {
		t.Error("text-only request should not hit the transcription endpoint")
	}
}

func TestImageAttachedToCompletion(t *testing.T) {
	ai := &fakeAI{completion: `{}`}
	svc := newService(ai, &memRepo{})

	if _, err := svc.AnalyzeImage(context.Background(), ImageRequest{
		UserID:      "u1",
		Description: "red patch on forearm",
		Image:       dataURI("image/jpeg", "jpegbytes"),
	}); err != nil {
		t.Fatalf("AnalyzeImage: %v", err)
	}
	if ai.lastRequest.Image == nil {
		t.Fatal("image was not attached to the completion request")
	}
	if ai.lastRequest.Image.MIME != "image/jpeg" {
		t.Errorf("image mime = %q", ai.lastRequest.Image.MIME)
	}
}

func TestHistoryRequiresUserID(t *testing.T) {
	svc := newService(&fakeAI{completion: `{}`}, &memRepo{})
	if _, err := svc.History(context.Background(), "   "); !domain.IsValidation(err) {
		t.Errorf("History with blank userId = %v, want validation error", err)
	}
}
