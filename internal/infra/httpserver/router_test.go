package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appanalysis "github.com/swasthya-ai/swasthya/internal/application/analysis"
	domai "github.com/swasthya-ai/swasthya/internal/domain/ai"
	domain "github.com/swasthya-ai/swasthya/internal/domain/analysis"
)

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

type stubAI struct {
	completion string
	err        error
}

func (s *stubAI) Complete(ctx context.Context, req domai.CompletionRequest) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.completion), nil
}

func (s *stubAI) Transcribe(ctx context.Context, audio domai.Media) (string, error) {
	return "", nil
}

type stubRepo struct {
	records []*domain.Record
	listErr error
}

func (s *stubRepo) Save(ctx context.Context, rec *domain.Record) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *stubRepo) List(ctx context.Context, userID string) ([]*domain.Record, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []*domain.Record{}
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].UserID == userID {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

func newTestServer(ai *stubAI, repo *stubRepo) *httptest.Server {
	svc := &appanalysis.Service{Repo: repo, AI: ai, Clock: stubClock{}}
	return httptest.NewServer(NewRouter(svc, nil, nil))
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestSymptomsEndpoint(t *testing.T) {
	ai := &stubAI{completion: `{"potentialConditions":["flu"],"urgency":"Medium","urgencyReasoning":"fever plus aches","suggestedNextSteps":["rest"]}`}
	repo := &stubRepo{}
	srv := newTestServer(ai, repo)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/analysis/symptoms",
		`{"userId":"u1","symptoms":"fever and body aches for two days","save":true}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out appanalysis.Outcome
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !out.Saved {
		t.Errorf("saved = false (saveError=%q)", out.SaveError)
	}
	if out.Display.Urgency != domain.UrgencyMedium {
		t.Errorf("display urgency = %q", out.Display.Urgency)
	}
	if len(repo.records) != 1 {
		t.Errorf("repo holds %d records", len(repo.records))
	}
}

func TestValidationMapsTo400(t *testing.T) {
	srv := newTestServer(&stubAI{completion: `{}`}, &stubRepo{})
	defer srv.Close()

	for name, body := range map[string]string{
		"missing user": `{"symptoms":"fever and body aches for days"}`,
		"short text":   `{"userId":"u1","symptoms":"hm"}`,
		"broken json":  `{"userId":`,
	} {
		resp := postJSON(t, srv.URL+"/v1/analysis/symptoms", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, resp.StatusCode)
		}
	}
}

func TestCompletionFailureMapsTo502(t *testing.T) {
	srv := newTestServer(&stubAI{err: domai.ErrCompletionFailed}, &stubRepo{})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/analysis/symptoms",
		`{"userId":"u1","symptoms":"fever and body aches for days"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestQuotaMapsTo429(t *testing.T) {
	srv := newTestServer(&stubAI{err: domai.ErrQuotaExceeded}, &stubRepo{})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/v1/analysis/symptoms",
		`{"userId":"u1","symptoms":"fever and body aches for days"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", resp.StatusCode)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	repo := &stubRepo{records: []*domain.Record{
		{ID: "r1", UserID: "u1", Type: domain.TypeImage, Timestamp: time.Now().UTC(), Result: json.RawMessage(`{}`)},
		{ID: "r2", UserID: "u1", Type: domain.TypeSymptoms, Timestamp: time.Now().UTC(), Result: json.RawMessage(`{}`)},
	}}
	srv := newTestServer(&stubAI{completion: `{}`}, repo)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/history?userId=u1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Records []*domain.Record `json:"records"`
		Warning string           `json:"warning"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Records) != 2 || out.Warning != "" {
		t.Errorf("records=%d warning=%q", len(out.Records), out.Warning)
	}

	// Other users never see u1's log.
	resp2, err := http.Get(srv.URL + "/v1/history?userId=u2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if err := json.NewDecoder(resp2.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Records) != 0 {
		t.Errorf("u2 sees %d of u1's records", len(out.Records))
	}
}

func TestHistoryRequiresUserID(t *testing.T) {
	srv := newTestServer(&stubAI{completion: `{}`}, &stubRepo{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/history")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

// A store fault must not blank the dashboard: 200, empty history, warning.
func TestHistoryDegradesOnStoreFault(t *testing.T) {
	repo := &stubRepo{listErr: errors.New("connection refused")}
	srv := newTestServer(&stubAI{completion: `{}`}, repo)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/history?userId=u1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Records []*domain.Record `json:"records"`
		Warning string           `json:"warning"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Warning != "history unavailable" {
		t.Errorf("warning = %q", out.Warning)
	}
	if len(out.Records) != 0 {
		t.Errorf("records = %d, want 0", len(out.Records))
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubAI{completion: `{}`}, &stubRepo{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
