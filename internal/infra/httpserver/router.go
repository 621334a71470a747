package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appanalysis "github.com/swasthya-ai/swasthya/internal/application/analysis"
	domai "github.com/swasthya-ai/swasthya/internal/domain/ai"
	domain "github.com/swasthya-ai/swasthya/internal/domain/analysis"
	"github.com/swasthya-ai/swasthya/internal/middleware"
	"github.com/swasthya-ai/swasthya/internal/session"
)

type Router struct {
	svc *appanalysis.Service
	log *zap.Logger
}

func NewRouter(svc *appanalysis.Service, checkers map[string]middleware.HealthChecker, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Router{svc: svc, log: log}
	mux := chi.NewRouter()

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analysis/image", r.wrap(r.handleImage))
		rt.Post("/analysis/voice", r.wrap(r.handleVoice))
		rt.Post("/analysis/symptoms", r.wrap(r.handleSymptoms))
		rt.Post("/analysis/mental-health", r.wrap(r.handleMentalHealth))
		rt.Post("/analysis/diet", r.wrap(r.handleDiet))
		rt.Get("/history", r.handleHistory)
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps domain errors onto HTTP statuses: rejected input is a 400,
// provider quota a 429, completion faults a 502, anything else a 500.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case domain.IsValidation(err), errors.Is(err, domain.ErrEmptyUserID):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domai.ErrQuotaExceeded):
			middleware.IncrementCompletionsFailed()
			http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
		case errors.Is(err, domai.ErrCompletionFailed),
			errors.Is(err, domai.ErrEmptyCompletion),
			errors.Is(err, domai.ErrMalformedCompletion):
			middleware.IncrementCompletionsFailed()
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func decode(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return domain.Invalid("body", "malformed JSON: "+err.Error())
	}
	return nil
}

func (r *Router) respond(w http.ResponseWriter, out *appanalysis.Outcome) error {
	middleware.IncrementAnalyses()
	if out.Saved {
		middleware.IncrementAnalysesSaved()
	} else if out.SaveError != "" {
		middleware.IncrementSavesFailed()
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(out)
}

// POST /v1/analysis/image
func (r *Router) handleImage(w http.ResponseWriter, req *http.Request) error {
	var body appanalysis.ImageRequest
	if err := decode(req, &body); err != nil {
		return err
	}
	out, err := r.svc.AnalyzeImage(req.Context(), body)
	if err != nil {
		return err
	}
	return r.respond(w, out)
}

// POST /v1/analysis/voice
func (r *Router) handleVoice(w http.ResponseWriter, req *http.Request) error {
	var body appanalysis.VoiceRequest
	if err := decode(req, &body); err != nil {
		return err
	}
	out, err := r.svc.AnalyzeVoice(req.Context(), body)
	if err != nil {
		return err
	}
	return r.respond(w, out)
}

// POST /v1/analysis/symptoms
func (r *Router) handleSymptoms(w http.ResponseWriter, req *http.Request) error {
	var body appanalysis.SymptomRequest
	if err := decode(req, &body); err != nil {
		return err
	}
	out, err := r.svc.CheckSymptoms(req.Context(), body)
	if err != nil {
		return err
	}
	return r.respond(w, out)
}

// POST /v1/analysis/mental-health
func (r *Router) handleMentalHealth(w http.ResponseWriter, req *http.Request) error {
	var body appanalysis.MentalHealthRequest
	if err := decode(req, &body); err != nil {
		return err
	}
	out, err := r.svc.AssessMentalHealth(req.Context(), body)
	if err != nil {
		return err
	}
	return r.respond(w, out)
}

// POST /v1/analysis/diet
func (r *Router) handleDiet(w http.ResponseWriter, req *http.Request) error {
	var body appanalysis.DietRequest
	if err := decode(req, &body); err != nil {
		return err
	}
	out, err := r.svc.AnalyzeDiet(req.Context(), body)
	if err != nil {
		return err
	}
	return r.respond(w, out)
}

type historyResponse struct {
	Records []*domain.Record `json:"records"`
	Warning string           `json:"warning,omitempty"`
}

// GET /v1/history?userId=
//
// A store fault degrades to an empty history plus a warning so the
// dashboard keeps rendering; a missing identifier is still a 400.
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) {
	sess := session.FromQuery(req.URL.Query())
	if sess.State() != session.Active {
		http.Error(w, "userId query parameter is required", http.StatusBadRequest)
		return
	}

	resp := historyResponse{Records: []*domain.Record{}}
	records, err := r.svc.History(req.Context(), sess.UserID())
	if err != nil {
		if domain.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		r.log.Warn("history unavailable", zap.String("user_id", sess.UserID()), zap.Error(err))
		resp.Warning = "history unavailable"
	} else {
		resp.Records = records
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
