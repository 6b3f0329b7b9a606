// Package api exposes the aggregator, validation harness and simulation
// engine as a JSON service. There is no presentation layer here; callers
// get the same structs the Go API returns.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"phonolab/domain/core"
	"phonolab/internal/aggregator"
	"phonolab/internal/config"
	apperrors "phonolab/internal/errors"
	"phonolab/internal/harness"
	"phonolab/internal/logging"
	"phonolab/internal/simulation"
	"phonolab/ports"
)

// Server wires the three components behind a chi router.
//
// The harness's last fitted model is per-instance state; the server owns
// one harness at a time and serializes Validate/Classify against it so a
// concurrent validate cannot clobber a classify mid-flight.
type Server struct {
	cfg    *config.Config
	log    *logging.Logger
	agg    *aggregator.Aggregator
	engine *simulation.Engine
	rng    ports.RNG

	mu        sync.Mutex
	harness   *harness.Harness
	explainer ports.FeatureExplainer
}

// NewServer creates the JSON service
func NewServer(cfg *config.Config, log *logging.Logger, agg *aggregator.Aggregator,
	engine *simulation.Engine, rng ports.RNG, explainer ports.FeatureExplainer) *Server {
	return &Server{
		cfg:       cfg,
		log:       log.With("api"),
		agg:       agg,
		engine:    engine,
		rng:       rng,
		explainer: explainer,
	}
}

// Router builds the route table
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/ensembles/coherence", s.handleCoherence)
		r.Post("/ensembles/influence", s.handleInfluence)
		r.Post("/ensembles/synergy", s.handleSynergy)
		r.Post("/ensembles/contrast", s.handleContrast)

		r.Post("/validate", s.handleValidate)
		r.Post("/classify", s.handleClassify)

		r.Post("/simulate", s.handleSimulate)
		r.Post("/simulate/compare", s.handleCompare)
		r.Post("/simulate/rank", s.handleRank)
	})

	return r
}

// ListenAndServe runs the HTTP service on the configured port
func (s *Server) ListenAndServe() error {
	addr := ":" + s.cfg.Server.Port
	s.log.Info("listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorBody is the wire shape of every error response
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidInput, apperrors.CodeInvalidParameter, apperrors.CodeCorpusUnreadable:
		status = http.StatusBadRequest
	case apperrors.CodeInsufficientData, apperrors.CodeInsufficientSampleSize:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeModelNotTrained:
		status = http.StatusConflict
	}
	writeJSON(w, status, errorBody{Code: code, Message: err.Error()})
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return core.NewInvalidInputError("request", "malformed JSON body")
	}
	return nil
}
