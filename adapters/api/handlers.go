package api

import (
	"net/http"

	"phonolab/domain/simulation"
	"phonolab/domain/verdict"
	"phonolab/internal/harness"
)

type coherenceRequest struct {
	Scores []float64 `json:"scores"`
}

func (s *Server) handleCoherence(w http.ResponseWriter, r *http.Request) {
	var req coherenceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	metrics, err := s.agg.Coherence(req.Scores)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

type influenceRequest struct {
	KeyScore     float64  `json:"key_score"`
	EnsembleMean float64  `json:"ensemble_mean"`
	Role         string   `json:"role,omitempty"`
	Weight       *float64 `json:"weight,omitempty"` // overrides the role lookup
}

func (s *Server) handleInfluence(w http.ResponseWriter, r *http.Request) {
	var req influenceRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	weight := s.agg.WeightFor(req.Role)
	if req.Weight != nil {
		weight = *req.Weight
	}
	report, err := s.agg.KeyMemberInfluence(req.KeyScore, req.EnsembleMean, weight)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type synergyRequest struct {
	Groups map[string][]float64 `json:"groups"`
}

func (s *Server) handleSynergy(w http.ResponseWriter, r *http.Request) {
	var req synergyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	report, err := s.agg.SubgroupSynergy(req.Groups)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type contrastRequest struct {
	ProfileA float64 `json:"profile_a"`
	ProfileB float64 `json:"profile_b"`
}

func (s *Server) handleContrast(w http.ResponseWriter, r *http.Request) {
	var req contrastRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	report, err := s.agg.PairwiseContrast(req.ProfileA, req.ProfileB)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type validateRequest struct {
	Schema     []string                `json:"schema"`
	Samples    []verdict.LabeledSample `json:"samples"`
	SplitRatio float64                 `json:"split_ratio,omitempty"`
	CVFolds    int                     `json:"cv_folds,omitempty"`
	Seed       int64                   `json:"seed,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	opts := harness.DefaultOptions()
	if req.SplitRatio > 0 {
		opts.SplitRatio = req.SplitRatio
	}
	if req.CVFolds > 0 {
		opts.CVFolds = req.CVFolds
	}
	opts.Seed = req.Seed

	// A fresh harness per validate keeps runs independent; the lock makes
	// the fitted model visible to subsequent classify calls atomically.
	h := harness.New(req.Schema, s.rng, s.explainer)
	report, err := h.Validate(r.Context(), req.Samples, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.harness = h
	s.mu.Unlock()

	s.log.Info("validation %s: verdict=%s accuracy=%.3f", report.ID, report.Verdict, report.Metrics.Accuracy)
	writeJSON(w, http.StatusOK, report)
}

type classifyRequest struct {
	Features []float64 `json:"features"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	h := s.harness
	s.mu.Unlock()

	if h == nil {
		h = harness.New(nil, s.rng, s.explainer) // yields ErrModelNotTrained below
	}
	result, err := h.Classify(req.Features)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type simulateRequest struct {
	PointEstimate float64   `json:"point_estimate"`
	Volatility    float64   `json:"volatility"`
	Trials        int       `json:"trials"`
	Thresholds    []float64 `json:"thresholds,omitempty"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Trials == 0 {
		req.Trials = s.cfg.Simulation.Trials
	}
	result, err := s.engine.Simulate(r.Context(), req.PointEstimate, req.Volatility, req.Trials, req.Thresholds...)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type compareRequest struct {
	A      simulation.Estimate `json:"a"`
	B      simulation.Estimate `json:"b"`
	Trials int                 `json:"trials"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Trials == 0 {
		req.Trials = s.cfg.Simulation.Trials
	}
	result, err := s.engine.Compare(r.Context(), req.A, req.B, req.Trials)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type rankRequest struct {
	Estimates []simulation.Estimate `json:"estimates"`
	Trials    int                   `json:"trials"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Trials == 0 {
		req.Trials = s.cfg.Simulation.Trials
	}
	ranked, err := s.engine.Rank(r.Context(), req.Estimates, req.Trials)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranked)
}
