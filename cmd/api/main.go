package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"phonolab/adapters/api"
	"phonolab/internal/aggregator"
	"phonolab/internal/config"
	"phonolab/internal/explain"
	"phonolab/internal/logging"
	"phonolab/internal/rng"
	"phonolab/internal/simulation"
	"phonolab/ports"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.NewDefault()
	randomness := rng.New()

	agg := aggregator.New(
		aggregator.WithRoleWeights(cfg.Weights.Roles, cfg.Weights.Default),
	)
	engine := simulation.New(randomness,
		simulation.WithDispersionFloor(cfg.Simulation.DispersionFloor),
	)

	var explainer ports.FeatureExplainer
	if cfg.Validation.Explainer == "permutation" {
		explainer = explain.NewPermutation(randomness, 0, 5)
	} else {
		explainer = explain.NewMagnitude()
	}

	server := api.NewServer(cfg, log, agg, engine, randomness, explainer)
	if err := server.ListenAndServe(); err != nil {
		log.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
