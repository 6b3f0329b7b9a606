package rng

import (
	"context"
	"hash/fnv"
	"math/rand"

	"phonolab/domain/core"
	"phonolab/ports"
)

// Adapter derives independent, reproducible rand streams from a base seed
// and an operation name. Two streams with the same (name, seed) pair always
// produce the same draws; distinct names never share a stream.
type Adapter struct{}

// New creates an RNG adapter
func New() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if name == "" {
		return nil, core.NewInvalidInputError("seeded_stream", "stream name cannot be empty")
	}
	return rand.New(rand.NewSource(deriveSeed(name, seed))), nil
}

// Stream creates a deterministic RNG stream for a specific run/stage pair
func (a *Adapter) Stream(ctx context.Context, runID, stageName string, baseSeed int64) (*rand.Rand, error) {
	if runID == "" || stageName == "" {
		return nil, core.NewInvalidInputError("stream", "run ID and stage name are required")
	}
	return rand.New(rand.NewSource(deriveSeed(runID+"/"+stageName, baseSeed))), nil
}

// deriveSeed folds the stream name into the base seed with FNV-1a
func deriveSeed(name string, seed int64) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return seed ^ int64(h.Sum64())
}

var _ ports.RNG = (*Adapter)(nil)
