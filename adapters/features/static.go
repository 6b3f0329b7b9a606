// Package features provides FeatureProducer adapters. The core treats a
// producer as opaque; this static variant serves callers that already
// have precomputed vectors (fixtures, batch files) and need no live
// extractor.
package features

import (
	"context"

	"phonolab/domain/core"
	"phonolab/domain/ensemble"
	"phonolab/ports"
)

// StaticProducer serves precomputed feature vectors from an in-memory
// lookup keyed by entity name.
type StaticProducer struct {
	schema  []string
	vectors map[string][]float64
}

// NewStatic creates a producer over a fixed name-to-vector table
func NewStatic(schema []string, vectors map[string][]float64) *StaticProducer {
	return &StaticProducer{schema: schema, vectors: vectors}
}

// Schema returns the ordered feature names
func (p *StaticProducer) Schema() []string { return p.schema }

// Produce looks up the vector for one entity name
func (p *StaticProducer) Produce(ctx context.Context, name string) (ensemble.FeatureVector, error) {
	values, ok := p.vectors[name]
	if !ok {
		return ensemble.FeatureVector{}, core.NewInvalidInputError("static_producer",
			"no feature vector for "+name)
	}
	return ensemble.NewFeatureVector(p.schema, values)
}

var _ ports.FeatureProducer = (*StaticProducer)(nil)
