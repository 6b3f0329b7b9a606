package ports

import (
	"context"

	"phonolab/domain/ensemble"
)

// FeatureProducer turns a named entity into a fixed-schema feature vector.
// The producer's internal heuristics are opaque to the core; its schema
// must be stable for the lifetime of one harness's fitted model -
// retraining is required if the schema changes.
type FeatureProducer interface {
	// Schema returns the ordered feature names this producer emits
	Schema() []string

	// Produce computes the feature vector for one entity name
	Produce(ctx context.Context, name string) (ensemble.FeatureVector, error)
}
