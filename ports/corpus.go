package ports

import (
	"context"

	"phonolab/domain/verdict"
)

// CorpusReader loads a labeled corpus from an external source.
// The origin format (CSV, Excel, database row) is the adapter's concern;
// the core only ever sees in-memory samples plus their feature schema.
type CorpusReader interface {
	// Read returns the feature schema and every labeled sample in the source
	Read(ctx context.Context) (schema []string, samples []verdict.LabeledSample, err error)
}
