package core

import "context"

// Repository defines the contract for reading the corpus and publishing the dataset.
// Adhering to this interface keeps the pipeline independent of the
// underlying storage mechanism.
type Repository interface {
	// Scan discovers and loads every non-template document of the corpus,
	// in stable discovery order. Per-document failures are returned, not raised.
	Scan(ctx context.Context) ([]Artifact, []LoadFailure, error)

	// Load reads a single source document.
	Load(ctx context.Context, path string) (Artifact, error)

	// Publish persists the aggregated dataset.
	Publish(ctx context.Context, ds *Dataset) error
}

// Watchable defines repositories that can observe corpus changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Revisioned defines repositories that know the revision of the corpus (e.g. a git commit).
type Revisioned interface {
	Revision(ctx context.Context) (string, error)
}

// Validator runs the rule battery against one document.
type Validator interface {
	Validate(a Artifact) Result
}

// Provenance carries build facts the aggregator cannot derive from the documents.
type Provenance struct {
	Malformed int
	Revision  string
}

// Aggregator builds the dataset from the loaded documents.
type Aggregator interface {
	Aggregate(docs []Artifact, prov Provenance) (*Dataset, []Result)
}
