// Package aggregate builds the query-ready dataset from validated artifacts.
package aggregate

import (
	"log/slog"
	"time"

	"github.com/aretw0/regseek/pkg/core"
)

const (
	// DatasetVersion is the schema version of the emitted dataset.
	DatasetVersion = "1.0.0"
	// DefaultBuilder identifies the build system in build_info.
	DefaultBuilder = "RegSeek Build System"

	// builtAtLayout mirrors the original build_info timestamp.
	builtAtLayout = "2006-01-02 15:04:05 UTC"
)

// Aggregator partitions documents with a Validator and folds the valid ones
// into a Dataset.
type Aggregator struct {
	validator core.Validator
	now       func() time.Time
	builder   string
	version   string
	logger    *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock sets the time source (useful for reproducible builds and tests).
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// WithBuilder sets the builder identity recorded in build_info.
func WithBuilder(builder string) Option {
	return func(a *Aggregator) {
		a.builder = builder
	}
}

// WithVersion sets the dataset version.
func WithVersion(version string) Option {
	return func(a *Aggregator) {
		a.version = version
	}
}

// WithLogger sets the logger for the aggregator.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an Aggregator backed by the given validator.
func New(v core.Validator, opts ...Option) *Aggregator {
	a := &Aggregator{
		validator: v,
		now:       time.Now,
		builder:   DefaultBuilder,
		version:   DatasetVersion,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "aggregate")
	return a
}

// Aggregate validates every document independently, keeps the valid ones in
// discovery order and computes categories, statistics and build provenance.
// Results are returned for every input document, in the same order.
func (a *Aggregator) Aggregate(docs []core.Artifact, prov core.Provenance) (*core.Dataset, []core.Result) {
	results := make([]core.Result, 0, len(docs))
	kept := make([]core.Artifact, 0, len(docs))
	for _, doc := range docs {
		res := a.validator.Validate(doc)
		results = append(results, res)
		if res.IsValid() {
			kept = append(kept, doc)
			continue
		}
		a.logger.Debug("excluding invalid artifact", "id", doc.ID, "errors", len(res.Errors))
	}

	categories := Categories(kept)
	now := a.now()

	ds := &core.Dataset{
		Artifacts:   kept,
		Categories:  categories,
		Statistics:  Statistics(kept),
		Total:       len(kept),
		LastUpdated: now,
		Version:     a.version,
		BuildInfo: core.BuildInfo{
			TotalFilesProcessed: len(docs),
			ValidArtifacts:      len(kept),
			MalformedFiles:      prov.Malformed,
			Categories:          len(categories),
			BuiltAt:             now.UTC().Format(builtAtLayout),
			Builder:             a.builder,
			CorpusRevision:      prov.Revision,
		},
	}
	return ds, results
}

// Categories returns the sorted, duplicate-free categories of the documents.
func Categories(docs []core.Artifact) []string {
	set := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		set[doc.Category()] = struct{}{}
	}
	return sortedKeys(set)
}

var _ core.Aggregator = (*Aggregator)(nil)
