package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Service orchestrates loading, validation, aggregation and publication.
type Service struct {
	repo       Repository
	validator  Validator
	aggregator Aggregator
	logger     *slog.Logger
	mu         sync.RWMutex
	builds     int
}

// NewService creates a new Service.
func NewService(repo Repository, validator Validator, aggregator Aggregator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		validator:  validator,
		aggregator: aggregator,
		logger:     logger.With("component", "service"),
	}
}

// ValidateCorpus validates every document of the corpus.
// Malformed documents appear as invalid results; only a missing corpus is an error.
func (s *Service) ValidateCorpus(ctx context.Context) (*Report, error) {
	docs, failures, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}

	// Both lists arrive in path order; merge them to keep discovery order.
	report := &Report{Results: make([]Result, 0, len(docs)+len(failures))}
	fail := func(lf LoadFailure) {
		s.logger.Warn("document failed to load", "source", lf.Source, "error", lf.Err)
		report.Results = append(report.Results, FailureResult(lf))
	}
	i := 0
	for _, doc := range docs {
		for ; i < len(failures) && failures[i].Source < doc.Source; i++ {
			fail(failures[i])
		}
		report.Results = append(report.Results, s.validator.Validate(doc))
	}
	for ; i < len(failures); i++ {
		fail(failures[i])
	}
	return report, nil
}

// ValidateFile validates a single document.
func (s *Service) ValidateFile(ctx context.Context, path string) (*Report, error) {
	doc, err := s.repo.Load(ctx, path)
	if err != nil {
		if errors.Is(err, ErrMalformedDocument) {
			return &Report{Results: []Result{FailureResult(LoadFailure{Source: path, Err: err})}}, nil
		}
		return nil, err
	}
	return &Report{Results: []Result{s.validator.Validate(doc)}}, nil
}

// List returns the loaded documents in discovery order, keeping only those
// carrying tag among their search tags when tag is not empty.
func (s *Service) List(ctx context.Context, tag string) ([]Artifact, error) {
	docs, failures, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, lf := range failures {
		s.logger.Debug("skipping document", "source", lf.Source, "error", lf.Err)
	}
	if tag == "" {
		return docs, nil
	}

	var out []Artifact
	for _, doc := range docs {
		if slices.Contains(doc.SearchTags, tag) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Build aggregates the valid documents and publishes the dataset.
// An empty corpus is reported through BuildOutcome.Empty, not as an error.
func (s *Service) Build(ctx context.Context) (*BuildOutcome, error) {
	docs, failures, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, lf := range failures {
		s.logger.Warn("skipping document", "source", lf.Source, "error", lf.Err)
	}

	if len(docs) == 0 {
		s.logger.Warn("no artifacts found", "malformed", len(failures))
		return &BuildOutcome{Failures: failures, Empty: true}, nil
	}

	prov := Provenance{Malformed: len(failures)}
	if rv, ok := s.repo.(Revisioned); ok {
		rev, err := rv.Revision(ctx)
		if err != nil {
			s.logger.Debug("corpus revision unavailable", "error", err)
		}
		prov.Revision = rev
	}

	ds, results := s.aggregator.Aggregate(docs, prov)
	if err := s.repo.Publish(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to publish dataset: %w", err)
	}

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()

	s.logger.Info("dataset built", "artifacts", ds.Total, "processed", len(docs), "malformed", len(failures))
	return &BuildOutcome{Dataset: ds, Results: results, Failures: failures}, nil
}

// Watch builds once, then rebuilds after every corpus change until ctx is done.
// fn receives each outcome (or error); a failed rebuild does not stop the loop.
func (s *Service) Watch(ctx context.Context, fn func(*BuildOutcome, error)) error {
	w, ok := s.repo.(Watchable)
	if !ok {
		return errors.New("repository does not support watching")
	}

	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	fn(s.Build(ctx))
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			s.logger.Debug("corpus changed", "event", e.String())
			// One rebuild covers every change already queued.
			for drained := false; !drained; {
				select {
				case e, ok := <-events:
					if !ok {
						drained = true
						break
					}
					s.logger.Debug("corpus changed", "event", e.String())
				default:
					drained = true
				}
			}
			fn(s.Build(ctx))
		}
	}
}
