// Package loader turns one raw parsed document into a normalized Artifact.
//
// Normalization is idempotent and never rejects a document for missing
// optional sections; that is the rule engine's job.
package loader

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/regseek/pkg/core"
)

// Source identifies where a raw document came from.
type Source struct {
	ID    string // derived from the source name (file stem)
	Group string // enclosing category directory
	Path  string // provenance, relative to the corpus root
}

// Normalize applies, in order: category default, paths wrapping, search tag
// derivation and identity attachment. The raw map is not modified.
func Normalize(raw map[string]any, src Source) (core.Artifact, error) {
	if len(raw) == 0 {
		return core.Artifact{}, fmt.Errorf("%w: %s is empty", core.ErrMalformedDocument, src.Path)
	}

	fields := make(core.Fields, len(raw))
	maps.Copy(fields, raw)

	if _, ok := fields["category"]; !ok && src.Group != "" {
		fields["category"] = src.Group
	}

	if p, ok := fields["paths"].(string); ok {
		fields["paths"] = []any{p}
	}

	return core.Artifact{
		ID:         src.ID,
		Group:      src.Group,
		Source:     src.Path,
		Fields:     fields,
		SearchTags: SearchTags(fields),
	}, nil
}

// SearchTags returns the sorted, duplicate-free union of metadata tags,
// investigation types, the category and a criticality-<level> token.
func SearchTags(fields core.Fields) []string {
	set := make(map[string]struct{})
	add := func(s string) {
		if s != "" {
			set[s] = struct{}{}
		}
	}

	if meta, ok := core.Object(fields["metadata"]); ok {
		for _, t := range core.Labels(meta["tags"]) {
			add(t)
		}
		for _, t := range core.Labels(meta["investigation_types"]) {
			add(t)
		}
		if c := meta["criticality"]; !core.Absent(c) && core.Label(c) != "" {
			add("criticality-" + core.Label(c))
		}
	}
	add(core.Label(fields["category"]))

	return slices.Sorted(maps.Keys(set))
}
