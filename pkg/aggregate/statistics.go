package aggregate

import (
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/regseek/pkg/core"
)

// Unspecified is the criticality bucket for documents without one.
const Unspecified = "unspecified"

// Statistics folds the documents into counts and label sets in a single pass.
func Statistics(docs []core.Artifact) core.Statistics {
	stats := core.Statistics{
		Total:               len(docs),
		ByCategory:          make(map[string]int),
		ByCriticality:       make(map[string]int),
		ByInvestigationType: make(map[string]int),
	}
	versions := make(map[string]struct{})
	authors := make(map[string]struct{})

	for _, doc := range docs {
		category := doc.Category()
		if category == "" {
			category = "unknown"
		}
		stats.ByCategory[category]++

		meta := doc.Section("metadata")

		criticality := core.Label(meta["criticality"])
		if criticality == "" {
			criticality = Unspecified
		}
		stats.ByCriticality[criticality]++

		for _, t := range core.Labels(meta["investigation_types"]) {
			stats.ByInvestigationType[t]++
		}
		for _, v := range core.Labels(meta["windows_versions"]) {
			versions[v] = struct{}{}
		}

		if tools, ok := core.List(doc.Section("details")["tools"]); ok {
			stats.ToolsCount += len(tools)
		}

		if name, ok := doc.Section("author")["name"].(string); ok && strings.TrimSpace(name) != "" {
			authors[name] = struct{}{}
		}
	}

	stats.WindowsVersions = sortedKeys(versions)
	stats.Authors = sortedKeys(authors)
	return stats
}

// sortedKeys never returns nil so empty sets encode as [].
func sortedKeys(set map[string]struct{}) []string {
	return append(make([]string, 0, len(set)), slices.Sorted(maps.Keys(set))...)
}
