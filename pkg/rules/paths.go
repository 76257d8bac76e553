package rules

import (
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
)

// Paths checks every registry path and the hive prefix policy.
type Paths struct {
	Policy *policy.Policy
}

func (Paths) Name() string { return "paths" }

func (r Paths) Check(a core.Artifact) []core.Finding {
	value, ok := a.Fields["paths"]
	if !ok || value == nil {
		return nil
	}
	if s, isString := value.(string); isString {
		value = []any{s}
	}
	paths, isList := core.List(value)
	if !isList {
		return nil // reported by RequiredFields
	}
	if len(paths) == 0 {
		return []core.Finding{core.Errorf(r.Name(), "Paths must be a non-empty list or string")}
	}

	var out []core.Finding
	hives := make(map[string]struct{})
	for i, item := range paths {
		path, isString := item.(string)
		if !isString {
			out = append(out, core.Errorf(r.Name(), "Path %d must be a string, got %s", i+1, core.Kind(item)))
			continue
		}
		if strings.TrimSpace(path) == "" {
			out = append(out, core.Errorf(r.Name(), "Path %d cannot be empty", i+1))
			continue
		}

		hive, known := r.Policy.Hive(path)
		if known {
			hives[hive] = struct{}{}
			continue
		}
		if r.Policy.HivePrefixStrict {
			out = append(out, core.Errorf(r.Name(), "Path is not a valid registry path: '%s'", path))
		} else {
			out = append(out, core.Warnf(r.Name(), "Path may not be valid registry path: '%s'", path))
		}
		out = append(out, core.Recommendf(r.Name(), "Registry paths should start with: %s", strings.Join(r.Policy.RegistryPrefixes, ", ")))
	}

	if len(hives) > 1 {
		sorted := slices.Sorted(maps.Keys(hives))
		out = append(out, core.Recommendf(r.Name(), "Artifact spans multiple registry hives: %s", strings.Join(sorted, ", ")))
	}
	return out
}
