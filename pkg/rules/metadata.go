package rules

import (
	"strings"

	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
)

// Metadata checks enumerated metadata fields, references and dates.
type Metadata struct {
	Policy *policy.Policy
}

func (Metadata) Name() string { return "metadata" }

func (r Metadata) Check(a core.Artifact) []core.Finding {
	raw := a.Fields["metadata"]
	if core.Absent(raw) {
		return []core.Finding{core.Warnf(r.Name(), "Missing 'metadata' section (recommended)")}
	}
	meta, ok := core.Object(raw)
	if !ok {
		return []core.Finding{core.Warnf(r.Name(), "Metadata should be an object, got %s", core.Kind(raw))}
	}

	var out []core.Finding
	out = append(out, r.checkCriticality(meta["criticality"])...)
	out = append(out, r.checkInvestigationTypes(meta["investigation_types"])...)

	if versions := meta["windows_versions"]; core.Absent(versions) {
		out = append(out, core.Recommendf(r.Name(), "Missing metadata.windows_versions (recommended)"))
	} else if _, isList := core.List(versions); !isList {
		out = append(out, core.Warnf(r.Name(), "windows_versions should be a list"))
	}

	if refs, has := meta["references"]; has && refs != nil {
		out = append(out, r.checkReferences(refs)...)
	}

	for _, field := range []string{"introduced", "deprecated"} {
		if value := meta[field]; !core.Absent(value) && !validDate(value) {
			out = append(out, core.Warnf(r.Name(), "metadata.%s should be in YYYY-MM-DD format", field))
		}
	}
	return out
}

func (r Metadata) checkCriticality(value any) []core.Finding {
	if core.Absent(value) {
		return []core.Finding{core.Recommendf(r.Name(), "Missing metadata.criticality (recommended)")}
	}
	if s, ok := value.(string); !ok || !r.Policy.IsCriticality(s) {
		return []core.Finding{core.Errorf(r.Name(), "Invalid criticality '%s'. Must be one of: %s",
			core.Label(value), strings.Join(r.Policy.CriticalityLevels, ", "))}
	}
	return nil
}

func (r Metadata) checkInvestigationTypes(value any) []core.Finding {
	if core.Absent(value) {
		return []core.Finding{core.Recommendf(r.Name(), "Missing metadata.investigation_types (recommended)")}
	}
	types, ok := core.List(value)
	if !ok {
		return []core.Finding{core.Errorf(r.Name(), "investigation_types must be a list")}
	}

	var invalid []string
	for _, t := range types {
		if s, isString := t.(string); !isString || !r.Policy.IsInvestigationType(s) {
			invalid = append(invalid, core.Label(t))
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	return []core.Finding{
		core.Errorf(r.Name(), "Invalid investigation types: %s", strings.Join(invalid, ", ")),
		core.Errorf(r.Name(), "Valid types: %s", strings.Join(r.Policy.InvestigationTypes, ", ")),
	}
}

func (r Metadata) checkReferences(value any) []core.Finding {
	refs, ok := core.List(value)
	if !ok {
		return []core.Finding{core.Warnf(r.Name(), "References should be a list")}
	}

	var out []core.Finding
	for i, item := range refs {
		ref, ok := core.Object(item)
		if !ok {
			out = append(out, core.Warnf(r.Name(), "Reference %d should be an object", i+1))
			continue
		}
		if _, has := ref["title"]; !has {
			out = append(out, core.Errorf(r.Name(), "Reference %d missing required 'title' field", i+1))
			continue
		}
		if url, has := ref["url"]; has && !validURL(url) {
			out = append(out, core.Warnf(r.Name(), "Reference %d has invalid URL format", i+1))
		}
		if t := ref["type"]; !core.Absent(t) {
			if s, isString := t.(string); !isString || !r.Policy.IsReferenceType(s) {
				out = append(out, core.Warnf(r.Name(), "Reference %d invalid type '%s'. Valid types: %s",
					i+1, core.Label(t), strings.Join(r.Policy.ReferenceTypes, ", ")))
			}
		}
	}
	return out
}
