package rules

import (
	"strings"
	"unicode/utf8"

	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
)

var detailFields = []struct {
	name        string
	description string
}{
	{"what", "explanation of what Windows stores"},
	{"forensic_value", "forensic significance explanation"},
	{"structure", "data format and structure description"},
}

// Details checks the optional details section once it is present.
type Details struct {
	Policy *policy.Policy
}

func (Details) Name() string { return "details" }

func (r Details) Check(a core.Artifact) []core.Finding {
	raw := a.Fields["details"]
	if core.Absent(raw) {
		return []core.Finding{core.Warnf(r.Name(), "Missing 'details' section (recommended)")}
	}
	details, ok := core.Object(raw)
	if !ok {
		return []core.Finding{core.Warnf(r.Name(), "Details should be an object, got %s", core.Kind(raw))}
	}

	var out []core.Finding
	for _, f := range detailFields {
		value := details[f.name]
		if core.Absent(value) {
			out = append(out, core.Warnf(r.Name(), "Missing details.%s (%s)", f.name, f.description))
			continue
		}
		if s, isString := value.(string); isString && utf8.RuneCountInString(strings.TrimSpace(s)) < r.Policy.Limits.MinDetailLength {
			out = append(out, core.Warnf(r.Name(), "details.%s should be more detailed (at least %d characters)", f.name, r.Policy.Limits.MinDetailLength))
		}
	}

	out = append(out, r.checkExamples(details["examples"])...)
	out = append(out, r.checkTools(details["tools"])...)
	return out
}

func (r Details) checkExamples(value any) []core.Finding {
	if value == nil {
		return []core.Finding{core.Warnf(r.Name(), "Missing details.examples (recommended)")}
	}
	examples, ok := core.List(value)
	if !ok {
		return []core.Finding{core.Warnf(r.Name(), "Examples should be a list of strings")}
	}
	if len(examples) == 0 {
		return []core.Finding{core.Warnf(r.Name(), "Examples list is empty")}
	}
	return nil
}

func (r Details) checkTools(value any) []core.Finding {
	if value == nil {
		return []core.Finding{core.Warnf(r.Name(), "Missing details.tools (recommended)")}
	}
	tools, ok := core.List(value)
	if !ok {
		return []core.Finding{core.Warnf(r.Name(), "Tools should be a list")}
	}
	if len(tools) == 0 {
		return []core.Finding{core.Warnf(r.Name(), "Tools list is empty")}
	}

	var out []core.Finding
	for i, item := range tools {
		tool, ok := core.Object(item)
		if !ok {
			out = append(out, core.Warnf(r.Name(), "Tool %d should be an object with 'name' field", i+1))
			continue
		}
		rawName, has := tool["name"]
		if !has {
			out = append(out, core.Errorf(r.Name(), "Tool %d missing required 'name' field", i+1))
			continue
		}
		name, isString := rawName.(string)
		if !isString || strings.TrimSpace(name) == "" {
			out = append(out, core.Errorf(r.Name(), "Tool %d name must be a non-empty string", i+1))
			continue
		}

		url, has := tool["url"]
		switch {
		case !has:
			out = append(out, core.Recommendf(r.Name(), "Tool '%s' missing URL (recommended)", name))
		case !validURL(url):
			out = append(out, core.Warnf(r.Name(), "Tool '%s' has invalid URL format", name))
		}
	}
	return out
}
