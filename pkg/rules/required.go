package rules

import (
	"strings"
	"unicode/utf8"

	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
)

// RequiredFields checks title, category, description and paths exist with the right kind.
type RequiredFields struct {
	Policy *policy.Policy
}

func (RequiredFields) Name() string { return "required-fields" }

func (r RequiredFields) Check(a core.Artifact) []core.Finding {
	var out []core.Finding
	for _, field := range []string{"title", "category", "description", "paths"} {
		value, ok := a.Fields[field]
		if !ok || value == nil {
			out = append(out, core.Errorf(r.Name(), "Missing required field: '%s'", field))
			continue
		}

		if field == "paths" {
			if _, isList := core.List(value); !isList {
				if _, isString := value.(string); !isString {
					out = append(out, core.Errorf(r.Name(), "Field 'paths' must be list or string, got %s", core.Kind(value)))
				}
			}
			continue
		}

		s, isString := value.(string)
		if !isString {
			out = append(out, core.Errorf(r.Name(), "Field '%s' must be string, got %s", field, core.Kind(value)))
			continue
		}
		if f, bad := r.checkText(field, s); bad {
			out = append(out, f)
		}
	}
	return out
}

func (r RequiredFields) checkText(field, s string) (core.Finding, bool) {
	if strings.TrimSpace(s) == "" {
		return core.Errorf(r.Name(), "Field '%s' cannot be empty", field), true
	}
	n := utf8.RuneCountInString(s)
	switch {
	case field == "title" && n < r.Policy.Limits.MinTitleLength:
		return core.Errorf(r.Name(), "Title must be at least %d characters, got %d", r.Policy.Limits.MinTitleLength, n), true
	case field == "description" && n < r.Policy.Limits.MinDescriptionLength:
		return core.Errorf(r.Name(), "Description must be at least %d characters, got %d", r.Policy.Limits.MinDescriptionLength, n), true
	}
	return core.Finding{}, false
}
