package rules

import (
	"strings"

	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
)

// Category checks membership in the category enumeration.
// Missing or non-string categories are reported by RequiredFields.
type Category struct {
	Policy *policy.Policy
}

func (Category) Name() string { return "category" }

func (r Category) Check(a core.Artifact) []core.Finding {
	category, ok := a.Fields["category"].(string)
	if !ok || category == "" {
		return nil
	}
	if !r.Policy.IsCategory(category) {
		return []core.Finding{core.Errorf(r.Name(), "Invalid category '%s'. Must be one of: %s",
			category, strings.Join(r.Policy.Categories, ", "))}
	}
	if r.Policy.IsPriority(category) {
		return []core.Finding{core.Recommendf(r.Name(), "Category '%s' is a priority category (appears in quick filters)", category)}
	}
	return nil
}
