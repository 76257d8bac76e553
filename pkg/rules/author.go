package rules

import (
	"strings"

	"github.com/aretw0/regseek/pkg/core"
)

// Author checks the optional attribution section.
type Author struct{}

func (Author) Name() string { return "author" }

func (r Author) Check(a core.Artifact) []core.Finding {
	raw := a.Fields["author"]
	if core.Absent(raw) {
		return []core.Finding{core.Recommendf(r.Name(), "Missing 'author' section (recommended for attribution)")}
	}
	author, ok := core.Object(raw)
	if !ok {
		return []core.Finding{core.Warnf(r.Name(), "Author should be an object with name, contact info")}
	}

	var out []core.Finding
	if name, has := author["name"]; !has {
		out = append(out, core.Warnf(r.Name(), "Author missing 'name' field"))
	} else if s, isString := name.(string); !isString || strings.TrimSpace(s) == "" {
		out = append(out, core.Warnf(r.Name(), "Author name should be a non-empty string"))
	}

	if email := author["email"]; !core.Absent(email) && !validEmail(email) {
		out = append(out, core.Warnf(r.Name(), "Author email format appears invalid"))
	}
	return out
}

// Contribution checks the optional contribution tracking section.
type Contribution struct{}

func (Contribution) Name() string { return "contribution" }

func (r Contribution) Check(a core.Artifact) []core.Finding {
	raw := a.Fields["contribution"]
	if core.Absent(raw) {
		return []core.Finding{core.Recommendf(r.Name(), "Missing 'contribution' section (recommended for tracking)")}
	}
	contribution, ok := core.Object(raw)
	if !ok {
		return []core.Finding{core.Warnf(r.Name(), "Contribution should be an object")}
	}

	var out []core.Finding
	for _, field := range []string{"date_added", "last_updated"} {
		if value := contribution[field]; !core.Absent(value) && !validDate(value) {
			out = append(out, core.Warnf(r.Name(), "contribution.%s should be in YYYY-MM-DD format", field))
		}
	}
	return out
}
