package rules

import (
	"github.com/aretw0/regseek/pkg/core"
)

// Methodology enforces the anti-checklist requirement: every artifact states
// what it cannot prove and what corroborating evidence it needs.
// A missing section is a critical error.
type Methodology struct{}

func (Methodology) Name() string { return "methodology" }

func (r Methodology) Check(a core.Artifact) []core.Finding {
	return append(r.checkLimitations(a.Fields["limitations"]), r.checkCorrelation(a.Fields["correlation"])...)
}

func (r Methodology) checkLimitations(value any) []core.Finding {
	if value == nil {
		return []core.Finding{core.Criticalf(r.Name(),
			"Missing 'limitations' section (anti-checklist methodology): must specify what this artifact CANNOT determine or prove")}
	}
	limitations, ok := core.List(value)
	if !ok {
		return []core.Finding{core.Warnf(r.Name(), "Limitations should be a list of strings")}
	}
	if len(limitations) == 0 {
		return []core.Finding{core.Warnf(r.Name(), "Limitations list is empty")}
	}

	var out []core.Finding
	for i, item := range limitations {
		if _, isString := item.(string); !isString {
			out = append(out, core.Warnf(r.Name(), "Limitation %d should be a string, got %s", i+1, core.Kind(item)))
		}
	}
	return append(out, core.Recommendf(r.Name(), "Good: %d limitation(s) specified", len(limitations)))
}

func (r Methodology) checkCorrelation(value any) []core.Finding {
	if value == nil {
		return []core.Finding{core.Criticalf(r.Name(),
			"Missing 'correlation' section (anti-checklist methodology): must specify required evidence for definitive conclusions")}
	}
	correlation, ok := core.Object(value)
	if !ok {
		return []core.Finding{core.Warnf(r.Name(), "Correlation should be an object with required/strengthens fields")}
	}
	if core.Absent(correlation["required_for_definitive_conclusions"]) && core.Absent(correlation["strengthens_evidence"]) {
		return []core.Finding{core.Warnf(r.Name(), "Correlation section empty - should specify required evidence")}
	}
	return []core.Finding{core.Recommendf(r.Name(), "Good: Correlation requirements specified")}
}
