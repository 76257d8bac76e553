package core

import (
	"encoding/json"
	"fmt"
)

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError          Severity = "error"
	SeverityWarning        Severity = "warning"
	SeverityRecommendation Severity = "recommendation"
)

// Finding is one entry produced by a validation rule.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// Critical is set on methodology errors only.
	Critical bool `json:"critical,omitempty"`
}

func (f Finding) String() string {
	if f.Critical {
		return "CRITICAL: " + f.Message
	}
	return f.Message
}

// Errorf builds an error finding.
func Errorf(rule, format string, args ...any) Finding {
	return Finding{Rule: rule, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning finding.
func Warnf(rule, format string, args ...any) Finding {
	return Finding{Rule: rule, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// Recommendf builds a recommendation finding.
func Recommendf(rule, format string, args ...any) Finding {
	return Finding{Rule: rule, Severity: SeverityRecommendation, Message: fmt.Sprintf(format, args...)}
}

// Criticalf builds a critical methodology error.
func Criticalf(rule, format string, args ...any) Finding {
	f := Errorf(rule, format, args...)
	f.Critical = true
	return f
}

// Result is the outcome of validating one document.
type Result struct {
	ID              string
	Source          string
	Errors          []Finding
	Warnings        []Finding
	Recommendations []Finding
}

// Add routes findings to the list matching their severity, keeping order.
func (r *Result) Add(findings ...Finding) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			r.Errors = append(r.Errors, f)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, f)
		default:
			r.Recommendations = append(r.Recommendations, f)
		}
	}
}

// IsValid reports whether the document has no errors.
// Warnings and recommendations never affect validity.
func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

// CriticalCount returns the number of critical methodology errors.
func (r Result) CriticalCount() int {
	n := 0
	for _, f := range r.Errors {
		if f.Critical {
			n++
		}
	}
	return n
}

// Perfect reports a valid result with no warnings or recommendations.
func (r Result) Perfect() bool {
	return r.IsValid() && len(r.Warnings) == 0 && len(r.Recommendations) == 0
}

// MarshalJSON adds the computed is_valid flag.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias struct {
		ID              string    `json:"id,omitempty"`
		Source          string    `json:"source"`
		IsValid         bool      `json:"is_valid"`
		Errors          []Finding `json:"errors"`
		Warnings        []Finding `json:"warnings"`
		Recommendations []Finding `json:"recommendations"`
	}
	return json.Marshal(alias{
		ID:              r.ID,
		Source:          r.Source,
		IsValid:         r.IsValid(),
		Errors:          nonNil(r.Errors),
		Warnings:        nonNil(r.Warnings),
		Recommendations: nonNil(r.Recommendations),
	})
}

func nonNil(f []Finding) []Finding {
	if f == nil {
		return []Finding{}
	}
	return f
}

// FailureResult turns a load failure into an invalid result.
func FailureResult(lf LoadFailure) Result {
	var r Result
	r.Source = lf.Source
	r.Add(Errorf("document", "%v", lf.Err))
	return r
}

// Report collects the results of one validation run, in discovery order.
type Report struct {
	Results []Result
}

// Valid returns the number of valid results.
func (r Report) Valid() int {
	n := 0
	for _, res := range r.Results {
		if res.IsValid() {
			n++
		}
	}
	return n
}

// Invalid returns the number of invalid results.
func (r Report) Invalid() int {
	return len(r.Results) - r.Valid()
}

// CriticalCount returns the number of critical methodology errors across all results.
func (r Report) CriticalCount() int {
	n := 0
	for _, res := range r.Results {
		n += res.CriticalCount()
	}
	return n
}
