// Package report renders validation results and build statistics for humans.
package report

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
)

// Exit codes returned by ExitCode.
const (
	ExitOK       = 0
	ExitInvalid  = 1
	ExitCritical = 2
)

const (
	rule             = "======================================================================"
	maxInvalidWarns  = 3
	maxCritical      = 10
	maxCommonWarns   = 5
	maxInvestigation = 5
	maxVersions      = 8
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

// Printer writes reports to w. Colors follow fatih/color detection,
// so they are off for non-terminals and when NO_COLOR is set.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) header(title string) {
	fmt.Fprintf(p.w, "\n%s\n", rule)
	bold.Fprintf(p.w, " %s\n", title)
	fmt.Fprintf(p.w, "%s\n", rule)
}

// FileResults lists invalid files first with every error and a few
// warnings, then valid files in detail or as a count.
func (p *Printer) FileResults(results []core.Result, detailed bool) {
	if len(results) == 0 {
		return
	}
	p.header("FILE VALIDATION RESULTS")

	var valid, invalid []core.Result
	for _, r := range results {
		if r.IsValid() {
			valid = append(valid, r)
		} else {
			invalid = append(invalid, r)
		}
	}

	if len(invalid) > 0 {
		red.Fprintf(p.w, "\n INVALID FILES (%d):\n", len(invalid))
		for _, r := range invalid {
			fmt.Fprintf(p.w, "\n   %s\n", fileName(r.Source))
			for _, e := range r.Errors {
				red.Fprintf(p.w, "      ✗ %s\n", e)
			}
			for _, w := range r.Warnings[:min(len(r.Warnings), maxInvalidWarns)] {
				yellow.Fprintf(p.w, "      ! %s\n", w)
			}
			if n := len(r.Warnings) - maxInvalidWarns; n > 0 {
				yellow.Fprintf(p.w, "      ... and %d more warnings\n", n)
			}
		}
	}

	if len(valid) == 0 {
		return
	}
	if !detailed {
		green.Fprintf(p.w, "\n VALID FILES: %d files passed validation\n", len(valid))
		perfect := 0
		for _, r := range valid {
			if r.Perfect() {
				perfect++
			}
		}
		if perfect > 0 {
			fmt.Fprintf(p.w, "   %d files are perfect (no warnings or recommendations)\n", perfect)
		}
		return
	}

	green.Fprintf(p.w, "\n VALID FILES (%d):\n", len(valid))
	for _, r := range valid {
		if r.Perfect() {
			green.Fprintf(p.w, "   ✓ %s - Perfect!\n", fileName(r.Source))
			continue
		}
		fmt.Fprintf(p.w, "   ✓ %s - %d warnings, %d recommendations\n",
			fileName(r.Source), len(r.Warnings), len(r.Recommendations))
		for _, w := range r.Warnings {
			yellow.Fprintf(p.w, "      ! %s\n", w)
		}
		for _, rec := range r.Recommendations {
			cyan.Fprintf(p.w, "      > %s\n", rec)
		}
	}
}

// Summary prints run totals, valid artifacts per category, critical
// methodology issues and the most common warnings.
func (p *Printer) Summary(results []core.Result, pol *policy.Policy) {
	var valid, errs, warns, recs int
	for _, r := range results {
		if r.IsValid() {
			valid++
		}
		errs += len(r.Errors)
		warns += len(r.Warnings)
		recs += len(r.Recommendations)
	}

	p.header("VALIDATION SUMMARY")
	fmt.Fprintln(p.w, " STATISTICS:")
	fmt.Fprintf(p.w, "   Files validated: %d\n", len(results))
	fmt.Fprintf(p.w, "   Valid: %d\n", valid)
	fmt.Fprintf(p.w, "   Invalid: %d\n", len(results)-valid)
	fmt.Fprintf(p.w, "   Total errors: %d\n", errs)
	fmt.Fprintf(p.w, "   Total warnings: %d\n", warns)
	fmt.Fprintf(p.w, "   Total recommendations: %d\n", recs)
	if len(results) > 0 {
		fmt.Fprintf(p.w, "   Success rate: %.1f%%\n", float64(valid)/float64(len(results))*100)
	}

	if byCategory := ValidByCategory(results); len(byCategory) > 0 {
		fmt.Fprintln(p.w, "\n VALID ARTIFACTS BY CATEGORY:")
		for _, c := range slices.Sorted(maps.Keys(byCategory)) {
			marker := " "
			if pol != nil && pol.IsPriority(c) {
				marker = "★"
			}
			fmt.Fprintf(p.w, "   %s %s: %d\n", marker, c, byCategory[c])
		}
	}

	if issues := CriticalIssues(results); len(issues) > 0 {
		red.Fprintln(p.w, "\n CRITICAL ISSUES (Anti-Checklist Methodology):")
		for _, issue := range issues[:min(len(issues), maxCritical)] {
			fmt.Fprintf(p.w, "   • %s\n", issue)
		}
		if n := len(issues) - maxCritical; n > 0 {
			fmt.Fprintf(p.w, "   ... and %d more critical issues\n", n)
		}
	}

	if common := CommonWarnings(results); len(common) > 0 {
		yellow.Fprintln(p.w, "\n COMMON WARNINGS:")
		for _, c := range common[:min(len(common), maxCommonWarns)] {
			fmt.Fprintf(p.w, "   • %s: %d files\n", c.Key, c.Count)
		}
	}
}

// Verdict prints the closing line of a validation run.
func (p *Printer) Verdict(results []core.Result) {
	rep := core.Report{Results: results}
	invalid, critical := rep.Invalid(), rep.CriticalCount()

	fmt.Fprintf(p.w, "\n%s\n", rule)
	switch {
	case invalid == 0 && critical == 0:
		green.Fprintln(p.w, " All artifacts are valid and follow anti-checklist methodology!")
		fmt.Fprintln(p.w, " Ready for build and deployment")
	case invalid == 0:
		yellow.Fprintf(p.w, " %d critical methodology issues found\n", critical)
		fmt.Fprintln(p.w, " Please address anti-checklist methodology requirements")
	default:
		red.Fprintf(p.w, " %d artifacts failed validation\n", invalid)
		if critical > 0 {
			red.Fprintf(p.w, " Including %d critical methodology issues\n", critical)
		}
		fmt.Fprintln(p.w, " Please fix errors before building")
	}
}

// ExitCode maps results to the process exit status: critical methodology
// errors win over plain invalid documents.
func ExitCode(results []core.Result) int {
	rep := core.Report{Results: results}
	switch {
	case rep.CriticalCount() > 0:
		return ExitCritical
	case rep.Invalid() > 0:
		return ExitInvalid
	default:
		return ExitOK
	}
}

// BuildStats prints the statistics of a published dataset.
func (p *Printer) BuildStats(ds *core.Dataset) {
	st := ds.Statistics

	p.header("BUILD STATISTICS")
	fmt.Fprintf(p.w, " Total artifacts: %d\n", st.Total)
	fmt.Fprintf(p.w, " Categories: %d\n", len(ds.Categories))
	fmt.Fprintf(p.w, " Unique tools: %d\n", st.ToolsCount)
	fmt.Fprintf(p.w, " Contributors: %d\n", len(st.Authors))
	if ds.BuildInfo.MalformedFiles > 0 {
		yellow.Fprintf(p.w, " Malformed files skipped: %d\n", ds.BuildInfo.MalformedFiles)
	}
	if ds.BuildInfo.CorpusRevision != "" {
		fmt.Fprintf(p.w, " Corpus revision: %s\n", ds.BuildInfo.CorpusRevision)
	}

	fmt.Fprintln(p.w, "\n By Category:")
	for _, k := range slices.Sorted(maps.Keys(st.ByCategory)) {
		fmt.Fprintf(p.w, "   • %s: %d artifacts\n", k, st.ByCategory[k])
	}

	fmt.Fprintln(p.w, "\n By Criticality:")
	for _, k := range slices.Sorted(maps.Keys(st.ByCriticality)) {
		fmt.Fprintf(p.w, "   • %s: %d artifacts\n", k, st.ByCriticality[k])
	}

	fmt.Fprintln(p.w, "\n Top Investigation Types:")
	top := rank(st.ByInvestigationType, slices.Sorted(maps.Keys(st.ByInvestigationType)))
	for _, c := range top[:min(len(top), maxInvestigation)] {
		fmt.Fprintf(p.w, "   • %s: %d artifacts\n", c.Key, c.Count)
	}

	fmt.Fprintln(p.w, "\n Windows Versions Covered:")
	for _, v := range st.WindowsVersions[:min(len(st.WindowsVersions), maxVersions)] {
		fmt.Fprintf(p.w, "   • %s\n", v)
	}
	if n := len(st.WindowsVersions) - maxVersions; n > 0 {
		fmt.Fprintf(p.w, "   • ... and %d more\n", n)
	}
}

// Count pairs a label with its number of occurrences.
type Count struct {
	Key   string
	Count int
}

// ValidByCategory counts valid results per parent directory of their source.
func ValidByCategory(results []core.Result) map[string]int {
	out := make(map[string]int)
	for _, r := range results {
		if !r.IsValid() {
			continue
		}
		dir := path.Base(path.Dir(filepath.ToSlash(r.Source)))
		if dir == "." || dir == "/" {
			continue
		}
		out[dir]++
	}
	return out
}

// CriticalIssues returns "<file>: CRITICAL: <message>" for every critical error, in order.
func CriticalIssues(results []core.Result) []string {
	var out []string
	for _, r := range results {
		for _, e := range r.Errors {
			if e.Critical {
				out = append(out, fileName(r.Source)+": "+e.String())
			}
		}
	}
	return out
}

// CommonWarnings groups warnings by their text before the first parenthesis,
// most frequent first; ties keep first-seen order.
func CommonWarnings(results []core.Result) []Count {
	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		for _, w := range r.Warnings {
			key, _, _ := strings.Cut(w.Message, "(")
			key = strings.TrimSpace(key)
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}
	}
	return rank(counts, order)
}

// rank orders keys by descending count, stable on the given order.
func rank(counts map[string]int, order []string) []Count {
	out := make([]Count, 0, len(order))
	for _, k := range order {
		out = append(out, Count{Key: k, Count: counts[k]})
	}
	slices.SortStableFunc(out, func(a, b Count) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

func fileName(source string) string {
	return path.Base(filepath.ToSlash(source))
}
