package report

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func result(source string, findings ...core.Finding) core.Result {
	r := core.Result{Source: source}
	r.Add(findings...)
	return r
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name    string
		results []core.Result
		want    int
	}{
		{"Empty", nil, ExitOK},
		{"All Valid With Warnings", []core.Result{
			result("a/x.yaml", core.Warnf("metadata", "Missing metadata section")),
		}, ExitOK},
		{"Invalid", []core.Result{
			result("a/x.yaml"),
			result("a/y.yaml", core.Errorf("required", "Missing required field: name")),
		}, ExitInvalid},
		{"Critical", []core.Result{
			result("a/y.yaml", core.Errorf("required", "Missing required field: name")),
			result("a/z.yaml", core.Criticalf("methodology", "Missing limitations section")),
		}, ExitCritical},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.results))
		})
	}
}

func TestFileResults(t *testing.T) {
	invalid := result("persistence/run-keys.yaml",
		core.Errorf("required", "Missing required field: description"),
		core.Warnf("metadata", "w1"),
		core.Warnf("metadata", "w2"),
		core.Warnf("metadata", "w3"),
		core.Warnf("metadata", "w4"),
		core.Warnf("metadata", "w5"),
	)
	perfect := result("persistence/services.yaml")
	noisy := result("program-execution/shimcache.yaml",
		core.Warnf("author", "Missing author information"),
		core.Recommendf("metadata", "Consider adding tags"),
	)
	results := []core.Result{perfect, invalid, noisy}

	t.Run("Summary Mode", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).FileResults(results, false)
		out := buf.String()

		assert.Contains(t, out, "INVALID FILES (1)")
		assert.Contains(t, out, "run-keys.yaml")
		assert.Contains(t, out, "Missing required field: description")
		assert.Contains(t, out, "w3")
		assert.NotContains(t, out, "w4")
		assert.Contains(t, out, "... and 2 more warnings")
		assert.Contains(t, out, "VALID FILES: 2 files passed validation")
		assert.Contains(t, out, "1 files are perfect")
		assert.NotContains(t, out, "shimcache.yaml")
		assert.Less(t, bytes.Index(buf.Bytes(), []byte("INVALID")), bytes.Index(buf.Bytes(), []byte("VALID FILES:")))
	})

	t.Run("Detailed Mode", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).FileResults(results, true)
		out := buf.String()

		assert.Contains(t, out, "VALID FILES (2)")
		assert.Contains(t, out, "services.yaml - Perfect!")
		assert.Contains(t, out, "shimcache.yaml - 1 warnings, 1 recommendations")
		assert.Contains(t, out, "Consider adding tags")
	})

	t.Run("Nothing To Print", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).FileResults(nil, true)
		assert.Empty(t, buf.String())
	})
}

func TestSummary(t *testing.T) {
	var results []core.Result
	for i := range 12 {
		results = append(results, result(fmt.Sprintf("persistence/doc%02d.yaml", i),
			core.Criticalf("methodology", "Missing limitations section")))
	}
	results = append(results,
		result("program-execution/shimcache.yaml",
			core.Warnf("details", "Missing investigation types (required for anti-checklist)"),
			core.Warnf("author", "Missing author information"),
		),
		result("usb-devices/usbstor.yaml",
			core.Warnf("details", "Missing investigation types (required for anti-checklist)"),
		),
	)

	var buf bytes.Buffer
	NewPrinter(&buf).Summary(results, policy.Default())
	out := buf.String()

	assert.Contains(t, out, "Files validated: 14")
	assert.Contains(t, out, "Valid: 2")
	assert.Contains(t, out, "Invalid: 12")
	assert.Contains(t, out, "Total errors: 12")
	assert.Contains(t, out, "Total warnings: 3")
	assert.Contains(t, out, "Success rate: 14.3%")
	assert.Contains(t, out, "★ program-execution: 1")
	assert.Contains(t, out, "usb-devices: 1")
	assert.Contains(t, out, "doc00.yaml: CRITICAL: Missing limitations section")
	assert.NotContains(t, out, "doc10.yaml")
	assert.Contains(t, out, "... and 2 more critical issues")
	assert.Contains(t, out, "Missing investigation types: 2 files")
	assert.Contains(t, out, "Missing author information: 1 files")
}

func TestCommonWarnings_Order(t *testing.T) {
	results := []core.Result{
		result("a/1.yaml", core.Warnf("x", "beta"), core.Warnf("x", "alpha (1)")),
		result("a/2.yaml", core.Warnf("x", "alpha (2)"), core.Warnf("x", "gamma")),
	}
	got := CommonWarnings(results)
	require.Len(t, got, 3)
	assert.Equal(t, []Count{{"alpha", 2}, {"beta", 1}, {"gamma", 1}}, got)
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		name    string
		results []core.Result
		want    []string
	}{
		{"Clean", []core.Result{result("a/x.yaml")}, []string{"All artifacts are valid", "Ready for build"}},
		{"Invalid With Critical", []core.Result{
			result("a/x.yaml", core.Criticalf("methodology", "Missing limitations section")),
		}, []string{"1 artifacts failed validation", "Including 1 critical methodology issues", "Please fix errors"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).Verdict(tc.results)
			for _, w := range tc.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestBuildStats(t *testing.T) {
	ds := &core.Dataset{
		Categories: []string{"persistence", "program-execution"},
		Statistics: core.Statistics{
			Total:         3,
			ByCategory:    map[string]int{"program-execution": 2, "persistence": 1},
			ByCriticality: map[string]int{"high": 2, "unspecified": 1},
			ByInvestigationType: map[string]int{
				"a": 1, "b": 5, "c": 2, "d": 4, "e": 3, "f": 6,
			},
			WindowsVersions: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"},
			ToolsCount:      4,
			Authors:         []string{"Alice"},
		},
		BuildInfo: core.BuildInfo{MalformedFiles: 2, CorpusRevision: "abc123"},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).BuildStats(ds)
	out := buf.String()

	assert.Contains(t, out, "Total artifacts: 3")
	assert.Contains(t, out, "Unique tools: 4")
	assert.Contains(t, out, "Contributors: 1")
	assert.Contains(t, out, "Malformed files skipped: 2")
	assert.Contains(t, out, "Corpus revision: abc123")
	assert.Contains(t, out, "• f: 6 artifacts")
	assert.NotContains(t, out, "• a: 1 artifacts", "only the top five investigation types")
	assert.Contains(t, out, "• 8\n")
	assert.NotContains(t, out, "• 9\n")
	assert.Contains(t, out, "... and 2 more")
}
