package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/regseek/pkg/report"
)

const validArtifact = `title: UserAssist
description: Encoded records of GUI programs launched by the user.
paths:
  - HKCU\Software\Microsoft\Windows\CurrentVersion\Explorer\UserAssist
details:
  what: ROT13-encoded program names with run counts and timestamps.
  forensic_value: Shows which programs a user launched interactively.
  structure: Binary values keyed by a ROT13-encoded path.
metadata:
  criticality: high
  investigation_types: [timeline-analysis]
  tags: [gui]
limitations:
  - Only covers programs started through Explorer.
correlation:
  strengthens_evidence: [Prefetch]
`

// Valid content, but no limitations: a critical methodology error.
const criticalArtifact = `title: ShimCache entries
description: Application compatibility cache of executables seen by the system.
paths: HKLM\SYSTEM\CurrentControlSet\Control\Session Manager\AppCompatCache
correlation:
  required_for_definitive_conclusions: [Prefetch]
`

// Schema errors only: short title and description, empty paths.
const invalidArtifact = `title: Bad
description: short
paths: []
limitations:
  - None known.
correlation:
  strengthens_evidence: [Prefetch]
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "regseek.yaml"), []byte("versioning: false\n"), 0644))
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "regseek version "))
}

func TestBuild(t *testing.T) {
	root := setupProject(t, map[string]string{
		"artifacts/user-behaviour/userassist.yaml":   validArtifact,
		"artifacts/program-execution/bad.yaml":       invalidArtifact,
		"artifacts/program-execution/_template.yaml": "title: Template\n",
		"artifacts/program-execution/empty.yaml":     "",
		"artifacts/program-execution/shimcache.yaml": criticalArtifact,
	})
	output := filepath.Join(root, "out", "artifacts.json")

	code, out, stderr := execute(t, "build", "--root", root, "--output", output)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Loaded 1 valid artifacts (out of 3 total)")
	assert.Contains(t, out, "BUILD STATISTICS")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var ds map[string]any
	require.NoError(t, json.Unmarshal(data, &ds))
	assert.EqualValues(t, 1, ds["total"])
	info := ds["build_info"].(map[string]any)
	assert.EqualValues(t, 3, info["total_files_processed"])
	assert.EqualValues(t, 1, info["malformed_files"])

	t.Run("Fail On Invalid", func(t *testing.T) {
		code, _, _ := execute(t, "build", "--root", root, "--output", output, "--fail-on-invalid")
		assert.Equal(t, report.ExitInvalid, code)
	})
}

func TestBuild_EmptyCorpus(t *testing.T) {
	root := setupProject(t, map[string]string{"artifacts/persistence-methods/.keep": ""})

	code, out, _ := execute(t, "build", "--root", root)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "No artifacts found")
	_, err := os.Stat(filepath.Join(root, "site", "build", "artifacts.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuild_MissingCorpus(t *testing.T) {
	root := setupProject(t, nil)
	code, _, stderr := execute(t, "build", "--root", root)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "artifacts directory not found")
}

func TestValidate(t *testing.T) {
	t.Run("All Valid", func(t *testing.T) {
		root := setupProject(t, map[string]string{"artifacts/user-behaviour/userassist.yaml": validArtifact})
		code, out, _ := execute(t, "validate", "--root", root)
		assert.Equal(t, report.ExitOK, code)
		assert.Contains(t, out, "Files validated: 1")
		assert.Contains(t, out, "All artifacts are valid")
	})

	t.Run("Invalid", func(t *testing.T) {
		root := setupProject(t, map[string]string{
			"artifacts/user-behaviour/userassist.yaml": validArtifact,
			"artifacts/program-execution/bad.yaml":     invalidArtifact,
		})
		code, out, _ := execute(t, "validate", "--root", root)
		assert.Equal(t, report.ExitInvalid, code)
		assert.Contains(t, out, "INVALID FILES (1)")
		assert.Contains(t, out, "bad.yaml")
	})

	t.Run("Critical", func(t *testing.T) {
		root := setupProject(t, map[string]string{"artifacts/program-execution/shimcache.yaml": criticalArtifact})
		code, out, _ := execute(t, "validate", "--root", root)
		assert.Equal(t, report.ExitCritical, code)
		assert.Contains(t, out, "CRITICAL ISSUES")
	})

	t.Run("Single File", func(t *testing.T) {
		root := setupProject(t, map[string]string{"artifacts/user-behaviour/userassist.yaml": validArtifact})
		file := filepath.Join(root, "artifacts", "user-behaviour", "userassist.yaml")
		code, out, _ := execute(t, "validate", "--root", root, file)
		assert.Equal(t, report.ExitOK, code)
		assert.Contains(t, out, "Validating: "+file)
		assert.Contains(t, out, "VALID FILES (1)", "single files are always detailed")
	})

	t.Run("Single File Missing", func(t *testing.T) {
		root := setupProject(t, nil)
		code, _, stderr := execute(t, "validate", "--root", root, filepath.Join(root, "nope.yaml"))
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Error:")
	})

	t.Run("Strict Hives", func(t *testing.T) {
		doc := strings.Replace(validArtifact, `HKCU\Software`, `Software`, 1)
		root := setupProject(t, map[string]string{"artifacts/user-behaviour/userassist.yaml": doc})

		code, _, _ := execute(t, "validate", "--root", root)
		assert.Equal(t, report.ExitOK, code)

		code, _, _ = execute(t, "validate", "--root", root, "--strict-hives")
		assert.Equal(t, report.ExitInvalid, code)
	})
}

func TestList(t *testing.T) {
	root := setupProject(t, map[string]string{
		"artifacts/user-behaviour/userassist.yaml":   validArtifact,
		"artifacts/program-execution/shimcache.yaml": criticalArtifact,
	})

	t.Run("Text", func(t *testing.T) {
		code, out, _ := execute(t, "list", "--root", root)
		assert.Equal(t, 0, code)
		assert.Contains(t, out, "userassist - UserAssist [user-behaviour]")
		assert.Contains(t, out, "shimcache - ShimCache entries [program-execution]")
	})

	t.Run("Tag Filter JSON", func(t *testing.T) {
		code, out, _ := execute(t, "list", "--root", root, "--tag", "gui", "--json")
		assert.Equal(t, 0, code)

		var docs []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &docs))
		require.Len(t, docs, 1)
		assert.Equal(t, "userassist", docs[0]["id"])
		assert.Equal(t, "user-behaviour/userassist.yaml", docs[0]["source_file"])
	})

	t.Run("No Match", func(t *testing.T) {
		code, out, _ := execute(t, "list", "--root", root, "--tag", "nothing", "--json")
		assert.Equal(t, 0, code)
		assert.JSONEq(t, "[]", out)
	})
}

func TestState(t *testing.T) {
	root := setupProject(t, map[string]string{"artifacts/user-behaviour/userassist.yaml": validArtifact})

	code, out, _ := execute(t, "state", "--root", root, "--scan")
	require.Equal(t, 0, code)

	var state map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Contains(t, state, "service")
	assert.Contains(t, state, "rule-engine")
	assert.EqualValues(t, 1, state["repository"]["documents"])
}

func TestUnknownLogFormat(t *testing.T) {
	code, _, stderr := execute(t, "version", "--log-format", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown log format")
}
