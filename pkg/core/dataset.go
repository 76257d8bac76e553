package core

import "time"

// Statistics summarizes the kept documents of a dataset.
type Statistics struct {
	Total               int            `json:"total" yaml:"total"`
	ByCategory          map[string]int `json:"by_category" yaml:"by_category"`
	ByCriticality       map[string]int `json:"by_criticality" yaml:"by_criticality"`
	ByInvestigationType map[string]int `json:"by_investigation_type" yaml:"by_investigation_type"`
	WindowsVersions     []string       `json:"windows_versions" yaml:"windows_versions"`
	ToolsCount          int            `json:"tools_count" yaml:"tools_count"`
	Authors             []string       `json:"authors" yaml:"authors"`
}

// BuildInfo is the provenance of a dataset build.
type BuildInfo struct {
	TotalFilesProcessed int    `json:"total_files_processed" yaml:"total_files_processed"`
	ValidArtifacts      int    `json:"valid_artifacts" yaml:"valid_artifacts"`
	MalformedFiles      int    `json:"malformed_files" yaml:"malformed_files"`
	Categories          int    `json:"categories" yaml:"categories"`
	BuiltAt             string `json:"built_at" yaml:"built_at"`
	Builder             string `json:"builder" yaml:"builder"`
	CorpusRevision      string `json:"corpus_revision,omitempty" yaml:"corpus_revision,omitempty"`
}

// Dataset is the single build artifact consumed by the front-end.
type Dataset struct {
	Artifacts   []Artifact `json:"artifacts" yaml:"artifacts"`
	Categories  []string   `json:"categories" yaml:"categories"`
	Statistics  Statistics `json:"statistics" yaml:"statistics"`
	Total       int        `json:"total" yaml:"total"`
	LastUpdated time.Time  `json:"last_updated" yaml:"last_updated"`
	Version     string     `json:"version" yaml:"version"`
	BuildInfo   BuildInfo  `json:"build_info" yaml:"build_info"`
}

// BuildOutcome is the result of one build run.
type BuildOutcome struct {
	Dataset  *Dataset
	Results  []Result
	Failures []LoadFailure
	// Empty is set when no document was discoverable; nothing is published.
	Empty bool
}
