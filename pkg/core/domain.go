// Package core holds the domain model of the artifact corpus: documents,
// validation results and the aggregated dataset, plus the ports the service
// orchestrates.
package core

import (
	"encoding/json"
	"maps"
)

// Fields represents the authored content of a document after normalization.
type Fields map[string]any

// Artifact is the unit of curation: one document describing one registry artifact.
type Artifact struct {
	ID         string
	Group      string // enclosing category directory
	Source     string // path relative to the corpus root
	Fields     Fields
	SearchTags []string
}

// String returns a field as a string, or "" when absent or not a string.
func (a Artifact) String(key string) string {
	s, _ := a.Fields[key].(string)
	return s
}

// Section returns a nested object field, or nil when absent or not an object.
func (a Artifact) Section(key string) map[string]any {
	m, _ := a.Fields[key].(map[string]any)
	return m
}

// Category returns the (normalized) category of the artifact.
func (a Artifact) Category() string {
	return a.String("category")
}

// MarshalJSON flattens the authored fields and adds the derived ones.
func (a Artifact) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any, len(a.Fields)+3)
	maps.Copy(payload, a.Fields)

	tags := a.SearchTags
	if tags == nil {
		tags = []string{}
	}
	payload["id"] = a.ID
	payload["source_file"] = a.Source
	payload["search_tags"] = tags
	return json.Marshal(payload)
}

// MarshalYAML mirrors MarshalJSON for YAML datasets.
func (a Artifact) MarshalYAML() (any, error) {
	payload := make(map[string]any, len(a.Fields)+3)
	maps.Copy(payload, a.Fields)

	tags := a.SearchTags
	if tags == nil {
		tags = []string{}
	}
	payload["id"] = a.ID
	payload["source_file"] = a.Source
	payload["search_tags"] = tags
	return payload, nil
}

// LoadFailure records a source document that could not become an Artifact.
type LoadFailure struct {
	Source string
	Err    error
}

// EventType represents the type of change in the corpus.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the corpus.
type Event struct {
	Type      EventType
	Source    string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Source
}
