package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Serializer defines how to read source documents and write datasets in a specific format.
type Serializer interface {
	// Parse reads one document and returns its root object.
	Parse(r io.Reader) (map[string]any, error)
	// Encode converts a value (typically a *core.Dataset) to bytes.
	Encode(v any) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(),
		".yaml": NewYAMLSerializer(),
		".yml":  NewYAMLSerializer(),
	}
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON files.
type JSONSerializer struct {
	// Indent is the indentation of encoded output; empty means compact.
	Indent string
}

// NewJSONSerializer creates a new JSON serializer with two-space indentation.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{Indent: "  "}
}

func (s *JSONSerializer) Parse(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmpty
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return rootObject(payload)
}

func (s *JSONSerializer) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Registry paths are full of backslashes and the front-end reads UTF-8.
	enc.SetEscapeHTML(false)
	enc.SetIndent("", s.Indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML files.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Parse(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if payload == nil {
		return nil, errEmpty
	}
	return rootObject(recursiveNormalize(payload))
}

func (s *YAMLSerializer) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- Helpers ---

var (
	errEmpty   = fmt.Errorf("file is empty or contains invalid YAML")
	errNotRoot = fmt.Errorf("root element must be an object/dictionary")
)

func rootObject(payload any) (map[string]any, error) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, errNotRoot
	}
	if len(m) == 0 {
		return nil, errEmpty
	}
	return m, nil
}

// recursiveNormalize traverses maps and slices converting map[any]any
// (YAML mappings with non-string keys) to map[string]any so the result is
// JSON encodable.
func recursiveNormalize(val any) any {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = recursiveNormalize(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = recursiveNormalize(val)
		}
		return l
	default:
		return v
	}
}
