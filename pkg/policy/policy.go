// Package policy holds the closed sets and limits documents are validated against.
//
// Enumerations are data, not types: adding a category is an edit to a YAML
// file, and membership is still checked strictly.
package policy

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Limits are the minimum lengths of human text fields.
type Limits struct {
	MinTitleLength       int `yaml:"min_title_length" json:"min_title_length"`
	MinDescriptionLength int `yaml:"min_description_length" json:"min_description_length"`
	MinDetailLength      int `yaml:"min_detail_length" json:"min_detail_length"`
}

// Policy is the authoritative rule set for one validation run.
type Policy struct {
	Categories         []string `yaml:"categories" json:"categories"`
	PriorityCategories []string `yaml:"priority_categories" json:"priority_categories"`
	InvestigationTypes []string `yaml:"investigation_types" json:"investigation_types"`
	CriticalityLevels  []string `yaml:"criticality_levels" json:"criticality_levels"`
	RegistryPrefixes   []string `yaml:"registry_prefixes" json:"registry_prefixes"`
	ReferenceTypes     []string `yaml:"reference_types" json:"reference_types"`
	Limits             Limits   `yaml:"limits" json:"limits"`
	// HivePrefixStrict turns hive-prefix mismatches from warnings into errors.
	HivePrefixStrict bool `yaml:"hive_prefix_strict" json:"hive_prefix_strict"`
}

// Override is a partial policy read from a config file.
// Empty lists and zero limits keep the defaults.
type Override struct {
	Categories         []string `yaml:"categories"`
	PriorityCategories []string `yaml:"priority_categories"`
	InvestigationTypes []string `yaml:"investigation_types"`
	CriticalityLevels  []string `yaml:"criticality_levels"`
	RegistryPrefixes   []string `yaml:"registry_prefixes"`
	ReferenceTypes     []string `yaml:"reference_types"`
	Limits             Limits   `yaml:"limits"`
	HivePrefixStrict   *bool    `yaml:"hive_prefix_strict"`
}

// Default returns a fresh copy of the embedded policy.
func Default() *Policy {
	p, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("policy: embedded default is invalid: %v", err))
	}
	return p
}

// Parse decodes a complete policy document.
func Parse(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a policy override file and applies it on top of the defaults.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}
	var o Override
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("invalid policy %s: %w", path, err)
	}
	p := Default()
	p.Apply(o)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply merges an override into the policy.
func (p *Policy) Apply(o Override) {
	replace := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = slices.Clone(src)
		}
	}
	replace(&p.Categories, o.Categories)
	replace(&p.PriorityCategories, o.PriorityCategories)
	replace(&p.InvestigationTypes, o.InvestigationTypes)
	replace(&p.CriticalityLevels, o.CriticalityLevels)
	replace(&p.RegistryPrefixes, o.RegistryPrefixes)
	replace(&p.ReferenceTypes, o.ReferenceTypes)

	if o.Limits.MinTitleLength > 0 {
		p.Limits.MinTitleLength = o.Limits.MinTitleLength
	}
	if o.Limits.MinDescriptionLength > 0 {
		p.Limits.MinDescriptionLength = o.Limits.MinDescriptionLength
	}
	if o.Limits.MinDetailLength > 0 {
		p.Limits.MinDetailLength = o.Limits.MinDetailLength
	}
	if o.HivePrefixStrict != nil {
		p.HivePrefixStrict = *o.HivePrefixStrict
	}
}

// Validate checks the policy is usable.
func (p *Policy) Validate() error {
	switch {
	case len(p.Categories) == 0:
		return fmt.Errorf("invalid policy: no categories")
	case len(p.CriticalityLevels) == 0:
		return fmt.Errorf("invalid policy: no criticality levels")
	case len(p.RegistryPrefixes) == 0:
		return fmt.Errorf("invalid policy: no registry prefixes")
	}
	for _, c := range p.PriorityCategories {
		if !slices.Contains(p.Categories, c) {
			return fmt.Errorf("invalid policy: priority category %q is not a category", c)
		}
	}
	return nil
}

// IsCategory reports membership in the category enumeration.
func (p *Policy) IsCategory(s string) bool { return slices.Contains(p.Categories, s) }

// IsPriority reports membership in the priority subset.
func (p *Policy) IsPriority(s string) bool { return slices.Contains(p.PriorityCategories, s) }

// IsInvestigationType reports membership in the investigation-type enumeration.
func (p *Policy) IsInvestigationType(s string) bool {
	return slices.Contains(p.InvestigationTypes, s)
}

// IsCriticality reports membership in the criticality enumeration.
func (p *Policy) IsCriticality(s string) bool { return slices.Contains(p.CriticalityLevels, s) }

// IsReferenceType reports membership in the reference-type enumeration.
func (p *Policy) IsReferenceType(s string) bool { return slices.Contains(p.ReferenceTypes, s) }

// Hive returns the hive name (prefix without separator) a path starts with.
func (p *Policy) Hive(path string) (string, bool) {
	for _, prefix := range p.RegistryPrefixes {
		if strings.HasPrefix(path, prefix) {
			return strings.TrimRight(prefix, `\`), true
		}
	}
	return "", false
}
