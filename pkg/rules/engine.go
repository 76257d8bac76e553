// Package rules implements the validation battery run against every artifact.
//
// Each Rule is pure and independent: it reads one normalized document and
// returns findings. The Engine runs the rules in order and routes findings
// into a core.Result by severity. No rule sees another rule's output.
package rules

import (
	"log/slog"

	"github.com/aretw0/introspection"

	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
)

// Rule is one independent check.
type Rule interface {
	Name() string
	Check(a core.Artifact) []core.Finding
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc struct {
	RuleName string
	Fn       func(a core.Artifact) []core.Finding
}

func (r RuleFunc) Name() string                         { return r.RuleName }
func (r RuleFunc) Check(a core.Artifact) []core.Finding { return r.Fn(a) }

// Default returns the standard battery, in order.
func Default(p *policy.Policy) []Rule {
	return []Rule{
		RequiredFields{Policy: p},
		Category{Policy: p},
		Paths{Policy: p},
		Details{Policy: p},
		Metadata{Policy: p},
		Author{},
		Contribution{},
		Methodology{},
	}
}

// Engine runs an ordered rule battery.
type Engine struct {
	policy *policy.Policy
	rules  []Rule
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default battery.
func WithRules(rules ...Rule) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine for the given policy (the embedded default when nil).
func NewEngine(p *policy.Policy, opts ...Option) *Engine {
	if p == nil {
		p = policy.Default()
	}
	e := &Engine{
		policy: p,
		logger: slog.New(slog.DiscardHandler),
	}
	e.rules = Default(p)
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "rules")
	return e
}

// Validate runs every rule against the document. Rules run unconditionally.
func (e *Engine) Validate(a core.Artifact) core.Result {
	res := core.Result{ID: a.ID, Source: a.Source}
	for _, rule := range e.rules {
		res.Add(rule.Check(a)...)
	}
	e.logger.Debug("validated",
		"id", a.ID,
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"recommendations", len(res.Recommendations),
	)
	return res
}

// Rules returns the names of the configured rules, in order.
func (e *Engine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name()
	}
	return names
}

// EngineState exposes internal state for observability.
type EngineState struct {
	Rules            []string `json:"rules"`
	Categories       int      `json:"categories"`
	HivePrefixStrict bool     `json:"hive_prefix_strict"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	return EngineState{
		Rules:            e.Rules(),
		Categories:       len(e.policy.Categories),
		HivePrefixStrict: e.policy.HivePrefixStrict,
	}
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "rule-engine"
}

var _ core.Validator = (*Engine)(nil)
var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
