package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string `json:"repository_type"`
	ValidatorType  string `json:"validator_type"`
	Builds         int    `json:"builds"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ServiceState{
		RepositoryType: componentType(s.repo, "repository"),
		ValidatorType:  componentType(s.validator, "validator"),
		Builds:         s.builds,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

func componentType(v any, fallback string) string {
	if v == nil {
		return "unknown"
	}
	if comp, ok := v.(introspection.Component); ok {
		return comp.ComponentType()
	}
	return fallback
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
