package regseek

import (
	"log/slog"
	"time"

	"github.com/aretw0/regseek/internal/platform"
	"github.com/aretw0/regseek/pkg/adapters/fs"
	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// App is the wired pipeline returned by New.
type App = platform.App

// Config is the on-disk project configuration (regseek.yaml).
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring RegSeek.
type Option = platform.Option

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom corpus adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithConfigFile reads settings from the given file instead of <root>/regseek.yaml.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// WithArtifactsDir sets the corpus directory.
func WithArtifactsDir(dir string) Option {
	return platform.WithArtifactsDir(dir)
}

// WithOutput sets the dataset destination.
func WithOutput(path string) Option {
	return platform.WithOutput(path)
}

// WithPattern sets the discovery glob.
func WithPattern(pattern string) Option {
	return platform.WithPattern(pattern)
}

// WithVersioning enables or disables recording the git revision of the corpus.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithStrictHives turns hive prefix mismatches into errors.
func WithStrictHives(strict bool) Option {
	return platform.WithStrictHives(strict)
}

// WithPolicy replaces the validation policy.
func WithPolicy(p *policy.Policy) Option {
	return platform.WithPolicy(p)
}

// WithSerializer registers a serializer for an extension.
func WithSerializer(ext string, s fs.Serializer) Option {
	return platform.WithSerializer(ext, s)
}

// WithClock fixes the build timestamp source.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithDebounce sets the quiet period of the watch loop.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// --- Factory ---

// New wires the pipeline for the project rooted at root.
func New(root string, opts ...Option) (*App, error) {
	return platform.New(root, opts...)
}

// FindRoot looks upwards from startDir for a project root.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
