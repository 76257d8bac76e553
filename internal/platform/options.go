package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/regseek/pkg/adapters/fs"
	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
)

// options holds the internal configuration for the RegSeek service.
// Pointer and zero values mean "not set": the config file or the defaults decide.
type options struct {
	repository   core.Repository
	logger       *slog.Logger
	configFile   string
	artifactsDir string
	output       string
	pattern      string
	versioning   *bool
	strictHives  *bool
	policy       *policy.Policy
	serializers  map[string]fs.Serializer
	clock        func() time.Time
	debounce     time.Duration
}

// Option defines a functional option for configuring RegSeek.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		serializers: make(map[string]fs.Serializer),
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom corpus adapter (e.g. a mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithConfigFile reads settings from the given file instead of <root>/regseek.yaml.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFile = path
	}
}

// WithArtifactsDir sets the corpus directory, relative to the project root unless absolute.
func WithArtifactsDir(dir string) Option {
	return func(o *options) {
		o.artifactsDir = dir
	}
}

// WithOutput sets the dataset destination. The extension selects the format.
func WithOutput(path string) Option {
	return func(o *options) {
		o.output = path
	}
}

// WithPattern sets the discovery glob, relative to the corpus directory.
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.pattern = pattern
	}
}

// WithVersioning enables or disables recording the git revision of the corpus.
// By default, versioning is enabled when the corpus is under git.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.versioning = &enabled
	}
}

// WithStrictHives turns hive prefix mismatches into errors.
func WithStrictHives(strict bool) Option {
	return func(o *options) {
		o.strictHives = &strict
	}
}

// WithPolicy replaces the validation policy entirely, ignoring the config file's policy block.
func WithPolicy(p *policy.Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithSerializer registers a serializer for a document or dataset extension.
func WithSerializer(ext string, s fs.Serializer) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}

// WithClock fixes the build timestamp source (useful for reproducible builds and tests).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithDebounce sets the quiet period of the watch loop.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}
