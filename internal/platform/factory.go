package platform

import (
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"

	"github.com/aretw0/regseek/pkg/adapters/fs"
	"github.com/aretw0/regseek/pkg/aggregate"
	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/policy"
	"github.com/aretw0/regseek/pkg/rules"
)

// App is the wired pipeline: the service plus the components commands report on.
type App struct {
	Service    *core.Service
	Repository core.Repository
	Engine     *rules.Engine
	Policy     *policy.Policy
	Root       string
	Output     string
}

// New wires a service for the project rooted at root.
// Precedence for every setting is: option, then config file, then default.
//
//	app, err := regseek.New(".", regseek.WithStrictHives(true))
func New(root string, opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	configFile, required := o.configFile, o.configFile != ""
	if !required {
		configFile = filepath.Join(root, ConfigFileName)
	}
	cfg, err := LoadConfig(configFile, required)
	if err != nil {
		return nil, err
	}

	var pol *policy.Policy
	if o.policy != nil {
		cp := *o.policy
		pol = &cp
	} else {
		pol = policy.Default()
		pol.Apply(cfg.Policy)
	}
	if o.strictHives != nil {
		pol.HivePrefixStrict = *o.strictHives
	}
	if err := pol.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		Policy: pol,
		Root:   root,
		Output: resolve(root, pick(o.output, cfg.Output, DefaultOutput)),
		Engine: rules.NewEngine(pol, rules.WithLogger(logger)),
	}

	app.Repository = o.repository
	if app.Repository == nil {
		versioning := true
		if cfg.Versioning != nil {
			versioning = *cfg.Versioning
		}
		if o.versioning != nil {
			versioning = *o.versioning
		}

		var serializers map[string]fs.Serializer
		if len(o.serializers) > 0 {
			serializers = fs.DefaultSerializers()
			maps.Copy(serializers, o.serializers)
		}

		app.Repository = fs.NewRepository(fs.Config{
			Root:        resolve(root, pick(o.artifactsDir, cfg.ArtifactsDir, DefaultArtifactsDir)),
			Pattern:     pick(o.pattern, cfg.Pattern, fs.DefaultPattern),
			Output:      app.Output,
			Versioning:  versioning,
			Debounce:    o.debounce,
			Logger:      logger,
			Serializers: serializers,
		})
	}

	aggOpts := []aggregate.Option{aggregate.WithLogger(logger)}
	if o.clock != nil {
		aggOpts = append(aggOpts, aggregate.WithClock(o.clock))
	}
	app.Service = core.NewService(app.Repository, app.Engine, aggregate.New(app.Engine, aggOpts...), logger)

	logger.Debug("pipeline wired",
		"root", root,
		"config", configFile,
		"output", app.Output,
		"strict_hives", pol.HivePrefixStrict,
		"repository", fmt.Sprintf("%T", app.Repository),
	)
	return app, nil
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(p))
}
