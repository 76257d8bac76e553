package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/regseek/pkg/policy"
)

// ConfigFileName is the project configuration file looked up at the root.
const ConfigFileName = "regseek.yaml"

// Defaults applied when neither options nor the config file set a value.
const (
	DefaultArtifactsDir = "artifacts"
	DefaultOutput       = "site/build/artifacts.json"
)

// Config is the on-disk project configuration.
type Config struct {
	ArtifactsDir string          `yaml:"artifacts_dir"`
	Output       string          `yaml:"output"`
	Pattern      string          `yaml:"pattern"`
	Versioning   *bool           `yaml:"versioning"`
	Policy       policy.Override `yaml:"policy"`
}

// LoadConfig reads a config file. A missing file yields an empty Config
// unless required is set.
func LoadConfig(path string, required bool) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
