package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot recursively looks upwards for a project root indicator.
// Indicators are: regseek.yaml file, .git directory, or an artifacts directory.
// If found, returns the absolute path to the root.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ConfigFileName) || hasFile(dir, ".git") || hasDir(dir, DefaultArtifactsDir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found from %s", abs)
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}

func hasDir(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}
