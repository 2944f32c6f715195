package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// DefaultDir returns the per-user configuration directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// Load loads the configuration from the directory. A missing configuration
// file yields the defaults.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	return LoadFs(afero.NewBasePathFs(afero.NewOsFs(), path), path)
}

// LoadFs loads the configuration from the root of fs. dir is the OS path fs
// is rooted at, used for files opened outside of fs.
func LoadFs(fs afero.Fs, dir string) (*Configuration, error) {
	// Fields missing from the file keep their default values.
	out := defaultConfig()

	configContents, err := afero.ReadFile(fs, ConfigurationName)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Use the defaults.
	case err != nil:
		return nil, err
	default:
		if err := yaml.UnmarshalStrict(configContents, out); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", ConfigurationName, err)
		}
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}

	out.configFs = fs
	out.configurationDir = dir
	return out, nil
}
