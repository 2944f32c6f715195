package config

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir unless one already
// exists, then loads it.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)
	if err := InitializeFs(fs, logger); err != nil {
		return nil, err
	}

	return LoadFs(fs, dir)
}

// InitializeFs writes the default configuration to the root of fs.
func InitializeFs(fs afero.Fs, logger *log.Logger) error {
	_, err := fs.Stat(ConfigurationName)
	switch {
	case err == nil:
		logger.Printf("%s already exists, skipping", ConfigurationName)
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	logger.Printf("writing %s", ConfigurationName)
	return afero.WriteFile(fs, ConfigurationName, defaultConfigData, 0600)
}
