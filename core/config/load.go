package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	return loadFs(dirFs(path))
}

func loadFs(configFs afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	out := defaultConfig()
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}

	out.configFs = configFs
	return out, nil
}

// LoadOrDefault loads the configuration from the directory, falling back to
// the built-in defaults if there isn't one.
func LoadOrDefault(path string, logger *log.Logger) (*Configuration, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Printf("No %s in %q, using defaults. Run init to create one.", ConfigurationName, path)
		if filepath.Base(path) == ConfigurationName {
			path = filepath.Dir(path)
		}
		return Default(path), nil
	}
	return cfg, err
}

// Initialize writes the default configuration to dir if it doesn't already
// have one and returns the loaded result.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	return initializeFs(dirFs(dir), dir, logger)
}

func initializeFs(configFs afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	exists, err := afero.Exists(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	if exists {
		logger.Printf("%s already exists in %q, leaving it unchanged", ConfigurationName, dir)
	} else {
		if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600); err != nil {
			return nil, err
		}
		logger.Printf("Wrote %s", filepath.Join(dir, ConfigurationName))
	}

	return loadFs(configFs)
}
