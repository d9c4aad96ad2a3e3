package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	configFs afero.Fs

	Prompt          string  `json:"prompt" validate:"required"`
	Banner          bool    `json:"banner"`
	Color           string  `json:"color" validate:"oneof=always auto never"`
	HistoryFile     string  `json:"history_file" validate:"required"`
	Quoting         bool    `json:"quoting"`
	RepeatRateLimit float64 `json:"repeat_rate_limit" validate:"gte=0"`
	AppLog          string  `json:"app_log"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// HistoryStorage returns the filesystem and path of the history file.
func (c *Configuration) HistoryStorage() (afero.Fs, string) {
	if filepath.IsAbs(c.HistoryFile) {
		return afero.NewOsFs(), c.HistoryFile
	}
	return c.fs(), c.HistoryFile
}

// OpenAppLog opens the event log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(c.AppLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadAppLog opens the event log for reading.
func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(c.AppLog, os.O_RDONLY, 0600)
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) *Configuration {
	out := defaultConfig()
	out.configFs = dirFs(dir)
	return out
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

func dirFs(dir string) afero.Fs {
	// BasePathFs only accepts paths under an absolute base.
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return afero.NewBasePathFs(afero.NewOsFs(), dir)
}
