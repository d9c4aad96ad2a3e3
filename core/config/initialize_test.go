package config

import (
	"bytes"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	if _, err := Initialize(tempDir, log.New(io.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("LoadConfigFile", func(t *testing.T) {
		_, err := Load(filepath.Join(tempDir, ConfigurationName))
		assert.Nil(t, err)
	})

	t.Run("OpenAppLog", func(t *testing.T) {
		fd, err := cfg.OpenAppLog()
		assert.Nil(t, err)
		fd.Close()
	})

	t.Run("ReadAppLog", func(t *testing.T) {
		fd, err := cfg.ReadAppLog()
		assert.Nil(t, err)
		fd.Close()
	})
}

func TestInitialize_keepsExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fs, ConfigurationName, []byte("prompt: '> '\n"), 0600))

	logs := &bytes.Buffer{}
	cfg, err := initializeFs(fs, "/cfg", log.New(logs, "", 0))
	assert.Nil(t, err)
	assert.Equal(t, "> ", cfg.Prompt)
	assert.Contains(t, logs.String(), "already exists")
}

func TestLoadOrDefault(t *testing.T) {
	tempDir := t.TempDir()

	logs := &bytes.Buffer{}
	cfg, err := LoadOrDefault(tempDir, log.New(logs, "", 0))
	assert.Nil(t, err)
	assert.Equal(t, "# ", cfg.Prompt)
	assert.Contains(t, logs.String(), "using defaults")

	// The default configuration still resolves files under the directory.
	fd, err := cfg.OpenAppLog()
	assert.Nil(t, err)
	fd.Close()

	exists, err := afero.Exists(afero.NewOsFs(), filepath.Join(tempDir, "app.log"))
	assert.Nil(t, err)
	assert.True(t, exists)
}
