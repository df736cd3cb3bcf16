package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "agenda.yaml"))
	require.NoError(t, err, "a missing config file should yield defaults")
	assert.Equal(t, DefaultConfig(), config, "should equal the default config")
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenda.yaml")
	content := `
storage: sqlite
log:
  console_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "should write fixture")
	config, err := LoadConfig(path)
	require.NoError(t, err, "should not fail")
	assert.Equal(t, StorageSQLite, config.Storage, "should apply the set storage backend")
	assert.Equal(t, "debug", config.Log.ConsoleLevel, "should apply the set log level")
	defaults := DefaultConfig()
	assert.Equal(t, defaults.DatabaseFile, config.DatabaseFile, "unset values should default")
	assert.Equal(t, defaults.ReportLog, config.ReportLog, "unset values should default")
	assert.Equal(t, defaults.Log.MaxSize, config.Log.MaxSize, "unset values should default")
}

func TestLoadConfigBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenda.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n-"), 0o644), "should write fixture")
	_, err := LoadConfig(path)
	assert.Error(t, err, "broken yaml should fail")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(config *Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(config *Config) {},
		},
		{
			name: "unknown storage backend",
			mutate: func(config *Config) {
				config.Storage = "cloud"
			},
			wantErr: true,
		},
		{
			name: "unknown console level",
			mutate: func(config *Config) {
				config.Log.ConsoleLevel = "loud"
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := ValidateConfig(config)
			if tt.wantErr {
				assert.Error(t, err, "should fail")
				return
			}
			assert.NoError(t, err, "should not fail")
		})
	}
}
