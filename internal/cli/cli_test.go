package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/ulancrm/internal/model"
)

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ulancrm", "config.yaml")

	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ULANCRM_")

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, *model.DefaultConfig(), cfg)

	err = writeDefaultConfig(path)
	assert.ErrorContains(t, err, "already exists")
}

func TestLoadConfig_Layers(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9999\"\nhttp:\n  max_attempts: 5\n"), 0644))

	orig := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = orig })

	t.Setenv("ULANCRM_HTTP_TIMEOUT", "30s")

	initConfig()
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr, "config file")
	assert.Equal(t, 5, cfg.HTTP.MaxAttempts, "config file")
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout, "environment")
	assert.Equal(t, 500, cfg.Cache.MaxRecords, "default")
	assert.Equal(t, 1000, cfg.Cache.MaxRaw, "default")
	assert.Equal(t, []string{"aat", "ulan", "tgn"}, cfg.Vocab.Prefixes, "default")
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "describe", "batch", "config", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
