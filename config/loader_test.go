package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mehsifai.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.mehsif.ai/v1", cfg.API.BaseURL)
	assert.Equal(t, 600*time.Second, cfg.API.Timeout)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfigFile(t, `
api:
  api_key: test-key
  base_url: https://staging.mehsif.ai/v1
  timeout: 90s
scratch:
  scratch_dir: /tmp/mehsifai
  keep_files: true
pipeline:
  workers: 2
  queue_size: 8
log:
  level: debug
  format: console
telemetry:
  enabled: true
  otlp_endpoint: collector:4317
  sample_rate: 0.25
`)

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.API.APIKey)
	assert.Equal(t, "https://staging.mehsif.ai/v1", cfg.API.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/tmp/mehsifai", cfg.Scratch.ScratchDir)
	assert.True(t, cfg.Scratch.KeepFiles)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, 8, cfg.Pipeline.QueueSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "collector:4317", cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, 0.25, cfg.Telemetry.SampleRate)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.mehsif.ai/v1", cfg.API.BaseURL)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "api: [not, a, mapping")
	_, err := NewLoader().WithConfigPath(path).Load()
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
api:
  api_key: from-file
  timeout: 90s
`)
	t.Setenv("MEHSIFAI_API_KEY", "from-env")
	t.Setenv("MEHSIFAI_API_TIMEOUT", "30s")
	t.Setenv("MEHSIFAI_SCRATCH_KEEP_FILES", "true")
	t.Setenv("MEHSIFAI_PIPELINE_WORKERS", "9")
	t.Setenv("MEHSIFAI_TELEMETRY_SAMPLE_RATE", "0.5")
	t.Setenv("MEHSIFAI_LOG_OUTPUT_PATHS", "stdout, /var/log/mehsifai.log")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.API.APIKey)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.Scratch.KeepFiles)
	assert.Equal(t, 9, cfg.Pipeline.Workers)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRate)
	assert.Equal(t, []string{"stdout", "/var/log/mehsifai.log"}, cfg.Log.OutputPaths)
}

func TestLoad_CustomEnvPrefix(t *testing.T) {
	t.Setenv("M3D_API_KEY", "prefixed")
	cfg, err := NewLoader().WithEnvPrefix("M3D").Load()
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.API.APIKey)
}

func TestLoad_ValidatorRejects(t *testing.T) {
	path := writeConfigFile(t, `
telemetry:
  sample_rate: 3.5
`)
	_, err := NewLoader().WithConfigPath(path).WithValidator((*Config).Validate).Load()
	assert.Error(t, err)
}

func TestLogConfig_Build(t *testing.T) {
	logger, err := LogConfig{Level: "debug", Format: "console"}.Build()
	require.NoError(t, err)
	logger.Debug("built")

	_, err = LogConfig{Level: "loud"}.Build()
	assert.Error(t, err)
}
