package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model.Name)
	assert.Equal(t, 0.7, cfg.Model.Temperature)
	assert.Equal(t, 0.95, cfg.Model.TopP)
	assert.Equal(t, 3, cfg.Model.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Model.Timeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Debug)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SMARTTRAVEL_MODEL_NAME", "gemini-1.5-flash")
	t.Setenv("SMARTTRAVEL_PORT", "9090")
	t.Setenv("SMARTTRAVEL_PLANNER", "catalog")
	t.Setenv("DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Keys.Gemini)
	assert.Equal(t, "gemini-1.5-flash", cfg.Model.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "catalog", cfg.Server.Planner)
	assert.True(t, cfg.Debug)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	dir := t.TempDir()
	path := filepath.Join(dir, "smarttravel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model:
  provider: gemini
  name: gemini-1.5-flash
  temperature: 0.4
server:
  port: 3000
logging:
  level: debug
  format: json
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-flash", cfg.Model.Name)
	assert.Equal(t, 0.4, cfg.Model.Temperature)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_DotenvDoesNotClobberEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-environment")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_API_KEY=from-dotenv\n"), 0o600))

	path := filepath.Join(dir, "smarttravel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model:\n  provider: gemini\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-environment", cfg.Keys.Gemini)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_NoProviderKeyRequired(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	// Loading succeeds without a credential so catalog-only planning works;
	// the key check fires only when a model is actually built.
	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.ValidateModel()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestValidateModel_MockProviderNeedsNoKey(t *testing.T) {
	cfg := Default()
	cfg.Model.Provider = "mock"

	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateModel())
}

func TestValidate_Planner(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "concierge", cfg.Server.Planner)
	assert.NoError(t, cfg.Validate())

	cfg.Server.Planner = "catalog"
	assert.NoError(t, cfg.Validate())

	cfg.Server.Planner = "oracle"
	assert.ErrorContains(t, cfg.Validate(), "unknown planner")
}

func TestValidate_Bounds(t *testing.T) {
	cfg := Default()
	cfg.Model.Provider = "mock"

	cfg.Model.Temperature = 2.5
	assert.ErrorContains(t, cfg.Validate(), "temperature")

	cfg = Default()
	cfg.Model.Provider = "mock"
	cfg.Model.TopP = 1.5
	assert.ErrorContains(t, cfg.Validate(), "top_p")

	cfg = Default()
	cfg.Model.Provider = "mock"
	cfg.Server.Port = 0
	assert.ErrorContains(t, cfg.Validate(), "port")

	cfg = Default()
	cfg.Model.Provider = "nonsense"
	assert.ErrorContains(t, cfg.Validate(), "unknown model provider")
}
