package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, 210.0, cfg.Page.Width)
	assert.Equal(t, 297.0, cfg.Page.Height)
	assert.Equal(t, 150.0, cfg.Images.DPI)
	assert.Equal(t, 0.8, cfg.Images.Quality)
	assert.Equal(t, 20*time.Second, cfg.Assets.Timeout.Duration)
	assert.Equal(t, "info", cfg.Logging.Level)

	setup := cfg.PageSetup()
	assert.Equal(t, 18.0, setup.Margin.Left)
	assert.Equal(t, 12.0, setup.Margin.Top)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `{
		"page": {"width": 216, "height": 279, "margin_top": 15, "margin_right": 15, "margin_bottom": 15, "margin_left": 15},
		"images": {"dpi": 200, "quality": 0.9},
		"assets": {"timeout": "5s", "base_dir": "/srv/photos"},
		"logging": {"level": "debug"}
	}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 216.0, cfg.Page.Width)
	assert.Equal(t, 200.0, cfg.Images.DPI)
	assert.Equal(t, 5*time.Second, cfg.Assets.Timeout.Duration)
	assert.Equal(t, "/srv/photos", cfg.Assets.BaseDir)
	// untouched fields keep their defaults
	assert.Equal(t, 8, cfg.Assets.Parallelism)
}

func TestDurationAcceptsSeconds(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"assets": {"timeout": 2.5}}`))
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, cfg.Assets.Timeout.Duration)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"images": {"dpi": 200}}`)
	t.Setenv("CLEARCERT_IMAGE_DPI", "96")
	t.Setenv("CLEARCERT_ASSET_TIMEOUT", "45s")
	t.Setenv("CLEARCERT_S3_REGION", "ap-southeast-2")
	t.Setenv("CLEARCERT_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 96.0, cfg.Images.DPI)
	assert.Equal(t, 45*time.Second, cfg.Assets.Timeout.Duration)
	assert.Equal(t, "ap-southeast-2", cfg.Assets.S3Region)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"page": `))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `{"images": {"quality": 1.5}}`))
	assert.ErrorContains(t, err, "quality")

	_, err = LoadConfig(writeConfig(t, `{"page": {"width": 30, "height": 297, "margin_left": 20, "margin_right": 20, "margin_top": 10, "margin_bottom": 10}}`))
	assert.ErrorContains(t, err, "margins")

	_, err = LoadConfig(writeConfig(t, `{"logging": {"level": "chatty"}}`))
	assert.Error(t, err)

	t.Setenv("CLEARCERT_IMAGE_DPI", "lots")
	_, err = LoadConfig("")
	assert.ErrorContains(t, err, "CLEARCERT_IMAGE_DPI")
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "debug"
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))
}
