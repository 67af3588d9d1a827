package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ByLCY/clearcert/layout"
)

// Config represents the generator configuration
type Config struct {
	Page    PageConfig    `json:"page"`
	Images  ImageConfig   `json:"images"`
	Assets  AssetConfig   `json:"assets"`
	Logging LoggingConfig `json:"logging"`
}

// PageConfig is the page geometry in millimetres
type PageConfig struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MarginTop    float64 `json:"margin_top"`
	MarginRight  float64 `json:"margin_right"`
	MarginBottom float64 `json:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left"`
}

// ImageConfig controls how photographs are embedded
type ImageConfig struct {
	DPI     float64 `json:"dpi"`
	Quality float64 `json:"quality"`
}

// AssetConfig controls asset fetching
type AssetConfig struct {
	Timeout     Duration `json:"timeout"`
	BaseDir     string   `json:"base_dir"`
	S3Region    string   `json:"s3_region"`
	Parallelism int      `json:"parallelism"`
}

// LoggingConfig
type LoggingConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// Duration reads either a Go duration string ("20s") or a number of seconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		d.Duration = v
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", b)
	}
	d.Duration = time.Duration(secs * float64(time.Second))
	return nil
}

// Default returns the built-in configuration: A4, 150 DPI photographs at
// quality 0.8 and a 20 second asset timeout.
func Default() *Config {
	a4 := layout.A4()
	return &Config{
		Page: PageConfig{
			Width:        a4.Width,
			Height:       a4.Height,
			MarginTop:    a4.Margin.Top,
			MarginRight:  a4.Margin.Right,
			MarginBottom: a4.Margin.Bottom,
			MarginLeft:   a4.Margin.Left,
		},
		Images: ImageConfig{DPI: 150, Quality: 0.8},
		Assets: AssetConfig{
			Timeout:     Duration{20 * time.Second},
			Parallelism: 8,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from file and environment variables.
// A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := overrideWithEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func overrideWithEnv(config *Config) error {
	floats := []struct {
		key string
		dst *float64
	}{
		{"CLEARCERT_PAGE_WIDTH", &config.Page.Width},
		{"CLEARCERT_PAGE_HEIGHT", &config.Page.Height},
		{"CLEARCERT_MARGIN_TOP", &config.Page.MarginTop},
		{"CLEARCERT_MARGIN_RIGHT", &config.Page.MarginRight},
		{"CLEARCERT_MARGIN_BOTTOM", &config.Page.MarginBottom},
		{"CLEARCERT_MARGIN_LEFT", &config.Page.MarginLeft},
		{"CLEARCERT_IMAGE_DPI", &config.Images.DPI},
		{"CLEARCERT_IMAGE_QUALITY", &config.Images.Quality},
	}
	for _, f := range floats {
		v := os.Getenv(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = n
	}

	if v := os.Getenv("CLEARCERT_ASSET_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CLEARCERT_ASSET_TIMEOUT: %w", err)
		}
		config.Assets.Timeout = Duration{d}
	}
	if v := os.Getenv("CLEARCERT_ASSET_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CLEARCERT_ASSET_PARALLELISM: %w", err)
		}
		config.Assets.Parallelism = n
	}
	if v := os.Getenv("CLEARCERT_ASSET_BASE_DIR"); v != "" {
		config.Assets.BaseDir = v
	}
	if v := os.Getenv("CLEARCERT_S3_REGION"); v != "" {
		config.Assets.S3Region = v
	}
	if v := os.Getenv("CLEARCERT_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	return nil
}

// Validate rejects geometry and image settings the layout cannot use.
func (c *Config) Validate() error {
	p := c.Page
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("page size must be positive, got %gx%g", p.Width, p.Height)
	}
	if p.MarginLeft+p.MarginRight >= p.Width || p.MarginTop+p.MarginBottom >= p.Height {
		return fmt.Errorf("page margins leave no content area")
	}
	if c.Images.DPI <= 0 {
		return fmt.Errorf("image dpi must be positive, got %g", c.Images.DPI)
	}
	if c.Images.Quality <= 0 || c.Images.Quality > 1 {
		return fmt.Errorf("image quality must be in (0, 1], got %g", c.Images.Quality)
	}
	if c.Assets.Timeout.Duration <= 0 {
		return fmt.Errorf("asset timeout must be positive")
	}
	if _, err := zap.ParseAtomicLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging level: %w", err)
	}
	return nil
}

// PageSetup returns the layout page geometry.
func (c *Config) PageSetup() layout.PageSetup {
	return layout.PageSetup{
		Width:  c.Page.Width,
		Height: c.Page.Height,
		Margin: layout.Margin{
			Top:    c.Page.MarginTop,
			Right:  c.Page.MarginRight,
			Bottom: c.Page.MarginBottom,
			Left:   c.Page.MarginLeft,
		},
	}
}

// NewLogger builds a zap logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
