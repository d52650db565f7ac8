// Package config loads viewer settings from YAML with environment overrides.
//
// The comparison table and the forecast-year rules are hardcoded reference values
// carried over from the prediction service's dataset. They are configuration, not
// data derived from any response.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Country is one supported reference country.
type Country struct {
	Name string `yaml:"name"`
	ISO  string `yaml:"iso"`
}

// ReferenceValue is one bar of the static comparison chart.
type ReferenceValue struct {
	Country string  `yaml:"country"`
	Value   float64 `yaml:"value"`
	Color   string  `yaml:"color"`
}

// Comparison is the static reference-year table drawn in the comparison chart.
// It does not change when a different country's prediction is fetched.
type Comparison struct {
	Year    int              `yaml:"year"`
	Note    string           `yaml:"note"`
	Entries []ReferenceValue `yaml:"entries"`
}

// ForecastConfig controls how a missing predicted year is resolved.
type ForecastConfig struct {
	HorizonYears int `yaml:"horizon_years"`
	FallbackYear int `yaml:"fallback_year"`
}

type ChartsConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type GeoIPConfig struct {
	Enabled bool     `yaml:"enabled"`
	Paths   []string `yaml:"paths"`
	EchoURL string   `yaml:"echo_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full viewer configuration.
type Config struct {
	APIBase string `yaml:"api_base"`
	// RequestTimeout of 0 leaves requests unbounded.
	RequestTimeout time.Duration  `yaml:"request_timeout"`
	Unit           string         `yaml:"unit"`
	Forecast       ForecastConfig `yaml:"forecast"`
	Countries      []Country      `yaml:"countries"`
	Comparison     Comparison     `yaml:"comparison"`
	Charts         ChartsConfig   `yaml:"charts"`
	GeoIP          GeoIPConfig    `yaml:"geoip"`
	Log            LogConfig      `yaml:"log"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() *Config {
	return &Config{
		APIBase: "http://127.0.0.1:8000",
		Unit:    "metric tons",
		Forecast: ForecastConfig{
			HorizonYears: 10,
			FallbackYear: 2030,
		},
		Countries: []Country{
			{Name: "Kenya", ISO: "KE"},
			{Name: "Nigeria", ISO: "NG"},
			{Name: "South Africa", ISO: "ZA"},
			{Name: "Egypt", ISO: "EG"},
			{Name: "Ethiopia", ISO: "ET"},
			{Name: "Ghana", ISO: "GH"},
		},
		Comparison: Comparison{
			Year: 2020,
			Note: "static reference values from the training dataset",
			Entries: []ReferenceValue{
				{Country: "Kenya", Value: 0.42, Color: "#66c2a5"},
				{Country: "Nigeria", Value: 0.94, Color: "#fc8d62"},
				{Country: "South Africa", Value: 9.50, Color: "#8da0cb"},
				{Country: "Egypt", Value: 2.78, Color: "#e78ac3"},
				{Country: "Ethiopia", Value: 0.26, Color: "#a6d854"},
				{Country: "Ghana", Value: 0.49, Color: "#ffd92f"},
			},
		},
		Charts: ChartsConfig{Width: 1100, Height: 360},
		GeoIP: GeoIPConfig{
			Paths: []string{
				"/usr/share/GeoIP/GeoLite2-Country.mmdb",
				"/usr/local/share/GeoIP/GeoLite2-Country.mmdb",
			},
			EchoURL: "https://api.ipify.org",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := strings.TrimSpace(os.Getenv("CO2_API_BASE")); v != "" {
		c.APIBase = v
	}
	if v := strings.TrimSpace(os.Getenv("CO2_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("CO2_REQUEST_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CO2_REQUEST_TIMEOUT %q: %w", v, err)
		}
		c.RequestTimeout = d
	}
	return nil
}

// Validate rejects configurations the pipeline cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBase)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_base %q", c.APIBase)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if c.Forecast.HorizonYears < 0 {
		return fmt.Errorf("forecast.horizon_years must not be negative")
	}
	if len(c.Countries) == 0 {
		return errors.New("at least one reference country is required")
	}
	seen := map[string]bool{}
	for _, ct := range c.Countries {
		name := strings.TrimSpace(ct.Name)
		if name == "" {
			return errors.New("reference country with empty name")
		}
		if seen[name] {
			return fmt.Errorf("duplicate reference country %q", name)
		}
		seen[name] = true
	}
	return nil
}

// CountryNames returns the reference country names in configured order.
func (c *Config) CountryNames() []string {
	out := make([]string, 0, len(c.Countries))
	for _, ct := range c.Countries {
		out = append(out, ct.Name)
	}
	return out
}

// CountryForISO maps an ISO 3166 alpha-2 code to a reference country name.
func (c *Config) CountryForISO(iso string) (string, bool) {
	iso = strings.ToUpper(strings.TrimSpace(iso))
	if iso == "" {
		return "", false
	}
	for _, ct := range c.Countries {
		if strings.EqualFold(ct.ISO, iso) {
			return ct.Name, true
		}
	}
	return "", false
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
