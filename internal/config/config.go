// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	// MapStyle is the remote style URL consumed by the map engine.
	MapStyle string `yaml:"map_style" validate:"required,url"`

	Geocoder Geocoder `yaml:"geocoder"`
	Radius   Radius   `yaml:"radius"`
	Camera   Camera   `yaml:"camera"`

	// Segments is the circle approximation resolution.
	Segments int `yaml:"segments,omitempty" validate:"gte=3"`
}

// Duration accepts Go duration strings ("10s", "1.5m") in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Geocoder configures the upstream postcode lookup service.
type Geocoder struct {
	Endpoint string   `yaml:"endpoint" validate:"required,url"`
	Country  string   `yaml:"country" validate:"required"`
	Timeout  Duration `yaml:"timeout,omitempty" validate:"gt=0"`
	CacheTTL Duration `yaml:"cache_ttl,omitempty" validate:"gte=0"`
}

// Radius bounds the user-selectable search radius in meters.
type Radius struct {
	Min     int `yaml:"min,omitempty" validate:"gt=0"`
	Max     int `yaml:"max,omitempty" validate:"gtefield=Min"`
	Step    int `yaml:"step,omitempty" validate:"gt=0"`
	Default int `yaml:"default,omitempty" validate:"gtefield=Min,ltefield=Max"`
}

// Camera configures the fly-to animation after a successful search.
type Camera struct {
	Zoom     float64  `yaml:"zoom,omitempty" validate:"gt=0"`
	Duration Duration `yaml:"duration,omitempty" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MapStyle: "https://tiles.openfreemap.org/styles/liberty",
		Geocoder: Geocoder{
			Endpoint: "https://geocode.maps.co/search",
			Country:  "United Kingdom",
			Timeout:  Duration(10 * time.Second),
			CacheTTL: Duration(10 * time.Minute),
		},
		Radius: Radius{
			Min:     100,
			Max:     5000,
			Step:    100,
			Default: 1000,
		},
		Camera: Camera{
			Zoom:     13,
			Duration: Duration(1500 * time.Millisecond),
		},
		Segments: 64,
	}
}

// Load reads and parses the YAML configuration file from the specified path,
// fills unset fields with defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults restores zero-valued fields that yaml.Unmarshal may have
// blanked when a section is present but partially filled.
func (c *Config) applyDefaults() {
	def := Default()

	if c.Geocoder.Timeout <= 0 {
		c.Geocoder.Timeout = def.Geocoder.Timeout
	}
	if c.Radius.Min <= 0 {
		c.Radius.Min = def.Radius.Min
	}
	if c.Radius.Max <= 0 {
		c.Radius.Max = def.Radius.Max
	}
	if c.Radius.Step <= 0 {
		c.Radius.Step = def.Radius.Step
	}
	if c.Radius.Default <= 0 {
		c.Radius.Default = def.Radius.Default
	}
	if c.Camera.Zoom <= 0 {
		c.Camera.Zoom = def.Camera.Zoom
	}
	if c.Camera.Duration <= 0 {
		c.Camera.Duration = def.Camera.Duration
	}
	if c.Segments < 3 {
		c.Segments = def.Segments
	}
}

// Validate checks structural invariants of the configuration.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
