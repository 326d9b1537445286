// Package config loads the viewer settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/fieldscope/engine/core"
)

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Log         LogConfig         `toml:"log"`
	Display     DisplayConfig     `toml:"display"`
}

type ApplicationConfig struct {
	Name        string `toml:"name"`
	StartPosX   uint32 `toml:"start_pos_x"`
	StartPosY   uint32 `toml:"start_pos_y"`
	StartWidth  uint32 `toml:"start_width"`
	StartHeight uint32 `toml:"start_height"`
	// Scene picks the demo surface: "torus" or "grid".
	Scene string `toml:"scene"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DisplayConfig holds the defaults new quantities start from. Multipliers are
// relative to the scene length scale.
type DisplayConfig struct {
	LengthMult     float32 `toml:"length_mult"`
	RadiusMult     float32 `toml:"radius_mult"`
	RibbonMaxLines int     `toml:"ribbon_max_lines"`
	RibbonMaxSteps int     `toml:"ribbon_max_steps"`
	RibbonWidth    float32 `toml:"ribbon_width"`
}

func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:        "fieldscope",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			Scene:       "torus",
		},
		Log: LogConfig{
			Level: "info",
		},
		Display: DefaultDisplay(),
	}
}

func DefaultDisplay() DisplayConfig {
	return DisplayConfig{
		LengthMult:     0.02,
		RadiusMult:     0.0005,
		RibbonMaxLines: 2500,
		RibbonMaxSteps: 400,
		RibbonWidth:    0.002,
	}
}

// Load reads path on top of the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", core.ErrInvalidConfig, strict.String())
		}
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Application.StartWidth == 0 || c.Application.StartHeight == 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Application.StartWidth, c.Application.StartHeight))
	}
	switch c.Application.Scene {
	case "torus", "grid":
	default:
		errs = append(errs, fmt.Errorf("unknown scene %q", c.Application.Scene))
	}
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log level: %v", err))
	}
	d := c.Display
	if d.LengthMult < 0 {
		errs = append(errs, fmt.Errorf("length_mult %g is negative", d.LengthMult))
	}
	if d.RadiusMult < 0 {
		errs = append(errs, fmt.Errorf("radius_mult %g is negative", d.RadiusMult))
	}
	if d.RibbonMaxLines < 0 {
		errs = append(errs, fmt.Errorf("ribbon_max_lines %d is negative", d.RibbonMaxLines))
	}
	if d.RibbonMaxSteps <= 0 {
		errs = append(errs, fmt.Errorf("ribbon_max_steps must be positive, got %d", d.RibbonMaxSteps))
	}
	if d.RibbonWidth < 0 {
		errs = append(errs, fmt.Errorf("ribbon_width %g is negative", d.RibbonWidth))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", core.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
