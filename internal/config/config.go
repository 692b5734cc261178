// Package config handles skylight configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/Faultbox/skylight/internal/ephemeris"
	"github.com/Faultbox/skylight/internal/lighting"
	"github.com/Faultbox/skylight/internal/sky"
	"github.com/Faultbox/skylight/internal/weather"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Sky      SkyConfig      `yaml:"sky"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SkyConfig holds observer, time and weather settings.
type SkyConfig struct {
	Latitude       float64        `yaml:"latitude"`
	Longitude      float64        `yaml:"longitude"`
	DayOfYear      int            `yaml:"day_of_year"`
	TimeOfDay      float64        `yaml:"time_of_day"`
	TimeZoneOffset int            `yaml:"timezone_offset_minutes"`
	ReferenceYear  int            `yaml:"reference_year"` // 0 = current year
	UseSystemTime  bool           `yaml:"use_system_time"`
	Weather        weather.Preset `yaml:"weather"`
	LightDistance  float64        `yaml:"light_distance"`

	Moon    MoonConfig       `yaml:"moon"`
	Helpers lighting.Helpers `yaml:"helpers"`
}

// MoonConfig holds moon light settings.
type MoonConfig struct {
	Enabled         bool    `yaml:"enabled"`
	MinIllumination float64 `yaml:"min_illumination"`

	// EquationOfCentre selects the longer lunar longitude series.
	EquationOfCentre bool `yaml:"equation_of_centre"`
}

// GraphicsConfig holds display settings for the GL viewer.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := sky.DefaultOptions()
	return &Config{
		Sky: SkyConfig{
			Latitude:      opts.Latitude,
			Longitude:     opts.Longitude,
			DayOfYear:     opts.DayOfYear,
			TimeOfDay:     opts.TimeOfDay,
			Weather:       opts.Weather,
			LightDistance: opts.LightDistance,
			Moon: MoonConfig{
				Enabled:          opts.MoonEnabled,
				MinIllumination:  opts.MinMoonIllumination,
				EquationOfCentre: opts.LunarSeries == ephemeris.CentreSeries,
			},
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting the engine cannot start with.
// Latitude, longitude, day and time are clamped by the engine instead.
func (c *Config) Validate() error {
	s := &c.Sky
	switch {
	case !s.Weather.Valid():
		return fmt.Errorf("%w: sky.weather: %w", ErrInvalid, weather.ErrUnknownPreset)
	case !finite(s.Latitude) || !finite(s.Longitude):
		return fmt.Errorf("%w: sky location must be finite", ErrInvalid)
	case !finite(s.TimeOfDay):
		return fmt.Errorf("%w: sky.time_of_day must be finite", ErrInvalid)
	case !(s.LightDistance > 0):
		return fmt.Errorf("%w: sky.light_distance must be positive, got %v", ErrInvalid, s.LightDistance)
	case s.Moon.MinIllumination < 0 || s.Moon.MinIllumination > 1:
		return fmt.Errorf("%w: sky.moon.min_illumination must be in [0, 1], got %v", ErrInvalid, s.Moon.MinIllumination)
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: graphics size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}
	return nil
}

// Options converts the sky settings into engine options.
func (s *SkyConfig) Options() sky.Options {
	series := ephemeris.ShortSeries
	if s.Moon.EquationOfCentre {
		series = ephemeris.CentreSeries
	}
	return sky.Options{
		Latitude:            s.Latitude,
		Longitude:           s.Longitude,
		DayOfYear:           s.DayOfYear,
		TimeOfDay:           s.TimeOfDay,
		TimeZoneOffset:      s.TimeZoneOffset,
		ReferenceYear:       s.ReferenceYear,
		UseSystemTime:       s.UseSystemTime,
		Weather:             s.Weather,
		LightDistance:       s.LightDistance,
		MoonEnabled:         s.Moon.Enabled,
		MinMoonIllumination: s.Moon.MinIllumination,
		LunarSeries:         series,
		Helpers:             s.Helpers,
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
