// Package weather maps weather presets and solar altitude to photometric
// lighting parameters.
package weather

import (
	"errors"
	"fmt"
	"strings"
)

// Preset is one of the supported weather categories.
type Preset int

const (
	Sunny Preset = iota
	PartlyCloudy
	Overcast
)

// ErrUnknownPreset is returned when a preset name is not recognized.
var ErrUnknownPreset = errors.New("unknown weather preset")

// Presets lists every preset in cycling order.
var Presets = []Preset{Sunny, PartlyCloudy, Overcast}

var presetNames = map[Preset]string{
	Sunny:        "sunny",
	PartlyCloudy: "partly-cloudy",
	Overcast:     "overcast",
}

// String returns the config name of the preset.
func (p Preset) String() string {
	if name, ok := presetNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Preset(%d)", int(p))
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	_, ok := presetNames[p]
	return ok
}

// Next returns the following preset, wrapping around.
func (p Preset) Next() Preset {
	for i, q := range Presets {
		if q == p {
			return Presets[(i+1)%len(Presets)]
		}
	}
	return Sunny
}

// Parse converts a config name to a Preset. Matching ignores case, and
// "partly_cloudy" / "partlycloudy" are accepted for partly-cloudy.
func Parse(s string) (Preset, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "_", "-")
	switch key {
	case "sunny", "clear":
		return Sunny, nil
	case "partly-cloudy", "partlycloudy", "cloudy":
		return PartlyCloudy, nil
	case "overcast":
		return Overcast, nil
	}
	return Sunny, fmt.Errorf("%w: %q", ErrUnknownPreset, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Preset) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPreset, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Preset) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Color is a linear RGB triple in [0, 1].
type Color struct {
	R, G, B float64
}

// Lerp interpolates from c toward o by t.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + t*(o.R-c.R),
		G: c.G + t*(o.G-c.G),
		B: c.B + t*(o.B-c.B),
	}
}

// Table is the base photometry of a preset at full daylight.
type Table struct {
	SunIntensity     float64
	SunColor         Color
	AmbientIntensity float64
	AmbientColor     Color
	SkyIntensity     float64 // hemisphere light
	SkyColor         Color
	GroundColor      Color
	ShadowBias       float64

	// MoonFactor scales moonlight through cloud cover.
	MoonFactor float64
}

var tables = map[Preset]Table{
	Sunny: {
		SunIntensity:     3.0,
		SunColor:         Color{1.00, 0.96, 0.88},
		AmbientIntensity: 0.35,
		AmbientColor:     Color{0.62, 0.70, 0.85},
		SkyIntensity:     0.60,
		SkyColor:         Color{0.53, 0.75, 1.00},
		GroundColor:      Color{0.42, 0.36, 0.28},
		ShadowBias:       -0.0005,
		MoonFactor:       1.0,
	},
	PartlyCloudy: {
		SunIntensity:     2.0,
		SunColor:         Color{0.98, 0.95, 0.90},
		AmbientIntensity: 0.45,
		AmbientColor:     Color{0.66, 0.70, 0.78},
		SkyIntensity:     0.55,
		SkyColor:         Color{0.62, 0.72, 0.86},
		GroundColor:      Color{0.40, 0.37, 0.32},
		ShadowBias:       -0.0008,
		MoonFactor:       0.7,
	},
	Overcast: {
		SunIntensity:     0.8,
		SunColor:         Color{0.85, 0.87, 0.90},
		AmbientIntensity: 0.60,
		AmbientColor:     Color{0.72, 0.74, 0.77},
		SkyIntensity:     0.50,
		SkyColor:         Color{0.70, 0.72, 0.75},
		GroundColor:      Color{0.36, 0.35, 0.34},
		ShadowBias:       -0.0015,
		MoonFactor:       0.3,
	},
}

// twilight is the palette every preset fades toward below the horizon.
var twilight = struct {
	Sun, Ambient, Sky, Ground Color
}{
	Sun:     Color{1.00, 0.50, 0.30},
	Ambient: Color{0.25, 0.27, 0.45},
	Sky:     Color{0.18, 0.20, 0.40},
	Ground:  Color{0.10, 0.08, 0.12},
}

// TableFor returns the base table of p. Unknown presets fall back to Sunny.
func TableFor(p Preset) Table {
	if t, ok := tables[p]; ok {
		return t
	}
	return tables[Sunny]
}
