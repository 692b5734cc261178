package lighting

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/skylight/internal/weather"
)

// Color is a linear RGB triple.
type Color = weather.Color

// Location is an observer position in degrees, east and north positive.
type Location struct {
	Latitude  float64
	Longitude float64
}

// NewLocation clamps latitude to [-90, 90] and wraps longitude into
// (-180, 180].
func NewLocation(lat, lon float64) Location {
	return Location{Latitude: ClampLatitude(lat), Longitude: NormalizeLongitude(lon)}
}

// ClampLatitude clamps to [-90, 90]. NaN passes through.
func ClampLatitude(lat float64) float64 {
	if lat < -90 {
		return -90
	}
	if lat > 90 {
		return 90
	}
	return lat
}

// NormalizeLongitude wraps into (-180, 180]. NaN passes through.
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon <= -180 {
		lon += 360
	} else if lon > 180 {
		lon -= 360
	}
	return lon
}

// Body is the projected position of the sun or moon.
type Body struct {
	Azimuth   float64 // radians from south, clockwise
	Altitude  float64 // radians
	Direction r3.Vec  // unit vector toward the body
	Placement r3.Vec  // Direction scaled by the light distance
}

// NewBody projects an azimuth/altitude pair.
func NewBody(azimuth, altitude, distance float64) Body {
	return Body{
		Azimuth:   azimuth,
		Altitude:  altitude,
		Direction: Direction(azimuth, altitude),
		Placement: Placement(azimuth, altitude, distance),
	}
}

// AltitudeDegrees returns the altitude in degrees.
func (b Body) AltitudeDegrees() float64 { return b.Altitude * 180 / math.Pi }

// Bearing returns the compass bearing in degrees from north.
func (b Body) Bearing() float64 { return Bearing(b.Azimuth) }

// MoonPhase describes the lunar phase at the snapshot instant.
type MoonPhase struct {
	Angle        float64 // Sun-Moon-Earth angle, radians in [0, π]
	Elongation   float64 // signed, radians, positive while waxing
	Illumination float64 // lit fraction in [0, 1]
	Waxing       bool
	Name         string
}

// Helpers are debug visualization toggles passed through to hosts.
type Helpers struct {
	Sun  bool `yaml:"sun"`
	Moon bool `yaml:"moon"`
}

// State is one complete lighting snapshot. A new State is built on every
// recompute; hosts receive it by value and must not expect it to change.
type State struct {
	Sequence uint64
	Instant  time.Time
	Location Location
	Weather  weather.Preset

	Sun   Body
	Moon  *Body // nil when the moon is disabled
	Phase MoonPhase

	weather.Photometry
	MoonIntensity float64

	SunVisible  bool
	MoonVisible bool

	Helpers Helpers
}

// Clone returns a copy that shares no pointers with s.
func (s State) Clone() State {
	if s.Moon != nil {
		m := *s.Moon
		s.Moon = &m
	}
	return s
}
