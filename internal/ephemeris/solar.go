// Package ephemeris computes low-order apparent positions of the Sun and Moon
// in the local horizon frame.
//
// Angles are radians unless a name says otherwise. Azimuth is measured from
// local south, increasing clockwise (toward west). All functions are pure.
package ephemeris

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

const rad = math.Pi / 180

// Obliquity is the mean axial tilt of the Earth used for both bodies.
const Obliquity = 23.4397 * rad

// Position is a body's apparent direction in the local horizon frame.
type Position struct {
	Azimuth  float64 // from south, clockwise
	Altitude float64 // above the horizon plane
}

// SolarCoords holds the intermediate solar values for one instant.
// The lunar perturbation terms need MeanAnomaly and EclipticLongitude.
type SolarCoords struct {
	MeanAnomaly       float64
	EclipticLongitude float64
	Declination       float64
	RightAscension    float64
}

// DaysSinceJ2000 returns fractional days since 2000-01-01 12:00 UTC.
func DaysSinceJ2000(t time.Time) float64 {
	return julian.TimeToJD(t.UTC()) - base.J2000
}

// SunCoords evaluates the solar series at d days since J2000.
func SunCoords(d float64) SolarCoords {
	m := solarMeanAnomaly(d)
	l := eclipticLongitude(m)
	return SolarCoords{
		MeanAnomaly:       m,
		EclipticLongitude: l,
		Declination:       declination(l, 0),
		RightAscension:    rightAscension(l, 0),
	}
}

// Sun returns the Sun's position for an observer at lat/lon (degrees, east
// positive) together with the solar coordinates used to derive it.
func Sun(t time.Time, lat, lon float64) (Position, SolarCoords) {
	d := DaysSinceJ2000(t)
	sc := SunCoords(d)
	return horizontal(d, lat, lon, sc.RightAscension, sc.Declination), sc
}

func solarMeanAnomaly(d float64) float64 {
	return rad * (357.5291 + 0.98560028*d)
}

func eclipticLongitude(m float64) float64 {
	c := rad * (1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m))
	perihelion := rad * 102.9372
	return m + c + perihelion + math.Pi
}

// declination converts ecliptic longitude l and latitude b.
func declination(l, b float64) float64 {
	return math.Asin(math.Sin(b)*math.Cos(Obliquity) + math.Cos(b)*math.Sin(Obliquity)*math.Sin(l))
}

func rightAscension(l, b float64) float64 {
	return math.Atan2(math.Sin(l)*math.Cos(Obliquity)-math.Tan(b)*math.Sin(Obliquity), math.Cos(l))
}

// siderealTime takes lw, the longitude measured positive west, in radians.
func siderealTime(d, lw float64) float64 {
	return rad*(280.16+360.9856235*d) - lw
}

// horizontal maps equatorial coordinates to azimuth/altitude.
// lat and lon are degrees.
func horizontal(d, lat, lon, ra, dec float64) Position {
	phi := rad * lat
	lw := rad * -lon
	h := siderealTime(d, lw) - ra
	return Position{
		Azimuth:  azimuth(h, phi, dec),
		Altitude: altitude(h, phi, dec),
	}
}

func azimuth(h, phi, dec float64) float64 {
	return math.Atan2(math.Sin(h), math.Cos(h)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi))
}

func altitude(h, phi, dec float64) float64 {
	return math.Asin(math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(h))
}

// Degrees converts radians to degrees.
func Degrees(r float64) float64 { return r / rad }

// WrapPi wraps an angle into (-π, π].
func WrapPi(a float64) float64 {
	return math.Atan2(math.Sin(a), math.Cos(a))
}
