package ephemeris

import (
	"math"
	"time"
)

// Series selects the periodic terms added to the Moon's mean longitude.
type Series int

const (
	// ShortSeries adds evection, variation and the annual equation.
	ShortSeries Series = iota

	// CentreSeries also adds the equation of centre and applies the annual
	// equation with the sign that retards the Moon near solar perigee. It
	// tracks the real Moon to within about a degree.
	CentreSeries
)

// MoonState is the Moon's apparent position and phase for one instant.
type MoonState struct {
	Position

	EclipticLongitude float64
	EclipticLatitude  float64

	// Elongation is the signed Sun-to-Moon ecliptic longitude difference in
	// (-π, π]; positive while waxing.
	Elongation float64

	// PhaseAngle is the Sun-Moon-Earth angle in [0, π]: π at new moon,
	// 0 at full moon.
	PhaseAngle float64

	// Illumination is the lit fraction of the disk in [0, 1].
	Illumination float64
}

// Waxing reports whether the lit fraction is increasing.
func (m MoonState) Waxing() bool {
	return m.Elongation > 0
}

// PhaseName returns one of the eight conventional phase names.
func (m MoonState) PhaseName() string {
	return PhaseName(m.Illumination, m.Waxing())
}

// Moon returns the Moon's state for an observer at lat/lon (degrees).
// sun must be the solar coordinates for the same instant.
func Moon(t time.Time, lat, lon float64, sun SolarCoords, series Series) MoonState {
	d := DaysSinceJ2000(t)
	return moonAt(d, lat, lon, sun, series)
}

// lunarLongitude returns the Moon's ecliptic longitude d days after J2000.
func lunarLongitude(d float64, sun SolarCoords, series Series) float64 {
	meanLong := rad * (218.316 + 13.176396*d)
	meanAnom := rad * (134.963 + 13.064993*d)
	twoD := 2*meanLong - 2*sun.EclipticLongitude

	l := meanLong +
		rad*1.274*math.Sin(twoD-meanAnom) + // evection
		rad*0.658*math.Sin(twoD) // variation

	annual := rad * 0.186 * math.Sin(sun.MeanAnomaly)
	if series == CentreSeries {
		return l + rad*6.289*math.Sin(meanAnom) - annual
	}
	return l + annual
}

func moonAt(d, lat, lon float64, sun SolarCoords, series Series) MoonState {
	node := rad * (125.045 - 0.0529538*d)
	l := lunarLongitude(d, sun, series)
	b := rad * 5.128 * math.Sin(l-node)

	ra := rightAscension(l, b)
	dec := declination(l, b)

	elong := WrapPi(l - sun.EclipticLongitude)
	phase := math.Pi - math.Abs(elong)

	return MoonState{
		Position:          horizontal(d, lat, lon, ra, dec),
		EclipticLongitude: l,
		EclipticLatitude:  b,
		Elongation:        elong,
		PhaseAngle:        phase,
		Illumination:      Illumination(phase),
	}
}

// Illumination returns the lit fraction for a phase angle:
// 0 at new moon (π), 1 at full moon (0).
func Illumination(phaseAngle float64) float64 {
	return (1 + math.Cos(phaseAngle)) / 2
}

// PhaseName names the phase from lit fraction and direction.
func PhaseName(illumination float64, waxing bool) string {
	switch {
	case illumination < 0.01:
		return "New Moon"
	case illumination > 0.99:
		return "Full Moon"
	case illumination >= 0.49 && illumination <= 0.51:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case illumination < 0.5:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}
