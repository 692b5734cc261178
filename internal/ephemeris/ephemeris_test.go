package ephemeris

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func dayOfYear(year, day int, hours float64) time.Time {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, day-1).Add(time.Duration(hours * float64(time.Hour)))
}

func TestDaysSinceJ2000(t *testing.T) {
	epoch := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
	if d := DaysSinceJ2000(epoch); math.Abs(d) > 1e-6 {
		t.Errorf("DaysSinceJ2000(J2000) = %v, want 0", d)
	}
	if d := DaysSinceJ2000(epoch.Add(36 * time.Hour)); math.Abs(d-1.5) > 1e-6 {
		t.Errorf("DaysSinceJ2000(J2000+36h) = %v, want 1.5", d)
	}
}

func TestSunAltitude(t *testing.T) {
	tests := []struct {
		name      string
		time      time.Time
		lat, lon  float64
		wantDeg   float64
		tolerance float64
	}{
		{
			// Equation of time is about -7 min in late March, so apparent
			// noon at Greenwich falls near 12:07 UTC.
			name:      "equator equinox apparent noon",
			time:      dayOfYear(2025, 80, 12+7.0/60),
			lat:       0,
			lon:       0,
			wantDeg:   90,
			tolerance: 1,
		},
		{
			name:      "equator equinox 12:00 UTC",
			time:      dayOfYear(2025, 80, 12),
			lat:       0,
			lon:       0,
			wantDeg:   90,
			tolerance: 2.5,
		},
		{
			name:      "london june solstice noon",
			time:      dayOfYear(2025, 172, 12),
			lat:       51.5,
			lon:       0,
			wantDeg:   90 - 51.5 + 23.44,
			tolerance: 1,
		},
		{
			name:      "london december solstice noon",
			time:      dayOfYear(2025, 355, 12),
			lat:       51.5,
			lon:       0,
			wantDeg:   90 - 51.5 - 23.44,
			tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, _ := Sun(tt.time, tt.lat, tt.lon)
			got := Degrees(pos.Altitude)
			if math.Abs(got-tt.wantDeg) > tt.tolerance {
				t.Errorf("altitude = %.3f°, want %.3f° ± %.1f", got, tt.wantDeg, tt.tolerance)
			}
		})
	}
}

func TestSunAzimuthConvention(t *testing.T) {
	// Morning sun at the equator on the equinox rises due east, which is
	// -90° in the south-referenced clockwise convention.
	morning, _ := Sun(dayOfYear(2025, 80, 6.5), 0, 0)
	if az := Degrees(morning.Azimuth); math.Abs(az+90) > 3 {
		t.Errorf("morning azimuth = %.2f°, want ≈ -90°", az)
	}

	evening, _ := Sun(dayOfYear(2025, 80, 17.5), 0, 0)
	if az := Degrees(evening.Azimuth); math.Abs(az-90) > 3 {
		t.Errorf("evening azimuth = %.2f°, want ≈ 90°", az)
	}

	// Northern mid-latitude noon: the sun stands due south.
	noon, _ := Sun(dayOfYear(2025, 172, 12), 51.5, 0)
	if az := Degrees(noon.Azimuth); math.Abs(az) > 3 {
		t.Errorf("noon azimuth = %.2f°, want ≈ 0°", az)
	}
}

func TestSunLongitudeShiftsNoon(t *testing.T) {
	// 90°E reaches local noon six hours before Greenwich.
	east, _ := Sun(dayOfYear(2025, 172, 6), 51.5, 90)
	green, _ := Sun(dayOfYear(2025, 172, 12), 51.5, 0)
	if diff := math.Abs(Degrees(east.Altitude - green.Altitude)); diff > 0.5 {
		t.Errorf("altitude differs by %.3f° between 90°E at 06:00 and 0° at 12:00", diff)
	}
}

func TestPolarDayAndNight(t *testing.T) {
	for h := 0.0; h < 24; h += 1 {
		winter, _ := Sun(dayOfYear(2025, 355, h), 80, 15)
		if winter.Altitude >= 0 {
			t.Errorf("polar night hour %.0f: altitude %.2f° should stay negative", h, Degrees(winter.Altitude))
		}
		summer, _ := Sun(dayOfYear(2025, 172, h), 80, 15)
		if summer.Altitude <= 0 {
			t.Errorf("polar day hour %.0f: altitude %.2f° should stay positive", h, Degrees(summer.Altitude))
		}
	}
}

func TestIllumination(t *testing.T) {
	tests := []struct {
		phase float64
		want  float64
	}{
		{math.Pi, 0},
		{0, 1},
		{math.Pi / 2, 0.5},
	}

	for _, tt := range tests {
		got := Illumination(tt.phase)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Illumination(%v) = %v, want %v", tt.phase, got, tt.want)
		}
	}
}

func TestMoonPhases(t *testing.T) {
	tests := []struct {
		name              string
		time              time.Time
		illuminationRange [2]float64
		waxing            bool
		phaseName         string
	}{
		{
			name:              "new moon Jan 2023",
			time:              time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC),
			illuminationRange: [2]float64{0, 0.05},
			phaseName:         "New Moon",
		},
		{
			name:              "first quarter Jan 2023",
			time:              time.Date(2023, 1, 28, 15, 19, 0, 0, time.UTC),
			illuminationRange: [2]float64{0.42, 0.58},
			waxing:            true,
			phaseName:         "First Quarter",
		},
		{
			name:              "full moon Feb 2023",
			time:              time.Date(2023, 2, 5, 18, 29, 0, 0, time.UTC),
			illuminationRange: [2]float64{0.95, 1},
			phaseName:         "Full Moon",
		},
		{
			name:              "last quarter Feb 2023",
			time:              time.Date(2023, 2, 13, 16, 1, 0, 0, time.UTC),
			illuminationRange: [2]float64{0.42, 0.58},
			waxing:            false,
			phaseName:         "Last Quarter",
		},
	}

	for _, series := range []Series{ShortSeries, CentreSeries} {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%s/series %d", tt.name, series), func(t *testing.T) {
				_, sc := Sun(tt.time, 0, 0)
				m := Moon(tt.time, 0, 0, sc, series)

				if m.Illumination < tt.illuminationRange[0] || m.Illumination > tt.illuminationRange[1] {
					t.Errorf("Illumination = %.3f, want in [%.2f, %.2f]",
						m.Illumination, tt.illuminationRange[0], tt.illuminationRange[1])
				}
				if tt.phaseName == "First Quarter" || tt.phaseName == "Last Quarter" {
					if m.Waxing() != tt.waxing {
						t.Errorf("Waxing() = %v, want %v", m.Waxing(), tt.waxing)
					}
				}
				if tt.phaseName == "New Moon" && m.PhaseAngle < math.Pi-0.5 {
					t.Errorf("PhaseAngle = %.3f, want near π", m.PhaseAngle)
				}
				if tt.phaseName == "Full Moon" && m.PhaseAngle > 0.5 {
					t.Errorf("PhaseAngle = %.3f, want near 0", m.PhaseAngle)
				}
			})
		}
	}
}

func TestMoonDeclinationBounded(t *testing.T) {
	// Lunar declination never exceeds obliquity plus inclination.
	limit := Degrees(Obliquity) + 5.2
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 60; day++ {
		tm := start.AddDate(0, 0, day)
		d := DaysSinceJ2000(tm)
		_, sc := Sun(tm, 0, 0)
		m := moonAt(d, 0, 0, sc, CentreSeries)
		dec := Degrees(declination(m.EclipticLongitude, m.EclipticLatitude))
		if math.Abs(dec) > limit {
			t.Errorf("day %d: declination %.2f° exceeds %.2f°", day, dec, limit)
		}
	}
}

func TestLunarLongitudeSeries(t *testing.T) {
	for d := 8000.0; d < 8400; d += 37.5 {
		sc := SunCoords(d)
		meanLong := 218.316 + 13.176396*d
		meanAnom := 134.963 + 13.064993*d
		solarLong := Degrees(sc.EclipticLongitude)
		solarAnom := Degrees(sc.MeanAnomaly)
		sin := func(deg float64) float64 { return math.Sin(deg * rad) }

		short := meanLong +
			1.274*sin(2*meanLong-2*solarLong-meanAnom) +
			0.658*sin(2*meanLong-2*solarLong) +
			0.186*sin(solarAnom)
		centre := short + 6.289*sin(meanAnom) - 2*0.186*sin(solarAnom)

		if got := Degrees(lunarLongitude(d, sc, ShortSeries)); math.Abs(got-short) > 1e-9 {
			t.Errorf("d=%v: short series longitude = %.9f°, want %.9f°", d, got, short)
		}
		if got := Degrees(lunarLongitude(d, sc, CentreSeries)); math.Abs(got-centre) > 1e-9 {
			t.Errorf("d=%v: centre series longitude = %.9f°, want %.9f°", d, got, centre)
		}
		if got := moonAt(d, 0, 0, sc, ShortSeries).EclipticLongitude; math.Abs(Degrees(got)-short) > 1e-9 {
			t.Errorf("d=%v: MoonState.EclipticLongitude = %.9f°, want %.9f°", d, Degrees(got), short)
		}
	}
}

func TestPhaseName(t *testing.T) {
	tests := []struct {
		illum  float64
		waxing bool
		want   string
	}{
		{0.001, true, "New Moon"},
		{0.25, true, "Waxing Crescent"},
		{0.5, true, "First Quarter"},
		{0.75, true, "Waxing Gibbous"},
		{0.999, false, "Full Moon"},
		{0.75, false, "Waning Gibbous"},
		{0.5, false, "Last Quarter"},
		{0.2, false, "Waning Crescent"},
	}

	for _, tt := range tests {
		if got := PhaseName(tt.illum, tt.waxing); got != tt.want {
			t.Errorf("PhaseName(%v, %v) = %q, want %q", tt.illum, tt.waxing, got, tt.want)
		}
	}
}
