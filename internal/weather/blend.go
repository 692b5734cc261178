package weather

import "math"

const (
	// Sun altitudes in degrees bounding the twilight fade.
	twilightLowDeg  = -6.0
	twilightHighDeg = 4.0

	ambientFloor = 0.05
)

// Photometry is the blended light setup for one solar altitude.
type Photometry struct {
	SunIntensity     float64
	SunColor         Color
	AmbientIntensity float64
	AmbientColor     Color
	SkyIntensity     float64
	SkyColor         Color
	GroundColor      Color
	ShadowBias       float64
	MoonFactor       float64

	AltitudeFactor float64
	DaylightFactor float64
	TwilightFactor float64
}

// Blend computes photometry for preset p at solar altitude alt (radians).
func Blend(p Preset, alt float64) Photometry {
	t := TableFor(p)

	altF := clamp01(math.Sin(alt) + 0.1)
	altDeg := alt * 180 / math.Pi
	day := clamp01((altDeg - twilightLowDeg) / (twilightHighDeg - twilightLowDeg))
	dusk := 1 - day

	return Photometry{
		SunIntensity:     t.SunIntensity * altF * day,
		SunColor:         t.SunColor.Lerp(twilight.Sun, dusk),
		AmbientIntensity: math.Max(ambientFloor, t.AmbientIntensity*altF*(0.3+0.7*day)),
		AmbientColor:     t.AmbientColor.Lerp(twilight.Ambient, dusk),
		SkyIntensity:     t.SkyIntensity * altF * (0.35 + 0.65*day),
		SkyColor:         t.SkyColor.Lerp(twilight.Sky, dusk),
		GroundColor:      t.GroundColor.Lerp(twilight.Ground, dusk),
		ShadowBias:       t.ShadowBias,
		MoonFactor:       t.MoonFactor,
		AltitudeFactor:   altF,
		DaylightFactor:   day,
		TwilightFactor:   dusk,
	}
}

// clamp01 clamps v to [0, 1]. NaN passes through.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
