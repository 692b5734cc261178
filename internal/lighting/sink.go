package lighting

import "gonum.org/v1/gonum/spatial/r3"

// Light identifies one light slot in the host scene.
type Light int

const (
	LightSun Light = iota
	LightMoon
	LightAmbient
	LightSky    // hemisphere light, upper color
	LightGround // hemisphere light, lower color
)

func (l Light) String() string {
	switch l {
	case LightSun:
		return "sun"
	case LightMoon:
		return "moon"
	case LightAmbient:
		return "ambient"
	case LightSky:
		return "sky"
	case LightGround:
		return "ground"
	default:
		return "unknown"
	}
}

// moonColor is the fixed tint of moonlight.
var moonColor = Color{R: 0.62, G: 0.70, B: 0.90}

// Sink receives light parameters. Scene hosts implement it over their own
// light objects; this package never touches them directly.
type Sink interface {
	SetDirection(light Light, dir r3.Vec)
	SetIntensity(light Light, intensity float64)
	SetColor(light Light, color Color)
}

// Apply pushes a snapshot into sink. Bodies that are not visible get zero
// intensity; their direction is still updated so helpers can track them.
func Apply(sink Sink, s State) {
	sink.SetDirection(LightSun, s.Sun.Direction)
	sink.SetColor(LightSun, s.SunColor)
	if s.SunVisible {
		sink.SetIntensity(LightSun, s.SunIntensity)
	} else {
		sink.SetIntensity(LightSun, 0)
	}

	if s.Moon != nil {
		sink.SetDirection(LightMoon, s.Moon.Direction)
	}
	sink.SetColor(LightMoon, moonColor)
	if s.MoonVisible {
		sink.SetIntensity(LightMoon, s.MoonIntensity)
	} else {
		sink.SetIntensity(LightMoon, 0)
	}

	sink.SetColor(LightAmbient, s.AmbientColor)
	sink.SetIntensity(LightAmbient, s.AmbientIntensity)

	sink.SetColor(LightSky, s.SkyColor)
	sink.SetColor(LightGround, s.GroundColor)
	sink.SetIntensity(LightSky, s.SkyIntensity)
}
