// Package lighting turns sky positions into host-space light placement and
// packages them into immutable lighting snapshots.
//
// Host frame: Y up, +X east, +Z south (-Z north).
package lighting

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Direction converts a south-referenced clockwise azimuth and an altitude
// (radians) into a unit vector pointing toward the body.
//
// Azimuth 0 is south (+Z), +π/2 is west (-X), -π/2 is east (+X).
func Direction(azimuth, altitude float64) r3.Vec {
	cosAlt := math.Cos(altitude)
	return r3.Vec{
		X: -math.Sin(azimuth) * cosAlt,
		Y: math.Sin(altitude),
		Z: math.Cos(azimuth) * cosAlt,
	}
}

// Placement returns the light position at distance along Direction.
func Placement(azimuth, altitude, distance float64) r3.Vec {
	return r3.Scale(distance, Direction(azimuth, altitude))
}

// Bearing converts a south-referenced azimuth into a compass bearing in
// degrees from north, clockwise, in [0, 360).
func Bearing(azimuth float64) float64 {
	b := math.Mod(azimuth*180/math.Pi+180, 360)
	if b < 0 {
		b += 360
	}
	return b
}

// Float32 converts a direction for GPU upload.
func Float32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
