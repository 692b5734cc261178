// Package sky owns the time and location state of the scene and publishes a
// lighting snapshot whenever either changes or the host ticks.
//
// Engine is single-threaded: hosts call it from their main loop only.
package sky

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/skylight/internal/clock"
	"github.com/Faultbox/skylight/internal/ephemeris"
	"github.com/Faultbox/skylight/internal/lighting"
	"github.com/Faultbox/skylight/internal/logger"
	"github.com/Faultbox/skylight/internal/weather"
)

const (
	// BaseMoonIntensity is full-moon zenith moonlight under a clear sky.
	BaseMoonIntensity = 0.015

	// DefaultMinMoonIllumination hides the moon light below this lit fraction.
	DefaultMinMoonIllumination = 0.1

	// DefaultLightDistance places lights this far from the scene origin.
	DefaultLightDistance = 500.0

	// sunVisibleEpsilon is the smallest sun intensity treated as lit.
	sunVisibleEpsilon = 1e-4
)

// Options configures a new Engine.
type Options struct {
	Latitude       float64
	Longitude      float64
	DayOfYear      int
	TimeOfDay      float64 // local hours
	TimeZoneOffset int     // minutes east of UTC
	ReferenceYear  int     // 0 means the current year
	UseSystemTime  bool

	Weather       weather.Preset
	LightDistance float64

	MoonEnabled         bool
	MinMoonIllumination float64
	LunarSeries         ephemeris.Series

	Helpers lighting.Helpers

	// Now overrides the wall clock, mainly for tests.
	Now func() time.Time

	// Logger defaults to logger.Named("sky").
	Logger *zap.Logger
}

// DefaultOptions returns options for Greenwich at the June solstice noon.
func DefaultOptions() Options {
	return Options{
		Latitude:            51.48,
		Longitude:           0,
		DayOfYear:           172,
		TimeOfDay:           12,
		Weather:             weather.Sunny,
		LightDistance:       DefaultLightDistance,
		MoonEnabled:         true,
		MinMoonIllumination: DefaultMinMoonIllumination,
	}
}

// Engine is the lighting-state orchestrator.
type Engine struct {
	clock    *clock.Model
	location lighting.Location
	weather  weather.Preset
	helpers  lighting.Helpers

	lightDistance       float64
	moonEnabled         bool
	minMoonIllumination float64
	lunarSeries         ephemeris.Series

	state lighting.State
	seq   uint64

	onState      observers[StateHandler]
	onWeather    observers[WeatherHandler]
	onSystemTime observers[SystemTimeHandler]

	recomputing bool
	pending     bool
	queued      []func()

	log *zap.Logger
}

// New creates an Engine and computes the initial snapshot. Nothing is
// published until the first Tick or mutator call.
func New(opts Options) *Engine {
	e := &Engine{
		clock: clock.New(clock.Config{
			ReferenceYear:  opts.ReferenceYear,
			DayOfYear:      opts.DayOfYear,
			TimeOfDay:      opts.TimeOfDay,
			TimeZoneOffset: opts.TimeZoneOffset,
			UseSystemTime:  opts.UseSystemTime,
			Now:            opts.Now,
		}),
		location:            lighting.NewLocation(opts.Latitude, opts.Longitude),
		weather:             opts.Weather,
		helpers:             opts.Helpers,
		lightDistance:       opts.LightDistance,
		moonEnabled:         opts.MoonEnabled,
		minMoonIllumination: opts.MinMoonIllumination,
		lunarSeries:         opts.LunarSeries,
		log:                 opts.Logger,
	}
	if !e.weather.Valid() {
		e.weather = weather.Sunny
	}
	if e.lightDistance <= 0 {
		e.lightDistance = DefaultLightDistance
	}
	if e.minMoonIllumination < 0 {
		e.minMoonIllumination = DefaultMinMoonIllumination
	}
	if e.log == nil {
		e.log = logger.Named("sky")
	}

	e.state = e.compute()
	e.log.Info("sky engine ready",
		zap.Float64("lat", e.location.Latitude),
		zap.Float64("lon", e.location.Longitude),
		zap.Stringer("weather", e.weather),
		zap.Bool("system_time", e.clock.UsesSystemTime()),
		zap.Time("instant", e.state.Instant),
	)
	return e
}

// OnStateChanged registers h for every published snapshot and returns a
// func that removes it.
func (e *Engine) OnStateChanged(h StateHandler) func() { return e.onState.add(h) }

// OnWeatherChanged registers h for weather changes.
func (e *Engine) OnWeatherChanged(h WeatherHandler) func() { return e.onWeather.add(h) }

// OnSystemTimeToggled registers h for system-clock toggles.
func (e *Engine) OnSystemTimeToggled(h SystemTimeHandler) func() { return e.onSystemTime.add(h) }

// Bind subscribes a light sink to state changes and pushes the current
// snapshot into it immediately.
func (e *Engine) Bind(sink lighting.Sink) func() {
	lighting.Apply(sink, e.state)
	return e.OnStateChanged(func(s lighting.State) { lighting.Apply(sink, s) })
}

// Tick recomputes from the current clock and publishes.
func (e *Engine) Tick() {
	e.refresh()
}

// SetLatitude clamps lat to [-90, 90].
func (e *Engine) SetLatitude(lat float64) bool {
	return e.SetLocation(lat, e.location.Longitude)
}

// SetLongitude wraps lon into (-180, 180].
func (e *Engine) SetLongitude(lon float64) bool {
	return e.SetLocation(e.location.Latitude, lon)
}

// SetLocation replaces the observer location. NaN and ±Inf are dropped and
// reported as no change rather than propagated into the snapshot.
func (e *Engine) SetLocation(lat, lon float64) bool {
	if !finite(lat) || !finite(lon) {
		return false
	}
	loc := lighting.NewLocation(lat, lon)
	if loc == e.location {
		return false
	}
	e.location = loc
	e.refresh()
	return true
}

// SetDayOfYear clamps day into the reference year. In system-clock mode the
// next recompute overwrites it.
func (e *Engine) SetDayOfYear(day int) bool {
	if !e.clock.SetDayOfYear(day) {
		return false
	}
	e.refresh()
	return true
}

// SetTimeOfDay normalizes hours into [0, 24). NaN and ±Inf are dropped, as
// no instant can represent them.
func (e *Engine) SetTimeOfDay(hours float64) bool {
	if !e.clock.SetTimeOfDay(hours) {
		return false
	}
	e.refresh()
	return true
}

// SetTimeZoneOffset sets the offset from UTC in minutes.
func (e *Engine) SetTimeZoneOffset(minutes int) bool {
	if !e.clock.SetTimeZoneOffset(minutes) {
		return false
	}
	e.refresh()
	return true
}

// SetWeather switches the weather preset. Unknown presets are ignored.
func (e *Engine) SetWeather(p weather.Preset) bool {
	if !p.Valid() || p == e.weather {
		return false
	}
	prev := e.weather
	e.weather = p
	e.log.Info("weather changed", zap.Stringer("from", prev), zap.Stringer("to", p))
	e.queue(func() { e.onWeather.each(func(h WeatherHandler) { h(prev, p) }) })
	e.refresh()
	return true
}

// SetUseSystemTime toggles wall-clock mode.
func (e *Engine) SetUseSystemTime(enabled bool) bool {
	if !e.clock.SetUseSystemTime(enabled) {
		return false
	}
	e.log.Info("system time toggled", zap.Bool("enabled", enabled))
	e.queue(func() { e.onSystemTime.each(func(h SystemTimeHandler) { h(enabled) }) })
	e.refresh()
	return true
}

// SetHelpers updates the helper visualization toggles.
func (e *Engine) SetHelpers(h lighting.Helpers) bool {
	if h == e.helpers {
		return false
	}
	e.helpers = h
	e.refresh()
	return true
}

// State returns a copy of the latest snapshot.
func (e *Engine) State() lighting.State { return e.state.Clone() }

// Location returns the observer location.
func (e *Engine) Location() lighting.Location { return e.location }

// DayOfYear returns the current day of year.
func (e *Engine) DayOfYear() int { return e.clock.DayOfYear() }

// TimeOfDay returns local hours in [0, 24).
func (e *Engine) TimeOfDay() float64 { return e.clock.TimeOfDay() }

// TimeZoneOffset returns minutes east of UTC.
func (e *Engine) TimeZoneOffset() int { return e.clock.TimeZoneOffset() }

// Weather returns the active preset.
func (e *Engine) Weather() weather.Preset { return e.weather }

// UsesSystemTime reports whether the wall clock drives the instant.
func (e *Engine) UsesSystemTime() bool { return e.clock.UsesSystemTime() }

// MoonPhase returns the phase of the latest snapshot.
func (e *Engine) MoonPhase() lighting.MoonPhase { return e.state.Phase }

// MoonIllumination returns the lit fraction of the latest snapshot.
func (e *Engine) MoonIllumination() float64 { return e.state.Phase.Illumination }

// queue holds a change notification until the snapshot reflecting the
// change has been published.
func (e *Engine) queue(fn func()) {
	e.queued = append(e.queued, fn)
}

// refresh recomputes and publishes, then delivers queued notifications. A
// call made while subscribers are being notified is deferred until the
// current notification round finishes.
func (e *Engine) refresh() {
	if e.recomputing {
		e.pending = true
		e.log.Debug("nested recompute deferred")
		return
	}

	e.recomputing = true
	defer func() { e.recomputing = false }()

	for {
		e.pending = false
		e.state = e.compute()
		e.publish(e.state)
		if e.pending {
			continue
		}

		queued := e.queued
		e.queued = nil
		for _, fn := range queued {
			fn()
		}
		if !e.pending {
			return
		}
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (e *Engine) publish(s lighting.State) {
	e.onState.each(func(h StateHandler) { h(s.Clone()) })
}

// compute derives a complete snapshot for the current clock instant.
func (e *Engine) compute() lighting.State {
	instant := e.clock.Resolve()
	lat, lon := e.location.Latitude, e.location.Longitude

	sunPos, solar := ephemeris.Sun(instant, lat, lon)
	photo := weather.Blend(e.weather, sunPos.Altitude)

	e.seq++
	s := lighting.State{
		Sequence:   e.seq,
		Instant:    instant,
		Location:   e.location,
		Weather:    e.weather,
		Sun:        lighting.NewBody(sunPos.Azimuth, sunPos.Altitude, e.lightDistance),
		Photometry: photo,
		Helpers:    e.helpers,
	}
	s.SunVisible = sunPos.Altitude > 0 && photo.SunIntensity > sunVisibleEpsilon

	if e.moonEnabled {
		m := ephemeris.Moon(instant, lat, lon, solar, e.lunarSeries)
		body := lighting.NewBody(m.Azimuth, m.Altitude, e.lightDistance)
		s.Moon = &body
		s.Phase = lighting.MoonPhase{
			Angle:        m.PhaseAngle,
			Elongation:   m.Elongation,
			Illumination: m.Illumination,
			Waxing:       m.Waxing(),
			Name:         m.PhaseName(),
		}
		s.MoonIntensity = BaseMoonIntensity * m.Illumination * photo.MoonFactor *
			math.Max(0, math.Sin(m.Altitude))
		s.MoonVisible = m.Altitude > 0 && m.Illumination >= e.minMoonIllumination
	}

	if ce := e.log.Check(zap.DebugLevel, "sky recomputed"); ce != nil {
		ce.Write(
			zap.Uint64("seq", s.Sequence),
			zap.Time("instant", instant),
			zap.Float64("sun_alt_deg", s.Sun.AltitudeDegrees()),
			zap.Float64("sun_bearing", s.Sun.Bearing()),
			zap.Float64("sun_intensity", s.SunIntensity),
			zap.Float64("moon_illumination", s.Phase.Illumination),
			zap.Bool("sun_visible", s.SunVisible),
			zap.Bool("moon_visible", s.MoonVisible),
		)
	}
	return s
}
