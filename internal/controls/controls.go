// Package controls maps viewer key presses to sky engine mutations.
// Both the GL viewer and the terminal inspector share it.
package controls

import (
	"github.com/Faultbox/skylight/internal/lighting"
	"github.com/Faultbox/skylight/internal/weather"
)

// TimeStep is the time-of-day change per key press, in hours.
const TimeStep = 0.25

// Action is a user command.
type Action int

const (
	ActionNone Action = iota
	ActionTimeBack
	ActionTimeForward
	ActionDayBack
	ActionDayForward
	ActionCycleWeather
	ActionToggleSystemTime
	ActionNextPlace
	ActionToggleSunHelper
	ActionToggleMoonHelper
)

var actionNames = [...]string{
	ActionNone:             "none",
	ActionTimeBack:         "time -15m",
	ActionTimeForward:      "time +15m",
	ActionDayBack:          "day -1",
	ActionDayForward:       "day +1",
	ActionCycleWeather:     "cycle weather",
	ActionToggleSystemTime: "toggle system time",
	ActionNextPlace:        "next location",
	ActionToggleSunHelper:  "toggle sun helper",
	ActionToggleMoonHelper: "toggle moon helper",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Place is a named observer location.
type Place struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Places is the default location cycle.
var Places = []Place{
	{"Greenwich", 51.48, 0},
	{"Equator", 0, 0},
	{"Tromsø", 69.65, 18.96},
	{"Sydney", -33.87, 151.21},
	{"Quito", -0.18, -78.47},
	{"McMurdo", -77.85, 166.67},
}

// Target is the part of the sky engine the controller drives.
type Target interface {
	DayOfYear() int
	TimeOfDay() float64
	Weather() weather.Preset
	UsesSystemTime() bool
	State() lighting.State

	SetDayOfYear(int) bool
	SetTimeOfDay(float64) bool
	SetWeather(weather.Preset) bool
	SetUseSystemTime(bool) bool
	SetLocation(lat, lon float64) bool
	SetHelpers(lighting.Helpers) bool
}

// Controller applies actions to a Target.
type Controller struct {
	target Target
	places []Place
	place  int
}

// New creates a controller cycling through places. Nil places uses Places.
func New(target Target, places []Place) *Controller {
	if places == nil {
		places = Places
	}
	return &Controller{target: target, places: places, place: -1}
}

// Place returns the last place selected by ActionNextPlace, if any.
func (c *Controller) Place() (Place, bool) {
	if c.place < 0 {
		return Place{}, false
	}
	return c.places[c.place], true
}

// Do applies a and reports whether the engine changed.
func (c *Controller) Do(a Action) bool {
	t := c.target
	switch a {
	case ActionTimeBack:
		return t.SetTimeOfDay(t.TimeOfDay() - TimeStep)
	case ActionTimeForward:
		return t.SetTimeOfDay(t.TimeOfDay() + TimeStep)
	case ActionDayBack:
		return t.SetDayOfYear(t.DayOfYear() - 1)
	case ActionDayForward:
		return t.SetDayOfYear(t.DayOfYear() + 1)
	case ActionCycleWeather:
		return t.SetWeather(t.Weather().Next())
	case ActionToggleSystemTime:
		return t.SetUseSystemTime(!t.UsesSystemTime())
	case ActionNextPlace:
		if len(c.places) == 0 {
			return false
		}
		c.place = (c.place + 1) % len(c.places)
		p := c.places[c.place]
		return t.SetLocation(p.Latitude, p.Longitude)
	case ActionToggleSunHelper:
		h := t.State().Helpers
		h.Sun = !h.Sun
		return t.SetHelpers(h)
	case ActionToggleMoonHelper:
		h := t.State().Helpers
		h.Moon = !h.Moon
		return t.SetHelpers(h)
	}
	return false
}
