// Package clock resolves the instant the sky is evaluated at, either from the
// wall clock or from a manual year/day/hour/timezone setting.
package clock

import (
	"math"
	"time"
)

const (
	minutesPerDay = 1440

	// MinTimeZoneOffset and MaxTimeZoneOffset bound the offset in minutes
	// (UTC-12:00 to UTC+14:00).
	MinTimeZoneOffset = -12 * 60
	MaxTimeZoneOffset = 14 * 60
)

// Config holds the initial time settings.
type Config struct {
	ReferenceYear  int
	DayOfYear      int
	TimeOfDay      float64 // hours, local to TimeZoneOffset
	TimeZoneOffset int     // minutes east of UTC
	UseSystemTime  bool

	// Now overrides the wall clock. Nil means time.Now.
	Now func() time.Time
}

// Model is the time source of the sky engine.
// In system-clock mode the manual fields are overwritten on every Resolve.
type Model struct {
	year      int
	dayOfYear int
	hours     float64
	tzOffset  int
	useSystem bool

	now func() time.Time
}

// New creates a Model with clamped and normalized initial values.
func New(cfg Config) *Model {
	m := &Model{
		year:      cfg.ReferenceYear,
		useSystem: cfg.UseSystemTime,
		now:       cfg.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.year == 0 {
		m.year = m.now().UTC().Year()
	}
	m.dayOfYear = ClampDayOfYear(m.year, cfg.DayOfYear)
	m.hours = NormalizeHours(cfg.TimeOfDay)
	m.tzOffset = clampOffset(cfg.TimeZoneOffset)
	return m
}

// Resolve returns the current instant in UTC.
func (m *Model) Resolve() time.Time {
	if m.useSystem {
		now := m.now().UTC()
		local := now.Add(time.Duration(m.tzOffset) * time.Minute)
		m.year = local.Year()
		m.dayOfYear = local.YearDay()
		m.hours = float64(local.Hour()) +
			float64(local.Minute())/60 +
			(float64(local.Second())+float64(local.Nanosecond())/1e9)/3600
		return now
	}
	return Instant(m.year, m.dayOfYear, m.hours, m.tzOffset)
}

// Instant builds a UTC instant from manual time fields.
func Instant(year, dayOfYear int, hours float64, tzOffset int) time.Time {
	// Whole days and the offset are added as integers; only the time of day
	// goes through float64 so nanosecond precision is kept.
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	wholeMinutes := (dayOfYear-1)*minutesPerDay - tzOffset
	clockTime := time.Duration(math.Round(hours * float64(time.Hour)))
	return start.Add(time.Duration(wholeMinutes)*time.Minute + clockTime)
}

// SetDayOfYear clamps day into the reference year. Returns false if unchanged.
func (m *Model) SetDayOfYear(day int) bool {
	day = ClampDayOfYear(m.year, day)
	if day == m.dayOfYear {
		return false
	}
	m.dayOfYear = day
	return true
}

// SetTimeOfDay normalizes hours into [0, 24). Returns false if unchanged.
// NaN and ±Inf are dropped rather than stored, as no instant represents them.
func (m *Model) SetTimeOfDay(hours float64) bool {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return false
	}
	hours = NormalizeHours(hours)
	if hours == m.hours {
		return false
	}
	m.hours = hours
	return true
}

// SetTimeZoneOffset clamps the offset in minutes. Returns false if unchanged.
func (m *Model) SetTimeZoneOffset(minutes int) bool {
	minutes = clampOffset(minutes)
	if minutes == m.tzOffset {
		return false
	}
	m.tzOffset = minutes
	return true
}

// SetUseSystemTime toggles system-clock mode. Returns false if unchanged.
func (m *Model) SetUseSystemTime(enabled bool) bool {
	if enabled == m.useSystem {
		return false
	}
	m.useSystem = enabled
	return true
}

// ReferenceYear returns the year manual fields are relative to.
func (m *Model) ReferenceYear() int { return m.year }

// DayOfYear returns the 1-based day of year.
func (m *Model) DayOfYear() int { return m.dayOfYear }

// TimeOfDay returns local hours in [0, 24).
func (m *Model) TimeOfDay() float64 { return m.hours }

// TimeZoneOffset returns the offset from UTC in minutes.
func (m *Model) TimeZoneOffset() int { return m.tzOffset }

// UsesSystemTime reports whether the wall clock drives the instant.
func (m *Model) UsesSystemTime() bool { return m.useSystem }

// IsLeapYear reports whether year has 366 days.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// ClampDayOfYear clamps day to [1, DaysInYear(year)].
func ClampDayOfYear(year, day int) int {
	if day < 1 {
		return 1
	}
	if n := DaysInYear(year); day > n {
		return n
	}
	return day
}

// NormalizeHours wraps hours into [0, 24). NaN stays NaN.
func NormalizeHours(hours float64) float64 {
	hours = math.Mod(hours, 24)
	if hours < 0 {
		hours += 24
	}
	// -tiny + 24 rounds to 24 in float64
	if hours >= 24 {
		hours = 0
	}
	return hours
}

func clampOffset(minutes int) int {
	if minutes < MinTimeZoneOffset {
		return MinTimeZoneOffset
	}
	if minutes > MaxTimeZoneOffset {
		return MaxTimeZoneOffset
	}
	return minutes
}
