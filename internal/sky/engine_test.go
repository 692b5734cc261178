package sky

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/skylight/internal/ephemeris"
	"github.com/Faultbox/skylight/internal/lighting"
	"github.com/Faultbox/skylight/internal/weather"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.ReferenceYear = 2024
	opts.Latitude = 0
	opts.Longitude = 0
	opts.DayOfYear = 80
	opts.TimeOfDay = 12
	opts.Logger = zap.NewNop()
	return opts
}

func TestNewComputesWithoutPublishing(t *testing.T) {
	e := New(testOptions())

	calls := 0
	e.OnStateChanged(func(lighting.State) { calls++ })
	if calls != 0 {
		t.Fatalf("subscription published %d times", calls)
	}

	s := e.State()
	if !s.SunVisible {
		t.Error("sun should be visible at equinox noon on the equator")
	}
	if s.Sun.AltitudeDegrees() < 85 {
		t.Errorf("sun altitude = %.2f°, want near zenith", s.Sun.AltitudeDegrees())
	}
	want := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	if !s.Instant.Equal(want) {
		t.Errorf("instant = %v, want %v", s.Instant, want)
	}
}

func TestIdempotentMutatorsPublishOnce(t *testing.T) {
	e := New(testOptions())

	calls := 0
	e.OnStateChanged(func(lighting.State) { calls++ })

	if !e.SetLatitude(45) {
		t.Fatal("SetLatitude(45) reported no change")
	}
	if e.SetLatitude(45) {
		t.Error("second SetLatitude(45) reported a change")
	}
	if e.SetWeather(weather.Sunny) {
		t.Error("SetWeather to the active preset reported a change")
	}
	if e.SetTimeOfDay(36) {
		t.Error("SetTimeOfDay(36) should normalize to the current 12h")
	}
	if e.SetTimeOfDay(math.NaN()) {
		t.Error("SetTimeOfDay(NaN) accepted")
	}
	if e.SetLocation(math.Inf(1), 0) {
		t.Error("SetLocation(+Inf) accepted")
	}
	if calls != 1 {
		t.Errorf("published %d times, want 1", calls)
	}
}

func TestSequenceIncreases(t *testing.T) {
	e := New(testOptions())

	var seqs []uint64
	e.OnStateChanged(func(s lighting.State) { seqs = append(seqs, s.Sequence) })

	e.Tick()
	e.SetTimeOfDay(13)
	e.SetLongitude(30)

	if len(seqs) != 3 {
		t.Fatalf("published %d times, want 3", len(seqs))
	}
	for i := 1; i < len(seqs); i++ {
		if seqs[i] <= seqs[i-1] {
			t.Errorf("sequence not increasing: %v", seqs)
		}
	}
}

func TestSetLocationClampsAndWraps(t *testing.T) {
	e := New(testOptions())

	e.SetLatitude(120)
	e.SetLongitude(190)

	loc := e.Location()
	if loc.Latitude != 90 {
		t.Errorf("latitude = %v, want 90", loc.Latitude)
	}
	if math.Abs(loc.Longitude-(-170)) > 1e-9 {
		t.Errorf("longitude = %v, want -170", loc.Longitude)
	}
}

func TestOvercastDimsSun(t *testing.T) {
	e := New(testOptions())
	sunny := e.State()

	var got []weather.Preset
	e.OnWeatherChanged(func(prev, cur weather.Preset) { got = append(got, prev, cur) })

	if !e.SetWeather(weather.Overcast) {
		t.Fatal("SetWeather(Overcast) reported no change")
	}
	overcast := e.State()

	if overcast.SunIntensity >= sunny.SunIntensity {
		t.Errorf("overcast sun %.3f not below sunny %.3f", overcast.SunIntensity, sunny.SunIntensity)
	}
	if overcast.ShadowBias >= sunny.ShadowBias {
		t.Errorf("overcast shadow bias %.3f not below sunny %.3f", overcast.ShadowBias, sunny.ShadowBias)
	}
	if len(got) != 2 || got[0] != weather.Sunny || got[1] != weather.Overcast {
		t.Errorf("weather event = %v, want [sunny overcast]", got)
	}
	if e.SetWeather(weather.Preset(99)) {
		t.Error("unknown preset accepted")
	}
}

func TestSystemTimeDrivesClock(t *testing.T) {
	now := time.Date(2025, time.March, 21, 9, 30, 0, 0, time.UTC)
	opts := testOptions()
	opts.Now = func() time.Time { return now }

	e := New(opts)

	var toggles []bool
	e.OnSystemTimeToggled(func(enabled bool) { toggles = append(toggles, enabled) })

	if !e.SetUseSystemTime(true) {
		t.Fatal("SetUseSystemTime(true) reported no change")
	}
	if !e.State().Instant.Equal(now) {
		t.Errorf("instant = %v, want %v", e.State().Instant, now)
	}
	if e.DayOfYear() != 80 || math.Abs(e.TimeOfDay()-9.5) > 1e-9 {
		t.Errorf("clock fields = day %d %.3fh, want day 80 9.5h", e.DayOfYear(), e.TimeOfDay())
	}

	e.SetDayOfYear(10)
	if e.DayOfYear() != 80 {
		t.Errorf("manual day survived system-clock recompute: %d", e.DayOfYear())
	}

	now = now.Add(time.Hour)
	e.Tick()
	if !e.State().Instant.Equal(now) {
		t.Error("Tick did not follow the wall clock")
	}

	e.SetUseSystemTime(false)
	if !e.State().Instant.Equal(now) {
		t.Errorf("switching to manual moved the instant to %v", e.State().Instant)
	}
	if len(toggles) != 2 || !toggles[0] || toggles[1] {
		t.Errorf("toggle events = %v, want [true false]", toggles)
	}
}

func TestReentrantMutationIsDeferred(t *testing.T) {
	e := New(testOptions())

	depth, calls := 0, 0
	var lats []float64
	e.OnStateChanged(func(s lighting.State) {
		depth++
		defer func() { depth-- }()
		if depth > 1 {
			t.Fatal("subscriber re-entered")
		}
		calls++
		lats = append(lats, s.Location.Latitude)
		if s.Location.Latitude == 10 {
			e.SetLatitude(20)
		}
	})

	e.SetLatitude(10)

	if calls != 2 {
		t.Fatalf("published %d times, want 2", calls)
	}
	if lats[0] != 10 || lats[1] != 20 {
		t.Errorf("published latitudes = %v, want [10 20]", lats)
	}
	if e.Location().Latitude != 20 {
		t.Errorf("final latitude = %v, want 20", e.Location().Latitude)
	}
}

func TestNestedChangeNotifiesAfterSnapshot(t *testing.T) {
	e := New(testOptions())

	e.OnStateChanged(func(s lighting.State) {
		if s.Location.Latitude == 10 {
			e.SetWeather(weather.Overcast)
			e.SetUseSystemTime(true)
		}
	})

	var events []string
	e.OnWeatherChanged(func(prev, cur weather.Preset) {
		if got := e.State().Weather; got != cur {
			t.Errorf("weather event %v → %v delivered while snapshot weather = %v", prev, cur, got)
		}
		events = append(events, "weather")
	})
	e.OnSystemTimeToggled(func(enabled bool) {
		if !enabled || !e.UsesSystemTime() {
			t.Errorf("system-time event enabled=%v, engine=%v", enabled, e.UsesSystemTime())
		}
		events = append(events, "system-time")
	})

	e.SetLatitude(10)

	if len(events) != 2 || events[0] != "weather" || events[1] != "system-time" {
		t.Errorf("events = %v, want [weather system-time]", events)
	}
	if e.State().Weather != weather.Overcast {
		t.Errorf("final weather = %v, want overcast", e.State().Weather)
	}
}

func TestWeatherEventFollowsSnapshot(t *testing.T) {
	e := New(testOptions())

	var seq uint64
	e.OnStateChanged(func(s lighting.State) { seq = s.Sequence })
	e.OnWeatherChanged(func(_, cur weather.Preset) {
		s := e.State()
		if s.Sequence != seq || s.Weather != cur {
			t.Errorf("weather event saw seq %d weather %v, want seq %d weather %v", s.Sequence, s.Weather, seq, cur)
		}
	})

	if !e.SetWeather(weather.PartlyCloudy) {
		t.Fatal("SetWeather reported no change")
	}
}

func TestSubscriberOrderAndUnsubscribe(t *testing.T) {
	e := New(testOptions())

	var order []string
	e.OnStateChanged(func(lighting.State) { order = append(order, "a") })
	stopB := e.OnStateChanged(func(lighting.State) { order = append(order, "b") })
	e.OnStateChanged(func(lighting.State) { order = append(order, "c") })

	e.Tick()
	stopB()
	stopB()
	e.Tick()

	want := []string{"a", "b", "c", "a", "c"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if e.onState.len() != 2 {
		t.Errorf("%d subscribers left, want 2", e.onState.len())
	}
}

func TestSubscribersGetIndependentCopies(t *testing.T) {
	e := New(testOptions())

	e.OnStateChanged(func(s lighting.State) { s.Moon.Altitude = 42 })
	var seen float64
	e.OnStateChanged(func(s lighting.State) { seen = s.Moon.Altitude })

	e.Tick()
	if seen == 42 {
		t.Error("subscriber mutation leaked into the next subscriber")
	}
	if e.State().Moon.Altitude == 42 {
		t.Error("subscriber mutation leaked into the engine state")
	}
}

func TestMoonDisabled(t *testing.T) {
	opts := testOptions()
	opts.MoonEnabled = false
	e := New(opts)

	s := e.State()
	if s.Moon != nil {
		t.Error("moon body present although disabled")
	}
	if s.MoonIntensity != 0 || s.MoonVisible {
		t.Errorf("moon light = %v visible=%v, want 0 false", s.MoonIntensity, s.MoonVisible)
	}
}

func TestFullMoonAtNight(t *testing.T) {
	// 2023-08-31 01:36 UTC full moon, seen from the equator at local midnight.
	opts := testOptions()
	opts.ReferenceYear = 2023
	opts.DayOfYear = 243
	opts.TimeOfDay = 0
	e := New(opts)

	s := e.State()
	if s.SunVisible {
		t.Error("sun visible at midnight")
	}
	if e.MoonIllumination() < 0.95 {
		t.Errorf("illumination = %.3f, want > 0.95", e.MoonIllumination())
	}
	if !s.MoonVisible {
		t.Fatalf("full moon not visible at midnight, alt %.2f°", s.Moon.AltitudeDegrees())
	}
	want := BaseMoonIntensity * s.Phase.Illumination * s.MoonFactor * math.Sin(s.Moon.Altitude)
	if math.Abs(s.MoonIntensity-want) > 1e-12 {
		t.Errorf("moon intensity = %v, want %v", s.MoonIntensity, want)
	}
	if e.MoonPhase().Name != "Full Moon" {
		t.Errorf("phase name = %q, want Full Moon", e.MoonPhase().Name)
	}
}

func TestLunarSeriesOption(t *testing.T) {
	opts := testOptions()
	opts.ReferenceYear = 2023
	opts.DayOfYear = 28
	opts.TimeOfDay = 15.3

	short := New(opts).MoonPhase()
	opts.LunarSeries = ephemeris.CentreSeries
	centre := New(opts).MoonPhase()

	if short.Elongation == centre.Elongation {
		t.Error("lunar series option did not change the moon position")
	}
	// 2023-01-28 15:19 UTC first quarter.
	if math.Abs(centre.Illumination-0.5) > math.Abs(short.Illumination-0.5) {
		t.Errorf("centre series illumination %.3f further from quarter than short %.3f",
			centre.Illumination, short.Illumination)
	}
}

func TestMinMoonIllumination(t *testing.T) {
	opts := testOptions()
	opts.ReferenceYear = 2023
	opts.DayOfYear = 243
	opts.TimeOfDay = 0
	opts.MinMoonIllumination = 1.01
	e := New(opts)

	if e.State().MoonVisible {
		t.Error("moon visible below the illumination threshold")
	}
}

type countingSink struct {
	intensity map[lighting.Light]float64
	updates   int
}

func (c *countingSink) SetDirection(lighting.Light, r3.Vec) {}
func (c *countingSink) SetIntensity(l lighting.Light, v float64) {
	c.intensity[l] = v
	if l == lighting.LightSun {
		c.updates++
	}
}
func (c *countingSink) SetColor(lighting.Light, lighting.Color) {}

func TestBindPushesImmediately(t *testing.T) {
	e := New(testOptions())
	sink := &countingSink{intensity: map[lighting.Light]float64{}}

	unbind := e.Bind(sink)
	if sink.updates != 1 {
		t.Fatalf("Bind pushed %d updates, want 1", sink.updates)
	}
	if sink.intensity[lighting.LightSun] != e.State().SunIntensity {
		t.Error("bound sink does not carry the current sun intensity")
	}

	e.SetTimeOfDay(0)
	if sink.intensity[lighting.LightSun] != 0 {
		t.Errorf("sun intensity at midnight = %v, want 0", sink.intensity[lighting.LightSun])
	}

	unbind()
	e.SetTimeOfDay(12)
	if sink.updates != 2 {
		t.Errorf("sink updated %d times after unbind, want 2", sink.updates)
	}
}
