package config

import (
	"flag"
	"strconv"
)

// optionalFloat is a float flag that remembers whether it was given, since
// zero is a valid latitude, longitude and time of day.
type optionalFloat struct {
	value float64
	set   bool
}

func (f *optionalFloat) String() string {
	if !f.set {
		return ""
	}
	return strconv.FormatFloat(f.value, 'g', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.value, f.set = v, true
	return nil
}

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLatitude   = &optionalFloat{}
	flagLongitude  = &optionalFloat{}
	flagDay        = flag.Int("day", 0, "Day of year (1-366)")
	flagTime       = &optionalFloat{}
	flagWeather    = flag.String("weather", "", "Weather preset: sunny, partly-cloudy, overcast")
	flagSystemTime = flag.Bool("system-time", false, "Follow the system clock")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

func init() {
	flag.Var(flagLatitude, "lat", "Observer latitude in degrees")
	flag.Var(flagLongitude, "lon", "Observer longitude in degrees, east positive")
	flag.Var(flagTime, "time", "Local time of day in hours")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagLatitude.set {
		cfg.Sky.Latitude = flagLatitude.value
	}
	if flagLongitude.set {
		cfg.Sky.Longitude = flagLongitude.value
	}
	if *flagDay > 0 {
		cfg.Sky.DayOfYear = *flagDay
	}
	if flagTime.set {
		cfg.Sky.TimeOfDay = flagTime.value
	}
	if *flagWeather != "" {
		if err := cfg.Sky.Weather.UnmarshalText([]byte(*flagWeather)); err != nil {
			return err
		}
	}
	if *flagSystemTime {
		cfg.Sky.UseSystemTime = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	return nil
}
