// Package inspect provides a terminal sky inspector using Bubble Tea.
package inspect

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Faultbox/skylight/internal/controls"
	"github.com/Faultbox/skylight/internal/lighting"
	"github.com/Faultbox/skylight/internal/sky"
	"github.com/Faultbox/skylight/internal/weather"
)

const maxEvents = 6

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sunStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))

	moonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("153"))

	hiddenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))
)

// TickMsg triggers a periodic engine tick.
type TickMsg time.Time

// eventLog collects engine notifications. It lives behind a pointer because
// engine callbacks outlive any single copy of Model.
type eventLog struct {
	lines []string
	state lighting.State
}

func (l *eventLog) add(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	if len(l.lines) > maxEvents {
		l.lines = l.lines[len(l.lines)-maxEvents:]
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	engine   *sky.Engine
	controls *controls.Controller
	log      *eventLog
	interval time.Duration

	width int
}

// New creates the inspector over engine and subscribes to its events.
func New(engine *sky.Engine, interval time.Duration) Model {
	l := &eventLog{state: engine.State()}
	engine.OnStateChanged(func(s lighting.State) { l.state = s })
	engine.OnWeatherChanged(func(prev, cur weather.Preset) {
		l.add("weather %s → %s", prev, cur)
	})
	engine.OnSystemTimeToggled(func(enabled bool) {
		if enabled {
			l.add("following system clock")
		} else {
			l.add("manual time")
		}
	})

	if interval <= 0 {
		interval = time.Second
	}
	return Model{
		engine:   engine,
		controls: controls.New(engine, nil),
		log:      l,
		interval: interval,
		width:    80,
	}
}

// State returns the latest snapshot the model has seen.
func (m Model) State() lighting.State { return m.log.state }

// Events returns the recent event lines, oldest first.
func (m Model) Events() []string { return m.log.lines }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// KeyAction maps a key to a control action.
func KeyAction(key string) controls.Action {
	switch key {
	case "h", "left":
		return controls.ActionTimeBack
	case "l", "right":
		return controls.ActionTimeForward
	case "j", "down":
		return controls.ActionDayBack
	case "k", "up":
		return controls.ActionDayForward
	case "w":
		return controls.ActionCycleWeather
	case "t":
		return controls.ActionToggleSystemTime
	case "p":
		return controls.ActionNextPlace
	case "s":
		return controls.ActionToggleSunHelper
	case "m":
		return controls.ActionToggleMoonHelper
	}
	return controls.ActionNone
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		default:
			a := KeyAction(key)
			m.controls.Do(a)
			if a == controls.ActionNextPlace {
				if p, ok := m.controls.Place(); ok {
					m.log.add("location %s", p.Name)
				}
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case TickMsg:
		m.engine.Tick()
		return m, m.tickCmd()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	s := m.log.state
	var b strings.Builder

	b.WriteString(titleStyle.Render("Skylight inspector"))
	b.WriteString("\n\n")

	mode := "manual"
	if m.engine.UsesSystemTime() {
		mode = "system clock"
	}
	row(&b, "Time", fmt.Sprintf("%s UTC (%s, day %d, %s local)",
		s.Instant.UTC().Format("2006-01-02 15:04:05"), mode,
		m.engine.DayOfYear(), formatHours(m.engine.TimeOfDay())))
	row(&b, "Location", fmt.Sprintf("%.2f°, %.2f°", s.Location.Latitude, s.Location.Longitude))
	row(&b, "Weather", s.Weather.String())
	b.WriteString("\n")

	row(&b, "Sun", bodyLine(s.Sun, s.SunVisible, s.SunIntensity))
	if s.Moon != nil {
		row(&b, "Moon", bodyLine(*s.Moon, s.MoonVisible, s.MoonIntensity))
		row(&b, "Phase", fmt.Sprintf("%s, %.0f%% lit", s.Phase.Name, s.Phase.Illumination*100))
	} else {
		row(&b, "Moon", hiddenStyle.Render("disabled"))
	}
	row(&b, "Ambient", fmt.Sprintf("%.3f  sky %.3f  shadow %.2f",
		s.AmbientIntensity, s.SkyIntensity, s.ShadowBias))
	b.WriteString("\n")

	b.WriteString(CompassStrip(s, m.width-2))
	b.WriteString("\n\n")

	for _, line := range m.log.lines {
		b.WriteString(labelStyle.Render("  · " + line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("h/l time ±15m · j/k day ±1 · w weather · t system time · p location · s/m helpers · q quit"))
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %-9s", label)))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func bodyLine(body lighting.Body, visible bool, intensity float64) string {
	text := fmt.Sprintf("alt %6.2f°  bearing %5.1f°  intensity %.4f",
		body.AltitudeDegrees(), body.Bearing(), intensity)
	if !visible {
		return hiddenStyle.Render(text + "  (below horizon or dim)")
	}
	return text
}

func formatHours(h float64) string {
	total := int(math.Round(h * 60))
	return fmt.Sprintf("%02d:%02d", total/60%24, total%60)
}

// CompassStrip renders the horizon as one line from north through east,
// south and west back to north, marking the sun (☼) and moon (☾). Bodies
// below the horizon are dimmed.
func CompassStrip(s lighting.State, width int) string {
	if width < 16 {
		width = 16
	}
	cells := make([]string, width)
	for i := range cells {
		cells[i] = hiddenStyle.Render("─")
	}
	for bearing, label := range map[float64]string{0: "N", 90: "E", 180: "S", 270: "W"} {
		cells[Column(bearing, width)] = labelStyle.Render(label)
	}

	if s.Moon != nil {
		style := moonStyle
		if !s.MoonVisible {
			style = hiddenStyle
		}
		cells[Column(s.Moon.Bearing(), width)] = style.Render("☾")
	}
	style := sunStyle
	if !s.SunVisible {
		style = hiddenStyle
	}
	cells[Column(s.Sun.Bearing(), width)] = style.Render("☼")

	return "  " + strings.Join(cells, "")
}

// Column maps a compass bearing in degrees onto [0, width).
func Column(bearing float64, width int) int {
	col := int(math.Round(bearing / 360 * float64(width)))
	return ((col % width) + width) % width
}

// Summary returns a plain-text report of s for non-interactive use.
func Summary(s lighting.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "instant      %s\n", s.Instant.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "location     %.4f, %.4f\n", s.Location.Latitude, s.Location.Longitude)
	fmt.Fprintf(&b, "weather      %s\n", s.Weather)
	fmt.Fprintf(&b, "sun          alt %.2f° bearing %.1f° intensity %.4f visible %t\n",
		s.Sun.AltitudeDegrees(), s.Sun.Bearing(), s.SunIntensity, s.SunVisible)
	if s.Moon != nil {
		fmt.Fprintf(&b, "moon         alt %.2f° bearing %.1f° intensity %.5f visible %t\n",
			s.Moon.AltitudeDegrees(), s.Moon.Bearing(), s.MoonIntensity, s.MoonVisible)
		fmt.Fprintf(&b, "phase        %s (%.1f%% lit, %s)\n",
			s.Phase.Name, s.Phase.Illumination*100, waxingWord(s.Phase.Waxing))
	}
	fmt.Fprintf(&b, "ambient      %.3f\n", s.AmbientIntensity)
	fmt.Fprintf(&b, "hemisphere   %.3f\n", s.SkyIntensity)
	fmt.Fprintf(&b, "shadow bias  %.2f\n", s.ShadowBias)
	return b.String()
}

func waxingWord(waxing bool) string {
	if waxing {
		return "waxing"
	}
	return "waning"
}
