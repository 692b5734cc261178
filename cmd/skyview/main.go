// Command skyview renders the sky for a place and time in an OpenGL window.
//
// Keys: ←/→ time ±15 min, ↑/↓ day ±1, W weather, T system time,
// L next location, 1/2 sun/moon helpers, P screenshot, Esc quit.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/skylight/internal/config"
	"github.com/Faultbox/skylight/internal/controls"
	"github.com/Faultbox/skylight/internal/engine/debug"
	"github.com/Faultbox/skylight/internal/engine/input"
	"github.com/Faultbox/skylight/internal/engine/skyrenderer"
	"github.com/Faultbox/skylight/internal/engine/window"
	"github.com/Faultbox/skylight/internal/lighting"
	"github.com/Faultbox/skylight/internal/logger"
	"github.com/Faultbox/skylight/internal/sky"
)

const windowTitle = "Skylight"

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("skyview failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	width, height := win.DrawableSize()
	renderer, err := skyrenderer.New(width, height)
	if err != nil {
		return err
	}
	defer renderer.Close()

	engine := sky.New(cfg.Sky.Options())
	renderer.Update(engine.State())
	engine.Bind(renderer)
	engine.OnStateChanged(func(s lighting.State) {
		renderer.Update(s)
		win.SetTitle(title(s, engine.UsesSystemTime()))
	})
	win.SetTitle(title(engine.State(), engine.UsesSystemTime()))

	ctl := controls.New(engine, nil)
	in := input.New()
	shots := debug.NewScreenshotCapture("screenshots", "sky")

	logger.Info("skyview running",
		zap.Float64("lat", engine.Location().Latitude),
		zap.Float64("lon", engine.Location().Longitude),
	)

	for {
		frame := in.Poll()
		if frame.Quit {
			return nil
		}
		if frame.Resized {
			renderer.Resize(win.DrawableSize())
		}
		for _, a := range frame.Actions {
			if ctl.Do(a) {
				logger.Debug("action applied", zap.Stringer("action", a))
			}
		}

		engine.Tick()
		renderer.Draw()

		if frame.Screenshot {
			pixels, w, h := renderer.ReadPixels()
			if path, err := shots.CaptureFromPixels(pixels, w, h, engine.State()); err != nil {
				logger.Warn("screenshot failed", zap.Error(err))
			} else {
				logger.Info("screenshot saved", zap.String("path", path))
			}
		}

		win.SwapBuffers()
	}
}

func title(s lighting.State, system bool) string {
	mode := "manual"
	if system {
		mode = "system"
	}
	return fmt.Sprintf("%s | %s UTC (%s) | %.2f, %.2f | %s | sun %.1f° @ %.0f° | moon %s %.0f%%",
		windowTitle,
		s.Instant.UTC().Format("2006-01-02 15:04"),
		mode,
		s.Location.Latitude, s.Location.Longitude,
		s.Weather,
		s.Sun.AltitudeDegrees(), s.Sun.Bearing(),
		s.Phase.Name, s.Phase.Illumination*100,
	)
}
