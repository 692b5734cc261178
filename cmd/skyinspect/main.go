// Command skyinspect is a terminal inspector for the sky lighting engine.
// With --summary it prints one report and exits.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Faultbox/skylight/internal/config"
	"github.com/Faultbox/skylight/internal/inspect"
	"github.com/Faultbox/skylight/internal/logger"
	"github.com/Faultbox/skylight/internal/sky"
)

const (
	defaultTick = time.Second
	minTick     = 100 * time.Millisecond
)

var (
	summaryMode = flag.Bool("summary", false, "Print a text summary instead of the TUI")
	tick        = flag.Duration("tick", defaultTick, "Engine tick interval in the TUI")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so it only logs to a file.
	fileCfg := logger.DefaultFileConfig(cfg.Logging.LogFile)
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, *summaryMode); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	engine := sky.New(cfg.Sky.Options())

	if *summaryMode {
		fmt.Print(inspect.Summary(engine.State()))
		return
	}

	if *tick < minTick {
		*tick = minTick
	}

	p := tea.NewProgram(inspect.New(engine, *tick), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("inspector failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
