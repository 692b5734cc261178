// Package input turns SDL2 events into viewer actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/skylight/internal/controls"
)

// Bindings maps scancodes to actions.
var Bindings = map[sdl.Scancode]controls.Action{
	sdl.SCANCODE_LEFT:  controls.ActionTimeBack,
	sdl.SCANCODE_RIGHT: controls.ActionTimeForward,
	sdl.SCANCODE_DOWN:  controls.ActionDayBack,
	sdl.SCANCODE_UP:    controls.ActionDayForward,
	sdl.SCANCODE_W:     controls.ActionCycleWeather,
	sdl.SCANCODE_T:     controls.ActionToggleSystemTime,
	sdl.SCANCODE_L:     controls.ActionNextPlace,
	sdl.SCANCODE_1:     controls.ActionToggleSunHelper,
	sdl.SCANCODE_2:     controls.ActionToggleMoonHelper,
}

// Frame is the input gathered by one Poll.
type Frame struct {
	Quit       bool
	Resized    bool
	Screenshot bool
	Actions    []controls.Action
}

// Input polls SDL events.
type Input struct {
	frame Frame
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		frame: Frame{Actions: make([]controls.Action, 0, 8)},
	}
}

// Poll drains the SDL event queue. Key repeats are kept so holding an arrow
// key scrubs through time.
func (i *Input) Poll() Frame {
	i.frame.Quit = false
	i.frame.Resized = false
	i.frame.Screenshot = false
	i.frame.Actions = i.frame.Actions[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.frame.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.frame.Resized = true
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				continue
			}
			switch e.Keysym.Scancode {
			case sdl.SCANCODE_ESCAPE:
				i.frame.Quit = true
				continue
			case sdl.SCANCODE_P:
				if e.Repeat == 0 {
					i.frame.Screenshot = true
				}
				continue
			}
			if a, ok := Bindings[e.Keysym.Scancode]; ok {
				i.frame.Actions = append(i.frame.Actions, a)
			}
		}
	}

	return i.frame
}
