package sky

import (
	"github.com/Faultbox/skylight/internal/lighting"
	"github.com/Faultbox/skylight/internal/weather"
)

type (
	// StateHandler receives every published snapshot.
	StateHandler func(lighting.State)

	// WeatherHandler receives weather preset changes.
	WeatherHandler func(previous, current weather.Preset)

	// SystemTimeHandler receives system-clock mode toggles.
	SystemTimeHandler func(enabled bool)
)

// observers is an ordered callback list. Removal copies the slice, so a
// notification already in progress keeps iterating its own view.
type observers[F any] struct {
	fns []*F
}

func (o *observers[F]) add(fn F) func() {
	p := &fn
	o.fns = append(o.fns, p)
	return func() {
		for i, q := range o.fns {
			if q == p {
				o.fns = append(o.fns[:i:i], o.fns[i+1:]...)
				return
			}
		}
	}
}

// each calls visit for a snapshot of the list, in registration order.
func (o *observers[F]) each(visit func(F)) {
	fns := o.fns
	for _, p := range fns {
		visit(*p)
	}
}

func (o *observers[F]) len() int { return len(o.fns) }
