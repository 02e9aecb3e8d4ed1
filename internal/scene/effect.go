package scene

import (
	"github.com/vovakirdan/tui-cosmos/internal/registry"
)

// Default hero text.
const (
	DefaultTitle    = "C O S M O S"
	DefaultSubtitle = "drag to pan · scroll to zoom · click the title"
)

// Effect adapts a Scene to the registry.
type Effect struct {
	*Scene
	id    string
	title string
}

// ID returns the registry id.
func (e *Effect) ID() string {
	return e.id
}

// Title returns the display name.
func (e *Effect) Title() string {
	return e.title
}

// NewEffect creates an unstarted effect with the given layers. Call Reset
// before stepping it.
func NewEffect(id, title string, layers Layers, env registry.Env) *Effect {
	opts := Options{
		Layers:     layers,
		Title:      env.Title,
		Subtitle:   env.Subtitle,
		WheelNotch: env.WheelNotch,
		Logger:     env.Logger,
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Subtitle == "" {
		opts.Subtitle = DefaultSubtitle
	}
	return &Effect{Scene: newScene(opts), id: id, title: title}
}

func init() {
	registry.Register("cosmos", "Particles, comets and background stars", func(env registry.Env) registry.Effect {
		return NewEffect("cosmos", "Cosmos", AllLayers, env)
	})
	registry.Register("particles", "Interactive particle field only", func(env registry.Env) registry.Effect {
		return NewEffect("particles", "Particle Field", Layers{Particles: true}, env)
	})
	registry.Register("comets", "Comets over a quiet star field", func(env registry.Env) registry.Effect {
		return NewEffect("comets", "Comets", Layers{Comets: true}, env)
	})
}
