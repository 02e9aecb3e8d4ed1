// Package registry provides a global registry for effect factories.
// Effects register themselves in init() functions, allowing the platform
// to discover and instantiate effects without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cosmos/internal/core"
)

// Effect is the interface every animated effect implements.
// Effects contain pure logic with no terminal dependencies (especially no
// Bubble Tea). The platform handles input mapping, timing, and rendering.
type Effect interface {
	// ID returns a unique identifier (e.g., "cosmos", "comets").
	// Used for CLI commands and session telemetry.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or rebuilds the effect for the given screen.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by dt.
	Step(dt time.Duration)

	// Handle receives pointer and wheel events in container pixels.
	Handle(ev core.InputEvent)

	// Do performs a keyboard action such as zoom or explode.
	Do(a core.Action)

	// Resize reports a new screen size in cells.
	Resize(width, height int)

	// Render draws the current frame into the provided screen buffer.
	Render(dst *core.Screen)

	// Stats summarizes the run for telemetry.
	Stats() core.EffectStats

	// Close releases timers. The effect must not be used afterwards.
	Close()
}

// Env carries host settings into a factory.
type Env struct {
	Logger     *log.Logger
	Title      string
	Subtitle   string
	WheelNotch float64
}

// EffectInfo contains metadata about a registered effect.
type EffectInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a new instance of an effect.
type Factory func(env Env) Effect

// ErrUnknownEffect is returned by Create for unregistered ids.
var ErrUnknownEffect = errors.New("registry: unknown effect")

type entry struct {
	factory     Factory
	title       string
	description string
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds an effect factory to the registry.
// Typically called from an effect package's init() function.
// Panics if an effect with the same ID is already registered.
func Register(id, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: effect %q already registered", id))
	}

	// Get title by creating a temporary instance
	e := f(Env{})
	title := e.Title()
	e.Close()

	entries[id] = entry{factory: f, title: title, description: description}
}

// List returns information about all registered effects, sorted by ID.
func List() []EffectInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]EffectInfo, 0, len(entries))
	for id, e := range entries {
		result = append(result, EffectInfo{
			ID:          id,
			Title:       e.title,
			Description: e.description,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new effect by its ID.
// Returns an error wrapping ErrUnknownEffect if the ID is not registered.
func Create(id string, env Env) (Effect, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEffect, id)
	}

	return e.factory(env), nil
}

// Exists checks if an effect with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
