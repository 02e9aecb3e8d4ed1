package core

// Action represents a semantic command, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionZoomIn         // +, = - one wheel notch up
	ActionZoomOut        // - - one wheel notch down
	ActionExplode        // e - same as clicking the title
	ActionPause          // p - freeze the simulation
	ActionHelp           // ? - toggle key help
	ActionQuit           // q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionZoomIn:
		return "ZoomIn"
	case ActionZoomOut:
		return "ZoomOut"
	case ActionExplode:
		return "Explode"
	case ActionPause:
		return "Pause"
	case ActionHelp:
		return "Help"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// EventType identifies a pointer or wheel event.
type EventType int

const (
	EventPointerMove EventType = iota
	EventPointerDown
	EventPointerUp
	EventWheel
)

// InputEvent is a pointer or wheel event in container pixel coordinates.
type InputEvent struct {
	Type   EventType
	Pos    Vec2    // Pointer position in pixels
	DeltaY float64 // Wheel delta in pixels (positive scrolls down)
}
