package core

import "math"

// Action represents a semantic input, abstracted from physical devices.
// Keyboard, touch buttons and the virtual joystick are all normalized
// to this set before reaching the session.
type Action int

const (
	ActionNone    Action = iota
	ActionJump           // Space, Up, W, touch buttons, stick up
	ActionDown           // Down, S, stick down
	ActionLeft           // Left, A, stick left
	ActionRight          // Right, D, stick right
	ActionPause          // P, Escape - pause/unpause (pause button)
	ActionRestart        // R - restart from the pause or game over menu
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B - back to the title menu
	ActionQuit           // Q, Ctrl+C - exit program
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Event is a discrete input transition delivered by the input service.
type Event struct {
	Action   Action
	Released bool // false for pressed, true for released
}

// Press returns a pressed event for the action.
func Press(a Action) Event {
	return Event{Action: a}
}

// Release returns a released event for the action.
func Release(a Action) Event {
	return Event{Action: a, Released: true}
}

// Stick dead zones for the virtual joystick.
const (
	StickAxisThreshold  = 0.6 // |y| beyond this is a vertical push
	StickCrossThreshold = 0.4 // |x| beyond this is a horizontal push
)

// Stick converts a virtual joystick vector into press/release events.
// It remembers which directions are held so only transitions are emitted.
type Stick struct {
	held map[Action]bool
}

// NewStick creates a stick with nothing held.
func NewStick() *Stick {
	return &Stick{held: make(map[Action]bool)}
}

// Move updates the stick with a normalized vector in [-1, 1] on both axes
// (negative y is up) and returns the resulting transitions.
func (s *Stick) Move(x, y float64) []Event {
	want := map[Action]bool{
		ActionJump:  y < -StickAxisThreshold && math.Abs(x) < StickCrossThreshold,
		ActionDown:  y > StickAxisThreshold && math.Abs(x) < StickCrossThreshold,
		ActionLeft:  x < -StickCrossThreshold,
		ActionRight: x > StickCrossThreshold,
	}

	var events []Event
	for _, a := range []Action{ActionJump, ActionDown, ActionLeft, ActionRight} {
		if want[a] == s.held[a] {
			continue
		}
		s.held[a] = want[a]
		if want[a] {
			events = append(events, Press(a))
		} else {
			events = append(events, Release(a))
		}
	}
	return events
}

// Release lets go of the stick, releasing every held direction.
func (s *Stick) Release() []Event {
	return s.Move(0, 0)
}

// TouchButton maps either on-screen action button to a jump transition.
func TouchButton(down bool) Event {
	if down {
		return Press(ActionJump)
	}
	return Release(ActionJump)
}
