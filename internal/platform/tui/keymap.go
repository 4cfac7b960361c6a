package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// GameKeyMap defines the key bindings used while a session runs.
type GameKeyMap struct {
	Jump       key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Exit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Jump, k.Pause, k.Restart, k.Exit, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Jump, k.Pause, k.Restart},
		{k.Up, k.Down, k.Select},
		{k.Exit, k.Screenshot, k.Quit},
	}
}

// DefaultGameKeyMap returns the default bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Jump: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space/↑", "jump"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p/esc", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Exit: key.NewBinding(
			key.WithKeys("b", "x"),
			key.WithHelp("b", "main menu"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "menu up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "menu down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys GameKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultGameKeyMap()}
}

// Keys returns the bindings, for help rendering.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// MapKey translates a key pressed during play to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, km.keys.Jump):
		return core.ActionJump, false
	case key.Matches(msg, km.keys.Pause):
		return core.ActionPause, false
	case key.Matches(msg, km.keys.Restart):
		return core.ActionRestart, false
	case key.Matches(msg, km.keys.Exit):
		return core.ActionBack, false
	case key.Matches(msg, km.keys.Select):
		return core.ActionConfirm, false
	}
	return core.ActionNone, false
}

// JumpEvents returns the events for a jump key. Terminals report no key
// release, so a press is followed by its release right away.
func JumpEvents() []core.Event {
	return []core.Event{core.Press(core.ActionJump), core.Release(core.ActionJump)}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}

// stickRadius is the drag distance, in cells, of a full stick deflection.
const stickRadius = 4.0

// Pointer turns mouse input into touch events: the left button is the
// action button and a right-button drag is the virtual stick.
type Pointer struct {
	stick    *core.Stick
	dragging bool
	originX  int
	originY  int
}

// NewPointer creates a pointer with nothing held.
func NewPointer() *Pointer {
	return &Pointer{stick: core.NewStick()}
}

// Map converts a mouse message to input events.
func (p *Pointer) Map(msg tea.MouseMsg) []core.Event {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return []core.Event{core.TouchButton(true)}
		case tea.MouseButtonRight:
			p.dragging = true
			p.originX, p.originY = msg.X, msg.Y
		}
	case tea.MouseActionMotion:
		return p.drag(msg.X, msg.Y)
	case tea.MouseActionRelease:
		// Some terminals report releases without a button.
		if p.dragging {
			p.dragging = false
			return p.stick.Release()
		}
		return []core.Event{core.TouchButton(false)}
	}
	return nil
}

func (p *Pointer) drag(x, y int) []core.Event {
	if !p.dragging {
		return nil
	}
	dx := core.ClampF(float64(x-p.originX)/stickRadius, -1, 1)
	// Terminal cells are about twice as tall as wide.
	dy := core.ClampF(float64(y-p.originY)*2/stickRadius, -1, 1)
	return p.stick.Move(dx, dy)
}
