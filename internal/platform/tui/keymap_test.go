package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-runner/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"space", runeKey(' '), core.ActionJump, false},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionJump, false},
		{"w", runeKey('w'), core.ActionJump, false},
		{"p", runeKey('p'), core.ActionPause, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{"r", runeKey('r'), core.ActionRestart, false},
		{"b", runeKey('b'), core.ActionBack, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"q", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action, quit := km.MapKey(tc.msg)
			if action != tc.action || quit != tc.quit {
				t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tc.msg.String(), action, quit, tc.action, tc.quit)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{runeKey('b'), MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey('q'), MenuActionQuit},
		{runeKey('z'), MenuActionNone},
	}

	for _, tc := range tests {
		if got := km.MapKeyToMenuAction(tc.msg); got != tc.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tc.msg.String(), got, tc.want)
		}
	}
}

func TestJumpEvents(t *testing.T) {
	evs := JumpEvents()
	if len(evs) != 2 {
		t.Fatalf("JumpEvents() returned %d events, expected 2", len(evs))
	}
	if evs[0] != core.Press(core.ActionJump) || evs[1] != core.Release(core.ActionJump) {
		t.Errorf("JumpEvents() = %v, expected press then release", evs)
	}
}

func TestPointerTouchButton(t *testing.T) {
	p := NewPointer()

	evs := p.Map(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(evs) != 1 || evs[0] != core.TouchButton(true) {
		t.Errorf("left press = %v, expected a jump press", evs)
	}
	evs = p.Map(tea.MouseMsg{Action: tea.MouseActionRelease})
	if len(evs) != 1 || evs[0] != core.TouchButton(false) {
		t.Errorf("release = %v, expected a jump release", evs)
	}
}

func TestPointerDragStick(t *testing.T) {
	p := NewPointer()

	if evs := p.Map(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionMotion}); evs != nil {
		t.Errorf("motion without a drag = %v, expected nothing", evs)
	}

	p.Map(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	evs := p.Map(tea.MouseMsg{X: 10, Y: 7, Action: tea.MouseActionMotion})
	if len(evs) != 1 || evs[0] != core.Press(core.ActionJump) {
		t.Fatalf("drag up = %v, expected a jump press", evs)
	}

	// Holding still emits nothing new.
	if evs := p.Map(tea.MouseMsg{X: 10, Y: 6, Action: tea.MouseActionMotion}); len(evs) != 0 {
		t.Errorf("held drag = %v, expected no transitions", evs)
	}

	evs = p.Map(tea.MouseMsg{X: 10, Y: 6, Action: tea.MouseActionRelease})
	if len(evs) != 1 || evs[0] != core.Release(core.ActionJump) {
		t.Errorf("drag release = %v, expected a jump release", evs)
	}
}
