package runner

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Controls are the session intents the overlay may forward.
type Controls interface {
	Pause()
	Unpause()
	Restart()
	Exit()
	Status() Status
}

// View receives the overlay's projected display values. The terminal
// renderer implements it; nil discards.
type View interface {
	UpdateScoreDisplay(score string)
	UpdateHighScoreDisplay(value string)
}

// Button is one overlay menu entry.
type Button struct {
	Label  string
	Action func()
}

// flashEvery is the score interval at which the score display flashes.
const flashEvery = 100

// flashFrames is how many frames a score flash lasts.
const flashFrames = 12

// Overlay is the pause/game-over menu and score HUD. It holds display state
// only; every game decision is forwarded to Controls.
type Overlay struct {
	controls Controls
	view     View
	store    HighScoreStore
	key      string
	log      *log.Logger

	menuVisible     bool
	menu            Menu
	pauseAffordance bool
	scoreText       string
	highText        string
	flash           int
}

// NewOverlay creates an overlay forwarding to controls and reading the high
// score stored under key.
func NewOverlay(controls Controls, view View, store HighScoreStore, key string, logger *log.Logger) *Overlay {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	o := &Overlay{
		controls:  controls,
		view:      view,
		store:     store,
		key:       key,
		log:       logger,
		scoreText: padScore(0),
		highText:  padScore(0),
	}
	o.UpdateHighScoreDisplay(o.readHighScore())
	return o
}

// RequestPause forwards a pause intent.
func (o *Overlay) RequestPause() { o.controls.Pause() }

// RequestUnpause forwards an unpause intent.
func (o *Overlay) RequestUnpause() { o.controls.Unpause() }

// RequestRestart forwards a restart intent.
func (o *Overlay) RequestRestart() { o.controls.Restart() }

// RequestExit forwards an exit intent. The session performs the teardown
// and tells the host to return to the title menu.
func (o *Overlay) RequestExit() {
	o.menuVisible = false
	o.controls.Exit()
}

// TogglePause is the single pause/play button: pause while playing,
// continue while paused, restart after game over.
func (o *Overlay) TogglePause() {
	switch o.controls.Status() {
	case StatusPlaying:
		o.RequestPause()
	case StatusPaused:
		o.RequestUnpause()
	case StatusGameOver:
		o.RequestRestart()
	}
}

// Buttons returns the entries of the visible menu.
func (o *Overlay) Buttons() []Button {
	if !o.menuVisible {
		return nil
	}
	var buttons []Button
	if o.menu == MenuPaused {
		buttons = append(buttons, Button{Label: "Continue", Action: o.RequestUnpause})
	}
	return append(buttons,
		Button{Label: "Restart Game", Action: o.RequestRestart},
		Button{Label: "Exit to Main Menu", Action: o.RequestExit},
	)
}

// Select invokes the i-th visible button. Out of range is ignored.
func (o *Overlay) Select(i int) {
	buttons := o.Buttons()
	if i < 0 || i >= len(buttons) {
		return
	}
	buttons[i].Action()
}

// ShowPauseAffordance shows the pause button.
func (o *Overlay) ShowPauseAffordance() {
	o.pauseAffordance = true
}

// ShowMenu shows the pause or game-over menu.
func (o *Overlay) ShowMenu(menu Menu) {
	o.menu = menu
	o.menuVisible = menu != MenuNone
	o.pauseAffordance = !o.menuVisible
}

// HideMenu hides the menu.
func (o *Overlay) HideMenu() {
	o.menu = MenuNone
	o.menuVisible = false
}

// ScoreChanged refreshes both HUD values. The high score is re-read from
// the store; a read failure shows 0.
func (o *Overlay) ScoreChanged(score int) {
	if score > 0 && score%flashEvery == 0 {
		o.flash = flashFrames
	}
	o.UpdateScoreDisplay(score)
	o.UpdateHighScoreDisplay(o.readHighScore())
}

// HighScoreChanged shows a freshly committed high score.
func (o *Overlay) HighScoreChanged(value int) {
	o.UpdateHighScoreDisplay(value)
}

// UpdateScoreDisplay projects the score onto the HUD.
func (o *Overlay) UpdateScoreDisplay(score int) {
	o.scoreText = padScore(score)
	if o.view != nil {
		o.view.UpdateScoreDisplay(o.scoreText)
	}
}

// UpdateHighScoreDisplay projects the high score onto the HUD.
func (o *Overlay) UpdateHighScoreDisplay(value int) {
	o.highText = padScore(value)
	if o.view != nil {
		o.view.UpdateHighScoreDisplay(o.highText)
	}
}

// Tick ages the score flash by one frame.
func (o *Overlay) Tick() {
	if o.flash > 0 {
		o.flash--
	}
}

func (o *Overlay) readHighScore() int {
	if o.store == nil {
		return 0
	}
	v, ok, err := o.store.Get(o.key)
	if err != nil {
		o.log.Warn("read high score", "key", o.key, "error", err)
		return 0
	}
	if !ok {
		return 0
	}
	return v
}

func (o *Overlay) MenuVisible() bool     { return o.menuVisible }
func (o *Overlay) Menu() Menu            { return o.menu }
func (o *Overlay) PauseAffordance() bool { return o.pauseAffordance }
func (o *Overlay) ScoreText() string     { return o.scoreText }
func (o *Overlay) HighScoreText() string { return o.highText }
func (o *Overlay) Flashing() bool        { return o.flash > 0 }

// padScore formats a score the way the HUD shows it.
func padScore(v int) string {
	return fmt.Sprintf("%05d", v)
}
