package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/runner"
	"github.com/vovakirdan/tui-runner/internal/storage"
)

// maxFrameDelta caps a single frame step after a stall, so a slow
// terminal cannot tunnel the player through an obstacle.
const maxFrameDelta = 100 * time.Millisecond

// playRows is the screen height left for the scene under the help line.
func playRows(height int) int {
	return core.Max(1, height-1)
}

// GameOptions configures a GameModel.
type GameOptions struct {
	Config    config.RunnerConfig
	Character string
	Runtime   core.RuntimeConfig
	Store     *storage.Store // nil = no persistence
	Logger    *log.Logger
}

// gameHost receives the session's scene-boundary callbacks.
type gameHost struct {
	logger *log.Logger
	exited bool
}

func (h *gameHost) OnSessionStart(character string) {
	h.logger.Info("run started", "character", character)
}

func (h *gameHost) OnSessionExit() {
	h.exited = true
	h.logger.Info("back to title menu")
}

// GameModel is the Bubble Tea model for one runner session.
type GameModel struct {
	session *runner.Session
	overlay *runner.Overlay
	scene   *Scene
	sched   *teaScheduler
	host    *gameHost
	screen  *core.Screen
	keys    *KeyMapper
	pointer *Pointer
	help    help.Model
	config  core.RuntimeConfig
	logger  *log.Logger

	cursor   int // Selected overlay menu button
	lastTick time.Time
	quitting bool
}

// NewGameModel wires a session, its overlay and the terminal scene.
func NewGameModel(opts GameOptions) GameModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := opts.Runtime
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	// Keep nil interfaces nil: a typed nil *Store would pass the
	// session's nil checks.
	var (
		store    runner.HighScoreStore
		recorder runner.RunRecorder
	)
	if opts.Store != nil {
		store = opts.Store
		recorder = opts.Store
	}

	scene := NewScene(opts.Config.Field)
	sched := newTeaScheduler()
	host := &gameHost{logger: logger}

	session := runner.NewSession(runner.Options{
		Config:    opts.Config,
		Character: opts.Character,
		Seed:      cfg.Seed,
		Engine:    scene,
		Store:     store,
		Recorder:  recorder,
		Scheduler: sched,
		Host:      host,
		Logger:    logger,
	})
	overlay := runner.NewOverlay(session, scene, store, session.Key(), logger)
	session.Attach(overlay)

	h := help.New()
	h.ShowAll = false

	return GameModel{
		session: session,
		overlay: overlay,
		scene:   scene,
		sched:   sched,
		host:    host,
		screen:  core.NewScreen(cfg.ScreenW, playRows(cfg.ScreenH)),
		keys:    NewKeyMapper(),
		pointer: NewPointer(),
		help:    h,
		config:  cfg,
		logger:  logger,
	}
}

// Init starts the session and both clocks.
func (m GameModel) Init() tea.Cmd {
	m.session.Start()
	return tea.Batch(tickCmd(m.config.TickRate), m.sched.Drain())
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		for _, ev := range m.pointer.Map(msg) {
			m.session.HandleInput(ev)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playRows(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case scoreTickMsg:
		m.sched.Fire(msg)
		return m, m.sched.Drain()
	}

	return m, nil
}

// handleTick runs one frame with the measured wall-clock delta.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.host.exited {
		return m, nil
	}

	delta := m.session.Config().Physics.FrameDuration()
	if !m.lastTick.IsZero() {
		delta = min(now.Sub(m.lastTick), maxFrameDelta)
	}
	m.lastTick = now

	m.session.FrameTick(delta)
	m.overlay.Tick()
	m.scene.Tick(delta)

	return m, tea.Batch(tickCmd(m.config.TickRate), m.sched.Drain())
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Keys().Screenshot) {
		if err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		}
		return m, nil
	}

	action, quit := m.keys.MapKey(msg)
	if quit {
		m.quitting = true
		m.session.Exit()
		return m, tea.Quit
	}

	if m.overlay.MenuVisible() {
		m.handleMenuKey(msg, action)
		return m, m.sched.Drain()
	}

	switch action {
	case core.ActionJump:
		for _, ev := range JumpEvents() {
			m.session.HandleInput(ev)
		}
	case core.ActionPause:
		m.overlay.TogglePause()
		m.cursor = 0
	}
	return m, m.sched.Drain()
}

// handleMenuKey drives the pause or game over menu.
func (m *GameModel) handleMenuKey(msg tea.KeyMsg, action core.Action) {
	switch action {
	case core.ActionPause:
		m.overlay.TogglePause()
		m.cursor = 0
		return
	case core.ActionRestart:
		m.overlay.RequestRestart()
		m.cursor = 0
		return
	case core.ActionBack:
		m.overlay.RequestExit()
		return
	}

	buttons := m.overlay.Buttons()
	switch m.keys.MapKeyToMenuAction(msg) {
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(buttons)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.overlay.Select(m.cursor)
		m.cursor = 0
	case MenuActionBack:
		m.overlay.RequestExit()
	}
}

// saveScreenshot saves the current screen to a file.
func (m GameModel) saveScreenshot() error {
	m.render()

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".runner", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.session.Character(), timestamp)
	return os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

func (m GameModel) render() {
	m.scene.Render(m.screen, m.session, m.overlay, m.cursor)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || m.host.exited {
		return ""
	}

	m.render()
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys.Keys()))
}

// Session returns the running session.
func (m GameModel) Session() *runner.Session {
	return m.session
}

// IsQuitting returns true if the user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true once the session has exited to the title menu.
func (m GameModel) BackToMenu() bool {
	return m.host.exited && !m.quitting
}

// GameResult is how a standalone game program ended.
type GameResult struct {
	Score      int
	BackToMenu bool
}

// Run plays one session in its own Bubble Tea program.
func Run(opts GameOptions) (GameResult, error) {
	model := newStandaloneGame(NewGameModel(opts))

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Touch buttons and the drag stick
	)

	finalModel, err := p.Run()
	if err != nil {
		return GameResult{}, err
	}
	m, ok := finalModel.(standaloneGame)
	if !ok {
		return GameResult{}, nil
	}
	return GameResult{
		Score:      m.session.Score(),
		BackToMenu: m.BackToMenu(),
	}, nil
}

// standaloneGame quits the program when the session exits to the menu.
type standaloneGame struct {
	GameModel
}

func newStandaloneGame(m GameModel) standaloneGame {
	return standaloneGame{GameModel: m}
}

func (m standaloneGame) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.GameModel.Update(msg)
	if gm, ok := next.(GameModel); ok {
		m.GameModel = gm
	}
	if m.BackToMenu() {
		return m, tea.Quit
	}
	return m, cmd
}
