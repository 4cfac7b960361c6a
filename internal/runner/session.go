package runner

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// RunRecorder stores a finished run for the scoreboard. Optional.
type RunRecorder interface {
	RecordRun(sessionID, level, character string, score int) error
}

// Options configures a Session.
type Options struct {
	Config    config.RunnerConfig
	Character string
	Seed      int64 // 0 = seeded from the clock

	Engine    Engine
	Store     HighScoreStore
	Recorder  RunRecorder
	Scheduler Scheduler
	Host      Host
	Logger    *log.Logger
}

// Session is the runner's state machine. It owns the authoritative State,
// the player and the obstacle field, and drives both clocks:
// FrameTick from the host's render loop and ScoreTick from one scheduled
// task whose lifetime is tied to the session.
//
// Session is not safe for concurrent use; every call must come from the
// thread that drives FrameTick.
type Session struct {
	id        string
	cfg       config.RunnerConfig
	character string
	key       string

	state  State
	player *Player
	field  *ObstacleField
	ramp   config.Ramp
	rng    *rand.Rand

	frameDuration time.Duration
	spawnAt       float64 // Accumulated distance that triggers the next spawn

	jumpHeld   bool
	jumpQueued bool

	engine    Engine
	presenter Presenter
	store     HighScoreStore
	recorder  RunRecorder
	scheduler Scheduler
	host      Host
	log       *log.Logger

	scoreTask Task
	closed    bool
}

// NewSession creates a session in the Ready state.
func NewSession(opts Options) *Session {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	engine := opts.Engine
	if engine == nil {
		engine = NopEngine{}
	}
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = NewManualScheduler()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	id := uuid.NewString()
	s := &Session{
		id:            id,
		cfg:           opts.Config,
		character:     opts.Character,
		key:           HighScoreKey(opts.Config.Level, opts.Character),
		player:        NewPlayer(opts.Config),
		field:         NewObstacleField(opts.Config, rng),
		ramp:          config.NewRamp(opts.Config.Ramp),
		rng:           rng,
		frameDuration: opts.Config.Physics.FrameDuration(),
		engine:        engine,
		presenter:     nopPresenter{},
		store:         opts.Store,
		recorder:      opts.Recorder,
		scheduler:     scheduler,
		host:          opts.Host,
		log:           logger.With("session", id[:8], "character", opts.Character),
	}
	s.state = State{Status: StatusReady, Speed: s.ramp.Base()}
	s.spawnAt = s.nextSpawnDistance()
	return s
}

// Attach connects the overlay's display callbacks. A nil presenter detaches.
func (s *Session) Attach(p Presenter) {
	if p == nil {
		p = nopPresenter{}
	}
	s.presenter = p
}

// Start begins play from Ready.
func (s *Session) Start() {
	if s.closed || s.state.Status != StatusReady {
		return
	}

	s.reset()
	s.state.Status = StatusPlaying
	s.engine.ResumeSimulation()
	s.presenter.ShowPauseAffordance()
	s.presenter.ScoreChanged(0)
	s.armScoreTask()
	s.updatePose()

	if s.host != nil {
		s.host.OnSessionStart(s.character)
	}
	s.log.Debug("session started", "key", s.key)
}

// Pause suspends play.
func (s *Session) Pause() {
	if s.closed || s.state.Status != StatusPlaying {
		return
	}

	s.state.Status = StatusPaused
	s.jumpHeld, s.jumpQueued = false, false
	s.engine.PauseSimulation()
	s.presenter.ShowMenu(MenuPaused)
	s.log.Debug("session paused", "score", s.state.Score)
}

// Unpause resumes play after Pause.
func (s *Session) Unpause() {
	if s.closed || s.state.Status != StatusPaused {
		return
	}

	s.state.Status = StatusPlaying
	s.engine.ResumeSimulation()
	s.presenter.HideMenu()
	s.presenter.ShowPauseAffordance()
	s.log.Debug("session resumed", "score", s.state.Score)
}

// Restart resets the run and resumes play immediately. Valid from Paused
// and GameOver.
func (s *Session) Restart() {
	if s.closed {
		return
	}
	if s.state.Status != StatusPaused && s.state.Status != StatusGameOver {
		return
	}

	s.cancelScoreTask()
	s.reset()
	s.state.Status = StatusPlaying
	s.engine.ResumeSimulation()
	s.presenter.HideMenu()
	s.presenter.ShowPauseAffordance()
	s.presenter.ScoreChanged(0)
	s.armScoreTask()
	s.updatePose()
	s.log.Debug("session restarted")
}

// Exit tears the session down and hands control back to the host.
// Later calls are no-ops.
func (s *Session) Exit() {
	if s.closed {
		return
	}

	s.closed = true
	s.cancelScoreTask()
	s.engine.PauseSimulation()
	s.presenter.HideMenu()
	s.log.Debug("session exited", "status", s.state.Status, "score", s.state.Score)

	if s.host != nil {
		s.host.OnSessionExit()
	}
}

// FrameTick advances the simulation by delta of wall time. Obstacles move
// by speed per reference frame; the player integrates delta in seconds.
func (s *Session) FrameTick(delta time.Duration) {
	if s.closed || s.state.Status != StatusPlaying || delta <= 0 {
		return
	}

	frames := float64(delta) / float64(s.frameDuration)
	distance := s.state.Speed * frames

	if (s.jumpHeld || s.jumpQueued) && s.player.Grounded() {
		s.player.Jump()
	}
	s.jumpQueued = false
	s.player.Tick(delta)

	s.field.Advance(distance)
	s.engine.AdvancePositions(distance)

	s.state.RespawnAccumulator += distance
	if s.state.RespawnAccumulator >= s.spawnAt {
		s.field.SpawnRandom()
		s.state.RespawnAccumulator = 0
		s.spawnAt = s.nextSpawnDistance()
	}

	if _, hit := s.field.CollidesWith(s.player.Bounds()); hit {
		s.onCollision()
		return
	}
	s.updatePose()
}

// ScoreTick adds one point and one speed increment. It runs on the fixed
// wall-clock cadence, independent of the frame rate.
func (s *Session) ScoreTick() {
	if s.closed || s.state.Status != StatusPlaying {
		return
	}

	s.state.Score++
	s.state.Speed = s.ramp.Next(s.state.Speed)
	s.presenter.ScoreChanged(s.state.Score)
}

// HandleInput applies a jump event. A press is remembered until the next
// frame so a press and release arriving together still jump.
func (s *Session) HandleInput(ev core.Event) {
	if ev.Action != core.ActionJump {
		return
	}
	if ev.Released {
		s.jumpHeld = false
		return
	}
	if s.closed || s.state.Status != StatusPlaying {
		return
	}
	s.jumpHeld = true
	s.jumpQueued = true
}

// onCollision ends the run.
func (s *Session) onCollision() {
	if s.state.Status != StatusPlaying {
		return
	}

	s.state.Status = StatusGameOver
	s.jumpHeld, s.jumpQueued = false, false
	s.engine.PauseSimulation()
	s.player.Reset(PoseDeath)
	s.engine.PlayPose(EntityPlayer, PoseDeath, true)

	s.commitHighScore()
	s.recordRun()

	s.presenter.ShowMenu(MenuGameOver)
	s.log.Debug("game over", "score", s.state.Score, "speed", s.state.Speed)
}

// commitHighScore stores max(stored, score). Store failures never stop the
// session: a failed read counts as no prior score, a failed write is logged.
func (s *Session) commitHighScore() {
	if s.store == nil {
		return
	}

	stored, found, err := s.store.Get(s.key)
	if err != nil {
		s.log.Warn("read high score", "key", s.key, "error", err)
		stored, found = 0, false
	}

	best := max(stored, s.state.Score)
	if !found || s.state.Score > stored {
		if err := s.store.Set(s.key, best); err != nil {
			s.log.Warn("write high score", "key", s.key, "error", err)
		}
	}
	s.presenter.HighScoreChanged(best)
}

func (s *Session) recordRun() {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordRun(s.id, s.cfg.Level, s.character, s.state.Score); err != nil {
		s.log.Warn("record run", "error", err)
	}
}

// reset restores the base state shared by Start and Restart.
func (s *Session) reset() {
	s.state.Score = 0
	s.state.Speed = s.ramp.Base()
	s.state.RespawnAccumulator = 0
	s.spawnAt = s.nextSpawnDistance()
	s.field.Reset()
	s.player.Reset(PoseIdle)
	s.jumpHeld, s.jumpQueued = false, false
}

// nextSpawnDistance draws the spawn threshold from [interval, interval+jitter].
func (s *Session) nextSpawnDistance() float64 {
	o := s.cfg.Obstacles
	return float64(o.SpawnInterval + s.rng.Intn(o.SpawnJitter+1))
}

func (s *Session) armScoreTask() {
	s.cancelScoreTask()
	s.scoreTask = s.scheduler.Every(s.cfg.Ramp.ScoreInterval(), s.ScoreTick)
}

func (s *Session) cancelScoreTask() {
	if s.scoreTask != nil {
		s.scoreTask.Cancel()
		s.scoreTask = nil
	}
}

func (s *Session) updatePose() {
	if pose, changed := s.player.UpdatePose(s.state.Status); changed {
		s.engine.PlayPose(EntityPlayer, pose, true)
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// State returns a copy of the authoritative state.
func (s *Session) State() State { return s.state }

func (s *Session) Status() Status    { return s.state.Status }
func (s *Session) Score() int        { return s.state.Score }
func (s *Session) Speed() float64    { return s.state.Speed }
func (s *Session) Key() string       { return s.key }
func (s *Session) Character() string { return s.character }
func (s *Session) Level() string     { return s.cfg.Level }
func (s *Session) Closed() bool      { return s.closed }

// Player returns the player for rendering. Callers must not mutate it.
func (s *Session) Player() *Player { return s.player }

// Obstacles returns a copy of the live obstacles.
func (s *Session) Obstacles() []Obstacle { return s.field.Obstacles() }

// Config returns the session's configuration.
func (s *Session) Config() config.RunnerConfig { return s.cfg }
