package runner

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// memStore is an in-memory HighScoreStore.
type memStore struct {
	values map[string]int
	getErr error
	setErr error
	sets   int
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]int)}
}

func (m *memStore) Get(key string) (int, bool, error) {
	if m.getErr != nil {
		return 0, false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) Set(key string, value int) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

type poseCall struct {
	entity   Entity
	pose     Pose
	mirrored bool
}

// fakeEngine records collaborator calls.
type fakeEngine struct {
	advanced float64
	poses    []poseCall
	paused   int
	resumed  int
}

func (e *fakeEngine) AdvancePositions(d float64) { e.advanced += d }
func (e *fakeEngine) PlayPose(entity Entity, pose Pose, mirrored bool) {
	e.poses = append(e.poses, poseCall{entity, pose, mirrored})
}
func (e *fakeEngine) PauseSimulation()  { e.paused++ }
func (e *fakeEngine) ResumeSimulation() { e.resumed++ }

func (e *fakeEngine) lastPose() Pose {
	if len(e.poses) == 0 {
		return -1
	}
	return e.poses[len(e.poses)-1].pose
}

type fakeHost struct {
	started []string
	exits   int
}

func (h *fakeHost) OnSessionStart(character string) { h.started = append(h.started, character) }
func (h *fakeHost) OnSessionExit()                  { h.exits++ }

type fakeRecorder struct {
	scores []int
}

func (r *fakeRecorder) RecordRun(_, _, _ string, score int) error {
	r.scores = append(r.scores, score)
	return nil
}

type harness struct {
	s      *Session
	sched  *ManualScheduler
	store  *memStore
	engine *fakeEngine
	host   *fakeHost
	frame  time.Duration
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.DefaultRunnerConfig()
	h := &harness{
		sched:  NewManualScheduler(),
		store:  newMemStore(),
		engine: &fakeEngine{},
		host:   &fakeHost{},
		frame:  cfg.Physics.FrameDuration(),
	}
	h.s = NewSession(Options{
		Config:    cfg,
		Character: "adam",
		Seed:      42,
		Engine:    h.engine,
		Store:     h.store,
		Scheduler: h.sched,
		Host:      h.host,
	})
	return h
}

// run drives both clocks for n frames.
func (h *harness) run(n int) {
	for i := 0; i < n; i++ {
		h.s.FrameTick(h.frame)
		h.sched.Advance(h.frame)
	}
}

func TestSessionStart(t *testing.T) {
	h := newHarness(t)
	if h.s.Status() != StatusReady {
		t.Fatalf("Status() = %v, expected Ready", h.s.Status())
	}

	h.s.Start()

	if h.s.Status() != StatusPlaying {
		t.Errorf("Status() = %v, expected Playing", h.s.Status())
	}
	if h.s.Score() != 0 || h.s.Speed() != 8 {
		t.Errorf("score/speed = %d/%v, expected 0/8", h.s.Score(), h.s.Speed())
	}
	if h.engine.resumed != 1 {
		t.Errorf("ResumeSimulation called %d times, expected 1", h.engine.resumed)
	}
	if len(h.host.started) != 1 || h.host.started[0] != "adam" {
		t.Errorf("OnSessionStart calls = %v", h.host.started)
	}
	if h.engine.lastPose() != PoseMove {
		t.Errorf("last pose = %v, expected move", h.engine.lastPose())
	}
	if !h.engine.poses[0].mirrored {
		t.Error("player pose should be mirrored")
	}

	// Start is only valid from Ready
	h.s.Start()
	if len(h.host.started) != 1 {
		t.Error("second Start should be a no-op")
	}
}

func TestScoreTicks(t *testing.T) {
	h := newHarness(t)
	h.s.Start()

	for i := 0; i < 10; i++ {
		h.s.ScoreTick()
	}
	if h.s.Score() != 10 {
		t.Errorf("score after 10 ticks = %d, expected 10", h.s.Score())
	}

	h.s.Restart() // no-op while playing
	h.s.Pause()
	h.s.Restart()
	for i := 0; i < 100; i++ {
		h.s.ScoreTick()
	}
	if math.Abs(h.s.Speed()-9.0) > 1e-9 {
		t.Errorf("speed after 100 ticks = %v, expected 9.0", h.s.Speed())
	}
}

func TestScoreTickFollowsWallClock(t *testing.T) {
	h := newHarness(t)
	h.s.Start()

	h.sched.Advance(time.Second)
	if h.s.Score() != 10 {
		t.Errorf("score after 1s = %d, expected 10", h.s.Score())
	}
}

func TestInvalidTransitionsAreNoOps(t *testing.T) {
	h := newHarness(t)

	h.s.Pause()
	h.s.Unpause()
	h.s.Restart()
	h.s.ScoreTick()
	h.s.FrameTick(h.frame)
	if h.s.Status() != StatusReady || h.s.Score() != 0 {
		t.Fatalf("state changed before Start: %+v", h.s.State())
	}

	h.s.Start()
	h.s.Unpause()
	if h.s.Status() != StatusPlaying {
		t.Errorf("Unpause while playing changed status to %v", h.s.Status())
	}
	h.s.Pause()
	h.s.Pause()
	if h.engine.paused != 1 {
		t.Errorf("PauseSimulation called %d times, expected 1", h.engine.paused)
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.s.Start()
	h.run(120)
	if h.s.Status() != StatusPlaying {
		t.Fatalf("collision before pause, status %v", h.s.Status())
	}
	if len(h.s.Obstacles()) == 0 {
		t.Fatal("expected at least one obstacle after 120 frames")
	}

	h.s.Pause()
	before := h.s.State()
	obstacles := h.s.Obstacles()

	h.run(300)
	for i := 0; i < 50; i++ {
		h.s.ScoreTick()
	}

	if h.s.State() != before {
		t.Errorf("state changed while paused: %+v -> %+v", before, h.s.State())
	}
	after := h.s.Obstacles()
	if len(after) != len(obstacles) {
		t.Fatalf("obstacle count changed while paused: %d -> %d", len(obstacles), len(after))
	}
	for i := range after {
		if after[i] != obstacles[i] {
			t.Errorf("obstacle %d moved while paused: %+v -> %+v", i, obstacles[i], after[i])
		}
	}

	h.s.Unpause()
	h.run(1)
	if h.s.Obstacles()[0].X >= obstacles[0].X {
		t.Error("obstacles should move again after Unpause")
	}
}

func TestRestartResets(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *harness)
	}{
		{"from paused", func(h *harness) { h.run(120); h.s.Pause() }},
		{"from game over", func(h *harness) { h.run(1000) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			h.s.Start()
			tc.setup(h)
			if h.s.Score() == 0 {
				t.Fatal("setup should have scored")
			}

			h.s.Restart()

			st := h.s.State()
			if st.Status != StatusPlaying {
				t.Errorf("Status = %v, expected Playing", st.Status)
			}
			if st.Score != 0 || st.Speed != 8 || st.RespawnAccumulator != 0 {
				t.Errorf("state not reset: %+v", st)
			}
			if n := len(h.s.Obstacles()); n != 0 {
				t.Errorf("%d obstacles left after restart", n)
			}
			if !h.s.Player().Grounded() || h.s.Player().VelocityY() != 0 {
				t.Error("player not reset to the ground")
			}
		})
	}
}

func TestMonotonicWhilePlaying(t *testing.T) {
	h := newHarness(t)
	h.s.Start()

	prev := h.s.State()
	for i := 0; i < 2000 && h.s.Status() == StatusPlaying; i++ {
		if i%30 == 0 {
			h.s.HandleInput(core.Press(core.ActionJump))
			h.s.HandleInput(core.Release(core.ActionJump))
		}
		h.run(1)
		cur := h.s.State()
		if cur.Score < prev.Score {
			t.Fatalf("score decreased at frame %d: %d -> %d", i, prev.Score, cur.Score)
		}
		if cur.Speed < prev.Speed {
			t.Fatalf("speed decreased at frame %d: %v -> %v", i, prev.Speed, cur.Speed)
		}
		prev = cur
	}
}

func TestCollisionEndsRun(t *testing.T) {
	h := newHarness(t)
	rec := &fakeRecorder{}
	h.s.recorder = rec
	h.s.Start()

	// Never jumping, the first obstacle must hit the player.
	h.run(1000)

	if h.s.Status() != StatusGameOver {
		t.Fatalf("Status = %v, expected GameOver", h.s.Status())
	}
	if h.engine.lastPose() != PoseDeath {
		t.Errorf("last pose = %v, expected death", h.engine.lastPose())
	}
	if !h.s.Player().Grounded() {
		t.Error("player should be snapped to the ground on game over")
	}
	if got, ok := h.store.values[h.s.Key()]; !ok || got != h.s.Score() {
		t.Errorf("stored high score = %d (%v), expected %d", got, ok, h.s.Score())
	}
	if len(rec.scores) != 1 || rec.scores[0] != h.s.Score() {
		t.Errorf("recorded runs = %v", rec.scores)
	}

	score := h.s.Score()
	h.run(100)
	if h.s.Score() != score {
		t.Error("score changed after game over")
	}
}

func TestHighScoreKeepsMaximum(t *testing.T) {
	tests := []struct {
		stored int
		score  int
		want   int
	}{
		{200, 250, 250},
		{300, 250, 300},
		{250, 250, 250},
	}

	for _, tc := range tests {
		h := newHarness(t)
		h.store.values[h.s.Key()] = tc.stored
		h.s.Start()
		h.s.state.Score = tc.score

		h.s.onCollision()

		if got := h.store.values[h.s.Key()]; got != tc.want {
			t.Errorf("stored %d, score %d: high score = %d, expected %d", tc.stored, tc.score, got, tc.want)
		}
	}
}

func TestStoreFailuresAreTolerated(t *testing.T) {
	h := newHarness(t)
	h.store.getErr = errors.New("disk gone")
	h.store.setErr = errors.New("disk gone")
	overlay := NewOverlay(h.s, nil, h.store, h.s.Key(), nil)
	h.s.Attach(overlay)

	h.s.Start()
	h.s.state.Score = 42
	h.s.onCollision()

	if h.s.Status() != StatusGameOver {
		t.Fatalf("Status = %v, expected GameOver", h.s.Status())
	}
	if h.store.sets != 1 {
		t.Errorf("Set called %d times, expected 1 (read failure counts as no score)", h.store.sets)
	}
	if overlay.HighScoreText() != "00042" {
		t.Errorf("high score text = %q, expected 00042", overlay.HighScoreText())
	}

	h.s.Restart()
	if h.s.Status() != StatusPlaying {
		t.Error("session should continue after store failures")
	}
}

func TestPauseThenRestart(t *testing.T) {
	h := newHarness(t)
	h.s.Start()
	h.run(120)

	h.s.Pause()
	h.s.Restart()

	st := h.s.State()
	if st.Status != StatusPlaying || st.Score != 0 || st.Speed != 8 {
		t.Errorf("state after pause+restart = %+v", st)
	}
	if len(h.s.Obstacles()) != 0 {
		t.Error("obstacles should be cleared")
	}
}

func TestScoreTaskNotDuplicated(t *testing.T) {
	h := newHarness(t)
	h.s.Start()

	for i := 0; i < 5; i++ {
		h.s.Pause()
		h.s.Restart()
	}
	if n := h.sched.ActiveTasks(); n != 1 {
		t.Fatalf("active score tasks = %d, expected 1", n)
	}

	h.sched.Advance(time.Second)
	if h.s.Score() != 10 {
		t.Errorf("score after 1s = %d, expected 10 (one ticker)", h.s.Score())
	}

	h.s.Exit()
	if n := h.sched.ActiveTasks(); n != 0 {
		t.Errorf("active score tasks after exit = %d, expected 0", n)
	}
	if h.host.exits != 1 {
		t.Errorf("OnSessionExit called %d times, expected 1", h.host.exits)
	}

	h.s.Exit()
	if h.host.exits != 1 {
		t.Error("second Exit should be a no-op")
	}
	h.s.ScoreTick()
	if h.s.Score() != 10 {
		t.Error("ScoreTick after exit changed score")
	}
}

func TestJumpInput(t *testing.T) {
	h := newHarness(t)
	h.s.Start()

	// Press and release before the frame still jumps.
	h.s.HandleInput(core.Press(core.ActionJump))
	h.s.HandleInput(core.Release(core.ActionJump))
	h.s.FrameTick(h.frame)

	p := h.s.Player()
	if p.Grounded() || p.VelocityY() >= 0 {
		t.Fatalf("expected airborne upward, grounded=%v vy=%v", p.Grounded(), p.VelocityY())
	}
	if h.engine.lastPose() != PoseJump {
		t.Errorf("last pose = %v, expected jump", h.engine.lastPose())
	}

	// A press while airborne is ignored.
	vy := p.VelocityY()
	h.s.HandleInput(core.Press(core.ActionJump))
	h.s.HandleInput(core.Release(core.ActionJump))
	h.s.FrameTick(h.frame)
	if p.VelocityY() <= vy {
		t.Errorf("airborne jump changed velocity: %v -> %v", vy, p.VelocityY())
	}
}

func TestJumpIgnoredWhenNotPlaying(t *testing.T) {
	h := newHarness(t)
	h.s.Start()
	h.s.Pause()

	h.s.HandleInput(core.Press(core.ActionJump))
	h.s.Unpause()
	h.s.FrameTick(h.frame)

	if !h.s.Player().Grounded() {
		t.Error("jump pressed while paused should not carry over")
	}
}

func TestSpawnCadence(t *testing.T) {
	h := newHarness(t)
	h.s.Start()

	// Frame clock only: speed stays at 8 units per frame and the first
	// spawn needs 750..900 units.
	for i := 0; i < 93; i++ {
		h.s.FrameTick(h.frame)
	}
	if n := len(h.s.Obstacles()); n != 0 {
		t.Fatalf("%d obstacles after 744 units, expected 0", n)
	}
	for i := 0; i < 20; i++ {
		h.s.FrameTick(h.frame)
	}
	obs := h.s.Obstacles()
	if len(obs) != 1 {
		t.Fatalf("%d obstacles after 904 units, expected 1", len(obs))
	}
	if obs[0].Y+obs[0].Height != 675 {
		t.Errorf("obstacle bottom = %v, expected ground 675", obs[0].Y+obs[0].Height)
	}
}

func TestFrameDeltaScaling(t *testing.T) {
	h := newHarness(t)
	h.s.Start()

	h.s.FrameTick(h.frame * 2)
	if math.Abs(h.engine.advanced-16) > 1e-9 {
		t.Errorf("advanced %v units in two frames, expected 16", h.engine.advanced)
	}
}
