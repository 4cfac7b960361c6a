// Package runner implements the endless runner core: the session state
// machine, the obstacle field, the player controller and the overlay
// controller. It never draws anything; rendering, input devices and
// persistence are reached through the small interfaces in this package.
package runner

// Status is the lifecycle state of a session.
type Status int

const (
	StatusReady Status = iota
	StatusPlaying
	StatusPaused
	StatusGameOver
)

// String returns the display name of the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusGameOver:
		return "Game Over"
	default:
		return "Unknown"
	}
}

// Pose is the presentation state of the player. It is never read by
// simulation logic.
type Pose int

const (
	PoseIdle Pose = iota
	PoseMove
	PoseJump
	PoseFall
	PoseDeath
)

// String returns the animation name suffix for the pose.
func (p Pose) String() string {
	switch p {
	case PoseIdle:
		return "idle"
	case PoseMove:
		return "move"
	case PoseJump:
		return "jump"
	case PoseFall:
		return "fall"
	case PoseDeath:
		return "death"
	default:
		return "unknown"
	}
}

// Entity identifies what a pose is played on.
type Entity int

const (
	EntityPlayer Entity = iota
	EntityObstacle
)

// State is the authoritative game record of a session.
type State struct {
	Status             Status
	Score              int
	Speed              float64
	RespawnAccumulator float64
}

// Menu is the overlay menu currently requested by the session.
type Menu int

const (
	MenuNone Menu = iota
	MenuPaused
	MenuGameOver
)

// Engine is the rendering/physics collaborator. The session calls it and
// never reads its internal state back.
type Engine interface {
	// AdvancePositions scrolls the scenery by the given distance.
	AdvancePositions(distance float64)
	// PlayPose starts the animation for a pose on an entity.
	PlayPose(entity Entity, pose Pose, mirrored bool)
	// PauseSimulation freezes animations and scrolling.
	PauseSimulation()
	// ResumeSimulation undoes PauseSimulation.
	ResumeSimulation()
}

// Presenter is the session's handle to the overlay's display callbacks.
type Presenter interface {
	ShowPauseAffordance()
	ShowMenu(menu Menu)
	HideMenu()
	ScoreChanged(score int)
	HighScoreChanged(value int)
}

// Host is the scene boundary around a session: the menus that start a
// session for a character and take over again when it exits.
type Host interface {
	OnSessionStart(character string)
	OnSessionExit()
}

// HighScoreStore persists one scalar high score per key. Both calls may fail.
type HighScoreStore interface {
	// Get returns the stored value and whether one exists.
	Get(key string) (int, bool, error)
	// Set stores the value for key.
	Set(key string, value int) error
}

// HighScoreKey returns the persistence key for a level/character pair.
func HighScoreKey(level, character string) string {
	return level + "/" + character + "/high_score"
}

// NopEngine is an Engine that ignores every call. Used headless.
type NopEngine struct{}

func (NopEngine) AdvancePositions(float64)    {}
func (NopEngine) PlayPose(Entity, Pose, bool) {}
func (NopEngine) PauseSimulation()            {}
func (NopEngine) ResumeSimulation()           {}

type nopPresenter struct{}

func (nopPresenter) ShowPauseAffordance() {}
func (nopPresenter) ShowMenu(Menu)        {}
func (nopPresenter) HideMenu()            {}
func (nopPresenter) ScoreChanged(int)     {}
func (nopPresenter) HighScoreChanged(int) {}
