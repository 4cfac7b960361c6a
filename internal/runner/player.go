package runner

import (
	"time"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// Player owns the runner's vertical physics. Y grows downward and is the
// position of the player's feet; the ground plane is at groundY.
type Player struct {
	x, w, h  float64
	y        float64 // Feet position
	vy       float64 // Vertical velocity, units per second (negative = up)
	grounded bool
	pose     Pose

	groundY     float64
	gravity     float64
	jumpImpulse float64
	maxFall     float64
}

// NewPlayer creates a grounded player in the idle pose.
func NewPlayer(cfg config.RunnerConfig) *Player {
	p := &Player{
		x:           cfg.Player.X,
		w:           cfg.Player.Width,
		h:           cfg.Player.Height,
		groundY:     cfg.Field.GroundY,
		gravity:     cfg.Physics.Gravity,
		jumpImpulse: cfg.Physics.JumpImpulse,
		maxFall:     cfg.Physics.MaxFallSpeed,
	}
	p.Reset(PoseIdle)
	return p
}

// Reset puts the player back on the ground at rest with the given pose.
func (p *Player) Reset(pose Pose) {
	p.y = p.groundY
	p.vy = 0
	p.grounded = true
	p.pose = pose
}

// Jump applies the jump impulse. It is ignored while airborne and reports
// whether the jump happened.
func (p *Player) Jump() bool {
	if !p.grounded {
		return false
	}
	p.vy = p.jumpImpulse
	p.grounded = false
	return true
}

// Tick integrates gravity over delta and resolves landing.
func (p *Player) Tick(delta time.Duration) {
	if p.grounded || delta <= 0 {
		return
	}

	dt := delta.Seconds()
	p.vy += p.gravity * dt
	if p.maxFall > 0 && p.vy > p.maxFall {
		p.vy = p.maxFall
	}
	p.y += p.vy * dt

	// Landed
	if p.y >= p.groundY {
		p.y = p.groundY
		p.vy = 0
		p.grounded = true
	}
}

// Bounds returns the collision box of the player.
func (p *Player) Bounds() core.Box {
	return core.NewBox(p.x, p.y-p.h, p.w, p.h)
}

func (p *Player) X() float64         { return p.x }
func (p *Player) Y() float64         { return p.y }
func (p *Player) VelocityY() float64 { return p.vy }
func (p *Player) Grounded() bool     { return p.grounded }
func (p *Player) Pose() Pose         { return p.pose }

// UpdatePose recomputes the pose for status and reports whether it changed.
func (p *Player) UpdatePose(status Status) (Pose, bool) {
	next := PoseFor(p.grounded, p.vy, status)
	if next == p.pose {
		return next, false
	}
	p.pose = next
	return next, true
}

// PoseFor maps physical state and session status to a presentation pose.
func PoseFor(grounded bool, vy float64, status Status) Pose {
	switch status {
	case StatusReady:
		return PoseIdle
	case StatusGameOver:
		return PoseDeath
	}
	if !grounded {
		if vy < 0 {
			return PoseJump
		}
		return PoseFall
	}
	return PoseMove
}
