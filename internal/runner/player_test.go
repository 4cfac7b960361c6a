package runner

import (
	"testing"

	"github.com/vovakirdan/tui-runner/internal/config"
)

func TestPlayerJumpArc(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	p := NewPlayer(cfg)
	frame := cfg.Physics.FrameDuration()

	if !p.Jump() {
		t.Fatal("Jump() from the ground should succeed")
	}
	if p.Grounded() {
		t.Fatal("player still grounded after Jump()")
	}

	// Velocity must go strictly negative, then strictly positive, then zero
	// exactly at landing.
	phase := 0 // 0 rising, 1 falling
	ticks := 0
	for !p.Grounded() {
		p.Tick(frame)
		ticks++
		if ticks > 1000 {
			t.Fatal("player never landed")
		}
		vy := p.VelocityY()
		if p.Grounded() {
			break
		}
		switch {
		case vy < 0:
			if phase != 0 {
				t.Fatalf("tick %d: velocity went negative again after falling", ticks)
			}
		case vy > 0:
			phase = 1
		default:
			t.Fatalf("tick %d: zero velocity while airborne", ticks)
		}
		if p.Y() >= cfg.Field.GroundY {
			t.Fatalf("tick %d: airborne at or below ground", ticks)
		}
	}

	if phase != 1 {
		t.Error("player landed without a falling phase")
	}
	if p.VelocityY() != 0 {
		t.Errorf("VelocityY() at landing = %v, expected 0", p.VelocityY())
	}
	if p.Y() != cfg.Field.GroundY {
		t.Errorf("Y() at landing = %v, expected %v", p.Y(), cfg.Field.GroundY)
	}
}

func TestPlayerJumpGuard(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	p := NewPlayer(cfg)
	p.Jump()
	p.Tick(cfg.Physics.FrameDuration())

	vy := p.VelocityY()
	if p.Jump() {
		t.Error("Jump() while airborne should report false")
	}
	if p.VelocityY() != vy {
		t.Errorf("VelocityY() changed from %v to %v", vy, p.VelocityY())
	}
}

func TestPlayerMaxFallSpeed(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Physics.JumpImpulse = -6000
	p := NewPlayer(cfg)
	p.Jump()

	capped := false
	for i := 0; i < 600 && !p.Grounded(); i++ {
		p.Tick(cfg.Physics.FrameDuration())
		if p.VelocityY() > cfg.Physics.MaxFallSpeed {
			t.Fatalf("fall speed %v exceeds cap %v", p.VelocityY(), cfg.Physics.MaxFallSpeed)
		}
		if p.VelocityY() == cfg.Physics.MaxFallSpeed {
			capped = true
		}
	}
	if !capped {
		t.Error("a long fall should reach the fall speed cap")
	}
}

func TestPlayerBounds(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	p := NewPlayer(cfg)

	b := p.Bounds()
	if b.X != 65 || b.W != 69 || b.H != 154 || b.Bottom() != 675 {
		t.Errorf("Bounds() = %+v, expected feet on the ground at x=65", b)
	}
}

func TestPoseFor(t *testing.T) {
	tests := []struct {
		name     string
		grounded bool
		vy       float64
		status   Status
		want     Pose
	}{
		{"ready", true, 0, StatusReady, PoseIdle},
		{"running", true, 0, StatusPlaying, PoseMove},
		{"rising", false, -100, StatusPlaying, PoseJump},
		{"falling", false, 100, StatusPlaying, PoseFall},
		{"apex", false, 0, StatusPlaying, PoseFall},
		{"paused keeps physical pose", false, -100, StatusPaused, PoseJump},
		{"dead", true, 0, StatusGameOver, PoseDeath},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PoseFor(tc.grounded, tc.vy, tc.status); got != tc.want {
				t.Errorf("PoseFor() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestPlayerReset(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	p := NewPlayer(cfg)
	p.Jump()
	p.Tick(cfg.Physics.FrameDuration())

	p.Reset(PoseDeath)

	if !p.Grounded() || p.VelocityY() != 0 || p.Y() != cfg.Field.GroundY {
		t.Error("Reset() should put the player at rest on the ground")
	}
	if p.Pose() != PoseDeath {
		t.Errorf("Pose() = %v, expected death", p.Pose())
	}
}
