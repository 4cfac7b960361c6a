package runner

import (
	"math/rand"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
)

// ObstacleKind selects the shape of a spawned obstacle.
type ObstacleKind int

const (
	ObstacleAloe ObstacleKind = iota // Aloe vera plant resting on the ground
)

// String returns the sprite name of the kind.
func (k ObstacleKind) String() string {
	switch k {
	case ObstacleAloe:
		return "aloe-vera"
	default:
		return "unknown"
	}
}

// obstacleKinds lists the kinds SpawnRandom draws from.
var obstacleKinds = []ObstacleKind{ObstacleAloe}

// Obstacle is a ground obstacle the player must jump over.
type Obstacle struct {
	ID     uint64
	Kind   ObstacleKind
	X      float64 // Left edge
	Y      float64 // Top edge
	Width  float64
	Height float64
	Alive  bool
}

// Bounds returns the collision box of the obstacle.
func (o Obstacle) Bounds() core.Box {
	return core.NewBox(o.X, o.Y, o.Width, o.Height)
}

type obstacleSize struct {
	w, h float64
}

// ObstacleField owns the live obstacles: it spawns them at the right
// boundary, scrolls them left and retires them past the left boundary.
type ObstacleField struct {
	obstacles []Obstacle // spawn order
	sizes     map[ObstacleKind]obstacleSize
	rng       *rand.Rand
	spawnX    float64
	groundY   float64
	nextID    uint64
}

// NewObstacleField creates an empty field. The RNG is shared with the
// session so a seed reproduces a whole run.
func NewObstacleField(cfg config.RunnerConfig, rng *rand.Rand) *ObstacleField {
	return &ObstacleField{
		obstacles: make([]Obstacle, 0, 8),
		sizes: map[ObstacleKind]obstacleSize{
			ObstacleAloe: {w: cfg.Obstacles.Width, h: cfg.Obstacles.Height},
		},
		rng:     rng,
		spawnX:  cfg.Field.Width,
		groundY: cfg.Field.GroundY,
	}
}

// Spawn creates one obstacle of the given kind at the right boundary.
func (f *ObstacleField) Spawn(kind ObstacleKind) Obstacle {
	size, ok := f.sizes[kind]
	if !ok {
		kind = ObstacleAloe
		size = f.sizes[kind]
	}

	f.nextID++
	o := Obstacle{
		ID:     f.nextID,
		Kind:   kind,
		X:      f.spawnX,
		Y:      f.groundY - size.h,
		Width:  size.w,
		Height: size.h,
		Alive:  true,
	}
	f.obstacles = append(f.obstacles, o)
	return o
}

// SpawnRandom draws a kind uniformly and spawns it. With a single kind
// registered the draw always selects it.
func (f *ObstacleField) SpawnRandom() Obstacle {
	kind := obstacleKinds[f.rng.Intn(len(obstacleKinds))]
	return f.Spawn(kind)
}

// Advance moves every obstacle left by distance and retires those whose
// trailing edge has passed the left boundary. Survivors keep spawn order.
func (f *ObstacleField) Advance(distance float64) {
	for i := range f.obstacles {
		f.obstacles[i].X -= distance
		if f.obstacles[i].X+f.obstacles[i].Width < 0 {
			f.obstacles[i].Alive = false
		}
	}

	alive := f.obstacles[:0]
	for _, o := range f.obstacles {
		if o.Alive {
			alive = append(alive, o)
		}
	}
	f.obstacles = alive
}

// Reset removes all obstacles.
func (f *ObstacleField) Reset() {
	f.obstacles = f.obstacles[:0]
}

// CollidesWith returns the first obstacle, in spawn order, whose bounds
// overlap b.
func (f *ObstacleField) CollidesWith(b core.Box) (Obstacle, bool) {
	for _, o := range f.obstacles {
		if o.Alive && o.Bounds().Intersects(b) {
			return o, true
		}
	}
	return Obstacle{}, false
}

// Obstacles returns a copy of the live obstacles in spawn order.
func (f *ObstacleField) Obstacles() []Obstacle {
	out := make([]Obstacle, len(f.obstacles))
	copy(out, f.obstacles)
	return out
}

// Len returns the number of live obstacles.
func (f *ObstacleField) Len() int {
	return len(f.obstacles)
}
