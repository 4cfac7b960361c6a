package tui

import (
	"time"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/runner"
)

// Visual characters for rendering
const (
	GroundChar = '═'
	PlayerBody = '█'
	PlayerHead = '●'
	PlayerFace = '◗'
	PlayerDead = 'x'
	AloeLeaf   = '▲'
	AloeStem   = '▓'
)

// instructionsFor is how long the controls banner stays up.
const instructionsFor = 4 * time.Second

// legStride is the scrolled distance between two running leg frames.
const legStride = 40.0

// layer is one parallax background band.
type layer struct {
	ratio   float64 // share of the scroll distance this band moves
	pattern string
	row     float64 // world Y of the band
	color   core.Color
}

// Four bands, far to near. At base speed 8 they move at 5, 6, 7 and 8
// units per frame.
var parallax = [4]layer{
	{ratio: 5.0 / 8, pattern: "      /\\        /\\/\\          /\\     ", row: 0.45, color: core.ColorGray},
	{ratio: 6.0 / 8, pattern: "   ~~~            ~~~~       ~~         ", row: 0.2, color: core.ColorWhite},
	{ratio: 7.0 / 8, pattern: "  ∩∩      ∩∩∩        ∩     ∩∩        ", row: 0.85, color: core.ColorDarkGreen},
	{ratio: 1, pattern: " ·    ·  ·      ·   ·     ", row: 0.97, color: core.ColorGray},
}

// Scene is the terminal renderer. It implements runner.Engine for the
// session and runner.View for the overlay, and never feeds anything back
// into the simulation.
type Scene struct {
	field config.FieldConfig

	offsets  [4]float64
	paused   bool
	pose     runner.Pose
	mirrored bool

	scoreText string
	highText  string
	elapsed   time.Duration
}

// NewScene creates a scene for the given field.
func NewScene(field config.FieldConfig) *Scene {
	return &Scene{
		field:     field,
		paused:    true,
		scoreText: "00000",
		highText:  "00000",
	}
}

// AdvancePositions scrolls the background bands.
func (sc *Scene) AdvancePositions(distance float64) {
	if sc.paused {
		return
	}
	for i := range sc.offsets {
		sc.offsets[i] += distance * parallax[i].ratio
	}
}

// PlayPose switches the player's sprite.
func (sc *Scene) PlayPose(entity runner.Entity, pose runner.Pose, mirrored bool) {
	if entity != runner.EntityPlayer {
		return
	}
	sc.pose = pose
	sc.mirrored = mirrored
}

func (sc *Scene) PauseSimulation()  { sc.paused = true }
func (sc *Scene) ResumeSimulation() { sc.paused = false }

func (sc *Scene) UpdateScoreDisplay(score string)     { sc.scoreText = score }
func (sc *Scene) UpdateHighScoreDisplay(value string) { sc.highText = value }

// Tick advances the banner clock. Time spent paused does not count.
func (sc *Scene) Tick(delta time.Duration) {
	if !sc.paused {
		sc.elapsed += delta
	}
}

// ShowingInstructions reports whether the controls banner is up.
func (sc *Scene) ShowingInstructions() bool {
	return sc.elapsed < instructionsFor
}

// viewport maps world coordinates to screen cells. Row 0 is the HUD.
type viewport struct {
	sx, sy float64
	top    int
}

func (sc *Scene) viewport(dst *core.Screen) viewport {
	rows := dst.Height() - 1
	if rows < 1 {
		rows = 1
	}
	return viewport{
		sx:  float64(dst.Width()) / sc.field.Width,
		sy:  float64(rows) / sc.field.Height,
		top: 1,
	}
}

func (v viewport) col(x float64) int { return int(x * v.sx) }
func (v viewport) row(y float64) int { return v.top + int(y*v.sy) }

// rect converts a world box to a screen rect at least one cell in size.
func (v viewport) rect(b core.Box) core.Rect {
	x, y := v.col(b.X), v.row(b.Y)
	w := core.Max(1, v.col(b.Right())-x)
	h := core.Max(1, v.row(b.Bottom())-y)
	return core.NewRect(x, y, w, h)
}

// Render draws the whole frame: background, obstacles, player, HUD and
// the overlay menu.
func (sc *Scene) Render(dst *core.Screen, s *runner.Session, o *runner.Overlay, cursor int) {
	dst.Clear()
	v := sc.viewport(dst)

	sc.drawBackground(dst, v)

	ground := v.row(sc.field.GroundY)
	dst.DrawHLine(0, ground, dst.Width(), GroundChar, core.ColorYellow)

	for _, ob := range s.Obstacles() {
		sc.drawObstacle(dst, v.rect(ob.Bounds()))
	}
	sc.drawPlayer(dst, v.rect(s.Player().Bounds()))

	sc.drawHUD(dst, s, o)

	if sc.ShowingInstructions() && s.Status() == runner.StatusPlaying {
		dst.DrawTextCentered(ground+2, "SPACE / ↑ to jump   P to pause", core.ColorBrightWhite)
	}

	if o.MenuVisible() {
		sc.drawMenu(dst, s, o, cursor)
	}
}

func (sc *Scene) drawBackground(dst *core.Screen, v viewport) {
	for i, l := range parallax {
		row := v.row(sc.field.GroundY * l.row)
		pattern := []rune(l.pattern)
		shift := int(sc.offsets[i] * v.sx)
		for x := 0; x < dst.Width(); x++ {
			r := pattern[(x+shift)%len(pattern)]
			if r != ' ' {
				dst.SetColored(x, row, r, l.color)
			}
		}
	}
}

func (sc *Scene) drawObstacle(dst *core.Screen, r core.Rect) {
	dst.DrawHLine(r.X, r.Y, r.W, AloeLeaf, core.ColorBrightGreen)
	if r.H > 1 {
		dst.DrawRect(core.NewRect(r.X, r.Y+1, r.W, r.H-1), AloeStem, core.ColorGreen)
	}
}

func (sc *Scene) drawPlayer(dst *core.Screen, r core.Rect) {
	color := core.ColorBrightCyan
	if sc.pose == runner.PoseDeath {
		color = core.ColorRed
	}

	dst.DrawRect(r, PlayerBody, color)

	// Head on the top row, face on the leading edge.
	faceX := r.X
	if sc.mirrored {
		faceX = r.Right() - 1
	}
	dst.SetColored(r.X+r.W/2, r.Y, PlayerHead, color)
	switch sc.pose {
	case runner.PoseDeath:
		dst.SetColored(faceX, r.Y, PlayerDead, core.ColorBrightWhite)
	default:
		dst.SetColored(faceX, r.Y, PlayerFace, core.ColorBrightWhite)
	}

	if r.H < 2 {
		return
	}
	legs := r.Bottom() - 1
	dst.DrawHLine(r.X, legs, r.W, ' ', core.ColorDefault)
	switch sc.pose {
	case runner.PoseMove:
		// Alternate stride with the scrolled distance.
		if int(sc.offsets[3]/legStride)%2 == 0 {
			dst.SetColored(r.X, legs, '╱', color)
			dst.SetColored(r.Right()-1, legs, '╲', color)
		} else {
			dst.SetColored(r.X+r.W/2, legs, '║', color)
		}
	case runner.PoseJump:
		dst.SetColored(r.X+r.W/2, legs, '╨', color)
	case runner.PoseFall:
		dst.SetColored(r.X, legs, '╲', color)
		dst.SetColored(r.Right()-1, legs, '╱', color)
	case runner.PoseDeath:
		dst.DrawHLine(r.X, legs, r.W, '_', color)
	default:
		dst.SetColored(r.X, legs, '║', color)
		dst.SetColored(r.Right()-1, legs, '║', color)
	}
}

func (sc *Scene) drawHUD(dst *core.Screen, s *runner.Session, o *runner.Overlay) {
	scoreColor := core.ColorBrightWhite
	if o.Flashing() {
		scoreColor = core.ColorBrightYellow
	}
	dst.DrawTextColored(1, 0, "Score: ", core.ColorWhite)
	dst.DrawTextColored(8, 0, sc.scoreText, scoreColor)
	dst.DrawTextColored(15, 0, "High: "+sc.highText, core.ColorOrange)
	dst.DrawTextColored(29, 0, s.Character(), core.ColorCyan)

	if o.PauseAffordance() {
		label := "[P] Pause"
		dst.DrawTextColored(dst.Width()-len(label)-1, 0, label, core.ColorGray)
	}
}

func (sc *Scene) drawMenu(dst *core.Screen, s *runner.Session, o *runner.Overlay, cursor int) {
	buttons := o.Buttons()
	title := "PAUSED"
	if o.Menu() == runner.MenuGameOver {
		title = "GAME OVER"
	}

	w := 28
	h := len(buttons) + 6
	box := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightWhite)

	dst.DrawTextCentered(box.Y+1, title, core.ColorBrightYellow)
	dst.DrawTextCentered(box.Y+2, "Score "+sc.scoreText+"  High "+sc.highText, core.ColorWhite)
	for i, b := range buttons {
		line := "  " + b.Label
		color := core.ColorWhite
		if i == cursor {
			line = "> " + b.Label
			color = core.ColorBrightCyan
		}
		dst.DrawTextColored(box.X+4, box.Y+4+i, line, color)
	}
}
