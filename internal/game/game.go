package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	renderW = 1280
	renderH = 720
)

// AppMode is the top-level application state gating whether a tick runs.
type AppMode int

const (
	ModePlaying AppMode = iota
	ModePaused
	ModeMatchOver
)

// Game adapts the Sim to Ebiten: it captures input into an InputState,
// steps the simulation while playing, and draws a read-only top-down view.
type Game struct {
	sim   *Sim
	mode  AppMode
	audio *AudioSystem // nil when no device
	feed  *Feed        // nil when the spectator feed is disabled

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool
	prevCurX      int
	prevCurY      int
	curInit       bool

	reportNotice int // frames left to show the "report copied" notice
}

// New wires the windowed front end. Audio and feed may be nil.
func New(sim *Sim, audio *AudioSystem, feed *Feed) *Game {
	return &Game{
		sim:      sim,
		audio:    audio,
		feed:     feed,
		prevKeys: make(map[ebiten.Key]bool),
	}
}

func (g *Game) keyPressed(k ebiten.Key) bool {
	return ebiten.IsKeyPressed(k) && !g.prevKeys[k]
}

func (g *Game) Update() error {
	defer g.rememberKeys()

	if g.keyPressed(ebiten.KeyEscape) && g.mode != ModeMatchOver {
		if g.mode == ModePlaying {
			g.mode = ModePaused
		} else {
			g.mode = ModePlaying
			g.curInit = false // swallow the cursor jump accumulated while paused
		}
	}

	if g.keyPressed(ebiten.KeyF9) {
		if err := g.copyDebugReport(); err == nil {
			g.reportNotice = 120
		}
	}
	if g.reportNotice > 0 {
		g.reportNotice--
	}

	switch g.mode {
	case ModePlaying:
		in := g.gatherInput()
		g.sim.Step(in, tickDT)

		if g.audio != nil {
			for _, ev := range g.sim.FireEvents {
				g.audio.PlayShot(ev.Weapon)
			}
			for _, kind := range g.sim.BlastEvents {
				g.audio.PlayBlast(kind)
			}
		}
		if g.feed != nil {
			g.feed.Broadcast(TakeSnapshot(g.sim))
		}

		if g.sim.World.Round.Phase == PhaseMatchOver {
			g.mode = ModeMatchOver
		}

	case ModeMatchOver:
		if g.keyPressed(ebiten.KeyEnter) {
			g.sim.RestartMatch()
			g.mode = ModePlaying
			g.curInit = false
		}
	}
	return nil
}

func (g *Game) rememberKeys() {
	for _, k := range trackedKeys {
		g.prevKeys[k] = ebiten.IsKeyPressed(k)
	}
	g.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

var trackedKeys = []ebiten.Key{
	ebiten.KeyEscape, ebiten.KeyEnter, ebiten.KeySpace, ebiten.KeyR,
	ebiten.KeyG, ebiten.KeyT, ebiten.KeyF, ebiten.KeyF9,
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
}

// gatherInput maps the keyboard and mouse to the sim's intent struct.
func (g *Game) gatherInput() InputState {
	in := NoInput()

	if ebiten.IsKeyPressed(ebiten.KeyW) {
		in.Forward++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		in.Forward--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		in.Strafe++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		in.Strafe--
	}
	in.Sprint = ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	in.Jump = g.keyPressed(ebiten.KeySpace)

	cx, cy := ebiten.CursorPosition()
	if g.curInit {
		in.LookDX = float64(cx - g.prevCurX)
		in.LookDY = float64(cy - g.prevCurY)
	}
	g.prevCurX, g.prevCurY = cx, cy
	g.curInit = true

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.FireHeld = left
	in.FirePressed = left && !g.prevMouseLeft
	in.ADS = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	in.Reload = g.keyPressed(ebiten.KeyR)
	in.ThrowFrag = g.keyPressed(ebiten.KeyG)
	in.ThrowSmoke = g.keyPressed(ebiten.KeyT)
	in.ThrowStun = g.keyPressed(ebiten.KeyF)

	weaponKeys := []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}
	for i, k := range weaponKeys {
		if g.keyPressed(k) {
			in.WeaponSelect = i
		}
	}
	return in
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(screen, g.sim)
	drawHUD(screen, g.sim, g.mode, g.reportNotice > 0)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return renderW, renderH
}
