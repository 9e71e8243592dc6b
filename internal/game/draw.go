package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Top-down view: world X maps to screen X, world Z to screen Y, both
// about the screen centre.
const (
	viewScale = 12.0 // pixels per metre
	viewCX    = renderW / 2
	viewCY    = renderH / 2
)

func worldToScreen(p Vec3) (float32, float32) {
	return float32(viewCX + p.X*viewScale), float32(viewCY + p.Z*viewScale)
}

var (
	colBackground = color.RGBA{R: 18, G: 20, B: 24, A: 255}
	colWaypoint   = color.RGBA{R: 70, G: 80, B: 90, A: 255}
	colObjective  = color.RGBA{R: 240, G: 200, B: 60, A: 255}
	colCapture    = color.RGBA{R: 240, G: 200, B: 60, A: 90}
	colSmoke      = color.RGBA{R: 190, G: 190, B: 195, A: 110}
	colGrenade    = color.RGBA{R: 60, G: 120, B: 60, A: 255}
	colAttack     = color.RGBA{R: 90, G: 170, B: 255, A: 255}
	colDefend     = color.RGBA{R: 255, G: 110, B: 90, A: 255}
	colDead       = color.RGBA{R: 70, G: 70, B: 75, A: 255}
	colPlayerRing = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colHUD        = color.RGBA{R: 0, G: 0, B: 0, A: 140}
)

func teamColor(t Team) color.RGBA {
	if t == TeamAttack {
		return colAttack
	}
	return colDefend
}

func withAlpha(c color.RGBA, a float64) color.RGBA {
	c.A = uint8(clampF(a, 0, 1) * 255)
	return c
}

func drawWorld(screen *ebiten.Image, s *Sim) {
	w := s.World
	screen.Fill(colBackground)

	// Floors first so walls and cover render on top of them.
	for i := range w.Solids {
		sd := &w.Solids[i]
		if !sd.IsFloor {
			continue
		}
		drawSolid(screen, sd)
	}
	for i := range w.Solids {
		sd := &w.Solids[i]
		if sd.IsFloor {
			continue
		}
		drawSolid(screen, sd)
	}

	for i := range w.Waypoints {
		x, y := worldToScreen(w.Waypoints[i].Pos)
		vector.FillCircle(screen, x, y, 2, colWaypoint, true)
	}

	// Objective ring with capture progress fill.
	ox, oy := worldToScreen(w.Objective.Pos)
	or := float32(w.Objective.Radius * viewScale)
	if w.Objective.CaptureProgress > 0 {
		frac := w.Objective.CaptureProgress / captureTimeSec
		vector.FillCircle(screen, ox, oy, or*float32(frac), colCapture, true)
	}
	vector.StrokeCircle(screen, ox, oy, or, 2, colObjective, true)

	for i := range w.Smokes {
		sm := &w.Smokes[i]
		x, y := worldToScreen(sm.Pos)
		fade := clampF(sm.LifeLeft/2.0, 0, 1)
		vector.FillCircle(screen, x, y, float32(sm.Radius*viewScale),
			withAlpha(colSmoke, fade*float64(colSmoke.A)/255), true)
	}

	for i := range w.Grenades {
		x, y := worldToScreen(w.Grenades[i].Pos)
		vector.FillCircle(screen, x, y, 3, colGrenade, true)
	}

	for i := range w.Tracers {
		t := &w.Tracers[i]
		x0, y0 := worldToScreen(t.From)
		x1, y1 := worldToScreen(t.To)
		alpha := t.LifeLeft / tracerLifeSec
		vector.StrokeLine(screen, x0, y0, x1, y1, 1,
			withAlpha(t.Color, alpha*float64(t.Color.A)/255), true)
	}

	for i := range w.Pawns {
		drawPawn(screen, w, &w.Pawns[i])
	}

	// Full-screen damage and stun overlays.
	if w.HitFlash > 0 {
		vector.FillRect(screen, 0, 0, renderW, renderH,
			withAlpha(color.RGBA{R: 200, G: 30, B: 30}, w.HitFlash*0.30), false)
	}
	if a := w.Stun.Alpha(); a > 0 {
		vector.FillRect(screen, 0, 0, renderW, renderH,
			withAlpha(color.RGBA{R: 255, G: 255, B: 255}, a*0.85), false)
	}
}

func drawSolid(screen *ebiten.Image, sd *Solid) {
	x0, y0 := worldToScreen(sd.Bounds.Min)
	x1, y1 := worldToScreen(sd.Bounds.Max)
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, sd.Color, false)
	if !sd.IsFloor {
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1,
			color.RGBA{R: 30, G: 32, B: 38, A: 255}, false)
	}
}

func drawPawn(screen *ebiten.Image, w *World, p *Pawn) {
	x, y := worldToScreen(p.Pos)
	r := float32(pawnRadius * viewScale)

	if !p.Alive {
		vector.FillCircle(screen, x, y, r, colDead, true)
		return
	}

	vector.FillCircle(screen, x, y, r, teamColor(p.Team), true)
	if p.ID == w.PlayerID {
		vector.StrokeCircle(screen, x, y, r+2, 1.5, colPlayerRing, true)
	}

	// Facing indicator.
	hx := x + float32(math.Sin(p.Yaw))*r*2
	hy := y + float32(math.Cos(p.Yaw))*r*2
	vector.StrokeLine(screen, x, y, hx, hy, 1.5, colPlayerRing, true)
}

func drawHUD(screen *ebiten.Image, s *Sim, mode AppMode, reportCopied bool) {
	w := s.World
	rs := &w.Round
	p := w.Player()

	vector.FillRect(screen, 0, renderH-58, renderW, 58, colHUD, false)

	status := fmt.Sprintf("HP %3d   %s %d/%d", p.HP, p.Weapon.ID, p.Weapon.Mag, p.Weapon.Reserve)
	if p.Weapon.Reloading() {
		status += fmt.Sprintf("  RELOADING %.1f", p.Weapon.ReloadTimer)
	}
	if p.Weapon.ADS {
		status += "  [ADS]"
	}
	ebitenutil.DebugPrintAt(screen, status, 12, renderH-50)
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("G frag x%d   T smoke x%d   F stun x%d", p.FragCount, p.SmokeCount, p.StunCount),
		12, renderH-30)

	top := fmt.Sprintf("ROUND %d   ATTACK %d - %d DEFEND", rs.Number, rs.ScoreAttack, rs.ScoreDefend)
	switch rs.Phase {
	case PhaseWaiting:
		top += fmt.Sprintf("   freeze %.1f", rs.FreezeTimer)
	case PhaseActive:
		top += fmt.Sprintf("   %.0fs", rs.Timer)
		if w.Objective.CaptureProgress > 0 {
			top += fmt.Sprintf("   capture %.0f%%", 100*w.Objective.CaptureProgress/captureTimeSec)
		}
	case PhaseRoundOver:
		top += fmt.Sprintf("   %s wins", rs.Winner)
	}
	ebitenutil.DebugPrintAt(screen, top, 12, 10)

	if reportCopied {
		ebitenutil.DebugPrintAt(screen, "debug report copied to clipboard", 12, 30)
	}

	if !p.Alive && rs.Phase == PhaseActive {
		ebitenutil.DebugPrintAt(screen, "YOU DIED - spectating", viewCX-70, viewCY-40)
	}

	switch mode {
	case ModePaused:
		vector.FillRect(screen, 0, 0, renderW, renderH, withAlpha(color.RGBA{}, 0.5), false)
		ebitenutil.DebugPrintAt(screen, "PAUSED - ESC to resume", viewCX-80, viewCY)
	case ModeMatchOver:
		vector.FillRect(screen, 0, 0, renderW, renderH, withAlpha(color.RGBA{}, 0.6), false)
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("MATCH OVER - %s wins %d-%d", rs.Winner, rs.ScoreAttack, rs.ScoreDefend),
			viewCX-110, viewCY-10)
		ebitenutil.DebugPrintAt(screen, "ENTER to restart", viewCX-60, viewCY+12)
	}
}
