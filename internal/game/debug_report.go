package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// BuildDebugReport renders the current match state as plain text: round
// lifecycle, per-pawn vitals and loadout, and each bot brain's FSM state.
func BuildDebugReport(s *Sim) string {
	w := s.World
	rs := &w.Round

	var b strings.Builder
	b.WriteString("=== HOLDOUT DEBUG REPORT ===\n")
	fmt.Fprintf(&b, "tick %d  round %d  phase %s\n", s.Tick, rs.Number, rs.Phase)
	fmt.Fprintf(&b, "score attack %d / defend %d (first to %d)\n",
		rs.ScoreAttack, rs.ScoreDefend, matchScoreTarget)
	switch rs.Phase {
	case PhaseWaiting:
		fmt.Fprintf(&b, "freeze %.1fs remaining\n", rs.FreezeTimer)
	case PhaseActive:
		fmt.Fprintf(&b, "timer %.1fs  capture %.1f/%.1fs\n",
			rs.Timer, w.Objective.CaptureProgress, captureTimeSec)
	case PhaseRoundOver:
		fmt.Fprintf(&b, "winner %s  next round in %.1fs\n", rs.Winner, rs.OverTimer)
	case PhaseMatchOver:
		fmt.Fprintf(&b, "match winner %s\n", rs.Winner)
	}

	b.WriteString("\n--- PAWNS ---\n")
	for i := range w.Pawns {
		p := &w.Pawns[i]
		status := "alive"
		if !p.Alive {
			status = "dead"
		}
		fmt.Fprintf(&b, "%s %-6s hp=%-3d %s %s mag=%d/%d pos=%s\n",
			p.Label(), p.Team, p.HP, status,
			p.Weapon.ID, p.Weapon.Mag, p.Weapon.Reserve, formatPos(p.Pos))
	}

	b.WriteString("\n--- BOT BRAINS ---\n")
	for i := range w.Pawns {
		p := &w.Pawns[i]
		brain := s.Bots.Brain(p.ID)
		if brain == nil {
			continue
		}
		line := fmt.Sprintf("%s state=%s wp=%d", p.Label(), brain.State, brain.WaypointIdx)
		if brain.TargetID >= 0 {
			line += fmt.Sprintf(" target=%s lastKnown=%s",
				w.Pawns[brain.TargetID].Label(), formatPos(brain.LastKnown))
		}
		b.WriteString(line + "\n")
	}

	if n := len(w.Grenades) + len(w.Smokes); n > 0 {
		b.WriteString("\n--- EFFECTS ---\n")
		for i := range w.Grenades {
			g := &w.Grenades[i]
			fmt.Fprintf(&b, "grenade %s fuse=%.2fs pos=%s\n", g.Kind, g.FuseTimer, formatPos(g.Pos))
		}
		for i := range w.Smokes {
			sm := &w.Smokes[i]
			fmt.Fprintf(&b, "smoke life=%.1fs pos=%s\n", sm.LifeLeft, formatPos(sm.Pos))
		}
	}
	return b.String()
}

// copyDebugReport places the report on the system clipboard.
func (g *Game) copyDebugReport() error {
	return clipboard.WriteAll(BuildDebugReport(g.sim))
}
