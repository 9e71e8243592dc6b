package game

import "fmt"

// Round tuning.
const (
	roundTimeSec      = 90.0
	freezeTimeSec     = 3.0
	captureTimeSec    = 10.0 // seconds an attacker must hold the zone
	captureDecayRate  = 0.5  // progress decay per second while uncontested
	roundOverDelaySec = 4.0
	matchScoreTarget  = 5
)

// RoundPhase is the lifecycle state of the current round.
type RoundPhase int

const (
	PhaseWaiting RoundPhase = iota // pre-round freeze
	PhaseActive
	PhaseRoundOver
	PhaseMatchOver
)

func (ph RoundPhase) String() string {
	switch ph {
	case PhaseWaiting:
		return "waiting"
	case PhaseActive:
		return "active"
	case PhaseRoundOver:
		return "round_over"
	case PhaseMatchOver:
		return "match_over"
	default:
		return "unknown"
	}
}

// RoundState is owned and mutated by the round controller only.
type RoundState struct {
	Phase       RoundPhase
	Timer       float64 // active-play countdown
	FreezeTimer float64
	OverTimer   float64 // delay before advancing past RoundOver
	Winner      Team
	ScoreAttack int
	ScoreDefend int
	Number      int
}

// resetRound rebuilds all per-round state: entities cleared, objective and
// timers reset, pawns respawned, bot brains reinitialised. Cumulative
// score and round number are preserved.
func (s *Sim) resetRound() {
	w := s.World
	w.Grenades = w.Grenades[:0]
	w.Smokes = w.Smokes[:0]
	w.Tracers = w.Tracers[:0]
	w.Stun = StunState{}
	w.HitFlash = 0
	w.Objective.CaptureProgress = 0
	w.Objective.Captured = false

	w.Round.Phase = PhaseWaiting
	w.Round.Timer = roundTimeSec
	w.Round.FreezeTimer = freezeTimeSec
	w.Round.OverTimer = roundOverDelaySec
	w.Round.Winner = TeamNone
	if w.Round.Number == 0 {
		w.Round.Number = 1
	}

	s.spawnPawns()
	s.Bots.Reset(w)
	s.Log.Add(s.Tick, "--", "--", "round", "reset",
		fmt.Sprintf("round %d", w.Round.Number), float64(w.Round.Number))
}

// spawnPawns places the six pawns round-robin over their team's spawn
// points and restores health, ammo, utility counts and velocity. Pawn 0
// is the human attacker; the remaining slots split 3v3.
func (s *Sim) spawnPawns() {
	w := s.World

	var atk, def []SpawnPoint
	for _, sp := range s.Level.Spawns {
		if sp.Team == TeamAttack {
			atk = append(atk, sp)
		} else {
			def = append(def, sp)
		}
	}
	atkIdx, defIdx := 0, 0

	for i := range w.Pawns {
		p := &w.Pawns[i]
		*p = Pawn{
			ID:         i,
			IsBot:      i != w.PlayerID,
			Alive:      true,
			HP:         maxHP,
			OnGround:   true,
			FragCount:  1,
			SmokeCount: 1,
			StunCount:  1,
		}
		if i < teamSize {
			p.Team = TeamAttack
		} else {
			p.Team = TeamDefend
		}

		wid := WeaponSMG
		if p.Team == TeamAttack {
			wid = WeaponRifle
		}
		spec := WeaponSpecFor(wid)
		p.Weapon = WeaponState{ID: wid, Mag: spec.MagSize, Reserve: spec.MagSize * 3}

		spawns, idx := def, &defIdx
		if p.Team == TeamAttack {
			spawns, idx = atk, &atkIdx
		}
		if len(spawns) > 0 {
			sp := spawns[*idx%len(spawns)]
			p.Pos = Vec3{sp.Pos.X, sp.Pos.Y + 0.01, sp.Pos.Z}
			p.Yaw = sp.Yaw
			*idx++
		}
	}
}

// updateRound advances the lifecycle state machine and evaluates the
// capture and elimination win conditions every tick of active play.
func (s *Sim) updateRound(dt float64) {
	w := s.World
	rs := &w.Round

	switch rs.Phase {
	case PhaseWaiting:
		rs.FreezeTimer -= dt
		if rs.FreezeTimer <= 0 {
			rs.Phase = PhaseActive
			s.Log.Add(s.Tick, "--", "--", "round", "phase", "active", 0)
		}

	case PhaseActive:
		rs.Timer -= dt

		// Objective capture: any living attacker in the zone accrues
		// hold time; an empty zone decays progress at half rate.
		inZone := false
		for i := range w.Pawns {
			p := &w.Pawns[i]
			if !p.Alive || p.Team != TeamAttack {
				continue
			}
			if p.Pos.Sub(w.Objective.Pos).Len() < w.Objective.Radius {
				inZone = true
				break
			}
		}
		if inZone {
			w.Objective.CaptureProgress += dt
			if w.Objective.CaptureProgress >= captureTimeSec {
				w.Objective.Captured = true
				s.endRound(TeamAttack, "capture")
				return
			}
		} else {
			w.Objective.CaptureProgress = clampF(
				w.Objective.CaptureProgress-dt*captureDecayRate, 0, captureTimeSec)
		}

		attackAlive := w.TeamAlive(TeamAttack)
		defendAlive := w.TeamAlive(TeamDefend)
		switch {
		case !attackAlive || rs.Timer <= 0:
			s.endRound(TeamDefend, winReason(!attackAlive))
		case !defendAlive:
			s.endRound(TeamAttack, "elimination")
		}

	case PhaseRoundOver:
		rs.OverTimer -= dt
		if rs.OverTimer <= 0 {
			rs.Number++
			if rs.ScoreAttack >= matchScoreTarget || rs.ScoreDefend >= matchScoreTarget {
				rs.Phase = PhaseMatchOver
				s.Log.Add(s.Tick, "--", "--", "round", "phase", "match_over", 0)
			} else {
				s.resetRound()
			}
		}

	case PhaseMatchOver:
		// Terminal until RestartMatch.
	}
}

func winReason(eliminated bool) string {
	if eliminated {
		return "elimination"
	}
	return "time"
}

func (s *Sim) endRound(winner Team, reason string) {
	rs := &s.World.Round
	rs.Winner = winner
	rs.Phase = PhaseRoundOver
	rs.OverTimer = roundOverDelaySec
	if winner == TeamAttack {
		rs.ScoreAttack++
	} else {
		rs.ScoreDefend++
	}
	s.Log.Add(s.Tick, "--", "--", "round", "win",
		fmt.Sprintf("%s by %s (%d-%d)", winner, reason, rs.ScoreAttack, rs.ScoreDefend),
		float64(rs.ScoreAttack+rs.ScoreDefend))
}

// RestartMatch zeroes the cumulative score and round index and re-enters
// the freeze phase with a full respawn.
func (s *Sim) RestartMatch() {
	rs := &s.World.Round
	rs.ScoreAttack = 0
	rs.ScoreDefend = 0
	rs.Number = 1
	s.resetRound()
}
