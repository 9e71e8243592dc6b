package game

import "math/rand"

// maxTickDelta caps the integration step so a stalled frame cannot launch
// pawns or grenades through geometry.
const maxTickDelta = 0.05

// FireEvent is a weapon-fire notification consumed by the audio and feed
// layers. The list is rebuilt every tick.
type FireEvent struct {
	Shooter int
	Weapon  WeaponID
}

// Sim is the single-threaded simulation core. Each Step runs the fixed
// order: human intent, bot controllers, ordnance and effects, round
// lifecycle. All randomness (spread, aim noise, patrol tie-breaks) draws
// from the injected source, so a seeded Sim replays deterministically.
type Sim struct {
	World *World
	Level *Level
	Bots  *BotController
	Log   *SimLog
	Tick  int

	FireEvents  []FireEvent
	BlastEvents []UtilityKind

	rng *rand.Rand
}

// NewSim builds a simulation over a level snapshot and runs the first
// round reset, entering the pre-round freeze.
func NewSim(lv *Level, seed int64) *Sim {
	s := &Sim{
		Level: lv,
		World: NewWorld(lv),
		Log:   NewSimLog(false),
		rng:   rand.New(rand.NewSource(seed)), // #nosec G404 -- simulation only
	}
	s.Bots = NewBotController(s.rng)
	s.resetRound()
	return s
}

// Rand exposes the sim's random source for front-end effects that should
// share the stream.
func (s *Sim) Rand() *rand.Rand {
	return s.rng
}

// Step advances the simulation by dt seconds, clamped to maxTickDelta.
// It never blocks and always completes the full tick.
func (s *Sim) Step(in InputState, dt float64) {
	if dt > maxTickDelta {
		dt = maxTickDelta
	}
	s.Tick++
	s.FireEvents = s.FireEvents[:0]
	s.BlastEvents = s.BlastEvents[:0]

	for i := range s.World.Pawns {
		tickWeapon(&s.World.Pawns[i].Weapon, dt)
	}

	s.stepPlayer(in, dt)
	if s.World.Round.Phase == PhaseActive {
		s.Bots.Update(s, dt)
		s.updateUtility(dt)
	}
	s.updateRound(dt)

	if s.Log.verbose {
		for i := range s.World.Pawns {
			p := &s.World.Pawns[i]
			s.Log.AddVerbose(s.Tick, p.Label(), p.Team.String(), "move", "position",
				formatPos(p.Pos), float64(p.HP))
		}
	}
}
