package game

import "image/color"

// Entity capacities. Collections are pre-sized and never grow past these;
// an insert against a full collection drops the new entry.
const (
	maxPawns    = 6 // 3v3
	teamSize    = 3
	maxGrenades = 16
	maxSmokes   = 8
	maxTracers  = 64
)

// Team identifies the two sides plus neutral.
type Team int

const (
	TeamAttack Team = iota
	TeamDefend
	TeamNone
)

func (t Team) String() string {
	switch t {
	case TeamAttack:
		return "attack"
	case TeamDefend:
		return "defend"
	case TeamNone:
		return "none"
	default:
		return "unknown"
	}
}

// SmokeZone is a persistent sphere that blocks sight-lines and the
// line-of-sight check of blast damage.
type SmokeZone struct {
	Pos      Vec3
	Radius   float64
	LifeLeft float64 // seconds
}

// Tracer is a purely cosmetic bullet line.
type Tracer struct {
	From, To Vec3
	LifeLeft float64
	Color    color.RGBA
}

// StunState is the full-screen impairment overlay on the human pawn.
type StunState struct {
	TimeLeft float64
	Peak     float64
}

// Alpha returns the overlay intensity in [0,1].
func (st StunState) Alpha() float64 {
	if st.TimeLeft <= 0 || st.Peak <= 0 {
		return 0
	}
	return st.TimeLeft / st.Peak
}

// World is the flat container of all mutable simulation state. It owns no
// behaviour; the sim systems read and mutate it in a fixed order each tick
// and the presentation layer reads it afterwards.
type World struct {
	Pawns    [maxPawns]Pawn
	PlayerID int // index of the human pawn

	// Immutable once applied from the level snapshot.
	Solids    []Solid
	Waypoints []Waypoint

	Objective ObjectiveZone

	Grenades []Grenade
	Smokes   []SmokeZone
	Tracers  []Tracer

	Stun     StunState
	HitFlash float64 // red damage flash intensity, decays to 0

	Round RoundState
}

// NewWorld builds a world over a level snapshot. Pawn state is zeroed;
// call resetRound before stepping.
func NewWorld(lv *Level) *World {
	w := &World{
		Solids:    make([]Solid, 0, maxSolids),
		Waypoints: make([]Waypoint, 0, maxWaypoints),
		Grenades:  make([]Grenade, 0, maxGrenades),
		Smokes:    make([]SmokeZone, 0, maxSmokes),
		Tracers:   make([]Tracer, 0, maxTracers),
	}
	for i := range lv.Solids {
		if len(w.Solids) >= maxSolids {
			break
		}
		w.Solids = append(w.Solids, lv.Solids[i])
	}
	for i := range lv.Waypoints {
		if len(w.Waypoints) >= maxWaypoints {
			break
		}
		w.Waypoints = append(w.Waypoints, lv.Waypoints[i])
	}
	w.Objective = lv.Objective
	return w
}

// Player returns the human pawn.
func (w *World) Player() *Pawn {
	return &w.Pawns[w.PlayerID]
}

// TeamAlive reports whether any pawn on team t is alive.
func (w *World) TeamAlive(t Team) bool {
	for i := range w.Pawns {
		if w.Pawns[i].Team == t && w.Pawns[i].Alive {
			return true
		}
	}
	return false
}

// AliveCount returns the number of living pawns on team t.
func (w *World) AliveCount(t Team) int {
	n := 0
	for i := range w.Pawns {
		if w.Pawns[i].Team == t && w.Pawns[i].Alive {
			n++
		}
	}
	return n
}

// AddTracer appends a tracer, dropping it when the collection is full.
func (w *World) AddTracer(t Tracer) {
	if len(w.Tracers) >= maxTracers {
		return
	}
	w.Tracers = append(w.Tracers, t)
}

// AddSmoke appends a smoke zone, dropping it when the collection is full.
func (w *World) AddSmoke(s SmokeZone) {
	if len(w.Smokes) >= maxSmokes {
		return
	}
	w.Smokes = append(w.Smokes, s)
}

// AddGrenade appends a live grenade, reporting false on a full collection.
func (w *World) AddGrenade(g Grenade) bool {
	if len(w.Grenades) >= maxGrenades {
		return false
	}
	w.Grenades = append(w.Grenades, g)
	return true
}
