package game

// Snapshot is the read-only world view broadcast to spectator clients
// after a tick. It carries no inputs and accepts none back.
type Snapshot struct {
	Tick            int             `json:"tick"`
	Phase           string          `json:"phase"`
	Round           int             `json:"round"`
	Timer           float64         `json:"timer"`
	ScoreAttack     int             `json:"scoreAttack"`
	ScoreDefend     int             `json:"scoreDefend"`
	CaptureProgress float64         `json:"captureProgress"`
	Pawns           []PawnSnap      `json:"pawns"`
	Tracers         []TracerSnap    `json:"tracers,omitempty"`
	Smokes          []SmokeSnap     `json:"smokes,omitempty"`
	Grenades        []GrenadeSnap   `json:"grenades,omitempty"`
	Fires           []FireEventSnap `json:"fires,omitempty"`
}

type PawnSnap struct {
	ID     int     `json:"id"`
	Team   string  `json:"team"`
	Bot    bool    `json:"bot"`
	Alive  bool    `json:"alive"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Yaw    float64 `json:"yaw"`
	HP     int     `json:"hp"`
	Weapon string  `json:"weapon"`
}

type TracerSnap struct {
	FromX float64 `json:"fx"`
	FromY float64 `json:"fy"`
	FromZ float64 `json:"fz"`
	ToX   float64 `json:"tx"`
	ToY   float64 `json:"ty"`
	ToZ   float64 `json:"tz"`
}

type SmokeSnap struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
	Life   float64 `json:"life"`
}

type GrenadeSnap struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
	Fuse float64 `json:"fuse"`
}

type FireEventSnap struct {
	Shooter int    `json:"shooter"`
	Weapon  string `json:"weapon"`
}

// TakeSnapshot copies the observable world state for broadcast.
func TakeSnapshot(s *Sim) Snapshot {
	w := s.World
	snap := Snapshot{
		Tick:            s.Tick,
		Phase:           w.Round.Phase.String(),
		Round:           w.Round.Number,
		Timer:           w.Round.Timer,
		ScoreAttack:     w.Round.ScoreAttack,
		ScoreDefend:     w.Round.ScoreDefend,
		CaptureProgress: w.Objective.CaptureProgress,
		Pawns:           make([]PawnSnap, 0, maxPawns),
	}
	for i := range w.Pawns {
		p := &w.Pawns[i]
		snap.Pawns = append(snap.Pawns, PawnSnap{
			ID:     p.ID,
			Team:   p.Team.String(),
			Bot:    p.IsBot,
			Alive:  p.Alive,
			X:      p.Pos.X,
			Y:      p.Pos.Y,
			Z:      p.Pos.Z,
			Yaw:    p.Yaw,
			HP:     p.HP,
			Weapon: p.Weapon.ID.String(),
		})
	}
	for i := range w.Tracers {
		t := &w.Tracers[i]
		snap.Tracers = append(snap.Tracers, TracerSnap{
			FromX: t.From.X, FromY: t.From.Y, FromZ: t.From.Z,
			ToX: t.To.X, ToY: t.To.Y, ToZ: t.To.Z,
		})
	}
	for i := range w.Smokes {
		sm := &w.Smokes[i]
		snap.Smokes = append(snap.Smokes, SmokeSnap{
			X: sm.Pos.X, Y: sm.Pos.Y, Z: sm.Pos.Z,
			Radius: sm.Radius, Life: sm.LifeLeft,
		})
	}
	for i := range w.Grenades {
		g := &w.Grenades[i]
		snap.Grenades = append(snap.Grenades, GrenadeSnap{
			Kind: g.Kind.String(), X: g.Pos.X, Y: g.Pos.Y, Z: g.Pos.Z, Fuse: g.FuseTimer,
		})
	}
	for _, ev := range s.FireEvents {
		snap.Fires = append(snap.Fires, FireEventSnap{Shooter: ev.Shooter, Weapon: ev.Weapon.String()})
	}
	return snap
}
