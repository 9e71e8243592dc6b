package game

import "image/color"

// TestSim is a headless harness used exclusively by tests. It mirrors the
// windowed tick loop but has no Ebiten dependency and supports
// deterministic seeding and structured logging.
type TestSim struct {
	*Sim
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptLevel simOptionKind = iota // geometry, seed, verbose; applied first
	simOptPawn                       // pawn overrides; applied after spawn
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind  simOptionKind
	geom  bool // true when the option edits level geometry
	level func(*testSimConfig)
	pawn  func(*Sim)
}

type testSimConfig struct {
	seed    int64
	verbose bool
	level   *Level
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{kind: simOptLevel, level: func(c *testSimConfig) {
		c.seed = seed
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{kind: simOptLevel, level: func(c *testSimConfig) {
		c.verbose = v
	}}
}

// WithLevel replaces the whole level snapshot.
func WithLevel(lv *Level) SimOption {
	return SimOption{kind: simOptLevel, geom: true, level: func(c *testSimConfig) {
		c.level = lv
	}}
}

// WithFloor adds a floor-tagged slab spanning the given X/Z extent.
func WithFloor(minX, minZ, maxX, maxZ float64) SimOption {
	return SimOption{kind: simOptLevel, geom: true, level: func(c *testSimConfig) {
		c.level.Solids = append(c.level.Solids, Solid{
			Bounds:  AABB{Min: Vec3{minX, -0.2, minZ}, Max: Vec3{maxX, 0, maxZ}},
			Color:   color.RGBA{R: 60, G: 60, B: 60, A: 255},
			IsFloor: true,
		})
	}}
}

// WithSolid adds an untagged obstacle box.
func WithSolid(min, max Vec3) SimOption {
	return SimOption{kind: simOptLevel, geom: true, level: func(c *testSimConfig) {
		c.level.Solids = append(c.level.Solids, Solid{
			Bounds: AABB{Min: min, Max: max},
			Color:  color.RGBA{R: 90, G: 90, B: 100, A: 255},
		})
	}}
}

// WithWaypoint appends a patrol waypoint with explicit neighbor indices.
func WithWaypoint(pos Vec3, neighbors ...int) SimOption {
	return SimOption{kind: simOptLevel, geom: true, level: func(c *testSimConfig) {
		c.level.Waypoints = append(c.level.Waypoints, Waypoint{Pos: pos, Neighbors: neighbors})
	}}
}

// WithObjective places the capture zone.
func WithObjective(pos Vec3, radius float64) SimOption {
	return SimOption{kind: simOptLevel, geom: true, level: func(c *testSimConfig) {
		c.level.Objective = ObjectiveZone{Pos: pos, Radius: radius}
	}}
}

// WithSpawn appends a team spawn point.
func WithSpawn(team Team, pos Vec3, yaw float64) SimOption {
	return SimOption{kind: simOptLevel, geom: true, level: func(c *testSimConfig) {
		c.level.Spawns = append(c.level.Spawns, SpawnPoint{Team: team, Pos: pos, Yaw: yaw})
	}}
}

// WithPawnAt moves a pawn after spawn, pointing it along yaw.
func WithPawnAt(id int, pos Vec3, yaw float64) SimOption {
	return SimOption{kind: simOptPawn, pawn: func(s *Sim) {
		p := &s.World.Pawns[id]
		p.Pos = pos
		p.Yaw = yaw
		p.Pitch = 0
	}}
}

// WithPawnWeapon swaps a pawn's loadout for a full instance of the given
// archetype.
func WithPawnWeapon(id int, wid WeaponID) SimOption {
	return SimOption{kind: simOptPawn, pawn: func(s *Sim) {
		spec := WeaponSpecFor(wid)
		s.World.Pawns[id].Weapon = WeaponState{ID: wid, Mag: spec.MagSize, Reserve: spec.MagSize * 3}
	}}
}

// WithPawnHP overrides a pawn's health, keeping the liveness flag in sync.
func WithPawnHP(id int, hp int) SimOption {
	return SimOption{kind: simOptPawn, pawn: func(s *Sim) {
		p := &s.World.Pawns[id]
		p.HP = clampI(hp, 0, maxHP)
		p.Alive = p.HP > 0
	}}
}

// NewTestSim builds a harness. Level options are applied to an initially
// empty level, then the sim spawns, then pawn options override spawn
// placement. Defaults: seed 1, non-verbose, bare 100x100 floor with no
// waypoints and six spawn points in two loose team clusters.
func NewTestSim(opts ...SimOption) *TestSim {
	cfg := testSimConfig{seed: 1, level: &Level{}}

	hasGeomOpts := false
	for _, o := range opts {
		if o.geom {
			hasGeomOpts = true
		}
	}
	if !hasGeomOpts {
		cfg.level = DefaultLevel()
	}

	for _, o := range opts {
		if o.kind == simOptLevel {
			o.level(&cfg)
		}
	}
	if len(cfg.level.Solids) == 0 {
		WithFloor(-50, -50, 50, 50).level(&cfg)
	}
	if len(cfg.level.Spawns) == 0 {
		for i := 0; i < teamSize; i++ {
			cfg.level.Spawns = append(cfg.level.Spawns,
				SpawnPoint{Team: TeamAttack, Pos: Vec3{X: -10 - float64(i)*2, Y: 0.1, Z: -10}})
		}
		for i := 0; i < teamSize; i++ {
			cfg.level.Spawns = append(cfg.level.Spawns,
				SpawnPoint{Team: TeamDefend, Pos: Vec3{X: 10 + float64(i)*2, Y: 0.1, Z: 10}})
		}
	}
	if cfg.level.Objective.Radius == 0 {
		cfg.level.Objective = ObjectiveZone{Pos: Vec3{X: 0, Y: 0, Z: 20}, Radius: 3}
	}

	sim := NewSim(cfg.level, cfg.seed)
	sim.Log = NewSimLog(cfg.verbose)

	for _, o := range opts {
		if o.kind == simOptPawn {
			o.pawn(sim)
		}
	}
	return &TestSim{Sim: sim}
}

// tickDT is the fixed step used by harness runs.
const tickDT = 1.0 / 60.0

// Run advances the sim n ticks with no player input.
func (ts *TestSim) Run(n int) {
	in := NoInput()
	for i := 0; i < n; i++ {
		ts.Step(in, tickDT)
	}
}

// RunInput advances the sim n ticks with the same player intent each tick.
func (ts *TestSim) RunInput(in InputState, n int) {
	for i := 0; i < n; i++ {
		ts.Step(in, tickDT)
	}
}

// AdvanceToActive steps through the pre-round freeze. It gives up after
// ten simulated seconds so a broken phase machine fails fast in tests.
func (ts *TestSim) AdvanceToActive() bool {
	in := NoInput()
	for i := 0; i < int(10.0/tickDT); i++ {
		if ts.World.Round.Phase == PhaseActive {
			return true
		}
		ts.Step(in, tickDT)
	}
	return ts.World.Round.Phase == PhaseActive
}
