package game

import (
	"math"
	"testing"
)

// isolationOpts builds a wide open arena with each pair of bots parked in
// a far corner, the human attacker at the origin and one defender bot ten
// metres north facing it. Only that pair is within vision range.
func isolationOpts(defYaw float64, extra ...SimOption) []SimOption {
	opts := []SimOption{
		WithSeed(9),
		WithFloor(-60, -60, 60, 60),
		WithObjective(Vec3{30, 0, -30}, 3),
		WithSpawn(TeamAttack, Vec3{0, 0.1, 0}, 0),
		WithSpawn(TeamAttack, Vec3{-40, 0.1, -40}, 0),
		WithSpawn(TeamAttack, Vec3{-42, 0.1, -40}, 0),
		WithSpawn(TeamDefend, Vec3{0, 0.1, 10}, defYaw),
		WithSpawn(TeamDefend, Vec3{40, 0.1, 40}, 0),
		WithSpawn(TeamDefend, Vec3{42, 0.1, 40}, 0),
	}
	return append(opts, extra...)
}

func TestFindVisibleEnemy_ClearLineFindsNearest(t *testing.T) {
	ts := NewTestSim(isolationOpts(math.Pi)...)
	bot := &ts.World.Pawns[3]

	if got := findVisibleEnemy(ts.World, bot); got != 0 {
		t.Fatalf("defender facing the player should see pawn 0, got %d", got)
	}
}

func TestFindVisibleEnemy_OutsideConeMisses(t *testing.T) {
	// Defender faces +Z, away from the player at -Z.
	ts := NewTestSim(isolationOpts(0)...)
	bot := &ts.World.Pawns[3]

	if got := findVisibleEnemy(ts.World, bot); got != -1 {
		t.Fatalf("enemy behind the awareness cone must be invisible, got %d", got)
	}
}

func TestFindVisibleEnemy_GeometryOcclusion(t *testing.T) {
	ts := NewTestSim(isolationOpts(math.Pi,
		WithSolid(Vec3{-3, 0, 4.5}, Vec3{3, 3, 5.5}))...)
	bot := &ts.World.Pawns[3]

	if got := findVisibleEnemy(ts.World, bot); got != -1 {
		t.Fatalf("a wall across the sight line must occlude, got %d", got)
	}
}

func TestFindVisibleEnemy_SmokeOcclusion(t *testing.T) {
	ts := NewTestSim(isolationOpts(math.Pi)...)
	ts.World.AddSmoke(SmokeZone{Pos: Vec3{0, 1, 5}, Radius: smokeRadius, LifeLeft: 10})
	bot := &ts.World.Pawns[3]

	if got := findVisibleEnemy(ts.World, bot); got != -1 {
		t.Fatalf("smoke across the sight line must occlude, got %d", got)
	}
}

func TestFindVisibleEnemy_RangeLimit(t *testing.T) {
	ts := NewTestSim(isolationOpts(math.Pi)...)
	ts.World.Pawns[0].Pos = Vec3{0, 0.1, 10 - botVisionRange - 5}

	if got := findVisibleEnemy(ts.World, &ts.World.Pawns[3]); got != -1 {
		t.Fatalf("enemy beyond vision range must be invisible, got %d", got)
	}
}

func TestBot_SightingTransitionsToEngage(t *testing.T) {
	ts := NewTestSim(isolationOpts(math.Pi)...)
	if !ts.AdvanceToActive() {
		t.Fatal("round never became active")
	}
	ts.Run(3)

	brain := ts.Bots.Brain(3)
	if brain == nil {
		t.Fatal("defender bot has no brain")
	}
	if brain.State != BotEngage {
		t.Fatalf("defender should engage the visible player, state=%s", brain.State)
	}
	if brain.TargetID != 0 {
		t.Fatalf("engage target: want pawn 0, got %d", brain.TargetID)
	}

	found := false
	for _, e := range ts.Log.Filter("ai", "state") {
		if e.Actor == "D3" && e.Value == "patrol -> engage" {
			found = true
		}
	}
	if !found {
		t.Fatal("missing patrol -> engage transition in the log")
	}
}

func TestBot_ReactionDelayGatesFire(t *testing.T) {
	ts := NewTestSim(isolationOpts(math.Pi)...)
	ts.AdvanceToActive()

	// Under the reaction time: sighted but holding fire.
	ts.Run(6)
	bot := &ts.World.Pawns[3]
	magSize := bot.Weapon.Spec().MagSize
	if bot.Weapon.Mag != magSize {
		t.Fatalf("bot fired before its reaction time elapsed, mag=%d", bot.Weapon.Mag)
	}

	// Well past it: rounds downrange.
	ts.Run(60)
	if bot.Weapon.Mag >= magSize {
		t.Fatal("bot never opened fire on a visible enemy")
	}
}

func TestBot_LostSightSearchesThenResumesPatrol(t *testing.T) {
	ts := NewTestSim(isolationOpts(math.Pi)...)
	ts.AdvanceToActive()
	ts.Run(3)

	brain := ts.Bots.Brain(3)
	if brain.State != BotEngage {
		t.Fatalf("precondition failed, state=%s", brain.State)
	}

	// Teleport the target out of vision range entirely.
	ts.World.Pawns[0].Pos = Vec3{100, 0.1, 100}
	ts.Run(12)
	if brain.State != BotSearch {
		t.Fatalf("losing the sight line should enter search, state=%s", brain.State)
	}

	// The bot walks to the last known position and gives up.
	ts.Run(400)
	if brain.State != BotPatrol {
		t.Fatalf("arriving at last known position should resume patrol, state=%s", brain.State)
	}
	if brain.TargetID != -1 {
		t.Fatalf("giving up must clear the target, got %d", brain.TargetID)
	}
}

func TestBot_LowHealthForcesRetreat(t *testing.T) {
	// Defender faces away so vision never overrides the retreat state.
	ts := NewTestSim(isolationOpts(0,
		WithWaypoint(Vec3{0, 0, 10}),
		WithPawnHP(3, retreatBelowHP-5))...)
	ts.AdvanceToActive()
	ts.Run(3)

	brain := ts.Bots.Brain(3)
	if brain.State != BotRetreat {
		t.Fatalf("hurt bot with living teammates must retreat, state=%s", brain.State)
	}

	ts.World.Pawns[3].HP = recoverAboveHP + 10
	ts.Run(3)
	if brain.State != BotPatrol {
		t.Fatalf("recovered bot should resume patrol, state=%s", brain.State)
	}
}

func TestBot_LastTeammateStandingNeverRetreats(t *testing.T) {
	ts := NewTestSim(isolationOpts(0, WithPawnHP(3, 10))...)
	// Kill the other defenders so the hurt bot is alone.
	ts.World.Pawns[4].ApplyDamage(maxHP)
	ts.World.Pawns[5].ApplyDamage(maxHP)
	ts.AdvanceToActive()
	ts.Run(3)

	if st := ts.Bots.Brain(3).State; st == BotRetreat {
		t.Fatal("a lone surviving bot must hold rather than retreat")
	}
}

func TestBot_PatrolMovesTowardItsWaypoint(t *testing.T) {
	ts := NewTestSim(isolationOpts(0,
		WithWaypoint(Vec3{-20, 0, -20}, 1),
		WithWaypoint(Vec3{20, 0, 20}, 0))...)
	ts.AdvanceToActive()

	bot := &ts.World.Pawns[4] // parked at (40, 40), waypoint index 4%2 = 0
	target := ts.World.Waypoints[0].Pos
	before := bot.Pos.Sub(target).Len()

	ts.Run(60)
	after := bot.Pos.Sub(target).Len()
	if after >= before-1.0 {
		t.Fatalf("patrolling bot should close on its waypoint: %.1f -> %.1f", before, after)
	}
}
