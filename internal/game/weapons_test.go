package game

import (
	"math"
	"math/rand"
	"testing"
)

// newDuelSim places the human rifleman at the origin facing +Z and one
// defender two metres ahead, everyone else far away at the default
// cluster spawns.
func newDuelSim(t *testing.T, opts ...SimOption) *TestSim {
	t.Helper()
	base := []SimOption{
		WithSeed(11),
		WithFloor(-50, -50, 50, 50),
		WithPawnAt(0, Vec3{0, 0, 0}, 0),
		WithPawnAt(3, Vec3{0, 0, 2}, math.Pi),
	}
	return NewTestSim(append(base, opts...)...)
}

func TestFireWeapon_HitReducesHealthAndAmmo(t *testing.T) {
	ts := newDuelSim(t)
	shooter := &ts.World.Pawns[0]
	target := &ts.World.Pawns[3]

	if !ts.fireWeapon(shooter) {
		t.Fatal("clear shot should fire")
	}
	if target.HP != 70 {
		t.Fatalf("rifle hit: want 70 hp, got %d", target.HP)
	}
	if !target.Alive {
		t.Fatal("target must survive a single rifle hit")
	}
	if shooter.Weapon.Mag != 29 {
		t.Fatalf("want 29 rounds left, got %d", shooter.Weapon.Mag)
	}
	if shooter.Weapon.Cooldown <= 0 {
		t.Fatal("firing must start the cooldown")
	}
	if len(ts.World.Tracers) == 0 {
		t.Fatal("a fired shot records a tracer")
	}
	if len(ts.FireEvents) != 1 {
		t.Fatalf("want one fire event, got %d", len(ts.FireEvents))
	}
}

func TestFireWeapon_GatedAttemptsAreNoOps(t *testing.T) {
	cases := []struct {
		name string
		prep func(ws *WeaponState)
	}{
		{"empty magazine", func(ws *WeaponState) { ws.Mag = 0 }},
		{"reloading", func(ws *WeaponState) { ws.ReloadTimer = 1.0 }},
		{"on cooldown", func(ws *WeaponState) { ws.Cooldown = 0.5 }},
	}
	for _, tc := range cases {
		ts := newDuelSim(t)
		shooter := &ts.World.Pawns[0]
		tc.prep(&shooter.Weapon)
		magBefore := shooter.Weapon.Mag

		if ts.fireWeapon(shooter) {
			t.Errorf("%s: gated attempt must not fire", tc.name)
		}
		if shooter.Weapon.Mag != magBefore {
			t.Errorf("%s: magazine changed on a gated attempt", tc.name)
		}
		if len(ts.World.Tracers) != 0 || len(ts.FireEvents) != 0 {
			t.Errorf("%s: gated attempt produced tracers or events", tc.name)
		}
		if ts.World.Pawns[3].HP != maxHP {
			t.Errorf("%s: gated attempt damaged the target", tc.name)
		}
	}
}

func TestFireWeapon_SMGKillsOnFifthHit(t *testing.T) {
	ts := newDuelSim(t, WithPawnWeapon(0, WeaponSMG))
	shooter := &ts.World.Pawns[0]
	target := &ts.World.Pawns[3]

	for shot := 1; shot <= 5; shot++ {
		shooter.Weapon.Cooldown = 0
		if !ts.fireWeapon(shooter) {
			t.Fatalf("shot %d did not fire", shot)
		}
		if shot < 5 {
			if !target.Alive {
				t.Fatalf("target died early on shot %d (hp %d)", shot, target.HP)
			}
		}
	}
	if target.Alive || target.HP != 0 {
		t.Fatalf("five SMG hits at 22 damage must kill: alive=%v hp=%d", target.Alive, target.HP)
	}
	deaths := ts.Log.Filter("hit", "death")
	if len(deaths) != 1 {
		t.Fatalf("want one death log entry, got %d", len(deaths))
	}
}

func TestFireWeapon_EmptyMagStartsAutoReload(t *testing.T) {
	ts := newDuelSim(t)
	shooter := &ts.World.Pawns[0]
	shooter.Weapon.Mag = 1

	ts.fireWeapon(shooter)
	if shooter.Weapon.Mag != 0 {
		t.Fatalf("want empty magazine, got %d", shooter.Weapon.Mag)
	}
	if !shooter.Weapon.Reloading() {
		t.Fatal("emptying the magazine with reserve left must start a reload")
	}
}

func TestTickWeapon_ReloadTransfersFromReserve(t *testing.T) {
	ws := WeaponState{ID: WeaponRifle, Mag: 10, Reserve: 15}
	startReload(&ws)
	if !ws.Reloading() {
		t.Fatal("reload did not start")
	}
	tickWeapon(&ws, ws.Spec().ReloadSec+0.01)
	if ws.Mag != 25 || ws.Reserve != 0 {
		t.Fatalf("short reserve reload: want mag=25 reserve=0, got mag=%d reserve=%d",
			ws.Mag, ws.Reserve)
	}
}

func TestStartReload_NoReserveOrAlreadyRunning(t *testing.T) {
	ws := WeaponState{ID: WeaponPistol, Mag: 3, Reserve: 0}
	startReload(&ws)
	if ws.Reloading() {
		t.Fatal("reload with no reserve must not start")
	}

	ws = WeaponState{ID: WeaponPistol, Mag: 3, Reserve: 12, ReloadTimer: 0.7}
	startReload(&ws)
	if ws.ReloadTimer != 0.7 {
		t.Fatal("starting a reload must not restart one in progress")
	}
}

func TestSpreadDir_UnitLengthEvenWhenAimingStraightUp(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		d := spreadDir(Vec3{Y: 1}, 0.2, rng)
		if math.Abs(d.Len()-1) > 1e-9 {
			t.Fatalf("spread direction not unit length: %s", formatPos(d))
		}
	}
}

func TestShotgun_TracesEveryPellet(t *testing.T) {
	ts := newDuelSim(t, WithPawnWeapon(0, WeaponShotgun))
	shooter := &ts.World.Pawns[0]

	ts.fireWeapon(shooter)
	if got := len(ts.World.Tracers); got != WeaponSpecFor(WeaponShotgun).Pellets {
		t.Fatalf("want one tracer per pellet, got %d", got)
	}
	if shooter.Weapon.Mag != WeaponSpecFor(WeaponShotgun).MagSize-1 {
		t.Fatalf("a full trigger pull consumes one shell, mag=%d", shooter.Weapon.Mag)
	}
}
