package game

import (
	"image/color"
	"math"
	"math/rand"
)

// WeaponID selects one of the five archetypes.
type WeaponID int

const (
	WeaponPistol WeaponID = iota
	WeaponSMG
	WeaponRifle
	WeaponSniper
	WeaponShotgun
	weaponCount
)

func (id WeaponID) String() string {
	if id < 0 || id >= weaponCount {
		return "unknown"
	}
	return weaponTable[id].Name
}

// WeaponSpec is one immutable weapon archetype.
type WeaponSpec struct {
	Name         string
	Damage       int     // hp per bullet hit, no distance falloff
	MagSize      int
	FireRateRPM  float64
	ReloadSec    float64
	SpreadRad    float64 // base cone half-angle
	ADSSpreadMul float64 // spread multiplier while aiming down sights
	Range        float64 // max trace distance, metres
	Pellets      int     // shotgun fires several per trigger pull
	SemiAuto     bool    // true = one shot per trigger press
}

// weaponTable is indexed by WeaponID and immutable for the process lifetime.
var weaponTable = [weaponCount]WeaponSpec{
	{Name: "Pistol", Damage: 35, MagSize: 12, FireRateRPM: 300, ReloadSec: 1.5, SpreadRad: 0.030, ADSSpreadMul: 0.40, Range: 80, Pellets: 1, SemiAuto: true},
	{Name: "SMG", Damage: 22, MagSize: 25, FireRateRPM: 900, ReloadSec: 2.0, SpreadRad: 0.080, ADSSpreadMul: 0.60, Range: 50, Pellets: 1, SemiAuto: false},
	{Name: "Rifle", Damage: 30, MagSize: 30, FireRateRPM: 600, ReloadSec: 2.2, SpreadRad: 0.020, ADSSpreadMul: 0.30, Range: 150, Pellets: 1, SemiAuto: false},
	{Name: "Sniper", Damage: 100, MagSize: 5, FireRateRPM: 40, ReloadSec: 3.5, SpreadRad: 0.005, ADSSpreadMul: 0.10, Range: 300, Pellets: 1, SemiAuto: true},
	{Name: "Shotgun", Damage: 18, MagSize: 6, FireRateRPM: 120, ReloadSec: 2.8, SpreadRad: 0.200, ADSSpreadMul: 0.50, Range: 20, Pellets: 8, SemiAuto: false},
}

// WeaponSpecFor returns the archetype for an ID.
func WeaponSpecFor(id WeaponID) *WeaponSpec {
	return &weaponTable[id]
}

// WeaponState is one pawn's loadout instance.
type WeaponState struct {
	ID          WeaponID
	Mag         int
	Reserve     int
	ReloadTimer float64 // > 0 while reloading
	Cooldown    float64 // time until the next shot is allowed
	ADS         bool
}

// Spec returns the archetype for this instance.
func (ws *WeaponState) Spec() *WeaponSpec {
	return &weaponTable[ws.ID]
}

// CanFire gates every fire attempt: off cooldown, not reloading, mag loaded.
func (ws *WeaponState) CanFire() bool {
	return ws.Cooldown <= 0 && ws.ReloadTimer <= 0 && ws.Mag > 0
}

// Reloading reports whether a reload is in progress.
func (ws *WeaponState) Reloading() bool {
	return ws.ReloadTimer > 0
}

// startReload begins a reload unless one is already running or there is
// nothing to load.
func startReload(ws *WeaponState) {
	if ws.ReloadTimer > 0 || ws.Reserve <= 0 {
		return
	}
	ws.ReloadTimer = ws.Spec().ReloadSec
}

// tickWeapon advances the cooldown and reload countdowns. A finished
// reload moves min(capacity-mag, reserve) rounds from reserve to magazine.
func tickWeapon(ws *WeaponState, dt float64) {
	if ws.Cooldown > 0 {
		ws.Cooldown -= dt
	}
	if ws.ReloadTimer > 0 {
		ws.ReloadTimer -= dt
		if ws.ReloadTimer <= 0 {
			need := ws.Spec().MagSize - ws.Mag
			take := need
			if ws.Reserve < take {
				take = ws.Reserve
			}
			ws.Mag += take
			ws.Reserve -= take
		}
	}
}

// spreadDir perturbs a unit aim direction within a cone of the given
// half-angle. A vertical aim has no well-defined right vector against
// world-up, so the basis falls back to the X axis.
func spreadDir(dir Vec3, spreadRad float64, rng *rand.Rand) Vec3 {
	if spreadRad <= 0 {
		return dir
	}
	theta := rng.Float64() * 2 * math.Pi
	phi := rng.Float64() * spreadRad

	right := dir.Cross(Vec3{Y: 1})
	if right.Len() < 0.01 {
		right = Vec3{X: 1}
	} else {
		right = right.Norm()
	}
	up := right.Cross(dir)

	offset := right.Scale(math.Cos(theta) * math.Sin(phi)).
		Add(up.Scale(math.Sin(theta) * math.Sin(phi)))
	return dir.Add(offset).Norm()
}

// shotResult is one pellet trace: the struck pawn (or -1) and the tracer
// endpoint (pawn hit point, geometry hit point, or max-range point).
type shotResult struct {
	pawnID int
	end    Vec3
}

// traceShot resolves a single hitscan ray to the nearer of the closest
// geometry hit and the closest living pawn other than the shooter.
func (w *World) traceShot(origin, dir Vec3, maxRange float64, shooterID int) shotResult {
	geom := raycastSolids(origin, dir, maxRange, w.Solids)
	bestDist := maxRange
	end := origin.Add(dir.Scale(maxRange))
	if geom.Hit {
		bestDist = geom.Dist
		end = geom.Point
	}

	best := -1
	for i := range w.Pawns {
		p := &w.Pawns[i]
		if !p.Alive || p.ID == shooterID {
			continue
		}
		t, ok := rayAABBHit(origin, dir, p.BBox())
		if ok && t > 0 && t < bestDist {
			bestDist = t
			best = i
		}
	}
	if best >= 0 {
		end = origin.Add(dir.Scale(bestDist))
	}
	return shotResult{pawnID: best, end: end}
}

var (
	tracerColorPlayer = color.RGBA{R: 255, G: 240, B: 160, A: 220}
	tracerColorBot    = color.RGBA{R: 255, G: 140, B: 100, A: 200}
)

const tracerLifeSec = 0.06

// fireWeapon attempts one trigger pull for the pawn. A gated attempt is a
// silent no-op. On success it consumes one round, sets the cooldown,
// traces every pellet, applies damage and records tracers; an emptied
// magazine auto-reloads when reserve ammo remains. Reports whether a shot
// was actually fired.
func (s *Sim) fireWeapon(p *Pawn) bool {
	ws := &p.Weapon
	if !ws.CanFire() {
		return false
	}
	spec := ws.Spec()
	ws.Mag--
	ws.Cooldown = 60.0 / spec.FireRateRPM

	spread := spec.SpreadRad
	if ws.ADS {
		spread *= spec.ADSSpreadMul
	}
	eye := p.EyePos()
	look := p.LookDir()

	tc := tracerColorBot
	if p.ID == s.World.PlayerID {
		tc = tracerColorPlayer
	}

	for i := 0; i < spec.Pellets; i++ {
		dir := spreadDir(look, spread, s.rng)
		res := s.World.traceShot(eye, dir, spec.Range, p.ID)
		if res.pawnID >= 0 {
			target := &s.World.Pawns[res.pawnID]
			died := target.ApplyDamage(spec.Damage)
			if res.pawnID == s.World.PlayerID {
				s.World.HitFlash = 1.0
			}
			s.Log.Add(s.Tick, p.Label(), p.Team.String(), "hit", "pawn",
				target.Label(), float64(target.HP))
			if died {
				s.Log.Add(s.Tick, target.Label(), target.Team.String(), "hit", "death",
					"killed by "+p.Label(), 0)
			}
		}
		s.World.AddTracer(Tracer{From: eye, To: res.end, LifeLeft: tracerLifeSec, Color: tc})
	}

	if ws.Mag == 0 && ws.Reserve > 0 {
		ws.ReloadTimer = spec.ReloadSec
	}

	s.FireEvents = append(s.FireEvents, FireEvent{Shooter: p.ID, Weapon: ws.ID})
	s.Log.AddVerbose(s.Tick, p.Label(), p.Team.String(), "fire", "shot",
		spec.Name, float64(ws.Mag))
	return true
}
