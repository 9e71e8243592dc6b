package game

import "fmt"

// UtilityKind tags the three grenade variants. All three share flight
// physics and diverge only at detonation.
type UtilityKind int

const (
	UtilityFrag UtilityKind = iota
	UtilitySmoke
	UtilityStun
)

func (k UtilityKind) String() string {
	switch k {
	case UtilityFrag:
		return "frag"
	case UtilitySmoke:
		return "smoke"
	case UtilityStun:
		return "stun"
	default:
		return "unknown"
	}
}

const (
	fragRadius  = 4.5
	fragDamage  = 80.0
	fragFuseSec = 2.5
	quickFuse   = 0.8 // smoke and stun pop fast

	smokeRadius      = 3.5
	smokeDurationSec = 12.0

	stunDurationSec = 2.0
	stunReach       = fragRadius * 1.5

	grenadeGravity = -18.0
	grenadeBounce  = 0.45 // restitution
	grenadeDamping = 0.8  // horizontal damping on ground bounce
	grenadeRadius  = 0.1
	throwSpeed     = 12.0
	throwLift      = 4.0

	hitFlashDecay = 2.5 // per second
)

// Grenade is one thrown utility projectile in flight.
type Grenade struct {
	Kind      UtilityKind
	Pos       Vec3
	Vel       Vec3
	FuseTimer float64
	Detonated bool
	OwnerID   int
}

// throwUtility consumes one unit of the requested kind and launches a
// projectile along the thrower's aim with a fixed upward arc. Throwing
// with a zero count, or against a full projectile collection, is a no-op.
func (s *Sim) throwUtility(p *Pawn, kind UtilityKind) bool {
	var count *int
	switch kind {
	case UtilityFrag:
		count = &p.FragCount
	case UtilitySmoke:
		count = &p.SmokeCount
	case UtilityStun:
		count = &p.StunCount
	default:
		return false
	}
	if *count <= 0 || len(s.World.Grenades) >= maxGrenades {
		return false
	}

	fuse := quickFuse
	if kind == UtilityFrag {
		fuse = fragFuseSec
	}
	vel := p.LookDir().Scale(throwSpeed)
	vel.Y += throwLift

	if !s.World.AddGrenade(Grenade{
		Kind:      kind,
		Pos:       p.EyePos(),
		Vel:       vel,
		FuseTimer: fuse,
		OwnerID:   p.ID,
	}) {
		return false
	}
	*count--
	s.Log.Add(s.Tick, p.Label(), p.Team.String(), "grenade", "throw", kind.String(), fuse)
	return true
}

// updateUtility advances grenade flight and fuses, applies detonation
// effects, and decays every timed cosmetic (smoke, stun overlay, hit
// flash, tracers).
func (s *Sim) updateUtility(dt float64) {
	w := s.World

	for i := range w.Grenades {
		g := &w.Grenades[i]
		if g.Detonated {
			continue
		}
		g.FuseTimer -= dt

		// Explicit Euler flight with ground bounce.
		g.Vel.Y += grenadeGravity * dt
		g.Pos = g.Pos.Add(g.Vel.Scale(dt))
		if g.Pos.Y < grenadeRadius {
			g.Pos.Y = grenadeRadius
			g.Vel.Y = -g.Vel.Y * grenadeBounce
			g.Vel.X *= grenadeDamping
			g.Vel.Z *= grenadeDamping
		}

		// Simplified wall bounce: reflect the horizontal components on
		// any overlap rather than mirroring about the contact normal.
		gBox := AABB{
			Min: Vec3{g.Pos.X - grenadeRadius, g.Pos.Y - grenadeRadius, g.Pos.Z - grenadeRadius},
			Max: Vec3{g.Pos.X + grenadeRadius, g.Pos.Y + grenadeRadius, g.Pos.Z + grenadeRadius},
		}
		for j := range w.Solids {
			if gBox.Overlaps(w.Solids[j].Bounds) {
				g.Vel.X = -g.Vel.X * grenadeBounce
				g.Vel.Z = -g.Vel.Z * grenadeBounce
			}
		}

		// Detonation is fuse-driven, independent of flight state.
		if g.FuseTimer <= 0 {
			g.Detonated = true
			s.detonate(g)
		}
	}

	// Detonated projectiles leave the collection at end of tick.
	live := w.Grenades[:0]
	for i := range w.Grenades {
		if !w.Grenades[i].Detonated {
			live = append(live, w.Grenades[i])
		}
	}
	w.Grenades = live

	alive := w.Smokes[:0]
	for i := range w.Smokes {
		w.Smokes[i].LifeLeft -= dt
		if w.Smokes[i].LifeLeft > 0 {
			alive = append(alive, w.Smokes[i])
		}
	}
	w.Smokes = alive

	if w.Stun.TimeLeft > 0 {
		w.Stun.TimeLeft -= dt
	}
	if w.HitFlash > 0 {
		w.HitFlash = clampF(w.HitFlash-dt*hitFlashDecay, 0, 1)
	}

	keep := w.Tracers[:0]
	for i := range w.Tracers {
		w.Tracers[i].LifeLeft -= dt
		if w.Tracers[i].LifeLeft > 0 {
			keep = append(keep, w.Tracers[i])
		}
	}
	w.Tracers = keep
}

func (s *Sim) detonate(g *Grenade) {
	w := s.World
	s.Log.Add(s.Tick, "--", "--", "grenade", "detonate", g.Kind.String(), 0)
	s.BlastEvents = append(s.BlastEvents, g.Kind)

	switch g.Kind {
	case UtilityFrag:
		for i := range w.Pawns {
			p := &w.Pawns[i]
			if !p.Alive {
				continue
			}
			d := p.Pos.Sub(g.Pos).Len()
			if d > fragRadius {
				continue
			}
			if blastBlocked(g.Pos, p.Pos, d, w) {
				continue
			}
			falloff := 1.0 - d/fragRadius
			dmg := int(fragDamage * falloff)
			died := p.ApplyDamage(dmg)
			if p.ID == w.PlayerID && dmg > 0 {
				w.HitFlash = 1.0
			}
			s.Log.Add(s.Tick, p.Label(), p.Team.String(), "hit", "blast",
				fmt.Sprintf("%d dmg at %.1fm", dmg, d), float64(p.HP))
			if died {
				s.Log.Add(s.Tick, p.Label(), p.Team.String(), "hit", "death", "blast", 0)
			}
		}

	case UtilitySmoke:
		w.AddSmoke(SmokeZone{Pos: g.Pos, Radius: smokeRadius, LifeLeft: smokeDurationSec})

	case UtilityStun:
		// Only the human pawn carries the impairment overlay; bots
		// ignore stun entirely.
		for i := range w.Pawns {
			p := &w.Pawns[i]
			if !p.Alive || p.IsBot {
				continue
			}
			if p.Pos.Sub(g.Pos).Len() > stunReach {
				continue
			}
			w.Stun = StunState{TimeLeft: stunDurationSec, Peak: stunDurationSec}
		}
	}
}

// blastBlocked reports whether geometry or smoke cuts the line from the
// detonation point to the pawn strictly before reaching it.
func blastBlocked(from, to Vec3, dist float64, w *World) bool {
	if dist < 0.01 {
		return false
	}
	dir := to.Sub(from).Norm()
	hr := raycastSolids(from, dir, dist, w.Solids)
	if hr.Hit && hr.Dist < dist-0.1 {
		return true
	}
	return smokeBlocks(from, to, w.Smokes)
}
