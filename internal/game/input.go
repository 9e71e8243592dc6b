package game

import "math"

const mouseSensitivity = 0.002 // radians per look-delta unit

// InputState is the per-tick intent for the human pawn, produced by the
// windowed front end (or synthesised by tests). The sim only reads it.
type InputState struct {
	Forward float64 // -1..1
	Strafe  float64 // -1..1, positive is right
	LookDX  float64 // raw look delta, scaled by mouseSensitivity
	LookDY  float64
	Jump    bool
	Sprint  bool

	FireHeld    bool
	FirePressed bool
	ADS         bool

	WeaponSelect int // -1 for none, else WeaponID
	Reload       bool

	ThrowFrag  bool
	ThrowSmoke bool
	ThrowStun  bool
}

// NoInput returns an empty intent.
func NoInput() InputState {
	return InputState{WeaponSelect: -1}
}

// stepPlayer applies the human intent: look, planar movement with sprint,
// jump, gravity and sweep, then weapon handling and utility throws.
// Outside active play the pawn is frozen and the intent is discarded.
func (s *Sim) stepPlayer(in InputState, dt float64) {
	if s.World.Round.Phase != PhaseActive {
		return
	}
	p := s.World.Player()
	if !p.Alive {
		return
	}

	p.Yaw = normalizeAngle(p.Yaw + in.LookDX*mouseSensitivity)
	p.Pitch = clampF(p.Pitch-in.LookDY*mouseSensitivity, -pitchLimit, pitchLimit)

	forward := Vec3{X: math.Sin(p.Yaw), Z: math.Cos(p.Yaw)}
	right := Vec3{X: forward.Z, Z: -forward.X}
	move := forward.Scale(in.Forward).Add(right.Scale(in.Strafe))

	speed := walkSpeed
	if in.Sprint {
		speed *= sprintFactor
	}
	if move.Len() > 0 {
		move = move.Norm().Scale(speed)
	}
	p.Vel.X = move.X
	p.Vel.Z = move.Z

	p.Vel.Y += gravity * dt
	if in.Jump && p.OnGround {
		p.Vel.Y = jumpVelocity
	}

	pos, onGround := sweepPawn(p.Pos, p.Vel, dt, s.World.Solids)
	p.Pos = pos
	p.OnGround = onGround
	if onGround && p.Vel.Y < 0 {
		p.Vel.Y = 0
	}

	if in.WeaponSelect >= 0 && in.WeaponSelect < int(weaponCount) {
		id := WeaponID(in.WeaponSelect)
		if id != p.Weapon.ID {
			spec := WeaponSpecFor(id)
			p.Weapon = WeaponState{ID: id, Mag: spec.MagSize, Reserve: spec.MagSize * 2}
		}
	}

	p.Weapon.ADS = in.ADS

	// Semi-automatic weapons fire on the trigger edge, automatics while held.
	shouldFire := in.FireHeld
	if p.Weapon.Spec().SemiAuto {
		shouldFire = in.FirePressed
	}
	if shouldFire {
		s.fireWeapon(p)
	}

	if in.Reload {
		startReload(&p.Weapon)
	}

	if in.ThrowFrag {
		s.throwUtility(p, UtilityFrag)
	}
	if in.ThrowSmoke {
		s.throwUtility(p, UtilitySmoke)
	}
	if in.ThrowStun {
		s.throwUtility(p, UtilityStun)
	}
}
