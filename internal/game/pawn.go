package game

import (
	"fmt"
	"math"
)

const (
	maxHP      = 100
	pawnRadius = 0.4  // half-extent on X/Z
	pawnHeight = 1.75 // eye height is 90% of this

	walkSpeed    = 5.0 // m/s
	sprintFactor = 1.5
	botSpeed     = 3.5
	gravity      = -18.0
	jumpVelocity = 6.5

	pitchLimit = 1.45 // radians, vertical look clamp
)

// Pawn is one combatant, human or bot.
type Pawn struct {
	ID    int
	Team  Team
	IsBot bool
	Alive bool

	Pos        Vec3
	Yaw, Pitch float64 // radians; yaw 0 faces +Z
	Vel        Vec3
	OnGround   bool

	HP int // 0..maxHP; Alive == (HP > 0)

	Weapon WeaponState

	// Utility counts, one of each at round start.
	FragCount  int
	SmokeCount int
	StunCount  int
}

// BBox returns the pawn's collision and hit volume.
func (p *Pawn) BBox() AABB {
	return AABB{
		Min: Vec3{p.Pos.X - pawnRadius, p.Pos.Y, p.Pos.Z - pawnRadius},
		Max: Vec3{p.Pos.X + pawnRadius, p.Pos.Y + pawnHeight, p.Pos.Z + pawnRadius},
	}
}

// EyePos returns the aim origin.
func (p *Pawn) EyePos() Vec3 {
	return Vec3{p.Pos.X, p.Pos.Y + pawnHeight*0.9, p.Pos.Z}
}

// ChestPos returns the centre-mass point other agents aim at and trace to.
func (p *Pawn) ChestPos() Vec3 {
	return Vec3{p.Pos.X, p.Pos.Y + pawnHeight*0.5, p.Pos.Z}
}

// LookDir returns the unit view direction from yaw and pitch.
func (p *Pawn) LookDir() Vec3 {
	return Vec3{
		X: math.Cos(p.Pitch) * math.Sin(p.Yaw),
		Y: math.Sin(p.Pitch),
		Z: math.Cos(p.Pitch) * math.Cos(p.Yaw),
	}
}

// ApplyDamage subtracts hp, clamping at zero, and reports whether the pawn
// died from this hit. A dead pawn takes no further damage.
func (p *Pawn) ApplyDamage(dmg int) bool {
	if !p.Alive || dmg <= 0 {
		return false
	}
	p.HP = clampI(p.HP-dmg, 0, maxHP)
	if p.HP == 0 {
		p.Alive = false
		return true
	}
	return false
}

// Label returns the short log identifier, e.g. "A0" or "D4".
func (p *Pawn) Label() string {
	letter := "N"
	switch p.Team {
	case TeamAttack:
		letter = "A"
	case TeamDefend:
		letter = "D"
	}
	return fmt.Sprintf("%s%d", letter, p.ID)
}
