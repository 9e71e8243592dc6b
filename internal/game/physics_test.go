package game

import (
	"math"
	"testing"
)

func wallSolid(min, max Vec3) Solid {
	return Solid{Bounds: AABB{Min: min, Max: max}}
}

// sweepAgainst runs one sweep and fails the test if the resolved position
// still penetrates any solid.
func sweepAgainst(t *testing.T, pos, vel Vec3, dt float64, solids []Solid) Vec3 {
	t.Helper()
	out, _ := sweepPawn(pos, vel, dt, solids)
	for i := range solids {
		if pawnOverlaps(out, &solids[i].Bounds) {
			t.Fatalf("pawn at %s penetrates solid %d after sweep from %s vel %s",
				formatPos(out), i, formatPos(pos), formatPos(vel))
		}
	}
	return out
}

func TestSweepPawn_BlocksEveryApproach(t *testing.T) {
	solids := []Solid{wallSolid(Vec3{2, 0, -2}, Vec3{3, 2, 2})}

	cases := []struct {
		name string
		pos  Vec3
		vel  Vec3
	}{
		{"from -X", Vec3{1, 0, 0}, Vec3{10, 0, 0}},
		{"from +X", Vec3{4, 0, 0}, Vec3{-10, 0, 0}},
		{"from -Z", Vec3{2.5, 0, -3}, Vec3{0, 0, 10}},
		{"from +Z", Vec3{2.5, 0, 3}, Vec3{0, 0, -10}},
		{"diagonal", Vec3{1.3, 0, -1}, Vec3{6, 0, 6}},
	}
	for _, tc := range cases {
		out := sweepAgainst(t, tc.pos, tc.vel, 0.1, solids)
		if out.Sub(tc.pos).Len() > 1.5 {
			t.Errorf("%s: pawn tunnelled to %s", tc.name, formatPos(out))
		}
	}
}

func TestSweepPawn_DiagonalIntoCorner(t *testing.T) {
	solids := []Solid{
		wallSolid(Vec3{2, 0, -2}, Vec3{3, 2, 2}),
		wallSolid(Vec3{-2, 0, 2}, Vec3{2, 2, 3}),
	}
	// Heading straight into the inside corner where both boxes meet.
	out := sweepAgainst(t, Vec3{1, 0, 1}, Vec3{8, 0, 8}, 0.1, solids)
	if out.X > 2-pawnRadius+0.01 {
		t.Errorf("X penetration: %.4f", out.X)
	}
	if out.Z > 2-pawnRadius+0.01 {
		t.Errorf("Z penetration: %.4f", out.Z)
	}
}

func TestSweepPawn_FloorContact(t *testing.T) {
	floor := Solid{
		Bounds:  AABB{Min: Vec3{-10, -0.2, -10}, Max: Vec3{10, 0, 10}},
		IsFloor: true,
	}
	pos, onGround := sweepPawn(Vec3{0, 0.5, 0}, Vec3{0, -5, 0}, 0.2, []Solid{floor})
	if !onGround {
		t.Fatal("falling onto a floor slab should report ground contact")
	}
	if pos.Y < 0 || pos.Y > 0.01 {
		t.Fatalf("pawn should rest on the slab top, got y=%.4f", pos.Y)
	}
}

func TestSweepPawn_HardFloorCatchesEverything(t *testing.T) {
	pos, onGround := sweepPawn(Vec3{0, 0.2, 0}, Vec3{0, -20, 0}, 0.2, nil)
	if pos.Y != 0 || !onGround {
		t.Fatalf("no geometry below: want y=0 grounded, got y=%.4f grounded=%v", pos.Y, onGround)
	}
}

func TestRaycastSolids_NearestWins(t *testing.T) {
	solids := []Solid{
		wallSolid(Vec3{10, -1, -1}, Vec3{11, 1, 1}),
		wallSolid(Vec3{5, -1, -1}, Vec3{6, 1, 1}),
	}
	hr := raycastSolids(Vec3{0, 0, 0}, Vec3{X: 1}, 100, solids)
	if !hr.Hit || hr.Solid != 1 {
		t.Fatalf("want nearest solid 1, got hit=%v solid=%d", hr.Hit, hr.Solid)
	}
	if math.Abs(hr.Dist-5) > 1e-9 {
		t.Fatalf("want entry distance 5, got %.6f", hr.Dist)
	}
}

func TestRaycastSolids_RespectsMaxDistance(t *testing.T) {
	solids := []Solid{wallSolid(Vec3{5, -1, -1}, Vec3{6, 1, 1})}
	if hr := raycastSolids(Vec3{0, 0, 0}, Vec3{X: 1}, 4, solids); hr.Hit {
		t.Fatalf("solid beyond max distance must not hit, got dist=%.2f", hr.Dist)
	}
}

func TestRayAABBHit_InsideStartsAtZero(t *testing.T) {
	box := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	tHit, ok := rayAABBHit(Vec3{0, 0, 0}, Vec3{X: 1}, box)
	if !ok || tHit != 0 {
		t.Fatalf("ray starting inside: want t=0 ok, got t=%.4f ok=%v", tHit, ok)
	}
}

func TestSmokeBlocks(t *testing.T) {
	smokes := []SmokeZone{{Pos: Vec3{0, 1, 0}, Radius: 3.5, LifeLeft: 10}}

	if !smokeBlocks(Vec3{0, 1, -6}, Vec3{0, 1, 6}, smokes) {
		t.Error("segment through the smoke centre should be blocked")
	}
	if smokeBlocks(Vec3{10, 1, -6}, Vec3{10, 1, 6}, smokes) {
		t.Error("segment far to the side should not be blocked")
	}
	// Smoke past the far endpoint does not cut the segment.
	if smokeBlocks(Vec3{0, 1, -10}, Vec3{0, 1, -5}, smokes) {
		t.Error("smoke beyond the segment endpoint should not block")
	}
	if smokeBlocks(Vec3{0, 1, 6}, Vec3{0, 1, 10}, smokes) {
		t.Error("smoke behind the segment start should not block")
	}
}

func TestVecNorm_ZeroVectorStaysZero(t *testing.T) {
	n := (Vec3{}).Norm()
	if n.Len() != 0 {
		t.Fatalf("normalising a zero vector must stay zero, got %s", formatPos(n))
	}
}
