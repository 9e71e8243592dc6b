package game

import "math"

const (
	// collisionSkin is the clearance left after a push-out so the next
	// tick never starts embedded in the solid it just resolved against.
	collisionSkin = 0.001

	// floorContactBand treats any upward push-out smaller than this as
	// standing contact even when the solid is not floor-tagged.
	floorContactBand = 0.1
)

// sweepPawn resolves a pawn-sized moving box against all static solids,
// one axis at a time in X, Z, Y order. Testing the combined displacement
// in a single step lets a diagonal move into a corner read as a vertical
// hit; the split keeps wall contacts on the horizontal axes. Returns the
// resolved position and whether the vertical pass ended in floor contact.
func sweepPawn(pos, vel Vec3, dt float64, solids []Solid) (Vec3, bool) {
	delta := vel.Scale(dt)
	onGround := false

	pos.X += delta.X
	for i := range solids {
		b := &solids[i].Bounds
		if !pawnOverlaps(pos, b) {
			continue
		}
		out := b.Max.X - (pos.X - pawnRadius)
		in := (pos.X + pawnRadius) - b.Min.X
		if out < in {
			pos.X += out + collisionSkin
		} else {
			pos.X -= in + collisionSkin
		}
	}

	pos.Z += delta.Z
	for i := range solids {
		b := &solids[i].Bounds
		if !pawnOverlaps(pos, b) {
			continue
		}
		out := b.Max.Z - (pos.Z - pawnRadius)
		in := (pos.Z + pawnRadius) - b.Min.Z
		if out < in {
			pos.Z += out + collisionSkin
		} else {
			pos.Z -= in + collisionSkin
		}
	}

	pos.Y += delta.Y
	for i := range solids {
		b := &solids[i].Bounds
		if !pawnOverlaps(pos, b) {
			continue
		}
		up := b.Max.Y - pos.Y
		down := (pos.Y + pawnHeight) - b.Min.Y
		if up < down {
			pos.Y += up + collisionSkin
			if solids[i].IsFloor || up < floorContactBand {
				onGround = true
			}
		} else {
			pos.Y -= down + collisionSkin
		}
	}

	// Hard safety floor: nothing falls through all geometry.
	if pos.Y < 0 {
		pos.Y = 0
		onGround = true
	}
	return pos, onGround
}

func pawnOverlaps(pos Vec3, b *AABB) bool {
	return pos.X+pawnRadius > b.Min.X && pos.X-pawnRadius < b.Max.X &&
		pos.Y+pawnHeight > b.Min.Y && pos.Y < b.Max.Y &&
		pos.Z+pawnRadius > b.Min.Z && pos.Z-pawnRadius < b.Max.Z
}

// RayHit is the nearest-intersection result of a geometry raycast.
type RayHit struct {
	Hit   bool
	Dist  float64
	Point Vec3
	Solid int // index into the solids slice, -1 on miss
}

// rayAABBHit returns the entry distance of a ray (unit direction) into the
// box via the slab method. Rays starting inside report distance 0.
func rayAABBHit(origin, dir Vec3, box AABB) (float64, bool) {
	tMin, tMax := 0.0, math.Inf(1)

	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}

	for a := 0; a < 3; a++ {
		if math.Abs(d[a]) < 1e-12 {
			if o[a] < lo[a] || o[a] > hi[a] {
				return 0, false
			}
			continue
		}
		invD := 1.0 / d[a]
		t1 := (lo[a] - o[a]) * invD
		t2 := (hi[a] - o[a]) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// raycastSolids returns the nearest solid strictly within maxDist along a
// unit direction. Solid counts are small and bounded, so a linear scan is
// the whole spatial index.
func raycastSolids(origin, dir Vec3, maxDist float64, solids []Solid) RayHit {
	best := RayHit{Dist: maxDist, Solid: -1}
	for i := range solids {
		t, ok := rayAABBHit(origin, dir, solids[i].Bounds)
		if !ok || t <= 0 || t >= best.Dist {
			continue
		}
		best = RayHit{Hit: true, Dist: t, Point: origin.Add(dir.Scale(t)), Solid: i}
	}
	return best
}

// raySphereHit returns the first positive intersection distance of a ray
// (unit direction) with a sphere.
func raySphereHit(origin, dir, center Vec3, radius float64) (float64, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.LenSq() - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// smokeBlocks reports whether any active smoke sphere cuts the segment
// from one point to another strictly before the far endpoint. Smoke
// defeats both bot sight-lines and blast line-of-sight checks.
func smokeBlocks(from, to Vec3, smokes []SmokeZone) bool {
	seg := to.Sub(from)
	length := seg.Len()
	if length < 0.01 {
		return false
	}
	dir := seg.Scale(1.0 / length)
	for i := range smokes {
		t, ok := raySphereHit(from, dir, smokes[i].Pos, smokes[i].Radius)
		if ok && t > 0 && t < length {
			return true
		}
	}
	return false
}
