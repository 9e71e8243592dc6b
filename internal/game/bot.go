package game

import (
	"math"
	"math/rand"
)

// Bot tuning.
const (
	botVisionRange    = 40.0
	botVisionDot      = 0.50 // cos of the nominal half-FOV
	botPeripheralDot  = botVisionDot - 0.3
	botVisionHz       = 10.0 // throttled re-check rate
	botReactionSec    = 0.25
	botAimNoiseRad    = 0.04
	botWaypointReach  = 1.0
	searchReachFactor = 2.0

	retreatBelowHP  = 25
	recoverAboveHP  = 50
	engageMaxDist   = 15.0
	engageMinDist   = 6.0
	strafeSpeedMul  = 0.5
	strafeMinPeriod = 0.8
	strafeJitter    = 1.2
	botPitchLimit   = 1.3
)

// BotState is the behaviour state of one autonomous pawn.
type BotState int

const (
	BotPatrol BotState = iota
	BotEngage
	BotSearch
	BotRetreat
)

func (bs BotState) String() string {
	switch bs {
	case BotPatrol:
		return "patrol"
	case BotEngage:
		return "engage"
	case BotSearch:
		return "search"
	case BotRetreat:
		return "retreat"
	default:
		return "unknown"
	}
}

// BotBrain is the per-bot behavioural record.
type BotBrain struct {
	State       BotState
	WaypointIdx int
	TargetID    int // engaged pawn, -1 when none
	LastKnown   Vec3

	visionTimer   float64
	reactionTimer float64
	strafeTimer   float64
	strafeSign    float64
	hasSightLine  bool
}

// BotController owns one brain per bot pawn, keyed by pawn ID. Brains are
// rebuilt on every round reset.
type BotController struct {
	brains map[int]*BotBrain
	rng    *rand.Rand
}

// NewBotController creates a controller drawing all behaviour randomness
// (strafe flips, patrol tie-breaks, aim noise) from the given source.
func NewBotController(rng *rand.Rand) *BotController {
	return &BotController{brains: make(map[int]*BotBrain, maxPawns), rng: rng}
}

// Reset rebuilds every bot brain to the patrol default, staggering the
// starting waypoint by pawn slot so bots fan out.
func (bc *BotController) Reset(w *World) {
	for id := range bc.brains {
		delete(bc.brains, id)
	}
	for i := range w.Pawns {
		p := &w.Pawns[i]
		if !p.IsBot {
			continue
		}
		brain := &BotBrain{
			TargetID:      -1,
			strafeSign:    1,
			reactionTimer: botReactionSec,
		}
		if len(w.Waypoints) > 0 {
			brain.WaypointIdx = p.ID % len(w.Waypoints)
		}
		bc.brains[p.ID] = brain
	}
}

// Brain returns the record for a pawn ID, or nil for non-bots.
func (bc *BotController) Brain(id int) *BotBrain {
	return bc.brains[id]
}

// Update runs one FSM step for every living bot.
func (bc *BotController) Update(s *Sim, dt float64) {
	w := s.World
	for i := range w.Pawns {
		p := &w.Pawns[i]
		if !p.IsBot || !p.Alive {
			continue
		}
		brain := bc.brains[p.ID]
		if brain == nil {
			continue
		}
		bc.updateOne(s, p, brain, dt)
	}
}

func (bc *BotController) updateOne(s *Sim, p *Pawn, brain *BotBrain, dt float64) {
	w := s.World

	// Throttled vision re-check.
	brain.visionTimer -= dt
	if brain.visionTimer <= 0 {
		brain.visionTimer = 1.0 / botVisionHz
		if vis := findVisibleEnemy(w, p); vis >= 0 {
			brain.TargetID = vis
			brain.LastKnown = w.Pawns[vis].Pos
			if !brain.hasSightLine {
				brain.reactionTimer = botReactionSec
			}
			brain.hasSightLine = true
			bc.setState(s, p, brain, BotEngage)
		} else if brain.TargetID >= 0 {
			brain.hasSightLine = false
			if brain.State == BotEngage {
				bc.setState(s, p, brain, BotSearch)
			}
		}
	}

	// Low health with a living teammate overrides everything.
	if p.HP < retreatBelowHP && w.AliveCount(p.Team) > 1 {
		bc.setState(s, p, brain, BotRetreat)
	}

	switch brain.State {
	case BotPatrol:
		bc.stepPatrol(s, p, brain, dt)
	case BotEngage:
		bc.stepEngage(s, p, brain, dt)
	case BotSearch:
		bc.stepSearch(s, p, brain, dt)
	case BotRetreat:
		bc.stepRetreat(s, p, brain, dt)
	}
}

func (bc *BotController) setState(s *Sim, p *Pawn, brain *BotBrain, next BotState) {
	if brain.State == next {
		return
	}
	s.Log.Add(s.Tick, p.Label(), p.Team.String(), "ai", "state",
		brain.State.String()+" -> "+next.String(), 0)
	brain.State = next
}

func (bc *BotController) stepPatrol(s *Sim, p *Pawn, brain *BotBrain, dt float64) {
	w := s.World
	if len(w.Waypoints) == 0 {
		return
	}
	wp := &w.Waypoints[brain.WaypointIdx%len(w.Waypoints)]
	bc.moveToward(s, p, wp.Pos, dt, 0)

	if p.Pos.Sub(wp.Pos).Len() < botWaypointReach {
		if len(wp.Neighbors) > 0 {
			brain.WaypointIdx = wp.Neighbors[bc.rng.Intn(len(wp.Neighbors))]
		} else {
			brain.WaypointIdx = (brain.WaypointIdx + 1) % len(w.Waypoints)
		}
	}
}

func (bc *BotController) stepEngage(s *Sim, p *Pawn, brain *BotBrain, dt float64) {
	w := s.World
	if brain.TargetID < 0 || !w.Pawns[brain.TargetID].Alive {
		brain.TargetID = -1
		bc.setState(s, p, brain, BotPatrol)
		return
	}
	target := &w.Pawns[brain.TargetID]
	bc.aimAt(p, target.ChestPos())

	brain.strafeTimer -= dt
	if brain.strafeTimer <= 0 {
		brain.strafeTimer = strafeMinPeriod + bc.rng.Float64()*strafeJitter
		if bc.rng.Intn(2) == 0 {
			brain.strafeSign = 1
		} else {
			brain.strafeSign = -1
		}
	}

	dist := p.Pos.Sub(target.Pos).Len()
	switch {
	case dist > engageMaxDist:
		bc.moveToward(s, p, target.Pos, dt, brain.strafeSign)
	case dist < engageMinDist:
		away := p.Pos.Sub(target.Pos).Norm()
		bc.moveToward(s, p, p.Pos.Add(away), dt, 0)
	default:
		// Hold the band and strafe laterally.
		look := p.LookDir()
		right := Vec3{X: look.Z, Z: -look.X}
		p.Vel.X = right.X * botSpeed * strafeSpeedMul * brain.strafeSign
		p.Vel.Z = right.Z * botSpeed * strafeSpeedMul * brain.strafeSign
		bc.integrate(p, dt, s.World.Solids)
	}

	if brain.hasSightLine {
		brain.reactionTimer -= dt
		if brain.reactionTimer <= 0 {
			s.fireWeapon(p)
		}
	} else {
		brain.reactionTimer = botReactionSec
	}
}

func (bc *BotController) stepSearch(s *Sim, p *Pawn, brain *BotBrain, dt float64) {
	bc.moveToward(s, p, brain.LastKnown, dt, 0)
	if p.Pos.Sub(brain.LastKnown).Len() < botWaypointReach*searchReachFactor {
		brain.TargetID = -1
		bc.setState(s, p, brain, BotPatrol)
	}
}

func (bc *BotController) stepRetreat(s *Sim, p *Pawn, brain *BotBrain, dt float64) {
	w := s.World
	if len(w.Waypoints) == 0 {
		return
	}
	bc.moveToward(s, p, w.Waypoints[nearestWaypoint(p.Pos, w.Waypoints)].Pos, dt, 0)
	if p.HP > recoverAboveHP {
		bc.setState(s, p, brain, BotPatrol)
	}
}

// moveToward steers the pawn horizontally at a target point through the
// swept resolver, with an optional lateral strafe mix, and faces the
// direction of travel.
func (bc *BotController) moveToward(s *Sim, p *Pawn, target Vec3, dt float64, strafeSign float64) {
	to := target.Sub(p.Pos)
	to.Y = 0
	if to.Len() < 0.05 {
		return
	}
	forward := to.Norm()
	right := Vec3{X: forward.Z, Z: -forward.X}
	move := forward.Add(right.Scale(strafeSign * 0.3)).Norm()

	p.Vel.X = move.X * botSpeed
	p.Vel.Z = move.Z * botSpeed
	bc.integrate(p, dt, s.World.Solids)
	p.Yaw = math.Atan2(to.X, to.Z)
}

// integrate applies gravity, sweeps and settles ground contact.
func (bc *BotController) integrate(p *Pawn, dt float64, solids []Solid) {
	p.Vel.Y += gravity * dt
	pos, onGround := sweepPawn(p.Pos, p.Vel, dt, solids)
	p.Pos = pos
	p.OnGround = onGround
	if onGround {
		p.Vel.Y = 0
	}
}

// aimAt points the bot at a world position with fixed-magnitude noise.
func (bc *BotController) aimAt(p *Pawn, target Vec3) {
	delta := target.Sub(p.EyePos())
	dist := delta.Len()
	if dist < 0.01 {
		return
	}
	delta.X += (bc.rng.Float64() - 0.5) * botAimNoiseRad * 2 * dist
	delta.Y += (bc.rng.Float64() - 0.5) * botAimNoiseRad * dist

	p.Yaw = math.Atan2(delta.X, delta.Z)
	p.Pitch = clampF(math.Atan2(delta.Y, math.Hypot(delta.X, delta.Z)),
		-botPitchLimit, botPitchLimit)
}

// findVisibleEnemy scans living opposing pawns and returns the nearest one
// inside vision range, inside the widened awareness cone, and occluded by
// neither geometry nor smoke. Returns -1 when nothing qualifies.
func findVisibleEnemy(w *World, bot *Pawn) int {
	eye := bot.EyePos()
	look := bot.LookDir()

	bestSq := botVisionRange * botVisionRange
	best := -1

	for i := range w.Pawns {
		p := &w.Pawns[i]
		if !p.Alive || p.Team == bot.Team || p.ID == bot.ID {
			continue
		}
		chest := p.ChestPos()
		toEnemy := chest.Sub(eye)
		dSq := toEnemy.LenSq()
		if dSq > bestSq {
			continue
		}

		// Peripheral awareness: wider than the nominal view cone.
		if toEnemy.Norm().Dot(look) < botPeripheralDot {
			continue
		}

		d := math.Sqrt(dSq)
		hr := raycastSolids(eye, toEnemy.Norm(), d, w.Solids)
		if hr.Hit && hr.Dist < d-0.2 {
			continue
		}
		if smokeBlocks(eye, chest, w.Smokes) {
			continue
		}

		bestSq = dSq
		best = i
	}
	return best
}

// nearestWaypoint returns the index of the waypoint closest to pos.
func nearestWaypoint(pos Vec3, wps []Waypoint) int {
	best := 0
	bestSq := math.Inf(1)
	for i := range wps {
		d := pos.Sub(wps[i].Pos).LenSq()
		if d < bestSq {
			bestSq = d
			best = i
		}
	}
	return best
}
