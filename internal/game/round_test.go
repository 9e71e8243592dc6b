package game

import (
	"strings"
	"testing"
)

// quietArenaOpts is an open arena with both teams parked far apart so no
// bot ever sights an enemy; round lifecycle runs undisturbed.
func quietArenaOpts(extra ...SimOption) []SimOption {
	opts := []SimOption{
		WithSeed(4),
		WithFloor(-60, -60, 60, 60),
		WithObjective(Vec3{30, 0, -30}, 3),
		WithSpawn(TeamAttack, Vec3{0, 0.1, 0}, 0),
		WithSpawn(TeamAttack, Vec3{-40, 0.1, -40}, 0),
		WithSpawn(TeamAttack, Vec3{-42, 0.1, -40}, 0),
		WithSpawn(TeamDefend, Vec3{40, 0.1, 40}, 0),
		WithSpawn(TeamDefend, Vec3{42, 0.1, 40}, 0),
		WithSpawn(TeamDefend, Vec3{44, 0.1, 40}, 0),
	}
	return append(opts, extra...)
}

func TestRound_FreezeThenActive(t *testing.T) {
	ts := NewTestSim(WithSeed(4))
	rs := &ts.World.Round

	if rs.Phase != PhaseWaiting || rs.Number != 1 {
		t.Fatalf("fresh sim: want waiting round 1, got %s round %d", rs.Phase, rs.Number)
	}
	for i := range ts.World.Pawns {
		p := &ts.World.Pawns[i]
		if !p.Alive || p.HP != maxHP {
			t.Fatalf("pawn %d not at full health at round start", i)
		}
		wantTeam := TeamDefend
		if i < teamSize {
			wantTeam = TeamAttack
		}
		if p.Team != wantTeam {
			t.Fatalf("pawn %d team: want %s, got %s", i, wantTeam, p.Team)
		}
	}
	if ts.World.Player().Weapon.ID != WeaponRifle {
		t.Fatal("attackers spawn with rifles")
	}
	if ts.World.Pawns[3].Weapon.ID != WeaponSMG {
		t.Fatal("defenders spawn with SMGs")
	}

	// Just short of the freeze time: still waiting.
	ts.Run(170)
	if rs.Phase != PhaseWaiting {
		t.Fatalf("freeze ended early at tick %d", ts.Tick)
	}
	ts.Run(20)
	if rs.Phase != PhaseActive {
		t.Fatalf("round should be active after the freeze, got %s", rs.Phase)
	}
}

func TestRound_CaptureWinAndNextRound(t *testing.T) {
	// Objective directly under the attacker spawn.
	ts := NewTestSim(quietArenaOpts(WithObjective(Vec3{0, 0, 0}, 3))...)
	ts.AdvanceToActive()
	rs := &ts.World.Round

	ts.Run(int(captureTimeSec/tickDT) + 30)
	if rs.Phase != PhaseRoundOver {
		t.Fatalf("holding the zone for %.0fs should win, phase=%s", captureTimeSec, rs.Phase)
	}
	if rs.Winner != TeamAttack || rs.ScoreAttack != 1 {
		t.Fatalf("capture win: winner=%s scoreAttack=%d", rs.Winner, rs.ScoreAttack)
	}
	if !ts.World.Objective.Captured {
		t.Fatal("objective must be marked captured")
	}
	wins := ts.Log.Filter("round", "win")
	if len(wins) != 1 || !strings.Contains(wins[0].Value, "capture") {
		t.Fatalf("win log entry missing or wrong: %v", wins)
	}

	// Round-over delay, then a fresh round with the score kept.
	ts.Run(int(roundOverDelaySec/tickDT) + 10)
	if rs.Phase != PhaseWaiting || rs.Number != 2 {
		t.Fatalf("want waiting round 2, got %s round %d", rs.Phase, rs.Number)
	}
	if rs.ScoreAttack != 1 {
		t.Fatalf("score must survive the reset, got %d", rs.ScoreAttack)
	}
	if ts.World.Objective.CaptureProgress != 0 || ts.World.Objective.Captured {
		t.Fatal("objective must reset with the round")
	}
	for i := range ts.World.Pawns {
		if !ts.World.Pawns[i].Alive {
			t.Fatalf("pawn %d not respawned", i)
		}
	}
}

func TestRound_CaptureProgressDecaysButNeverBelowZero(t *testing.T) {
	ts := NewTestSim(quietArenaOpts(WithObjective(Vec3{0, 0, 0}, 3))...)
	ts.AdvanceToActive()
	obj := &ts.World.Objective

	ts.Run(120) // two seconds in the zone
	if obj.CaptureProgress < 1.8 || obj.CaptureProgress > 2.2 {
		t.Fatalf("want roughly 2s of progress, got %.2f", obj.CaptureProgress)
	}

	ts.World.Player().Pos = Vec3{-50, 0.1, -50}
	ts.Run(60) // one second empty: decays at half rate
	if obj.CaptureProgress < 1.3 || obj.CaptureProgress > 1.7 {
		t.Fatalf("want roughly 1.5s after decay, got %.2f", obj.CaptureProgress)
	}

	ts.Run(600)
	if obj.CaptureProgress != 0 {
		t.Fatalf("progress must clamp at zero, got %.3f", obj.CaptureProgress)
	}
	if ts.World.Round.Phase != PhaseActive {
		t.Fatal("decay alone must not end the round")
	}
}

func TestRound_TimerExpiryGivesDefendTheWin(t *testing.T) {
	ts := NewTestSim(quietArenaOpts()...)
	ts.AdvanceToActive()
	rs := &ts.World.Round

	rs.Timer = 0.5
	ts.Run(60)
	if rs.Phase != PhaseRoundOver || rs.Winner != TeamDefend {
		t.Fatalf("time expiry: want defend win, got phase=%s winner=%s", rs.Phase, rs.Winner)
	}
	if rs.ScoreDefend != 1 {
		t.Fatalf("defend score: want 1, got %d", rs.ScoreDefend)
	}
	if !ts.World.Player().Alive {
		t.Fatal("the attacker surviving to the timer still loses the round")
	}
	wins := ts.Log.Filter("round", "win")
	if len(wins) != 1 || !strings.Contains(wins[0].Value, "time") {
		t.Fatalf("want a win-by-time log entry, got %v", wins)
	}
}

func TestRound_EliminationWins(t *testing.T) {
	ts := NewTestSim(quietArenaOpts()...)
	ts.AdvanceToActive()
	for i := teamSize; i < maxPawns; i++ {
		ts.World.Pawns[i].ApplyDamage(maxHP)
	}
	ts.Run(1)
	rs := &ts.World.Round
	if rs.Winner != TeamAttack || !strings.Contains(ts.Log.Filter("round", "win")[0].Value, "elimination") {
		t.Fatalf("wiping the defenders: want attack win by elimination, winner=%s", rs.Winner)
	}

	ts2 := NewTestSim(quietArenaOpts()...)
	ts2.AdvanceToActive()
	for i := 0; i < teamSize; i++ {
		ts2.World.Pawns[i].ApplyDamage(maxHP)
	}
	ts2.Run(1)
	if ts2.World.Round.Winner != TeamDefend {
		t.Fatalf("wiping the attackers: want defend win, got %s", ts2.World.Round.Winner)
	}
}

func TestRound_MatchOverAtTargetAndRestart(t *testing.T) {
	ts := NewTestSim(quietArenaOpts()...)
	rs := &ts.World.Round
	rs.ScoreAttack = matchScoreTarget - 1
	ts.AdvanceToActive()

	for i := teamSize; i < maxPawns; i++ {
		ts.World.Pawns[i].ApplyDamage(maxHP)
	}
	ts.Run(1)
	if rs.ScoreAttack != matchScoreTarget {
		t.Fatalf("want score %d, got %d", matchScoreTarget, rs.ScoreAttack)
	}

	ts.Run(int(roundOverDelaySec/tickDT) + 10)
	if rs.Phase != PhaseMatchOver {
		t.Fatalf("reaching the score target must end the match, phase=%s", rs.Phase)
	}

	ts.RestartMatch()
	if rs.Phase != PhaseWaiting || rs.Number != 1 || rs.ScoreAttack != 0 || rs.ScoreDefend != 0 {
		t.Fatalf("restart must zero the match: phase=%s round=%d score=%d-%d",
			rs.Phase, rs.Number, rs.ScoreAttack, rs.ScoreDefend)
	}
	for i := range ts.World.Pawns {
		if !ts.World.Pawns[i].Alive {
			t.Fatalf("pawn %d not respawned on restart", i)
		}
	}
}

func TestStep_ClampsOversizedTickDelta(t *testing.T) {
	ts := NewTestSim(WithSeed(4))
	before := ts.World.Round.FreezeTimer

	ts.Step(NoInput(), 1.0)
	got := before - ts.World.Round.FreezeTimer
	if got < maxTickDelta-1e-9 || got > maxTickDelta+1e-9 {
		t.Fatalf("a stalled frame must advance by at most %.2fs, got %.3fs", maxTickDelta, got)
	}
}
