package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/hexlane/holdout/internal/game"
)

// runStats aggregates one headless match run from the structured sim log.
type runStats struct {
	runIndex int
	seed     int64

	scoreAttack int
	scoreDefend int
	roundsDone  int
	finalPhase  string

	deaths          int
	blastDeaths     int
	grenadeThrows   int
	detonations     int
	firstEngageTick int // -1 when no bot ever engaged
	stateChanges    int

	winReasons map[string]int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var levelPath string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 18000, "ticks per run (60 per second)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&levelPath, "level", "", "level file (empty = built-in killhouse)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	var lv *game.Level
	if levelPath != "" {
		loaded, err := game.LoadLevel(levelPath)
		if err != nil {
			log.Fatalf("load level %s: %v", levelPath, err)
		}
		lv = loaded
	}

	fmt.Printf("=== Holdout Headless Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runOnce(i+1, seed, ticks, lv)
		all = append(all, stats)
		printRun(stats)
	}
	printAggregate(all)
}

func runOnce(index int, seed int64, ticks int, lv *game.Level) runStats {
	opts := []game.SimOption{game.WithSeed(seed)}
	if lv != nil {
		opts = append(opts, game.WithLevel(lv))
	}
	ts := game.NewTestSim(opts...)
	ts.Run(ticks)

	stats := runStats{
		runIndex:        index,
		seed:            seed,
		firstEngageTick: -1,
		winReasons:      make(map[string]int),
	}

	rs := ts.World.Round
	stats.scoreAttack = rs.ScoreAttack
	stats.scoreDefend = rs.ScoreDefend
	stats.finalPhase = rs.Phase.String()
	stats.roundsDone = len(ts.Log.Filter("round", "win"))

	for _, e := range ts.Log.Filter("round", "win") {
		// Value reads "attack by capture (2-1)".
		fields := strings.Fields(e.Value)
		if len(fields) >= 3 {
			stats.winReasons[fields[2]]++
		}
	}
	for _, e := range ts.Log.Filter("hit", "death") {
		stats.deaths++
		if e.Value == "blast" {
			stats.blastDeaths++
		}
	}
	stats.grenadeThrows = len(ts.Log.Filter("grenade", "throw"))
	stats.detonations = len(ts.Log.Filter("grenade", "detonate"))
	for _, e := range ts.Log.Filter("ai", "state") {
		stats.stateChanges++
		if stats.firstEngageTick < 0 && strings.HasSuffix(e.Value, "-> engage") {
			stats.firstEngageTick = e.Tick
		}
	}
	return stats
}

func printRun(s runStats) {
	fmt.Printf("--- run %d (seed %d) ---\n", s.runIndex, s.seed)
	fmt.Printf("  score attack %d / defend %d, %d rounds decided, final phase %s\n",
		s.scoreAttack, s.scoreDefend, s.roundsDone, s.finalPhase)
	fmt.Printf("  deaths=%d (blast %d)  grenades thrown=%d detonated=%d\n",
		s.deaths, s.blastDeaths, s.grenadeThrows, s.detonations)
	if s.firstEngageTick >= 0 {
		fmt.Printf("  first engage at tick %d, %d AI state changes\n",
			s.firstEngageTick, s.stateChanges)
	} else {
		fmt.Printf("  no engagement observed, %d AI state changes\n", s.stateChanges)
	}
	if len(s.winReasons) > 0 {
		fmt.Printf("  win reasons:")
		for _, reason := range []string{"capture", "elimination", "time"} {
			if n := s.winReasons[reason]; n > 0 {
				fmt.Printf(" %s=%d", reason, n)
			}
		}
		fmt.Println()
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	var rounds, deaths, throws int
	var attackWins, defendWins int
	engaged := 0
	for _, s := range all {
		rounds += s.roundsDone
		deaths += s.deaths
		throws += s.grenadeThrows
		attackWins += s.scoreAttack
		defendWins += s.scoreDefend
		if s.firstEngageTick >= 0 {
			engaged++
		}
	}
	n := len(all)
	fmt.Printf("=== aggregate over %d runs ===\n", n)
	fmt.Printf("  rounds/run avg %.1f  deaths/run avg %.1f  grenades/run avg %.1f\n",
		float64(rounds)/float64(n), float64(deaths)/float64(n), float64(throws)/float64(n))
	fmt.Printf("  total round wins: attack %d, defend %d\n", attackWins, defendWins)
	fmt.Printf("  runs with bot engagement: %d/%d\n", engaged, n)
}
