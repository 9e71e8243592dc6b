package game

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Geometry collection bounds. The world copies level data into pre-sized
// slices; entries past these limits are ignored at load time.
const (
	maxSolids    = 256
	maxWaypoints = 64
)

// Solid is one piece of immutable static geometry.
type Solid struct {
	Bounds  AABB
	Color   color.RGBA
	IsFloor bool
}

// Waypoint is a node of the undirected bot patrol graph.
type Waypoint struct {
	Pos       Vec3
	Neighbors []int
}

// ObjectiveZone is the site the attacking team must hold to win by capture.
type ObjectiveZone struct {
	Pos             Vec3
	Radius          float64
	CaptureProgress float64 // seconds held, 0..captureTimeSec
	Captured        bool    // terminal for the round once true
}

// SpawnPoint places one pawn at round start.
type SpawnPoint struct {
	Team Team
	Pos  Vec3
	Yaw  float64 // radians
}

// Level is the immutable map snapshot consumed at load and at round reset:
// static solids, the patrol graph, one objective and team spawn points.
type Level struct {
	Solids    []Solid
	Waypoints []Waypoint
	Objective ObjectiveZone
	Spawns    []SpawnPoint
}

// ParseLevel reads the text level format:
//
//	# comment
//	SOLID     minX minY minZ maxX maxY maxZ R G B [floor]
//	WAYPOINT  id x y z
//	EDGE      fromID toID          (undirected)
//	OBJECTIVE x y z radius
//	SPAWN     team x y z yawDeg    (team 0=attack 1=defend)
func ParseLevel(r io.Reader) (*Level, error) {
	lv := &Level{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		var err error
		switch fields[0] {
		case "SOLID":
			err = lv.parseSolid(fields[1:])
		case "WAYPOINT":
			err = lv.parseWaypoint(fields[1:])
		case "EDGE":
			err = lv.parseEdge(fields[1:])
		case "OBJECTIVE":
			err = lv.parseObjective(fields[1:])
		case "SPAWN":
			err = lv.parseSpawn(fields[1:])
		default:
			err = fmt.Errorf("unknown keyword %q", fields[0])
		}
		if err != nil {
			return nil, fmt.Errorf("level line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lv, nil
}

// LoadLevel parses a level file from disk.
func LoadLevel(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open level: %w", err)
	}
	defer f.Close()
	return ParseLevel(f)
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d numeric fields, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func (lv *Level) parseSolid(fields []string) error {
	f, err := parseFloats(fields, 9)
	if err != nil {
		return err
	}
	if len(lv.Solids) >= maxSolids {
		return nil
	}
	isFloor := len(fields) > 9 && fields[9] == "floor"
	lv.Solids = append(lv.Solids, Solid{
		Bounds: AABB{
			Min: Vec3{f[0], f[1], f[2]},
			Max: Vec3{f[3], f[4], f[5]},
		},
		Color:   color.RGBA{R: uint8(f[6]), G: uint8(f[7]), B: uint8(f[8]), A: 255},
		IsFloor: isFloor,
	})
	return nil
}

func (lv *Level) parseWaypoint(fields []string) error {
	f, err := parseFloats(fields, 4)
	if err != nil {
		return err
	}
	id := int(f[0])
	if id < 0 || id >= maxWaypoints {
		return nil
	}
	for len(lv.Waypoints) <= id {
		lv.Waypoints = append(lv.Waypoints, Waypoint{})
	}
	lv.Waypoints[id].Pos = Vec3{f[1], f[2], f[3]}
	return nil
}

func (lv *Level) parseEdge(fields []string) error {
	f, err := parseFloats(fields, 2)
	if err != nil {
		return err
	}
	a, b := int(f[0]), int(f[1])
	if a < 0 || b < 0 || a >= len(lv.Waypoints) || b >= len(lv.Waypoints) {
		return fmt.Errorf("edge %d-%d references unknown waypoint", a, b)
	}
	lv.Waypoints[a].Neighbors = append(lv.Waypoints[a].Neighbors, b)
	lv.Waypoints[b].Neighbors = append(lv.Waypoints[b].Neighbors, a)
	return nil
}

func (lv *Level) parseObjective(fields []string) error {
	f, err := parseFloats(fields, 4)
	if err != nil {
		return err
	}
	lv.Objective = ObjectiveZone{Pos: Vec3{f[0], f[1], f[2]}, Radius: f[3]}
	return nil
}

func (lv *Level) parseSpawn(fields []string) error {
	f, err := parseFloats(fields, 5)
	if err != nil {
		return err
	}
	t := Team(int(f[0]))
	if t != TeamAttack && t != TeamDefend {
		return fmt.Errorf("spawn team %d out of range", int(f[0]))
	}
	lv.Spawns = append(lv.Spawns, SpawnPoint{
		Team: t,
		Pos:  Vec3{f[1], f[2], f[3]},
		Yaw:  f[4] * math.Pi / 180.0,
	})
	return nil
}

var (
	colFloor = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	colWall  = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	colCrate = color.RGBA{R: 110, G: 80, B: 60, A: 255}
	colBlock = color.RGBA{R: 80, G: 90, B: 80, A: 255}
)

// DefaultLevel returns the built-in killhouse: a 50x50 walled arena with
// cover boxes, a six-node patrol loop and the objective on the defend side.
// Both commands run with it when no level file is given.
func DefaultLevel() *Level {
	lv := &Level{}

	box := func(min, max Vec3, c color.RGBA, floor bool) {
		lv.Solids = append(lv.Solids, Solid{Bounds: AABB{Min: min, Max: max}, Color: c, IsFloor: floor})
	}

	box(Vec3{-25, -0.2, -25}, Vec3{25, 0, 25}, colFloor, true)
	box(Vec3{-25, 0, -25}, Vec3{-24.5, 4, 25}, colWall, false)
	box(Vec3{24.5, 0, -25}, Vec3{25, 4, 25}, colWall, false)
	box(Vec3{-25, 0, -25}, Vec3{25, 4, -24.5}, colWall, false)
	box(Vec3{-25, 0, 24.5}, Vec3{25, 4, 25}, colWall, false)
	box(Vec3{-3, 0, -2}, Vec3{-1, 1.2, 2}, colCrate, false)
	box(Vec3{1, 0, -2}, Vec3{3, 1.2, 2}, colCrate, false)
	box(Vec3{-8, 0, 3}, Vec3{-6, 2.5, 5}, colBlock, false)
	box(Vec3{6, 0, 3}, Vec3{8, 2.5, 5}, colBlock, false)

	lv.Waypoints = []Waypoint{
		{Pos: Vec3{-10, 0, -8}, Neighbors: []int{1}},
		{Pos: Vec3{0, 0, -8}, Neighbors: []int{0, 2}},
		{Pos: Vec3{10, 0, -8}, Neighbors: []int{1, 3}},
		{Pos: Vec3{10, 0, 0}, Neighbors: []int{2, 4}},
		{Pos: Vec3{5, 0, 5}, Neighbors: []int{3, 5}},
		{Pos: Vec3{-5, 0, 5}, Neighbors: []int{4, 0}},
	}

	lv.Objective = ObjectiveZone{Pos: Vec3{5, 0, 8}, Radius: 3.0}

	lv.Spawns = []SpawnPoint{
		{Team: TeamAttack, Pos: Vec3{-12, 0.1, -15}, Yaw: 0},
		{Team: TeamAttack, Pos: Vec3{-14, 0.1, -13}, Yaw: 0.2},
		{Team: TeamAttack, Pos: Vec3{-10, 0.1, -13}, Yaw: -0.2},
		{Team: TeamDefend, Pos: Vec3{12, 0.1, 12}, Yaw: math.Pi},
		{Team: TeamDefend, Pos: Vec3{14, 0.1, 10}, Yaw: math.Pi - 0.2},
		{Team: TeamDefend, Pos: Vec3{10, 0.1, 10}, Yaw: math.Pi + 0.2},
	}

	return lv
}
