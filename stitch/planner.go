package stitch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	stitchpaint "github.com/esimov/stitchpaint/core"
	"go.uber.org/zap"
)

// ErrSizeMismatch is returned when the normal and density maps differ in size.
var ErrSizeMismatch = errors.New("normal and density maps differ in size")

// Stage identifies a step of the planning pipeline.
type Stage int

const (
	// StageSampled means the stitch points were drawn from the density map.
	StageSampled Stage = iota
	// StageGraphBuilt means the points were bucketed for neighbour queries.
	StageGraphBuilt
	// StageShortestPathTree means the search tree spans every reachable point.
	StageShortestPathTree
	// StageJumpsFlagged means the tree edges running against the field are known.
	StageJumpsFlagged
	// StageCleanedUp means the jumps were repaired where a better edge exists.
	StageCleanedUp
	// StagePathLinearized means the tree was walked into one zig-zag path.
	StagePathLinearized
	// StageOpt2Stable means no 2-opt swap improves the path any further.
	StageOpt2Stable
)

func (s Stage) String() string {
	switch s {
	case StageSampled:
		return "sampled"
	case StageGraphBuilt:
		return "graph built"
	case StageShortestPathTree:
		return "shortest path tree"
	case StageJumpsFlagged:
		return "jumps flagged"
	case StageCleanedUp:
		return "cleaned up"
	case StagePathLinearized:
		return "path linearized"
	case StageOpt2Stable:
		return "opt2 stable"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Stats describes a finished plan.
type Stats struct {
	Points        int      `json:"points"`
	TreeEdges     int      `json:"tree_edges"`
	Jumps         int      `json:"jumps"`
	Repaired      int      `json:"repaired"`
	Anomalies     int      `json:"anomalies"`
	Opt2Swaps     int      `json:"opt2_swaps"`
	CrossingSwaps int      `json:"crossing_swaps"`
	CrossingCap   bool     `json:"crossing_cap_hit"`
	LongStitches  int      `json:"long_stitches"`
	SCR           float64  `json:"scr"`
	OffPercent    float64  `json:"off_percent"`
	RMS           [3]uint8 `json:"rms"`
}

// Result holds the plan and the intermediate products of every stage.
type Result struct {
	Width, Height int

	Samples []Sample
	Root    stitchpaint.Vec2
	// Tree is the unrepaired shortest path tree as (child, parent) edges.
	Tree  []Edge
	Jumps []Edge
	Graph Adjacency
	Path  []stitchpaint.Vec2

	Segments  []Segment
	Field     *Field
	Alignment *stitchpaint.Pixmap
	Stats     Stats
}

// Planner generates stitch plans.
type Planner struct {
	Params Params
	// Forbidden holds segments no stitch may cross.
	Forbidden []Edge
	// Logger receives the planner diagnostics. Nil means silent.
	Logger *zap.Logger
	// OnStage is called after every completed stage.
	OnStage func(Stage)
}

// NewPlanner returns a planner using the provided parameters.
func NewPlanner(p Params) *Planner {
	return &Planner{Params: p}
}

// GenerateStitchPlan plans the stitches of a normal and density map with
// the default parameters and the provided subgrid size.
func GenerateStitchPlan(normal, density *stitchpaint.Pixmap, subgridSize int) ([]Segment, error) {
	p := DefaultParams()
	p.SubgridSize = subgridSize
	res, err := NewPlanner(p).Plan(context.Background(), normal, density)
	if err != nil {
		return nil, err
	}
	return res.Segments, nil
}

func (pl *Planner) stage(s Stage) {
	if pl.OnStage != nil {
		pl.OnStage(s)
	}
}

// Plan runs the whole pipeline. The context is checked between stages.
func (pl *Planner) Plan(ctx context.Context, normal, density *stitchpaint.Pixmap) (*Result, error) {
	p := pl.Params
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if normal.Width != density.Width || normal.Height != density.Height {
		return nil, ErrSizeMismatch
	}
	log := pl.Logger
	if log == nil {
		log = zap.NewNop()
	}

	res := &Result{Width: normal.Width, Height: normal.Height}
	rng := rand.New(rand.NewSource(p.Seed))

	res.Samples = GenPoints(density, p.SubgridSize, p.Inflate, rng)
	res.Stats.Points = len(res.Samples)
	pl.stage(StageSampled)
	if len(res.Samples) == 0 {
		log.Warn("density map produced no stitch points")
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	points := make([]stitchpaint.Vec2, len(res.Samples))
	densities := make(map[stitchpaint.Vec2]uint8, len(res.Samples))
	for i, s := range res.Samples {
		points[i] = s.Pos
		densities[s.Pos] = s.Density
	}
	res.Field = NewField(normal, p.Blend, p.UseMapBlend)
	w := weigher{params: p, field: res.Field}
	pb := newPointBuckets(p.BucketSize, points)
	sb := newStitchBuckets(p.BucketSize + 1)
	pl.stage(StageGraphBuilt)

	switch p.Start {
	case StartIsolated:
		res.Root = points[chooseIsolated(res.Samples)]
	default:
		res.Root = points[rng.Intn(len(points))]
	}
	tree := shortestPathTree(res.Root, w, pb, sb, p.Radius, pl.Forbidden)
	res.Tree = tree.edges
	res.Stats.TreeEdges = len(tree.edges)
	res.Stats.Anomalies = tree.anomalies
	if tree.anomalies > 0 {
		log.Warn("settled vertices could still be improved", zap.Int("relaxations", tree.anomalies))
	}
	pl.stage(StageShortestPathTree)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	adj, rs := cleanup(res.Tree, w, pb, sb, p.JumpThreshold, p.RepairRadius, pl.Forbidden)
	res.Jumps = rs.jumps
	res.Stats.Jumps = len(rs.jumps)
	res.Stats.Repaired = rs.repaired
	pl.stage(StageJumpsFlagged)
	res.Graph = adj
	pl.stage(StageCleanedUp)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Path = genPath(adj, res.Root, densities, p.ZigZag, res.Field)
	edges := pathEdges(res.Path)
	pl.stage(StagePathLinearized)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	swaps, capHit := Opt2Crossings(edges, p.MaxOpt2Iterations)
	res.Stats.CrossingSwaps = swaps
	res.Stats.CrossingCap = capHit
	if capHit {
		log.Warn("crossing removal hit the iteration cap", zap.Int("iterations", swaps))
	}
	edges, res.Stats.Opt2Swaps = Opt2Threshold(edges, p.LongEdgeThreshold, p.MaxOpt2Iterations)
	pl.stage(StageOpt2Stable)

	res.Segments = pl.flag(edges, res.Field, &res.Stats)
	res.Stats.SCR = SCR(res.Tree)
	res.Alignment = AlignmentMap(normal, res.Field, edges)
	rms := RMSError(normal, res.Alignment)
	res.Stats.RMS = [3]uint8{rms.R, rms.G, rms.B}

	log.Debug("stitch plan generated",
		zap.Int("points", res.Stats.Points),
		zap.Int("segments", len(res.Segments)),
		zap.Int("jumps", res.Stats.Jumps),
		zap.Int("repaired", res.Stats.Repaired),
		zap.Float64("scr", res.Stats.SCR),
		zap.Float64("off_percent", res.Stats.OffPercent),
	)
	return res, nil
}

// flag converts edges into segments, marking stitches off the field and
// stitches left longer than the threshold, which are sewn as jumps.
func (pl *Planner) flag(edges []Edge, f *Field, st *Stats) []Segment {
	segs := make([]Segment, len(edges))
	var off int
	for i, e := range edges {
		segs[i] = Segment{From: e.U, To: e.V}
		if a, ok := f.Alignment(e); ok && a < pl.Params.OffThreshold {
			segs[i].Off = true
			off++
		}
		if e.Weight() > pl.Params.LongEdgeThreshold {
			segs[i].Jump = true
			st.LongStitches++
		}
	}
	if len(edges) > 0 {
		st.OffPercent = float64(off) / float64(len(edges)) * 100
	}
	return segs
}
