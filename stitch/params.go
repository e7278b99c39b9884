// Package stitch turns a normal map and a density map into an ordered
// embroidery stitch plan.
//
// The planner samples stitch points according to the density map, grows a
// shortest path tree whose edges follow the directions encoded in the
// normal map, repairs the edges running against the field, walks the tree
// into a single contiguous zig-zag path and finally untangles it with 2-opt.
package stitch

import "fmt"

// Start selects how the root of the stitch tree is chosen.
type Start string

const (
	// StartRandom picks a random sample point.
	StartRandom Start = "random"
	// StartIsolated picks the densest point farthest away from points of a different density.
	StartIsolated Start = "isolated"
)

// ZigZag controls the lateral points inserted along every stitch.
type ZigZag struct {
	// K is the number of zig-zag points per pixel of stitch length.
	K float64
	// MinHeight and MaxHeight bound the lateral offset in pixels.
	MinHeight float64
	MaxHeight float64
}

// Params holds the tuning values of the planner.
type Params struct {
	// Alpha1 and Beta1 weight the stitch length and its alignment with the field.
	Alpha1 float64
	Beta1  float64
	// Alpha2 and Beta2 weight the stitch length and the turn between consecutive stitches.
	Alpha2 float64
	Beta2  float64

	// Blend in [-1, 1] overrides the blue channel of the normal map unless UseMapBlend is set.
	Blend       float64
	UseMapBlend bool
	// CostBias is added to every edge weight. Zero keeps the weights negative.
	CostBias float64

	SubgridSize  int
	Inflate      float64
	BucketSize   int
	Radius       float64
	RepairRadius float64

	JumpThreshold float64
	OffThreshold  float64

	ZigZag ZigZag

	LongEdgeThreshold float64
	MaxOpt2Iterations int

	Seed  int64
	Start Start
}

// DefaultParams returns the parameters the planner was tuned with.
func DefaultParams() Params {
	return Params{
		Alpha1:            1.4,
		Beta1:             2.05,
		Alpha2:            2.2,
		Beta2:             5.0,
		Blend:             0,
		SubgridSize:       4,
		Inflate:           1.5,
		BucketSize:        4,
		Radius:            5,
		RepairRadius:      7,
		JumpThreshold:     0.9,
		OffThreshold:      0.7,
		ZigZag:            ZigZag{K: 1.2, MinHeight: 0.3, MaxHeight: 0.7},
		LongEdgeThreshold: 7,
		MaxOpt2Iterations: 5000,
		Seed:              1,
		Start:             StartRandom,
	}
}

// Validate reports the first invalid parameter.
func (p Params) Validate() error {
	switch {
	case p.SubgridSize < 1:
		return fmt.Errorf("subgrid size must be positive, got %d", p.SubgridSize)
	case p.BucketSize < 1:
		return fmt.Errorf("bucket size must be positive, got %d", p.BucketSize)
	case p.Radius < 1:
		return fmt.Errorf("search radius must be at least 1, got %g", p.Radius)
	case p.RepairRadius < 1:
		return fmt.Errorf("repair radius must be at least 1, got %g", p.RepairRadius)
	case p.Alpha1 <= 0 || p.Alpha2 <= 0 || p.Beta1 <= 0 || p.Beta2 <= 0:
		return fmt.Errorf("cost bases must be positive")
	case p.Inflate <= 0:
		return fmt.Errorf("inflate factor must be positive, got %g", p.Inflate)
	case p.MaxOpt2Iterations < 0:
		return fmt.Errorf("opt2 iteration cap cannot be negative")
	case p.Start != StartRandom && p.Start != StartIsolated:
		return fmt.Errorf("unknown start strategy %q", p.Start)
	}
	return nil
}
