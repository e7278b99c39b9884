package stitch

import stitchpaint "github.com/esimov/stitchpaint/core"

type pathFrame struct {
	node      stitchpaint.Vec2
	parent    stitchpaint.Vec2
	hasParent bool
	// zig holds the zig-zag points emitted from parent to node.
	zig  []stitchpaint.Vec2
	next int
}

// genPath walks the tree depth first from root and returns the visited
// points as one contiguous sequence. Every edge is stitched on the way down
// and retraced on the way back.
func genPath(adj Adjacency, root stitchpaint.Vec2, density map[stitchpaint.Vec2]uint8, zz ZigZag, f *Field) []stitchpaint.Vec2 {
	path := []stitchpaint.Vec2{root}
	visited := map[stitchpaint.Vec2]bool{root: true}
	stack := []pathFrame{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		nbrs := adj[top.node]

		descended := false
		for top.next < len(nbrs) {
			child := nbrs[top.next]
			top.next++
			if visited[child] {
				continue
			}
			visited[child] = true
			zig := zigZag(top.node, child, density, zz, f)
			path = append(path, zig...)
			path = append(path, child)
			stack = append(stack, pathFrame{node: child, parent: top.node, hasParent: true, zig: zig})
			descended = true
			break
		}
		if descended {
			continue
		}

		done := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if done.hasParent {
			for i := len(done.zig) - 1; i >= 0; i-- {
				path = append(path, done.zig[i])
			}
			path = append(path, done.parent)
		}
	}
	return path
}

// zigZag returns the lateral points placed between a and b. Their height
// grows with the averaged density of both ends.
func zigZag(a, b stitchpaint.Vec2, density map[stitchpaint.Vec2]uint8, zz ZigZag, f *Field) []stitchpaint.Vec2 {
	d := (float64(density[a]) + float64(density[b])) / 2
	h := zz.MinHeight + d*(zz.MaxHeight-zz.MinHeight)/255
	n := int(zz.K * a.Dist(b))
	if n <= 0 || h <= 0 {
		return nil
	}
	perp := b.Sub(a).Normalize().Perp()
	pts := make([]stitchpaint.Vec2, 0, n)
	side := 1.0
	for i := 0; i < n; i++ {
		t := (float64(i) + 0.5) / float64(n)
		m := stitchpaint.LerpVec(a, b, t).Add(perp.Mul(side * h))
		side = -side
		if f.Contains(m) {
			pts = append(pts, m)
		}
	}
	return pts
}

// pathEdges joins consecutive path points into edges.
func pathEdges(path []stitchpaint.Vec2) []Edge {
	if len(path) < 2 {
		return nil
	}
	edges := make([]Edge, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		edges = append(edges, Edge{U: path[i], V: path[i+1]})
	}
	return edges
}
