package stitch

import (
	"container/heap"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

type queueItem struct {
	p    stitchpaint.Vec2
	dist float64
	seq  int
}

// distQueue is a min-heap on distance; ties keep insertion order.
type distQueue []queueItem

func (q distQueue) Len() int { return len(q) }
func (q distQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q distQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x any)   { *q = append(*q, x.(queueItem)) }
func (q *distQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// searchTree is the outcome of the shortest path search.
type searchTree struct {
	// edges holds (child, parent) pairs in the order vertices were settled.
	edges []Edge
	// anomalies counts improvements rejected because the target was already settled.
	anomalies int
}

// shortestPathTree grows a tree from start over the bucketed points. A
// vertex is final once popped, even though negative weights could still
// lower its distance afterwards; such rejected relaxations are counted.
// Every settled edge is added to the stitch buckets.
func shortestPathTree(start stitchpaint.Vec2, w weigher, pb *pointBuckets, sb *stitchBuckets, radius float64, forbidden []Edge) searchTree {
	var (
		res     searchTree
		seq     int
		q       distQueue
		dist    = map[stitchpaint.Vec2]float64{start: 0}
		parent  = make(map[stitchpaint.Vec2]stitchpaint.Vec2)
		visited = make(map[stitchpaint.Vec2]bool)
	)
	heap.Push(&q, queueItem{p: start})

	for q.Len() > 0 {
		it := heap.Pop(&q).(queueItem)
		cur := it.p
		if visited[cur] || it.dist > dist[cur] {
			continue
		}
		visited[cur] = true

		prev, hasPrev := parent[cur]
		if hasPrev {
			e := Edge{U: cur, V: prev}
			res.edges = append(res.edges, e)
			sb.add(e)
		}

		for _, nb := range pb.neighbors(cur, radius, nil, forbidden) {
			nd := dist[cur] + w.edge(prev, cur, nb, hasPrev)
			d, seen := dist[nb]
			if seen && nd >= d {
				continue
			}
			if visited[nb] {
				res.anomalies++
				continue
			}
			dist[nb] = nd
			parent[nb] = cur
			seq++
			heap.Push(&q, queueItem{p: nb, dist: nd, seq: seq})
		}
	}
	return res
}
