// Package routing implements quantile-weighted shortest-path queries over
// the graph package's split-vertex multigraph.
package routing

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/jburns/trailnet/pkg/graph"
)

// ErrUnknownWaypoint is returned when a query names a waypoint absent from
// the graph.
var ErrUnknownWaypoint = errors.New("unknown waypoint")

// ErrUnreachable is returned when no directed path exists between the
// requested endpoints.
var ErrUnreachable = errors.New("no path to destination")

// weight evaluates the q-quantile of an edge's observed travel times, using
// linear interpolation between order statistics: q=0 gives the minimum,
// q=1 the maximum, matching this system's documented empirical-quantile
// definition.
func weight(e *graph.Edge, q float64) float64 {
	return stat.Quantile(q, stat.LinInterp, e.Secs, nil)
}

// weightTruncated is weight with each edge's quantile truncated to whole
// seconds before it is summed along a path, matching single_source_periods
// in the original implementation.
func weightTruncated(e *graph.Edge, q float64) float64 {
	return float64(int(weight(e, q)))
}

// dijkstra runs a single-source shortest-path search from src over g,
// returning the distance and predecessor maps for every reachable vertex.
// w computes an edge's cost for the current quantile q.
func dijkstra(g *graph.Graph, src graph.Vertex, q float64, w func(*graph.Edge, float64) float64) (dist map[graph.Vertex]float64, pred map[graph.Vertex]graph.Vertex) {
	dist = map[graph.Vertex]float64{src: 0}
	pred = make(map[graph.Vertex]graph.Vertex)
	visited := make(map[graph.Vertex]bool)

	var pq minHeap
	seq := 0
	pq.Push(src, 0, seq)
	seq++

	for pq.Len() > 0 {
		item := pq.Pop()
		u := item.v
		if visited[u] {
			continue
		}
		if item.dist > dist[u] {
			continue
		}
		visited[u] = true

		for _, e := range g.EdgesFrom(u) {
			nd := dist[u] + w(e, q)
			if d, ok := dist[e.To]; !ok || nd < d {
				dist[e.To] = nd
				pred[e.To] = u
				pq.Push(e.To, nd, seq)
				seq++
			}
		}
	}

	return dist, pred
}

// FastestPath returns the sequence of vertices on the path minimising the
// q-quantile of travel time from waypoint src to waypoint dst. The returned
// path may pass through split (traffic-light) vertices.
func FastestPath(g *graph.Graph, src, dst string, q float64) ([]graph.Vertex, error) {
	srcV := graph.Plain(src)
	dstV := graph.Plain(dst)
	if !g.HasVertex(srcV) {
		return nil, errors.Wrapf(ErrUnknownWaypoint, "src %q", src)
	}
	if !g.HasVertex(dstV) {
		return nil, errors.Wrapf(ErrUnknownWaypoint, "dst %q", dst)
	}

	dist, pred := dijkstra(g, srcV, q, weight)
	if _, ok := dist[dstV]; !ok {
		return nil, errors.Wrapf(ErrUnreachable, "%q -> %q", src, dst)
	}

	var path []graph.Vertex
	for v := dstV; ; {
		path = append(path, v)
		if v == srcV {
			break
		}
		v = pred[v]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// SingleSourcePeriods runs Dijkstra from src to every reachable vertex, then
// projects split vertices back down to their Here waypoint name, keeping the
// minimum period among all split halves (and the plain vertex, if present)
// sharing that name.
func SingleSourcePeriods(g *graph.Graph, src string, q float64) (map[string]int, error) {
	srcV := graph.Plain(src)
	if !g.HasVertex(srcV) {
		return nil, errors.Wrapf(ErrUnknownWaypoint, "src %q", src)
	}

	dist, _ := dijkstra(g, srcV, q, weightTruncated)

	periods := make(map[string]int, len(dist))
	for v, d := range dist {
		secs := int(d)
		if cur, ok := periods[v.Here]; !ok || secs < cur {
			periods[v.Here] = secs
		}
	}
	return periods, nil
}
