// Package spatial provides a fixed-radius nearest-waypoint lookup over
// prepared waypoints, backed by an R-tree.
package spatial

import (
	"math"

	"github.com/tidwall/rtree"

	"github.com/jburns/trailnet/pkg/track"
)

// entry is the payload stored per waypoint: its stable index (the
// deterministic nearest-neighbour tie-breaker) and its planar position.
type entry struct {
	index    int
	easting  float64
	northing float64
}

// Index answers "nearest waypoint within maxDist" queries over a fixed set
// of prepared waypoints, in UTM metres.
type Index struct {
	tree    rtree.RTreeG[entry]
	maxDist float64
}

// New builds an index over rows. Rows are queried in the order given;
// Nearest breaks distance ties by preferring the lower original index, per
// the stable tie-break rule this system documents for determinism.
func New(rows []track.WaypointRow, maxDist float64) *Index {
	idx := &Index{maxDist: maxDist}
	for i, r := range rows {
		e := float64(r.Easting)
		n := float64(r.Northing)
		idx.tree.Insert([2]float64{e, n}, [2]float64{e, n}, entry{index: i, easting: e, northing: n})
	}
	return idx
}

// Nearest returns the index into the original rows slice of the waypoint
// nearest to (easting, northing), and whether one was found within maxDist.
func (idx *Index) Nearest(easting, northing int64) (int, bool) {
	e := float64(easting)
	n := float64(northing)
	d := idx.maxDist

	best := -1
	bestDist := math.Inf(1)
	bestIndex := math.MaxInt

	// Expand the query box by maxDist in each direction; the R-tree gives a
	// superset of true within-radius candidates, exact-filtered below.
	idx.tree.Search(
		[2]float64{e - d, n - d},
		[2]float64{e + d, n + d},
		func(_, _ [2]float64, data entry) bool {
			dist := math.Hypot(data.easting-e, data.northing-n)
			if dist > d {
				return true
			}
			if dist < bestDist || (dist == bestDist && data.index < bestIndex) {
				best = data.index
				bestDist = dist
				bestIndex = data.index
			}
			return true
		},
	)

	if best < 0 {
		return 0, false
	}
	return best, true
}
