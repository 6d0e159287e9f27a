package graph

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jburns/trailnet/pkg/encounter"
	"github.com/jburns/trailnet/pkg/track"
)

// slowDwellThresholdSecs is the 0.75-quantile dwell time above which an
// intersection is classified slow (traffic-light modelled) rather than fast
// (transparent, dwell folded into the outgoing edge).
const slowDwellThresholdSecs = 20.0

// turn identifies a single observed (predecessor, here, successor) turn at
// an intersection.
type turn struct {
	pred, here, succ string
}

// transit identifies a simple (here, next) hop, independent of predecessor.
type transit struct {
	here, next string
}

// Build composes encounters into the split-vertex multigraph described by
// this system's graph invariants. rows supplies waypoint identity,
// classification and spatial attributes; encounters need not be
// pre-sorted — Build sorts them by (Segment, Start) itself.
func Build(encounters []encounter.Encounter, rows []track.WaypointRow) *Graph {
	sorted := make([]encounter.Encounter, len(encounters))
	copy(sorted, encounters)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Segment != sorted[j].Segment {
			return sorted[i].Segment < sorted[j].Segment
		}
		return sorted[i].Start < sorted[j].Start
	})

	attrsByName := make(map[string]VertexAttrs, len(rows))
	for _, r := range rows {
		attrsByName[r.Name] = VertexAttrs{Lat: r.Lat, Lon: r.Lon}
	}

	slow := classifySlowIntersections(sorted, rows)

	// predIdx/succIdx: -1 when absent (segment boundary).
	predIdx := make([]int, len(sorted))
	succIdx := make([]int, len(sorted))
	for i := range sorted {
		predIdx[i] = -1
		succIdx[i] = -1
		if i > 0 && sorted[i-1].Segment == sorted[i].Segment {
			predIdx[i] = i - 1
		}
		if i+1 < len(sorted) && sorted[i+1].Segment == sorted[i].Segment {
			succIdx[i] = i + 1
		}
	}

	// An intersection never observed with both a predecessor and a successor
	// has no turn group, so it is treated as fast even if its dwell is long.
	hasTurn := make(map[string]bool)
	for i, e := range sorted {
		if predIdx[i] >= 0 && succIdx[i] >= 0 {
			hasTurn[rows[e.Waypoint].Name] = true
		}
	}
	for name := range slow {
		if !hasTurn[name] {
			delete(slow, name)
		}
	}

	currSecs := make([]float64, len(sorted))
	succSecs := make([]float64, len(sorted))
	for i, e := range sorted {
		currSecs[i] = float64(e.End - e.Start)
		if succIdx[i] >= 0 {
			succSecs[i] = float64(sorted[succIdx[i]].Start - e.End)
		}
	}

	// Fold dwell of fast intersections into their own outgoing transit.
	for i, e := range sorted {
		name := rows[e.Waypoint].Name
		if rows[e.Waypoint].Intersection && !slow[name] {
			if succIdx[i] >= 0 {
				succSecs[i] += currSecs[i]
			}
			currSecs[i] = 0
		}
	}

	g := newGraph()

	// Slow-turn internal edges: group by (pred, here, succ).
	turnGroups := make(map[turn][]float64)
	for i, e := range sorted {
		name := rows[e.Waypoint].Name
		if !slow[name] || predIdx[i] < 0 || succIdx[i] < 0 {
			continue
		}
		pred := rows[sorted[predIdx[i]].Waypoint].Name
		succ := rows[sorted[succIdx[i]].Waypoint].Name
		key := turn{pred: pred, here: name, succ: succ}
		turnGroups[key] = append(turnGroups[key], currSecs[i])
	}

	// The set of split vertices that now exist, for the transit-edge
	// canonicalisation below (built from all turn groups before any
	// transit edge is emitted, so emission order never matters).
	entryExists := make(map[[2]string]bool) // (pred, here)
	exitExists := make(map[[2]string]bool)  // (here, succ)

	for key, secs := range turnGroups {
		entry := Split(key.here, key.pred, key.here)
		exit := Split(key.here, key.here, key.succ)
		entryExists[[2]string{key.pred, key.here}] = true
		exitExists[[2]string{key.here, key.succ}] = true

		sort.Float64s(secs)
		attrs := attrsByName[key.here]
		g.addVertex(entry, attrs)
		g.addVertex(exit, attrs)
		for _, s := range secs {
			g.addObservation(entry, exit, attrs, attrs, s)
		}
	}

	// Simple transits: group by (here, next), independent of predecessor.
	transitGroups := make(map[transit][]float64)
	for i, e := range sorted {
		if succIdx[i] < 0 {
			continue
		}
		here := rows[e.Waypoint].Name
		next := rows[sorted[succIdx[i]].Waypoint].Name
		key := transit{here: here, next: next}
		transitGroups[key] = append(transitGroups[key], succSecs[i])
	}

	for key, secs := range transitGroups {
		sort.Float64s(secs)

		var from, to Vertex
		if exitExists[[2]string{key.here, key.next}] {
			from = Split(key.here, key.here, key.next)
		} else {
			from = Plain(key.here)
		}
		if entryExists[[2]string{key.here, key.next}] {
			to = Split(key.next, key.here, key.next)
		} else {
			to = Plain(key.next)
		}

		fromAttrs := attrsByName[key.here]
		toAttrs := attrsByName[key.next]
		g.addVertex(from, fromAttrs)
		g.addVertex(to, toAttrs)
		for _, s := range secs {
			g.addObservation(from, to, fromAttrs, toAttrs, s)
		}
	}

	// Ensure every waypoint that was ever the current vertex of an encounter
	// appears in the graph even if it never produced an edge (isolated stop).
	// A slow intersection is represented only by its Split halves and gets
	// no Plain vertex.
	for _, e := range sorted {
		name := rows[e.Waypoint].Name
		if slow[name] {
			continue
		}
		g.addVertex(Plain(name), attrsByName[name])
	}

	return g
}

// classifySlowIntersections computes, per intersection waypoint name, the
// 0.75-quantile of its observed dwell times (curr_secs, pre-fold) and
// classifies it slow if that quantile exceeds slowDwellThresholdSecs. POIs
// are never classified (never appear in the returned set).
func classifySlowIntersections(encounters []encounter.Encounter, rows []track.WaypointRow) map[string]bool {
	dwellByName := make(map[string][]float64)
	for _, e := range encounters {
		row := rows[e.Waypoint]
		if !row.Intersection {
			continue
		}
		dwellByName[row.Name] = append(dwellByName[row.Name], float64(e.End-e.Start))
	}

	slow := make(map[string]bool, len(dwellByName))
	for name, dwells := range dwellByName {
		sort.Float64s(dwells)
		q := stat.Quantile(0.75, stat.LinInterp, dwells, nil)
		if q > slowDwellThresholdSecs {
			slow[name] = true
		}
	}
	return slow
}
