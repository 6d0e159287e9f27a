// Package encounter collapses a trackpoint stream into encounters: maximal
// contiguous runs, within one segment, of trackpoints nearest to the same
// waypoint.
package encounter

import (
	"github.com/jburns/trailnet/pkg/spatial"
	"github.com/jburns/trailnet/pkg/track"
)

// Encounter is a maximal contiguous visit to one waypoint within one
// segment.
type Encounter struct {
	Segment    int
	Waypoint   int // index into the prepared waypoint rows
	Start, End int // offsets (seconds) of the first and last trackpoint in the run
}

// Extract finds the nearest waypoint (within the index's radius) for each
// prepared trackpoint, drops trackpoints with no waypoint in range, and
// groups the survivors into maximal same-waypoint runs per segment. A dropped
// trackpoint ends the current run, so two in-range stretches separated by an
// out-of-range point become two encounters.
//
// rows must be sorted by (Segment, Offset) ascending, matching the order
// track.Prepare produces.
func Extract(rows []track.Row, idx *spatial.Index) []Encounter {
	var encounters []Encounter

	var open *Encounter
	openSegment := -1

	flush := func() {
		if open != nil {
			encounters = append(encounters, *open)
			open = nil
		}
	}

	for _, r := range rows {
		waypoint, ok := idx.Nearest(r.Easting, r.Northing)
		if !ok {
			flush()
			openSegment = -1
			continue
		}

		if open != nil && r.Segment == openSegment && waypoint == open.Waypoint {
			open.End = r.Offset
			continue
		}

		flush()
		openSegment = r.Segment
		open = &Encounter{Segment: r.Segment, Waypoint: waypoint, Start: r.Offset, End: r.Offset}
	}
	flush()

	return encounters
}
