// Package track prepares raw GPS trackpoints and named waypoints for
// encounter extraction: sorting, accuracy filtering, trip segmentation,
// offset computation, UTM projection, and name-based classification.
package track

import (
	"sort"
	"time"

	"github.com/jburns/trailnet/pkg/geo"
)

// maxSegmentGap is the timestamp gap beyond which a new segment begins.
const maxSegmentGap = 60 * time.Second

// RawTrackpoint is a single GPS fix as emitted by an ingest parser.
type RawTrackpoint struct {
	Time     time.Time
	Lat, Lon float64
	Accuracy float64
}

// Row is a prepared trackpoint: projected, segmented, offset from its
// segment's first point. Rows across the whole corpus are globally ordered
// by timestamp.
type Row struct {
	Easting, Northing int64
	Segment           int
	Offset            int // seconds since the first point of Segment
	Lat, Lon          float64
}

// Prepare filters, sorts, projects and segments a batch of raw trackpoints.
// Points with Accuracy > maxHDOP are discarded before sorting. Fails with
// geo.ErrEmptyData if no points survive, or *geo.RegionTooLargeError if the
// survivors do not fit in a single UTM zone.
func Prepare(points []RawTrackpoint, maxHDOP float64) ([]Row, geo.Zone, error) {
	kept := make([]RawTrackpoint, 0, len(points))
	for _, p := range points {
		if p.Accuracy <= maxHDOP {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil, geo.Zone{}, geo.ErrEmptyData
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Time.Before(kept[j].Time)
	})

	geoPoints := make([]geo.Point, len(kept))
	for i, p := range kept {
		geoPoints[i] = geo.Point{Lat: p.Lat, Lon: p.Lon}
	}
	projected, zone, err := geo.Project(geoPoints)
	if err != nil {
		return nil, geo.Zone{}, err
	}

	rows := make([]Row, len(kept))
	segment := 0
	segmentStart := kept[0].Time
	for i, p := range kept {
		if i > 0 && p.Time.Sub(kept[i-1].Time) > maxSegmentGap {
			segment++
			segmentStart = p.Time
		}
		rows[i] = Row{
			Easting:  projected[i].Easting,
			Northing: projected[i].Northing,
			Segment:  segment,
			Offset:   int(p.Time.Sub(segmentStart).Seconds()),
			Lat:      p.Lat,
			Lon:      p.Lon,
		}
	}

	return rows, zone, nil
}
