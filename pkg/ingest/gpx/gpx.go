// Package gpx implements the ingest parser contract: decoding a GPX 1.1
// document into the (timestamp, lat, lon, accuracy) trackpoint tuples and
// (name, lat, lon) waypoint tuples this system's core consumes. This is the
// one external collaborator named but not specified by this system's core —
// parsing of the GPS-exchange XML container is not itself part of the
// learning pipeline or routing algebra.
package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/jburns/trailnet/pkg/track"
)

// ErrInvalidFile is returned when the input cannot be decoded as GPX 1.1.
// No partial results are ever returned alongside this error.
var ErrInvalidFile = errors.New("invalid GPX file")

type gpxDoc struct {
	XMLName xml.Name      `xml:"gpx"`
	Waypts  []gpxWaypoint `xml:"wpt"`
	Tracks  []gpxTrack    `xml:"trk"`
}

type gpxTrack struct {
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxTrkpt `xml:"trkpt"`
}

type gpxTrkpt struct {
	Lat  *float64 `xml:"lat,attr"`
	Lon  *float64 `xml:"lon,attr"`
	Time string   `xml:"time"`
	Hdop *float64 `xml:"hdop"`
}

type gpxWaypoint struct {
	Lat  *float64 `xml:"lat,attr"`
	Lon  *float64 `xml:"lon,attr"`
	Name string   `xml:"name"`
}

// Parse decodes a GPX 1.1 document, returning every <trkpt> as a raw
// trackpoint and every <wpt> as a raw waypoint. A <trkpt> missing lat/lon,
// an unparsable <time>, or malformed XML fails the whole call with
// ErrInvalidFile; no partial results are emitted. A <wpt> without a <name>
// falls back to the ordinal string "wpt-<n>" (1-indexed in file order), per
// this system's convention that an all-digits name is a deliberate
// intersection marker a caller supplies explicitly, never one the parser
// invents.
func Parse(r io.Reader) ([]track.RawTrackpoint, []track.RawWaypoint, error) {
	var doc gpxDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, errors.Wrap(ErrInvalidFile, err.Error())
	}

	var trackpoints []track.RawTrackpoint
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				if p.Lat == nil || p.Lon == nil {
					return nil, nil, errors.Wrap(ErrInvalidFile, "trkpt missing lat/lon")
				}
				ts, err := time.Parse(time.RFC3339, p.Time)
				if err != nil {
					return nil, nil, errors.Wrapf(ErrInvalidFile, "trkpt time %q: %v", p.Time, err)
				}
				hdop := 0.0
				if p.Hdop != nil {
					hdop = *p.Hdop
				}
				trackpoints = append(trackpoints, track.RawTrackpoint{
					Time:     ts.UTC(),
					Lat:      *p.Lat,
					Lon:      *p.Lon,
					Accuracy: hdop,
				})
			}
		}
	}

	waypoints := make([]track.RawWaypoint, 0, len(doc.Waypts))
	for i, w := range doc.Waypts {
		if w.Lat == nil || w.Lon == nil {
			return nil, nil, errors.Wrap(ErrInvalidFile, "wpt missing lat/lon")
		}
		name := w.Name
		if name == "" {
			name = fmt.Sprintf("wpt-%d", i+1)
		}
		waypoints = append(waypoints, track.RawWaypoint{Name: name, Lat: *w.Lat, Lon: *w.Lon})
	}

	return trackpoints, waypoints, nil
}
