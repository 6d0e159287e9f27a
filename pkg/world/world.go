// Package world implements the façade over the learning pipeline: it holds
// the append-only trackpoint and waypoint corpora, caches the derived graph,
// and answers routing queries, rebuilding the graph only when the corpora
// have changed since the last build.
package world

import (
	"io"

	"github.com/pkg/errors"

	"github.com/jburns/trailnet/pkg/encounter"
	"github.com/jburns/trailnet/pkg/geo"
	"github.com/jburns/trailnet/pkg/graph"
	"github.com/jburns/trailnet/pkg/ingest/gpx"
	"github.com/jburns/trailnet/pkg/routing"
	"github.com/jburns/trailnet/pkg/spatial"
	"github.com/jburns/trailnet/pkg/track"
)

// DefaultQuantile is the quantile used when a caller does not specify one,
// matching this system's documented default (80th percentile travel time).
const DefaultQuantile = 0.8

// Config tunes the thresholds the learning pipeline applies. The zero value
// is invalid; use DefaultConfig.
type Config struct {
	MaxHDOP float64 // trackpoints with accuracy above this are discarded
	MaxDist float64 // metres; nearest-waypoint search radius
}

// DefaultConfig returns this system's documented defaults.
func DefaultConfig() Config {
	return Config{MaxHDOP: 16, MaxDist: 30}
}

// Parser is the external ingest collaborator: it turns raw file bytes into
// the trackpoint/waypoint tuples World.Ingest appends. gpx.Parse implements
// this.
type Parser func(r io.Reader) ([]track.RawTrackpoint, []track.RawWaypoint, error)

// World holds the two append-only corpora and the possibly-absent cached
// graph. It is not safe for concurrent mutation-during-query use: callers
// embedding World in a concurrent host must serialise mutations and queries
// themselves, per this system's single-threaded synchronous design.
type World struct {
	cfg    Config
	parser Parser

	trackpoints []track.RawTrackpoint
	waypoints   []track.RawWaypoint

	graph   *graph.Graph // nil when stale
	zone    geo.Zone
	zoneSet bool
}

// New creates an empty World with the given configuration.
func New(cfg Config) *World {
	return &World{cfg: cfg, parser: gpx.Parse}
}

// WithParser overrides the ingest parser (gpx.Parse by default); useful for
// tests or alternate file formats.
func (w *World) WithParser(p Parser) *World {
	w.parser = p
	return w
}

// AddTrackpoints appends raw trackpoints and invalidates the cached graph.
func (w *World) AddTrackpoints(points []track.RawTrackpoint) {
	w.trackpoints = append(w.trackpoints, points...)
	w.graph = nil
	w.zoneSet = false
}

// AddWaypoints appends raw waypoints and invalidates the cached graph.
func (w *World) AddWaypoints(points []track.RawWaypoint) {
	w.waypoints = append(w.waypoints, points...)
	w.graph = nil
	w.zoneSet = false
}

// Ingest parses raw file bytes with the configured Parser and appends the
// result, invalidating the cached graph. On a parse failure, nothing is
// appended.
func (w *World) Ingest(r io.Reader) error {
	trackpoints, waypoints, err := w.parser(r)
	if err != nil {
		return errors.Wrap(err, "ingest")
	}
	w.AddTrackpoints(trackpoints)
	w.AddWaypoints(waypoints)
	return nil
}

// Graph returns the cached graph, which is non-nil only immediately after a
// query and becomes nil again after any mutation. Exposed for the cache
// identity invariant ("two queries without intervening mutation reuse the
// same graph") and for adapters that want to inspect the built graph
// directly.
func (w *World) Graph() *graph.Graph {
	return w.graph
}

// ensureGraph rebuilds the graph if stale, re-verifying the single-UTM-zone
// invariant across both corpora.
func (w *World) ensureGraph() (*graph.Graph, error) {
	if w.graph != nil {
		return w.graph, nil
	}

	waypointRows, waypointZone, err := track.PrepareWaypoints(w.waypoints)
	if err != nil {
		return nil, errors.Wrap(err, "prepare waypoints")
	}

	trackRows, trackZone, err := track.Prepare(w.trackpoints, w.cfg.MaxHDOP)
	if err != nil {
		return nil, errors.Wrap(err, "prepare trackpoints")
	}

	if trackZone != waypointZone {
		return nil, errors.Wrapf(&geo.RegionTooLargeError{}, "track corpus zone %d%c does not match waypoint corpus zone %d%c",
			trackZone.Number, trackZone.Letter, waypointZone.Number, waypointZone.Letter)
	}

	idx := spatial.New(waypointRows, w.cfg.MaxDist)
	encounters := encounter.Extract(trackRows, idx)
	g := graph.Build(encounters, waypointRows)

	w.graph = g
	w.zone = trackZone
	w.zoneSet = true
	return g, nil
}

// Build forces the graph to be (re)built immediately, re-running the
// single-UTM-zone check across both corpora. Queries call this lazily;
// adapters that want to report Zone() right after an ingest without first
// issuing a routing query can call it explicitly.
func (w *World) Build() error {
	_, err := w.ensureGraph()
	return err
}

// Zone returns the UTM zone detected for the current corpora and whether a
// graph has been built since the last mutation. Building the graph once
// (via any query) is required before Zone reports a value.
func (w *World) Zone() (geo.Zone, bool) {
	return w.zone, w.zoneSet
}

// NumTrackpoints and NumWaypoints report the size of the raw, unprepared
// corpora accumulated so far.
func (w *World) NumTrackpoints() int { return len(w.trackpoints) }
func (w *World) NumWaypoints() int   { return len(w.waypoints) }

// FastestPath returns the vertex sequence minimising the quantile-weighted
// travel time from src to dst, rebuilding the graph if it is stale.
func (w *World) FastestPath(src, dst string, quantile float64) ([]graph.Vertex, error) {
	g, err := w.ensureGraph()
	if err != nil {
		return nil, err
	}
	return routing.FastestPath(g, src, dst, quantile)
}

// SingleSourcePeriods returns the name->seconds period table reachable from
// src, rebuilding the graph if it is stale.
func (w *World) SingleSourcePeriods(src string, quantile float64) (map[string]int, error) {
	g, err := w.ensureGraph()
	if err != nil {
		return nil, err
	}
	return routing.SingleSourcePeriods(g, src, quantile)
}
