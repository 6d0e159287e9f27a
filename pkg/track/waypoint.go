package track

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/jburns/trailnet/pkg/geo"
)

// RawWaypoint is a named point of interest or intersection as emitted by an
// ingest parser.
type RawWaypoint struct {
	Name     string
	Lat, Lon float64
}

// WaypointRow is a prepared waypoint: projected and classified.
type WaypointRow struct {
	Name              string
	Easting, Northing int64
	Lat, Lon          float64
	Intersection      bool // name parses as a pure decimal integer
}

// ErrDuplicateWaypoint is returned when two input waypoints share a name.
var ErrDuplicateWaypoint = errors.New("duplicate waypoint name")

// PrepareWaypoints projects waypoints and classifies each by the
// all-digits-means-intersection rule. Names must be unique.
func PrepareWaypoints(points []RawWaypoint) ([]WaypointRow, geo.Zone, error) {
	if len(points) == 0 {
		return nil, geo.Zone{}, geo.ErrEmptyData
	}

	seen := make(map[string]bool, len(points))
	geoPoints := make([]geo.Point, len(points))
	for i, p := range points {
		if seen[p.Name] {
			return nil, geo.Zone{}, errors.Wrapf(ErrDuplicateWaypoint, "name %q", p.Name)
		}
		seen[p.Name] = true
		geoPoints[i] = geo.Point{Lat: p.Lat, Lon: p.Lon}
	}

	projected, zone, err := geo.Project(geoPoints)
	if err != nil {
		return nil, geo.Zone{}, err
	}

	rows := make([]WaypointRow, len(points))
	for i, p := range points {
		rows[i] = WaypointRow{
			Name:         p.Name,
			Easting:      projected[i].Easting,
			Northing:     projected[i].Northing,
			Lat:          p.Lat,
			Lon:          p.Lon,
			Intersection: isAllDigits(p.Name),
		}
	}
	return rows, zone, nil
}

func isAllDigits(name string) bool {
	if name == "" {
		return false
	}
	_, err := strconv.ParseUint(name, 10, 64)
	return err == nil
}
