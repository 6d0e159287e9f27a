package encounter

import (
	"testing"

	"github.com/jburns/trailnet/pkg/spatial"
	"github.com/jburns/trailnet/pkg/track"
)

func TestExtractMaximalRuns(t *testing.T) {
	waypoints := []track.WaypointRow{
		{Name: "alice", Easting: 1000, Northing: 1000},
		{Name: "bob", Easting: 1100, Northing: 1000},
	}
	idx := spatial.New(waypoints, 30)

	rows := []track.Row{
		{Segment: 0, Offset: 0, Easting: 1001, Northing: 1000},
		{Segment: 0, Offset: 3, Easting: 1002, Northing: 1000},
		{Segment: 0, Offset: 6, Easting: 1099, Northing: 1000},
		{Segment: 0, Offset: 9, Easting: 1098, Northing: 1000},
	}

	got := Extract(rows, idx)
	if len(got) != 2 {
		t.Fatalf("len(encounters) = %d, want 2: %+v", len(got), got)
	}
	if got[0].Waypoint != 0 || got[0].Start != 0 || got[0].End != 3 {
		t.Errorf("encounter[0] = %+v, want waypoint=0 start=0 end=3", got[0])
	}
	if got[1].Waypoint != 1 || got[1].Start != 6 || got[1].End != 9 {
		t.Errorf("encounter[1] = %+v, want waypoint=1 start=6 end=9", got[1])
	}
}

func TestExtractDropsOutOfRange(t *testing.T) {
	waypoints := []track.WaypointRow{{Name: "alice", Easting: 0, Northing: 0}}
	idx := spatial.New(waypoints, 30)

	rows := []track.Row{
		{Segment: 0, Offset: 0, Easting: 0, Northing: 0},
		{Segment: 0, Offset: 5, Easting: 10000, Northing: 10000},
		{Segment: 0, Offset: 10, Easting: 1, Northing: 0},
	}

	got := Extract(rows, idx)
	if len(got) != 2 {
		t.Fatalf("len(encounters) = %d, want 2 (middle point out of range splits the run): %+v", len(got), got)
	}
}

func TestExtractSegmentBoundarySplitsEncounter(t *testing.T) {
	waypoints := []track.WaypointRow{{Name: "alice", Easting: 0, Northing: 0}}
	idx := spatial.New(waypoints, 30)

	rows := []track.Row{
		{Segment: 0, Offset: 0, Easting: 0, Northing: 0},
		{Segment: 1, Offset: 0, Easting: 0, Northing: 0},
	}

	got := Extract(rows, idx)
	if len(got) != 2 {
		t.Fatalf("len(encounters) = %d, want 2 (new segment starts a new encounter)", len(got))
	}
	if got[0].Segment != 0 || got[1].Segment != 1 {
		t.Errorf("segments = [%d %d], want [0 1]", got[0].Segment, got[1].Segment)
	}
}
