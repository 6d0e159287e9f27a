package world

import (
	"testing"
	"time"

	"github.com/jburns/trailnet/pkg/track"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return tm
}

// TestDirectPathScenario implements spec scenario 5: a direct trip between
// two POIs with no intersection in between.
func TestDirectPathScenario(t *testing.T) {
	w := New(DefaultConfig())
	w.AddWaypoints([]track.RawWaypoint{
		{Name: "alice", Lat: 49.0000, Lon: 8.4000},
		{Name: "bob", Lat: 49.0010, Lon: 8.4010},
	})
	w.AddTrackpoints([]track.RawTrackpoint{
		{Time: mustTime(t, "2020-05-01T00:00:00Z"), Lat: 49.0000, Lon: 8.4000, Accuracy: 5},
		{Time: mustTime(t, "2020-05-01T00:00:06Z"), Lat: 49.0010, Lon: 8.4010, Accuracy: 5},
	})

	path, err := w.FastestPath("alice", "bob", DefaultQuantile)
	if err != nil {
		t.Fatalf("FastestPath: %v", err)
	}
	if len(path) != 2 || path[0].Here != "alice" || path[1].Here != "bob" {
		t.Fatalf("path = %v, want [alice bob]", path)
	}

	periods, err := w.SingleSourcePeriods("alice", DefaultQuantile)
	if err != nil {
		t.Fatalf("SingleSourcePeriods: %v", err)
	}
	if periods["alice"] != 0 || periods["bob"] != 6 {
		t.Fatalf("periods = %v, want alice=0 bob=6", periods)
	}
}

// TestSlowIntersectionScenario implements spec scenario 6: a numeric
// waypoint between two POIs with a long enough dwell to classify slow,
// producing a two-vertex traffic-light split on the path.
func TestSlowIntersectionScenario(t *testing.T) {
	w := New(DefaultConfig())
	w.AddWaypoints([]track.RawWaypoint{
		{Name: "alice", Lat: 49.0000, Lon: 8.4000},
		{Name: "2", Lat: 49.0005, Lon: 8.4005},
		{Name: "bob", Lat: 49.0010, Lon: 8.4010},
	})
	w.AddTrackpoints([]track.RawTrackpoint{
		{Time: mustTime(t, "2020-05-01T00:00:00Z"), Lat: 49.0000, Lon: 8.4000, Accuracy: 5},
		{Time: mustTime(t, "2020-05-01T00:00:03Z"), Lat: 49.0005, Lon: 8.4005, Accuracy: 5},
		{Time: mustTime(t, "2020-05-01T00:00:43Z"), Lat: 49.0005, Lon: 8.4005, Accuracy: 5},
		{Time: mustTime(t, "2020-05-01T00:00:56Z"), Lat: 49.0010, Lon: 8.4010, Accuracy: 5},
	})

	path, err := w.FastestPath("alice", "bob", DefaultQuantile)
	if err != nil {
		t.Fatalf("FastestPath: %v", err)
	}
	if len(path) != 4 {
		t.Fatalf("path = %v, want 4 vertices (alice, entry, exit, bob)", path)
	}
	if path[0].Here != "alice" || path[1].Here != "2" || path[2].Here != "2" || path[3].Here != "bob" {
		t.Fatalf("path = %v, want [alice 2 2 bob]", path)
	}
	if !path[1].IsSplit() || !path[2].IsSplit() {
		t.Fatalf("path = %v, want split vertices at the intersection", path)
	}

	periods, err := w.SingleSourcePeriods("alice", DefaultQuantile)
	if err != nil {
		t.Fatalf("SingleSourcePeriods: %v", err)
	}
	if periods["alice"] != 0 {
		t.Errorf("alice period = %d, want 0", periods["alice"])
	}
	if periods["2"] != 3 {
		t.Errorf("\"2\" period = %d, want 3", periods["2"])
	}
	if periods["bob"] != 56 {
		t.Errorf("bob period = %d, want 56", periods["bob"])
	}
}

func TestCacheInvalidatesOnMutation(t *testing.T) {
	w := New(DefaultConfig())
	w.AddWaypoints([]track.RawWaypoint{
		{Name: "alice", Lat: 49.0000, Lon: 8.4000},
		{Name: "bob", Lat: 49.0010, Lon: 8.4010},
	})
	w.AddTrackpoints([]track.RawTrackpoint{
		{Time: mustTime(t, "2020-05-01T00:00:00Z"), Lat: 49.0000, Lon: 8.4000, Accuracy: 5},
		{Time: mustTime(t, "2020-05-01T00:00:06Z"), Lat: 49.0010, Lon: 8.4010, Accuracy: 5},
	})

	if w.Graph() != nil {
		t.Fatal("graph should be absent before any query")
	}

	if _, err := w.FastestPath("alice", "bob", DefaultQuantile); err != nil {
		t.Fatalf("FastestPath: %v", err)
	}
	first := w.Graph()
	if first == nil {
		t.Fatal("graph should be cached after a query")
	}

	if _, err := w.FastestPath("alice", "bob", DefaultQuantile); err != nil {
		t.Fatalf("FastestPath: %v", err)
	}
	if w.Graph() != first {
		t.Fatal("two queries without mutation should reuse the same graph identity")
	}

	w.AddWaypoints([]track.RawWaypoint{{Name: "carol", Lat: 49.0020, Lon: 8.4020}})
	if w.Graph() != nil {
		t.Fatal("AddWaypoints should invalidate the cached graph")
	}
}

func TestRegionTooLargeAcrossCorpora(t *testing.T) {
	w := New(DefaultConfig())
	w.AddWaypoints([]track.RawWaypoint{
		{Name: "alice", Lat: 49.0000, Lon: 8.4000},
		{Name: "bob", Lat: 49.0010, Lon: 8.4010},
	})
	// A track corpus projected into a different UTM zone than the waypoints.
	w.AddTrackpoints([]track.RawTrackpoint{
		{Time: mustTime(t, "2020-05-01T00:00:00Z"), Lat: 49.0000, Lon: 98.0000, Accuracy: 5},
		{Time: mustTime(t, "2020-05-01T00:00:06Z"), Lat: 49.0010, Lon: 98.0010, Accuracy: 5},
	})

	if _, err := w.FastestPath("alice", "bob", DefaultQuantile); err == nil {
		t.Fatal("expected RegionTooLarge error across mismatched corpora")
	}
}

func TestUnknownWaypointAndUnreachable(t *testing.T) {
	w := New(DefaultConfig())
	w.AddWaypoints([]track.RawWaypoint{
		{Name: "alice", Lat: 49.0000, Lon: 8.4000},
		{Name: "bob", Lat: 49.0010, Lon: 8.4010},
		{Name: "carol", Lat: 49.0020, Lon: 8.4020},
	})
	w.AddTrackpoints([]track.RawTrackpoint{
		{Time: mustTime(t, "2020-05-01T00:00:00Z"), Lat: 49.0000, Lon: 8.4000, Accuracy: 5},
		{Time: mustTime(t, "2020-05-01T00:00:06Z"), Lat: 49.0010, Lon: 8.4010, Accuracy: 5},
		{Time: mustTime(t, "2020-05-02T00:00:00Z"), Lat: 49.0020, Lon: 8.4020, Accuracy: 5},
	})

	if _, err := w.FastestPath("nowhere", "bob", DefaultQuantile); err == nil {
		t.Fatal("expected ErrUnknownWaypoint")
	}
	if _, err := w.FastestPath("alice", "carol", DefaultQuantile); err == nil {
		t.Fatal("expected ErrUnreachable (carol is only reachable via its own unconnected segment)")
	}
}
