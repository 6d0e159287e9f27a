package geo

import (
	"math"
	"testing"
)

func TestProjectSingleTrackpoint(t *testing.T) {
	out, zone, err := Project([]Point{{Lat: 49.00, Lon: 8.40}})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if zone.Number != 32 || zone.Letter != 'U' {
		t.Fatalf("zone = %d%c, want 32U", zone.Number, zone.Letter)
	}
	if math.Abs(float64(out[0].Easting-456114)) > 1 {
		t.Errorf("easting = %d, want ~456114", out[0].Easting)
	}
	if math.Abs(float64(out[0].Northing-5427629)) > 1 {
		t.Errorf("northing = %d, want ~5427629", out[0].Northing)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	cases := []Point{
		{Lat: 49.00, Lon: 8.40},
		{Lat: 49.01, Lon: 8.41},
		{Lat: 1.30, Lon: 103.80},
		{Lat: -33.86, Lon: 151.20},
	}
	for _, p := range cases {
		out, zone, err := Project([]Point{p})
		if err != nil {
			t.Fatalf("Project(%v): %v", p, err)
		}
		back := Unproject(float64(out[0].Easting), float64(out[0].Northing), zone)
		if math.Abs(back.Lat-p.Lat) > 1e-5 || math.Abs(back.Lon-p.Lon) > 1e-5 {
			// 1e-5 degrees is roughly 1m at the equator.
			t.Errorf("round trip %v -> %v -> %v, drifted beyond 1m", p, out[0], back)
		}
	}
}

func TestProjectEmpty(t *testing.T) {
	if _, _, err := Project(nil); err != ErrEmptyData {
		t.Fatalf("err = %v, want ErrEmptyData", err)
	}
}

func TestProjectRegionTooLarge(t *testing.T) {
	_, _, err := Project([]Point{
		{Lat: 49, Lon: 8.40},
		{Lat: 49, Lon: -8.40},
	})
	if err == nil {
		t.Fatal("expected RegionTooLargeError")
	}
	if _, ok := err.(*RegionTooLargeError); !ok {
		t.Fatalf("err = %T, want *RegionTooLargeError", err)
	}
}

func TestZoneLetterBands(t *testing.T) {
	cases := []struct {
		lat  float64
		want byte
	}{
		{49.0, 'U'},
		{0.0, 'N'},
		{-1.0, 'M'},
		{83.9, 'X'},
		{-79.9, 'C'},
	}
	for _, c := range cases {
		if got := zoneLetterFor(c.lat); got != c.want {
			t.Errorf("zoneLetterFor(%v) = %c, want %c", c.lat, got, c.want)
		}
	}
}
