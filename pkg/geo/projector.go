package geo

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// WGS84 ellipsoid parameters and the UTM scale factor.
const (
	utmA  = 6378137.0
	utmF  = 1 / 298.257223563
	utmK0 = 0.9996

	// maxZoneOffsetMeters bounds how far a projected easting may stray from
	// the zone's central-meridian offset (500000 m) before the batch is
	// rejected as spanning more than one UTM zone.
	maxZoneOffsetMeters = 400000.0
)

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Projected is a planar UTM coordinate, rounded to the nearest metre.
type Projected struct {
	Easting  int64
	Northing int64
}

// Zone identifies a UTM zone by number (1-60) and latitude-band letter.
type Zone struct {
	Number int
	Letter byte
}

// RegionTooLargeError reports that a batch of points could not be projected
// into a single UTM zone without exceeding the allowed easting offset.
type RegionTooLargeError struct {
	MaxOffset float64
}

func (e *RegionTooLargeError) Error() string {
	return fmt.Sprintf("region spans more than one UTM zone: max |easting-500000| = %.1fm exceeds %.1fm", e.MaxOffset, maxZoneOffsetMeters)
}

// ErrEmptyData is returned when a projection or preparation step receives no input.
var ErrEmptyData = errors.New("empty input data")

// Project converts a batch of points to UTM coordinates, choosing the zone
// from the first point. Fails with *RegionTooLargeError if any point's
// easting strays more than maxZoneOffsetMeters from the zone's 500000m
// central-meridian offset, i.e. the batch does not fit in one zone.
func Project(points []Point) ([]Projected, Zone, error) {
	if len(points) == 0 {
		return nil, Zone{}, ErrEmptyData
	}

	zone := Zone{
		Number: zoneNumberFor(points[0].Lon),
		Letter: zoneLetterFor(points[0].Lat),
	}

	out := make([]Projected, len(points))
	maxOffset := 0.0
	for i, p := range points {
		e, n := forward(p.Lat, p.Lon, zone.Number)
		out[i] = Projected{
			Easting:  int64(math.Round(e)),
			Northing: int64(math.Round(n)),
		}
		if off := math.Abs(e - 500000); off > maxOffset {
			maxOffset = off
		}
	}

	if maxOffset > maxZoneOffsetMeters {
		return nil, Zone{}, &RegionTooLargeError{MaxOffset: maxOffset}
	}

	return out, zone, nil
}

// Unproject converts a UTM coordinate in the given zone back to lat/lon.
// It uses the northing convention produced by forward: no 10000000m false
// northing is applied, so points south of the equator have negative
// northings, and standard southern-hemisphere UTM northings are not accepted.
func Unproject(easting, northing float64, zone Zone) Point {
	lat, lon := inverse(easting, northing, zone.Number)
	return Point{Lat: lat, Lon: lon}
}

func zoneNumberFor(lon float64) int {
	n := int(math.Floor((lon+180)/6)) + 1
	if n < 1 {
		n = 1
	}
	if n > 60 {
		n = 60
	}
	return n
}

// utmBandLetters are the UTM latitude band letters from -80 to 84 degrees,
// 8 degrees per band (I and O are skipped to avoid confusion with 1 and 0).
const utmBandLetters = "CDEFGHJKLMNPQRSTUVWX"

func zoneLetterFor(lat float64) byte {
	if lat < -80 {
		return utmBandLetters[0]
	}
	if lat >= 84 {
		return utmBandLetters[len(utmBandLetters)-1]
	}
	idx := int((lat + 80) / 8)
	if idx >= len(utmBandLetters) {
		idx = len(utmBandLetters) - 1
	}
	return utmBandLetters[idx]
}

// forward projects lat/lon onto the transverse Mercator plane for the given
// zone, via the standard Snyder 6th-order series (the formulation shared by
// most open UTM implementations; accurate to well under a metre within a
// single zone).
func forward(lat, lon float64, zoneNumber int) (easting, northing float64) {
	e2 := utmF * (2 - utmF)
	ep2 := e2 / (1 - e2)

	lon0 := math.Pi / 180 * float64((zoneNumber-1)*6-180+3)
	latR := math.Pi / 180 * lat
	lonR := math.Pi / 180 * lon

	sinLat := math.Sin(latR)
	cosLat := math.Cos(latR)
	tanLat := math.Tan(latR)

	n := utmA / math.Sqrt(1-e2*sinLat*sinLat)
	t := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	a := cosLat * (lonR - lon0)

	m := utmA * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*latR -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*latR) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*latR) -
		(35*e2*e2*e2/3072)*math.Sin(6*latR))

	easting = utmK0*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + 500000

	northing = utmK0 * (m + n*tanLat*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))

	return easting, northing
}

// inverse converts planar UTM coordinates back to lat/lon, via the standard
// Snyder inverse transverse Mercator series.
func inverse(easting, northing float64, zoneNumber int) (lat, lon float64) {
	e2 := utmF * (2 - utmF)
	ep2 := e2 / (1 - e2)
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	x := easting - 500000
	y := northing

	m := y / utmK0
	mu := m / (utmA * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	n1 := utmA / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	t1 := tanPhi1 * tanPhi1
	c1 := ep2 * cosPhi1 * cosPhi1
	r1 := utmA * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := x / (n1 * utmK0)

	latR := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d*d*d*d*d*d/720)

	lonR := (d - (1+2*t1+c1)*d*d*d/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d*d*d*d*d/120) / cosPhi1

	lon0 := math.Pi / 180 * float64((zoneNumber-1)*6-180+3)

	return latR * 180 / math.Pi, lon0*180/math.Pi + lonR*180/math.Pi
}
