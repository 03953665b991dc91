package utils

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusMeters is the mean radius used for geometric distance
// estimates when the distance-matrix service is unavailable.
const EarthRadiusMeters = 6378137

// Point is a latitude/longitude pair. It is stored as a POINT(lat lng)
// string; parsing and formatting happen only at the storage boundary.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) String() string {
	lat := strconv.FormatFloat(p.Lat, 'f', -1, 64)
	lng := strconv.FormatFloat(p.Lng, 'f', -1, 64)
	return "POINT(" + lat + " " + lng + ")"
}

// ParsePoint parses the stored POINT(lat lng) form.
func ParsePoint(raw string) (Point, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "POINT(") || !strings.HasSuffix(trimmed, ")") {
		return Point{}, fmt.Errorf("invalid point %q", raw)
	}

	fields := strings.Fields(trimmed[len("POINT(") : len(trimmed)-1])
	if len(fields) != 2 {
		return Point{}, fmt.Errorf("invalid point %q", raw)
	}

	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point latitude %q", fields[0])
	}
	lng, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid point longitude %q", fields[1])
	}

	return Point{Lat: lat, Lng: lng}, nil
}

func (p Point) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *Point) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := ParsePoint(v)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	case []byte:
		parsed, err := ParsePoint(string(v))
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	case nil:
		*p = Point{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Point", src)
	}
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := latB - latA
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// DistanceText renders meters below 1km and approximate kilometers above.
func DistanceText(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("~%.1f km", meters/1000)
}
