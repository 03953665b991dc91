package utils

import (
	"math"
	"testing"
)

func TestParsePoint(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    Point
		wantErr bool
	}{
		{name: "plain", raw: "POINT(-6.89693 107.55995)", want: Point{Lat: -6.89693, Lng: 107.55995}},
		{name: "integers", raw: "POINT(0 0)", want: Point{}},
		{name: "padded", raw: "  POINT(1.5 2.5)  ", want: Point{Lat: 1.5, Lng: 2.5}},
		{name: "missing prefix", raw: "(1.5 2.5)", wantErr: true},
		{name: "one coordinate", raw: "POINT(1.5)", wantErr: true},
		{name: "not numbers", raw: "POINT(a b)", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePoint(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParsePoint(%q) expected error, got %+v", tc.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePoint(%q) unexpected error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("ParsePoint(%q) = %+v, want %+v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestPointRoundTrip(t *testing.T) {
	original := Point{Lat: -6.89693, Lng: 107.55995}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}

	var scanned Point
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan(%v) error: %v", value, err)
	}
	if scanned != original {
		t.Errorf("round trip = %+v, want %+v", scanned, original)
	}
}

func TestPointScanBytes(t *testing.T) {
	var p Point
	if err := p.Scan([]byte("POINT(1 2)")); err != nil {
		t.Fatalf("Scan bytes error: %v", err)
	}
	if p.Lat != 1 || p.Lng != 2 {
		t.Errorf("scanned %+v, want {1 2}", p)
	}

	if err := p.Scan(42); err == nil {
		t.Error("Scan(int) expected error")
	}
}

func TestHaversine(t *testing.T) {
	origin := Point{Lat: 0, Lng: 0}

	if d := Haversine(origin, origin); d != 0 {
		t.Errorf("distance to self = %v, want 0", d)
	}

	// One degree of longitude on the equator.
	oneDegree := EarthRadiusMeters * math.Pi / 180
	got := Haversine(origin, Point{Lat: 0, Lng: 1})
	if math.Abs(got-oneDegree) > 1 {
		t.Errorf("one-degree distance = %v, want about %v", got, oneDegree)
	}

	// Symmetry.
	a := Point{Lat: -6.89693, Lng: 107.55995}
	b := Point{Lat: -6.91474, Lng: 107.60981}
	if math.Abs(Haversine(a, b)-Haversine(b, a)) > 1e-9 {
		t.Error("haversine is not symmetric")
	}
	if Haversine(a, b) <= 0 {
		t.Error("distance between distinct points must be positive")
	}
}

func TestDistanceText(t *testing.T) {
	cases := []struct {
		meters float64
		want   string
	}{
		{0, "0 m"},
		{500, "500 m"},
		{999.4, "999 m"},
		{1000, "~1.0 km"},
		{1550, "~1.6 km"},
		{12000, "~12.0 km"},
	}

	for _, tc := range cases {
		if got := DistanceText(tc.meters); got != tc.want {
			t.Errorf("DistanceText(%v) = %q, want %q", tc.meters, got, tc.want)
		}
	}
}
