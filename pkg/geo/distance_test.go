package geo

import (
	"math"
	"testing"
)

func TestDistanceMeters(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
		tolerance              float64
	}{
		{"Same point", 10.5, 20.5, 10.5, 20.5, 0, 0.001},
		{"Small longitude step at equator", 0, 0, 0, 0.0001, 11.1, 0.5},
		{"Larger longitude step at equator", 0, 0, 0, 0.0003, 33.4, 0.5},
		{"One degree latitude", 0, 0, 1, 0, 111195, 100},
		{"Toronto to Montreal", 43.6532, -79.3832, 45.5019, -73.5674, 504000, 5000},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DistanceMeters(c.lat1, c.lng1, c.lat2, c.lng2)
			if math.Abs(got-c.want) > c.tolerance {
				t.Errorf("DistanceMeters(%v,%v,%v,%v) = %v, want %v ± %v",
					c.lat1, c.lng1, c.lat2, c.lng2, got, c.want, c.tolerance)
			}
		})
	}
}

func TestDistanceMetersSymmetry(t *testing.T) {
	ab := DistanceMeters(43.65, -79.38, 45.50, -73.56)
	ba := DistanceMeters(45.50, -73.56, 43.65, -79.38)
	if math.Abs(ab-ba) > 0.0001 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}
