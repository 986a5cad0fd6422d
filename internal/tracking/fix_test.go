package tracking

import (
	"testing"
)

func TestParseFix(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
		check   func(t *testing.T, fix *Fix)
	}{
		{
			name:    "full payload",
			payload: `{"lat": 10.762622, "lng": 106.660172, "accuracy": 5.0, "timestamp": 1724800000000}`,
			check: func(t *testing.T, fix *Fix) {
				if fix.Lat != 10.762622 || fix.Lng != 106.660172 {
					t.Errorf("unexpected coordinates: %v, %v", fix.Lat, fix.Lng)
				}
				if fix.Timestamp != 1724800000000 {
					t.Errorf("unexpected timestamp: %d", fix.Timestamp)
				}
				if fix.Accuracy == nil || *fix.Accuracy != 5.0 {
					t.Errorf("unexpected accuracy: %v", fix.Accuracy)
				}
			},
		},
		{
			name:    "missing timestamp stamped at receipt",
			payload: `{"lat": 1, "lng": 2}`,
			check: func(t *testing.T, fix *Fix) {
				if fix.Timestamp == 0 {
					t.Error("expected receive-time timestamp, got zero")
				}
			},
		},
		{
			name:    "malformed payload",
			payload: `{"lat": "north"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fix, err := ParseFix([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, fix)
		})
	}
}

func TestValidateFix(t *testing.T) {
	badAccuracy := -1.0

	tests := []struct {
		name    string
		fix     *Fix
		wantErr bool
	}{
		{name: "valid", fix: &Fix{Lat: 10.76, Lng: 106.66, Timestamp: 1}},
		{name: "latitude out of range", fix: &Fix{Lat: 91, Lng: 0, Timestamp: 1}, wantErr: true},
		{name: "longitude out of range", fix: &Fix{Lat: 0, Lng: -181, Timestamp: 1}, wantErr: true},
		{name: "negative accuracy", fix: &Fix{Lat: 0, Lng: 0, Accuracy: &badAccuracy, Timestamp: 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFix(tt.fix)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFix() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
