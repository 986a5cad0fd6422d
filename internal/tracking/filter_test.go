package tracking

import (
	"testing"
)

func TestFilterAccept(t *testing.T) {
	// Longitude degrees at the equator: 0.0001 deg is roughly 11 m,
	// 0.0002 deg roughly 22 m.
	tests := []struct {
		name        string
		minDistance float64
		fixes       []*Fix
		want        []bool
	}{
		{
			name:        "first fix always accepted",
			minDistance: 20.0,
			fixes: []*Fix{
				{Lat: 0, Lng: 0, Timestamp: 1},
			},
			want: []bool{true},
		},
		{
			name:        "fix under threshold dropped",
			minDistance: 20.0,
			fixes: []*Fix{
				{Lat: 0, Lng: 0, Timestamp: 1},
				{Lat: 0, Lng: 0.0001, Timestamp: 2},
			},
			want: []bool{true, false},
		},
		{
			name:        "fix over threshold accepted",
			minDistance: 20.0,
			fixes: []*Fix{
				{Lat: 0, Lng: 0, Timestamp: 1},
				{Lat: 0, Lng: 0.0002, Timestamp: 2},
			},
			want: []bool{true, true},
		},
		{
			name:        "dropped fix does not move the reference",
			minDistance: 20.0,
			fixes: []*Fix{
				{Lat: 0, Lng: 0, Timestamp: 1},
				{Lat: 0, Lng: 0.0001, Timestamp: 2},
				{Lat: 0, Lng: 0.0003, Timestamp: 3},
			},
			want: []bool{true, false, true},
		},
		{
			name:        "small hops never accumulate past a stationary reference",
			minDistance: 20.0,
			fixes: []*Fix{
				{Lat: 0, Lng: 0, Timestamp: 1},
				{Lat: 0, Lng: 0.00005, Timestamp: 2},
				{Lat: 0, Lng: 0.0001, Timestamp: 3},
				{Lat: 0, Lng: 0.00015, Timestamp: 4},
			},
			want: []bool{true, false, false, false},
		},
		{
			name:        "duplicate coordinates dropped",
			minDistance: 20.0,
			fixes: []*Fix{
				{Lat: 10.5, Lng: 106.7, Timestamp: 1},
				{Lat: 10.5, Lng: 106.7, Timestamp: 2},
			},
			want: []bool{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter(tt.minDistance)
			for i, fix := range tt.fixes {
				got := f.Accept(fix)
				if got != tt.want[i] {
					t.Errorf("Accept(fix %d) = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestFilterReset(t *testing.T) {
	f := NewFilter(20.0)

	if !f.Accept(&Fix{Lat: 0, Lng: 0, Timestamp: 1}) {
		t.Fatal("expected first fix accepted")
	}
	if f.Accept(&Fix{Lat: 0, Lng: 0.0001, Timestamp: 2}) {
		t.Fatal("expected jitter fix dropped")
	}

	f.Reset()

	if f.LastAccepted() != nil {
		t.Fatal("expected no reference fix after reset")
	}
	if !f.Accept(&Fix{Lat: 0, Lng: 0.0001, Timestamp: 3}) {
		t.Fatal("expected first fix after reset accepted unconditionally")
	}
}

func TestFilterDefaultsThreshold(t *testing.T) {
	f := NewFilter(0)

	if !f.Accept(&Fix{Lat: 0, Lng: 0, Timestamp: 1}) {
		t.Fatal("expected first fix accepted")
	}
	// ~11 m is under the 20 m default.
	if f.Accept(&Fix{Lat: 0, Lng: 0.0001, Timestamp: 2}) {
		t.Fatal("expected fix under default threshold dropped")
	}
}
