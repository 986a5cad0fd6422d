package tracking

import (
	"sync"

	"routesync/pkg/geo"
)

// DefaultMinDistanceMeters is the jitter threshold: fixes closer than this to
// the last accepted fix are noise and get discarded.
const DefaultMinDistanceMeters = 20.0

// Filter de-jitters the raw fix stream with a minimum-distance policy. The
// distance check and the lastAccepted update are atomic relative to the next
// fix.
type Filter struct {
	mu           sync.Mutex
	minDistance  float64
	lastAccepted *Fix
}

func NewFilter(minDistanceMeters float64) *Filter {
	if minDistanceMeters <= 0 {
		minDistanceMeters = DefaultMinDistanceMeters
	}
	return &Filter{minDistance: minDistanceMeters}
}

// Accept reports whether the fix clears the distance threshold against the
// last accepted fix, and records it as the new reference when it does. The
// first fix is always accepted.
func (f *Filter) Accept(fix *Fix) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lastAccepted != nil {
		distance := geo.DistanceMeters(f.lastAccepted.Lat, f.lastAccepted.Lng, fix.Lat, fix.Lng)
		if distance < f.minDistance {
			return false
		}
	}

	f.lastAccepted = fix
	return true
}

// Reset clears the reference fix; the next fix is accepted unconditionally.
func (f *Filter) Reset() {
	f.mu.Lock()
	f.lastAccepted = nil
	f.mu.Unlock()
}

// LastAccepted returns the current reference fix, or nil.
func (f *Filter) LastAccepted() *Fix {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAccepted
}
