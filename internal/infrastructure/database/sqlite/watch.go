package sqlite

import (
	"sync"

	"routesync/internal/domain/trip"
)

// hub is the observer registry behind the reactive cache reads. Subscribers
// are keyed by query shape (active trip per fleet/driver, locations per
// trip). Channels have capacity one and delivery is latest-wins: a slow
// subscriber sees coalesced snapshots, never a missed final state.
type hub struct {
	mu       sync.Mutex
	tripSubs map[*tripSub]struct{}
	locSubs  map[*locationSub]struct{}
}

type tripSub struct {
	fleetCode string
	driverID  string
	ch        chan *trip.Trip
}

type locationSub struct {
	tripID string
	ch     chan []trip.TripLocation
}

func newHub() *hub {
	return &hub{
		tripSubs: make(map[*tripSub]struct{}),
		locSubs:  make(map[*locationSub]struct{}),
	}
}

func (h *hub) addTripSub(fleetCode, driverID string) (*tripSub, func()) {
	sub := &tripSub{
		fleetCode: fleetCode,
		driverID:  driverID,
		ch:        make(chan *trip.Trip, 1),
	}

	h.mu.Lock()
	h.tripSubs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.tripSubs, sub)
		h.mu.Unlock()
	}
	return sub, cancel
}

func (h *hub) addLocationSub(tripID string) (*locationSub, func()) {
	sub := &locationSub{
		tripID: tripID,
		ch:     make(chan []trip.TripLocation, 1),
	}

	h.mu.Lock()
	h.locSubs[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.locSubs, sub)
		h.mu.Unlock()
	}
	return sub, cancel
}

func (h *hub) matchingTripSubs(fleetCode, driverID string) []*tripSub {
	h.mu.Lock()
	defer h.mu.Unlock()

	var subs []*tripSub
	for sub := range h.tripSubs {
		if sub.fleetCode == fleetCode && sub.driverID == driverID {
			subs = append(subs, sub)
		}
	}
	return subs
}

func (h *hub) matchingLocationSubs(tripID string) []*locationSub {
	h.mu.Lock()
	defer h.mu.Unlock()

	var subs []*locationSub
	for sub := range h.locSubs {
		if sub.tripID == tripID {
			subs = append(subs, sub)
		}
	}
	return subs
}

// pushTrip replaces any undelivered snapshot with the newer one.
func pushTrip(ch chan *trip.Trip, snapshot *trip.Trip) {
	for {
		select {
		case ch <- snapshot:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func pushLocations(ch chan []trip.TripLocation, snapshot []trip.TripLocation) {
	for {
		select {
		case ch <- snapshot:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
