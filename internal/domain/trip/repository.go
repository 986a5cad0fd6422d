package trip

import "context"

// Repository is the sync-engine contract: trip lifecycle plus the dual
// remote-then-local writes for trip metadata and location samples, and the
// reactive read subscriptions served from the local cache.
//
// Mutating calls against the same trip are serialized by the implementation.
// If the remote write fails the local mirror is not touched and the error
// propagates; nothing is retried.
type Repository interface {
	StartTrip(ctx context.Context, fleetCode string, driver *DriverProfile) (*Trip, error)
	EndTrip(ctx context.Context, fleetCode, tripID string) error
	UpdateLastLocation(ctx context.Context, fleetCode, tripID string, lat, lng float64, timestamp int64) error
	AddTripLocation(ctx context.Context, fleetCode, tripID string, lat, lng float64, timestamp int64) error

	// ObserveActiveTrip emits the current active trip for the pair, or nil
	// when there is none. The current snapshot is delivered on subscribe and
	// again after every relevant local write. Intermediate states may be
	// coalesced. The returned cancel func releases the subscription.
	ObserveActiveTrip(fleetCode, driverID string) (<-chan *Trip, func())

	// ObserveLocationsForTrip emits the full path history ordered ascending
	// by timestamp, re-emitting on every append.
	ObserveLocationsForTrip(tripID string) (<-chan []TripLocation, func())
}

// RemoteStore is the authoritative store for trip identity and existence.
type RemoteStore interface {
	// NewTripID allocates a globally unique trip identity.
	NewTripID() string
	PutTrip(ctx context.Context, t *Trip) error
	SetTripEnded(ctx context.Context, fleetCode, tripID string, endedAt int64) error
	SetLastLocation(ctx context.Context, fleetCode, tripID string, lat, lng float64, timestamp int64) error
	// AddLocation appends one sample document under the trip; the sample id
	// is store-assigned.
	AddLocation(ctx context.Context, fleetCode string, loc *TripLocation) error
}

// LocalStore is the durable on-device mirror plus the reactive read side.
type LocalStore interface {
	UpsertTrip(ctx context.Context, t *Trip) error
	SetTripEnded(ctx context.Context, tripID string, endedAt int64) error
	SetLastLocation(ctx context.Context, tripID string, lat, lng float64, timestamp int64) error
	UpsertLocation(ctx context.Context, loc *TripLocation) error
	GetTrip(ctx context.Context, tripID string) (*Trip, error)

	ObserveActiveTrip(fleetCode, driverID string) (<-chan *Trip, func())
	ObserveLocationsForTrip(tripID string) (<-chan []TripLocation, func())
}
