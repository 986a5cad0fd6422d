package trip

import "routesync/internal/domain/user"

// Trip is one driving session by a driver within a fleet. The id is assigned
// by the remote store when the trip starts. The Last* fields are a
// denormalized current-position cache, distinct from the full path history.
type Trip struct {
	ID         string
	FleetCode  string
	DriverID   string
	DriverName string
	Vehicle    string
	StartedAt  int64  // epoch millis
	EndedAt    *int64 // nil while active
	IsActive   bool

	LastLat               *float64
	LastLng               *float64
	LastLocationTimestamp *int64
}

// TripLocation is one retained GPS sample in a trip's path history.
// Identity is the composite (TripID, Timestamp); rows are append-only.
type TripLocation struct {
	TripID    string
	Lat       float64
	Lng       float64
	Timestamp int64
}

// DriverProfile is the subset of a user profile a trip start needs.
type DriverProfile = user.UserProfile
