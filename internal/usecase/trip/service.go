package trip

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "routesync/internal/domain/trip"
	"routesync/internal/logger"
	apperrors "routesync/pkg/errors"
)

// Service is the sync engine: it owns trip lifecycle transitions and performs
// the dual writes, remote store of record first, then the local mirror. If
// the remote write fails the local cache is left untouched, so the cache
// never holds state the remote has not confirmed. Nothing is retried here.
type Service struct {
	remote domain.RemoteStore
	local  domain.LocalStore

	locks sync.Map // trip id -> *sync.Mutex
}

var _ domain.Repository = (*Service)(nil)

func NewService(remote domain.RemoteStore, local domain.LocalStore) *Service {
	return &Service{
		remote: remote,
		local:  local,
	}
}

// lockFor serializes mutating calls against the same trip so the
// remote-then-local ordering holds per trip.
func (s *Service) lockFor(tripID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(tripID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// StartTrip allocates a new trip identity from the remote store, writes the
// trip record remotely with isActive=true, then mirrors it locally. The
// at-most-one-active-trip precondition is the caller's to check via
// ObserveActiveTrip before invoking.
func (s *Service) StartTrip(ctx context.Context, fleetCode string, driver *domain.DriverProfile) (*domain.Trip, error) {
	tripID := s.remote.NewTripID()

	mu := s.lockFor(tripID)
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().UnixMilli()
	t := &domain.Trip{
		ID:         tripID,
		FleetCode:  fleetCode,
		DriverID:   driver.ID,
		DriverName: driver.Name,
		Vehicle:    driver.Vehicle,
		StartedAt:  now,
		IsActive:   true,
	}

	if err := s.remote.PutTrip(ctx, t); err != nil {
		return nil, apperrors.Remote("start trip", err)
	}

	if err := s.local.UpsertTrip(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to mirror trip locally: %w", err)
	}

	logger.Info("Trip started",
		zap.String("trip_id", t.ID),
		zap.String("fleet_code", fleetCode),
		zap.String("driver_id", driver.ID),
	)

	return t, nil
}

// EndTrip marks the trip inactive remotely, then locally. Ending an already
// ended trip rewrites the same terminal state and is harmless.
func (s *Service) EndTrip(ctx context.Context, fleetCode, tripID string) error {
	mu := s.lockFor(tripID)
	mu.Lock()
	defer mu.Unlock()

	now := time.Now().UnixMilli()

	if err := s.remote.SetTripEnded(ctx, fleetCode, tripID, now); err != nil {
		return apperrors.Remote("end trip", err)
	}

	if err := s.local.SetTripEnded(ctx, tripID, now); err != nil {
		return fmt.Errorf("failed to mirror trip end locally: %w", err)
	}

	// The trip is terminal; drop its lock entry so the map does not grow with
	// every trip ever touched. Waiters holding the old mutex still finish.
	s.locks.Delete(tripID)

	logger.Info("Trip ended",
		zap.String("trip_id", tripID),
		zap.String("fleet_code", fleetCode),
	)

	return nil
}

// UpdateLastLocation overwrites the trip's denormalized current position.
// Last writer wins; there is no ordering guard against a newer timestamp
// already stored.
func (s *Service) UpdateLastLocation(ctx context.Context, fleetCode, tripID string, lat, lng float64, timestamp int64) error {
	mu := s.lockFor(tripID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.remote.SetLastLocation(ctx, fleetCode, tripID, lat, lng, timestamp); err != nil {
		return apperrors.Remote("update last location", err)
	}

	if err := s.local.SetLastLocation(ctx, tripID, lat, lng, timestamp); err != nil {
		return fmt.Errorf("failed to mirror last location locally: %w", err)
	}

	return nil
}

// AddTripLocation appends one immutable sample to the trip's path history,
// remote first (store-assigned sample id), then the local composite-keyed row.
func (s *Service) AddTripLocation(ctx context.Context, fleetCode, tripID string, lat, lng float64, timestamp int64) error {
	mu := s.lockFor(tripID)
	mu.Lock()
	defer mu.Unlock()

	loc := &domain.TripLocation{
		TripID:    tripID,
		Lat:       lat,
		Lng:       lng,
		Timestamp: timestamp,
	}

	if err := s.remote.AddLocation(ctx, fleetCode, loc); err != nil {
		return apperrors.Remote("add trip location", err)
	}

	if err := s.local.UpsertLocation(ctx, loc); err != nil {
		return fmt.Errorf("failed to mirror trip location locally: %w", err)
	}

	return nil
}

// ObserveActiveTrip is served from the local cache only.
func (s *Service) ObserveActiveTrip(fleetCode, driverID string) (<-chan *domain.Trip, func()) {
	return s.local.ObserveActiveTrip(fleetCode, driverID)
}

// ObserveLocationsForTrip is served from the local cache only.
func (s *Service) ObserveLocationsForTrip(tripID string) (<-chan []domain.TripLocation, func()) {
	return s.local.ObserveLocationsForTrip(tripID)
}
