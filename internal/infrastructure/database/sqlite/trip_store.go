package sqlite

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"routesync/internal/domain/trip"
	"routesync/internal/logger"
)

// TripStore is the local mirror for trips and their path history, and the
// source of the reactive read subscriptions. Every successful write
// re-queries the affected snapshot and fans it out to matching subscribers.
type TripStore struct {
	db  *DB
	hub *hub
}

func NewTripStore(db *DB) *TripStore {
	return &TripStore{db: db, hub: newHub()}
}

func (s *TripStore) UpsertTrip(ctx context.Context, t *trip.Trip) error {
	model := toTripModel(t)
	err := s.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert trip: %w", err)
	}

	s.notifyActiveTrip(ctx, t.FleetCode, t.DriverID)
	return nil
}

func (s *TripStore) SetTripEnded(ctx context.Context, tripID string, endedAt int64) error {
	err := s.db.DB.WithContext(ctx).
		Model(&tripModel{}).
		Where("trip_id = ?", tripID).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  endedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update trip status: %w", err)
	}

	s.notifyForTrip(ctx, tripID)
	return nil
}

func (s *TripStore) SetLastLocation(ctx context.Context, tripID string, lat, lng float64, timestamp int64) error {
	err := s.db.DB.WithContext(ctx).
		Model(&tripModel{}).
		Where("trip_id = ?", tripID).
		Updates(map[string]interface{}{
			"last_lat":                lat,
			"last_lng":                lng,
			"last_location_timestamp": timestamp,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update last location: %w", err)
	}

	s.notifyForTrip(ctx, tripID)
	return nil
}

func (s *TripStore) UpsertLocation(ctx context.Context, loc *trip.TripLocation) error {
	model := toLocationModel(loc)
	err := s.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert trip location: %w", err)
	}

	s.notifyLocations(ctx, loc.TripID)
	return nil
}

func (s *TripStore) GetTrip(ctx context.Context, tripID string) (*trip.Trip, error) {
	var model tripModel
	err := s.db.DB.WithContext(ctx).
		Where("trip_id = ?", tripID).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, trip.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return toTripEntity(&model), nil
}

func (s *TripStore) ObserveActiveTrip(fleetCode, driverID string) (<-chan *trip.Trip, func()) {
	sub, cancel := s.hub.addTripSub(fleetCode, driverID)

	// Initial emission: current snapshot, nil when no active trip. Subscribers
	// may block on the first receive, so the emission happens even when the
	// snapshot query fails; the failure degrades to "no active trip".
	snapshot, err := s.queryActiveTrip(context.Background(), fleetCode, driverID)
	if err != nil {
		logger.Warn("Active trip snapshot query failed", zap.Error(err))
		snapshot = nil
	}
	pushTrip(sub.ch, snapshot)

	return sub.ch, cancel
}

func (s *TripStore) ObserveLocationsForTrip(tripID string) (<-chan []trip.TripLocation, func()) {
	sub, cancel := s.hub.addLocationSub(tripID)

	snapshot, err := s.queryLocations(context.Background(), tripID)
	if err != nil {
		logger.Warn("Location history snapshot query failed", zap.Error(err))
		snapshot = nil
	}
	pushLocations(sub.ch, snapshot)

	return sub.ch, cancel
}

func (s *TripStore) queryActiveTrip(ctx context.Context, fleetCode, driverID string) (*trip.Trip, error) {
	var model tripModel
	err := s.db.DB.WithContext(ctx).
		Where("fleet_code = ? AND driver_id = ? AND is_active = ?", fleetCode, driverID, true).
		Limit(1).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return toTripEntity(&model), nil
}

func (s *TripStore) queryLocations(ctx context.Context, tripID string) ([]trip.TripLocation, error) {
	var models []tripLocationModel
	err := s.db.DB.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("timestamp ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	locations := make([]trip.TripLocation, len(models))
	for i := range models {
		locations[i] = toLocationEntity(&models[i])
	}
	return locations, nil
}

func (s *TripStore) notifyActiveTrip(ctx context.Context, fleetCode, driverID string) {
	subs := s.hub.matchingTripSubs(fleetCode, driverID)
	if len(subs) == 0 {
		return
	}

	snapshot, err := s.queryActiveTrip(ctx, fleetCode, driverID)
	if err != nil {
		return
	}
	for _, sub := range subs {
		pushTrip(sub.ch, snapshot)
	}
}

// notifyForTrip resolves the trip row to find its fleet/driver pair before
// fanning out, since status and last-location updates address the trip id only.
func (s *TripStore) notifyForTrip(ctx context.Context, tripID string) {
	var model tripModel
	err := s.db.DB.WithContext(ctx).
		Where("trip_id = ?", tripID).
		First(&model).Error
	if err != nil {
		return
	}

	s.notifyActiveTrip(ctx, model.FleetCode, model.DriverID)
}

func (s *TripStore) notifyLocations(ctx context.Context, tripID string) {
	subs := s.hub.matchingLocationSubs(tripID)
	if len(subs) == 0 {
		return
	}

	snapshot, err := s.queryLocations(ctx, tripID)
	if err != nil {
		return
	}
	for _, sub := range subs {
		pushLocations(sub.ch, snapshot)
	}
}
