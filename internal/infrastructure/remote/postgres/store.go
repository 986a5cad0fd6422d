package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"routesync/internal/domain/fleet"
	"routesync/internal/domain/trip"
	"routesync/internal/domain/user"
)

// Store implements the remote-store contracts for fleets, profiles and
// trips against the Postgres store of record.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

func (s *Store) PutFleet(ctx context.Context, f *fleet.Fleet) error {
	doc := &fleetDoc{
		Code:        f.Code,
		Name:        f.Name,
		CreatorName: f.CreatorName,
		CreatedAt:   f.CreatedAt,
	}

	// Document-set semantics: a colliding code is overwritten, last writer wins.
	err := s.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(doc).Error
	if err != nil {
		return fmt.Errorf("failed to put fleet: %w", err)
	}
	return nil
}

func (s *Store) GetFleet(ctx context.Context, code string) (*fleet.Fleet, error) {
	var doc fleetDoc
	err := s.db.DB.WithContext(ctx).
		Where("code = ?", code).
		First(&doc).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fleet.ErrFleetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fleet: %w", err)
	}

	return &fleet.Fleet{
		Code:        doc.Code,
		Name:        doc.Name,
		CreatorName: doc.CreatorName,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

func (s *Store) PutProfile(ctx context.Context, p *user.UserProfile) error {
	doc := &userProfileDoc{
		ID:        p.ID,
		FleetCode: p.FleetCode,
		Name:      p.Name,
		Role:      string(p.Role),
		Vehicle:   p.Vehicle,
	}

	err := s.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(doc).Error
	if err != nil {
		return fmt.Errorf("failed to put user profile: %w", err)
	}
	return nil
}

// NewTripID allocates the identity for a new trip document.
func (s *Store) NewTripID() string {
	return uuid.NewString()
}

func (s *Store) PutTrip(ctx context.Context, t *trip.Trip) error {
	doc := &tripDoc{
		TripID:                t.ID,
		FleetCode:             t.FleetCode,
		DriverID:              t.DriverID,
		DriverName:            t.DriverName,
		Vehicle:               t.Vehicle,
		StartedAt:             t.StartedAt,
		EndedAt:               t.EndedAt,
		IsActive:              t.IsActive,
		LastLat:               t.LastLat,
		LastLng:               t.LastLng,
		LastLocationTimestamp: t.LastLocationTimestamp,
	}

	err := s.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(doc).Error
	if err != nil {
		return fmt.Errorf("failed to put trip: %w", err)
	}
	return nil
}

func (s *Store) SetTripEnded(ctx context.Context, fleetCode, tripID string, endedAt int64) error {
	err := s.db.DB.WithContext(ctx).
		Model(&tripDoc{}).
		Where("fleet_code = ? AND trip_id = ?", fleetCode, tripID).
		Updates(map[string]interface{}{
			"is_active": false,
			"ended_at":  endedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to end trip: %w", err)
	}
	return nil
}

func (s *Store) SetLastLocation(ctx context.Context, fleetCode, tripID string, lat, lng float64, timestamp int64) error {
	err := s.db.DB.WithContext(ctx).
		Model(&tripDoc{}).
		Where("fleet_code = ? AND trip_id = ?", fleetCode, tripID).
		Updates(map[string]interface{}{
			"last_lat":                lat,
			"last_lng":                lng,
			"last_location_timestamp": timestamp,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set last location: %w", err)
	}
	return nil
}

func (s *Store) AddLocation(ctx context.Context, fleetCode string, loc *trip.TripLocation) error {
	doc := &tripLocationDoc{
		ID:        uuid.NewString(),
		FleetCode: fleetCode,
		TripID:    loc.TripID,
		Lat:       loc.Lat,
		Lng:       loc.Lng,
		Timestamp: loc.Timestamp,
	}

	if err := s.db.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to add trip location: %w", err)
	}
	return nil
}
