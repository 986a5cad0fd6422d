package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"routesync/internal/domain/fleet"
	"routesync/internal/domain/user"
)

// FleetStore is the local mirror for fleets and member profiles.
type FleetStore struct {
	db *DB
}

func NewFleetStore(db *DB) *FleetStore {
	return &FleetStore{db: db}
}

func (s *FleetStore) UpsertFleet(ctx context.Context, f *fleet.Fleet) error {
	model := toFleetModel(f)
	err := s.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert fleet: %w", err)
	}
	return nil
}

func (s *FleetStore) GetFleet(ctx context.Context, code string) (*fleet.Fleet, error) {
	var model fleetModel
	err := s.db.DB.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fleet: %w", err)
	}

	return toFleetEntity(&model), nil
}

// DeleteFleet removes the fleet and, via the cascade, its member profiles.
func (s *FleetStore) DeleteFleet(ctx context.Context, code string) error {
	err := s.db.DB.WithContext(ctx).
		Where("code = ?", code).
		Delete(&fleetModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete fleet: %w", err)
	}
	return nil
}

func (s *FleetStore) UpsertProfile(ctx context.Context, p *user.UserProfile) error {
	model := toProfileModel(p)
	err := s.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}
	return nil
}

func (s *FleetStore) GetProfile(ctx context.Context, id string) (*user.UserProfile, error) {
	var model userProfileModel
	err := s.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return toProfileEntity(&model), nil
}
