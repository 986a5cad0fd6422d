package sqlite

import (
	"routesync/internal/domain/fleet"
	"routesync/internal/domain/trip"
	"routesync/internal/domain/user"
)

type fleetModel struct {
	Code        string `gorm:"column:code;primaryKey"`
	Name        string `gorm:"column:name"`
	CreatorName string `gorm:"column:creator_name"`
	CreatedAt   int64  `gorm:"column:created_at"`

	Profiles []userProfileModel `gorm:"foreignKey:FleetCode;references:Code;constraint:OnDelete:CASCADE"`
}

func (fleetModel) TableName() string {
	return "fleets"
}

type userProfileModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name"`
	FleetCode string `gorm:"column:fleet_code;index"`
	Role      string `gorm:"column:role"`
	Vehicle   string `gorm:"column:vehicle"`
}

func (userProfileModel) TableName() string {
	return "user_profiles"
}

type tripModel struct {
	TripID                string   `gorm:"column:trip_id;primaryKey"`
	FleetCode             string   `gorm:"column:fleet_code;index"`
	DriverID              string   `gorm:"column:driver_id;index"`
	DriverName            string   `gorm:"column:driver_name"`
	Vehicle               string   `gorm:"column:vehicle"`
	StartedAt             int64    `gorm:"column:started_at"`
	EndedAt               *int64   `gorm:"column:ended_at"`
	IsActive              bool     `gorm:"column:is_active"`
	LastLat               *float64 `gorm:"column:last_lat"`
	LastLng               *float64 `gorm:"column:last_lng"`
	LastLocationTimestamp *int64   `gorm:"column:last_location_timestamp"`
}

func (tripModel) TableName() string {
	return "trips"
}

type tripLocationModel struct {
	TripID    string  `gorm:"column:trip_id;primaryKey;index"`
	Timestamp int64   `gorm:"column:timestamp;primaryKey"`
	Lat       float64 `gorm:"column:lat"`
	Lng       float64 `gorm:"column:lng"`
}

func (tripLocationModel) TableName() string {
	return "trip_locations"
}

func toFleetModel(f *fleet.Fleet) *fleetModel {
	return &fleetModel{
		Code:        f.Code,
		Name:        f.Name,
		CreatorName: f.CreatorName,
		CreatedAt:   f.CreatedAt,
	}
}

func toFleetEntity(m *fleetModel) *fleet.Fleet {
	return &fleet.Fleet{
		Code:        m.Code,
		Name:        m.Name,
		CreatorName: m.CreatorName,
		CreatedAt:   m.CreatedAt,
	}
}

func toProfileModel(p *user.UserProfile) *userProfileModel {
	return &userProfileModel{
		ID:        p.ID,
		Name:      p.Name,
		FleetCode: p.FleetCode,
		Role:      string(p.Role),
		Vehicle:   p.Vehicle,
	}
}

func toProfileEntity(m *userProfileModel) *user.UserProfile {
	role, _ := user.ParseRole(m.Role)
	return &user.UserProfile{
		ID:        m.ID,
		Name:      m.Name,
		FleetCode: m.FleetCode,
		Role:      role,
		Vehicle:   m.Vehicle,
	}
}

func toTripModel(t *trip.Trip) *tripModel {
	return &tripModel{
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
}

func toTripEntity(m *tripModel) *trip.Trip {
	return &trip.Trip{
		ID:                    m.TripID,
		FleetCode:             m.FleetCode,
		DriverID:              m.DriverID,
		DriverName:            m.DriverName,
		Vehicle:               m.Vehicle,
		StartedAt:             m.StartedAt,
		EndedAt:               m.EndedAt,
		IsActive:              m.IsActive,
		LastLat:               m.LastLat,
		LastLng:               m.LastLng,
		LastLocationTimestamp: m.LastLocationTimestamp,
	}
}

func toLocationModel(l *trip.TripLocation) *tripLocationModel {
	return &tripLocationModel{
		TripID:    l.TripID,
		Timestamp: l.Timestamp,
		Lat:       l.Lat,
		Lng:       l.Lng,
	}
}

func toLocationEntity(m *tripLocationModel) trip.TripLocation {
	return trip.TripLocation{
		TripID:    m.TripID,
		Timestamp: m.Timestamp,
		Lat:       m.Lat,
		Lng:       m.Lng,
	}
}
