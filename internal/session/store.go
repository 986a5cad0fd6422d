package session

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"routesync/internal/domain/user"
	"routesync/internal/infrastructure/database/sqlite"
)

// Session is the persisted signed-in identity and fleet membership.
type Session struct {
	UserID      string
	FleetCode   string
	FleetName   string
	UserName    string
	VehicleName string
	Role        user.Role
}

type sessionModel struct {
	ID          int    `gorm:"column:id;primaryKey"`
	UserID      string `gorm:"column:user_id"`
	FleetCode   string `gorm:"column:fleet_code"`
	FleetName   string `gorm:"column:fleet_name"`
	UserName    string `gorm:"column:user_name"`
	VehicleName string `gorm:"column:vehicle_name"`
	Role        string `gorm:"column:role"`
}

func (sessionModel) TableName() string {
	return "session"
}

// The table holds at most one row.
const sessionRowID = 1

// Store persists the session in the local cache database.
type Store struct {
	db *sqlite.DB
}

func NewStore(db *sqlite.DB) (*Store, error) {
	if err := db.DB.AutoMigrate(&sessionModel{}); err != nil {
		return nil, fmt.Errorf("error migrating session schema: %w", err)
	}
	return &Store{db: db}, nil
}

// GetSession returns the stored session, or nil when there is none. A stored
// row missing any of user id, user name, fleet code or a parseable role is
// treated as no session.
func (s *Store) GetSession(ctx context.Context) (*Session, error) {
	var model sessionModel
	err := s.db.DB.WithContext(ctx).
		Where("id = ?", sessionRowID).
		First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if model.UserID == "" || model.UserName == "" || model.FleetCode == "" {
		return nil, nil
	}

	role, ok := user.ParseRole(model.Role)
	if !ok {
		return nil, nil
	}

	fleetName := model.FleetName
	if fleetName == "" {
		fleetName = "Fleet " + model.FleetCode
	}

	return &Session{
		UserID:      model.UserID,
		FleetCode:   model.FleetCode,
		FleetName:   fleetName,
		UserName:    model.UserName,
		VehicleName: model.VehicleName,
		Role:        role,
	}, nil
}

func (s *Store) SetSession(ctx context.Context, sess *Session) error {
	model := &sessionModel{
		ID:          sessionRowID,
		UserID:      sess.UserID,
		FleetCode:   sess.FleetCode,
		FleetName:   sess.FleetName,
		UserName:    sess.UserName,
		VehicleName: sess.VehicleName,
		Role:        string(sess.Role),
	}

	err := s.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	err := s.db.DB.WithContext(ctx).
		Where("id = ?", sessionRowID).
		Delete(&sessionModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
