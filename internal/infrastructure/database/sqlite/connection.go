package sqlite

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"routesync/internal/logger"
)

type DB struct {
	*gorm.DB
}

// Open opens (or creates) the embedded cache database at path and migrates
// the mirror schema. Pass ":memory:" for an in-process throwaway store.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening cache database: %w", err)
	}

	// An in-memory database exists per connection; pin the pool to one so the
	// migrated schema is the one every query sees.
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("error getting sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&fleetModel{},
		&userProfileModel{},
		&tripModel{},
		&tripLocationModel{},
	); err != nil {
		return nil, fmt.Errorf("error migrating cache schema: %w", err)
	}

	logger.Info("Local cache opened", zap.String("path", path))

	return &DB{DB: db}, nil
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Health() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
