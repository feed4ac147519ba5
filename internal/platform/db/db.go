package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB wraps gorm connectivity. Keep transaction helpers behind module
// repositories; this package only opens and closes the handle.
type DB struct {
	Gorm *gorm.DB
}

// Connect opens postgres when a DSN is given, else falls back to the pure-Go
// sqlite driver at path. One of the two must be set.
func Connect(postgresDSN string, sqlitePath string) (*DB, error) {
	switch {
	case postgresDSN != "":
		return connectPostgres(postgresDSN)
	case sqlitePath != "":
		return connectSQLite(sqlitePath)
	default:
		return nil, errors.New("either a postgres dsn or a sqlite path is required")
	}
}

func connectPostgres(dsn string) (*DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &DB{Gorm: db}, nil
}

func connectSQLite(path string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm sqlite: %w", err)
	}
	return &DB{Gorm: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Gorm == nil {
		return nil
	}
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
