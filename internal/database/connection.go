package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookkeeper/internal/models"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Initialize opens the configured backend. The schema is left to the
// migrations package.
// A sqlite file is the default desktop backend; postgres is used when the
// ledger is served for a shop with a central database.
func Initialize(driver, databaseURL string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	dialector, err := Dialector(driver, databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Dialector picks the gorm driver for the configured backend.
func Dialector(driver, databaseURL string) (gorm.Dialector, error) {
	switch strings.ToLower(driver) {
	case "", DriverSQLite:
		return sqlite.Open(sqliteDSN(databaseURL)), nil
	case DriverPostgres:
		return postgres.Open(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// sqliteDSN enables write-ahead logging and foreign keys for file databases.
func sqliteDSN(path string) string {
	if path == "" {
		path = "bookkeeper.db"
	}
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
