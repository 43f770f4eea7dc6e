package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/okian/skillsync/pkg/logger"
)

// Storage drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DBOption customizes Open.
type DBOption func(*gorm.Config)

// WithSilentSQL disables gorm's query logging.
func WithSilentSQL() DBOption {
	return func(c *gorm.Config) {
		c.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	}
}

// WithSQLLogger sends failed and slow statements to l.
func WithSQLLogger(l logger.Logger) DBOption {
	return func(c *gorm.Config) {
		if l != nil {
			c.Logger = newSQLLogger(l)
		}
	}
}

// Open connects to a SQL database for the given driver.
func Open(driver, dsn string, opts ...DBOption) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   newSQLLogger(logger.Discard()),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// A single connection keeps in-memory databases alive and serializes writers.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates the recommendation table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&recommendationRow{}); err != nil {
		return fmt.Errorf("migrate recommendations: %w", err)
	}
	return nil
}
