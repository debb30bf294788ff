package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the store described by the given configuration.
// SQLITE_PATH selects the embedded single-writer sqlite store (the default);
// setting DATABASE_URL switches to postgres. The handle is pooled by
// database/sql underneath, so one connection factory call serves the whole
// process lifetime.
func ConnectDatabase(cfg *Config) error {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var err error
	if cfg.UsesPostgres() {
		DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	} else {
		DB, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if !cfg.UsesPostgres() {
		// sqlite serializes writers itself; a single open connection keeps
		// "database is locked" errors out of concurrent request handling
		sqlDB, err := DB.DB()
		if err != nil {
			return fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
