package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"tg-autodelete/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	// DB is the long-lived database connection owned by the bot process.
	// The cleanup process does not use it; it opens its own handle via Open
	// and releases it when the cycle finishes.
	DB *gorm.DB
)

// Open opens a connection to the SQLite database file. The busy timeout
// makes a second writer wait briefly instead of failing when the bot and
// the cleanup process touch the file at the same time.
func Open(cfg *config.Config) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", cfg.Database.Path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: NewGormLogger(cfg.Logger.Level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	// SQLite allows a single writer; keep the pool small.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Close releases the underlying connection of a handle returned by Open.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

// Initialize sets up the global database connection based on configuration
func Initialize(cfg *config.Config) error {
	log.Printf("Connecting to database: %s", cfg.Database.Path)

	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db

	log.Printf("Database connection established successfully")
	return nil
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
