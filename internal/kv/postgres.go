package kv

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ProgressEntry is the single-table schema behind the Postgres binding.
// Every stored value is a JSON document (seen-id lists, stat maps, attempt
// histories), so the column is jsonb and stays queryable server-side.
type ProgressEntry struct {
	Key   string         `gorm:"primaryKey;size:255"`
	Value datatypes.JSON `gorm:"type:jsonb;not null"`
}

func (ProgressEntry) TableName() string {
	return "progress_entries"
}

// PostgresStore binds Store to a Postgres table via GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to Postgres and migrates the progress table.
func NewPostgresStore(databaseURL string, verbose bool) (*PostgresStore, error) {
	logLevel := logger.Error
	if verbose {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&ProgressEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate progress table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var entry ProgressEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("postgres get %s: %w", key, err)
	}
	return string(entry.Value), nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	entry := ProgressEntry{Key: key, Value: datatypes.JSON(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&ProgressEntry{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
