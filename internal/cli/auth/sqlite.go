package auth

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// StoredValue is one persisted key within a namespace
type StoredValue struct {
	ID        string    `gorm:"primaryKey;type:varchar(26)"`
	Namespace string    `gorm:"not null;uniqueIndex:idx_namespace_name"`
	Name      string    `gorm:"not null;uniqueIndex:idx_namespace_name"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (v *StoredValue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = ulid.Make().String()
	}
	return nil
}

// SQLiteStorage persists values in a local SQLite file
type SQLiteStorage struct {
	db        *gorm.DB
	namespace string
}

// OpenSQLiteDB opens (creating if needed) the session database at path
func OpenSQLiteDB(path string) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stderr, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.AutoMigrate(&StoredValue{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session database: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage returns SQLite-backed storage for the given namespace
func NewSQLiteStorage(db *gorm.DB, namespace string) *SQLiteStorage {
	return &SQLiteStorage{db: db, namespace: namespace}
}

// Get retrieves a value, returning "" when it does not exist
func (s *SQLiteStorage) Get(key string) (string, error) {
	var row StoredValue
	err := s.db.Where("namespace = ? AND name = ?", s.namespace, key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load %s: %w", key, err)
	}
	return row.Value, nil
}

// Set inserts or replaces a value
func (s *SQLiteStorage) Set(key, value string) error {
	row := StoredValue{Namespace: s.namespace, Name: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Remove deletes a value; removing a missing key is not an error
func (s *SQLiteStorage) Remove(key string) error {
	err := s.db.Where("namespace = ? AND name = ?", s.namespace, key).Delete(&StoredValue{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
