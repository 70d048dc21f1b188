package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStorage implements fiber.Storage on top of the sessions table so
// login state survives restarts and is shared between instances.
type SessionStorage struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionStorage(db *gorm.DB) *SessionStorage {
	return &SessionStorage{db: db, now: time.Now}
}

// Get returns nil, nil for missing or expired keys.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var row models.Session
	err := s.db.Where(&models.Session{Key: key}).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if row.Expires != 0 && row.Expires <= s.now().Unix() {
		return nil, nil
	}
	return row.Data, nil
}

// Set stores val under key. A zero exp never expires.
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	row := models.Session{Key: key, Data: val}
	if exp > 0 {
		row.Expires = s.now().Add(exp).Unix()
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	if err := s.db.Where(&models.Session{Key: key}).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Reset() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

func (s *SessionStorage) Close() error {
	return nil
}

// GC removes expired rows and reports how many were deleted.
func (s *SessionStorage) GC() (int64, error) {
	result := s.db.Where("expires <> 0 AND expires <= ?", s.now().Unix()).Delete(&models.Session{})
	if result.Error != nil {
		return 0, fmt.Errorf("session gc: %w", result.Error)
	}
	return result.RowsAffected, nil
}
