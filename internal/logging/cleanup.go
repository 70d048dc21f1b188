package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/catalog/internal/models"
	"github.com/ahmetcoskunkizilkaya/catalog/internal/scheduler"
	"gorm.io/gorm"
)

// Cleanup deletes system_logs older than retention.
func Cleanup(db *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ScheduleCleanup registers a daily Cleanup run on s.
func ScheduleCleanup(s *scheduler.Scheduler, db *gorm.DB, retention time.Duration) error {
	_, err := s.Daily("log_cleanup", func() error {
		deleted, err := Cleanup(db, retention)
		if err != nil {
			return err
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
		return nil
	})
	return err
}
