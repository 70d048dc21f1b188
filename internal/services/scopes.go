package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotOwner     = errors.New("record belongs to another user")
	ErrNameRequired = errors.New("name is required")
	ErrNameInvalid  = errors.New("name must not contain '/'")
)

// OwnedBy returns a GORM scope that filters by user_id.
func OwnedBy(userID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// Except returns a GORM scope that excludes one primary key. A zero id
// excludes nothing.
func Except(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == 0 {
			return db
		}
		return db.Where("id <> ?", id)
	}
}

// cleanName trims a submitted record name and rejects empty names or names
// that cannot be used as a path segment.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if strings.Contains(name, "/") {
		return "", ErrNameInvalid
	}
	return name, nil
}

func checkOwner(ownerID, actorID uint) error {
	if actorID == 0 || ownerID != actorID {
		return ErrNotOwner
	}
	return nil
}
