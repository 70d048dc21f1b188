package models

import "time"

// User is a catalog member. Records are created on first login and found
// by email afterwards.
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:250;not null" json:"name"`
	Email      string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Picture    string     `gorm:"size:255;not null;default:''" json:"picture"`
	Categories []Category `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items      []Item     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
