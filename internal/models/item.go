package models

import "time"

// DateLayout is the wire and form format of Item.DateCreated.
const DateLayout = "2006-01-02"

// Item belongs to exactly one category and one user. (CategoryID, Name) is unique.
type Item struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:250;not null;uniqueIndex:idx_items_category_name" json:"name"`
	CategoryID  uint      `gorm:"not null;uniqueIndex:idx_items_category_name" json:"cat_id"`
	Category    Category  `gorm:"foreignKey:CategoryID" json:"-"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
	Picture     string    `gorm:"size:255" json:"picture"`
	Description string    `gorm:"type:text" json:"description"`
	DateCreated time.Time `gorm:"type:date;index" json:"date_created"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Describe returns "Name (Category)". Category must be loaded.
func (i *Item) Describe() string {
	return i.Name + " (" + i.Category.Name + ")"
}

// Day truncates t to a calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
