package models

// Session is a row of the server-side session store. Expires is a unix
// timestamp; zero never expires.
type Session struct {
	Key     string `gorm:"primaryKey;size:64"`
	Data    []byte `gorm:"not null"`
	Expires int64  `gorm:"not null;default:0;index"`
}
