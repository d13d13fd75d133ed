package models

import (
	"time"
)

// User rows are owned by the auth service; this API only reads them.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FullName      string    `gorm:"not null" json:"full_name"`
	Email         string    `gorm:"uniqueIndex;not null" json:"-"`
	YearOfPassing *int      `json:"year_of_passing"`
	Branch        string    `gorm:"size:100" json:"branch"`
	Verified      bool      `gorm:"default:false" json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
