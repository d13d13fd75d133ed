package models

import (
	"time"
)

type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	LogoURL   string    `json:"logo_url"`
	Website   string    `json:"website"`
	Industry  string    `gorm:"size:100" json:"industry"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
