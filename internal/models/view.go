package models

import (
	"time"
)

// View is one deduplicated read of an experience. UserID is set when the
// reader was authenticated.
type View struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ExperienceID uint       `gorm:"not null;index:idx_view_experience_ip" json:"experience_id"`
	Experience   Experience `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID       *uint      `gorm:"index" json:"user_id"`
	IPAddress    string     `gorm:"size:64;not null;index:idx_view_experience_ip" json:"ip_address"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
}

func (View) TableName() string {
	return "interview_views"
}

// SiteVisit 记录列表页访问 (website analytics)
type SiteVisit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	IPAddress string    `gorm:"size:64" json:"ip_address"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`
	PageURL   string    `gorm:"type:text" json:"page_url"`
	Referrer  string    `gorm:"type:text" json:"referrer"`
	SessionID string    `gorm:"size:64;index" json:"session_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (SiteVisit) TableName() string {
	return "website_analytics"
}
