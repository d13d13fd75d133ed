package models

import (
	"time"
)

type VoteType string

const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

// Vote is unique per (experience, user); the toggle logic in services relies
// on the composite index to catch concurrent inserts.
type Vote struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ExperienceID uint       `gorm:"not null;uniqueIndex:idx_vote_experience_user" json:"experience_id"`
	Experience   Experience `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID       uint       `gorm:"not null;index;uniqueIndex:idx_vote_experience_user" json:"user_id"`
	User         User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	VoteType     VoteType   `gorm:"type:varchar(10);not null" json:"vote_type"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Vote) TableName() string {
	return "interview_votes"
}
