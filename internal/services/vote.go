package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interviewhub/internal/apperr"
	"interviewhub/internal/logger"
	"interviewhub/internal/models"

	"gorm.io/gorm"
)

type VoteInput struct {
	VoteType string `json:"vote_type" binding:"required,oneof=upvote downvote"`
}

type VoteAction string

const (
	VoteAdded   VoteAction = "added"
	VoteRemoved VoteAction = "removed"
	VoteUpdated VoteAction = "updated"
)

func (a VoteAction) Message() string {
	switch a {
	case VoteAdded:
		return "Vote added"
	case VoteRemoved:
		return "Vote removed"
	case VoteUpdated:
		return "Vote updated"
	}
	return ""
}

// VoteResult is the outcome of a toggle plus the experience's counts after it.
type VoteResult struct {
	Action VoteAction `json:"action"`
	Votes  VoteCounts `json:"votes"`
}

type VoteService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoteService(gdb *gorm.DB, baseLog *logger.Logger) *VoteService {
	return &VoteService{
		db:  gdb,
		log: baseLog.With("service", "VoteService"),
	}
}

// Toggle applies the vote state machine for (experience, user):
// no vote inserts, the same type removes, a different type switches.
func (s *VoteService) Toggle(ctx context.Context, experienceID, userID uint, in VoteInput) (*VoteResult, error) {
	in.VoteType = strings.ToLower(strings.TrimSpace(in.VoteType))
	if err := validate(&in); err != nil {
		return nil, err
	}
	voteType := models.VoteType(in.VoteType)

	ok, err := experienceExists(ctx, s.db, experienceID)
	if err != nil {
		return nil, apperr.Internal("Failed to process vote", fmt.Errorf("check experience %d: %w", experienceID, err))
	}
	if !ok {
		return nil, errExperienceNotFound
	}

	action, err := s.toggle(ctx, experienceID, userID, voteType)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent request inserted first; the retry sees its row
		action, err = s.toggle(ctx, experienceID, userID, voteType)
	}
	if err != nil {
		return nil, apperr.Internal("Failed to process vote", err)
	}

	counts, err := countVotes(ctx, s.db, experienceID)
	if err != nil {
		return nil, apperr.Internal("Failed to process vote", err)
	}

	s.log.Debug("Vote toggled", "experience_id", experienceID, "user_id", userID, "action", action)
	return &VoteResult{Action: action, Votes: counts}, nil
}

func (s *VoteService) toggle(ctx context.Context, experienceID, userID uint, voteType models.VoteType) (VoteAction, error) {
	var action VoteAction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Vote
		if err := tx.Where("experience_id = ? AND user_id = ?", experienceID, userID).
			Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("load vote: %w", err)
		}

		if len(existing) == 0 {
			vote := models.Vote{ExperienceID: experienceID, UserID: userID, VoteType: voteType}
			if err := tx.Omit("Experience", "User").Create(&vote).Error; err != nil {
				return fmt.Errorf("insert vote: %w", err)
			}
			action = VoteAdded
			return nil
		}

		current := existing[0]
		if current.VoteType == voteType {
			if err := tx.Delete(&models.Vote{}, current.ID).Error; err != nil {
				return fmt.Errorf("delete vote %d: %w", current.ID, err)
			}
			action = VoteRemoved
			return nil
		}

		if err := tx.Model(&models.Vote{}).Where("id = ?", current.ID).Update("vote_type", voteType).Error; err != nil {
			return fmt.Errorf("update vote %d: %w", current.ID, err)
		}
		action = VoteUpdated
		return nil
	})
	return action, err
}
