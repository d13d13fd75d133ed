package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interviewhub/internal/apperr"
	"interviewhub/internal/logger"
	"interviewhub/internal/models"
	"interviewhub/internal/utils"

	"gorm.io/gorm"
)

type CommentInput struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// CommentView is a comment with its author's display name.
type CommentView struct {
	ID           uint      `json:"id"`
	ExperienceID uint      `json:"experience_id"`
	UserID       uint      `json:"user_id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UserName     string    `json:"user_name"`
}

type CommentService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentService(gdb *gorm.DB, baseLog *logger.Logger) *CommentService {
	return &CommentService{
		db:  gdb,
		log: baseLog.With("service", "CommentService"),
	}
}

// Create stores a plain-text comment. Markup is stripped before the
// emptiness check so "<b></b>" counts as blank.
func (s *CommentService) Create(ctx context.Context, experienceID, userID uint, in CommentInput) (*CommentView, error) {
	in.Content = strings.TrimSpace(utils.StripHTML(in.Content))
	if err := validate(&in); err != nil {
		return nil, err
	}

	var exp models.Experience
	err := s.db.WithContext(ctx).Select("id", "user_id", "is_anonymous").Limit(1).Find(&exp, experienceID).Error
	if err != nil {
		return nil, apperr.Internal("Failed to add comment", fmt.Errorf("load experience %d: %w", experienceID, err))
	}
	if exp.ID == 0 {
		return nil, errExperienceNotFound
	}

	comment := models.Comment{
		ExperienceID: experienceID,
		UserID:       userID,
		Content:      in.Content,
	}
	if err := s.db.WithContext(ctx).Omit("Experience", "User").Create(&comment).Error; err != nil {
		return nil, apperr.Internal("Failed to add comment", fmt.Errorf("insert comment: %w", err))
	}

	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "full_name").Take(&user, userID).Error; err != nil {
		return nil, apperr.Internal("Failed to add comment", fmt.Errorf("load user %d: %w", userID, err))
	}

	name := user.FullName
	if exp.IsAnonymous && exp.UserID == userID {
		name = anonymousName
	}

	s.log.Info("Comment added", "experience_id", experienceID, "comment_id", comment.ID, "user_id", userID)
	return &CommentView{
		ID:           comment.ID,
		ExperienceID: comment.ExperienceID,
		UserID:       comment.UserID,
		Content:      comment.Content,
		CreatedAt:    comment.CreatedAt,
		UserName:     name,
	}, nil
}

// loadComments lists an experience's comments newest first. The author of an
// anonymous experience stays anonymous in their own comments.
func loadComments(ctx context.Context, gdb *gorm.DB, exp ExperienceView) ([]CommentView, error) {
	var anonymousUser uint
	if exp.IsAnonymous {
		anonymousUser = exp.UserID
	}

	comments := []CommentView{}
	err := gdb.WithContext(ctx).
		Table("interview_comments AS ic").
		Select(`ic.id, ic.experience_id, ic.user_id, ic.content, ic.created_at,
			CASE WHEN ic.user_id = ? THEN ? ELSE u.full_name END AS user_name`,
			anonymousUser, anonymousName).
		Joins("JOIN users u ON u.id = ic.user_id").
		Where("ic.experience_id = ?", exp.ID).
		Order("ic.created_at DESC, ic.id DESC").
		Scan(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	if comments == nil {
		comments = []CommentView{}
	}
	return comments, nil
}
