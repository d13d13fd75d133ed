package services

import (
	"context"
	"time"

	"interviewhub/internal/logger"
	"interviewhub/internal/models"

	"gorm.io/gorm"
)

// ViewWindow is how long a (experience, ip) pair counts as one view.
const ViewWindow = 24 * time.Hour

// Viewer identifies who is reading. UserID is nil for anonymous readers.
type Viewer struct {
	UserID *uint
	IP     string
}

// Tracker records experience views and site visits. Every method is best
// effort: failures are logged and never returned to the request path.
type Tracker struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewTracker(gdb *gorm.DB, baseLog *logger.Logger) *Tracker {
	return &Tracker{
		db:  gdb,
		log: baseLog.With("service", "Tracker"),
		now: time.Now,
	}
}

// TrackView inserts a view unless the same IP already viewed the experience
// within ViewWindow.
func (t *Tracker) TrackView(ctx context.Context, experienceID uint, v Viewer) {
	if v.IP == "" {
		return
	}
	since := t.now().Add(-ViewWindow)

	var count int64
	err := t.db.WithContext(ctx).
		Model(&models.View{}).
		Where("experience_id = ? AND ip_address = ? AND created_at > ?", experienceID, v.IP, since).
		Count(&count).Error
	if err != nil {
		t.log.Warn("Error checking existing view", "experience_id", experienceID, "error", err)
		return
	}
	if count > 0 {
		return
	}

	view := models.View{
		ExperienceID: experienceID,
		UserID:       v.UserID,
		IPAddress:    v.IP,
		CreatedAt:    t.now(),
	}
	if err := t.db.WithContext(ctx).Create(&view).Error; err != nil {
		t.log.Warn("Error tracking view", "experience_id", experienceID, "error", err)
	}
}

// TrackVisit appends a website analytics row.
func (t *Tracker) TrackVisit(ctx context.Context, visit models.SiteVisit) {
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = t.now()
	}
	if err := t.db.WithContext(ctx).Create(&visit).Error; err != nil {
		t.log.Warn("Error tracking website analytics", "page_url", visit.PageURL, "error", err)
	}
}
