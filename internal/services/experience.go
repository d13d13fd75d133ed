package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"interviewhub/internal/apperr"
	"interviewhub/internal/logger"
	"interviewhub/internal/models"
	"interviewhub/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50

	anonymousName = "Anonymous"
)

var errExperienceNotFound = apperr.NotFound("Experience not found")

type ExperienceService struct {
	db      *gorm.DB
	log     *logger.Logger
	tracker *Tracker
	now     func() time.Time
}

func NewExperienceService(gdb *gorm.DB, baseLog *logger.Logger, tracker *Tracker) *ExperienceService {
	return &ExperienceService{
		db:      gdb,
		log:     baseLog.With("service", "ExperienceService"),
		tracker: tracker,
		now:     time.Now,
	}
}

// ListFilter is the parsed query string of GET /experiences.
type ListFilter struct {
	Search  string
	Result  string
	Company string
	Page    int
	Limit   int
}

func (f *ListFilter) normalize() {
	f.Search = strings.TrimSpace(f.Search)
	f.Company = strings.TrimSpace(f.Company)
	f.Result = strings.ToLower(strings.TrimSpace(f.Result))
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
}

func (f ListFilter) offset() int {
	return (f.Page - 1) * f.Limit
}

// ExperienceView is one experience row joined with its author and company.
// Counts are filled only by the listing query.
type ExperienceView struct {
	ID               uint      `json:"id"`
	UserID           uint      `json:"user_id"`
	CompanyID        uint      `json:"company_id"`
	Position         string    `json:"position"`
	ExperienceLevel  string    `json:"experience_level"`
	ExperienceYears  int       `json:"experience_years"`
	InterviewDate    time.Time `json:"interview_date"`
	Result           string    `json:"result"`
	OverallRating    int       `json:"overall_rating"`
	DifficultyLevel  int       `json:"difficulty_level"`
	InterviewProcess string    `json:"interview_process"`
	PreparationTime  string    `json:"preparation_time"`
	Advice           string    `json:"advice"`
	SalaryOffered    string    `json:"salary_offered"`
	IsAnonymous      bool      `json:"is_anonymous"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	UserName        string `json:"user_name"`
	YearOfPassing   *int   `json:"year_of_passing"`
	Branch          string `json:"branch"`
	CompanyName     string `json:"company_name"`
	CompanyLogo     string `json:"company_logo"`
	CompanyWebsite  string `json:"company_website,omitempty"`
	CompanyIndustry string `json:"company_industry"`

	VoteCount    int64 `json:"-"`
	CommentCount int64 `json:"-"`
	ViewCount    int64 `json:"-"`
}

type AuthorView struct {
	ID            uint   `json:"id"`
	FullName      string `json:"full_name"`
	YearOfPassing *int   `json:"year_of_passing"`
	Branch        string `json:"branch"`
}

type CompanyView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	LogoURL  string `json:"logo_url"`
	Industry string `json:"industry"`
}

type Counts struct {
	Votes    int64 `json:"votes"`
	Comments int64 `json:"comments"`
	Views    int64 `json:"views"`
}

type ExperienceSummary struct {
	ExperienceView
	User    AuthorView     `json:"user"`
	Company CompanyView    `json:"company"`
	Count   Counts         `json:"_count"`
	Rounds  []models.Round `json:"rounds"`
}

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"hasMore"`
	Total   int64 `json:"total"`
}

type ListResult struct {
	Experiences []ExperienceSummary `json:"experiences"`
	Pagination  Pagination          `json:"pagination"`
}

type VoteCounts struct {
	Upvote   int64 `json:"upvote"`
	Downvote int64 `json:"downvote"`
}

type ExperienceDetail struct {
	ExperienceView
	InterviewProcessHTML string         `json:"interview_process_html"`
	AdviceHTML           string         `json:"advice_html"`
	Rounds               []models.Round `json:"rounds"`
	Comments             []CommentView  `json:"comments"`
	Votes                VoteCounts     `json:"votes"`
}

const experienceColumns = `e.id, e.user_id, e.company_id, e.position, e.experience_level, e.experience_years,
	e.interview_date, e.result, e.overall_rating, e.difficulty_level, e.interview_process,
	e.preparation_time, e.advice, e.salary_offered, e.is_anonymous, e.created_at, e.updated_at,
	CASE WHEN e.is_anonymous THEN 'Anonymous' ELSE u.full_name END AS user_name,
	u.year_of_passing, u.branch,
	c.name AS company_name, c.logo_url AS company_logo, c.website AS company_website, c.industry AS company_industry`

// likePattern lower-cases s and escapes LIKE wildcards so user input only
// ever matches as a literal substring.
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

func (s *ExperienceService) baseQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("interview_experiences AS e").
		Joins("JOIN users u ON u.id = e.user_id").
		Joins("JOIN companies c ON c.id = e.company_id")
}

func (s *ExperienceService) filtered(ctx context.Context, f ListFilter) *gorm.DB {
	q := s.baseQuery(ctx)
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(`(LOWER(c.name) LIKE ? ESCAPE '\' OR LOWER(e.position) LIKE ? ESCAPE '\'
			OR LOWER(u.full_name) LIKE ? ESCAPE '\')`, p, p, p)
	}
	if f.Result != "" && f.Result != "all" {
		q = q.Where("e.result = ?", f.Result)
	}
	if f.Company != "" {
		q = q.Where(`LOWER(c.name) LIKE ? ESCAPE '\'`, likePattern(f.Company))
	}
	return q
}

// List returns one page of experiences, newest first, with vote, comment and
// view counts.
func (s *ExperienceService) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	f.normalize()

	var total int64
	if err := s.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch experiences", fmt.Errorf("count experiences: %w", err))
	}

	var rows []ExperienceView
	err := s.filtered(ctx, f).
		Select(experienceColumns+`,
			COALESCE(vc.upvote_count, 0) AS vote_count,
			COALESCE(cc.comment_count, 0) AS comment_count,
			COALESCE(wc.view_count, 0) AS view_count`).
		Joins(`LEFT JOIN (SELECT experience_id, COUNT(*) AS upvote_count FROM interview_votes
			WHERE vote_type = ? GROUP BY experience_id) vc ON vc.experience_id = e.id`, models.VoteUp).
		Joins(`LEFT JOIN (SELECT experience_id, COUNT(*) AS comment_count FROM interview_comments
			GROUP BY experience_id) cc ON cc.experience_id = e.id`).
		Joins(`LEFT JOIN (SELECT experience_id, COUNT(*) AS view_count FROM interview_views
			GROUP BY experience_id) wc ON wc.experience_id = e.id`).
		Order("e.created_at DESC, e.id DESC").
		Limit(f.Limit).
		Offset(f.offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("Failed to fetch experiences", fmt.Errorf("list experiences: %w", err))
	}

	out := make([]ExperienceSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExperienceSummary{
			ExperienceView: r,
			User: AuthorView{
				ID:            r.UserID,
				FullName:      r.UserName,
				YearOfPassing: r.YearOfPassing,
				Branch:        r.Branch,
			},
			Company: CompanyView{
				ID:       r.CompanyID,
				Name:     r.CompanyName,
				LogoURL:  r.CompanyLogo,
				Industry: r.CompanyIndustry,
			},
			Count: Counts{
				Votes:    r.VoteCount,
				Comments: r.CommentCount,
				Views:    r.ViewCount,
			},
			Rounds: []models.Round{},
		})
	}

	return &ListResult{
		Experiences: out,
		Pagination: Pagination{
			Page:    f.Page,
			Limit:   f.Limit,
			HasMore: int64(f.offset()+len(rows)) < total,
			Total:   total,
		},
	}, nil
}

// Get loads one experience with rounds, comments and vote counts, recording a
// view for the reader first.
func (s *ExperienceService) Get(ctx context.Context, id uint, viewer Viewer) (*ExperienceDetail, error) {
	var rows []ExperienceView
	err := s.baseQuery(ctx).
		Select(experienceColumns).
		Where("e.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("Failed to fetch experience", fmt.Errorf("load experience %d: %w", id, err))
	}
	if len(rows) == 0 {
		return nil, errExperienceNotFound
	}
	exp := rows[0]

	s.tracker.TrackView(ctx, id, viewer)

	rounds, err := s.loadRounds(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch experience", err)
	}
	comments, err := loadComments(ctx, s.db, exp)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch experience", err)
	}
	votes, err := countVotes(ctx, s.db, id)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch experience", err)
	}

	return &ExperienceDetail{
		ExperienceView:       exp,
		InterviewProcessHTML: utils.RenderMarkdown(exp.InterviewProcess),
		AdviceHTML:           utils.RenderMarkdown(exp.Advice),
		Rounds:               rounds,
		Comments:             comments,
		Votes:                votes,
	}, nil
}

func (s *ExperienceService) loadRounds(ctx context.Context, experienceID uint) ([]models.Round, error) {
	var rounds []models.Round
	err := s.db.WithContext(ctx).
		Where("experience_id = ?", experienceID).
		Preload("CodingQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("CodingQuestions.PlatformLinks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Order("round_number ASC, id ASC").
		Find(&rounds).Error
	if err != nil {
		return nil, fmt.Errorf("load rounds: %w", err)
	}
	return normalizeRounds(rounds), nil
}

// normalizeRounds replaces nil slices so clients always get [] rather than null.
func normalizeRounds(rounds []models.Round) []models.Round {
	if rounds == nil {
		return []models.Round{}
	}
	for i := range rounds {
		if rounds[i].CodingQuestions == nil {
			rounds[i].CodingQuestions = []models.CodingQuestion{}
		}
		for j := range rounds[i].CodingQuestions {
			q := &rounds[i].CodingQuestions[j]
			if q.Topics == nil {
				q.Topics = []string{}
			}
			if q.PlatformLinks == nil {
				q.PlatformLinks = []models.PlatformLink{}
			}
		}
	}
	return rounds
}

func countVotes(ctx context.Context, gdb *gorm.DB, experienceID uint) (VoteCounts, error) {
	var rows []struct {
		VoteType models.VoteType
		Count    int64
	}
	err := gdb.WithContext(ctx).
		Model(&models.Vote{}).
		Select("vote_type, COUNT(*) AS count").
		Where("experience_id = ?", experienceID).
		Group("vote_type").
		Scan(&rows).Error
	if err != nil {
		return VoteCounts{}, fmt.Errorf("count votes: %w", err)
	}

	var counts VoteCounts
	for _, r := range rows {
		switch r.VoteType {
		case models.VoteUp:
			counts.Upvote = r.Count
		case models.VoteDown:
			counts.Downvote = r.Count
		}
	}
	return counts, nil
}

func experienceExists(ctx context.Context, gdb *gorm.DB, id uint) (bool, error) {
	var count int64
	err := gdb.WithContext(ctx).Model(&models.Experience{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create validates in and writes the experience and its nested rounds,
// coding questions and platform links in one transaction.
func (s *ExperienceService) Create(ctx context.Context, userID uint, in CreateExperienceInput) (*models.Experience, error) {
	in.normalize()
	if err := validate(&in); err != nil {
		return nil, err
	}
	interviewDate, err := parseInterviewDate(in.InterviewDate, s.now())
	if err != nil {
		return nil, err
	}

	var company models.Company
	if err := s.db.WithContext(ctx).Select("id").Take(&company, uint(in.CompanyID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("Invalid company ID")
		}
		return nil, apperr.Internal("Failed to create experience", fmt.Errorf("check company: %w", err))
	}

	exp := in.toModel(userID, interviewDate)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(exp).Error; err != nil {
			return fmt.Errorf("insert experience: %w", err)
		}

		exp.Rounds = make([]models.Round, 0, len(in.Rounds))
		for i, ri := range in.Rounds {
			round := ri.toModel(exp.ID, i)
			if err := tx.Omit(clause.Associations).Create(&round).Error; err != nil {
				return fmt.Errorf("insert round %d: %w", round.RoundNumber, err)
			}

			round.CodingQuestions = make([]models.CodingQuestion, 0, len(ri.CodingQuestions))
			for _, qi := range ri.CodingQuestions {
				question := qi.toModel(round.ID)
				if err := tx.Omit(clause.Associations).Create(&question).Error; err != nil {
					return fmt.Errorf("insert coding question %q: %w", question.Title, err)
				}

				question.PlatformLinks = make([]models.PlatformLink, 0, len(qi.PlatformLinks))
				for _, li := range qi.PlatformLinks {
					link := li.toModel(question.ID)
					if err := tx.Omit(clause.Associations).Create(&link).Error; err != nil {
						return fmt.Errorf("insert platform link %s: %w", link.URL, err)
					}
					question.PlatformLinks = append(question.PlatformLinks, link)
				}
				round.CodingQuestions = append(round.CodingQuestions, question)
			}
			exp.Rounds = append(exp.Rounds, round)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal("Failed to create experience", err)
	}

	s.log.Info("Experience created", "experience_id", exp.ID, "user_id", userID, "rounds", len(exp.Rounds))
	return exp, nil
}
