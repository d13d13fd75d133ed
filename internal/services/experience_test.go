package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"interviewhub/internal/apperr"
	"interviewhub/internal/db/dbtest"
	"interviewhub/internal/logger"
	"interviewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func newExperienceService(gdb *gorm.DB) *ExperienceService {
	return NewExperienceService(gdb, logger.Nop(), NewTracker(gdb, logger.Nop()))
}

func seedExperience(t *testing.T, gdb *gorm.DB, userID, companyID uint, position string, anonymous bool) *models.Experience {
	t.Helper()
	exp := &models.Experience{
		UserID:           userID,
		CompanyID:        companyID,
		Position:         position,
		ExperienceLevel:  models.LevelFresher,
		InterviewDate:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Result:           models.ResultSelected,
		OverallRating:    4,
		DifficultyLevel:  3,
		InterviewProcess: "Online test, then two technical rounds.",
		Advice:           "Practice graphs.",
		IsAnonymous:      anonymous,
	}
	require.NoError(t, gdb.Omit(clause.Associations).Create(exp).Error)
	return exp
}

func twoRoundInput(companyID uint) CreateExperienceInput {
	round := func(kind, title, url string) RoundInput {
		return RoundInput{
			RoundType:  kind,
			Difficulty: 3,
			Result:     "passed",
			CodingQuestions: []QuestionInput{{
				Title:      title,
				Difficulty: "medium",
				Topics:     []string{"arrays", " Arrays ", "hashing", ""},
				PlatformLinks: []LinkInput{{
					Platform: "leetcode",
					URL:      url,
				}},
			}},
		}
	}
	return CreateExperienceInput{
		CompanyID:        ID(companyID),
		Position:         "  Software Engineer ",
		InterviewDate:    "2025-02-10",
		Result:           "selected",
		OverallRating:    5,
		DifficultyLevel:  4,
		InterviewProcess: "Two coding rounds.",
		Advice:           "Talk through your approach.",
		Rounds: []RoundInput{
			round("coding", "Two Sum", "https://leetcode.com/problems/two-sum/"),
			round("technical", "LRU Cache", "https://leetcode.com/problems/lru-cache/"),
		},
	}
}

func TestCreateAndGetNestedRounds(t *testing.T) {
	gdb := dbtest.Open(t)
	user := dbtest.CreateUser(t, gdb, "Asha Rao")
	company := dbtest.CreateCompany(t, gdb, "Acme")
	svc := newExperienceService(gdb)
	ctx := context.Background()

	exp, err := svc.Create(ctx, user.ID, twoRoundInput(company.ID))
	require.NoError(t, err)
	assert.Equal(t, "Software Engineer", exp.Position)
	assert.Equal(t, models.LevelFresher, exp.ExperienceLevel)
	require.Len(t, exp.Rounds, 2)
	assert.Equal(t, 1, exp.Rounds[0].RoundNumber)
	assert.Equal(t, 2, exp.Rounds[1].RoundNumber)

	detail, err := svc.Get(ctx, exp.ID, Viewer{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", detail.UserName)
	assert.Equal(t, "Acme", detail.CompanyName)
	require.Len(t, detail.Rounds, 2)
	for i, r := range detail.Rounds {
		assert.Equal(t, i+1, r.RoundNumber)
		require.Len(t, r.CodingQuestions, 1)
		require.Len(t, r.CodingQuestions[0].PlatformLinks, 1)
		assert.Equal(t, []string{"arrays", "hashing"}, []string(r.CodingQuestions[0].Topics))
	}
	assert.Equal(t, "Two Sum", detail.Rounds[0].CodingQuestions[0].Title)
	assert.Equal(t, "LRU Cache", detail.Rounds[1].CodingQuestions[0].Title)
	assert.NotNil(t, detail.Comments)
	assert.Empty(t, detail.Comments)
	assert.Equal(t, VoteCounts{}, detail.Votes)
	assert.Contains(t, detail.InterviewProcessHTML, "<p>Two coding rounds.</p>")
}

func TestCreateIsAtomic(t *testing.T) {
	gdb := dbtest.Open(t)
	user := dbtest.CreateUser(t, gdb, "Asha Rao")
	company := dbtest.CreateCompany(t, gdb, "Acme")
	svc := newExperienceService(gdb)

	err := gdb.Callback().Create().Before("gorm:create").Register("test:fail_links", func(tx *gorm.DB) {
		if tx.Statement.Table == "platform_links" {
			_ = tx.AddError(errors.New("link insert failed"))
		}
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), user.ID, twoRoundInput(company.ID))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Failed to create experience")

	for _, m := range []interface{}{&models.Experience{}, &models.Round{}, &models.CodingQuestion{}, &models.PlatformLink{}} {
		var count int64
		require.NoError(t, gdb.Model(m).Count(&count).Error)
		assert.Zero(t, count, "%T rows left after rollback", m)
	}
}

func TestCreateValidation(t *testing.T) {
	gdb := dbtest.Open(t)
	user := dbtest.CreateUser(t, gdb, "Asha Rao")
	company := dbtest.CreateCompany(t, gdb, "Acme")
	svc := newExperienceService(gdb)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	tests := []struct {
		name   string
		mutate func(in *CreateExperienceInput)
		want   string
	}{
		{"blank position", func(in *CreateExperienceInput) { in.Position = "   " }, "Position is required"},
		{"missing company", func(in *CreateExperienceInput) { in.CompanyID = 0 }, "Company ID is required"},
		{"unknown company", func(in *CreateExperienceInput) { in.CompanyID = ID(company.ID + 100) }, "Invalid company ID"},
		{"rating too high", func(in *CreateExperienceInput) { in.OverallRating = 6 }, "Rating must be between 1 and 5"},
		{"bad result", func(in *CreateExperienceInput) { in.Result = "maybe" }, "Valid result is required"},
		{"bad date", func(in *CreateExperienceInput) { in.InterviewDate = "last week" }, "Valid interview date is required"},
		{"future date", func(in *CreateExperienceInput) { in.InterviewDate = "2025-07-01" }, "Interview date cannot be in the future"},
		{"bad level", func(in *CreateExperienceInput) { in.ExperienceLevel = "senior" }, "Experience level must be fresher or experienced"},
		{"bad round type", func(in *CreateExperienceInput) { in.Rounds[0].RoundType = "lunch" }, "rounds[0].round_type must be one of"},
		{"bad link url", func(in *CreateExperienceInput) {
			in.Rounds[1].CodingQuestions[0].PlatformLinks[0].URL = "not a url"
		}, "rounds[1].coding_questions[0].platform_links[0].url must be a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := twoRoundInput(company.ID)
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), user.ID, in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	var count int64
	gdb.Model(&models.Experience{}).Count(&count)
	assert.Zero(t, count)
}

func TestGetMissingExperience(t *testing.T) {
	gdb := dbtest.Open(t)
	svc := newExperienceService(gdb)

	_, err := svc.Get(context.Background(), 999, Viewer{IP: "10.0.0.1"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, "Experience not found", err.Error())

	var views int64
	gdb.Model(&models.View{}).Count(&views)
	assert.Zero(t, views)
}

func TestGetHidesAnonymousAuthor(t *testing.T) {
	gdb := dbtest.Open(t)
	author := dbtest.CreateUser(t, gdb, "Asha Rao")
	reader := dbtest.CreateUser(t, gdb, "Ben Ito")
	company := dbtest.CreateCompany(t, gdb, "Acme")
	exp := seedExperience(t, gdb, author.ID, company.ID, "SDE", true)
	comments := NewCommentService(gdb, logger.Nop())
	ctx := context.Background()

	_, err := comments.Create(ctx, exp.ID, author.ID, CommentInput{Content: "Happy to answer questions"})
	require.NoError(t, err)
	_, err = comments.Create(ctx, exp.ID, reader.ID, CommentInput{Content: "Thanks!"})
	require.NoError(t, err)

	detail, err := newExperienceService(gdb).Get(ctx, exp.ID, Viewer{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", detail.UserName)
	require.Len(t, detail.Comments, 2)
	// newest first
	assert.Equal(t, "Ben Ito", detail.Comments[0].UserName)
	assert.Equal(t, "Anonymous", detail.Comments[1].UserName)
}

func TestListPagination(t *testing.T) {
	gdb := dbtest.Open(t)
	user := dbtest.CreateUser(t, gdb, "Asha Rao")
	company := dbtest.CreateCompany(t, gdb, "Acme")
	for i := 0; i < 12; i++ {
		seedExperience(t, gdb, user.ID, company.ID, fmt.Sprintf("Engineer %d", i), false)
	}
	svc := newExperienceService(gdb)
	ctx := context.Background()

	first, err := svc.List(ctx, ListFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, first.Experiences, 10)
	assert.True(t, first.Pagination.HasMore)
	assert.EqualValues(t, 12, first.Pagination.Total)
	assert.Equal(t, "Engineer 11", first.Experiences[0].Position)

	second, err := svc.List(ctx, ListFilter{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, second.Experiences, 2)
	assert.False(t, second.Pagination.HasMore)

	defaults, err := svc.List(ctx, ListFilter{Page: -3, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, defaults.Pagination.Page)
	assert.Equal(t, MaxLimit, defaults.Pagination.Limit)
	assert.False(t, defaults.Pagination.HasMore)
}

func TestListFiltersAndCounts(t *testing.T) {
	gdb := dbtest.Open(t)
	asha := dbtest.CreateUser(t, gdb, "Asha Rao")
	ben := dbtest.CreateUser(t, gdb, "Ben Ito")
	acme := dbtest.CreateCompany(t, gdb, "Acme")
	globex := dbtest.CreateCompany(t, gdb, "Globex 100%")

	visible := seedExperience(t, gdb, asha.ID, acme.ID, "Backend Engineer", false)
	seedExperience(t, gdb, ben.ID, globex.ID, "Data Analyst", true)
	require.NoError(t, gdb.Create(&models.Vote{ExperienceID: visible.ID, UserID: ben.ID, VoteType: models.VoteUp}).Error)
	require.NoError(t, gdb.Create(&models.Vote{ExperienceID: visible.ID, UserID: asha.ID, VoteType: models.VoteDown}).Error)
	require.NoError(t, gdb.Create(&models.Comment{ExperienceID: visible.ID, UserID: ben.ID, Content: "nice"}).Error)

	svc := newExperienceService(gdb)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"all", ListFilter{}, []string{"Data Analyst", "Backend Engineer"}},
		{"search company", ListFilter{Search: "ACME"}, []string{"Backend Engineer"}},
		{"search position", ListFilter{Search: "analyst"}, []string{"Data Analyst"}},
		{"search named author", ListFilter{Search: "asha"}, []string{"Backend Engineer"}},
		{"search anonymous author", ListFilter{Search: "ben ito"}, []string{"Data Analyst"}},
		{"wildcards are literal", ListFilter{Search: "100%"}, []string{"Data Analyst"}},
		{"underscore is literal", ListFilter{Search: "_"}, []string{}},
		{"company filter", ListFilter{Company: "glob"}, []string{"Data Analyst"}},
		{"result filter", ListFilter{Result: "rejected"}, []string{}},
		{"result all", ListFilter{Result: "all"}, []string{"Data Analyst", "Backend Engineer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			got := []string{}
			for _, e := range res.Experiences {
				got = append(got, e.Position)
			}
			assert.Equal(t, tt.want, got)
			assert.EqualValues(t, len(tt.want), res.Pagination.Total)
		})
	}

	res, err := svc.List(ctx, ListFilter{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, res.Experiences, 1)
	e := res.Experiences[0]
	assert.Equal(t, Counts{Votes: 1, Comments: 1, Views: 0}, e.Count)
	assert.Equal(t, "Asha Rao", e.User.FullName)
	assert.Equal(t, "Acme", e.Company.Name)
	assert.NotNil(t, e.Rounds)

	for _, search := range []string{"analyst", "ben ito"} {
		res, err = svc.List(ctx, ListFilter{Search: search})
		require.NoError(t, err)
		require.Len(t, res.Experiences, 1, search)
		assert.Equal(t, "Anonymous", res.Experiences[0].User.FullName, search)
	}
}

func TestViewsDeduplicatedPerWindow(t *testing.T) {
	gdb := dbtest.Open(t)
	user := dbtest.CreateUser(t, gdb, "Asha Rao")
	company := dbtest.CreateCompany(t, gdb, "Acme")
	exp := seedExperience(t, gdb, user.ID, company.ID, "SDE", false)

	svc := newExperienceService(gdb)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.tracker.now = func() time.Time { return clock }
	ctx := context.Background()

	views := func() int64 {
		var n int64
		require.NoError(t, gdb.Model(&models.View{}).Where("experience_id = ?", exp.ID).Count(&n).Error)
		return n
	}

	_, err := svc.Get(ctx, exp.ID, Viewer{IP: "10.0.0.1"})
	require.NoError(t, err)
	_, err = svc.Get(ctx, exp.ID, Viewer{IP: "10.0.0.1", UserID: &user.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, views())

	_, err = svc.Get(ctx, exp.ID, Viewer{IP: "10.0.0.2"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, views())

	clock = clock.Add(ViewWindow + time.Minute)
	_, err = svc.Get(ctx, exp.ID, Viewer{IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, views())
}

func TestParseInterviewDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	got, err := parseInterviewDate("2025-06-01", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseInterviewDate("2025-05-20T10:30:00+05:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 20, 5, 0, 0, 0, time.UTC), got)

	got, err = parseInterviewDate("2025-05-20T10:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 20, 10, 30, 0, 0, time.UTC), got)

	got, err = parseInterviewDate("2025-05", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = parseInterviewDate("2025-06-02", now)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = parseInterviewDate("01/06/2025", now)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
