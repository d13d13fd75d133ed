package services

import (
	"strings"
	"time"

	"interviewhub/internal/apperr"
	"interviewhub/internal/models"
)

// CreateExperienceInput is the POST /experiences body.
type CreateExperienceInput struct {
	CompanyID        ID           `json:"company_id" binding:"required"`
	Position         string       `json:"position" binding:"required,max=200"`
	ExperienceLevel  string       `json:"experience_level" binding:"oneof=fresher experienced"`
	ExperienceYears  Int          `json:"experience_years" binding:"min=0,max=60"`
	InterviewDate    string       `json:"interview_date" binding:"required"`
	Result           string       `json:"result" binding:"required,oneof=selected rejected pending"`
	OverallRating    Int          `json:"overall_rating" binding:"required,min=1,max=5"`
	DifficultyLevel  Int          `json:"difficulty_level" binding:"required,min=1,max=5"`
	InterviewProcess string       `json:"interview_process" binding:"required"`
	PreparationTime  string       `json:"preparation_time" binding:"max=100"`
	Advice           string       `json:"advice" binding:"required"`
	SalaryOffered    string       `json:"salary_offered" binding:"max=100"`
	IsAnonymous      bool         `json:"is_anonymous"`
	Rounds           []RoundInput `json:"rounds" binding:"max=20,dive"`
}

type RoundInput struct {
	RoundNumber     Int             `json:"round_number" binding:"min=0,max=50"`
	RoundType       string          `json:"round_type" binding:"required,oneof=technical hr managerial group_discussion aptitude coding"`
	RoundName       string          `json:"round_name" binding:"max=200"`
	Duration        string          `json:"duration" binding:"max=100"`
	Description     string          `json:"description"`
	Difficulty      Int             `json:"difficulty" binding:"omitempty,min=1,max=5"`
	Result          string          `json:"result" binding:"oneof=passed failed pending"`
	CodingQuestions []QuestionInput `json:"coding_questions" binding:"max=20,dive"`
}

type QuestionInput struct {
	Title            string      `json:"title" binding:"required,max=300"`
	Description      string      `json:"description"`
	Difficulty       string      `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Topics           []string    `json:"topics" binding:"max=20,dive,max=50"`
	SolutionApproach string      `json:"solution_approach"`
	TimeComplexity   string      `json:"time_complexity" binding:"max=100"`
	SpaceComplexity  string      `json:"space_complexity" binding:"max=100"`
	PlatformLinks    []LinkInput `json:"platform_links" binding:"max=10,dive"`
}

type LinkInput struct {
	Platform  string `json:"platform" binding:"required,oneof=leetcode gfg codechef codeforces hackerrank interviewbit other"`
	URL       string `json:"url" binding:"required,url"`
	ProblemID string `json:"problem_id" binding:"max=100"`
}

// normalize trims text so that "required" rejects blank strings, lower-cases
// enum values and fills defaults.
func (in *CreateExperienceInput) normalize() {
	in.Position = strings.TrimSpace(in.Position)
	in.ExperienceLevel = strings.ToLower(strings.TrimSpace(in.ExperienceLevel))
	if in.ExperienceLevel == "" {
		in.ExperienceLevel = string(models.LevelFresher)
	}
	in.InterviewDate = strings.TrimSpace(in.InterviewDate)
	in.Result = strings.ToLower(strings.TrimSpace(in.Result))
	in.InterviewProcess = strings.TrimSpace(in.InterviewProcess)
	in.PreparationTime = strings.TrimSpace(in.PreparationTime)
	in.Advice = strings.TrimSpace(in.Advice)
	in.SalaryOffered = strings.TrimSpace(in.SalaryOffered)

	for i := range in.Rounds {
		r := &in.Rounds[i]
		r.RoundType = strings.ToLower(strings.TrimSpace(r.RoundType))
		r.RoundName = strings.TrimSpace(r.RoundName)
		r.Duration = strings.TrimSpace(r.Duration)
		r.Description = strings.TrimSpace(r.Description)
		r.Result = strings.ToLower(strings.TrimSpace(r.Result))
		if r.Result == "" {
			r.Result = string(models.RoundPending)
		}

		for j := range r.CodingQuestions {
			q := &r.CodingQuestions[j]
			q.Title = strings.TrimSpace(q.Title)
			q.Description = strings.TrimSpace(q.Description)
			q.Difficulty = strings.ToLower(strings.TrimSpace(q.Difficulty))
			q.Topics = cleanTopics(q.Topics)
			q.SolutionApproach = strings.TrimSpace(q.SolutionApproach)
			q.TimeComplexity = strings.TrimSpace(q.TimeComplexity)
			q.SpaceComplexity = strings.TrimSpace(q.SpaceComplexity)

			for k := range q.PlatformLinks {
				l := &q.PlatformLinks[k]
				l.Platform = strings.ToLower(strings.TrimSpace(l.Platform))
				l.URL = strings.TrimSpace(l.URL)
				l.ProblemID = strings.TrimSpace(l.ProblemID)
			}
		}
	}
}

// cleanTopics trims topics and drops blanks and case-insensitive duplicates,
// keeping first-seen order.
func cleanTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	seen := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02", "2006-01"}

// parseInterviewDate accepts an ISO-8601 date or timestamp. Dates after the
// current day are rejected.
func parseInterviewDate(s string, now time.Time) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
		if t.After(endOfToday) {
			return time.Time{}, apperr.Validation("Interview date cannot be in the future")
		}
		return t.UTC(), nil
	}
	return time.Time{}, apperr.Validation(fieldMessages["interview_date"])
}

func (in *CreateExperienceInput) toModel(userID uint, interviewDate time.Time) *models.Experience {
	return &models.Experience{
		UserID:           userID,
		CompanyID:        uint(in.CompanyID),
		Position:         in.Position,
		ExperienceLevel:  models.ExperienceLevel(in.ExperienceLevel),
		ExperienceYears:  int(in.ExperienceYears),
		InterviewDate:    interviewDate,
		Result:           models.ExperienceResult(in.Result),
		OverallRating:    int(in.OverallRating),
		DifficultyLevel:  int(in.DifficultyLevel),
		InterviewProcess: in.InterviewProcess,
		PreparationTime:  in.PreparationTime,
		Advice:           in.Advice,
		SalaryOffered:    in.SalaryOffered,
		IsAnonymous:      in.IsAnonymous,
	}
}

// toModel numbers rounds by position when the client left round_number unset.
func (r *RoundInput) toModel(experienceID uint, index int) models.Round {
	number := int(r.RoundNumber)
	if number == 0 {
		number = index + 1
	}
	return models.Round{
		ExperienceID: experienceID,
		RoundNumber:  number,
		RoundType:    models.RoundType(r.RoundType),
		RoundName:    r.RoundName,
		Duration:     r.Duration,
		Description:  r.Description,
		Difficulty:   int(r.Difficulty),
		Result:       models.RoundResult(r.Result),
	}
}

func (q *QuestionInput) toModel(roundID uint) models.CodingQuestion {
	return models.CodingQuestion{
		RoundID:          roundID,
		Title:            q.Title,
		Description:      q.Description,
		Difficulty:       models.QuestionDifficulty(q.Difficulty),
		Topics:           q.Topics,
		SolutionApproach: q.SolutionApproach,
		TimeComplexity:   q.TimeComplexity,
		SpaceComplexity:  q.SpaceComplexity,
	}
}

func (l *LinkInput) toModel(questionID uint) models.PlatformLink {
	return models.PlatformLink{
		QuestionID: questionID,
		Platform:   models.Platform(l.Platform),
		URL:        l.URL,
		ProblemID:  l.ProblemID,
	}
}
