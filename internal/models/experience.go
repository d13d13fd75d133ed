package models

import (
	"time"

	"gorm.io/datatypes"
)

type ExperienceResult string

const (
	ResultSelected ExperienceResult = "selected"
	ResultRejected ExperienceResult = "rejected"
	ResultPending  ExperienceResult = "pending"
)

type ExperienceLevel string

const (
	LevelFresher     ExperienceLevel = "fresher"
	LevelExperienced ExperienceLevel = "experienced"
)

type RoundType string

const (
	RoundTechnical       RoundType = "technical"
	RoundHR              RoundType = "hr"
	RoundManagerial      RoundType = "managerial"
	RoundGroupDiscussion RoundType = "group_discussion"
	RoundAptitude        RoundType = "aptitude"
	RoundCoding          RoundType = "coding"
)

type RoundResult string

const (
	RoundPassed  RoundResult = "passed"
	RoundFailed  RoundResult = "failed"
	RoundPending RoundResult = "pending"
)

type QuestionDifficulty string

const (
	DifficultyEasy   QuestionDifficulty = "easy"
	DifficultyMedium QuestionDifficulty = "medium"
	DifficultyHard   QuestionDifficulty = "hard"
)

type Platform string

const (
	PlatformLeetCode     Platform = "leetcode"
	PlatformGFG          Platform = "gfg"
	PlatformCodeChef     Platform = "codechef"
	PlatformCodeforces   Platform = "codeforces"
	PlatformHackerRank   Platform = "hackerrank"
	PlatformInterviewBit Platform = "interviewbit"
	PlatformOther        Platform = "other"
)

// Experience is an interview write-up. Rows are written once, inside the
// creation transaction, together with all of their rounds.
type Experience struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UserID           uint             `gorm:"not null;index" json:"user_id"`
	User             User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CompanyID        uint             `gorm:"not null;index" json:"company_id"`
	Company          Company          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Position         string           `gorm:"not null" json:"position"`
	ExperienceLevel  ExperienceLevel  `gorm:"type:varchar(20);not null;default:'fresher'" json:"experience_level"`
	ExperienceYears  int              `gorm:"not null;default:0" json:"experience_years"`
	InterviewDate    time.Time        `gorm:"not null" json:"interview_date"`
	Result           ExperienceResult `gorm:"type:varchar(20);not null;index" json:"result"`
	OverallRating    int              `gorm:"not null" json:"overall_rating"`
	DifficultyLevel  int              `gorm:"not null" json:"difficulty_level"`
	InterviewProcess string           `gorm:"type:text;not null" json:"interview_process"`
	PreparationTime  string           `json:"preparation_time"`
	Advice           string           `gorm:"type:text;not null" json:"advice"`
	SalaryOffered    string           `json:"salary_offered"`
	IsAnonymous      bool             `gorm:"not null;default:false" json:"is_anonymous"`
	CreatedAt        time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	Rounds []Round `gorm:"foreignKey:ExperienceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"rounds"`
}

func (Experience) TableName() string {
	return "interview_experiences"
}

type Round struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	ExperienceID uint        `gorm:"not null;index" json:"experience_id"`
	RoundNumber  int         `gorm:"not null" json:"round_number"`
	RoundType    RoundType   `gorm:"type:varchar(30);not null" json:"round_type"`
	RoundName    string      `json:"round_name"`
	Duration     string      `json:"duration"`
	Description  string      `gorm:"type:text" json:"description"`
	Difficulty   int         `json:"difficulty"`
	Result       RoundResult `gorm:"type:varchar(20)" json:"result"`
	CreatedAt    time.Time   `json:"created_at"`

	CodingQuestions []CodingQuestion `gorm:"foreignKey:RoundID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"coding_questions"`
}

func (Round) TableName() string {
	return "interview_rounds"
}

type CodingQuestion struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	RoundID          uint                        `gorm:"not null;index" json:"round_id"`
	Title            string                      `gorm:"not null" json:"title"`
	Description      string                      `gorm:"type:text" json:"description"`
	Difficulty       QuestionDifficulty          `gorm:"type:varchar(10)" json:"difficulty"`
	Topics           datatypes.JSONSlice[string] `gorm:"not null;default:'[]'" json:"topics"`
	SolutionApproach string                      `gorm:"type:text" json:"solution_approach"`
	TimeComplexity   string                      `json:"time_complexity"`
	SpaceComplexity  string                      `json:"space_complexity"`
	CreatedAt        time.Time                   `json:"created_at"`

	PlatformLinks []PlatformLink `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"platform_links"`
}

func (CodingQuestion) TableName() string {
	return "coding_questions"
}

type PlatformLink struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Platform   Platform  `gorm:"type:varchar(20);not null" json:"platform"`
	URL        string    `gorm:"not null" json:"url"`
	ProblemID  string    `json:"problem_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PlatformLink) TableName() string {
	return "platform_links"
}
