package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SessionInProgress = "in_progress"
	SessionQualified  = "qualified"
	SessionRegret     = "regret"
)

// ExamSession binds a candidate to an ordered question assignment plus the
// submitted answers and their scores. The QuestionIDs snapshot is written
// exactly once at start and never mutated; finalization (status, total score)
// happens exactly once at submit.
type ExamSession struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Assessment  string          `json:"assessment" gorm:"not null;index"`
	CandidateID uint            `json:"candidate_id" gorm:"not null;index"`
	Candidate   Candidate       `json:"candidate,omitempty" gorm:"foreignKey:CandidateID"`
	QuestionIDs datatypes.JSON  `json:"question_ids"`
	Answers     []SessionAnswer `json:"answers,omitempty" gorm:"foreignKey:ExamSessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	TotalScore  *float64        `json:"total_score,omitempty"`
	Status      string          `json:"status" gorm:"default:'in_progress';index"`
	StartedAt   time.Time       `json:"started_at" gorm:"autoCreateTime"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Terminal reports whether the session has reached a final decision.
func (s *ExamSession) Terminal() bool {
	return s.Status == SessionQualified || s.Status == SessionRegret
}

type SessionAnswer struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ExamSessionID uint           `json:"exam_session_id" gorm:"not null;index"`
	QuestionID    uint           `json:"question_id" gorm:"not null;index"`
	Question      Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Response      string         `json:"response" gorm:"type:text"`
	Score         *float64       `json:"score,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
