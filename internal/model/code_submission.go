package model

import (
	"time"

	"gorm.io/gorm"
)

// CodeSubmission records one coding-round run: the submitted source, the
// captured output and whether the program ran cleanly within the time limit.
type CodeSubmission struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CandidateEmail string         `json:"candidate_email" gorm:"index"`
	CandidateName  string         `json:"candidate_name"`
	QuestionTitle  string         `json:"question_title"`
	Language       string         `json:"language" gorm:"not null"`
	Code           string         `json:"code" gorm:"type:text;not null"`
	Output         string         `json:"output" gorm:"type:text"`
	Success        bool           `json:"success"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
