package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ScreeningShortlisted = "shortlisted"
	ScreeningRejected    = "rejected"
)

// ScreeningRecord is the artifact produced by one resume screening run.
// A record is created once per uploaded document and never re-scored in
// place; FileDigest+Role is the duplicate guard, so re-submitting the same
// document for the same role returns the stored decision without a second
// notification.
type ScreeningRecord struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	ReferenceID     string         `json:"reference_id" gorm:"uniqueIndex;not null"`
	Role            string         `json:"role" gorm:"not null;index:idx_screening_digest_role"`
	ExperienceLevel string         `json:"experience_level"`
	FileDigest      string         `json:"-" gorm:"not null;index:idx_screening_digest_role"`
	ResumeFilename  string         `json:"resume_filename"`
	CandidateName   string         `json:"candidate_name"`
	CandidateEmail  string         `json:"candidate_email"`
	CandidateSkills string         `json:"candidate_skills" gorm:"type:text"`
	ExperienceText  string         `json:"experience_summary" gorm:"type:text"`
	ResumeText      string         `json:"-" gorm:"type:text"`
	JDText          string         `json:"-" gorm:"type:text"`
	Score           float64        `json:"score"`
	Status          string         `json:"status" gorm:"index"`
	EmailSent       string         `json:"email_sent" gorm:"default:'no'"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
