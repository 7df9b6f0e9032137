package model

import (
	"time"

	"gorm.io/gorm"
)

// Candidate is the identity every assessment subsystem keys on. Email is the
// natural key: sessions and screening records reference candidates by it, so
// it carries a unique index and must never be rewritten in place.
type Candidate struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `json:"name" gorm:"not null"`
	Email     string         `json:"email" gorm:"not null;uniqueIndex"`
	Verified  bool           `json:"verified" gorm:"default:false"`
	Status    string         `json:"status" gorm:"default:'pending'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CandidateRef is the value type used as the cross-subsystem join key. Any
// service that needs to correlate a candidate across tables goes through this
// rather than matching raw strings ad hoc.
type CandidateRef struct {
	Email string `json:"email"`
}

func NewCandidateRef(email string) CandidateRef {
	return CandidateRef{Email: email}
}
