package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionKindClosed = "closed" // exact-match against Answer, 1 mark
	QuestionKindOpen   = "open"   // judged free text, up to Marks
)

// Question is a single unit of an assessment's pool. Units are immutable once
// assigned to a session; the session stores a snapshot of their IDs.
type Question struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Assessment string         `json:"assessment" gorm:"not null;index"`
	SetNo      int            `json:"set_no" gorm:"index"`
	OrderInSet int            `json:"order_in_set"`
	Kind       string         `json:"kind" gorm:"not null"`
	Prompt     string         `json:"prompt" gorm:"type:text;not null"`
	Options    datatypes.JSON `json:"options,omitempty"`
	Answer     *string        `json:"-"` // reference answer, closed-form only; never exposed to candidates
	Marks      float64        `json:"marks" gorm:"default:1"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
