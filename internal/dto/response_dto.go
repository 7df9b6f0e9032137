package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type OTPVerifyResponseDTO struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

// ExamQuestionDTO is the candidate-facing view of an assigned unit. The
// reference answer never appears here.
type ExamQuestionDTO struct {
	Ordinal int      `json:"ordinal"`
	Kind    string   `json:"kind"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
	Marks   float64  `json:"marks"`
}

type ExamStartResponseDTO struct {
	SessionID  uint              `json:"session_id"`
	Assessment string            `json:"assessment"`
	Resumed    bool              `json:"resumed"`
	Questions  []ExamQuestionDTO `json:"questions"`
}

type UnitScoreDTO struct {
	Ordinal int     `json:"ordinal"`
	Score   float64 `json:"score"`
	Max     float64 `json:"max"`
}

type ExamResultDTO struct {
	SessionID   uint           `json:"session_id"`
	Assessment  string         `json:"assessment"`
	TotalScore  float64        `json:"total_score"`
	MaxScore    float64        `json:"max_score"`
	Threshold   float64        `json:"threshold"`
	Status      string         `json:"status"`
	UnitScores  []UnitScoreDTO `json:"unit_scores"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

type SessionSummaryDTO struct {
	ID          uint       `json:"id"`
	Assessment  string     `json:"assessment"`
	Email       string     `json:"email"`
	TotalScore  *float64   `json:"total_score,omitempty"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ScreeningResultDTO struct {
	ID              uint     `json:"id"`
	ReferenceID     string   `json:"reference_id"`
	Role            string   `json:"role"`
	ExperienceLevel string   `json:"experience_level"`
	CandidateName   string   `json:"candidate_name"`
	CandidateEmail  string   `json:"candidate_email"`
	CandidateSkills []string `json:"candidate_skills"`
	JDPreview       string   `json:"jd_preview,omitempty"`
	Score           float64  `json:"score"`
	Threshold       float64  `json:"threshold"`
	Status          string   `json:"status"`
	EmailStatus     string   `json:"email_status"`
	Duplicate       bool     `json:"duplicate"`
}

type ScreeningSummaryDTO struct {
	ID              uint      `json:"id"`
	Role            string    `json:"role"`
	ExperienceLevel string    `json:"experience_level"`
	CandidateName   string    `json:"candidate_name"`
	CandidateEmail  string    `json:"candidate_email"`
	Score           float64   `json:"score"`
	Status          string    `json:"status"`
	EmailSent       string    `json:"email_sent"`
	CreatedAt       time.Time `json:"created_at"`
}

type CodeRunResultDTO struct {
	SubmissionID uint   `json:"submission_id"`
	Success      bool   `json:"success"`
	Output       string `json:"output"`
}

type InstructionsDTO struct {
	RoundName        string `json:"round_name"`
	TimeLimitSeconds int    `json:"time_limit_seconds"`
	TotalQuestions   int    `json:"total_questions"`
	Instructions     string `json:"instructions"`
}
