package dto

// OTPRequestDTO asks for a one-time code to be mailed to the candidate.
type OTPRequestDTO struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// OTPVerifyDTO submits a previously mailed code for verification.
type OTPVerifyDTO struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// ExamStartDTO opens (or resumes) an exam session for a verified candidate.
type ExamStartDTO struct {
	Email string `json:"email" binding:"required,email"`
}

// UnitResponseDTO is one answer inside a full submission, keyed by the
// ordinal the question was issued under.
type UnitResponseDTO struct {
	Ordinal  int    `json:"ordinal" binding:"required"`
	Response string `json:"response"`
}

// ExamSubmitDTO submits all answers of a session at once. Scoring and the
// terminal decision happen on this call.
type ExamSubmitDTO struct {
	SessionID uint              `json:"session_id" binding:"required"`
	Responses []UnitResponseDTO `json:"responses" binding:"required"`
}

// CodeRunDTO submits candidate source for a sandboxed run.
type CodeRunDTO struct {
	Name          string `json:"name"`
	Email         string `json:"email" binding:"required,email"`
	QuestionTitle string `json:"question_title"`
	Language      string `json:"language" binding:"required"`
	Code          string `json:"code" binding:"required"`
}

// CreateQuestionDTO is the admin payload for loading pool questions.
type CreateQuestionDTO struct {
	Assessment string   `json:"assessment" binding:"required"`
	Kind       string   `json:"kind" binding:"required"`
	Prompt     string   `json:"prompt" binding:"required"`
	Options    []string `json:"options,omitempty"`
	Answer     *string  `json:"answer,omitempty"`
	Marks      float64  `json:"marks"`
}

// BulkQuestionsDTO loads a batch of questions into an assessment's pool.
type BulkQuestionsDTO struct {
	Questions []CreateQuestionDTO `json:"questions" binding:"required,dive"`
}

// PartitionDTO shuffles an assessment's pool into disjoint sets.
type PartitionDTO struct {
	Assessment string `json:"assessment" binding:"required"`
}
