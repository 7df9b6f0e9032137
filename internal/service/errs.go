package service

import "errors"

// Service-level sentinels. Controllers map these onto HTTP statuses with
// errors.Is; everything else surfaces as an internal error.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrCandidateUnverified = errors.New("candidate email not verified")
	ErrSessionNotFound     = errors.New("exam session not found")
	ErrUnknownAssessment   = errors.New("unknown assessment")

	// ErrNoQuestionPool means the assessment has no loaded question pool.
	// This is a deployment problem, not an ordinary 404, and is kept
	// distinct so operators can tell the two apart.
	ErrNoQuestionPool = errors.New("no question pool loaded for assessment")

	ErrUnsupportedFormat   = errors.New("unsupported document format")
	ErrExtractionFailed    = errors.New("document text extraction failed")
	ErrJudgmentUnavailable = errors.New("judgment capability unavailable")

	// ErrMalformedJudgment is a typed decode failure for judgment output
	// that stayed unparseable after the one bounded substring-recovery
	// attempt.
	ErrMalformedJudgment = errors.New("malformed judgment output")
)
