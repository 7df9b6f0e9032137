package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/levitica/hireflow/config"
	"github.com/levitica/hireflow/internal/model"
	"github.com/levitica/hireflow/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OTPService gates exam access: a candidate proves control of their email
// address by echoing back a short-lived numeric code.
type OTPService interface {
	Request(ctx context.Context, name, email string) error
	Verify(ctx context.Context, email, code string) (verified bool, reason string, err error)
}

type otpService struct {
	candidateRepo repository.CandidateRepository
	store         ChallengeStore
	dispatcher    NotificationDispatcher
	cfg           *config.Config
}

func NewOTPService(
	candidateRepo repository.CandidateRepository,
	store ChallengeStore,
	dispatcher NotificationDispatcher,
	cfg *config.Config,
) OTPService {
	return &otpService{
		candidateRepo: candidateRepo,
		store:         store,
		dispatcher:    dispatcher,
		cfg:           cfg,
	}
}

// Request issues a fresh code for the candidate, overwriting any prior live
// one, and mails it. A delivery failure is reported in the logs but the
// stored code stays valid, so a candidate can still be let in manually.
func (s *otpService) Request(ctx context.Context, name, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	candidate, err := s.candidateRepo.FindByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("looking up candidate %s: %w", email, err)
		}
		candidate = &model.Candidate{Name: name, Email: email, Status: "pending"}
		if err := s.candidateRepo.Create(candidate); err != nil {
			return fmt.Errorf("creating candidate %s: %w", email, err)
		}
	}

	code := generateCode(s.cfg.Assessment.OTPLength)
	if err := s.store.Put(ctx, email, code, s.cfg.Assessment.OTPValidity); err != nil {
		return fmt.Errorf("storing challenge for %s: %w", email, err)
	}

	result := s.dispatcher.Notify(ctx, email, Outcome{
		Kind:          OutcomeOTP,
		CandidateName: candidate.Name,
		Code:          code,
		Validity:      s.cfg.Assessment.OTPValidity,
	})
	if !result.OK {
		log.Warn().Str("email", email).Str("reason", result.Reason).Msg("OTP mail delivery failed; code remains valid")
	}
	return nil
}

// Verify is single-use: a successful match consumes the stored code, so a
// replay of the same code always fails.
func (s *otpService) Verify(ctx context.Context, email, code string) (bool, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	stored, ok, err := s.store.Get(ctx, email)
	if err != nil {
		return false, "", fmt.Errorf("reading challenge for %s: %w", email, err)
	}
	if !ok {
		return false, "No code found. Request a new one.", nil
	}
	if stored != strings.TrimSpace(code) {
		return false, "Invalid code", nil
	}

	if err := s.store.Delete(ctx, email); err != nil {
		return false, "", fmt.Errorf("consuming challenge for %s: %w", email, err)
	}

	candidate, err := s.candidateRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "", fmt.Errorf("%w: %s", ErrCandidateNotFound, email)
		}
		return false, "", fmt.Errorf("looking up candidate %s: %w", email, err)
	}
	candidate.Verified = true
	if err := s.candidateRepo.Update(candidate); err != nil {
		return false, "", fmt.Errorf("marking candidate %s verified: %w", email, err)
	}

	log.Info().Str("email", email).Msg("OTP verified, candidate marked verified")
	return true, "", nil
}

func generateCode(length int) string {
	if length <= 0 {
		length = 6
	}
	digits := make([]byte, length)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return string(digits)
}
