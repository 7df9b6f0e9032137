package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/levitica/hireflow/config"
	"github.com/levitica/hireflow/internal/dto"
	"github.com/levitica/hireflow/internal/model"
	"github.com/levitica/hireflow/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScreeningService runs the resume pipeline: extract text, pull structured
// fields, generate a job description for the role, score resume-vs-JD
// similarity and persist the shortlist/reject decision. Every stage that
// depends on the judgment capability has a deterministic fallback, so an
// upload always produces a stored record.
type ScreeningService interface {
	Process(ctx context.Context, fileName string, content []byte, role, experienceLevel string) (*dto.ScreeningResultDTO, error)
	List(limit, offset int) ([]dto.ScreeningSummaryDTO, error)
}

type screeningService struct {
	cfg        *config.Config
	repo       repository.ScreeningRepository
	extractor  DocumentExtractor
	judgment   JudgmentService
	dispatcher NotificationDispatcher
}

func NewScreeningService(
	cfg *config.Config,
	repo repository.ScreeningRepository,
	extractor DocumentExtractor,
	judgment JudgmentService,
	dispatcher NotificationDispatcher,
) ScreeningService {
	return &screeningService{
		cfg:        cfg,
		repo:       repo,
		extractor:  extractor,
		judgment:   judgment,
		dispatcher: dispatcher,
	}
}

type resumeFields struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience_summary"`
}

func (s *screeningService) Process(ctx context.Context, fileName string, content []byte, role, experienceLevel string) (*dto.ScreeningResultDTO, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, fmt.Errorf("%w: role is required", ErrInvalidInput)
	}

	text, err := s.extractor.Extract(fileName, content)
	if err != nil {
		return nil, err
	}

	digest := fileDigest(content)
	if existing, err := s.repo.FindByDigestAndRole(digest, role); err == nil {
		log.Info().Uint("recordID", existing.ID).Str("role", role).
			Msg("Duplicate resume upload, returning stored screening decision")
		return s.recordToResult(existing, true), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking for duplicate screening: %w", err)
	}

	fields := s.extractFields(ctx, text)
	jd := s.generateJD(ctx, role, experienceLevel)
	score := s.similarityScore(ctx, text, jd)

	status := model.ScreeningRejected
	if score >= s.cfg.Assessment.ResumeScoreThreshold {
		status = model.ScreeningShortlisted
	}

	record := &model.ScreeningRecord{
		ReferenceID:     uuid.NewString(),
		Role:            role,
		ExperienceLevel: experienceLevel,
		FileDigest:      digest,
		ResumeFilename:  fileName,
		CandidateName:   fields.Name,
		CandidateEmail:  fields.Email,
		CandidateSkills: strings.Join(fields.Skills, ", "),
		ExperienceText:  fields.Experience,
		ResumeText:      text,
		JDText:          jd,
		Score:           score,
		Status:          status,
		EmailSent:       "no",
	}
	if err := s.repo.Create(record); err != nil {
		return nil, fmt.Errorf("persisting screening record: %w", err)
	}

	// Only shortlisted candidates with a recoverable email get notified;
	// the stored decision stands either way.
	if status == model.ScreeningShortlisted && fields.Email != "" {
		delivery := s.dispatcher.Notify(ctx, fields.Email, Outcome{
			Kind:          OutcomeShortlisted,
			CandidateName: fields.Name,
			Role:          role,
			Score:         score,
		})
		if delivery.OK {
			record.EmailSent = "yes"
		} else {
			record.EmailSent = "error"
		}
		if err := s.repo.Update(record); err != nil {
			log.Error().Err(err).Uint("recordID", record.ID).Msg("Error updating email delivery status")
		}
	}

	log.Info().Uint("recordID", record.ID).Str("role", role).Float64("score", score).
		Str("status", status).Msg("Resume screened")
	return s.recordToResult(record, false), nil
}

func (s *screeningService) recordToResult(record *model.ScreeningRecord, duplicate bool) *dto.ScreeningResultDTO {
	var skills []string
	if record.CandidateSkills != "" {
		skills = strings.Split(record.CandidateSkills, ", ")
	}
	jdPreview := record.JDText
	if len(jdPreview) > 280 {
		jdPreview = jdPreview[:280] + "..."
	}
	return &dto.ScreeningResultDTO{
		ID:              record.ID,
		ReferenceID:     record.ReferenceID,
		Role:            record.Role,
		ExperienceLevel: record.ExperienceLevel,
		CandidateName:   record.CandidateName,
		CandidateEmail:  record.CandidateEmail,
		CandidateSkills: skills,
		JDPreview:       jdPreview,
		Score:           record.Score,
		Threshold:       s.cfg.Assessment.ResumeScoreThreshold,
		Status:          record.Status,
		EmailStatus:     record.EmailSent,
		Duplicate:       duplicate,
	}
}

func (s *screeningService) List(limit, offset int) ([]dto.ScreeningSummaryDTO, error) {
	records, err := s.repo.FindAll(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing screening records: %w", err)
	}
	summaries := make([]dto.ScreeningSummaryDTO, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, dto.ScreeningSummaryDTO{
			ID:              r.ID,
			Role:            r.Role,
			ExperienceLevel: r.ExperienceLevel,
			CandidateName:   r.CandidateName,
			CandidateEmail:  r.CandidateEmail,
			Score:           r.Score,
			Status:          r.Status,
			EmailSent:       r.EmailSent,
			CreatedAt:       r.CreatedAt,
		})
	}
	return summaries, nil
}

func fileDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// extractFields pulls name/email/skills/experience out of the resume text.
// Judgment path asks for strict JSON; the fallback recovers the email by
// regex and takes the first line as the name.
func (s *screeningService) extractFields(ctx context.Context, text string) resumeFields {
	if s.judgment.Available() {
		prompt := fmt.Sprintf(`Extract the following from this resume and return ONLY valid JSON with keys
"name", "email", "skills" (list of strings) and "experience_summary" (2-3 sentences):

%s`, text)
		raw, err := s.judgment.Complete(ctx, prompt)
		if err == nil {
			var fields resumeFields
			if decodeErr := decodeJudgmentJSON(raw, &fields); decodeErr == nil {
				fields.Email = strings.ToLower(strings.TrimSpace(fields.Email))
				return fields
			}
			log.Warn().Msg("Field extraction returned malformed JSON, using heuristic extraction")
		} else {
			log.Warn().Err(err).Msg("Field extraction failed, using heuristic extraction")
		}
	}
	return heuristicFields(text)
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

func heuristicFields(text string) resumeFields {
	fields := resumeFields{
		Email: strings.ToLower(emailPattern.FindString(text)),
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if len(line) > 80 {
				line = line[:80]
			}
			fields.Name = line
			break
		}
	}
	return fields
}

// generateJD produces the role's job description that the resume is scored
// against. The fallback template keeps screening deterministic when the
// judgment capability is down.
func (s *screeningService) generateJD(ctx context.Context, role, experienceLevel string) string {
	if s.judgment.Available() {
		prompt := fmt.Sprintf("Write a concise job description (150-250 words) for a %s %s position, covering responsibilities and required skills. Return plain text only.",
			experienceLevel, role)
		jd, err := s.judgment.Complete(ctx, prompt)
		if err == nil && strings.TrimSpace(jd) != "" {
			return strings.TrimSpace(jd)
		}
		log.Warn().Err(err).Msg("JD generation failed, using template")
	}
	return fmt.Sprintf(
		"We are hiring a %s %s. The role involves designing, building and maintaining systems in the %s area, collaborating with cross-functional teams, reviewing code and mentoring peers. Required: strong fundamentals, relevant hands-on experience for a %s level, clear written communication and a track record of shipping.",
		experienceLevel, role, role, experienceLevel)
}

// similarityScore maps resume-to-JD similarity onto [0,100], rounded to two
// decimals. Primary path: cosine similarity of judgment embeddings. Fallback:
// token-overlap (Jaccard) on lowercased words.
func (s *screeningService) similarityScore(ctx context.Context, resumeText, jdText string) float64 {
	if s.judgment.Available() {
		resumeVec, err1 := s.judgment.Embed(ctx, resumeText)
		jdVec, err2 := s.judgment.Embed(ctx, jdText)
		if err1 == nil && err2 == nil {
			return round2(cosineSimilarity(resumeVec, jdVec) * 100)
		}
		log.Warn().AnErr("resumeErr", err1).AnErr("jdErr", err2).
			Msg("Embedding failed, using token-overlap similarity")
	}
	return round2(jaccardSimilarity(resumeText, jdText) * 100)
}

// cosineSimilarity returns 0 for mismatched lengths or zero-norm vectors
// rather than propagating NaN into a stored score.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func jaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:()[]{}'\"!?")
		if len(tok) > 2 {
			set[tok] = true
		}
	}
	return set
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
