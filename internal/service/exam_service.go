package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/levitica/hireflow/config"
	"github.com/levitica/hireflow/internal/dto"
	"github.com/levitica/hireflow/internal/model"
	"github.com/levitica/hireflow/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AssessmentAptitude      = "aptitude"
	AssessmentCommunication = "communication"
)

// AssessmentSpec parameterizes one instance of the scoring pipeline: where
// its question units come from, how large an assignment is and where the
// pass mark sits. Aptitude and communication are the two built-in instances.
type AssessmentSpec struct {
	Name             string
	RoundName        string
	TimeLimitSeconds int
	Instructions     string
	SetCount         int
	SetSize          int
	PassThreshold    float64
	// Generated assessments build a fresh per-candidate question set via
	// the ExamGenerator instead of drawing from the persistent pool.
	Generated bool
}

func DefaultAssessmentSpecs(cfg *config.Config) map[string]AssessmentSpec {
	return map[string]AssessmentSpec{
		AssessmentAptitude: {
			Name:             AssessmentAptitude,
			RoundName:        "Aptitude Test",
			TimeLimitSeconds: 1800,
			Instructions:     "Answer all 25 MCQs in 30 minutes. Do not refresh the page.",
			SetCount:         cfg.Assessment.AptitudeSetCount,
			SetSize:          cfg.Assessment.AptitudeSetSize,
			PassThreshold:    cfg.Assessment.AptitudePassMark,
		},
		AssessmentCommunication: {
			Name:             AssessmentCommunication,
			RoundName:        "Communication Assessment",
			TimeLimitSeconds: 2400,
			Instructions:     "Complete the reading, writing and listening sections in 40 minutes.",
			PassThreshold:    cfg.Assessment.CommunicationPassMark,
			Generated:        true,
		},
	}
}

// ExamService drives the session state machine:
// in progress -> scoring -> qualified | regret.
type ExamService interface {
	Instructions(assessment string) (*dto.InstructionsDTO, error)
	Start(ctx context.Context, assessment, email string) (*dto.ExamStartResponseDTO, error)
	Submit(ctx context.Context, req dto.ExamSubmitDTO) (*dto.ExamResultDTO, error)
	ListSessions(assessment string) ([]dto.SessionSummaryDTO, error)
	SessionSummary(id uint) (*dto.SessionSummaryDTO, error)
}

type examService struct {
	specs         map[string]AssessmentSpec
	candidateRepo repository.CandidateRepository
	questionRepo  repository.QuestionRepository
	sessionRepo   repository.SessionRepository
	oracle        ScoringOracle
	generator     ExamGenerator
	dispatcher    NotificationDispatcher
}

func NewExamService(
	specs map[string]AssessmentSpec,
	candidateRepo repository.CandidateRepository,
	questionRepo repository.QuestionRepository,
	sessionRepo repository.SessionRepository,
	oracle ScoringOracle,
	generator ExamGenerator,
	dispatcher NotificationDispatcher,
) ExamService {
	return &examService{
		specs:         specs,
		candidateRepo: candidateRepo,
		questionRepo:  questionRepo,
		sessionRepo:   sessionRepo,
		oracle:        oracle,
		generator:     generator,
		dispatcher:    dispatcher,
	}
}

func (s *examService) spec(assessment string) (AssessmentSpec, error) {
	spec, ok := s.specs[assessment]
	if !ok {
		return AssessmentSpec{}, fmt.Errorf("%w: %s", ErrUnknownAssessment, assessment)
	}
	return spec, nil
}

func (s *examService) Instructions(assessment string) (*dto.InstructionsDTO, error) {
	spec, err := s.spec(assessment)
	if err != nil {
		return nil, err
	}
	total := spec.SetSize
	if spec.Generated {
		total = 7 // 5 reading MCQs + writing + listening
	}
	return &dto.InstructionsDTO{
		RoundName:        spec.RoundName,
		TimeLimitSeconds: spec.TimeLimitSeconds,
		TotalQuestions:   total,
		Instructions:     spec.Instructions,
	}, nil
}

// Start opens a session for a verified candidate. Restarting with an
// in-progress session resumes it: the original question assignment is
// returned unchanged, never silently reshuffled.
func (s *examService) Start(ctx context.Context, assessment, email string) (*dto.ExamStartResponseDTO, error) {
	spec, err := s.spec(assessment)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	candidate, err := s.candidateRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCandidateNotFound, email)
		}
		return nil, fmt.Errorf("looking up candidate %s: %w", email, err)
	}
	if !candidate.Verified {
		return nil, fmt.Errorf("%w: %s", ErrCandidateUnverified, email)
	}

	if existing, err := s.sessionRepo.FindInProgress(spec.Name, candidate.ID); err == nil {
		questions, qErr := s.assignedQuestions(existing)
		if qErr != nil {
			return nil, qErr
		}
		log.Info().Uint("sessionID", existing.ID).Str("email", email).Msg("Resuming in-progress session")
		return startResponse(existing, questions, true), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up in-progress session: %w", err)
	}

	questions, err := s.assignQuestionSet(ctx, spec, candidate)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	snapshot, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encoding question snapshot: %w", err)
	}

	session := &model.ExamSession{
		Assessment:  spec.Name,
		CandidateID: candidate.ID,
		QuestionIDs: datatypes.JSON(snapshot),
		Status:      model.SessionInProgress,
		StartedAt:   time.Now(),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	log.Info().Uint("sessionID", session.ID).Str("email", email).Str("assessment", spec.Name).
		Int("questions", len(questions)).Msg("Session started")
	return startResponse(session, questions, false), nil
}

// assignQuestionSet picks the unit assignment for a brand-new session.
// Pool-backed assessments partition the bank into disjoint sets and pick
// one by hashing the candidate email, so a given candidate always sees the
// same set and no candidate sees the whole bank.
func (s *examService) assignQuestionSet(ctx context.Context, spec AssessmentSpec, candidate *model.Candidate) ([]model.Question, error) {
	if spec.Generated {
		questions, err := s.generator.GenerateCommunicationExam(ctx, candidate.Name)
		if err != nil {
			return nil, fmt.Errorf("generating question set: %w", err)
		}
		if len(questions) == 0 {
			return nil, ErrNoQuestionPool
		}
		if err := s.questionRepo.CreateBatch(questions); err != nil {
			return nil, fmt.Errorf("persisting generated questions: %w", err)
		}
		return questions, nil
	}

	if spec.SetCount <= 0 {
		return nil, ErrNoQuestionPool
	}
	setNo := int(hashIdentity(candidate.Email)%uint32(spec.SetCount)) + 1
	questions, err := s.questionRepo.FindBySet(spec.Name, setNo)
	if err != nil {
		return nil, fmt.Errorf("loading question set %d: %w", setNo, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: %s set %d", ErrNoQuestionPool, spec.Name, setNo)
	}
	if spec.SetSize > 0 && len(questions) > spec.SetSize {
		questions = questions[:spec.SetSize]
	}
	return questions, nil
}

func hashIdentity(email string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	return h.Sum32()
}

func (s *examService) assignedQuestions(session *model.ExamSession) ([]model.Question, error) {
	var ids []uint
	if err := json.Unmarshal(session.QuestionIDs, &ids); err != nil {
		return nil, fmt.Errorf("decoding question snapshot for session %d: %w", session.ID, err)
	}
	loaded, err := s.questionRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("loading assigned questions: %w", err)
	}
	byID := make(map[uint]model.Question, len(loaded))
	for _, q := range loaded {
		byID[q.ID] = q
	}
	// Preserve the snapshot order; the ordinal a candidate answered under
	// must match the unit it was issued for.
	ordered := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

func startResponse(session *model.ExamSession, questions []model.Question, resumed bool) *dto.ExamStartResponseDTO {
	resp := &dto.ExamStartResponseDTO{
		SessionID:  session.ID,
		Assessment: session.Assessment,
		Resumed:    resumed,
		Questions:  make([]dto.ExamQuestionDTO, len(questions)),
	}
	for i, q := range questions {
		var options []string
		if len(q.Options) > 0 {
			_ = json.Unmarshal(q.Options, &options)
		}
		resp.Questions[i] = dto.ExamQuestionDTO{
			Ordinal: i + 1,
			Kind:    q.Kind,
			Prompt:  q.Prompt,
			Options: options,
			Marks:   q.Marks,
		}
	}
	return resp
}

type unitScoringResult struct {
	answer  model.SessionAnswer
	ordinal int
	score   float64
}

// Submit scores every submitted response and finalizes the session. The
// transition is one-shot: a second submit on a terminal session returns the
// stored result unchanged instead of re-scoring or double-counting.
func (s *examService) Submit(ctx context.Context, req dto.ExamSubmitDTO) (*dto.ExamResultDTO, error) {
	session, err := s.sessionRepo.FindByIDWithDetails(req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrSessionNotFound, req.SessionID)
		}
		return nil, fmt.Errorf("loading session %d: %w", req.SessionID, err)
	}

	spec, err := s.spec(session.Assessment)
	if err != nil {
		return nil, err
	}

	questions, err := s.assignedQuestions(session)
	if err != nil {
		return nil, err
	}

	if session.Terminal() {
		log.Info().Uint("sessionID", session.ID).Msg("Session already finalized, returning stored result")
		return s.buildResult(session, spec, questions), nil
	}

	if len(req.Responses) == 0 {
		return nil, fmt.Errorf("%w: submission must contain at least one response", ErrInvalidInput)
	}

	byOrdinal := make(map[int]model.Question, len(questions))
	for i, q := range questions {
		byOrdinal[i+1] = q
	}

	type pendingUnit struct {
		ordinal  int
		question model.Question
		response string
	}
	var pending []pendingUnit
	for _, r := range req.Responses {
		q, ok := byOrdinal[r.Ordinal]
		if !ok {
			log.Warn().Int("ordinal", r.Ordinal).Uint("sessionID", session.ID).
				Msg("Response for a unit not assigned to this session, skipping")
			continue
		}
		pending = append(pending, pendingUnit{ordinal: r.Ordinal, question: q, response: r.Response})
	}
	if len(pending) == 0 {
		return nil, fmt.Errorf("%w: no responses matched the assigned units", ErrInvalidInput)
	}

	// Units are independent, so they are scored concurrently. The channel
	// drain below is the barrier: the aggregate decision is only taken
	// once every submitted unit has a score.
	results := make(chan unitScoringResult, len(pending))
	for _, unit := range pending {
		go func(u pendingUnit) {
			results <- unitScoringResult{
				ordinal: u.ordinal,
				score:   s.scoreUnit(ctx, u.question, u.response),
				answer: model.SessionAnswer{
					ExamSessionID: session.ID,
					QuestionID:    u.question.ID,
					Response:      u.response,
				},
			}
		}(unit)
	}

	total := 0.0
	answers := make([]model.SessionAnswer, 0, len(pending))
	unitScores := make([]dto.UnitScoreDTO, 0, len(pending))
	for range pending {
		r := <-results
		score := r.score
		r.answer.Score = &score
		total += score
		answers = append(answers, r.answer)
		unitScores = append(unitScores, dto.UnitScoreDTO{
			Ordinal: r.ordinal,
			Score:   score,
			Max:     byOrdinal[r.ordinal].Marks,
		})
	}
	close(results)

	now := time.Now()
	session.Answers = answers
	session.TotalScore = &total
	session.CompletedAt = &now
	if total >= spec.PassThreshold {
		session.Status = model.SessionQualified
	} else {
		session.Status = model.SessionRegret
	}

	if err := s.sessionRepo.Update(session); err != nil {
		return nil, fmt.Errorf("finalizing session %d: %w", session.ID, err)
	}

	outcomeKind := OutcomeRegret
	if session.Status == model.SessionQualified {
		outcomeKind = OutcomeQualified
	}
	delivery := s.dispatcher.Notify(ctx, session.Candidate.Email, Outcome{
		Kind:          outcomeKind,
		CandidateName: session.Candidate.Name,
		Assessment:    spec.RoundName,
		Score:         total,
	})
	if !delivery.OK {
		log.Warn().Uint("sessionID", session.ID).Str("reason", delivery.Reason).
			Msg("Outcome notification failed; decision stands")
	}

	log.Info().Uint("sessionID", session.ID).Float64("total", total).Str("status", session.Status).
		Msg("Session finalized")

	result := s.buildResult(session, spec, questions)
	result.UnitScores = unitScores
	return result, nil
}

// scoreUnit applies the unit's rubric: exact match for closed-form units,
// oracle judgment (with its built-in fallback) for open-form ones.
func (s *examService) scoreUnit(ctx context.Context, q model.Question, response string) float64 {
	switch q.Kind {
	case model.QuestionKindClosed:
		if q.Answer != nil && strings.TrimSpace(response) == strings.TrimSpace(*q.Answer) {
			return q.Marks
		}
		return 0
	case model.QuestionKindOpen:
		return float64(s.oracle.Score(ctx, q.Prompt, response, int(q.Marks)))
	default:
		log.Warn().Uint("questionID", q.ID).Str("kind", q.Kind).Msg("Unknown question kind, scoring zero")
		return 0
	}
}

func (s *examService) buildResult(session *model.ExamSession, spec AssessmentSpec, questions []model.Question) *dto.ExamResultDTO {
	maxScore := 0.0
	ordinalByQuestion := make(map[uint]int, len(questions))
	for i, q := range questions {
		maxScore += q.Marks
		ordinalByQuestion[q.ID] = i + 1
	}

	total := 0.0
	if session.TotalScore != nil {
		total = *session.TotalScore
	}

	unitScores := make([]dto.UnitScoreDTO, 0, len(session.Answers))
	for _, a := range session.Answers {
		if a.Score == nil {
			continue
		}
		ordinal := ordinalByQuestion[a.QuestionID]
		max := 0.0
		if ordinal > 0 {
			max = questions[ordinal-1].Marks
		}
		unitScores = append(unitScores, dto.UnitScoreDTO{Ordinal: ordinal, Score: *a.Score, Max: max})
	}

	return &dto.ExamResultDTO{
		SessionID:   session.ID,
		Assessment:  session.Assessment,
		TotalScore:  total,
		MaxScore:    maxScore,
		Threshold:   spec.PassThreshold,
		Status:      session.Status,
		UnitScores:  unitScores,
		CompletedAt: session.CompletedAt,
	}
}

func (s *examService) ListSessions(assessment string) ([]dto.SessionSummaryDTO, error) {
	if assessment != "" {
		if _, err := s.spec(assessment); err != nil {
			return nil, err
		}
	}
	sessions, err := s.sessionRepo.FindAll(assessment)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	summaries := make([]dto.SessionSummaryDTO, 0, len(sessions))
	for _, session := range sessions {
		var summary dto.SessionSummaryDTO
		if err := copier.Copy(&summary, &session); err != nil {
			log.Error().Err(err).Uint("sessionID", session.ID).Msg("Error copying session to summary DTO")
			continue
		}
		summary.Email = session.Candidate.Email
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *examService) SessionSummary(id uint) (*dto.SessionSummaryDTO, error) {
	session, err := s.sessionRepo.FindByIDWithDetails(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("loading session %d: %w", id, err)
	}
	var summary dto.SessionSummaryDTO
	if err := copier.Copy(&summary, session); err != nil {
		return nil, fmt.Errorf("error preparing session summary: %w", err)
	}
	summary.Email = session.Candidate.Email
	return &summary, nil
}
