package service

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/levitica/hireflow/internal/dto"
	"github.com/levitica/hireflow/internal/model"
	"github.com/levitica/hireflow/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// QuestionPoolService is the admin surface for pool-backed assessments:
// loading questions in bulk and partitioning the pool into the disjoint sets
// that Start draws from.
type QuestionPoolService interface {
	LoadQuestions(req dto.BulkQuestionsDTO) (int, error)
	Partition(assessment string) (sets int, perSet int, err error)
	ListQuestions(assessment string) ([]model.Question, error)
}

type questionPoolService struct {
	specs map[string]AssessmentSpec
	repo  repository.QuestionRepository
}

func NewQuestionPoolService(specs map[string]AssessmentSpec, repo repository.QuestionRepository) QuestionPoolService {
	return &questionPoolService{specs: specs, repo: repo}
}

func (s *questionPoolService) LoadQuestions(req dto.BulkQuestionsDTO) (int, error) {
	if len(req.Questions) == 0 {
		return 0, fmt.Errorf("%w: no questions in payload", ErrInvalidInput)
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		spec, ok := s.specs[q.Assessment]
		if !ok {
			return 0, fmt.Errorf("%w: %s (question %d)", ErrUnknownAssessment, q.Assessment, i+1)
		}
		if spec.Generated {
			return 0, fmt.Errorf("%w: %s is generated per candidate and takes no pool", ErrInvalidInput, q.Assessment)
		}
		if q.Kind != model.QuestionKindClosed && q.Kind != model.QuestionKindOpen {
			return 0, fmt.Errorf("%w: unknown question kind %q (question %d)", ErrInvalidInput, q.Kind, i+1)
		}
		if q.Kind == model.QuestionKindClosed && (q.Answer == nil || *q.Answer == "") {
			return 0, fmt.Errorf("%w: closed question %d has no reference answer", ErrInvalidInput, i+1)
		}

		marks := q.Marks
		if marks <= 0 {
			marks = 1
		}
		var options datatypes.JSON
		if len(q.Options) > 0 {
			raw, err := json.Marshal(q.Options)
			if err != nil {
				return 0, fmt.Errorf("encoding options for question %d: %w", i+1, err)
			}
			options = datatypes.JSON(raw)
		}
		questions = append(questions, model.Question{
			Assessment: q.Assessment,
			Kind:       q.Kind,
			Prompt:     q.Prompt,
			Options:    options,
			Answer:     q.Answer,
			Marks:      marks,
		})
	}

	if err := s.repo.CreateBatch(questions); err != nil {
		return 0, fmt.Errorf("loading questions: %w", err)
	}
	log.Info().Int("count", len(questions)).Msg("Questions loaded into pool")
	return len(questions), nil
}

// Partition shuffles the assessment's pool and deals it into SetCount sets of
// SetSize. The pool must hold at least SetCount*SetSize questions; leftovers
// beyond that stay unassigned (set 0).
func (s *questionPoolService) Partition(assessment string) (int, int, error) {
	spec, ok := s.specs[assessment]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownAssessment, assessment)
	}
	if spec.Generated || spec.SetCount <= 0 || spec.SetSize <= 0 {
		return 0, 0, fmt.Errorf("%w: %s is not pool-backed", ErrInvalidInput, assessment)
	}

	questions, err := s.repo.FindByAssessment(assessment)
	if err != nil {
		return 0, 0, fmt.Errorf("loading pool: %w", err)
	}
	needed := spec.SetCount * spec.SetSize
	if len(questions) < needed {
		return 0, 0, fmt.Errorf("%w: pool holds %d questions, %d needed for %d sets of %d",
			ErrInvalidInput, len(questions), needed, spec.SetCount, spec.SetSize)
	}

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	for i := range questions {
		if i < needed {
			questions[i].SetNo = i/spec.SetSize + 1
			questions[i].OrderInSet = i%spec.SetSize + 1
		} else {
			questions[i].SetNo = 0
			questions[i].OrderInSet = 0
		}
	}
	if err := s.repo.UpdateSetAssignments(questions); err != nil {
		return 0, 0, fmt.Errorf("saving set assignments: %w", err)
	}

	log.Info().Str("assessment", assessment).Int("sets", spec.SetCount).
		Int("perSet", spec.SetSize).Msg("Question pool partitioned")
	return spec.SetCount, spec.SetSize, nil
}

func (s *questionPoolService) ListQuestions(assessment string) ([]model.Question, error) {
	if _, ok := s.specs[assessment]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAssessment, assessment)
	}
	return s.repo.FindByAssessment(assessment)
}
