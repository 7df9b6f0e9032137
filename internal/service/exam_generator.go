package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/levitica/hireflow/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// ExamGenerator produces a per-candidate question set for assessments whose
// content is generated rather than drawn from a persistent pool. Generation
// goes through the judgment capability with a strict schema decode; when the
// capability is absent or keeps returning garbage, a fixed built-in set is
// issued instead so the exam flow never hard-fails on the oracle.
type ExamGenerator interface {
	GenerateCommunicationExam(ctx context.Context, candidateName string) ([]model.Question, error)
	GenerateCodingQuestions(ctx context.Context) []CodingQuestion
}

type CodingQuestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TestCases   []string `json:"test_cases"`
}

type examGenerator struct {
	judgment JudgmentService
}

func NewExamGenerator(judgment JudgmentService) ExamGenerator {
	return &examGenerator{judgment: judgment}
}

type generatedMCQ struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

type generatedCommExam struct {
	ReadingParagraph   string         `json:"reading_paragraph"`
	ReadingMCQs        []generatedMCQ `json:"reading_mcqs"`
	WritingPrompt      string         `json:"writing_prompt"`
	ListeningParagraph string         `json:"listening_paragraph"`
}

func (g *examGenerator) GenerateCommunicationExam(ctx context.Context, candidateName string) ([]model.Question, error) {
	if !g.judgment.Available() {
		log.Warn().Msg("Judgment capability absent, issuing built-in communication exam")
		return commExamToQuestions(fallbackCommExam), nil
	}

	prompt := fmt.Sprintf(`Generate a professional communication exam for candidate %s.
Return ONLY valid JSON with these keys:
1. reading_paragraph: 150-200 words unique paragraph.
2. reading_mcqs: list of 5 questions, each with "question", "options" (list of 4 choices A-D) and "answer" (the correct choice text).
3. writing_prompt: unique writing topic (~150 words).
4. listening_paragraph: 1-2 sentences unique paragraph.`, candidateName)

	raw, err := g.judgment.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Exam generation failed, issuing built-in communication exam")
		return commExamToQuestions(fallbackCommExam), nil
	}

	var exam generatedCommExam
	if err := decodeJudgmentJSON(raw, &exam); err != nil {
		log.Warn().Err(err).Msg("Exam generation returned malformed JSON, issuing built-in communication exam")
		return commExamToQuestions(fallbackCommExam), nil
	}
	if len(exam.ReadingMCQs) > 5 {
		exam.ReadingMCQs = exam.ReadingMCQs[:5]
	}
	if len(exam.ReadingMCQs) == 0 || exam.WritingPrompt == "" {
		log.Warn().Msg("Generated exam incomplete, issuing built-in communication exam")
		return commExamToQuestions(fallbackCommExam), nil
	}
	return commExamToQuestions(exam), nil
}

func commExamToQuestions(exam generatedCommExam) []model.Question {
	questions := make([]model.Question, 0, len(exam.ReadingMCQs)+2)

	for i, mcq := range exam.ReadingMCQs {
		answer := mcq.Answer
		options, _ := json.Marshal(mcq.Options)
		questions = append(questions, model.Question{
			Assessment: AssessmentCommunication,
			Kind:       model.QuestionKindClosed,
			OrderInSet: i + 1,
			Prompt:     exam.ReadingParagraph + "\n\n" + mcq.Question,
			Options:    datatypes.JSON(options),
			Answer:     &answer,
			Marks:      1,
		})
	}

	questions = append(questions, model.Question{
		Assessment: AssessmentCommunication,
		Kind:       model.QuestionKindOpen,
		OrderInSet: len(questions) + 1,
		Prompt:     exam.WritingPrompt,
		Marks:      10,
	})
	questions = append(questions, model.Question{
		Assessment: AssessmentCommunication,
		Kind:       model.QuestionKindOpen,
		OrderInSet: len(questions) + 1,
		Prompt:     "Listen to the following and summarize it in your own words:\n\n" + exam.ListeningParagraph,
		Marks:      5,
	})
	return questions
}

func (g *examGenerator) GenerateCodingQuestions(ctx context.Context) []CodingQuestion {
	if !g.judgment.Available() {
		return fallbackCodingQuestions
	}

	prompt := `Generate 2 advanced coding questions in JSON format strictly as a JSON array: ` +
		`[{"title":"...","description":"...","test_cases":["Input: ...","Output: ..."]},` +
		` {"title":"...","description":"...","test_cases":["Input: ...","Output: ..."]}]`

	raw, err := g.judgment.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Coding question generation failed, using built-in set")
		return fallbackCodingQuestions
	}

	var questions []CodingQuestion
	if err := decodeJudgmentJSONArray(raw, &questions); err != nil || len(questions) == 0 {
		log.Warn().Err(err).Msg("Coding question generation returned malformed JSON, using built-in set")
		return fallbackCodingQuestions
	}
	return questions
}

// decodeJudgmentJSON decodes an object payload strictly, allowing exactly
// one bounded recovery: slicing from the first '{' to the last '}' to shed
// markdown fences or prose the capability wrapped around the JSON.
func decodeJudgmentJSON(raw string, v interface{}) error {
	raw = strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("%w: no object payload found", ErrMalformedJudgment)
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJudgment, err)
	}
	return nil
}

// decodeJudgmentJSONArray is the array-payload variant of decodeJudgmentJSON.
func decodeJudgmentJSONArray(raw string, v interface{}) error {
	raw = strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("%w: no array payload found", ErrMalformedJudgment)
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJudgment, err)
	}
	return nil
}

var fallbackCommExam = generatedCommExam{
	ReadingParagraph: "Remote collaboration has reshaped how teams communicate. Written updates now carry much of the weight that hallway conversations once did, which rewards people who can state context, decisions and open questions clearly. Teams that write well tend to onboard new members faster, escalate problems earlier and spend fewer meetings re-explaining work that a short document could have settled.",
	ReadingMCQs: []generatedMCQ{
		{
			Question: "According to the paragraph, what now carries much of the communication weight in remote teams?",
			Options:  []string{"Hallway conversations", "Written updates", "Daily meetings", "Phone calls"},
			Answer:   "Written updates",
		},
		{
			Question: "What benefit of writing well is mentioned?",
			Options:  []string{"Faster onboarding", "Bigger teams", "Fewer deadlines", "More meetings"},
			Answer:   "Faster onboarding",
		},
		{
			Question: "What could a short document settle, per the paragraph?",
			Options:  []string{"Salary discussions", "Work that meetings re-explain", "Hiring plans", "Office layouts"},
			Answer:   "Work that meetings re-explain",
		},
		{
			Question: "Which skill does the paragraph say is rewarded?",
			Options:  []string{"Stating context and decisions clearly", "Typing quickly", "Scheduling meetings", "Using many tools"},
			Answer:   "Stating context and decisions clearly",
		},
		{
			Question: "What do well-writing teams do earlier?",
			Options:  []string{"Ship releases", "Escalate problems", "Close tickets", "Hold retrospectives"},
			Answer:   "Escalate problems",
		},
	},
	WritingPrompt:      "Describe a time you had to explain a complex topic to someone outside your field. What did you change about how you communicated, and what did you learn from their questions? Write 120-180 words.",
	ListeningParagraph: "The quarterly review moved to Thursday at 10 AM; please submit your status summaries by Wednesday evening so the agenda can be finalized.",
}

var fallbackCodingQuestions = []CodingQuestion{
	{
		Title:       "Longest Palindromic Substring",
		Description: "Given a string s, return the longest palindromic substring.",
		TestCases:   []string{"Input: 'babad'", "Output: 'bab' or 'aba'", "Input: 'cbbd'", "Output: 'bb'"},
	},
	{
		Title:       "Merge Intervals",
		Description: "Given a collection of intervals, merge all overlapping intervals.",
		TestCases:   []string{"Input: [[1,3],[2,6],[8,10],[15,18]]", "Output: [[1,6],[8,10],[15,18]]"},
	},
}
