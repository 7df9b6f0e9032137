package service

import (
	"context"
	"errors"
	"sync"

	"github.com/levitica/hireflow/internal/model"
	"gorm.io/gorm"
)

// In-memory fakes shared across the service tests.

type fakeCandidateRepo struct {
	mu     sync.Mutex
	nextID uint
	byMail map[string]*model.Candidate
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{byMail: make(map[string]*model.Candidate)}
}

func (r *fakeCandidateRepo) Create(c *model.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.byMail[c.Email] = &cp
	return nil
}

func (r *fakeCandidateRepo) Update(c *model.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byMail[c.Email] = &cp
	return nil
}

func (r *fakeCandidateRepo) FindByEmail(email string) (*model.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byMail[email]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCandidateRepo) FindByID(id uint) (*model.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byMail {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	nextID    uint
	questions []model.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{}
}

func (r *fakeQuestionRepo) Create(q *model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	q.ID = r.nextID
	r.questions = append(r.questions, *q)
	return nil
}

func (r *fakeQuestionRepo) CreateBatch(questions []model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range questions {
		r.nextID++
		questions[i].ID = r.nextID
		r.questions = append(r.questions, questions[i])
	}
	return nil
}

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.questions {
		if q.ID == id {
			cp := q
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuestionRepo) FindByIDs(ids []uint) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Question
	for _, q := range r.questions {
		if want[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) FindByAssessment(assessment string) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Question
	for _, q := range r.questions {
		if q.Assessment == assessment {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) FindBySet(assessment string, setNo int) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Question
	for _, q := range r.questions {
		if q.Assessment == assessment && q.SetNo == setNo {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) CountByAssessment(assessment string) (int64, error) {
	qs, _ := r.FindByAssessment(assessment)
	return int64(len(qs)), nil
}

func (r *fakeQuestionRepo) UpdateSetAssignments(questions []model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, upd := range questions {
		for i := range r.questions {
			if r.questions[i].ID == upd.ID {
				r.questions[i].SetNo = upd.SetNo
				r.questions[i].OrderInSet = upd.OrderInSet
			}
		}
	}
	return nil
}

type fakeSessionRepo struct {
	mu         sync.Mutex
	nextID     uint
	sessions   map[uint]*model.ExamSession
	candidates *fakeCandidateRepo
}

func newFakeSessionRepo(candidates *fakeCandidateRepo) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uint]*model.ExamSession), candidates: candidates}
}

func (r *fakeSessionRepo) Create(s *model.ExamSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) Update(s *model.ExamSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByID(id uint) (*model.ExamSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) FindByIDWithDetails(id uint) (*model.ExamSession, error) {
	s, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if r.candidates != nil {
		if c, err := r.candidates.FindByID(s.CandidateID); err == nil {
			s.Candidate = *c
		}
	}
	return s, nil
}

func (r *fakeSessionRepo) FindInProgress(assessment string, candidateID uint) (*model.ExamSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.Assessment == assessment && s.CandidateID == candidateID && s.Status == model.SessionInProgress {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeSessionRepo) FindAll(assessment string) ([]model.ExamSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ExamSession
	for _, s := range r.sessions {
		if assessment == "" || s.Assessment == assessment {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) UpdateAnswer(answer *model.SessionAnswer) error {
	return nil
}

type fakeScreeningRepo struct {
	mu      sync.Mutex
	nextID  uint
	records []*model.ScreeningRecord
}

func newFakeScreeningRepo() *fakeScreeningRepo {
	return &fakeScreeningRepo{}
}

func (r *fakeScreeningRepo) Create(record *model.ScreeningRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = r.nextID
	cp := *record
	r.records = append(r.records, &cp)
	return nil
}

func (r *fakeScreeningRepo) Update(record *model.ScreeningRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.records {
		if existing.ID == record.ID {
			cp := *record
			r.records[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeScreeningRepo) FindByDigestAndRole(digest, role string) (*model.ScreeningRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.FileDigest == digest && record.Role == role {
			cp := *record
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeScreeningRepo) FindAll(limit, offset int) ([]model.ScreeningRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ScreeningRecord
	for _, record := range r.records {
		out = append(out, *record)
	}
	return out, nil
}

// fakeJudgment scripts the judgment capability: completions and embeddings
// are served from queues, with optional forced errors.
type fakeJudgment struct {
	available   bool
	completions []string
	completeErr error
	embeddings  [][]float32
	embedErr    error
	prompts     []string
}

func (j *fakeJudgment) Available() bool { return j.available }

func (j *fakeJudgment) Complete(_ context.Context, prompt string) (string, error) {
	j.prompts = append(j.prompts, prompt)
	if j.completeErr != nil {
		return "", j.completeErr
	}
	if len(j.completions) == 0 {
		return "", errors.New("no scripted completion")
	}
	out := j.completions[0]
	j.completions = j.completions[1:]
	return out, nil
}

func (j *fakeJudgment) Embed(_ context.Context, _ string) ([]float32, error) {
	if j.embedErr != nil {
		return nil, j.embedErr
	}
	if len(j.embeddings) == 0 {
		return nil, errors.New("no scripted embedding")
	}
	out := j.embeddings[0]
	j.embeddings = j.embeddings[1:]
	return out, nil
}

// fakeDispatcher records every notification and can simulate delivery
// failure.
type fakeDispatcher struct {
	mu       sync.Mutex
	fail     bool
	outcomes []Outcome
	emails   []string
}

func (d *fakeDispatcher) Notify(_ context.Context, recipient string, outcome Outcome) DeliveryResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outcomes = append(d.outcomes, outcome)
	d.emails = append(d.emails, recipient)
	if d.fail {
		return DeliveryResult{OK: false, Reason: "smtp down"}
	}
	return DeliveryResult{OK: true}
}

func (d *fakeDispatcher) sent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.outcomes)
}

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) Extract(_ string, _ []byte) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}
