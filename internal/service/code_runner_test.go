package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/levitica/hireflow/config"
	"github.com/levitica/hireflow/internal/dto"
	"github.com/levitica/hireflow/internal/model"
	"github.com/stretchr/testify/assert"
)

type fakeCodeRepo struct {
	mu          sync.Mutex
	nextID      uint
	submissions []model.CodeSubmission
}

func (r *fakeCodeRepo) Create(s *model.CodeSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	r.submissions = append(r.submissions, *s)
	return nil
}

func (r *fakeCodeRepo) FindByEmail(email string) ([]model.CodeSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CodeSubmission
	for _, s := range r.submissions {
		if s.CandidateEmail == email {
			out = append(out, s)
		}
	}
	return out, nil
}

func codeRunnerConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Assessment.CodingRunTimeout = 5 * time.Second
	return cfg
}

func TestCodeRunner_UnsupportedLanguage(t *testing.T) {
	runner := NewCodeRunner(codeRunnerConfig(), &fakeCodeRepo{})

	for _, lang := range []string{"ruby", "javascript", "go", ""} {
		_, err := runner.Run(context.Background(), dto.CodeRunDTO{
			Email:    "a@b.com",
			Language: lang,
			Code:     "print(1)",
		})
		assert.ErrorIs(t, err, ErrInvalidInput, lang)
	}
}

func TestCodeRunner_LanguageIsNormalized(t *testing.T) {
	repo := &fakeCodeRepo{}
	runner := NewCodeRunner(codeRunnerConfig(), repo)

	// The run may fail if no python interpreter is installed; either way
	// the submission must be recorded with a normalized language tag.
	result, err := runner.Run(context.Background(), dto.CodeRunDTO{
		Email:    "Ada@Example.com",
		Language: "  Python ",
		Code:     "print('hi')",
	})
	if err != nil {
		t.Skipf("run not recordable in this environment: %v", err)
	}

	assert.NotZero(t, result.SubmissionID)
	history, findErr := runner.History("ada@example.com")
	assert.NoError(t, findErr)
	if assert.Len(t, history, 1) {
		assert.Equal(t, "python", history[0].Language)
	}
}

func TestJavaClassName(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "public class", code: "public class Solution { }", want: "Solution"},
		{name: "with package", code: "package x;\npublic class Runner {}", want: "Runner"},
		{name: "no public class", code: "class Hidden {}", want: "Main"},
		{name: "empty", code: "", want: "Main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, javaClassName(tt.code))
		})
	}
}
