package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/levitica/hireflow/config"
	"github.com/levitica/hireflow/internal/dto"
	"github.com/levitica/hireflow/internal/model"
	"github.com/levitica/hireflow/internal/repository"
	"github.com/rs/zerolog/log"
)

// CodeRunner compiles and executes candidate submissions in a throwaway
// directory with a hard wall-clock limit. Run failures (compile errors,
// runtime errors, timeouts) are recorded as unsuccessful submissions, not
// surfaced as service errors.
type CodeRunner interface {
	Run(ctx context.Context, req dto.CodeRunDTO) (*dto.CodeRunResultDTO, error)
	History(email string) ([]model.CodeSubmission, error)
}

type codeRunner struct {
	cfg  *config.Config
	repo repository.CodeSubmissionRepository
}

func NewCodeRunner(cfg *config.Config, repo repository.CodeSubmissionRepository) CodeRunner {
	return &codeRunner{cfg: cfg, repo: repo}
}

func (r *codeRunner) Run(ctx context.Context, req dto.CodeRunDTO) (*dto.CodeRunResultDTO, error) {
	language := strings.ToLower(strings.TrimSpace(req.Language))
	switch language {
	case "python", "cpp", "java":
	default:
		return nil, fmt.Errorf("%w: unsupported language %q", ErrInvalidInput, req.Language)
	}

	output, success := r.execute(ctx, language, req.Code)

	submission := &model.CodeSubmission{
		CandidateEmail: strings.ToLower(strings.TrimSpace(req.Email)),
		CandidateName:  req.Name,
		QuestionTitle:  req.QuestionTitle,
		Language:       language,
		Code:           req.Code,
		Output:         output,
		Success:        success,
	}
	if err := r.repo.Create(submission); err != nil {
		return nil, fmt.Errorf("persisting code submission: %w", err)
	}

	log.Info().Uint("submissionID", submission.ID).Str("language", language).
		Bool("success", success).Msg("Code submission executed")
	return &dto.CodeRunResultDTO{
		SubmissionID: submission.ID,
		Success:      success,
		Output:       output,
	}, nil
}

func (r *codeRunner) History(email string) ([]model.CodeSubmission, error) {
	return r.repo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
}

func (r *codeRunner) execute(ctx context.Context, language, code string) (string, bool) {
	dir, err := os.MkdirTemp("", "coderun-*")
	if err != nil {
		return fmt.Sprintf("sandbox setup failed: %v", err), false
	}
	defer os.RemoveAll(dir)

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Assessment.CodingRunTimeout)
	defer cancel()

	var steps [][]string
	switch language {
	case "python":
		src := filepath.Join(dir, "main.py")
		if err := os.WriteFile(src, []byte(code), 0o600); err != nil {
			return fmt.Sprintf("writing source failed: %v", err), false
		}
		steps = [][]string{{"python3", src}}
	case "cpp":
		src := filepath.Join(dir, "main.cpp")
		bin := filepath.Join(dir, "main")
		if err := os.WriteFile(src, []byte(code), 0o600); err != nil {
			return fmt.Sprintf("writing source failed: %v", err), false
		}
		steps = [][]string{{"g++", src, "-o", bin}, {bin}}
	case "java":
		// javac requires the file name to match the public class.
		className := javaClassName(code)
		src := filepath.Join(dir, className+".java")
		if err := os.WriteFile(src, []byte(code), 0o600); err != nil {
			return fmt.Sprintf("writing source failed: %v", err), false
		}
		steps = [][]string{{"javac", src}, {"java", "-cp", dir, className}}
	}

	var lastOutput string
	for _, step := range steps {
		cmd := exec.CommandContext(ctx, step[0], step[1:]...)
		cmd.Dir = dir
		var buf bytes.Buffer
		cmd.Stdout = &buf
		cmd.Stderr = &buf
		err := cmd.Run()
		lastOutput = buf.String()
		if ctx.Err() == context.DeadlineExceeded {
			return "execution timed out", false
		}
		if err != nil {
			if lastOutput == "" {
				lastOutput = err.Error()
			}
			return lastOutput, false
		}
	}
	return lastOutput, true
}

var javaClassPattern = regexp.MustCompile(`(?m)public\s+class\s+(\w+)`)

func javaClassName(code string) string {
	if m := javaClassPattern.FindStringSubmatch(code); len(m) == 2 {
		return m[1]
	}
	return "Main"
}
