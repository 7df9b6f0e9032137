package service

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/levitica/hireflow/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// JudgmentService is the external judgment capability: free-text completion
// for scoring/extraction/generation and embeddings for similarity. It is
// unreliable by assumption; callers own the fallback behavior.
type JudgmentService interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
	// Available reports whether the backend was configured at startup.
	// Absence is detected once in the constructor so callers route to
	// their fallbacks without probing per call.
	Available() bool
}

type geminiJudgmentService struct {
	model    *genai.GenerativeModel
	embedder *genai.EmbeddingModel
	cfg      *config.Config
}

func NewJudgmentService(cfg *config.Config) (JudgmentService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Judgment capability disabled; deterministic fallbacks will be used.")
		return &geminiJudgmentService{cfg: cfg}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Gemini.Model)
	model.SetTemperature(cfg.Gemini.Temperature)
	embedder := client.EmbeddingModel(cfg.Gemini.EmbeddingModel)

	return &geminiJudgmentService{model: model, embedder: embedder, cfg: cfg}, nil
}

func (s *geminiJudgmentService) Available() bool {
	return s.model != nil
}

func (s *geminiJudgmentService) Complete(ctx context.Context, prompt string) (string, error) {
	if s.model == nil {
		return "", ErrJudgmentUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Gemini.Timeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out += string(txt)
		}
	}
	if out == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return out, nil
}

func (s *geminiJudgmentService) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedder == nil {
		return nil, ErrJudgmentUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Gemini.Timeout)
	defer cancel()

	resp, err := s.embedder.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini returned an empty embedding")
	}
	return resp.Embedding.Values, nil
}
